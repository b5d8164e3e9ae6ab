package formsync_test

import (
	"encoding/json"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/germanamz/providerctl/pkg/formsync"
	"github.com/germanamz/providerctl/pkg/provider"
	"github.com/germanamz/providerctl/pkg/providerform"
)

const catalogJSON = `{
	"default": {
		"openai": {"id": "0", "name": "openai", "type": "openai",
			"agents": {"simple": {"model": "gpt-4-old"}, "coder": {"model": "gpt-4o"}}},
		"anthropic": {"id": "0", "name": "anthropic", "type": "anthropic",
			"agents": {"simple": {"model": "claude-3"}}}
	},
	"userDefined": [
		{"id": "42", "name": "Prod", "type": "anthropic",
			"agents": {"simple": {"model": "claude-custom", "temperature": 0.2}}}
	],
	"models": {
		"openai": [{"name": "gpt-4o"}, {"name": "gpt-4-new"}],
		"anthropic": [{"name": "claude-3"}]
	}
}`

func loadCatalog(t *testing.T) *provider.Catalog {
	t.Helper()

	var cat provider.Catalog
	require.NoError(t, json.Unmarshal([]byte(catalogJSON), &cat))

	return &cat
}

func mustRoute(t *testing.T, s string) formsync.Route {
	t.Helper()

	r, err := formsync.ParseRoute(s)
	require.NoError(t, err)

	return r
}

func agentModel(t *testing.T, f providerform.Form, role string) string {
	t.Helper()

	a, ok := f.Agents.Get(role)
	require.True(t, ok, "missing agent %q", role)

	return a.Model
}

func TestParseRoute(t *testing.T) {
	r := mustRoute(t, "/settings/providers/new?type=openai&id=42")
	assert.True(t, r.IsNew)
	assert.Equal(t, "openai", r.Query.Get("type"))
	assert.Equal(t, "42", r.Query.Get("id"))

	r = mustRoute(t, "/settings/providers/42/")
	assert.False(t, r.IsNew)
	assert.Equal(t, "42", r.ProviderID)
	assert.Equal(t, "/settings/providers/42", r.String())

	for _, bad := range []string{"/settings/providers", "/settings/other/1", "/settings/providers/1/2", "%zz"} {
		_, err := formsync.ParseRoute(bad)
		assert.Error(t, err, bad)
	}
}

func TestRouteConstructors(t *testing.T) {
	assert.Equal(t, "/settings/providers/new?id=42&type=openai", formsync.NewRoute("openai", "42").String())
	assert.Equal(t, "/settings/providers/new", formsync.NewRoute("", "").String())
	assert.Equal(t, "/settings/providers/7", formsync.EditRoute("7").String())
}

func TestReconcile_NoCatalogDoesNothing(t *testing.T) {
	var c formsync.Controller
	f := providerform.Form{Name: "untouched"}

	eff := c.Reconcile(formsync.Inputs{Route: mustRoute(t, "/settings/providers/new?type=openai")}, &f)

	assert.False(t, eff.Changed())
	assert.Equal(t, "untouched", f.Name)
}

func TestReconcile_ExistingProvider(t *testing.T) {
	cat := loadCatalog(t)
	var c formsync.Controller
	var f providerform.Form

	in := formsync.Inputs{Catalog: cat, Route: mustRoute(t, "/settings/providers/42?type=openai")}
	eff := c.Reconcile(in, &f)

	assert.True(t, eff.Reset)
	assert.Equal(t, url.Values{}, eff.Query, "leftover query is cleared")
	assert.Equal(t, "Prod", f.Name)
	assert.Equal(t, "anthropic", f.Type)
	assert.Equal(t, "claude-custom", agentModel(t, f, "simple"))

	f.Name = "edited"
	in.Route = in.Route.WithQuery(nil)
	eff = c.Reconcile(in, &f)
	assert.False(t, eff.Changed(), "same id and catalog keep edits")
	assert.Equal(t, "edited", f.Name)

	in.Catalog = loadCatalog(t)
	eff = c.Reconcile(in, &f)
	assert.True(t, eff.Reset, "refetched catalog resets")
	assert.Equal(t, "Prod", f.Name)
}

func TestReconcile_ExistingNotFoundNavigates(t *testing.T) {
	cat := loadCatalog(t)

	for _, route := range []string{"/settings/providers/7", "/settings/providers/abc"} {
		var c formsync.Controller
		var f providerform.Form

		eff := c.Reconcile(formsync.Inputs{Catalog: cat, Route: mustRoute(t, route)}, &f)

		assert.Equal(t, formsync.ListRoute, eff.Navigate, route)
		assert.False(t, eff.Reset, route)
	}
}

func TestReconcile_NewWithTypeFillsDefaults(t *testing.T) {
	cat := loadCatalog(t)
	var c formsync.Controller
	var f providerform.Form

	in := formsync.Inputs{Catalog: cat, Route: mustRoute(t, "/settings/providers/new?type=openai")}
	eff := c.Reconcile(in, &f)

	assert.True(t, eff.Reset)
	assert.True(t, eff.AgentsFilled)
	assert.Nil(t, eff.Query, "query already matches")
	assert.Equal(t, "openai", f.Type)
	assert.Equal(t, []string{"simple", "coder"}, f.Agents.Keys())
	assert.Equal(t, "gpt-4-new", agentModel(t, f, "simple"), "unavailable default replaced by first available")
	assert.Equal(t, "gpt-4o", agentModel(t, f, "coder"))
}

func TestReconcile_DefaultFillOnlyOnTypeChange(t *testing.T) {
	cat := loadCatalog(t)
	var c formsync.Controller
	var f providerform.Form

	in := formsync.Inputs{Catalog: cat, Route: mustRoute(t, "/settings/providers/new?type=openai")}
	c.Reconcile(in, &f)

	a, _ := f.Agents.Get("coder")
	a.Model = "my-model"
	f.Agents.Set("coder", a)

	in.Catalog = loadCatalog(t)
	eff := c.Reconcile(in, &f)
	assert.False(t, eff.Changed(), "refetch keeps edits")
	assert.Equal(t, "my-model", agentModel(t, f, "coder"))

	f.Type = "anthropic"
	eff = c.Reconcile(in, &f)
	assert.True(t, eff.AgentsFilled)
	assert.Equal(t, []string{"simple"}, f.Agents.Keys())
	assert.Equal(t, url.Values{"type": {"anthropic"}}, eff.Query)
}

func TestReconcile_TypeReflectedIntoQuery(t *testing.T) {
	cat := loadCatalog(t)
	var c formsync.Controller
	var f providerform.Form

	in := formsync.Inputs{Catalog: cat, Route: mustRoute(t, "/settings/providers/new")}
	eff := c.Reconcile(in, &f)
	assert.True(t, eff.Reset)
	assert.Nil(t, eff.Query)
	assert.Empty(t, f.Type)

	f.Type = "openai"
	eff = c.Reconcile(in, &f)
	require.NotNil(t, eff.Query)
	assert.Equal(t, "openai", eff.Query.Get("type"))

	in.Route = in.Route.WithQuery(eff.Query)
	eff = c.Reconcile(in, &f)
	assert.False(t, eff.Changed(), "stable once applied")

	f.Type = ""
	eff = c.Reconcile(in, &f)
	require.NotNil(t, eff.Query)
	assert.False(t, eff.Query.Has("type"))
}

func TestReconcile_UnknownQueryTypeIgnored(t *testing.T) {
	cat := loadCatalog(t)
	var c formsync.Controller
	var f providerform.Form

	eff := c.Reconcile(formsync.Inputs{Catalog: cat, Route: mustRoute(t, "/settings/providers/new?type=bogus")}, &f)

	assert.Empty(t, f.Type)
	require.NotNil(t, eff.Query)
	assert.False(t, eff.Query.Has("type"))
}

func TestReconcile_CopySeed(t *testing.T) {
	cat := loadCatalog(t)
	var c formsync.Controller
	var f providerform.Form

	in := formsync.Inputs{Catalog: cat, Route: mustRoute(t, "/settings/providers/new?id=42&type=openai")}
	eff := c.Reconcile(in, &f)

	assert.True(t, eff.Reset)
	assert.False(t, eff.AgentsFilled)
	assert.Nil(t, eff.Query, "reflection suppressed while copy-seeded")
	assert.True(t, c.CopySeeded())
	assert.Equal(t, "Prod (Copy)", f.Name)
	assert.Equal(t, "anthropic", f.Type)
	assert.Equal(t, "claude-custom", agentModel(t, f, "simple"))

	eff = c.Reconcile(in, &f)
	assert.False(t, eff.Changed())
	assert.Equal(t, "claude-custom", agentModel(t, f, "simple"), "no default fill after copy")

	f.Type = "openai"
	eff = c.Reconcile(in, &f)
	assert.True(t, eff.AgentsFilled)
	assert.False(t, c.CopySeeded())
	assert.Equal(t, "Prod (Copy)", f.Name)
	assert.Nil(t, eff.Query, "query already says openai")

	f.Type = "anthropic"
	eff = c.Reconcile(in, &f)
	require.NotNil(t, eff.Query)
	assert.Equal(t, "anthropic", eff.Query.Get("type"))
	assert.Equal(t, "42", eff.Query.Get("id"))
}

func TestReconcile_CopySourceMissingFallsBackToType(t *testing.T) {
	cat := loadCatalog(t)
	var c formsync.Controller
	var f providerform.Form

	eff := c.Reconcile(formsync.Inputs{Catalog: cat, Route: mustRoute(t, "/settings/providers/new?id=999&type=openai")}, &f)

	assert.True(t, eff.Reset)
	assert.True(t, eff.AgentsFilled)
	assert.False(t, c.CopySeeded())
	assert.Equal(t, "openai", f.Type)
	assert.Empty(t, f.Name)
}

func TestReconcile_RouteChangeRestarts(t *testing.T) {
	cat := loadCatalog(t)
	var c formsync.Controller
	var f providerform.Form

	c.Reconcile(formsync.Inputs{Catalog: cat, Route: mustRoute(t, "/settings/providers/42")}, &f)
	assert.Equal(t, "Prod", f.Name)

	eff := c.Reconcile(formsync.Inputs{Catalog: cat, Route: mustRoute(t, "/settings/providers/new")}, &f)
	assert.True(t, eff.Reset)
	assert.Empty(t, f.Name)
	assert.Zero(t, f.Agents.Len())
}
