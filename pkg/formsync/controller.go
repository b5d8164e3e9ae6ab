package formsync

import (
	"net/url"
	"slices"

	"github.com/germanamz/providerctl/pkg/provider"
	"github.com/germanamz/providerctl/pkg/providerform"
)

// Inputs are the external values the form follows. Catalog is nil until the
// first fetch completes; a refetch yields a new pointer.
type Inputs struct {
	Catalog *provider.Catalog
	Route   Route
}

// Effects reports what a reconcile step did or wants done. Form changes are
// applied in place; Query and Navigate are for the caller to apply.
type Effects struct {
	Reset        bool       // form replaced from a record, a copy or the query
	AgentsFilled bool       // agents replaced by the selected type's defaults
	Query        url.Values // non-nil: replace the route's query with this
	Navigate     string     // non-empty: leave the editor for this route
}

// Changed reports whether the step did anything.
func (e Effects) Changed() bool {
	return e.Reset || e.AgentsFilled || e.Query != nil || e.Navigate != ""
}

// Controller keeps a provider form consistent with the route, the catalog
// and the user's type selection. The zero value is ready to use. It is not
// safe for concurrent use.
type Controller struct {
	routeKey    string
	lastCatalog *provider.Catalog
	lastID      string

	bootstrapped bool
	copySeeded   bool
	seededType   string
	filledType   string
}

// Reconcile runs one synchronization step over in, mutating form. Call it
// whenever the route, the catalog or the form's type changes. Rules are
// evaluated in a fixed priority:
//
//  1. without a catalog nothing happens;
//  2. an edit route resets the form from the saved record when the id or the
//     catalog changed, and leaves the editor when the record is gone;
//  3. the first pass of a create route seeds the form from the provider
//     named by the id parameter, or else from the type parameter;
//  4. a newly selected type replaces the agents with that type's defaults;
//  5. the type parameter follows the selected type, except on a copy whose
//     type the user has not changed yet.
func (c *Controller) Reconcile(in Inputs, form *providerform.Form) Effects {
	var eff Effects

	if key := in.Route.Key(); key != c.routeKey {
		*c = Controller{routeKey: key}
	}

	cat := in.Catalog
	if cat == nil {
		return eff
	}

	if !in.Route.IsNew {
		return c.syncExisting(in, form)
	}

	if !c.bootstrapped {
		c.bootstrapped = true
		c.lastCatalog = cat

		if p, ok := copySource(cat, in.Route.Query.Get("id")); ok {
			*form = providerform.CopyOf(p)
			c.copySeeded = true
			c.seededType = form.Type
			c.filledType = form.Type
			eff.Reset = true
			return eff
		}

		*form = providerform.New(queryType(cat, in.Route.Query.Get("type")))
		eff.Reset = true
	}
	c.lastCatalog = cat

	if form.Type != "" && form.Type != c.filledType {
		t := provider.Type(form.Type)
		if agents, ok := providerform.DefaultAgents(cat, t, providerform.AvailableModels(cat, t)); ok {
			form.Agents = agents
			eff.AgentsFilled = true
		}
		c.filledType = form.Type
	}

	if c.copySeeded && form.Type != c.seededType {
		c.copySeeded = false
	}
	if !c.copySeeded {
		if q, changed := reflectType(in.Route.Query, form.Type); changed {
			eff.Query = q
		}
	}

	return eff
}

func (c *Controller) syncExisting(in Inputs, form *providerform.Form) Effects {
	var eff Effects

	if len(in.Route.Query) > 0 {
		eff.Query = url.Values{}
	}

	id := in.Route.ProviderID
	if id == c.lastID && in.Catalog == c.lastCatalog {
		return eff
	}
	c.lastID = id
	c.lastCatalog = in.Catalog

	pid, err := provider.ParseID(id)
	if err != nil {
		eff.Navigate = ListRoute
		return eff
	}
	p, ok := in.Catalog.ProviderByID(pid)
	if !ok {
		eff.Navigate = ListRoute
		return eff
	}

	*form = providerform.FromConfig(p)
	eff.Reset = true
	return eff
}

// CopySeeded reports whether the form currently holds an unmodified copy of
// another provider's type.
func (c *Controller) CopySeeded() bool { return c.copySeeded }

func copySource(cat *provider.Catalog, raw string) (provider.Config, bool) {
	if raw == "" {
		return provider.Config{}, false
	}
	id, err := provider.ParseID(raw)
	if err != nil {
		return provider.Config{}, false
	}
	return cat.ProviderByID(id)
}

// queryType accepts the type parameter only when it names a provider type
// the platform knows.
func queryType(cat *provider.Catalog, raw string) provider.Type {
	t := provider.Type(raw)
	if t == "" {
		return ""
	}
	if slices.Contains(cat.Types(), t) || slices.Contains(provider.KnownTypes(), t) {
		return t
	}
	return ""
}

func reflectType(q url.Values, selected string) (url.Values, bool) {
	if q.Get("type") == selected && (selected != "" || !q.Has("type")) {
		return nil, false
	}

	out := url.Values{}
	for k, v := range q {
		out[k] = slices.Clone(v)
	}
	if selected == "" {
		out.Del("type")
	} else {
		out.Set("type", selected)
	}
	return out, true
}
