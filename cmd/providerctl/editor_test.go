package main

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/charmbracelet/huh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/germanamz/providerctl/pkg/editor"
	"github.com/germanamz/providerctl/pkg/engine"
	"github.com/germanamz/providerctl/pkg/formsync"
	"github.com/germanamz/providerctl/pkg/provider"
	"github.com/germanamz/providerctl/pkg/providerform"
)

type stubBackend struct {
	cat *provider.Catalog
}

func (b stubBackend) Catalog(context.Context) (*provider.Catalog, error) { return b.cat, nil }

func (b stubBackend) CreateProvider(context.Context, provider.MutationInput) (provider.Config, error) {
	return provider.Config{}, nil
}

func (b stubBackend) UpdateProvider(context.Context, provider.ID, provider.MutationInput) (provider.Config, error) {
	return provider.Config{}, nil
}

func (b stubBackend) DeleteProvider(context.Context, provider.ID) error { return nil }

func (b stubBackend) TestProvider(context.Context, provider.MutationInput) (provider.TestResults, error) {
	return provider.TestResults{}, nil
}

func optionValues(opts []huh.Option[string]) []string {
	out := make([]string, len(opts))
	for i, o := range opts {
		out[i] = o.Value
	}
	return out
}

func TestMenuOptions(t *testing.T) {
	var form providerform.Form
	form.Name = "Production"
	form.Agents.Set("simple", providerform.AgentFields{Model: "gpt-4o"})

	newOpts := menuOptions(true, form, []string{"simple", "coder"})
	assert.Equal(t, []string{"type", "name", "agent:simple", "agent:coder", "test", "save", "quit"}, optionValues(newOpts))
	assert.Equal(t, "Type: -", newOpts[0].Key)
	assert.Equal(t, "Agent: Simple (gpt-4o)", newOpts[2].Key)
	assert.Equal(t, "Agent: Coder (-)", newOpts[3].Key)

	editOpts := menuOptions(false, form, []string{"simple"})
	assert.Equal(t, []string{"name", "agent:simple", "test", "save", "delete", "quit"}, optionValues(editOpts))
}

func TestModelOptions(t *testing.T) {
	models := []provider.ModelOption{
		{Name: "gpt-4o", Price: &provider.Price{Input: 2.5, Output: 10}},
		{Name: "o3", Thinking: true},
	}

	assert.Equal(t, []string{"gpt-4o", "o3", customModel}, optionValues(modelOptions(models, "gpt-4o")))
	assert.Equal(t, []string{"gpt-4o", "o3", "my-finetune", customModel}, optionValues(modelOptions(models, "my-finetune")))
	assert.Equal(t, []string{customModel}, optionValues(modelOptions(nil, "")))

	opts := modelOptions(models, "")
	assert.Contains(t, opts[0].Key, "$2.5/$10")
	assert.Contains(t, opts[1].Key, "reasoning")
}

func TestAgentEditResult(t *testing.T) {
	t.Run("custom model and empty blocks", func(t *testing.T) {
		e := newAgentEdit(providerform.AgentFields{Model: "gpt-4o", Temperature: "0.7"})
		e.fields.Model = customModel
		e.custom = "  my-model  "

		got := e.result()
		assert.Equal(t, "my-model", got.Model)
		assert.Equal(t, "0.7", got.Temperature)
		assert.Nil(t, got.Reasoning)
		assert.Nil(t, got.Price)
	})

	t.Run("keeps filled blocks", func(t *testing.T) {
		e := newAgentEdit(providerform.AgentFields{
			Model:     "o3",
			Reasoning: &providerform.ReasoningFields{Effort: "high"},
			Price:     &providerform.PriceFields{Input: "1"},
		})

		got := e.result()
		require.NotNil(t, got.Reasoning)
		assert.Equal(t, "high", got.Reasoning.Effort)
		require.NotNil(t, got.Price)
		assert.Equal(t, "1", got.Price.Input)
	})

	t.Run("clearing drops blocks", func(t *testing.T) {
		e := newAgentEdit(providerform.AgentFields{
			Model:     "o3",
			Reasoning: &providerform.ReasoningFields{Effort: "low"},
		})
		e.reasoning.Effort = ""

		assert.Nil(t, e.result().Reasoning)
	})
}

func TestEditorTitleAndHeader(t *testing.T) {
	var agents provider.AgentMap[provider.AgentConfig]
	agents.Set("simple", provider.AgentConfig{Model: "gpt-4o"})
	cat := &provider.Catalog{
		UserDefined: []provider.Config{{ID: 5, Name: "Production", Type: "openai", Agents: agents}},
	}

	edit := editor.New(stubBackend{cat: cat}, nil, formsync.EditRoute("5"))
	require.NoError(t, edit.Load(context.Background()))
	assert.Equal(t, "Edit provider: Production", editorTitle(edit))
	assert.Empty(t, editorHeader(edit))

	create := editor.New(stubBackend{cat: cat}, nil, formsync.NewRoute("", ""))
	require.NoError(t, create.Load(context.Background()))
	assert.Equal(t, "New provider", editorTitle(create))

	require.Error(t, create.Submit(context.Background()))
	header := editorHeader(create)
	assert.Contains(t, header, "Please fix the following validation errors")
	assert.Contains(t, header, providerform.MsgNameRequired)
}

func TestEditRoute(t *testing.T) {
	r, err := editRoute("42")
	require.NoError(t, err)
	assert.Equal(t, formsync.EditRoute("42"), r)

	r, err = editRoute("/settings/providers/new?type=openai&id=7")
	require.NoError(t, err)
	assert.True(t, r.IsNew)
	assert.Equal(t, "openai", r.Query.Get("type"))
	assert.Equal(t, "7", r.Query.Get("id"))

	_, err = editRoute("abc")
	assert.Error(t, err)

	_, err = editRoute("/elsewhere")
	assert.Error(t, err)
}

func TestActivityLabel(t *testing.T) {
	assert.Equal(t, "Saving…", activityLabel(editor.ActionSubmit))
	assert.Equal(t, "Deleting…", activityLabel(editor.ActionDelete))
	assert.Empty(t, activityLabel(editor.ActionTest))
}

func TestCopySourceID(t *testing.T) {
	providers := []provider.Config{
		{ID: 5, Name: "Production", Type: "openai"},
		{ID: 9, Name: "Staging", Type: "anthropic"},
	}

	id, err := copySourceID("", providers)
	require.NoError(t, err)
	assert.Empty(t, id)

	id, err = copySourceID("42", nil)
	require.NoError(t, err)
	assert.Equal(t, "42", id)

	id, err = copySourceID("Staging", providers)
	require.NoError(t, err)
	assert.Equal(t, "9", id)

	_, err = copySourceID("Missing", providers)
	assert.ErrorContains(t, err, `no provider named "Missing"`)
}

func TestMenuForm_SlotsEveryRole(t *testing.T) {
	var agents provider.AgentMap[provider.AgentConfig]
	agents.Set("simple", provider.AgentConfig{Model: "gpt-4o"})
	agents.Set("coder", provider.AgentConfig{Model: "gpt-4o"})
	cat := &provider.Catalog{
		Defaults: []provider.TypeDefault{{Type: "openai", Config: provider.Config{Type: "openai", Agents: agents}}},
	}

	sess := editor.New(stubBackend{cat: cat}, nil, formsync.NewRoute("", ""))
	require.NoError(t, sess.Load(context.Background()))
	require.Zero(t, sess.Form().Agents.Len())

	form, roles := menuForm(sess)
	assert.Equal(t, []string{"coder", "simple"}, roles)
	assert.Equal(t, roles, form.Agents.Keys())
	assert.Zero(t, sess.Form().Agents.Len(), "session form untouched")
}

func TestEditorHeader_CopyAndNameClash(t *testing.T) {
	cat := &provider.Catalog{
		UserDefined: []provider.Config{{ID: 5, Name: "Production", Type: "openai"}},
	}

	copied := editor.New(stubBackend{cat: cat}, nil, formsync.NewRoute("", "5"))
	require.NoError(t, copied.Load(context.Background()))
	assert.Contains(t, editorHeader(copied), "Copy of Production - openai")
	assert.NotContains(t, editorHeader(copied), "already exists")

	copied.Update(func(f *providerform.Form) { f.Name = "Production" })
	assert.Contains(t, editorHeader(copied), `A provider "Production - openai" already exists.`)

	copied.SetType("anthropic")
	header := editorHeader(copied)
	assert.NotContains(t, header, "Copy of")
	assert.NotContains(t, header, "already exists")
}

func TestPrintActivity_ReportsDropped(t *testing.T) {
	bus := engine.NewEventBus()
	sub := bus.SubscribeFilter(1, engine.Filter{Kinds: []engine.EventKind{engine.EventActionStart}})

	for range 3 {
		bus.Publish(engine.Event{Kind: engine.EventActionStart, Data: editor.ActionSubmit})
	}
	bus.Unsubscribe(sub)

	var out, logs bytes.Buffer
	printActivity(&out, sub, slog.New(slog.NewTextHandler(&logs, nil)))

	assert.Equal(t, 1, strings.Count(out.String(), "Saving…"))
	assert.Contains(t, logs.String(), "activity events dropped")
	assert.Contains(t, logs.String(), "count=2")
}
