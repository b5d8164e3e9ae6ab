package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/germanamz/providerctl/pkg/editor"
	"github.com/germanamz/providerctl/pkg/engine"
	"github.com/germanamz/providerctl/pkg/formsync"
	"github.com/germanamz/providerctl/pkg/provider"
	"github.com/germanamz/providerctl/pkg/providerform"
)

// customModel is the select value that switches the model field to free text.
const customModel = "\x00custom"

// runEditor opens an editor session at route and drives it with a menu loop
// until the session navigates away or the user quits.
func runEditor(ctx context.Context, eng *engine.Engine, route formsync.Route) error {
	var left string
	nav := editor.NavigatorFunc(func(to string) { left = to })

	id, sess, err := eng.OpenEditor(ctx, route, nav)
	if err != nil {
		return err
	}
	defer eng.CloseEditor(id)

	sub := eng.Events().SubscribeFilter(8, engine.Filter{SessionID: id, Kinds: []engine.EventKind{engine.EventActionStart}})
	defer eng.Events().Unsubscribe(sub)
	go printActivity(os.Stdout, sub, eng.Logger().With("session", id))

	// Edit routes of unknown providers redirect during load.
	if left != "" {
		return fmt.Errorf("provider %s not found", route.ProviderID)
	}

	for {
		done, err := editorMenu(ctx, sess)
		if err != nil {
			return err
		}
		if left != "" {
			fmt.Println(passStyle.Render("Done.") + " " + dimStyle.Render("Returned to "+left))
			return nil
		}
		if done {
			return nil
		}
	}
}

// printActivity reports saves and deletes while they run, until sub is
// unsubscribed. Test runs are left out because the results viewer owns the
// screen.
func printActivity(w io.Writer, sub *engine.Subscription, log *slog.Logger) {
	for e := range sub.C {
		a, _ := e.Data.(editor.Action)
		if label := activityLabel(a); label != "" {
			fmt.Fprintln(w, dimStyle.Render(label))
		}
	}
	if n := sub.Dropped(); n > 0 {
		log.Warn("activity events dropped", "count", n)
	}
}

func activityLabel(a editor.Action) string {
	switch a {
	case editor.ActionSubmit:
		return "Saving…"
	case editor.ActionDelete:
		return "Deleting…"
	default:
		return ""
	}
}

// editorMenu shows the session status and the top-level menu once, and runs
// the chosen action. It reports done when the user asked to quit.
func editorMenu(ctx context.Context, sess *editor.Session) (bool, error) {
	fmt.Println(editorHeader(sess))

	form, roles := menuForm(sess)
	var choice string
	err := huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title(editorTitle(sess)).
			Options(menuOptions(sess.IsNew(), form, roles)...).
			Value(&choice),
	)).Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return true, nil
	}
	if err != nil {
		return false, err
	}

	switch {
	case choice == "type":
		return false, editType(sess)
	case choice == "name":
		return false, editName(sess)
	case strings.HasPrefix(choice, "agent:"):
		return false, editAgent(sess, strings.TrimPrefix(choice, "agent:"))
	case choice == "test":
		runTest(ctx, sess)
	case choice == "save":
		return false, reviewAndSubmit(ctx, sess)
	case choice == "delete":
		return false, confirmDelete(ctx, sess)
	case choice == "quit":
		return true, nil
	}
	return false, nil
}

// menuForm returns a copy of the session form holding a slot for every agent
// role the editor shows, along with those roles.
func menuForm(sess *editor.Session) (providerform.Form, []string) {
	form := sess.Form()
	roles := sess.AgentTypes()
	form.EnsureAgents(roles)
	return form, roles
}

func editorTitle(sess *editor.Session) string {
	if sess.IsNew() {
		return "New provider"
	}
	if saved, ok := sess.Saved(); ok {
		return "Edit provider: " + provider.DisplayName(saved)
	}
	return "Edit provider"
}

// editorHeader renders the copy source of a new provider, a name clash with
// a saved provider, the pending error and field errors.
func editorHeader(sess *editor.Session) string {
	var parts []string
	if src, ok := sess.CopiedFrom(); ok {
		parts = append(parts, dimStyle.Render("Copy of "+provider.Tooltip(src)))
	}
	if sess.IsNew() {
		if cat := sess.Catalog(); cat != nil {
			form := sess.Form()
			c := provider.Config{Name: strings.TrimSpace(form.Name), Type: provider.Type(form.Type)}
			if c.Name != "" && provider.IsValid(c, cat.UserDefined) {
				parts = append(parts, unknownStyle.Render(fmt.Sprintf("A provider %q already exists.", provider.Tooltip(c))))
			}
		}
	}
	if msg := sess.ErrorMessage(); msg != "" {
		parts = append(parts, errorBlockStyle.Render(msg))
	}
	if errs := sess.FieldErrors(); len(errs) > 0 {
		parts = append(parts, errorBlockStyle.Render(providerform.FormatValidationErrors(errs)))
	}
	return strings.Join(parts, "\n")
}

// menuOptions lists the editor actions for the current form. The type can
// only be chosen while creating a provider.
func menuOptions(isNew bool, form providerform.Form, roles []string) []huh.Option[string] {
	var opts []huh.Option[string]
	if isNew {
		opts = append(opts, huh.NewOption("Type: "+orDash(form.Type), "type"))
	}
	opts = append(opts, huh.NewOption("Name: "+orDash(form.Name), "name"))

	for _, role := range roles {
		a, _ := form.Agents.Get(role)
		label := fmt.Sprintf("Agent: %s (%s)", provider.RoleDisplayName(role), orDash(a.Model))
		opts = append(opts, huh.NewOption(label, "agent:"+role))
	}

	opts = append(opts,
		huh.NewOption("Test", "test"),
		huh.NewOption("Review & Save", "save"),
	)
	if !isNew {
		opts = append(opts, huh.NewOption("Delete", "delete"))
	}
	return append(opts, huh.NewOption("Quit", "quit"))
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func editType(sess *editor.Session) error {
	types := sess.Catalog().Types()
	if len(types) == 0 {
		types = provider.KnownTypes()
	}

	opts := make([]huh.Option[string], len(types))
	for i, t := range types {
		opts[i] = huh.NewOption(string(t), string(t))
	}

	choice := sess.Form().Type
	err := huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().Title("Provider type").Options(opts...).Value(&choice),
	)).Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return nil
	}
	if err != nil {
		return err
	}

	sess.SetType(provider.Type(choice))
	return nil
}

func editName(sess *editor.Session) error {
	name := sess.Form().Name
	err := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Provider name").
			Description(sess.FieldErrors().For("name")).
			CharLimit(providerform.MaxNameLength).
			Value(&name),
	)).Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return nil
	}
	if err != nil {
		return err
	}

	sess.Update(func(f *providerform.Form) { f.Name = name })
	return nil
}

// modelOptions builds the model choices: the models matching the search,
// the current value when it is not one of them, and a custom entry.
func modelOptions(models []provider.ModelOption, current string) []huh.Option[string] {
	opts := make([]huh.Option[string], 0, len(models)+2)
	found := false
	for _, m := range models {
		label := m.Name + "  " + dimStyle.Render(provider.FormatPrice(m.Price))
		if m.Thinking {
			label += dimStyle.Render(" · reasoning")
		}
		opts = append(opts, huh.NewOption(label, m.Name))
		found = found || m.Name == current
	}
	if current != "" && !found {
		opts = append(opts, huh.NewOption(current+"  "+dimStyle.Render("(current)"), current))
	}
	return append(opts, huh.NewOption("Custom…", customModel))
}

// agentEdit holds the text bound to the agent form inputs.
type agentEdit struct {
	fields    providerform.AgentFields
	search    string
	custom    string
	reasoning providerform.ReasoningFields
	price     providerform.PriceFields
}

func newAgentEdit(a providerform.AgentFields) *agentEdit {
	e := &agentEdit{fields: a}
	if a.Reasoning != nil {
		e.reasoning = *a.Reasoning
	}
	if a.Price != nil {
		e.price = *a.Price
	}
	return e
}

// result folds the bound inputs back into agent fields. Optional blocks
// left blank are dropped.
func (e *agentEdit) result() providerform.AgentFields {
	a := e.fields
	if a.Model == customModel {
		a.Model = strings.TrimSpace(e.custom)
	}

	a.Reasoning = nil
	if e.reasoning.Effort != "" || strings.TrimSpace(e.reasoning.MaxTokens) != "" {
		r := e.reasoning
		a.Reasoning = &r
	}

	a.Price = nil
	if strings.TrimSpace(e.price.Input) != "" || strings.TrimSpace(e.price.Output) != "" {
		p := e.price
		a.Price = &p
	}
	return a
}

func editAgent(sess *editor.Session, role string) error {
	form := sess.Form()
	current, _ := form.Agents.Get(role)
	models := sess.Models()
	errs := sess.FieldErrors()
	base := "agents." + role + "."

	e := newAgentEdit(current)

	modelGroup := huh.NewGroup(
		huh.NewInput().
			Title("Search models").
			Placeholder("blank shows all").
			Value(&e.search),
		huh.NewSelect[string]().
			Title("Model").
			Description(errs.For(base+"model")).
			OptionsFunc(func() []huh.Option[string] {
				return modelOptions(providerform.SearchModels(models, e.search), current.Model)
			}, &e.search).
			Value(&e.fields.Model),
		huh.NewInput().
			Title("Custom model").
			Description("Used when Custom… is selected").
			Value(&e.custom),
	).Title(provider.RoleDisplayName(role))

	var numbers []huh.Field
	for _, nf := range providerform.NumberFields() {
		desc := errs.For(base + nf.Key)
		if desc == "" && nf.Min != "" {
			desc = "min " + nf.Min
			if nf.Max != "" {
				desc += ", max " + nf.Max
			}
		}
		numbers = append(numbers, huh.NewInput().
			Title(nf.Label).
			Description(desc).
			Placeholder(nf.Placeholder).
			Value(nf.Ref(&e.fields)))
	}

	reasoningGroup := huh.NewGroup(
		huh.NewSelect[string]().
			Title("Reasoning effort").
			Options(
				huh.NewOption("None", ""),
				huh.NewOption("Low", string(provider.EffortLow)),
				huh.NewOption("Medium", string(provider.EffortMedium)),
				huh.NewOption("High", string(provider.EffortHigh)),
			).
			Value(&e.reasoning.Effort),
		huh.NewInput().
			Title("Reasoning max tokens").
			Description(errs.For(base+"reasoning.maxTokens")).
			Value(&e.reasoning.MaxTokens),
	).Title("Reasoning")

	priceGroup := huh.NewGroup(
		huh.NewInput().
			Title("Input price").
			Description(errs.For(base+"price.input")).
			Value(&e.price.Input),
		huh.NewInput().
			Title("Output price").
			Description(errs.For(base+"price.output")).
			Value(&e.price.Output),
	).Title("Price")

	err := huh.NewForm(
		modelGroup,
		huh.NewGroup(numbers...).Title("Parameters"),
		reasoningGroup,
		priceGroup,
	).Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return nil
	}
	if err != nil {
		return err
	}

	updated := e.result()
	sess.Update(func(f *providerform.Form) { f.Agents.Set(role, updated) })
	return nil
}

func runTest(ctx context.Context, sess *editor.Session) {
	name := sess.Form().Name
	res, err := showTestResults(ctx, name, sess.Test)
	sess.DismissTestResults()

	// On failure the session keeps the message for the next header.
	switch {
	case errors.Is(err, errTestCancelled):
		fmt.Println(dimStyle.Render("Test cancelled."))
	case err == nil:
		fmt.Println(testSummary(res))
	}
}

func reviewAndSubmit(ctx context.Context, sess *editor.Session) error {
	in := providerform.ToMutationInput(sess.Form())

	var saved *provider.Config
	if c, ok := sess.Saved(); ok {
		saved = &c
	}

	diff, err := changeDiff(saved, in)
	if err != nil {
		return err
	}
	if diff == "" {
		fmt.Println(dimStyle.Render("No changes."))
	} else {
		fmt.Println(colorizeDiff(diff))
	}

	confirm := true
	err = huh.NewForm(huh.NewGroup(
		huh.NewConfirm().Title("Save provider?").Value(&confirm),
	)).Run()
	if errors.Is(err, huh.ErrUserAborted) || (err == nil && !confirm) {
		return nil
	}
	if err != nil {
		return err
	}

	if err := sess.Submit(ctx); err != nil {
		var verrs providerform.ValidationErrors
		if !errors.As(err, &verrs) && !errors.Is(err, editor.ErrBusy) {
			fmt.Fprintf(os.Stderr, "Save failed. Returning to menu.\n")
		}
	}
	return nil
}

func confirmDelete(ctx context.Context, sess *editor.Session) error {
	confirm := false
	err := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title("Delete provider?").
			Description("This cannot be undone.").
			Value(&confirm),
	)).Run()
	if errors.Is(err, huh.ErrUserAborted) || (err == nil && !confirm) {
		return nil
	}
	if err != nil {
		return err
	}

	if err := sess.Delete(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Delete failed. Returning to menu.\n")
	}
	return nil
}
