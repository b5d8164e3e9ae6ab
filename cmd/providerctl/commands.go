package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/germanamz/providerctl/pkg/engine"
	"github.com/germanamz/providerctl/pkg/formsync"
	"github.com/germanamz/providerctl/pkg/provider"
)

var errNotInteractive = errors.New("this command needs an interactive terminal")

func runNew(ctx context.Context, eng *engine.Engine, typ, copyFrom string) error {
	if !interactive() {
		return errNotInteractive
	}

	var providers []provider.Config
	if copyFrom != "" {
		if _, err := provider.ParseID(copyFrom); err != nil {
			if providers, err = eng.Providers(ctx); err != nil {
				return err
			}
		}
	}
	src, err := copySourceID(copyFrom, providers)
	if err != nil {
		return err
	}
	return runEditor(ctx, eng, formsync.NewRoute(typ, src))
}

// copySourceID resolves the --copy-from value to a provider id. A value that
// is not an id is looked up by name in providers.
func copySourceID(ref string, providers []provider.Config) (string, error) {
	if ref == "" {
		return "", nil
	}
	if _, err := provider.ParseID(ref); err == nil {
		return ref, nil
	}
	p, ok := provider.FindByName(ref, providers)
	if !ok {
		return "", fmt.Errorf("no provider named %q to copy", ref)
	}
	return p.ID.String(), nil
}

func runEdit(ctx context.Context, eng *engine.Engine, target string) error {
	if !interactive() {
		return errNotInteractive
	}
	route, err := editRoute(target)
	if err != nil {
		return err
	}
	return runEditor(ctx, eng, route)
}

// editRoute accepts a provider id or a full editor route such as
// "/settings/providers/new?type=openai".
func editRoute(target string) (formsync.Route, error) {
	if strings.HasPrefix(target, "/") {
		return formsync.ParseRoute(target)
	}
	if _, err := provider.ParseID(target); err != nil {
		return formsync.Route{}, err
	}
	return formsync.EditRoute(target), nil
}

// runTestCmd tests a saved provider. On a terminal the results open in the
// viewer; otherwise the markdown report is written to w.
func runTestCmd(ctx context.Context, eng *engine.Engine, id string, w io.Writer) error {
	pid, err := provider.ParseID(id)
	if err != nil {
		return err
	}

	sid, sess, err := eng.OpenEditor(ctx, formsync.EditRoute(id), nil)
	if err != nil {
		return err
	}
	defer eng.CloseEditor(sid)

	saved, ok := sess.Saved()
	if !ok {
		return fmt.Errorf("provider %s not found", pid)
	}

	if interactive() {
		res, err := showTestResults(ctx, saved.Name, sess.Test)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, testSummary(res))
		return nil
	}

	res, err := sess.Test(ctx)
	if err != nil {
		if msg := sess.ErrorMessage(); msg != "" {
			return errors.New(msg)
		}
		return err
	}
	fmt.Fprint(w, testReport(saved.Name, res))
	return nil
}

func runDelete(ctx context.Context, eng *engine.Engine, id string, yes bool) error {
	pid, err := provider.ParseID(id)
	if err != nil {
		return err
	}

	sid, sess, err := eng.OpenEditor(ctx, formsync.EditRoute(id), nil)
	if err != nil {
		return err
	}
	defer eng.CloseEditor(sid)

	saved, ok := sess.Saved()
	if !ok {
		return fmt.Errorf("provider %s not found", pid)
	}

	if !yes {
		if !interactive() {
			return errors.New("refusing to delete without --yes on a non-interactive terminal")
		}
		confirm := false
		if err := huh.NewForm(huh.NewGroup(
			huh.NewConfirm().Title(fmt.Sprintf("Delete provider %q?", provider.Tooltip(saved))).Value(&confirm),
		)).Run(); err != nil || !confirm {
			return err
		}
	}

	if err := sess.Delete(ctx); err != nil {
		return err
	}
	fmt.Printf("Deleted %s\n", provider.DisplayName(saved))
	return nil
}

func runExport(ctx context.Context, eng *engine.Engine, id, out string) error {
	pid, err := provider.ParseID(id)
	if err != nil {
		return err
	}

	data, err := eng.Export(ctx, pid)
	if err != nil {
		return err
	}

	if out == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(out, data, 0o600); err != nil {
		return err
	}
	fmt.Printf("Exported to %s\n", out)
	return nil
}

func runImport(ctx context.Context, eng *engine.Engine, path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // path is caller-provided
	if err != nil {
		return err
	}

	c, err := eng.Import(ctx, data)
	if err != nil {
		return err
	}
	fmt.Printf("Created %s (id %s)\n", provider.Tooltip(c), c.ID)
	return nil
}
