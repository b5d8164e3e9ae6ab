package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/germanamz/providerctl/pkg/engine"
)

const usage = `Usage: providerctl <command> [flags] [args]

Commands:
  list                 List saved providers
  new                  Create a provider interactively
  edit <id|route>      Edit a saved provider, or open any editor route
  test <id>            Run the backend checks for a saved provider
  delete <id>          Delete a saved provider
  export <id>          Write a saved provider as YAML
  import <file>        Create a provider from a YAML file

Run "providerctl <command> -h" for command flags.
`

// commonFlags are accepted by every command.
type commonFlags struct {
	config string
	env    string
}

func newFlagSet(name, synopsis string) (*flag.FlagSet, *commonFlags) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: providerctl %s\n\nFlags:\n", synopsis)
		fs.PrintDefaults()
	}
	cf := &commonFlags{}
	fs.StringVar(&cf.config, "config", "", "path to configuration file (default: .providerctl/config.yaml or providerctl.yaml)")
	fs.StringVar(&cf.env, "env", ".env", "path to .env file (ignored if missing)")
	return fs, cf
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	if err := dispatch(os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func dispatch(cmd string, args []string) error {
	switch cmd {
	case "list":
		fs, cf := newFlagSet("list", "list [flags]")
		_ = fs.Parse(args)
		return withEngine(cf, func(ctx context.Context, eng *engine.Engine) error {
			return runList(ctx, eng, os.Stdout)
		})

	case "new":
		fs, cf := newFlagSet("new", "new [flags]")
		typ := fs.String("type", "", "preselected provider type")
		copyFrom := fs.String("copy-from", "", "id or name of a saved provider to copy")
		_ = fs.Parse(args)
		return withEngine(cf, func(ctx context.Context, eng *engine.Engine) error {
			return runNew(ctx, eng, *typ, *copyFrom)
		})

	case "edit":
		fs, cf := newFlagSet("edit", "edit [flags] <id|route>")
		_ = fs.Parse(args)
		id, err := singleArg(fs, "provider id or route")
		if err != nil {
			return err
		}
		return withEngine(cf, func(ctx context.Context, eng *engine.Engine) error {
			return runEdit(ctx, eng, id)
		})

	case "test":
		fs, cf := newFlagSet("test", "test [flags] <id>")
		_ = fs.Parse(args)
		id, err := singleArg(fs, "provider id")
		if err != nil {
			return err
		}
		return withEngine(cf, func(ctx context.Context, eng *engine.Engine) error {
			return runTestCmd(ctx, eng, id, os.Stdout)
		})

	case "delete":
		fs, cf := newFlagSet("delete", "delete [flags] <id>")
		yes := fs.Bool("yes", false, "do not ask for confirmation")
		_ = fs.Parse(args)
		id, err := singleArg(fs, "provider id")
		if err != nil {
			return err
		}
		return withEngine(cf, func(ctx context.Context, eng *engine.Engine) error {
			return runDelete(ctx, eng, id, *yes)
		})

	case "export":
		fs, cf := newFlagSet("export", "export [flags] <id>")
		out := fs.String("o", "", "output file (default: stdout)")
		_ = fs.Parse(args)
		id, err := singleArg(fs, "provider id")
		if err != nil {
			return err
		}
		return withEngine(cf, func(ctx context.Context, eng *engine.Engine) error {
			return runExport(ctx, eng, id, *out)
		})

	case "import":
		fs, cf := newFlagSet("import", "import [flags] <file>")
		_ = fs.Parse(args)
		path, err := singleArg(fs, "file")
		if err != nil {
			return err
		}
		return withEngine(cf, func(ctx context.Context, eng *engine.Engine) error {
			return runImport(ctx, eng, path)
		})

	case "-h", "--help", "help":
		fmt.Fprint(os.Stdout, usage)
		return nil
	}

	return fmt.Errorf("unknown command %q\n\n%s", cmd, usage)
}

func singleArg(fs *flag.FlagSet, what string) (string, error) {
	if fs.NArg() != 1 {
		fs.Usage()
		return "", fmt.Errorf("expected exactly one %s", what)
	}
	return fs.Arg(0), nil
}

// withEngine loads the environment and config, builds an Engine and runs fn
// with a context cancelled on interrupt.
func withEngine(cf *commonFlags, fn func(ctx context.Context, eng *engine.Engine) error) error {
	if err := loadDotEnv(cf.env); err != nil {
		return err
	}

	cfg, err := engine.LoadConfig(resolveConfigPath(cf.config))
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	eng, err := engine.New(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = eng.Close() }()

	return fn(ctx, eng)
}
