package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doeshing/alfred-sf/internal/app"
	"github.com/doeshing/alfred-sf/internal/infrastructure/cli/commands"
)

// Options holds CLI-level configuration.
type Options struct {
	Verbose bool
	Getenv  func(string) string
}

// NewRootCmd wires the cobra root command. The container is built per
// command, after flags are parsed, because flags select the workflow.
func NewRootCmd(ctx context.Context, opts Options) *cobra.Command {
	appOpts := &app.Options{Verbose: opts.Verbose, Getenv: opts.Getenv}
	var execLine string

	factory := func(ctx context.Context) (*app.Container, error) {
		built := *appOpts
		if execLine != "" {
			built.Exec = strings.Fields(execLine)
		}
		return app.BuildContainer(ctx, built)
	}

	root := &cobra.Command{
		Use:   "alfred-sf",
		Short: "Alfred script filter dispatcher",
		Long: "alfred-sf answers Alfred script filter invocations: it waits for typing to " +
			"settle, caches backend results, and always prints well-formed item JSON.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetContext(ctx)

	flags := root.PersistentFlags()
	flags.StringVar(&appOpts.ConfigPath, "config", "", "Config file (default $ALFRED_SF_CONFIG or ~/.alfred-sf/config.yaml)")
	flags.StringVarP(&appOpts.Workflow, "workflow", "w", "", "Workflow profile key (default: first configured)")
	flags.StringVar(&appOpts.Key, "key", "", "Override the state namespace key")
	flags.StringVar(&appOpts.EnvPrefix, "prefix", "", "Override the environment variable prefix, e.g. BRAVE")
	flags.StringVar(&execLine, "exec", "", "Override the backend command line (split on whitespace)")
	flags.StringVar(&appOpts.StateBackend, "state-backend", "", "Override the state backend: file|sqlite|memory")
	flags.BoolVarP(&appOpts.Verbose, "verbose", "v", opts.Verbose, "Debug logging to stderr")

	root.AddCommand(
		commands.NewSearchCommand(factory),
		commands.NewRunCommand(factory),
		commands.NewWatchCommand(factory),
		commands.NewCacheCommand(factory),
		commands.NewConfigCommand(factory),
		commands.NewDoctorCommand(factory),
		commands.NewVersionCommand(factory),
	)
	return root
}
