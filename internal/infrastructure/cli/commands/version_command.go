package commands

import (
	"fmt"
	"io"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/doeshing/alfred-sf/internal/app"
	"github.com/doeshing/alfred-sf/internal/domain"
	"github.com/doeshing/alfred-sf/internal/version"
)

// NewVersionCommand prints the build and the state layout this binary reads
// and writes, so two installed copies can be checked for compatibility.
func NewVersionCommand(factory ContainerFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show the dispatcher build and the state layout it uses",
		Long: "Print the alfred-sf build, the coalescing state namespace shared by every " +
			"script filter process, and the resolved workflow, state backend and state directory.",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			printBuild(out)
			container, err := factory(cmd.Context())
			if err != nil {
				// version stays useful when the config is broken
				fmt.Fprintf(out, "Workflow: unresolved (%v)\n", err)
				return nil
			}
			defer container.Close()
			printWorkflowState(out, container)
			return nil
		},
	}
}

func printBuild(out io.Writer) {
	fmt.Fprintf(out, "alfred-sf dispatcher %s", version.Version)
	if version.Commit != "" {
		fmt.Fprintf(out, " (%s)", version.Commit)
	}
	if version.BuildDate != "" {
		fmt.Fprintf(out, " built %s", version.BuildDate)
	}
	fmt.Fprintf(out, " %s\n", runtime.Version())
	fmt.Fprintf(out, "State namespace: %s\n", domain.CoalesceNamespace)
}

func printWorkflowState(out io.Writer, c *app.Container) {
	fmt.Fprintf(out, "Workflow: %s (env prefix %s)\n", c.Profile.Key, c.Profile.EnvPrefix)
	fmt.Fprintf(out, "State backend: %s\n", c.Profile.StateBackend)
	fmt.Fprintf(out, "State dir: %s\n", c.Store.Dir())
}
