package commands

import (
	"github.com/spf13/cobra"

	"github.com/doeshing/alfred-sf/internal/domain"
	contextcollector "github.com/doeshing/alfred-sf/internal/infrastructure/context"
	"github.com/doeshing/alfred-sf/internal/services"
)

// NewRunCommand creates the run command for command-style workflows: no
// cache or settle window, but empty and malformed backend output are
// reported as rows instead of being passed through.
func NewRunCommand(factory ContainerFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "run [query]",
		Short: "Run the backend once and validate its item list",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			container, err := factory(cmd.Context())
			if err != nil {
				return writeFeedback(out, domain.InfoResponse(TitleWorkflowMisconfigured, err.Error()).Encode())
			}
			defer container.Close()

			input := contextcollector.CollectInput(args, cmd.InOrStdin(), container.Getenv)
			query := services.NormalizeQuery(input)
			return writeFeedback(out, container.CLIFlow.Run(cmd.Context(), query))
		},
	}
}
