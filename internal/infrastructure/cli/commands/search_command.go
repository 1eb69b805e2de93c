package commands

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/doeshing/alfred-sf/internal/domain"
	contextcollector "github.com/doeshing/alfred-sf/internal/infrastructure/context"
)

// NewSearchCommand creates the search command, the script filter entry point
// for search-backed workflows. It exits zero and prints item JSON on every
// path, including configuration failures.
func NewSearchCommand(factory ContainerFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "search [query]",
		Short: "Answer a script filter invocation with settle window and cache",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			container, err := factory(cmd.Context())
			if err != nil {
				return writeFeedback(out, domain.InfoResponse(TitleWorkflowMisconfigured, err.Error()).Encode())
			}
			defer container.Close()

			input := contextcollector.CollectInput(args, cmd.InOrStdin(), container.Getenv)
			return writeFeedback(out, container.SearchFlow.Handle(cmd.Context(), input))
		},
	}
}

func writeFeedback(out io.Writer, payload []byte) error {
	_, err := out.Write(payload)
	return err
}
