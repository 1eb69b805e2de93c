package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doeshing/alfred-sf/internal/app"
	"github.com/doeshing/alfred-sf/internal/domain"
)

// NewDoctorCommand creates the doctor command
func NewDoctorCommand(factory ContainerFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose a workflow's setup",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd.Context(), factory, func(c *app.Container) error {
				return runDoctorDiagnostics(cmd, cmd.OutOrStdout(), c)
			})
		},
	}
}

func runDoctorDiagnostics(cmd *cobra.Command, out io.Writer, container *app.Container) error {
	report, err := container.Doctor.Run(cmd.Context())

	// Display report even if there were errors
	displayDoctorReport(out, report)

	if err != nil {
		return fmt.Errorf("diagnostics completed with errors: %w", err)
	}
	if report.Failed() {
		return fmt.Errorf("workflow %s has failing checks", report.Workflow)
	}
	return nil
}

func displayDoctorReport(out io.Writer, report domain.HealthReport) {
	if report.Workflow != "" {
		fmt.Fprintf(out, "Workflow: %s\n", report.Workflow)
	}
	for _, check := range report.Checks {
		fmt.Fprintf(out, "[%s] %s - %s\n",
			strings.ToUpper(string(check.Status)),
			check.Name,
			check.Details)
	}
}
