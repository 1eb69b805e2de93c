package commands

import (
	"fmt"
	"io"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/doeshing/alfred-sf/internal/app"
	configinfra "github.com/doeshing/alfred-sf/internal/infrastructure/config"
)

// NewConfigCommand creates the config command with all subcommands
func NewConfigCommand(factory ContainerFactory) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect alfred-sf configuration",
	}

	configCmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Show the loaded configuration",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withContainer(cmd.Context(), factory, func(c *app.Container) error {
					return printYAML(cmd.OutOrStdout(), c.Config)
				})
			},
		},
		&cobra.Command{
			Use:   "profile",
			Short: "Show the effective workflow profile after flag overrides",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withContainer(cmd.Context(), factory, func(c *app.Container) error {
					return printYAML(cmd.OutOrStdout(), c.Profile)
				})
			},
		},
		&cobra.Command{
			Use:   "path",
			Short: "Print the configuration file path",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withContainer(cmd.Context(), factory, func(c *app.Container) error {
					fmt.Fprintln(cmd.OutOrStdout(), c.ConfigLoader.Path())
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "diff",
			Short: "Show differences from the embedded default configuration",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withContainer(cmd.Context(), factory, func(c *app.Container) error {
					return showConfigurationDiff(cmd.OutOrStdout(), c)
				})
			},
		},
		&cobra.Command{
			Use:   "validate",
			Short: "Validate the configuration file",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withContainer(cmd.Context(), factory, func(c *app.Container) error {
					fmt.Fprintln(cmd.OutOrStdout(), MsgConfigurationValid)
					return nil
				})
			},
		},
	)

	return configCmd
}

func showConfigurationDiff(out io.Writer, container *app.Container) error {
	defaults, err := configinfra.DefaultConfig()
	if err != nil {
		return err
	}
	diff := cmp.Diff(defaults, container.Config)
	if diff == "" {
		fmt.Fprintln(out, MsgNoDifferencesFromDefault)
		return nil
	}
	fmt.Fprint(out, diff)
	return nil
}

func printYAML(out io.Writer, v interface{}) error {
	raw, err := yaml.Marshal(v)
	if err != nil {
		return err
	}
	_, err = out.Write(raw)
	return err
}
