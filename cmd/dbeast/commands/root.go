// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument parsing,
// flag binding, and validation. Command execution is delegated to handler
// functions in the handlers package.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/dbeast/dbeast/internal/logging"
)

// Root returns the root command for the dbeast CLI.
//
// The root command owns the global flags and installs the logger into the
// command context before any subcommand runs.
func Root() *cobra.Command {
	var verbose bool
	var logFormat string

	cmd := &cobra.Command{
		Use:           "dbeast",
		Short:         "Upgrade dBeast-monitored cluster connections",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			log, err := logging.New(logging.Options{
				Verbose: verbose,
				Format:  logFormat,
				Output:  cmd.ErrOrStderr(),
			})
			if err != nil {
				return err
			}
			cmd.SetContext(logging.IntoContext(cmd.Context(), log))
			return nil
		},
	}

	cmd.PersistentFlags().StringP("config", "c", "", "Path to configuration file (default: dbeast.yaml)")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().StringVar(&logFormat, "log-format", logging.FormatConsole, "Log format: console or json")

	cmd.AddCommand(Upgrade())
	cmd.AddCommand(DataSources())
	cmd.AddCommand(Plugin())
	cmd.AddCommand(Doctor())
	cmd.AddCommand(Version())
	cmd.AddCommand(Completion())

	return cmd
}

// configPath returns the --config value inherited from the root command.
func configPath(cmd *cobra.Command) string {
	path, _ := cmd.Flags().GetString("config")
	return path
}
