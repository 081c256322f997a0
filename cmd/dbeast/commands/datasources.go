package commands

import (
	"github.com/spf13/cobra"

	"github.com/dbeast/dbeast/cmd/dbeast/handlers"
)

// DataSources returns the command that lists the monitored-cluster data sources.
func DataSources() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:     "datasources",
		Aliases: []string{"ds"},
		Short:   "List the data sources an upgrade would pick up",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.DataSources(cmd.Context(), handlers.DataSourcesOptions{
				ConfigPath: configPath(cmd),
				Output:     output,
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", handlers.OutputTable, "Output format: table, json or yaml")

	return cmd
}
