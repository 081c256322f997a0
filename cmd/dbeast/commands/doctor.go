package commands

import (
	"github.com/spf13/cobra"

	"github.com/dbeast/dbeast/cmd/dbeast/handlers"
)

// Doctor returns the command for diagnosing the setup.
//
// Optional flags:
//
//	--wait: Keep retrying the Grafana health check for up to this long
//	--json: Output in JSON format
func Doctor() *cobra.Command {
	var opts handlers.DoctorOptions

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose Grafana, the dBeast app and the backend",
		Long: `Diagnose the environment the upgrade command depends on.

Checks:
  - Grafana is reachable and healthy
  - The dBeast app is enabled
  - The backend URL is configured and the backend answers
  - The monitoring data source exists
  - How many clusters an upgrade would pick up

Examples:
  # Diagnose once
  dbeast doctor

  # Wait up to two minutes for Grafana to come up
  dbeast doctor --wait 2m`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.ConfigPath = configPath(cmd)
			return handlers.Doctor(cmd.Context(), opts)
		},
	}

	cmd.Flags().DurationVar(&opts.Wait, "wait", 0, "Retry the Grafana health check for up to this long")
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Output in JSON format")

	return cmd
}
