package commands

import (
	"github.com/spf13/cobra"

	"github.com/dbeast/dbeast/cmd/dbeast/handlers"
)

// Upgrade returns the command for upgrading monitored cluster connections.
//
// Optional flags:
//
//	--credentials-file: YAML file with per-host passwords for non-interactive runs
//	--metrics-file: Write run metrics in Prometheus text format to this path
//	--accessible: Use plain line prompts instead of the form UI
func Upgrade() *cobra.Command {
	var opts handlers.UpgradeOptions

	cmd := &cobra.Command{
		Use:   "upgrade",
		Short: "Upgrade the connections of all monitored clusters",
		Long: `Discover the clusters monitored by the dBeast app and upgrade them one by one.

Every Grafana data source whose UID starts with the monitored-cluster prefix
becomes one entry in the queue; data sources sharing a URL are upgraded once.
For each cluster you can upgrade it (entering the password when basic auth
is enabled), skip it, or close the prompt and resume later.

Without a terminal, pass --credentials-file. Clusters without an entry that
need a password are skipped.

Examples:
  # Upgrade interactively
  dbeast upgrade

  # Upgrade from a credentials file and export metrics
  dbeast upgrade --credentials-file creds.yaml --metrics-file upgrade.prom`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.ConfigPath = configPath(cmd)
			return handlers.Upgrade(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.CredentialsFile, "credentials-file", "", "YAML file with cluster passwords for non-interactive runs")
	cmd.Flags().StringVar(&opts.MetricsFile, "metrics-file", "", "Write run metrics in Prometheus text format to this file")
	cmd.Flags().BoolVar(&opts.Accessible, "accessible", false, "Use plain line prompts instead of the form UI")

	return cmd
}
