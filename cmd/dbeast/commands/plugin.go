package commands

import (
	"github.com/spf13/cobra"

	"github.com/dbeast/dbeast/cmd/dbeast/handlers"
)

// Plugin returns the command group for the dBeast Grafana app settings.
func Plugin() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plugin",
		Short: "Manage the dBeast Grafana app",
	}

	cmd.AddCommand(pluginStatus())
	cmd.AddCommand(pluginEnable())
	cmd.AddCommand(pluginDisable())

	return cmd
}

func pluginStatus() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether the app is enabled and where its backend is",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.PluginStatus(cmd.Context(), handlers.PluginOptions{ConfigPath: configPath(cmd)})
		},
	}
}

func pluginEnable() *cobra.Command {
	var opts handlers.PluginOptions

	cmd := &cobra.Command{
		Use:   "enable",
		Short: "Enable the app, optionally setting its backend URL",
		Long: `Enable the dBeast app in Grafana.

Existing app settings are kept and the app is pinned to the navigation menu.
--server-url replaces the backend URL the app and the upgrade command talk to.

Examples:
  dbeast plugin enable --server-url http://dbeast:8080
  dbeast plugin enable --pin=false`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.ConfigPath = configPath(cmd)
			return handlers.PluginEnable(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.ServerURL, "server-url", "", "dBeast backend base URL to store in the app settings")
	cmd.Flags().BoolVar(&opts.Pin, "pin", true, "Pin the app to the navigation menu (--pin=false keeps the current setting)")

	return cmd
}

func pluginDisable() *cobra.Command {
	return &cobra.Command{
		Use:   "disable",
		Short: "Disable the app, keeping its settings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.PluginDisable(cmd.Context(), handlers.PluginOptions{ConfigPath: configPath(cmd)})
		},
	}
}
