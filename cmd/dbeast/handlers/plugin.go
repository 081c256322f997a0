package handlers

import (
	"context"
	"fmt"

	"github.com/dbeast/dbeast/internal/config"
	"github.com/dbeast/dbeast/internal/logging"
	"github.com/dbeast/dbeast/internal/platform/grafana"
)

// PluginOptions contains options for the plugin commands.
type PluginOptions struct {
	ConfigPath string
	// ServerURL, when set, replaces the app's SERVER_URL setting on enable.
	ServerURL string
	// Pin pins the app to the navigation on enable.
	Pin bool
}

// PluginStatus prints whether the app is enabled and its backend URL.
func PluginStatus(ctx context.Context, opts PluginOptions) error {
	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}

	settings, err := newGrafanaClient(cfg).GetPluginSettings(ctx, cfg.Grafana.PluginID)
	if err != nil {
		return fmt.Errorf("failed to read app settings: %w", err)
	}

	serverURL, _ := settings.JSONData[config.ServerURLKey].(string)
	if serverURL == "" {
		serverURL = "-"
	}
	fmt.Fprintf(output, "App:        %s\n", cfg.Grafana.PluginID)
	fmt.Fprintf(output, "Enabled:    %t\n", settings.Enabled)
	fmt.Fprintf(output, "Pinned:     %t\n", settings.Pinned)
	fmt.Fprintf(output, "Server URL: %s\n", serverURL)
	return nil
}

// PluginEnable enables the app, keeping its existing settings.
func PluginEnable(ctx context.Context, opts PluginOptions) error {
	return setPluginEnabled(ctx, opts, true)
}

// PluginDisable disables the app, keeping its existing settings.
func PluginDisable(ctx context.Context, opts PluginOptions) error {
	return setPluginEnabled(ctx, opts, false)
}

func setPluginEnabled(ctx context.Context, opts PluginOptions, enabled bool) error {
	log := logging.FromContext(ctx)

	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}
	gc := newGrafanaClient(cfg)

	current, err := gc.GetPluginSettings(ctx, cfg.Grafana.PluginID)
	if err != nil {
		return fmt.Errorf("failed to read app settings: %w", err)
	}

	jsonData := make(map[string]any, len(current.JSONData)+1)
	for k, v := range current.JSONData {
		jsonData[k] = v
	}
	if opts.ServerURL != "" {
		jsonData[config.ServerURLKey] = opts.ServerURL
	}

	update := grafana.PluginSettingsUpdate{
		Enabled:  enabled,
		Pinned:   current.Pinned || (enabled && opts.Pin),
		JSONData: jsonData,
	}
	if !enabled {
		update.Pinned = false
	}

	if err := gc.UpdatePluginSettings(ctx, cfg.Grafana.PluginID, update); err != nil {
		return fmt.Errorf("failed to update app settings: %w", err)
	}

	state := "disabled"
	if enabled {
		state = "enabled"
	}
	log.Info("Updated app settings", "plugin", cfg.Grafana.PluginID, "enabled", enabled)
	fmt.Fprintf(output, "App %s %s\n", cfg.Grafana.PluginID, state)
	return nil
}
