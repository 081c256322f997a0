// Package handlers implements the business logic for the dbeast CLI commands.
//
// Each handler loads the configuration, builds the Grafana and backend
// clients it needs and renders its result to stdout.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/dbeast/dbeast/internal/config"
	"github.com/dbeast/dbeast/internal/platform/dbeast"
	"github.com/dbeast/dbeast/internal/platform/grafana"
	"github.com/dbeast/dbeast/internal/upgrade"
)

// Factory function variables - can be replaced in tests for dependency injection.
var (
	// loadConfigFile loads config from file (for testing injection).
	loadConfigFile = config.Load

	newGrafanaClient = func(cfg *config.Config) *grafana.Client {
		opts := []grafana.Option{grafana.WithTimeout(cfg.HTTPTimeout)}
		switch {
		case cfg.Grafana.Token != "":
			opts = append(opts, grafana.WithToken(cfg.Grafana.Token))
		case cfg.Grafana.Username != "":
			opts = append(opts, grafana.WithBasicAuth(cfg.Grafana.Username, cfg.Grafana.Password))
		}
		return grafana.NewClient(cfg.Grafana.URL, opts...)
	}

	newBackendClient = func(serverURL string, cfg *config.Config, opts ...dbeast.Option) *dbeast.Client {
		return dbeast.NewClient(serverURL, append([]dbeast.Option{dbeast.WithTimeout(cfg.HTTPTimeout)}, opts...)...)
	}

	isInteractive = isInteractiveTTY

	// output receives everything handlers print.
	output io.Writer = os.Stdout
)

var errServerURLMissing = errors.New("backend URL is not configured: set server_url, SERVER_URL, or the app's SERVER_URL setting")

// loadConfig loads and validates the configuration.
func loadConfig(configPath string) (*config.Config, error) {
	cfg, err := loadConfigFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// resolveServerURL returns the configured backend URL, falling back to the
// SERVER_URL entry of the app's jsonData.
func resolveServerURL(ctx context.Context, cfg *config.Config, gc *grafana.Client) (string, error) {
	if cfg.ServerURL != "" {
		return cfg.ServerURL, nil
	}

	settings, err := gc.GetPluginSettings(ctx, cfg.Grafana.PluginID)
	if err != nil {
		return "", fmt.Errorf("failed to read app settings: %w", err)
	}

	serverURL, _ := settings.JSONData[config.ServerURLKey].(string)
	if serverURL == "" {
		return "", errServerURLMissing
	}
	return serverURL, nil
}

// dataSourceLister exposes the Grafana data sources as connection records.
type dataSourceLister struct {
	client *grafana.Client
}

func (l *dataSourceLister) ListConnections(ctx context.Context) ([]upgrade.ConnectionRecord, error) {
	sources, err := l.client.ListDataSources(ctx)
	if err != nil {
		return nil, err
	}

	records := make([]upgrade.ConnectionRecord, 0, len(sources))
	for _, ds := range sources {
		records = append(records, upgrade.ConnectionRecord{
			ID:            ds.UID,
			URL:           ds.URL,
			BasicAuth:     ds.BasicAuth,
			BasicAuthUser: ds.BasicAuthUser,
		})
	}
	return records, nil
}

// isInteractiveTTY reports whether both stdin and stdout are terminals.
func isInteractiveTTY() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stdout.Fd())
}
