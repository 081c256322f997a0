package config

import (
	"errors"
	"fmt"
	"net/url"
)

// Validate checks the configuration for common errors.
func (c *Config) Validate() error {
	if err := validateHTTPURL(c.Grafana.URL); err != nil {
		return fmt.Errorf("grafana.url: %w", err)
	}
	if c.Grafana.PluginID == "" {
		return errors.New("grafana.plugin_id is required")
	}
	if c.Grafana.Password != "" && c.Grafana.Username == "" {
		return errors.New("grafana.username is required when GRAFANA_PASSWORD is set")
	}

	if c.ServerURL != "" {
		if err := validateHTTPURL(c.ServerURL); err != nil {
			return fmt.Errorf("server_url: %w", err)
		}
	}

	if c.Discovery.Prefix == "" {
		return errors.New("discovery.prefix is required")
	}

	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("http_timeout must be positive, got %s", c.HTTPTimeout)
	}

	return nil
}

func validateHTTPURL(raw string) error {
	if raw == "" {
		return errors.New("is required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid URL %q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid URL %q: missing host", raw)
	}
	return nil
}
