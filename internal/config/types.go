package config

import (
	"time"

	"github.com/dbeast/dbeast/internal/util/naming"
)

// Config holds the application configuration.
type Config struct {
	Grafana GrafanaConfig `yaml:"grafana"`

	// ServerURL is the dBeast backend base URL. When empty, the SERVER_URL
	// key of the app plugin's jsonData is used.
	ServerURL string `yaml:"server_url" env:"SERVER_URL"`

	Discovery DiscoveryConfig `yaml:"discovery"`

	HTTPTimeout time.Duration `yaml:"http_timeout" env:"DBEAST_HTTP_TIMEOUT" env-default:"30s"`
}

// GrafanaConfig holds the dashboard server connection settings.
type GrafanaConfig struct {
	URL      string `yaml:"url" env:"GRAFANA_URL" env-default:"http://localhost:3000"`
	Token    string `yaml:"-" env:"GRAFANA_TOKEN"` // Secret - not in YAML
	Username string `yaml:"username" env:"GRAFANA_USER"`
	Password string `yaml:"-" env:"GRAFANA_PASSWORD"` // Secret - not in YAML
	PluginID string `yaml:"plugin_id" env:"DBEAST_PLUGIN_ID" env-default:"dbeast-dbeastmonitor-app"`
}

// DiscoveryConfig holds the data-source naming convention.
type DiscoveryConfig struct {
	Prefix   string `yaml:"prefix" env:"DBEAST_DATASOURCE_PREFIX" env-default:"Elasticsearch-direct-mon--"`
	Reserved string `yaml:"reserved" env:"DBEAST_DATASOURCE_RESERVED" env-default:"monitoring"`
}

// Convention returns the naming convention described by the discovery settings.
func (d DiscoveryConfig) Convention() naming.Convention {
	return naming.Convention{
		Prefix:   d.Prefix,
		Reserved: d.Reserved,
	}
}
