package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dbeast.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:3000", cfg.Grafana.URL)
	assert.Equal(t, "dbeast-dbeastmonitor-app", cfg.Grafana.PluginID)
	assert.Equal(t, "Elasticsearch-direct-mon--", cfg.Discovery.Prefix)
	assert.Equal(t, "monitoring", cfg.Discovery.Reserved)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	assert.Empty(t, cfg.ServerURL)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
grafana:
  url: https://grafana.example.com
  username: admin
  plugin_id: custom-app
server_url: http://backend:8081
discovery:
  prefix: mon-A--
  reserved: internal
http_timeout: 5s
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://grafana.example.com", cfg.Grafana.URL)
	assert.Equal(t, "admin", cfg.Grafana.Username)
	assert.Equal(t, "custom-app", cfg.Grafana.PluginID)
	assert.Equal(t, "http://backend:8081", cfg.ServerURL)
	assert.Equal(t, "mon-A--", cfg.Discovery.Prefix)
	assert.Equal(t, "internal", cfg.Discovery.Reserved)
	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
grafana:
  url: https://grafana.example.com
server_url: http://backend:8081
`)
	t.Setenv("GRAFANA_URL", "http://grafana.internal:3000")
	t.Setenv("GRAFANA_TOKEN", "glsa_secret")
	t.Setenv("SERVER_URL", "http://other-backend:9000")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://grafana.internal:3000", cfg.Grafana.URL)
	assert.Equal(t, "glsa_secret", cfg.Grafana.Token)
	assert.Equal(t, "http://other-backend:9000", cfg.ServerURL)
}

func TestLoad_SecretsIgnoredInFile(t *testing.T) {
	path := writeConfig(t, `
grafana:
  url: https://grafana.example.com
  token: should-not-load
  password: should-not-load
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Empty(t, cfg.Grafana.Token)
	assert.Empty(t, cfg.Grafana.Password)
}

func TestLoad_AutoDetectsDefaultFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultConfigFile), []byte("server_url: http://detected:8081\n"), 0600))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "http://detected:8081", cfg.ServerURL)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load("/nonexistent/path/dbeast.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "grafana: [")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to unmarshal yaml")
}

func TestLoad_InvalidValues(t *testing.T) {
	path := writeConfig(t, "server_url: ftp://backend\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configuration validation failed")
}
