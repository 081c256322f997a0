// Package grafana is a minimal client for the dashboard server HTTP API: data
// sources, app plugin settings and health.
package grafana

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client talks to the dashboard server API.
type Client struct {
	baseURL    string
	token      string
	username   string
	password   string
	httpClient *http.Client
	timeout    time.Duration
}

const defaultTimeout = 30 * time.Second

// Option configures a Client.
type Option func(*Client)

// WithToken authenticates with a service-account token.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// WithBasicAuth authenticates with a user and password. A token takes precedence.
func WithBasicAuth(username, password string) Option {
	return func(c *Client) {
		c.username = username
		c.password = password
	}
}

// WithHTTPClient replaces the underlying HTTP client. The client is never
// modified; WithTimeout applies to a copy of it.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per-request timeout, regardless of option order.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// DataSource is a configured data source as returned by /api/datasources.
type DataSource struct {
	ID            int64  `json:"id"`
	UID           string `json:"uid"`
	Name          string `json:"name"`
	Type          string `json:"type"`
	URL           string `json:"url"`
	BasicAuth     bool   `json:"basicAuth"`
	BasicAuthUser string `json:"basicAuthUser"`
}

// PluginSettings is the settings document of an app plugin.
type PluginSettings struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Enabled  bool           `json:"enabled"`
	Pinned   bool           `json:"pinned"`
	JSONData map[string]any `json:"jsonData"`
}

// PluginSettingsUpdate is the body accepted by the plugin settings endpoint.
type PluginSettingsUpdate struct {
	Enabled  bool           `json:"enabled"`
	Pinned   bool           `json:"pinned"`
	JSONData map[string]any `json:"jsonData,omitempty"`
}

// Health is the server health report.
type Health struct {
	Database string `json:"database"`
	Version  string `json:"version"`
	Commit   string `json:"commit"`
}

// APIError is returned for non-2xx responses.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Message)
}

type errorResponse struct {
	Message string `json:"message"`
}

// NewClient creates a client for the server at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: defaultTimeout}
	}
	if c.timeout > 0 {
		hc := *c.httpClient
		hc.Timeout = c.timeout
		c.httpClient = &hc
	}
	return c
}

// ListDataSources returns every data source visible to the caller, in the
// order the server lists them.
func (c *Client) ListDataSources(ctx context.Context) ([]DataSource, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/datasources", nil)
	if err != nil {
		return nil, err
	}

	var sources []DataSource
	if err := c.do(req, &sources); err != nil {
		return nil, fmt.Errorf("list data sources: %w", err)
	}

	return sources, nil
}

// GetPluginSettings returns the settings of the app plugin pluginID.
func (c *Client) GetPluginSettings(ctx context.Context, pluginID string) (*PluginSettings, error) {
	req, err := c.newRequest(ctx, http.MethodGet, pluginSettingsPath(pluginID), nil)
	if err != nil {
		return nil, err
	}

	var settings PluginSettings
	if err := c.do(req, &settings); err != nil {
		return nil, fmt.Errorf("get plugin settings %s: %w", pluginID, err)
	}

	return &settings, nil
}

// UpdatePluginSettings replaces the enabled/pinned flags and jsonData of the
// app plugin pluginID. Callers wanting a merge must resend the current jsonData.
func (c *Client) UpdatePluginSettings(ctx context.Context, pluginID string, update PluginSettingsUpdate) error {
	body, err := json.Marshal(update)
	if err != nil {
		return fmt.Errorf("encode plugin settings: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, pluginSettingsPath(pluginID), bytes.NewReader(body))
	if err != nil {
		return err
	}

	if err := c.do(req, nil); err != nil {
		return fmt.Errorf("update plugin settings %s: %w", pluginID, err)
	}

	return nil
}

// Health returns the server health report.
func (c *Client) Health(ctx context.Context) (*Health, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/health", nil)
	if err != nil {
		return nil, err
	}

	var health Health
	if err := c.do(req, &health); err != nil {
		return nil, fmt.Errorf("health check: %w", err)
	}

	return &health, nil
}

func pluginSettingsPath(pluginID string) string {
	return "/api/plugins/" + url.PathEscape(pluginID) + "/settings"
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	switch {
	case c.token != "":
		req.Header.Set("Authorization", "Bearer "+c.token)
	case c.username != "":
		req.SetBasicAuth(c.username, c.password)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(body))}
		var er errorResponse
		if json.Unmarshal(body, &er) == nil && er.Message != "" {
			apiErr.Message = er.Message
		}
		return apiErr
	}

	if out == nil || len(body) == 0 {
		return nil
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("parse response: %w (status %d)", err, resp.StatusCode)
	}

	return nil
}
