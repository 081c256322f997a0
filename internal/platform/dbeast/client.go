// Package dbeast is a client for the dBeast backend that applies cluster
// credential upgrades.
package dbeast

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-logr/logr"

	"github.com/dbeast/dbeast/internal/upgrade"
)

// UpdateClusterPath is the backend route that accepts upgraded projects.
const UpdateClusterPath = "/update_cluster"

// Client posts projects to the backend at SERVER_URL.
type Client struct {
	serverURL  string
	httpClient *http.Client
	timeout    time.Duration
	log        logr.Logger
}

const defaultTimeout = 30 * time.Second

// Option configures a Client.
type Option func(*Client)

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

// WithLogger sets the logger used for response bodies.
func WithLogger(log logr.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

// APIError is returned when the backend answers with a non-2xx status.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend error (status %d): %s", e.StatusCode, e.Body)
}

// NewClient creates a backend client for serverURL.
func NewClient(serverURL string, opts ...Option) *Client {
	c := &Client{
		serverURL:  strings.TrimRight(serverURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		log:        logr.Discard(),
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

// UpdateCluster sends project to the update_cluster endpoint. The response
// payload carries no contract beyond the status code.
func (c *Client) UpdateCluster(ctx context.Context, project upgrade.Project) error {
	body, err := json.Marshal(project)
	if err != nil {
		return fmt.Errorf("encode project: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.serverURL+UpdateClusterPath, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	respBody, err := c.do(req)
	if err != nil {
		return fmt.Errorf("update cluster: %w", err)
	}

	c.log.V(1).Info("Backend accepted cluster update", "host", project.Host, "response", string(respBody))
	return nil
}

// Ping checks that the backend answers HTTP requests at all.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.serverURL+"/", nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ping backend: %w", err)
	}
	_ = resp.Body.Close()

	if resp.StatusCode >= 500 {
		return &APIError{StatusCode: resp.StatusCode, Body: http.StatusText(resp.StatusCode)}
	}
	return nil
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	return body, nil
}
