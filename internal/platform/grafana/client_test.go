package grafana

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestListDataSources(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/datasources" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer glsa_token" {
			t.Errorf("unexpected auth header: %s", r.Header.Get("Authorization"))
		}
		_, _ = w.Write([]byte(`[
			{"id":1,"uid":"Elasticsearch-direct-mon--prod","name":"prod","type":"elasticsearch","url":"https://prod:9200","basicAuth":true,"basicAuthUser":"elastic"},
			{"id":2,"uid":"Elasticsearch-direct-mon--monitoring","name":"mon","type":"elasticsearch","url":"https://mon:9200","basicAuth":false}
		]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", WithToken("glsa_token"))

	sources, err := c.ListDataSources(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sources) != 2 {
		t.Fatalf("expected 2 data sources, got %d", len(sources))
	}
	if sources[0].UID != "Elasticsearch-direct-mon--prod" || !sources[0].BasicAuth || sources[0].BasicAuthUser != "elastic" {
		t.Errorf("unexpected first data source: %+v", sources[0])
	}
	if sources[1].URL != "https://mon:9200" {
		t.Errorf("unexpected second url: %s", sources[1].URL)
	}
}

func TestListDataSources_BasicAuth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "admin" || pass != "admin-pw" {
			t.Errorf("unexpected basic auth: %q %q %v", user, pass, ok)
		}
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, WithBasicAuth("admin", "admin-pw"))

	sources, err := c.ListDataSources(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sources) != 0 {
		t.Errorf("expected no data sources, got %d", len(sources))
	}
}

func TestListDataSources_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"invalid API key"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)

	_, err := c.ListDataSources(context.Background())
	if err == nil {
		t.Fatal("expected error for 401 response")
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T", err)
	}
	if apiErr.StatusCode != http.StatusUnauthorized || apiErr.Message != "invalid API key" {
		t.Errorf("unexpected API error: %+v", apiErr)
	}
}

func TestListDataSources_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{not json`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).ListDataSources(context.Background())
	if err == nil {
		t.Fatal("expected parse error")
	}
}

func TestListDataSources_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, WithTimeout(time.Second)).ListDataSources(context.Background())
	if err == nil {
		t.Fatal("expected transport error")
	}
}

func TestGetPluginSettings(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/api/plugins/dbeast-app/settings" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"id":"dbeast-app","name":"dBeast","enabled":true,"pinned":true,"jsonData":{"SERVER_URL":"http://backend:8081"}}`))
	}))
	defer srv.Close()

	settings, err := NewClient(srv.URL).GetPluginSettings(context.Background(), "dbeast-app")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !settings.Enabled || !settings.Pinned {
		t.Errorf("expected enabled and pinned, got %+v", settings)
	}
	if settings.JSONData["SERVER_URL"] != "http://backend:8081" {
		t.Errorf("unexpected jsonData: %v", settings.JSONData)
	}
}

func TestUpdatePluginSettings(t *testing.T) {
	var got PluginSettingsUpdate
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/plugins/dbeast-app/settings" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("unexpected content type: %s", r.Header.Get("Content-Type"))
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		_, _ = w.Write([]byte(`{"message":"Plugin settings updated"}`))
	}))
	defer srv.Close()

	err := NewClient(srv.URL).UpdatePluginSettings(context.Background(), "dbeast-app", PluginSettingsUpdate{
		Enabled:  true,
		Pinned:   true,
		JSONData: map[string]any{"SERVER_URL": "http://backend:8081"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Enabled || !got.Pinned || got.JSONData["SERVER_URL"] != "http://backend:8081" {
		t.Errorf("unexpected update body: %+v", got)
	}
}

func TestUpdatePluginSettings_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"Plugin not installed"}`))
	}))
	defer srv.Close()

	err := NewClient(srv.URL).UpdatePluginSettings(context.Background(), "missing", PluginSettingsUpdate{})
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 API error, got %v", err)
	}
}

func TestHealth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/health" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"database":"ok","version":"11.2.0","commit":"abc"}`))
	}))
	defer srv.Close()

	health, err := NewClient(srv.URL).Health(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if health.Database != "ok" || health.Version != "11.2.0" {
		t.Errorf("unexpected health: %+v", health)
	}
}

func TestWithTimeout_DoesNotModifyCallerClient(t *testing.T) {
	hc := &http.Client{Timeout: time.Minute}

	c := NewClient("http://grafana", WithHTTPClient(hc), WithTimeout(5*time.Second))

	if hc.Timeout != time.Minute {
		t.Errorf("caller client timeout changed to %s", hc.Timeout)
	}
	if c.httpClient.Timeout != 5*time.Second {
		t.Errorf("client timeout = %s, want 5s", c.httpClient.Timeout)
	}
}

func TestWithTimeout_OptionOrder(t *testing.T) {
	c := NewClient("http://grafana", WithTimeout(5*time.Second), WithHTTPClient(nil))

	if c.httpClient == nil {
		t.Fatal("expected a default HTTP client")
	}
	if c.httpClient.Timeout != 5*time.Second {
		t.Errorf("client timeout = %s, want 5s", c.httpClient.Timeout)
	}
}
