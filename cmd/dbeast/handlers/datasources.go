package handlers

import (
	"context"
	"encoding/json"
	"fmt"

	"sigs.k8s.io/yaml"

	"github.com/dbeast/dbeast/internal/ui/tui"
)

// Output formats for listing commands.
const (
	OutputTable = "table"
	OutputJSON  = "json"
	OutputYAML  = "yaml"
)

// DataSourcesOptions contains options for the datasources command.
type DataSourcesOptions struct {
	ConfigPath string
	Output     string
}

// DataSourceEntry is one monitored-cluster data source.
type DataSourceEntry struct {
	UID           string `json:"uid"`
	Cluster       string `json:"cluster"`
	URL           string `json:"url"`
	BasicAuth     bool   `json:"basicAuth"`
	BasicAuthUser string `json:"basicAuthUser,omitempty"`
	// Duplicate marks a data source whose URL an earlier entry already covers.
	Duplicate bool `json:"duplicate,omitempty"`
}

// DataSources lists the data sources that follow the monitored-cluster naming
// convention, in Grafana's order.
func DataSources(ctx context.Context, opts DataSourcesOptions) error {
	switch opts.Output {
	case "", OutputTable, OutputJSON, OutputYAML:
	default:
		return fmt.Errorf("unknown output format %q (expected table, json or yaml)", opts.Output)
	}

	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}

	sources, err := newGrafanaClient(cfg).ListDataSources(ctx)
	if err != nil {
		return fmt.Errorf("failed to list data sources: %w", err)
	}

	convention := cfg.Discovery.Convention()
	seen := make(map[string]bool)
	entries := make([]DataSourceEntry, 0, len(sources))
	for _, ds := range sources {
		cluster, ok := convention.ClusterName(ds.UID)
		if !ok {
			continue
		}
		entries = append(entries, DataSourceEntry{
			UID:           ds.UID,
			Cluster:       cluster,
			URL:           ds.URL,
			BasicAuth:     ds.BasicAuth,
			BasicAuthUser: ds.BasicAuthUser,
			Duplicate:     seen[ds.URL],
		})
		seen[ds.URL] = true
	}

	switch opts.Output {
	case OutputJSON:
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Fprintln(output, string(data))
	case OutputYAML:
		data, err := yaml.Marshal(entries)
		if err != nil {
			return fmt.Errorf("failed to marshal YAML: %w", err)
		}
		fmt.Fprint(output, string(data))
	default:
		rows := make([]tui.QueueRow, 0, len(entries))
		for _, e := range entries {
			if e.Duplicate {
				continue
			}
			rows = append(rows, tui.QueueRow{UID: e.UID, URL: e.URL, Auth: e.BasicAuth, Username: e.BasicAuthUser})
		}
		fmt.Fprint(output, tui.RenderQueue(rows, convention))
	}
	return nil
}
