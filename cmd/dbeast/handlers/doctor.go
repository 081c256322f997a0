package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/dbeast/dbeast/internal/config"
	"github.com/dbeast/dbeast/internal/logging"
	"github.com/dbeast/dbeast/internal/platform/dbeast"
	"github.com/dbeast/dbeast/internal/platform/grafana"
	"github.com/dbeast/dbeast/internal/ui/tui"
	"github.com/dbeast/dbeast/internal/util/retry"
)

// DoctorOptions contains options for the doctor command.
type DoctorOptions struct {
	ConfigPath string
	// Wait keeps retrying the Grafana health check for up to this long.
	Wait time.Duration
	JSON bool
}

// healthRetryDelay is the initial delay between Grafana health probes.
var healthRetryDelay = 2 * time.Second

// Doctor checks every dependency of the upgrade command and prints one line
// per check. It returns an error when any check failed.
func Doctor(ctx context.Context, opts DoctorOptions) error {
	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}

	checks := runChecks(ctx, cfg, opts.Wait)

	if opts.JSON {
		data, err := json.MarshalIndent(checks, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Fprintln(output, string(data))
	} else {
		fmt.Fprint(output, tui.RenderChecks(checks))
	}

	failed := 0
	for _, c := range checks {
		if !c.OK {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("doctor found %d problem(s)", failed)
	}
	return nil
}

func runChecks(ctx context.Context, cfg *config.Config, wait time.Duration) []tui.Check {
	log := logging.FromContext(ctx)
	gc := newGrafanaClient(cfg)
	var checks []tui.Check

	health, err := waitForGrafana(ctx, gc, wait)
	if err != nil {
		// Nothing else can be checked without Grafana.
		return append(checks, tui.Check{Name: "Grafana reachable", Detail: err.Error()})
	}
	checks = append(checks, tui.Check{
		Name:   "Grafana reachable",
		OK:     health.Database == "ok",
		Detail: fmt.Sprintf("version %s, database %s", health.Version, health.Database),
	})

	settings, err := gc.GetPluginSettings(ctx, cfg.Grafana.PluginID)
	switch {
	case err != nil:
		checks = append(checks, tui.Check{Name: "App enabled", Detail: err.Error()})
	default:
		detail := cfg.Grafana.PluginID
		if !settings.Enabled {
			detail += " is disabled; run: dbeast plugin enable"
		}
		checks = append(checks, tui.Check{Name: "App enabled", OK: settings.Enabled, Detail: detail})
	}

	serverURL, err := resolveServerURL(ctx, cfg, gc)
	if err != nil {
		checks = append(checks, tui.Check{Name: "Backend configured", Detail: err.Error()})
	} else {
		checks = append(checks, tui.Check{Name: "Backend configured", OK: true, Detail: serverURL})

		backend := newBackendClient(serverURL, cfg, dbeast.WithLogger(log))
		if err := backend.Ping(ctx); err != nil {
			checks = append(checks, tui.Check{Name: "Backend reachable", Detail: err.Error()})
		} else {
			checks = append(checks, tui.Check{Name: "Backend reachable", OK: true, Detail: serverURL})
		}
	}

	sources, err := gc.ListDataSources(ctx)
	if err != nil {
		return append(checks, tui.Check{Name: "Data sources listed", Detail: err.Error()})
	}

	convention := cfg.Discovery.Convention()
	monitoringUID := convention.DataSourceUID(cfg.Discovery.Reserved)
	monitoring, clusters := false, 0
	for _, ds := range sources {
		if ds.UID == monitoringUID {
			monitoring = true
		}
		if convention.Matches(ds.UID) {
			clusters++
		}
	}

	monitoringCheck := tui.Check{Name: "Monitoring data source", OK: monitoring, Detail: monitoringUID}
	if !monitoring {
		monitoringCheck.Detail += " not found"
	}
	checks = append(checks,
		monitoringCheck,
		tui.Check{Name: "Monitored clusters", OK: true, Detail: fmt.Sprintf("%d data source(s) match %s", clusters, convention.Prefix)},
	)
	return checks
}

// waitForGrafana probes the health endpoint once, or keeps probing for up to
// wait. Client errors are not retried.
func waitForGrafana(ctx context.Context, gc *grafana.Client, wait time.Duration) (*grafana.Health, error) {
	log := logging.FromContext(ctx)
	attempts := 1
	if wait > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, wait)
		defer cancel()
		attempts = math.MaxInt32
	}

	var health *grafana.Health
	err := retry.Do(ctx, func(attempt int) error {
		h, err := gc.Health(ctx)
		if err != nil {
			var apiErr *grafana.APIError
			if errors.As(err, &apiErr) && apiErr.StatusCode < 500 {
				return retry.Permanent(err)
			}
			log.V(1).Info("Grafana not ready", "attempt", attempt, "error", err.Error())
			return err
		}
		health = h
		return nil
	}, retry.WithMaxAttempts(attempts), retry.WithInitialDelay(healthRetryDelay))
	if err != nil {
		return nil, err
	}
	return health, nil
}
