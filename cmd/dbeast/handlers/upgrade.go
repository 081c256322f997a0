package handlers

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dbeast/dbeast/internal/logging"
	"github.com/dbeast/dbeast/internal/platform/dbeast"
	"github.com/dbeast/dbeast/internal/ui/prompt"
	"github.com/dbeast/dbeast/internal/ui/tui"
	"github.com/dbeast/dbeast/internal/upgrade"
)

var errNoTerminal = errors.New("no terminal attached: pass --credentials-file for non-interactive upgrades")

// UpgradeOptions contains options for the upgrade command.
type UpgradeOptions struct {
	ConfigPath      string
	CredentialsFile string
	MetricsFile     string
	Accessible      bool
}

// Upgrade discovers the monitored clusters and resolves each one through the
// interactive prompt or the credentials file.
//
// It returns an error when discovery fails or when any cluster's last
// submission failed.
func Upgrade(ctx context.Context, opts UpgradeOptions) error {
	log := logging.FromContext(ctx)

	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}

	prompter, interactive, err := selectPrompter(opts)
	if err != nil {
		return err
	}

	gc := newGrafanaClient(cfg)
	serverURL, err := resolveServerURL(ctx, cfg, gc)
	if err != nil {
		return err
	}
	log.V(1).Info("Using backend", "url", serverURL)

	reg := prometheus.NewRegistry()
	wf := upgrade.NewWorkflow(
		&dataSourceLister{client: gc},
		newBackendClient(serverURL, cfg, dbeast.WithLogger(log)),
		cfg.Discovery.Convention(),
		upgrade.WithLogger(log),
		upgrade.WithMetrics(upgrade.NewMetrics(reg)),
	)

	runOpts := []prompt.RunOption{prompt.WithLogger(log)}
	if interactive {
		runOpts = append(runOpts, prompt.WithSubmitWrapper(func(ctx context.Context, title string, op func(context.Context) error) error {
			return tui.RunWithSpinner(ctx, os.Stderr, title, op)
		}))
	}

	res, runErr := prompt.Run(ctx, wf, prompter, runOpts...)
	if opts.MetricsFile != "" {
		if err := prometheus.WriteToTextfile(opts.MetricsFile, reg); err != nil {
			log.Error(err, "Failed to write metrics file", "path", opts.MetricsFile)
		}
	}
	if runErr != nil {
		return runErr
	}

	fmt.Fprint(output, tui.RenderSummary(tui.Summary{
		RunID:    res.RunID,
		Resolved: res.Resolved,
		Pending:  res.Pending,
		Failures: res.Failures,
		Closed:   res.Closed,
	}))

	if n := len(res.Failures); n > 0 {
		return fmt.Errorf("%d cluster upgrade(s) failed", n)
	}
	return nil
}

func selectPrompter(opts UpgradeOptions) (prompt.Prompter, bool, error) {
	if opts.CredentialsFile != "" {
		p, err := prompt.LoadCredentials(opts.CredentialsFile)
		if err != nil {
			return nil, false, err
		}
		return p, false, nil
	}
	if !isInteractive() {
		return nil, false, errNoTerminal
	}
	return prompt.NewInteractive(opts.Accessible), true, nil
}
