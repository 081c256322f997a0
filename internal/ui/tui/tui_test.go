package tui

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbeast/dbeast/internal/upgrade"
	"github.com/dbeast/dbeast/internal/util/naming"
)

func TestRenderQueue(t *testing.T) {
	rows := []QueueRow{
		{UID: "Elasticsearch-direct-mon--prod", URL: "http://prod:9200", Auth: true, Username: "elastic"},
		{UID: "Elasticsearch-direct-mon--dev", URL: "http://dev:9200"},
	}

	out := RenderQueue(rows, naming.DefaultConvention())

	assert.Contains(t, out, "Monitored clusters")
	assert.Contains(t, out, "prod")
	assert.Contains(t, out, "http://prod:9200")
	assert.Contains(t, out, "elastic")
	assert.Contains(t, out, "http://dev:9200")
	assert.Equal(t, 4, strings.Count(out, "\n"))
}

func TestRenderQueue_Empty(t *testing.T) {
	out := RenderQueue(nil, naming.DefaultConvention())
	assert.Contains(t, out, "No matching data sources")
}

func TestRenderSummary(t *testing.T) {
	s := Summary{
		RunID: "run-1",
		Resolved: []upgrade.Resolution{
			{Project: upgrade.Project{Host: "http://a:9200"}, Outcome: upgrade.StatusUpgraded},
			{Project: upgrade.Project{Host: "http://b:9200"}, Outcome: upgrade.StatusSkipped},
		},
		Pending:  []upgrade.Project{{Host: "http://c:9200"}},
		Failures: map[string]string{"http://b:9200": "status 500"},
		Closed:   true,
	}

	out := RenderSummary(s)

	assert.Contains(t, out, "run-1")
	assert.Contains(t, out, checkMark+" http://a:9200")
	assert.Contains(t, out, "http://b:9200")
	assert.Contains(t, out, "status 500")
	assert.Contains(t, out, "Pending (1)")
	assert.Contains(t, out, "http://c:9200")
	assert.Contains(t, out, "Prompt closed")
}

func TestRenderSummary_Empty(t *testing.T) {
	out := RenderSummary(Summary{})
	assert.Contains(t, out, "No clusters to upgrade")
	assert.NotContains(t, out, "Pending")
}

func TestRenderChecks(t *testing.T) {
	out := RenderChecks([]Check{
		{Name: "Grafana reachable", OK: true, Detail: "11.2.0"},
		{Name: "Backend reachable", OK: false, Detail: "connection refused"},
	})

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], checkMark)
	assert.Contains(t, lines[0], "11.2.0")
	assert.Contains(t, lines[1], crossMark)
	assert.Contains(t, lines[1], "connection refused")
}

func TestSpinnerModel_DoneQuits(t *testing.T) {
	m := NewSpinnerModel("Upgrading", func() error { return nil })
	wantErr := errors.New("boom")

	updated, cmd := m.Update(doneMsg{err: wantErr})
	got := updated.(SpinnerModel)

	assert.True(t, got.Done)
	assert.Equal(t, wantErr, got.Err)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, got.View())
}

func TestSpinnerModel_IgnoresKeys(t *testing.T) {
	m := NewSpinnerModel("Upgrading", func() error { return nil })

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	got := updated.(SpinnerModel)

	assert.False(t, got.Done)
	assert.Nil(t, cmd)
	assert.Contains(t, got.View(), "Upgrading")
}

func TestSpinnerModel_TickAfterDone(t *testing.T) {
	m := NewSpinnerModel("Upgrading", func() error { return nil })
	m.Done = true

	_, cmd := m.Update(spinner.TickMsg{})
	assert.Nil(t, cmd)
}

func TestRunWithSpinner(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wantErr := errors.New("backend unavailable")
	calls := 0
	err := RunWithSpinner(ctx, io.Discard, "Upgrading", func(context.Context) error {
		calls++
		return wantErr
	})

	assert.ErrorIs(t, err, wantErr)
	assert.Equal(t, 1, calls)
}
