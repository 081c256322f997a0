// Package tui renders dbeast's terminal output: queue tables, run summaries,
// doctor checks and the spinner shown while an upgrade request is in flight.
package tui

import (
	"fmt"
	"strings"

	"github.com/dbeast/dbeast/internal/upgrade"
	"github.com/dbeast/dbeast/internal/util/naming"
)

// QueueRow is one data source line in the datasources listing.
type QueueRow struct {
	UID      string
	URL      string
	Auth     bool
	Username string
}

// RenderQueue renders the data sources that the upgrade run would pick up,
// with the cluster name derived from each identifier.
func RenderQueue(rows []QueueRow, convention naming.Convention) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Monitored clusters"))
	b.WriteString("\n")
	if len(rows) == 0 {
		b.WriteString(dimStyle.Render("  No matching data sources"))
		b.WriteString("\n")
		return b.String()
	}

	fmt.Fprintf(&b, "  %-24s %-40s %-6s %s\n", "CLUSTER", "URL", "AUTH", "USER")
	for _, r := range rows {
		cluster, _ := convention.ClusterName(r.UID)
		auth := "no"
		if r.Auth {
			auth = "yes"
		}
		user := r.Username
		if user == "" {
			user = "-"
		}
		fmt.Fprintf(&b, "  %-24s %-40s %-6s %s\n", cluster, r.URL, auth, user)
	}
	return b.String()
}

// Summary is the end-of-run report.
type Summary struct {
	RunID    string
	Resolved []upgrade.Resolution
	Pending  []upgrade.Project
	Failures map[string]string
	Closed   bool
}

// RenderSummary renders the outcome of an upgrade run.
func RenderSummary(s Summary) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Upgrade summary"))
	if s.RunID != "" {
		b.WriteString(dimStyle.Render("  run " + s.RunID))
	}
	b.WriteString("\n")

	if len(s.Resolved) == 0 && len(s.Pending) == 0 {
		b.WriteString(dimStyle.Render("  No clusters to upgrade"))
		b.WriteString("\n")
		return b.String()
	}

	for _, r := range s.Resolved {
		switch r.Outcome {
		case upgrade.StatusUpgraded:
			fmt.Fprintf(&b, "  %s %s\n", readyStyle.Render(checkMark), r.Project.Host)
		default:
			line := r.Project.Host
			if msg, ok := s.Failures[r.Project.Host]; ok {
				line += "  " + failedStyle.Render(msg)
			}
			fmt.Fprintf(&b, "  %s %s\n", dimStyle.Render(skipMark), line)
		}
	}

	if len(s.Pending) > 0 {
		b.WriteString(sectionStyle.Render(fmt.Sprintf("Pending (%d)", len(s.Pending))))
		b.WriteString("\n")
		for _, p := range s.Pending {
			line := p.Host
			if msg, ok := s.Failures[p.Host]; ok {
				line += "  " + failedStyle.Render(msg)
			}
			fmt.Fprintf(&b, "  %s %s\n", pending, line)
		}
	}

	if s.Closed {
		b.WriteString(warningStyle.Render("Prompt closed; run upgrade again to resume"))
		b.WriteString("\n")
	}
	return b.String()
}

// Check is one doctor result line.
type Check struct {
	Name   string `json:"name"`
	OK     bool   `json:"ok"`
	Detail string `json:"detail,omitempty"`
}

// RenderChecks renders doctor results, one per line.
func RenderChecks(checks []Check) string {
	var b strings.Builder
	for _, c := range checks {
		mark := readyStyle.Render(checkMark)
		if !c.OK {
			mark = failedStyle.Render(crossMark)
		}
		fmt.Fprintf(&b, "%s %-28s %s\n", mark, c.Name, dimStyle.Render(c.Detail))
	}
	return b.String()
}
