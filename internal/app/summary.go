// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/specialistvlad/contentgrid/internal/node"
	"github.com/specialistvlad/contentgrid/internal/scheduler"
)

const snippetWidth = 60

// printSummary renders one row per node, in workflow order.
func (a *App) printSummary(wf *node.Workflow, report *scheduler.Report) error {
	t := table.NewWriter()
	style := table.StyleLight
	style.Format.Footer = text.FormatDefault
	t.SetStyle(style)
	t.SetTitle("Workflow %s (run %s)", report.Workflow, report.RunID)
	t.AppendHeader(table.Row{"#", "Node", "Kind", "Status", "Duration", "Output"})

	for i, n := range wf.Nodes {
		res := report.Results[n.ID]
		detail := node.TextOf(res.Output)
		if res.Status == node.StatusFailed {
			detail = res.ErrText()
		}
		t.AppendRow(table.Row{
			i + 1,
			n.DisplayName(),
			n.Kind,
			res.Status,
			formatDuration(res.Duration()),
			snippet(detail),
		})
	}

	t.AppendFooter(table.Row{"", "", "", fmt.Sprintf("%d/%d completed", len(report.Completed()), len(wf.Nodes)),
		formatDuration(report.Duration()),
		fmt.Sprintf("%d failed, %d idle", len(report.Failed()), len(report.Idle())),
	})

	_, err := fmt.Fprintln(a.outW, t.Render())
	return err
}

func snippet(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	return text.Snip(s, snippetWidth, "…")
}

func formatDuration(d time.Duration) string {
	if d <= 0 {
		return "-"
	}
	return d.Round(time.Millisecond).String()
}
