// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package app

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	json "github.com/goccy/go-json"
	"github.com/specialistvlad/contentgrid/internal/node"
	"github.com/specialistvlad/contentgrid/internal/scheduler"
)

// resultsFile is the JSON document written by -results.
type resultsFile struct {
	RunID      string       `json:"run_id"`
	Workflow   string       `json:"workflow"`
	StartedAt  time.Time    `json:"started_at"`
	FinishedAt time.Time    `json:"finished_at"`
	Order      []string     `json:"order"`
	Nodes      []nodeResult `json:"nodes"`
}

type nodeResult struct {
	ID         string      `json:"id"`
	Kind       node.Kind   `json:"kind"`
	Name       string      `json:"name"`
	Status     node.Status `json:"status"`
	Output     any         `json:"output,omitempty"`
	Error      string      `json:"error,omitempty"`
	DurationMS int64       `json:"duration_ms"`
}

func newResultsFile(wf *node.Workflow, report *scheduler.Report) resultsFile {
	out := resultsFile{
		RunID:      report.RunID,
		Workflow:   report.Workflow,
		StartedAt:  report.StartedAt,
		FinishedAt: report.FinishedAt,
		Order:      report.Order,
	}
	for _, n := range wf.Nodes {
		res := report.Results[n.ID]
		out.Nodes = append(out.Nodes, nodeResult{
			ID:         n.ID,
			Kind:       n.Kind,
			Name:       n.DisplayName(),
			Status:     res.Status,
			Output:     res.Output,
			Error:      res.ErrText(),
			DurationMS: res.Duration().Milliseconds(),
		})
	}
	return out
}

// writeResults serializes the report to path.
func writeResults(path string, wf *node.Workflow, report *scheduler.Report) error {
	data, err := json.MarshalIndent(newResultsFile(wf, report), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode run results: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create results directory: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write run results '%s': %w", path, err)
	}
	return nil
}
