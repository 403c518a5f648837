// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package scheduler

import (
	"time"

	"github.com/specialistvlad/contentgrid/internal/node"
)

// Report is the run-scoped result map of one workflow run.
type Report struct {
	RunID    string
	Workflow string
	// NodeIDs lists every node in workflow order.
	NodeIDs []string
	// Results holds the final record of every node, keyed by ID.
	Results map[string]node.Result
	// Order lists nodes in the order they started running.
	Order      []string
	StartedAt  time.Time
	FinishedAt time.Time
}

func (r *Report) withStatus(s node.Status) []string {
	var ids []string
	for _, id := range r.NodeIDs {
		if r.Results[id].Status == s {
			ids = append(ids, id)
		}
	}
	return ids
}

// Completed returns the IDs of completed nodes, in workflow order.
func (r *Report) Completed() []string { return r.withStatus(node.StatusCompleted) }

// Failed returns the IDs of failed nodes, in workflow order.
func (r *Report) Failed() []string { return r.withStatus(node.StatusFailed) }

// Idle returns the IDs of nodes that never ran, in workflow order.
func (r *Report) Idle() []string { return r.withStatus(node.StatusIdle) }

// Status returns the final status of id.
func (r *Report) Status(id string) node.Status {
	res, ok := r.Results[id]
	if !ok {
		return node.StatusIdle
	}
	return res.Status
}

// Output returns the output of id, or nil if it did not complete.
func (r *Report) Output(id string) any {
	return r.Results[id].Output
}

// Duration is the wall time of the run.
func (r *Report) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
