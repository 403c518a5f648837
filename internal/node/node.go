// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package node defines the vertices and edges of a content workflow and the
// run-scoped result records the scheduler produces for them.
package node

import (
	"time"
)

// Node is a single vertex in the workflow graph, representing one unit of work
// (importing a source, an AI transform, a checkpoint, a sink, a logic step).
//
// A Node is authored by the graph editor and handed to the scheduler as part of
// a Workflow snapshot. The scheduler never mutates it: status and output live in
// the run-scoped Result map instead.
type Node struct {
	// ID is the unique, immutable identifier of the node within its workflow.
	ID string
	// Kind selects the handler that executes the node.
	Kind Kind
	// Name is the human-readable label shown in the editor. Empty means ID.
	Name string
	// Config holds the kind-specific parameters (target URL, language, ...).
	Config map[string]any
}

// DisplayName returns the node's label, falling back to its ID.
func (n *Node) DisplayName() string {
	if n.Name != "" {
		return n.Name
	}
	return n.ID
}

// Edge is a directed dependency: To consumes the output of From.
type Edge struct {
	From string
	To   string
}

// Workflow is the snapshot of nodes and edges passed into one execution run.
type Workflow struct {
	Name  string
	Nodes []*Node
	Edges []Edge
}

// Status represents the execution state of a node during a run.
type Status string

const (
	// StatusIdle indicates the node has not started. Nodes stalled behind a
	// failed parent or a cycle stay idle for the whole run.
	StatusIdle Status = "idle"
	// StatusRunning indicates the node's handler is executing.
	StatusRunning Status = "running"
	// StatusCompleted indicates the node finished and produced an output.
	StatusCompleted Status = "completed"
	// StatusFailed indicates the node's handler returned an error.
	StatusFailed Status = "failed"
)

// Terminal reports whether no further transition can happen within a run.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Result is the run-scoped record of one node's execution.
type Result struct {
	Status Status `json:"status"`
	// Output is the payload of a completed node: a string or a small record.
	Output any `json:"output,omitempty"`
	// Err is set when the node failed.
	Err error `json:"-"`
	// Input is the concatenated parent output the node was executed with.
	Input      string    `json:"input,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// ErrText returns the failure message, or an empty string.
func (r Result) ErrText() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

// Duration is the wall-clock execution time of the node.
func (r Result) Duration() time.Duration {
	if r.StartedAt.IsZero() || r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
