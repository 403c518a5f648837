// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package nodestore defines the interface for storing and retrieving the
// dynamic, mutable execution state of nodes during a workflow run.
//
// # Why Node Store Exists
//
// The node store isolates mutable execution state (status, output, error,
// input text) from the immutable workflow structure held by topologystore.
// Caller-owned node values are never written to: everything a run produces
// lands in a store created for that run and is handed back as a snapshot.
//
// # Lifecycle and Usage
//
// The node store is:
//  1. Created once per run (ephemeral, not persistent across runs)
//  2. Reset so every node of the workflow starts idle
//  3. Mutated by the scheduler as nodes transition through states
//  4. Queried to build each node's input text from its parents' outputs
//  5. Snapshotted into the run report and discarded
//
// # State Transitions
//
// Nodes follow this lifecycle:
//
//	idle → running → completed (with output) OR failed (with error)
package nodestore

import (
	"context"

	"github.com/specialistvlad/contentgrid/internal/node"
)

// Store is the interface for managing the mutable execution state of nodes
// during one run.
//
// This interface does NOT manage static structure (nodes, edges). That
// responsibility belongs to topologystore.Store.
//
// # Thread-Safety Requirements
//
// Implementations MUST be safe for concurrent use: observers and metrics may
// read a store while the scheduler writes to it.
type Store interface {
	// Reset discards all state and records every given node as idle.
	Reset(ctx context.Context, ids []string) error

	// SetStatus updates the execution status of a node. Entering running
	// stamps the start time; entering a terminal status stamps the finish time.
	SetStatus(ctx context.Context, id string, status node.Status) error

	// GetStatus retrieves the current execution status of a node.
	//
	// Returns StatusIdle if no status has been set for this node yet.
	GetStatus(ctx context.Context, id string) (node.Status, error)

	// SetInput records the input text the node was executed with.
	SetInput(ctx context.Context, id string, input string) error

	// SetOutput records the successful execution output of a node.
	SetOutput(ctx context.Context, id string, output any) error

	// GetOutput retrieves the recorded output of a completed node.
	//
	// Returns false if the node hasn't completed or produced no output.
	GetOutput(ctx context.Context, id string) (any, bool)

	// SetError records the failure error of a node.
	SetError(ctx context.Context, id string, nodeErr error) error

	// GetError retrieves the recorded error of a failed node, or nil.
	GetError(ctx context.Context, id string) error

	// Result returns the full record of one node.
	Result(ctx context.Context, id string) (node.Result, bool)

	// Snapshot returns a copy of every record, keyed by node ID.
	Snapshot(ctx context.Context) map[string]node.Result
}
