// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package topologystore defines the interface for storing the static structure
// of a workflow: its nodes and the directed edges between them.
//
// The topology is written once when a run starts and only read afterwards. It
// holds no execution state; statuses and outputs belong to nodestore.
//
// Edge order is significant. A node's parents are returned in the order their
// edges were added, because parent outputs are concatenated in that order to
// form the node's input text.
package topologystore

import (
	"context"

	"github.com/specialistvlad/contentgrid/internal/node"
)

// Store manages the immutable structure of one workflow run.
type Store interface {
	// AddNode registers a node. Adding a node with an ID that is already
	// present returns an error, since node IDs must be unique within a graph.
	AddNode(ctx context.Context, n *node.Node) error

	// AddEdge records that 'to' consumes the output of 'from'. Both nodes must
	// already exist. Duplicate edges are kept; each one counts separately.
	AddEdge(ctx context.Context, from, to string) error

	// GetNode retrieves a single node by ID.
	GetNode(ctx context.Context, id string) (*node.Node, bool)

	// AllNodes returns every node in insertion order.
	AllNodes(ctx context.Context) []*node.Node

	// ParentsOf returns the IDs of the sources of all edges targeting id, in
	// edge order.
	ParentsOf(ctx context.Context, id string) ([]string, error)

	// ChildrenOf returns the IDs of the targets of all edges leaving id, in
	// edge order.
	ChildrenOf(ctx context.Context, id string) ([]string, error)
}
