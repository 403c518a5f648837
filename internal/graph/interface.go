// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package graph

import (
	"context"

	"github.com/specialistvlad/contentgrid/internal/node"
)

// Graph is the unified view of one workflow run: its static structure and
// the run-scoped state of every node.
type Graph interface {
	// Node retrieves a node by ID.
	Node(ctx context.Context, id string) (*node.Node, bool)

	// AllNodes returns every node in the order it was added.
	AllNodes(ctx context.Context) []*node.Node

	// ParentsOf returns the full parent nodes of id, in edge order.
	ParentsOf(ctx context.Context, id string) ([]*node.Node, error)

	// ChildrenOf returns the full child nodes of id, in edge order. A child
	// connected by two edges appears twice.
	ChildrenOf(ctx context.Context, id string) ([]*node.Node, error)

	// InDegree counts the edges targeting id.
	InDegree(ctx context.Context, id string) (int, error)

	// NodeStatus returns the status of id. The boolean is false when the node
	// is not part of the graph.
	NodeStatus(ctx context.Context, id string) (node.Status, bool)

	// Result returns the run record of id.
	Result(ctx context.Context, id string) (node.Result, bool)

	// Inputs returns the output text of id's completed parents in edge
	// order. Parents with empty output are skipped.
	Inputs(ctx context.Context, id string) ([]string, error)

	// InputText concatenates the outputs of id's completed parents in edge
	// order, separated by InputSeparator.
	InputText(ctx context.Context, id string) (string, error)

	// Reset marks every node idle and discards outputs and errors.
	Reset(ctx context.Context) error

	// MarkRunning transitions id to running and records its input text.
	MarkRunning(ctx context.Context, id string, input string) error

	// MarkCompleted stores the output of id and transitions it to completed.
	MarkCompleted(ctx context.Context, id string, output any) error

	// MarkFailed stores the error of id and transitions it to failed.
	MarkFailed(ctx context.Context, id string, nodeErr error) error

	// Results returns a snapshot of every node's record.
	Results(ctx context.Context) map[string]node.Result
}
