// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package task

import (
	"github.com/specialistvlad/contentgrid/internal/brand"
	"github.com/specialistvlad/contentgrid/internal/node"
)

// Task represents a node that is fully prepared for execution.
// It is assembled by the scheduler once every parent has completed and is the
// input of the handler registered for the node's kind.
type Task struct {
	// Node is the original node definition from the workflow. Handlers must
	// treat it as read-only.
	Node *node.Node

	// Input is the concatenated text of the node's completed parents, in edge
	// order. It is empty for roots.
	Input string

	// Inputs holds the text of each completed parent that produced output,
	// in edge order. Input is these blocks joined; handlers that work per
	// parent read Inputs instead of splitting Input.
	Inputs []string

	// Brand is the optional brand context of the run.
	Brand *brand.Context

	// WorkDir is the directory relative paths in the node's configuration are
	// resolved against.
	WorkDir string
}

// Blocks returns the per-parent input blocks. A task built without Inputs
// yields its whole Input as a single block.
func (t *Task) Blocks() []string {
	if t.Inputs != nil {
		return t.Inputs
	}
	if t.Input == "" {
		return nil
	}
	return []string{t.Input}
}
