// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package config

import (
	"github.com/specialistvlad/contentgrid/internal/node"
)

// Model is the unified, format-agnostic representation of a workflow file set.
type Model struct {
	Name        string
	Description string
	// Files lists the source files in the order they were read.
	Files []string
	Nodes []*NodeDefinition
	Edges []node.Edge
}

// NodeDefinition is the format-agnostic representation of a `node` block.
type NodeDefinition struct {
	Kind   node.Kind
	ID     string
	Name   string
	Config map[string]any
	// Inputs lists the IDs of the nodes feeding this one, in order.
	Inputs []string
	// Source is the file position the node was declared at.
	Source string
}

// Workflow builds the snapshot handed to the scheduler. Edges declared via a
// node's inputs come first, in node order, followed by standalone edges.
func (m *Model) Workflow() *node.Workflow {
	wf := &node.Workflow{Name: m.Name}
	for _, def := range m.Nodes {
		wf.Nodes = append(wf.Nodes, &node.Node{
			ID:     def.ID,
			Kind:   def.Kind,
			Name:   def.Name,
			Config: def.Config,
		})
	}
	for _, def := range m.Nodes {
		for _, in := range def.Inputs {
			wf.Edges = append(wf.Edges, node.Edge{From: in, To: def.ID})
		}
	}
	wf.Edges = append(wf.Edges, m.Edges...)
	return wf
}
