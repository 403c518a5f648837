// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// This file contains the gohcl schema structs describing the blocks a
// workflow file may contain.

package hcl_adapter

import "github.com/hashicorp/hcl/v2"

// fileRoot is used to decode all possible top-level blocks from any file.
type fileRoot struct {
	Workflows []*WorkflowBlock `hcl:"workflow,block"`
	Nodes     []*NodeBlock     `hcl:"node,block"`
	Edges     []*EdgeBlock     `hcl:"edge,block"`
}

// WorkflowBlock names the workflow: `workflow "launch" { ... }`.
type WorkflowBlock struct {
	Name        string `hcl:"name,label"`
	Description string `hcl:"description,optional"`
}

// NodeBlock declares one vertex: `node "summarize" "digest" { ... }`.
type NodeBlock struct {
	Kind   string         `hcl:"kind,label"`
	ID     string         `hcl:"id,label"`
	Name   string         `hcl:"name,optional"`
	Config hcl.Expression `hcl:"config,optional"`
	Inputs []string       `hcl:"inputs,optional"`

	DeclRange hcl.Range `hcl:",def_range"`
}

// EdgeBlock declares one dependency outside of a node's inputs.
type EdgeBlock struct {
	From string `hcl:"from"`
	To   string `hcl:"to"`
}
