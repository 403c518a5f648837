// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package graph

import (
	"strings"

	"github.com/specialistvlad/contentgrid/internal/node"
)

// InputSeparator joins the outputs of several parents into one input text.
const InputSeparator = "\n\n---\n\n"

func index(nodes []*node.Node) map[string]*node.Node {
	idx := make(map[string]*node.Node, len(nodes))
	for _, n := range nodes {
		if n != nil {
			idx[n.ID] = n
		}
	}
	return idx
}

// ParentsOf returns the nodes that have an edge targeting id, in edge order.
func ParentsOf(id string, nodes []*node.Node, edges []node.Edge) []*node.Node {
	idx := index(nodes)
	var out []*node.Node
	for _, e := range edges {
		if e.To != id {
			continue
		}
		if n, ok := idx[e.From]; ok {
			out = append(out, n)
		}
	}
	return out
}

// ChildrenOf returns the nodes targeted by an edge leaving id, in edge order.
func ChildrenOf(id string, nodes []*node.Node, edges []node.Edge) []*node.Node {
	idx := index(nodes)
	var out []*node.Node
	for _, e := range edges {
		if e.From != id {
			continue
		}
		if n, ok := idx[e.To]; ok {
			out = append(out, n)
		}
	}
	return out
}

// InDegree counts the edges targeting id.
func InDegree(id string, edges []node.Edge) int {
	count := 0
	for _, e := range edges {
		if e.To == id {
			count++
		}
	}
	return count
}

// Roots returns the nodes with no incoming edge, in node order.
func Roots(nodes []*node.Node, edges []node.Edge) []*node.Node {
	var out []*node.Node
	for _, n := range nodes {
		if n != nil && InDegree(n.ID, edges) == 0 {
			out = append(out, n)
		}
	}
	return out
}

// CollectInputText concatenates the outputs of id's parents in edge order,
// separated by InputSeparator. Parents without an entry in outputs contribute
// nothing. The result is empty when no parent has produced output; node kinds
// that need input must treat that as an error.
func CollectInputText(id string, nodes []*node.Node, edges []node.Edge, outputs map[string]any) string {
	var parts []string
	for _, p := range ParentsOf(id, nodes, edges) {
		out, ok := outputs[p.ID]
		if !ok {
			continue
		}
		if text := node.TextOf(out); text != "" {
			parts = append(parts, text)
		}
	}
	return JoinInputs(parts)
}

// JoinInputs joins parent texts with InputSeparator.
func JoinInputs(parts []string) string {
	return strings.Join(parts, InputSeparator)
}
