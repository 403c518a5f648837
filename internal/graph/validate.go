// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package graph

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/contentgrid/internal/node"
)

var (
	// ErrUnknownNode is returned when an edge references a node that is not
	// part of the same graph.
	ErrUnknownNode = errors.New("edge references unknown node")
	// ErrDuplicateNode is returned when two nodes share an ID.
	ErrDuplicateNode = errors.New("duplicate node id")
)

// Validate checks the structural invariants of a graph: every node has a
// unique, non-empty ID and every edge connects two nodes of the graph.
// Cycles are allowed; see FindCycle.
func Validate(nodes []*node.Node, edges []node.Edge) error {
	seen := make(map[string]struct{}, len(nodes))
	for i, n := range nodes {
		if n == nil {
			return fmt.Errorf("node at position %d is nil", i)
		}
		if n.ID == "" {
			return fmt.Errorf("node at position %d has an empty id", i)
		}
		if _, dup := seen[n.ID]; dup {
			return fmt.Errorf("%w: '%s'", ErrDuplicateNode, n.ID)
		}
		seen[n.ID] = struct{}{}
	}

	var errs []error
	for _, e := range edges {
		if _, ok := seen[e.From]; !ok {
			errs = append(errs, fmt.Errorf("%w: source '%s' of edge %s -> %s", ErrUnknownNode, e.From, e.From, e.To))
		}
		if _, ok := seen[e.To]; !ok {
			errs = append(errs, fmt.Errorf("%w: target '%s' of edge %s -> %s", ErrUnknownNode, e.To, e.From, e.To))
		}
	}
	return errors.Join(errs...)
}

// FindCycle returns the IDs along one directed cycle, starting and ending with
// the same node, or nil if the graph is acyclic.
func FindCycle(nodes []*node.Node, edges []node.Edge) []string {
	children := make(map[string][]string)
	for _, e := range edges {
		children[e.From] = append(children[e.From], e.To)
	}

	// Classic depth-first search with three sets of nodes:
	// permanent: fully visited and not part of a cycle.
	// temporary: on the current recursion stack.
	// unvisited: all other nodes.
	permanent := make(map[string]bool)
	temporary := make(map[string]bool)
	var stack []string

	var visit func(id string) []string
	visit = func(id string) []string {
		if permanent[id] {
			return nil
		}
		if temporary[id] {
			// Slice the stack from the first occurrence of id.
			for i, s := range stack {
				if s == id {
					cycle := append([]string{}, stack[i:]...)
					return append(cycle, id)
				}
			}
			return []string{id, id}
		}

		temporary[id] = true
		stack = append(stack, id)
		for _, child := range children[id] {
			if cycle := visit(child); cycle != nil {
				return cycle
			}
		}
		stack = stack[:len(stack)-1]
		delete(temporary, id)
		permanent[id] = true
		return nil
	}

	for _, n := range nodes {
		if n == nil {
			continue
		}
		if cycle := visit(n.ID); cycle != nil {
			return cycle
		}
	}
	return nil
}
