// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package inmemorytopology provides a simple, thread-safe, in-memory
// implementation of the topologystore.Store interface.
package inmemorytopology

import (
	"context"
	"fmt"
	"sync"

	"github.com/specialistvlad/contentgrid/internal/node"
	"github.com/specialistvlad/contentgrid/internal/topologystore"
)

// Store implements the topologystore.Store interface using maps and a mutex
// for thread-safe concurrent access.
type Store struct {
	mu       sync.RWMutex
	order    []string
	nodes    map[string]*node.Node
	parents  map[string][]string // Key: node ID, Value: edge sources in edge order
	children map[string][]string // Key: node ID, Value: edge targets in edge order
}

// New creates a new, empty in-memory topology store.
func New() topologystore.Store {
	return &Store{
		nodes:    make(map[string]*node.Node),
		parents:  make(map[string][]string),
		children: make(map[string][]string),
	}
}

// AddNode adds a new node to the store.
func (s *Store) AddNode(ctx context.Context, n *node.Node) error {
	if n == nil || n.ID == "" {
		return fmt.Errorf("node must have a non-empty ID")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.nodes[n.ID]; exists {
		return fmt.Errorf("node '%s' already exists in topology", n.ID)
	}
	s.nodes[n.ID] = n
	s.order = append(s.order, n.ID)
	return nil
}

// AddEdge creates a dependency link from one node to another.
func (s *Store) AddEdge(ctx context.Context, from, to string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.nodes[from]; !exists {
		return fmt.Errorf("edge source node '%s' not found in topology", from)
	}
	if _, exists := s.nodes[to]; !exists {
		return fmt.Errorf("edge target node '%s' not found in topology", to)
	}

	s.parents[to] = append(s.parents[to], from)
	s.children[from] = append(s.children[from], to)
	return nil
}

// GetNode retrieves a single node by its ID.
func (s *Store) GetNode(ctx context.Context, id string) (*node.Node, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.nodes[id]
	return n, ok
}

// AllNodes returns a slice of all nodes in the topology, in insertion order.
func (s *Store) AllNodes(ctx context.Context) []*node.Node {
	s.mu.RLock()
	defer s.mu.RUnlock()

	nodes := make([]*node.Node, 0, len(s.order))
	for _, id := range s.order {
		nodes = append(nodes, s.nodes[id])
	}
	return nodes
}

// ParentsOf returns the IDs of all nodes the given node consumes from.
func (s *Store) ParentsOf(ctx context.Context, id string) ([]string, error) {
	return s.adjacent(s.parents, id)
}

// ChildrenOf returns the IDs of all nodes consuming the given node's output.
func (s *Store) ChildrenOf(ctx context.Context, id string) ([]string, error) {
	return s.adjacent(s.children, id)
}

func (s *Store) adjacent(index map[string][]string, id string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, exists := s.nodes[id]; !exists {
		return nil, fmt.Errorf("node '%s' not found in topology", id)
	}

	// Copy so callers can't alias the index.
	ids := make([]string, len(index[id]))
	copy(ids, index[id])
	return ids, nil
}
