// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package graph

import (
	"context"
	"fmt"

	"github.com/specialistvlad/contentgrid/internal/ctxlog"
	"github.com/specialistvlad/contentgrid/internal/node"
	"github.com/specialistvlad/contentgrid/internal/nodestore"
	"github.com/specialistvlad/contentgrid/internal/topologystore"
)

// Manager provides a high-level, thread-safe interface to the execution graph
// by composing and orchestrating lower-level storage backends.
type Manager struct {
	topology  topologystore.Store
	nodeState nodestore.Store
}

// New creates a new graph manager over the given stores.
func New(ts topologystore.Store, ns nodestore.Store) Graph {
	return &Manager{topology: ts, nodeState: ns}
}

// Populate validates a workflow and loads its nodes and edges into a
// topology store.
func Populate(ctx context.Context, ts topologystore.Store, nodes []*node.Node, edges []node.Edge) error {
	if err := Validate(nodes, edges); err != nil {
		return err
	}
	for _, n := range nodes {
		if err := ts.AddNode(ctx, n); err != nil {
			return err
		}
	}
	for _, e := range edges {
		if err := ts.AddEdge(ctx, e.From, e.To); err != nil {
			return err
		}
	}
	ctxlog.FromContext(ctx).Debug("Topology populated.", "nodes", len(nodes), "edges", len(edges))
	return nil
}

func (m *Manager) Node(ctx context.Context, id string) (*node.Node, bool) {
	return m.topology.GetNode(ctx, id)
}

func (m *Manager) AllNodes(ctx context.Context) []*node.Node {
	return m.topology.AllNodes(ctx)
}

func (m *Manager) ParentsOf(ctx context.Context, id string) ([]*node.Node, error) {
	ids, err := m.topology.ParentsOf(ctx, id)
	if err != nil {
		return nil, err
	}
	return m.resolve(ctx, ids)
}

func (m *Manager) ChildrenOf(ctx context.Context, id string) ([]*node.Node, error) {
	ids, err := m.topology.ChildrenOf(ctx, id)
	if err != nil {
		return nil, err
	}
	return m.resolve(ctx, ids)
}

func (m *Manager) resolve(ctx context.Context, ids []string) ([]*node.Node, error) {
	nodes := make([]*node.Node, 0, len(ids))
	for _, id := range ids {
		n, ok := m.topology.GetNode(ctx, id)
		if !ok {
			return nil, fmt.Errorf("internal inconsistency: node '%s' referenced by an edge is missing", id)
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

func (m *Manager) InDegree(ctx context.Context, id string) (int, error) {
	ids, err := m.topology.ParentsOf(ctx, id)
	if err != nil {
		return 0, err
	}
	return len(ids), nil
}

func (m *Manager) NodeStatus(ctx context.Context, id string) (node.Status, bool) {
	if _, ok := m.topology.GetNode(ctx, id); !ok {
		return node.StatusIdle, false
	}
	status, err := m.nodeState.GetStatus(ctx, id)
	if err != nil {
		return node.StatusIdle, false
	}
	return status, true
}

func (m *Manager) Result(ctx context.Context, id string) (node.Result, bool) {
	return m.nodeState.Result(ctx, id)
}

func (m *Manager) InputText(ctx context.Context, id string) (string, error) {
	parts, err := m.Inputs(ctx, id)
	if err != nil {
		return "", err
	}
	return JoinInputs(parts), nil
}

func (m *Manager) Inputs(ctx context.Context, id string) ([]string, error) {
	parents, err := m.topology.ParentsOf(ctx, id)
	if err != nil {
		return nil, err
	}
	var parts []string
	for _, p := range parents {
		status, err := m.nodeState.GetStatus(ctx, p)
		if err != nil {
			return nil, err
		}
		if status != node.StatusCompleted {
			continue
		}
		out, ok := m.nodeState.GetOutput(ctx, p)
		if !ok {
			continue
		}
		if text := node.TextOf(out); text != "" {
			parts = append(parts, text)
		}
	}
	return parts, nil
}

func (m *Manager) Reset(ctx context.Context) error {
	nodes := m.topology.AllNodes(ctx)
	ids := make([]string, 0, len(nodes))
	for _, n := range nodes {
		ids = append(ids, n.ID)
	}
	return m.nodeState.Reset(ctx, ids)
}

func (m *Manager) MarkRunning(ctx context.Context, id string, input string) error {
	if err := m.nodeState.SetInput(ctx, id, input); err != nil {
		return err
	}
	return m.nodeState.SetStatus(ctx, id, node.StatusRunning)
}

func (m *Manager) MarkCompleted(ctx context.Context, id string, output any) error {
	if err := m.nodeState.SetOutput(ctx, id, output); err != nil {
		return err
	}
	return m.nodeState.SetStatus(ctx, id, node.StatusCompleted)
}

func (m *Manager) MarkFailed(ctx context.Context, id string, nodeErr error) error {
	if err := m.nodeState.SetError(ctx, id, nodeErr); err != nil {
		return err
	}
	return m.nodeState.SetStatus(ctx, id, node.StatusFailed)
}

func (m *Manager) Results(ctx context.Context) map[string]node.Result {
	return m.nodeState.Snapshot(ctx)
}
