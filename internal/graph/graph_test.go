// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package graph

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/specialistvlad/contentgrid/internal/inmemorystore"
	"github.com/specialistvlad/contentgrid/internal/inmemorytopology"
	"github.com/specialistvlad/contentgrid/internal/node"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(nodes []*node.Node) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.ID)
	}
	return out
}

// diamond returns A -> B, A -> C, B -> D, C -> D.
func diamond() ([]*node.Node, []node.Edge) {
	nodes := []*node.Node{
		{ID: "A", Kind: node.KindTextInput},
		{ID: "B", Kind: node.KindSummarize},
		{ID: "C", Kind: node.KindTranslate},
		{ID: "D", Kind: node.KindMerge},
	}
	edges := []node.Edge{
		{From: "A", To: "B"},
		{From: "A", To: "C"},
		{From: "B", To: "D"},
		{From: "C", To: "D"},
	}
	return nodes, edges
}

func TestPureQueries(t *testing.T) {
	nodes, edges := diamond()

	assert.Equal(t, []string{"B", "C"}, ids(ParentsOf("D", nodes, edges)))
	assert.Empty(t, ParentsOf("A", nodes, edges))
	assert.Equal(t, []string{"B", "C"}, ids(ChildrenOf("A", nodes, edges)))
	assert.Empty(t, ChildrenOf("D", nodes, edges))

	assert.Equal(t, 0, InDegree("A", edges))
	assert.Equal(t, 1, InDegree("B", edges))
	assert.Equal(t, 2, InDegree("D", edges))
	assert.Equal(t, []string{"A"}, ids(Roots(nodes, edges)))
}

func TestCollectInputText(t *testing.T) {
	nodes := []*node.Node{{ID: "A"}, {ID: "B"}, {ID: "C"}, {ID: "X"}}

	t.Run("joins parents in edge order", func(t *testing.T) {
		edges := []node.Edge{{From: "B", To: "X"}, {From: "A", To: "X"}}
		outputs := map[string]any{"A": "foo", "B": "bar"}

		got := CollectInputText("X", nodes, edges, outputs)
		assert.Equal(t, "bar"+InputSeparator+"foo", got)
	})

	t.Run("two parents foo and bar", func(t *testing.T) {
		edges := []node.Edge{{From: "A", To: "X"}, {From: "B", To: "X"}}
		outputs := map[string]any{"A": "foo", "B": "bar"}

		got := CollectInputText("X", nodes, edges, outputs)
		assert.Contains(t, got, "foo")
		assert.Contains(t, got, "bar")
		assert.Contains(t, got, InputSeparator)
	})

	t.Run("parents without output contribute nothing", func(t *testing.T) {
		edges := []node.Edge{{From: "A", To: "X"}, {From: "B", To: "X"}, {From: "C", To: "X"}}
		outputs := map[string]any{"B": node.Ack{Success: true, Message: "sent"}}

		assert.Equal(t, "sent", CollectInputText("X", nodes, edges, outputs))
	})

	t.Run("no parents yields empty string", func(t *testing.T) {
		assert.Equal(t, "", CollectInputText("A", nodes, nil, map[string]any{"B": "x"}))
	})
}

func TestValidate(t *testing.T) {
	nodes, edges := diamond()
	require.NoError(t, Validate(nodes, edges))

	t.Run("duplicate ids", func(t *testing.T) {
		err := Validate([]*node.Node{{ID: "A"}, {ID: "A"}}, nil)
		assert.True(t, errors.Is(err, ErrDuplicateNode))
	})

	t.Run("empty id", func(t *testing.T) {
		assert.ErrorContains(t, Validate([]*node.Node{{}}, nil), "empty id")
	})

	t.Run("dangling edges", func(t *testing.T) {
		err := Validate(nodes, []node.Edge{{From: "A", To: "ghost"}, {From: "phantom", To: "B"}})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrUnknownNode))
		assert.ErrorContains(t, err, "ghost")
		assert.ErrorContains(t, err, "phantom")
	})
}

func TestFindCycle(t *testing.T) {
	t.Run("acyclic", func(t *testing.T) {
		nodes, edges := diamond()
		assert.Nil(t, FindCycle(nodes, edges))
	})

	t.Run("longer cycle is detected", func(t *testing.T) {
		nodes := []*node.Node{{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "d"}}
		edges := []node.Edge{{From: "a", To: "b"}, {From: "b", To: "c"}, {From: "c", To: "d"}, {From: "d", To: "b"}}

		got := FindCycle(nodes, edges)
		if diff := cmp.Diff([]string{"b", "c", "d", "b"}, got); diff != "" {
			t.Errorf("FindCycle() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("self loop", func(t *testing.T) {
		nodes := []*node.Node{{ID: "a"}}
		assert.Equal(t, []string{"a", "a"}, FindCycle(nodes, []node.Edge{{From: "a", To: "a"}}))
	})
}

// createTestGraph creates a graph manager with in-memory stores for testing.
func createTestGraph(t *testing.T, nodes []*node.Node, edges []node.Edge) Graph {
	t.Helper()
	ctx := context.Background()
	topology := inmemorytopology.New()
	require.NoError(t, Populate(ctx, topology, nodes, edges))
	g := New(topology, inmemorystore.New())
	require.NoError(t, g.Reset(ctx))
	return g
}

func TestManager_Structure(t *testing.T) {
	ctx := context.Background()
	nodes, edges := diamond()
	g := createTestGraph(t, nodes, edges)

	n, ok := g.Node(ctx, "B")
	require.True(t, ok)
	assert.Equal(t, node.KindSummarize, n.Kind)

	_, ok = g.Node(ctx, "missing")
	assert.False(t, ok)

	assert.Equal(t, []string{"A", "B", "C", "D"}, ids(g.AllNodes(ctx)))

	parents, err := g.ParentsOf(ctx, "D")
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "C"}, ids(parents))

	children, err := g.ChildrenOf(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "C"}, ids(children))

	deg, err := g.InDegree(ctx, "D")
	require.NoError(t, err)
	assert.Equal(t, 2, deg)

	_, err = g.InDegree(ctx, "missing")
	assert.Error(t, err)
}

func TestManager_PopulateRejectsInvalidGraph(t *testing.T) {
	err := Populate(context.Background(), inmemorytopology.New(),
		[]*node.Node{{ID: "A"}}, []node.Edge{{From: "A", To: "B"}})
	assert.True(t, errors.Is(err, ErrUnknownNode))
}

func TestManager_StateTransitions(t *testing.T) {
	ctx := context.Background()
	nodes, edges := diamond()
	g := createTestGraph(t, nodes, edges)

	status, ok := g.NodeStatus(ctx, "A")
	require.True(t, ok)
	assert.Equal(t, node.StatusIdle, status)

	_, ok = g.NodeStatus(ctx, "missing")
	assert.False(t, ok)

	require.NoError(t, g.MarkRunning(ctx, "A", ""))
	status, _ = g.NodeStatus(ctx, "A")
	assert.Equal(t, node.StatusRunning, status)

	require.NoError(t, g.MarkCompleted(ctx, "A", "draft"))
	res, ok := g.Result(ctx, "A")
	require.True(t, ok)
	assert.Equal(t, node.StatusCompleted, res.Status)
	assert.Equal(t, "draft", res.Output)

	require.NoError(t, g.MarkRunning(ctx, "B", "draft"))
	boom := errors.New("completion service unavailable")
	require.NoError(t, g.MarkFailed(ctx, "B", boom))
	res, _ = g.Result(ctx, "B")
	assert.Equal(t, node.StatusFailed, res.Status)
	assert.Equal(t, boom, res.Err)
	assert.Equal(t, "draft", res.Input)

	results := g.Results(ctx)
	assert.Len(t, results, 4)
	assert.Equal(t, node.StatusIdle, results["D"].Status)

	// Reset wipes the run.
	require.NoError(t, g.Reset(ctx))
	status, _ = g.NodeStatus(ctx, "A")
	assert.Equal(t, node.StatusIdle, status)
}

func TestManager_InputText(t *testing.T) {
	ctx := context.Background()
	nodes, edges := diamond()
	g := createTestGraph(t, nodes, edges)

	require.NoError(t, g.MarkCompleted(ctx, "B", "summary"))
	require.NoError(t, g.MarkCompleted(ctx, "C", "traduction"))

	input, err := g.InputText(ctx, "D")
	require.NoError(t, err)
	assert.Equal(t, "summary"+InputSeparator+"traduction", input)

	// A failed parent contributes nothing, even if it stored an output.
	require.NoError(t, g.MarkFailed(ctx, "C", errors.New("boom")))
	input, err = g.InputText(ctx, "D")
	require.NoError(t, err)
	assert.Equal(t, "summary", input)

	input, err = g.InputText(ctx, "A")
	require.NoError(t, err)
	assert.Empty(t, input)
}

func TestManager_InputsKeepParentBoundaries(t *testing.T) {
	ctx := context.Background()
	nodes, edges := diamond()
	g := createTestGraph(t, nodes, edges)

	withRule := "Intro" + InputSeparator + "Outro"
	require.NoError(t, g.MarkCompleted(ctx, "B", withRule))
	require.NoError(t, g.MarkCompleted(ctx, "C", "Second parent"))

	inputs, err := g.Inputs(ctx, "D")
	require.NoError(t, err)
	assert.Equal(t, []string{withRule, "Second parent"}, inputs)

	inputs, err = g.Inputs(ctx, "A")
	require.NoError(t, err)
	assert.Empty(t, inputs)
}
