// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package scheduler

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/specialistvlad/contentgrid/internal/brand"
	"github.com/specialistvlad/contentgrid/internal/completion"
	"github.com/specialistvlad/contentgrid/internal/graph"
	"github.com/specialistvlad/contentgrid/internal/handlers"
	"github.com/specialistvlad/contentgrid/internal/localexecutor"
	"github.com/specialistvlad/contentgrid/internal/node"
	"github.com/specialistvlad/contentgrid/internal/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// transition is one observed status change.
type transition struct {
	ID     string
	Status node.Status
}

// recorder collects observed transitions.
type recorder struct {
	mu      sync.Mutex
	events  []transition
	outputs map[string]any
}

func (r *recorder) observe(id string, status node.Status, output any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, transition{id, status})
	if r.outputs == nil {
		r.outputs = make(map[string]any)
	}
	r.outputs[id] = output
}

func (r *recorder) index(id string, status node.Status) int {
	for i, e := range r.events {
		if e.ID == id && e.Status == status {
			return i
		}
	}
	return -1
}

// newTestScheduler wires a scheduler with a minimal set of handlers: a
// text source, a summarizer backed by the stub completer, a merge that
// passes input through and a node that always fails.
func newTestScheduler(t *testing.T, c completion.Completer) Scheduler {
	t.Helper()
	reg := handlers.New()
	reg.Register(node.KindTextInput, func(_ context.Context, tk *task.Task) (any, error) {
		text, ok := tk.Node.Param("text")
		if !ok {
			return nil, node.MissingConfig(tk.Node.Kind, "text")
		}
		return text, nil
	})
	reg.Register(node.KindSummarize, func(ctx context.Context, tk *task.Task) (any, error) {
		if tk.Input == "" {
			return nil, node.EmptyInput(tk.Node.Kind)
		}
		return c.Complete(ctx, tk.Input)
	})
	reg.Register(node.KindMerge, func(_ context.Context, tk *task.Task) (any, error) {
		return tk.Input, nil
	})
	reg.Register(node.KindPublish, func(context.Context, *task.Task) (any, error) {
		return nil, errors.New("channel unavailable")
	})
	reg.Register(node.KindBranch, func(context.Context, *task.Task) (any, error) {
		panic("unexpected state")
	})
	return New(localexecutor.New(reg, c))
}

func summarizer() completion.Completer {
	return completion.Func(func(_ context.Context, p string) (string, error) {
		return "SUMMARY:" + p, nil
	})
}

func text(id, s string) *node.Node {
	return &node.Node{ID: id, Kind: node.KindTextInput, Config: map[string]any{"text": s}}
}

func TestRun_SourceThenSummarize(t *testing.T) {
	// Arrange
	wf := &node.Workflow{
		Name:  "summary",
		Nodes: []*node.Node{text("A", "hello"), {ID: "B", Kind: node.KindSummarize}},
		Edges: []node.Edge{{From: "A", To: "B"}},
	}
	rec := &recorder{}

	// Act
	report, err := newTestScheduler(t, summarizer()).Run(context.Background(), wf, rec.observe, nil)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, node.StatusCompleted, report.Status("A"))
	assert.Equal(t, "hello", report.Output("A"))
	assert.Equal(t, node.StatusCompleted, report.Status("B"))
	assert.Contains(t, report.Output("B"), "SUMMARY:")
	assert.Contains(t, report.Output("B"), "hello")
	assert.Equal(t, "hello", report.Results["B"].Input)
	assert.Equal(t, []string{"A", "B"}, report.Order)
	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, "summary", report.Workflow)

	want := []transition{
		{"A", node.StatusRunning}, {"A", node.StatusCompleted},
		{"B", node.StatusRunning}, {"B", node.StatusCompleted},
	}
	if diff := cmp.Diff(want, rec.events); diff != "" {
		t.Errorf("observed transitions mismatch (-want +got):\n%s", diff)
	}
}

func TestRun_MissingConfigStallsDescendants(t *testing.T) {
	wf := &node.Workflow{
		Nodes: []*node.Node{{ID: "A", Kind: node.KindTextInput}, {ID: "B", Kind: node.KindSummarize}},
		Edges: []node.Edge{{From: "A", To: "B"}},
	}
	rec := &recorder{}

	report, err := newTestScheduler(t, summarizer()).Run(context.Background(), wf, rec.observe, nil)

	require.NoError(t, err)
	assert.Equal(t, node.StatusFailed, report.Status("A"))
	assert.True(t, errors.Is(report.Results["A"].Err, node.ErrConfig))
	assert.Contains(t, rec.outputs["A"], "text")
	assert.Equal(t, node.StatusIdle, report.Status("B"))
	assert.Nil(t, report.Output("B"))
	assert.Equal(t, []string{"A"}, report.Failed())
	assert.Equal(t, []string{"B"}, report.Idle())
	assert.Equal(t, -1, rec.index("B", node.StatusRunning))
}

func TestRun_Diamond(t *testing.T) {
	wf := &node.Workflow{
		Nodes: []*node.Node{
			text("A", "root"),
			{ID: "B", Kind: node.KindSummarize},
			{ID: "C", Kind: node.KindSummarize},
			{ID: "D", Kind: node.KindMerge},
		},
		Edges: []node.Edge{{From: "A", To: "B"}, {From: "A", To: "C"}, {From: "B", To: "D"}, {From: "C", To: "D"}},
	}
	rec := &recorder{}

	report, err := newTestScheduler(t, summarizer()).Run(context.Background(), wf, rec.observe, nil)

	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C", "D"}, report.Completed())
	dRunning := rec.index("D", node.StatusRunning)
	assert.Greater(t, dRunning, rec.index("B", node.StatusCompleted))
	assert.Greater(t, dRunning, rec.index("C", node.StatusCompleted))
	assert.Equal(t, 1, strings.Count(strings.Join(report.Order, ","), "D"))

	input := report.Results["D"].Input
	assert.Equal(t, "SUMMARY:root"+graph.InputSeparator+"SUMMARY:root", input)
}

func TestRun_InputsFollowEdgeOrder(t *testing.T) {
	wf := &node.Workflow{
		Nodes: []*node.Node{text("A", "foo"), text("B", "bar"), {ID: "M", Kind: node.KindMerge}},
		Edges: []node.Edge{{From: "B", To: "M"}, {From: "A", To: "M"}},
	}

	report, err := newTestScheduler(t, summarizer()).Run(context.Background(), wf, nil, nil)

	require.NoError(t, err)
	assert.Equal(t, "bar"+graph.InputSeparator+"foo", report.Output("M"))
}

func TestRun_TasksCarryParentBlocks(t *testing.T) {
	var seen []string
	reg := handlers.New()
	reg.Register(node.KindTextInput, func(_ context.Context, tk *task.Task) (any, error) {
		return tk.Node.Config["text"], nil
	})
	reg.Register(node.KindMerge, func(_ context.Context, tk *task.Task) (any, error) {
		seen = tk.Inputs
		return tk.Input, nil
	})
	withRule := "Intro" + graph.InputSeparator + "Outro"
	wf := &node.Workflow{
		Nodes: []*node.Node{text("A", withRule), text("B", "Second parent"), {ID: "M", Kind: node.KindMerge}},
		Edges: []node.Edge{{From: "A", To: "M"}, {From: "B", To: "M"}},
	}

	_, err := New(localexecutor.New(reg, nil)).Run(context.Background(), wf, nil, nil)

	require.NoError(t, err)
	assert.Equal(t, []string{withRule, "Second parent"}, seen)
}

func TestRun_FailureIsolation(t *testing.T) {
	// A -> P(fails) -> X -> Y ; A -> S -> Y2 ; X and Y stall, the other path completes.
	// Z depends on both P and S and therefore stalls too.
	wf := &node.Workflow{
		Nodes: []*node.Node{
			text("A", "draft"),
			{ID: "P", Kind: node.KindPublish},
			{ID: "X", Kind: node.KindMerge},
			{ID: "Y", Kind: node.KindMerge},
			{ID: "S", Kind: node.KindSummarize},
			{ID: "Y2", Kind: node.KindMerge},
			{ID: "Z", Kind: node.KindMerge},
		},
		Edges: []node.Edge{
			{From: "A", To: "P"}, {From: "P", To: "X"}, {From: "X", To: "Y"},
			{From: "A", To: "S"}, {From: "S", To: "Y2"},
			{From: "P", To: "Z"}, {From: "S", To: "Z"},
		},
	}

	report, err := newTestScheduler(t, summarizer()).Run(context.Background(), wf, nil, nil)

	require.NoError(t, err)
	assert.Equal(t, []string{"P"}, report.Failed())
	assert.ErrorContains(t, report.Results["P"].Err, "channel unavailable")
	assert.Equal(t, []string{"X", "Y", "Z"}, report.Idle())
	assert.Equal(t, []string{"A", "S", "Y2"}, report.Completed())
}

func TestRun_TopologicalSoundness(t *testing.T) {
	wf := &node.Workflow{
		Nodes: []*node.Node{
			{ID: "E", Kind: node.KindMerge},
			{ID: "D", Kind: node.KindMerge},
			text("A", "a"),
			{ID: "C", Kind: node.KindMerge},
			text("B", "b"),
		},
		Edges: []node.Edge{
			{From: "D", To: "E"}, {From: "C", To: "D"}, {From: "A", To: "C"}, {From: "B", To: "C"}, {From: "A", To: "E"},
		},
	}
	rec := &recorder{}

	report, err := newTestScheduler(t, summarizer()).Run(context.Background(), wf, rec.observe, nil)

	require.NoError(t, err)
	assert.Len(t, report.Completed(), 5)
	assert.Equal(t, []string{"A", "B", "C", "D", "E"}, report.Order)
	for _, e := range wf.Edges {
		assert.Less(t, rec.index(e.From, node.StatusCompleted), rec.index(e.To, node.StatusRunning), "edge %s -> %s", e.From, e.To)
	}
}

func TestRun_CycleTerminates(t *testing.T) {
	wf := &node.Workflow{
		Nodes: []*node.Node{
			text("A", "a"),
			{ID: "B", Kind: node.KindMerge},
			{ID: "C", Kind: node.KindMerge},
			{ID: "D", Kind: node.KindMerge},
			{ID: "Self", Kind: node.KindMerge},
		},
		Edges: []node.Edge{
			{From: "A", To: "B"}, {From: "B", To: "C"}, {From: "C", To: "B"}, {From: "C", To: "D"},
			{From: "Self", To: "Self"},
		},
	}

	report, err := newTestScheduler(t, summarizer()).Run(context.Background(), wf, nil, nil)

	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, report.Completed())
	assert.Equal(t, []string{"B", "C", "D", "Self"}, report.Idle())
}

func TestRun_HandlerPanicIsContained(t *testing.T) {
	wf := &node.Workflow{
		Nodes: []*node.Node{text("A", "a"), {ID: "Br", Kind: node.KindBranch}, {ID: "S", Kind: node.KindSummarize}},
		Edges: []node.Edge{{From: "A", To: "Br"}, {From: "A", To: "S"}},
	}

	report, err := newTestScheduler(t, summarizer()).Run(context.Background(), wf, nil, nil)

	require.NoError(t, err)
	assert.Equal(t, node.StatusFailed, report.Status("Br"))
	assert.ErrorContains(t, report.Results["Br"].Err, "unexpected state")
	assert.Equal(t, node.StatusCompleted, report.Status("S"))
}

func TestRun_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	blocking := completion.Func(func(ctx context.Context, p string) (string, error) {
		cancel()
		return "", ctx.Err()
	})
	wf := &node.Workflow{
		Nodes: []*node.Node{text("A", "a"), {ID: "B", Kind: node.KindSummarize}, {ID: "C", Kind: node.KindMerge}, text("Z", "z")},
		Edges: []node.Edge{{From: "A", To: "B"}, {From: "A", To: "C"}},
	}

	report, err := newTestScheduler(t, blocking).Run(ctx, wf, nil, nil)

	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, report)
	assert.Equal(t, []string{"A", "Z"}, report.Completed())
	assert.Equal(t, []string{"B"}, report.Failed())
	assert.Equal(t, []string{"C"}, report.Idle())
}

func TestRun_Idempotent(t *testing.T) {
	wf := &node.Workflow{
		Nodes: []*node.Node{
			text("A", "hello"),
			{ID: "B", Kind: node.KindSummarize},
			{ID: "P", Kind: node.KindPublish},
			{ID: "C", Kind: node.KindMerge},
		},
		Edges: []node.Edge{{From: "A", To: "B"}, {From: "B", To: "P"}, {From: "P", To: "C"}},
	}
	s := newTestScheduler(t, summarizer())

	first, err := s.Run(context.Background(), wf, nil, nil)
	require.NoError(t, err)
	second, err := s.Run(context.Background(), wf, nil, nil)
	require.NoError(t, err)

	opts := cmp.Options{
		cmpopts.IgnoreFields(node.Result{}, "StartedAt", "FinishedAt", "Err"),
	}
	if diff := cmp.Diff(first.Results, second.Results, opts); diff != "" {
		t.Errorf("second run differs (-first +second):\n%s", diff)
	}
	assert.Equal(t, first.Results["P"].ErrText(), second.Results["P"].ErrText())
	assert.NotEqual(t, first.RunID, second.RunID)
	assert.Equal(t, "hello", wf.Nodes[0].Config["text"])
}

func TestRun_InvalidWorkflow(t *testing.T) {
	s := newTestScheduler(t, summarizer())
	rec := &recorder{}

	_, err := s.Run(context.Background(), &node.Workflow{
		Nodes: []*node.Node{text("A", "a")},
		Edges: []node.Edge{{From: "A", To: "ghost"}},
	}, rec.observe, nil)
	assert.ErrorIs(t, err, graph.ErrUnknownNode)
	assert.Empty(t, rec.events)

	_, err = s.Run(context.Background(), &node.Workflow{Nodes: []*node.Node{text("A", "a"), text("A", "b")}}, nil, nil)
	assert.ErrorIs(t, err, graph.ErrDuplicateNode)

	_, err = s.Run(context.Background(), nil, nil, nil)
	assert.Error(t, err)
}

func TestRun_EmptyWorkflow(t *testing.T) {
	report, err := newTestScheduler(t, summarizer()).Run(context.Background(), &node.Workflow{}, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, report.Results)
	assert.Empty(t, report.Order)
}

func TestRun_PassesBrandToTasks(t *testing.T) {
	var seen *brand.Context
	reg := handlers.New()
	reg.Register(node.KindRepurpose, func(_ context.Context, tk *task.Task) (any, error) {
		seen = tk.Brand
		return "ok", nil
	})
	s := New(localexecutor.New(reg, nil), WithWorkDir("/tmp/workflows"))
	b := &brand.Context{Name: "Acme"}

	_, err := s.Run(context.Background(), &node.Workflow{Nodes: []*node.Node{{ID: "R", Kind: node.KindRepurpose}}}, nil, b)
	require.NoError(t, err)
	assert.Same(t, b, seen)
}

func TestObservers(t *testing.T) {
	var a, b []string
	obs := Observers(
		func(id string, s node.Status, _ any) { a = append(a, id+":"+string(s)) },
		nil,
		func(id string, s node.Status, _ any) { b = append(b, id+":"+string(s)) },
	)

	obs("n", node.StatusRunning, nil)

	assert.Equal(t, []string{"n:running"}, a)
	assert.Equal(t, a, b)
}
