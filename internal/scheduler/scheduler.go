// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/specialistvlad/contentgrid/internal/brand"
	"github.com/specialistvlad/contentgrid/internal/ctxlog"
	"github.com/specialistvlad/contentgrid/internal/executor"
	"github.com/specialistvlad/contentgrid/internal/graph"
	"github.com/specialistvlad/contentgrid/internal/inmemorystore"
	"github.com/specialistvlad/contentgrid/internal/inmemorytopology"
	"github.com/specialistvlad/contentgrid/internal/node"
	"github.com/specialistvlad/contentgrid/internal/nodestore"
	"github.com/specialistvlad/contentgrid/internal/task"
	"github.com/specialistvlad/contentgrid/internal/topologystore"
)

// StoreFactory creates the stores backing one run.
type StoreFactory func() (topologystore.Store, nodestore.Store)

func inMemoryStores() (topologystore.Store, nodestore.Store) {
	return inmemorytopology.New(), inmemorystore.New()
}

// DefaultScheduler is the sequential, fault-isolating implementation of
// Scheduler.
type DefaultScheduler struct {
	exec      executor.Executor
	workDir   string
	newStores StoreFactory
	now       func() time.Time
}

// Option configures a DefaultScheduler.
type Option func(*DefaultScheduler)

// WithWorkDir sets the directory relative paths in node configuration are
// resolved against.
func WithWorkDir(dir string) Option {
	return func(s *DefaultScheduler) { s.workDir = dir }
}

// WithStores replaces the in-memory stores created for every run.
func WithStores(f StoreFactory) Option {
	return func(s *DefaultScheduler) { s.newStores = f }
}

// New creates a scheduler that runs nodes through exec.
func New(exec executor.Executor, opts ...Option) Scheduler {
	s := &DefaultScheduler{
		exec:      exec,
		newStores: inMemoryStores,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run implements the Scheduler interface.
func (s *DefaultScheduler) Run(ctx context.Context, wf *node.Workflow, observe Observer, b *brand.Context) (*Report, error) {
	if wf == nil {
		return nil, fmt.Errorf("workflow is nil")
	}
	if observe == nil {
		observe = func(string, node.Status, any) {}
	}

	report := &Report{
		RunID:     uuid.NewString(),
		Workflow:  wf.Name,
		StartedAt: s.now(),
	}
	ctx, logger := ctxlog.With(ctx, "run_id", report.RunID)

	topology, state := s.newStores()
	if err := graph.Populate(ctx, topology, wf.Nodes, wf.Edges); err != nil {
		return nil, fmt.Errorf("invalid workflow '%s': %w", wf.Name, err)
	}
	g := graph.New(topology, state)
	if err := g.Reset(ctx); err != nil {
		return nil, fmt.Errorf("failed to reset run state: %w", err)
	}

	remaining := make(map[string]int, len(wf.Nodes))
	var queue []string
	for _, n := range g.AllNodes(ctx) {
		report.NodeIDs = append(report.NodeIDs, n.ID)
		deg, err := g.InDegree(ctx, n.ID)
		if err != nil {
			return nil, err
		}
		remaining[n.ID] = deg
		if deg == 0 {
			queue = append(queue, n.ID)
		}
	}
	logger.Info("Workflow run started.", "workflow", wf.Name, "nodes", len(wf.Nodes), "edges", len(wf.Edges), "roots", len(queue))

	var runErr error
	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			logger.Warn("Workflow run cancelled, remaining nodes stay idle.", "queued", len(queue), "error", err)
			runErr = err
			break
		}

		id := queue[0]
		queue = queue[1:]

		children, err := s.step(ctx, g, id, b, observe)
		if err != nil {
			runErr = err
			break
		}
		report.Order = append(report.Order, id)
		for _, child := range children {
			remaining[child]--
			if remaining[child] == 0 {
				queue = append(queue, child)
			}
		}
	}

	report.Results = g.Results(ctx)
	report.FinishedAt = s.now()
	s.logStalled(ctx, wf, report)
	logger.Info("Workflow run finished.",
		"completed", len(report.Completed()),
		"failed", len(report.Failed()),
		"idle", len(report.Idle()),
		"duration", report.Duration(),
	)
	return report, runErr
}

// step executes one ready node. It returns the children to unlock, once per
// connecting edge, which is empty when the node failed. A non-nil error means
// the run state itself is broken and the run must stop.
func (s *DefaultScheduler) step(ctx context.Context, g graph.Graph, id string, b *brand.Context, observe Observer) ([]string, error) {
	n, ok := g.Node(ctx, id)
	if !ok {
		return nil, fmt.Errorf("internal inconsistency: queued node '%s' is not in the graph", id)
	}
	if status, _ := g.NodeStatus(ctx, id); status != node.StatusIdle {
		// Counting readiness enqueues each node once; this guards the invariant.
		return nil, nil
	}
	nodeCtx, logger := ctxlog.With(ctx, "node", id, "kind", n.Kind)

	inputs, err := g.Inputs(ctx, id)
	if err != nil {
		return nil, err
	}
	input := graph.JoinInputs(inputs)
	if err := g.MarkRunning(ctx, id, input); err != nil {
		return nil, err
	}
	observe(id, node.StatusRunning, nil)
	logger.Debug("Node running.", "input_chars", len(input))

	out, execErr := s.exec.Execute(nodeCtx, &task.Task{Node: n, Input: input, Inputs: inputs, Brand: b, WorkDir: s.workDir})
	if execErr != nil {
		if err := g.MarkFailed(ctx, id, execErr); err != nil {
			return nil, err
		}
		logger.Warn("Node failed, its dependents will not run.", "error", execErr)
		observe(id, node.StatusFailed, execErr.Error())
		return nil, nil
	}

	if err := g.MarkCompleted(ctx, id, out); err != nil {
		return nil, err
	}
	logger.Debug("Node completed.")
	observe(id, node.StatusCompleted, out)

	children, err := g.ChildrenOf(ctx, id)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(children))
	for _, c := range children {
		ids = append(ids, c.ID)
	}
	return ids, nil
}

// logStalled explains why idle nodes never ran.
func (s *DefaultScheduler) logStalled(ctx context.Context, wf *node.Workflow, report *Report) {
	idle := report.Idle()
	if len(idle) == 0 {
		return
	}
	logger := ctxlog.FromContext(ctx)
	if cycle := graph.FindCycle(wf.Nodes, wf.Edges); cycle != nil {
		logger.Warn("Workflow contains a dependency cycle; nodes on or behind it never become ready.", "cycle", cycle)
	}
	for _, id := range idle {
		var blocked []string
		for _, p := range graph.ParentsOf(id, wf.Nodes, wf.Edges) {
			if report.Status(p.ID) != node.StatusCompleted {
				blocked = append(blocked, p.ID)
			}
		}
		logger.Info("Node not reached.", "node", id, "waiting_on", blocked)
	}
}
