// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package metrics exposes Prometheus metrics for workflow runs, node
// executions and completion calls.
package metrics

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/specialistvlad/contentgrid/internal/completion"
	"github.com/specialistvlad/contentgrid/internal/node"
	"github.com/specialistvlad/contentgrid/internal/scheduler"
)

const namespace = "contentgrid"

// Metrics owns a private registry, so several instances can coexist in tests.
type Metrics struct {
	registry *prometheus.Registry

	nodeTransitions    *prometheus.CounterVec
	nodeDuration       *prometheus.HistogramVec
	runs               *prometheus.CounterVec
	runDuration        prometheus.Histogram
	stalledNodes       prometheus.Counter
	completionCalls    *prometheus.CounterVec
	completionDuration prometheus.Histogram
}

// New creates and registers every collector.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		nodeTransitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "node",
				Name:      "transitions_total",
				Help:      "Number of node status transitions, by kind and target status.",
			}, []string{"kind", "status"}),
		nodeDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "node",
				Name:      "execution_duration_seconds",
				Help:      "Bucketed histogram of node execution time, by kind.",
				Buckets:   prometheus.ExponentialBuckets(0.005, 4, 10),
			}, []string{"kind"}),
		runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "run",
				Name:      "total",
				Help:      "Number of finished workflow runs, by outcome.",
			}, []string{"outcome"}),
		runDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "run",
				Name:      "duration_seconds",
				Help:      "Bucketed histogram of workflow run time.",
				Buckets:   prometheus.ExponentialBuckets(0.01, 4, 10),
			}),
		stalledNodes: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "run",
				Name:      "stalled_nodes_total",
				Help:      "Number of nodes left idle at the end of a run.",
			}),
		completionCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "completion",
				Name:      "requests_total",
				Help:      "Number of completion requests, by result.",
			}, []string{"result"}),
		completionDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "completion",
				Name:      "duration_seconds",
				Help:      "Bucketed histogram of completion latency.",
				Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12),
			}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.nodeTransitions,
		m.nodeDuration,
		m.runs,
		m.runDuration,
		m.stalledNodes,
		m.completionCalls,
		m.completionDuration,
	)
	return m
}

// Registry returns the registry holding every collector.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Observer counts the transitions of a run and times every node execution.
// It needs the workflow to label transitions with the node kind.
func (m *Metrics) Observer(wf *node.Workflow) scheduler.Observer {
	kinds := make(map[string]string, len(wf.Nodes))
	for _, n := range wf.Nodes {
		kinds[n.ID] = string(n.Kind)
	}
	var (
		mu      sync.Mutex
		started = make(map[string]time.Time)
	)

	return func(id string, status node.Status, _ any) {
		kind := kinds[id]
		m.nodeTransitions.WithLabelValues(kind, string(status)).Inc()

		mu.Lock()
		defer mu.Unlock()
		switch status {
		case node.StatusRunning:
			started[id] = time.Now()
		case node.StatusCompleted, node.StatusFailed:
			if t, ok := started[id]; ok {
				m.nodeDuration.WithLabelValues(kind).Observe(time.Since(t).Seconds())
				delete(started, id)
			}
		}
	}
}

// ObserveRun records the outcome of a finished run. A run with any failed
// node counts as "partial"; a run that returned an error counts as "aborted".
func (m *Metrics) ObserveRun(report *scheduler.Report, runErr error) {
	outcome := "success"
	switch {
	case runErr != nil:
		outcome = "aborted"
	case report != nil && len(report.Failed()) > 0:
		outcome = "partial"
	}
	m.runs.WithLabelValues(outcome).Inc()
	if report != nil {
		m.runDuration.Observe(report.Duration().Seconds())
		m.stalledNodes.Add(float64(len(report.Idle())))
	}
}

// Completer wraps c so every request is counted and timed.
func (m *Metrics) Completer(c completion.Completer) completion.Completer {
	return completion.Func(func(ctx context.Context, prompt string) (string, error) {
		start := time.Now()
		out, err := c.Complete(ctx, prompt)
		m.completionDuration.Observe(time.Since(start).Seconds())
		if err != nil {
			m.completionCalls.WithLabelValues("error").Inc()
			return "", err
		}
		m.completionCalls.WithLabelValues("ok").Inc()
		return out, nil
	})
}
