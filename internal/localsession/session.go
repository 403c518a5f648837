// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package localsession provides a concrete implementation of the
// session.Session and session.SessionFactory interfaces for local,
// in-process execution.
package localsession

import (
	"context"
	"errors"
	"io"

	"github.com/specialistvlad/contentgrid/internal/brand"
	"github.com/specialistvlad/contentgrid/internal/completion"
	"github.com/specialistvlad/contentgrid/internal/ctxlog"
	"github.com/specialistvlad/contentgrid/internal/fetch"
	"github.com/specialistvlad/contentgrid/internal/handlers"
	"github.com/specialistvlad/contentgrid/internal/localexecutor"
	"github.com/specialistvlad/contentgrid/internal/metrics"
	"github.com/specialistvlad/contentgrid/internal/node"
	"github.com/specialistvlad/contentgrid/internal/scheduler"
	"github.com/specialistvlad/contentgrid/internal/session"
	"github.com/specialistvlad/contentgrid/modules/analytics"
	"github.com/specialistvlad/contentgrid/modules/checkpoint"
	"github.com/specialistvlad/contentgrid/modules/distribution"
	"github.com/specialistvlad/contentgrid/modules/logic"
	"github.com/specialistvlad/contentgrid/modules/source"
	"github.com/specialistvlad/contentgrid/modules/transform"
)

// SessionFactory implements session.SessionFactory for local runs. Zero
// fields fall back to working defaults.
type SessionFactory struct {
	// Completer backs the AI transforms and the generic handler. Nil makes
	// transforms fail and the generic handler pass input through.
	Completer completion.Completer
	// Fetcher backs url_import and feed_import. Defaults to fetch.Client.
	Fetcher source.Fetcher
	// Approver decides human_review checkpoints. Defaults to AutoApprove.
	Approver checkpoint.Approver
	// Distribution configures the sinks.
	Distribution distribution.Options
	// Metrics, when set, observes every run and completion request.
	Metrics *metrics.Metrics
	// Brand is the brand context handed to every node.
	Brand *brand.Context
	// WorkDir resolves relative file paths in node configs.
	WorkDir string
	// Modules are registered after the built-in modules. Registering a kind
	// twice panics.
	Modules []handlers.Module
}

// NewSession creates and wires a new local session.
func (f *SessionFactory) NewSession(ctx context.Context) (session.Session, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("localsession.SessionFactory.NewSession called")

	s := &Session{metrics: f.Metrics, brand: f.Brand}

	completer := f.Completer
	if completer != nil && f.Metrics != nil {
		completer = f.Metrics.Completer(completer)
	}
	if c, ok := f.Completer.(io.Closer); ok {
		s.closers = append(s.closers, c)
	}

	fetcher := f.Fetcher
	if fetcher == nil {
		client := fetch.New(fetch.Options{})
		s.closers = append(s.closers, client)
		fetcher = client
	}

	approver := f.Approver
	if approver == nil {
		approver = checkpoint.AutoApprove{}
	}

	dist := distribution.New(f.Distribution)
	s.closers = append(s.closers, dist)

	// --- This is where the dependency injection wiring happens ---
	reg := handlers.New()
	modules := []handlers.Module{
		&source.Module{Fetcher: fetcher},
		&transform.Module{Completer: completer},
		&checkpoint.Module{Approver: approver},
		dist,
		&logic.Module{},
		&analytics.Module{},
	}
	for _, m := range append(modules, f.Modules...) {
		m.Register(reg)
	}
	if missing := reg.Missing(); len(missing) > 0 {
		logger.Warn("Some node kinds have no handler and will run as a pass-through.", "kinds", missing)
	}
	logger.Debug("Handlers registered.", "kinds", len(reg.Kinds()))

	exec := localexecutor.New(reg, completer)
	s.handlers = reg
	s.scheduler = scheduler.New(exec, scheduler.WithWorkDir(f.WorkDir))
	// --- End of dependency injection ---

	return s, nil
}

// Session implements session.Session for local runs.
type Session struct {
	handlers  *handlers.Handlers
	scheduler scheduler.Scheduler
	metrics   *metrics.Metrics
	brand     *brand.Context
	closers   []io.Closer
}

// Run executes wf with the session's brand context.
func (s *Session) Run(ctx context.Context, wf *node.Workflow, observe scheduler.Observer) (*scheduler.Report, error) {
	if s.metrics == nil {
		return s.scheduler.Run(ctx, wf, observe, s.brand)
	}
	report, err := s.scheduler.Run(ctx, wf, scheduler.Observers(s.metrics.Observer(wf), observe), s.brand)
	s.metrics.ObserveRun(report, err)
	return report, err
}

// Handlers returns the session's handlers.
func (s *Session) Handlers() *handlers.Handlers {
	return s.handlers
}

// Close releases the clients created for the session.
func (s *Session) Close(ctx context.Context) error {
	ctxlog.FromContext(ctx).Debug("Closing local session.", "closers", len(s.closers))
	var errs []error
	for _, c := range s.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
