// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package session defines the core interfaces for creating and managing an
// execution session. It abstracts away the details of how handlers and
// capabilities are wired for a run.
package session

import (
	"context"

	"github.com/specialistvlad/contentgrid/internal/handlers"
	"github.com/specialistvlad/contentgrid/internal/node"
	"github.com/specialistvlad/contentgrid/internal/scheduler"
)

// SessionFactory creates an execution Session.
type SessionFactory interface {
	NewSession(ctx context.Context) (Session, error)
}

// Session owns the handlers and capabilities used by one or more runs and
// manages their lifecycle.
type Session interface {
	// Run executes wf, reporting every transition to observe.
	Run(ctx context.Context, wf *node.Workflow, observe scheduler.Observer) (*scheduler.Report, error)

	// Handlers returns the handlers registered for this session.
	Handlers() *handlers.Handlers

	// Close releases any resources held by the session. It accepts a context
	// to allow for graceful cleanup operations.
	Close(ctx context.Context) error
}
