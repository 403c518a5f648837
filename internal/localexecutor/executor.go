// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package localexecutor provides a concrete, in-process implementation of the
// executor.Executor interface.
package localexecutor

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/specialistvlad/contentgrid/internal/completion"
	"github.com/specialistvlad/contentgrid/internal/ctxlog"
	"github.com/specialistvlad/contentgrid/internal/executor"
	"github.com/specialistvlad/contentgrid/internal/handlers"
	"github.com/specialistvlad/contentgrid/internal/node"
	"github.com/specialistvlad/contentgrid/internal/task"
)

// Executor dispatches tasks to the handler registered for the node kind.
// Kinds without a handler go through a generic pass-through.
type Executor struct {
	handlers  *handlers.Handlers
	completer completion.Completer
}

// New creates a new local executor. The completer backs the generic
// pass-through and may be nil, in which case the input is passed through
// unchanged.
func New(reg *handlers.Handlers, completer completion.Completer) executor.Executor {
	return &Executor{handlers: reg, completer: completer}
}

// Execute implements the executor.Executor interface.
func (e *Executor) Execute(ctx context.Context, t *task.Task) (out any, err error) {
	if t == nil || t.Node == nil {
		return nil, fmt.Errorf("cannot execute an empty task")
	}
	logger := ctxlog.FromContext(ctx)

	defer func() {
		if r := recover(); r != nil {
			logger.Error("Node handler panicked.", "panic", r, "stack", string(debug.Stack()))
			out = nil
			err = fmt.Errorf("%w: node '%s': %v", executor.ErrPanic, t.Node.ID, r)
		}
	}()

	fn, ok := e.handlers.Lookup(t.Node.Kind)
	if !ok {
		logger.Debug("No handler registered for node kind, using generic pass-through.")
		return e.generic(ctx, t)
	}
	logger.Debug("Dispatching node to its handler.", "input_chars", len(t.Input))
	return fn(ctx, t)
}

// generic runs a node whose kind has no handler. With input it asks the
// completer to process the input on behalf of the node; without input it
// acknowledges the node.
func (e *Executor) generic(ctx context.Context, t *task.Task) (any, error) {
	name := t.Node.DisplayName()
	if t.Input == "" {
		return node.Ack{Success: true, Message: fmt.Sprintf("%s executed", name)}, nil
	}
	if e.completer == nil {
		return t.Input, nil
	}

	prompt := fmt.Sprintf("You are the %q step of a content workflow. Process the content below accordingly.\n\n%s", name, t.Input)
	if block := t.Brand.Block(); block != "" {
		prompt += "\n\n" + block
	}
	return e.completer.Complete(ctx, prompt)
}
