// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package transform implements the AI transform node kinds. Each kind turns
// its input into a prompt for the completion service.
package transform

import (
	"context"
	"fmt"
	"strings"

	"github.com/specialistvlad/contentgrid/internal/completion"
	"github.com/specialistvlad/contentgrid/internal/ctxlog"
	"github.com/specialistvlad/contentgrid/internal/handlers"
	"github.com/specialistvlad/contentgrid/internal/node"
	"github.com/specialistvlad/contentgrid/internal/task"
)

// Module implements the handlers.Module interface for this package.
type Module struct {
	Completer completion.Completer
}

// Register registers one handler per AI transform kind.
func (m *Module) Register(h *handlers.Handlers) {
	for _, kind := range node.Kinds(node.CategoryAITransform) {
		h.Register(kind, m.Transform)
	}
}

// Transform builds the prompt for the task's node and returns the completion.
func (m *Module) Transform(ctx context.Context, t *task.Task) (any, error) {
	prompt, err := BuildPrompt(t.Node, t.Input, t.Brand)
	if err != nil {
		return nil, err
	}
	if m.Completer == nil {
		return nil, fmt.Errorf("%w: no completion service configured", completion.ErrCompletion)
	}

	logger := ctxlog.FromContext(ctx)
	logger.Debug("Requesting completion.", "prompt_chars", len(prompt))
	out, err := m.Completer.Complete(ctx, prompt)
	if err != nil {
		return nil, err
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return nil, fmt.Errorf("%w: empty response for %s node", completion.ErrCompletion, t.Node.Kind)
	}
	logger.Info("Transform completed.", "chars", len(out))
	return out, nil
}
