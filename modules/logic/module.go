// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package logic implements the flow-control node kinds: branch, merge and
// delay. All three pass text through.
package logic

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/specialistvlad/contentgrid/internal/ctxlog"
	"github.com/specialistvlad/contentgrid/internal/handlers"
	"github.com/specialistvlad/contentgrid/internal/node"
	"github.com/specialistvlad/contentgrid/internal/task"
)

// ErrConditionNotMet is returned by a branch whose condition does not hold,
// which stops the branch's downstream subgraph.
var ErrConditionNotMet = errors.New("branch condition not met")

// Module implements the handlers.Module interface for this package.
type Module struct{}

// Register registers the logic handlers.
func (m *Module) Register(h *handlers.Handlers) {
	h.Register(node.KindBranch, Branch)
	h.Register(node.KindMerge, Merge)
	h.Register(node.KindDelay, Delay)
}

// Branch passes the input through when every configured condition holds.
// Conditions: contains, not_contains (case-insensitive) and min_words.
func Branch(ctx context.Context, t *task.Task) (any, error) {
	minWords, err := t.Node.IntParam("min_words", 0)
	if err != nil {
		return nil, err
	}
	lower := strings.ToLower(t.Input)

	var failed []string
	if s, ok := t.Node.Param("contains"); ok && !strings.Contains(lower, strings.ToLower(s)) {
		failed = append(failed, fmt.Sprintf("input does not contain %q", s))
	}
	if s, ok := t.Node.Param("not_contains"); ok && strings.Contains(lower, strings.ToLower(s)) {
		failed = append(failed, fmt.Sprintf("input contains %q", s))
	}
	if words := len(strings.Fields(t.Input)); minWords > 0 && words < minWords {
		failed = append(failed, fmt.Sprintf("input has %d words, fewer than %d", words, minWords))
	}

	if len(failed) > 0 {
		ctxlog.FromContext(ctx).Info("Branch closed.", "reasons", failed)
		return nil, fmt.Errorf("%w: %s", ErrConditionNotMet, strings.Join(failed, "; "))
	}
	return t.Input, nil
}

// Merge re-joins the outputs of its parents with the configured separator
// and an optional header. Parent text is never re-split, so separators
// inside a parent's output are kept as written.
func Merge(_ context.Context, t *task.Task) (any, error) {
	sep := "\n\n"
	if v, ok := t.Node.Config["separator"].(string); ok {
		sep = v
	}
	out := strings.Join(t.Blocks(), sep)
	if header, ok := t.Node.Param("header"); ok {
		out = header + "\n\n" + out
	}
	return out, nil
}

// Delay waits for the configured duration, honoring cancellation, and passes
// the input through.
func Delay(ctx context.Context, t *task.Task) (any, error) {
	raw, ok := t.Node.Param("duration")
	if !ok {
		return nil, node.MissingConfig(t.Node.Kind, "duration")
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		return nil, node.ConfigError(t.Node.Kind, "duration", fmt.Sprintf("must be a non-negative duration like 1s or 500ms; got %q", raw))
	}

	ctxlog.FromContext(ctx).Debug("Delaying.", "duration", d)
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return t.Input, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
