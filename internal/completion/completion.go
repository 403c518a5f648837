// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package completion provides clients for the text-completion service used by
// AI transform nodes.
package completion

import (
	"context"
	"errors"
)

// ErrCompletion wraps every failure reported by a completion backend.
var ErrCompletion = errors.New("completion failed")

// Completer turns a prompt into generated text. Implementations must be safe
// for concurrent use.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Func adapts an ordinary function to the Completer interface.
type Func func(ctx context.Context, prompt string) (string, error)

// Complete calls f(ctx, prompt).
func (f Func) Complete(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// Echo is an offline Completer that returns the prompt, optionally prefixed.
// It makes dry runs of a workflow deterministic.
type Echo struct {
	Prefix string
}

// Complete returns e.Prefix followed by the prompt.
func (e Echo) Complete(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return e.Prefix + prompt, nil
}
