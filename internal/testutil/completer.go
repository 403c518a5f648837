// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package testutil

import (
	"context"
	"sync"

	"github.com/specialistvlad/contentgrid/internal/completion"
)

// SummaryCompleter answers every prompt with "SUMMARY:" followed by the
// prompt itself.
func SummaryCompleter() completion.Completer {
	return completion.Func(func(ctx context.Context, prompt string) (string, error) {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		return "SUMMARY:" + prompt, nil
	})
}

// CountingCompleter wraps a completer and remembers every prompt it served.
type CountingCompleter struct {
	Next completion.Completer

	mu      sync.Mutex
	prompts []string
}

// Complete implements completion.Completer.
func (c *CountingCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	c.mu.Lock()
	c.prompts = append(c.prompts, prompt)
	c.mu.Unlock()
	return c.Next.Complete(ctx, prompt)
}

// Prompts returns a copy of the prompts served so far.
func (c *CountingCompleter) Prompts() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.prompts...)
}
