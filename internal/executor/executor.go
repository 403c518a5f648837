// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package executor defines the interface of the node executor.
package executor

import (
	"context"
	"errors"

	"github.com/specialistvlad/contentgrid/internal/task"
)

// ErrPanic is returned when a node handler panics. The panic never escapes
// the executor.
var ErrPanic = errors.New("node handler panicked")

// Executor runs a single prepared task and returns the node's output, or a
// descriptive error. It never touches run state: recording the result is the
// scheduler's job.
type Executor interface {
	Execute(ctx context.Context, t *task.Task) (any, error)
}
