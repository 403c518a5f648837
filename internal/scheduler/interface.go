// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package scheduler

import (
	"context"

	"github.com/specialistvlad/contentgrid/internal/brand"
	"github.com/specialistvlad/contentgrid/internal/node"
)

// Observer receives every status transition of a run. It is called on the
// scheduler's goroutine and must not block materially.
type Observer func(id string, status node.Status, output any)

// Observers fans a transition out to several observers, in order. Nil
// observers are skipped.
func Observers(obs ...Observer) Observer {
	return func(id string, status node.Status, output any) {
		for _, o := range obs {
			if o != nil {
				o(id, status, output)
			}
		}
	}
}

// Scheduler executes workflows.
type Scheduler interface {
	// Run executes wf and returns the run report. A structurally invalid
	// workflow (duplicate IDs, edges to unknown nodes) is rejected before any
	// node runs. Node failures are not errors: they are recorded in the
	// report. The returned error is non-nil only for invalid input or a
	// cancelled context, in which case the partial report is still returned.
	Run(ctx context.Context, wf *node.Workflow, observe Observer, b *brand.Context) (*Report, error)
}
