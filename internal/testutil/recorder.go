// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package testutil

import (
	"sync"

	"github.com/specialistvlad/contentgrid/internal/node"
)

// Transition is one observed status change.
type Transition struct {
	ID     string
	Status node.Status
	Output any
}

// Recorder collects the transitions of a run. Its Observe method matches
// scheduler.Observer.
type Recorder struct {
	mu     sync.Mutex
	events []Transition
}

// Observe records one transition.
func (r *Recorder) Observe(id string, status node.Status, output any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Transition{ID: id, Status: status, Output: output})
}

// Events returns a copy of every recorded transition.
func (r *Recorder) Events() []Transition {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Transition(nil), r.events...)
}

// Index returns the position of the first transition of id to status, or -1.
func (r *Recorder) Index(id string, status node.Status) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, e := range r.events {
		if e.ID == id && e.Status == status {
			return i
		}
	}
	return -1
}

// Statuses returns the sequence of statuses observed for id.
func (r *Recorder) Statuses(id string) []node.Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []node.Status
	for _, e := range r.events {
		if e.ID == id {
			out = append(out, e.Status)
		}
	}
	return out
}
