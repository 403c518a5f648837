// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package inmemorystore provides an ephemeral, thread-safe, in-memory
// implementation of the nodestore.Store interface.
//
// # Purpose
//
// This package implements the run-scoped result map. A fresh store is created
// for every run, so repeated or concurrent runs over the same workflow never
// share state.
//
// # Concurrency Model
//
// Records are kept in a sync.Map keyed by node ID, each guarded by its own
// mutex. The key space is fixed once Reset has run, while values change on
// every transition, which is the access pattern sync.Map is optimized for.
package inmemorystore

import (
	"context"
	"sync"
	"time"

	"github.com/specialistvlad/contentgrid/internal/node"
	"github.com/specialistvlad/contentgrid/internal/nodestore"
)

type record struct {
	mu  sync.Mutex
	res node.Result
}

// Store is an in-memory implementation of nodestore.Store.
type Store struct {
	records sync.Map // Key: node ID string, Value: *record
	now     func() time.Time
}

// New creates a new, empty in-memory node state store.
func New() nodestore.Store {
	return &Store{now: time.Now}
}

func (s *Store) record(id string) *record {
	if r, ok := s.records.Load(id); ok {
		return r.(*record)
	}
	r, _ := s.records.LoadOrStore(id, &record{res: node.Result{Status: node.StatusIdle}})
	return r.(*record)
}

func (s *Store) update(id string, fn func(*node.Result)) {
	r := s.record(id)
	r.mu.Lock()
	defer r.mu.Unlock()
	fn(&r.res)
}

// Reset discards all state and records every given node as idle.
func (s *Store) Reset(ctx context.Context, ids []string) error {
	s.records.Range(func(key, _ any) bool {
		s.records.Delete(key)
		return true
	})
	for _, id := range ids {
		s.records.Store(id, &record{res: node.Result{Status: node.StatusIdle}})
	}
	return nil
}

// SetStatus updates the execution status of a specific node.
func (s *Store) SetStatus(ctx context.Context, id string, status node.Status) error {
	now := s.now()
	s.update(id, func(r *node.Result) {
		r.Status = status
		switch {
		case status == node.StatusRunning:
			r.StartedAt = now
		case status.Terminal():
			r.FinishedAt = now
		}
	})
	return nil
}

// GetStatus retrieves the execution status of a specific node.
// If a status has not been set, it returns StatusIdle.
func (s *Store) GetStatus(ctx context.Context, id string) (node.Status, error) {
	res, ok := s.Result(ctx, id)
	if !ok {
		return node.StatusIdle, nil
	}
	return res.Status, nil
}

// SetInput records the input text a node was executed with.
func (s *Store) SetInput(ctx context.Context, id string, input string) error {
	s.update(id, func(r *node.Result) { r.Input = input })
	return nil
}

// SetOutput records the successful output of a node.
func (s *Store) SetOutput(ctx context.Context, id string, output any) error {
	s.update(id, func(r *node.Result) { r.Output = output })
	return nil
}

// GetOutput retrieves the recorded output of a completed node.
func (s *Store) GetOutput(ctx context.Context, id string) (any, bool) {
	res, ok := s.Result(ctx, id)
	if !ok || res.Output == nil {
		return nil, false
	}
	return res.Output, true
}

// SetError records the failure error of a node.
func (s *Store) SetError(ctx context.Context, id string, nodeErr error) error {
	s.update(id, func(r *node.Result) { r.Err = nodeErr })
	return nil
}

// GetError retrieves the recorded error of a failed node.
func (s *Store) GetError(ctx context.Context, id string) error {
	res, _ := s.Result(ctx, id)
	return res.Err
}

// Result returns a copy of the record of a node.
func (s *Store) Result(ctx context.Context, id string) (node.Result, bool) {
	v, ok := s.records.Load(id)
	if !ok {
		return node.Result{}, false
	}
	r := v.(*record)
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.res, true
}

// Snapshot returns a copy of every record.
func (s *Store) Snapshot(ctx context.Context) map[string]node.Result {
	out := make(map[string]node.Result)
	s.records.Range(func(key, v any) bool {
		r := v.(*record)
		r.mu.Lock()
		out[key.(string)] = r.res
		r.mu.Unlock()
		return true
	})
	return out
}
