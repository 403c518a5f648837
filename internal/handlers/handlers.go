// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package handlers is the dispatch table of the node executor: it maps every
// node kind to the Go function implementing it.
package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/specialistvlad/contentgrid/internal/node"
	"github.com/specialistvlad/contentgrid/internal/task"
)

// Func executes one task and returns the node's output.
type Func func(ctx context.Context, t *task.Task) (any, error)

// Module is a package that contributes handlers for one or more node kinds.
type Module interface {
	Register(h *Handlers)
}

// Handlers holds all the registered handlers.
type Handlers struct {
	all map[node.Kind]Func
}

// New creates an empty registry.
func New() *Handlers {
	return &Handlers{
		all: make(map[node.Kind]Func),
	}
}

// Register binds fn to kind. Registering an unknown kind or the same kind
// twice is a programming error and panics.
func (h *Handlers) Register(kind node.Kind, fn Func) {
	if !kind.Known() {
		panic(fmt.Sprintf("cannot register handler for unknown node kind '%s'", kind))
	}
	if fn == nil {
		panic(fmt.Sprintf("handler for node kind '%s' is nil", kind))
	}
	if _, exists := h.all[kind]; exists {
		panic(fmt.Sprintf("handler for node kind '%s' already registered", kind))
	}
	slog.Debug("Registering node handler.", "kind", kind)
	h.all[kind] = fn
}

// Lookup returns the handler registered for kind.
func (h *Handlers) Lookup(kind node.Kind) (Func, bool) {
	fn, ok := h.all[kind]
	return fn, ok
}

// Kinds returns the registered kinds, sorted.
func (h *Handlers) Kinds() []node.Kind {
	kinds := make([]node.Kind, 0, len(h.all))
	for k := range h.all {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// Missing returns the known kinds that have no handler, sorted.
func (h *Handlers) Missing() []node.Kind {
	var missing []node.Kind
	for _, k := range node.AllKinds() {
		if _, ok := h.all[k]; !ok {
			missing = append(missing, k)
		}
	}
	return missing
}
