// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package distribution implements the sink node kinds: publish, export and
// email. Sinks validate their configuration before looking at their input,
// and acknowledge delivery with a node.Ack.
package distribution

import (
	"time"

	"github.com/specialistvlad/contentgrid/internal/handlers"
	"github.com/specialistvlad/contentgrid/internal/node"
	"resty.dev/v3"
)

// Module implements the handlers.Module interface for this package.
type Module struct {
	http    *resty.Client
	emitter Emitter
	mailer  Mailer
	now     func() time.Time
}

// Options configures the sinks.
type Options struct {
	// HTTP posts webhook payloads. Defaults to a new resty client.
	HTTP *resty.Client
	// Emitter delivers socketio publications. Defaults to SocketIO.
	Emitter Emitter
	// Mailer delivers emails. Defaults to an Outbox in ./outbox.
	Mailer Mailer
}

// New creates the distribution module.
func New(opts Options) *Module {
	m := &Module{
		http:    opts.HTTP,
		emitter: opts.Emitter,
		mailer:  opts.Mailer,
		now:     time.Now,
	}
	if m.http == nil {
		m.http = resty.New().SetTimeout(30 * time.Second)
	}
	if m.emitter == nil {
		m.emitter = &SocketIO{ConnectTimeout: 15 * time.Second}
	}
	if m.mailer == nil {
		m.mailer = &Outbox{Dir: "outbox"}
	}
	return m
}

// Register registers the sink handlers.
func (m *Module) Register(h *handlers.Handlers) {
	h.Register(node.KindPublish, m.Publish)
	h.Register(node.KindExport, m.Export)
	h.Register(node.KindEmail, m.Email)
}

// Close releases the webhook client.
func (m *Module) Close() error {
	return m.http.Close()
}
