// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package distribution

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/specialistvlad/contentgrid/internal/ctxlog"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// Emitter sends one event to a socket.io server.
type Emitter interface {
	Emit(ctx context.Context, serverURL, namespace, event string, payload any) error
}

// SocketIO connects, emits a single event and disconnects.
type SocketIO struct {
	ConnectTimeout time.Duration
}

// Emit implements Emitter.
func (s *SocketIO) Emit(ctx context.Context, serverURL, namespace, event string, payload any) error {
	logger := ctxlog.FromContext(ctx).With("url", serverURL, "namespace", namespace)

	parsed, err := url.Parse(serverURL)
	if err != nil {
		return fmt.Errorf("failed to parse URL: %w", err)
	}

	opts := socket.DefaultOptions()
	if parsed.Path != "" && parsed.Path != "/" {
		opts.SetPath(parsed.Path)
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))
	opts.SetReconnection(false)

	manager := socket.NewManager(fmt.Sprintf("%s://%s", parsed.Scheme, parsed.Host), opts)
	io := manager.Socket(namespace, opts)
	defer io.Disconnect()

	connected := make(chan error, 1)
	io.Once(types.EventName("connect"), func(...any) {
		logger.Debug("Connected to socket.io server.", "sid", io.Id())
		connected <- nil
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		err := fmt.Errorf("connect error")
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				err = e
			}
		}
		connected <- err
	})
	io.Connect()

	timeout := s.ConnectTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	select {
	case err := <-connected:
		if err != nil {
			return fmt.Errorf("socket.io connection failed: %w", err)
		}
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(timeout):
		return fmt.Errorf("timed out after %s waiting for socket.io connection", timeout)
	}

	return io.Emit(event, payload)
}
