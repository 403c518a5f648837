// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package distribution

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/specialistvlad/contentgrid/internal/ctxlog"
	"github.com/specialistvlad/contentgrid/internal/node"
	"github.com/specialistvlad/contentgrid/internal/task"
)

// Publish channels.
const (
	ChannelLog      = "log"
	ChannelWebhook  = "webhook"
	ChannelSocketIO = "socketio"
)

// Payload is the body delivered by the webhook and socketio channels.
type Payload struct {
	Node        string    `json:"node"`
	Name        string    `json:"name"`
	Content     string    `json:"content"`
	PublishedAt time.Time `json:"published_at"`
}

type publishConfig struct {
	channel   string
	url       string
	namespace string
	event     string
}

func parsePublish(n *node.Node) (publishConfig, error) {
	cfg := publishConfig{
		url:       n.ParamOr("url", ""),
		namespace: n.ParamOr("namespace", "/"),
		event:     n.ParamOr("event", "content"),
	}
	channel, ok := n.Param("channel")
	if !ok {
		return cfg, node.MissingConfig(n.Kind, "channel")
	}
	cfg.channel = strings.ToLower(channel)

	switch cfg.channel {
	case ChannelLog:
	case ChannelWebhook, ChannelSocketIO:
		if cfg.url == "" {
			return cfg, node.ConfigError(n.Kind, "url", "is required for the "+cfg.channel+" channel")
		}
		if !strings.HasPrefix(cfg.url, "http://") && !strings.HasPrefix(cfg.url, "https://") {
			return cfg, node.ConfigError(n.Kind, "url", "must be an http or https URL")
		}
	default:
		return cfg, node.ConfigError(n.Kind, "channel", fmt.Sprintf("must be one of %s, %s, %s; got %q", ChannelLog, ChannelWebhook, ChannelSocketIO, channel))
	}
	return cfg, nil
}

// Publish delivers the input to the configured channel.
func (m *Module) Publish(ctx context.Context, t *task.Task) (any, error) {
	cfg, err := parsePublish(t.Node)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(t.Input) == "" {
		return nil, node.EmptyInput(t.Node.Kind)
	}

	payload := Payload{
		Node:        t.Node.ID,
		Name:        t.Node.DisplayName(),
		Content:     t.Input,
		PublishedAt: m.now().UTC(),
	}
	logger := ctxlog.FromContext(ctx).With("channel", cfg.channel)

	switch cfg.channel {
	case ChannelLog:
		logger.Info("Content published.", "name", payload.Name, "content", payload.Content)
		return node.Ack{Success: true, Message: "Published to log"}, nil

	case ChannelWebhook:
		body, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encoding webhook payload: %w", err)
		}
		resp, err := m.http.R().
			SetContext(ctx).
			SetHeader("Content-Type", "application/json").
			SetBody(body).
			Post(cfg.url)
		if err != nil {
			return nil, fmt.Errorf("webhook delivery to '%s' failed: %w", cfg.url, err)
		}
		if resp.IsError() {
			return nil, fmt.Errorf("webhook '%s' responded with status %d", cfg.url, resp.StatusCode())
		}
		logger.Info("Content published.", "url", cfg.url, "status", resp.StatusCode())
		return node.Ack{Success: true, Message: fmt.Sprintf("Published to webhook %s (status %d)", cfg.url, resp.StatusCode())}, nil

	default:
		if err := m.emitter.Emit(ctx, cfg.url, cfg.namespace, cfg.event, payload); err != nil {
			return nil, fmt.Errorf("socket.io delivery to '%s' failed: %w", cfg.url, err)
		}
		logger.Info("Content published.", "url", cfg.url, "event", cfg.event)
		return node.Ack{Success: true, Message: fmt.Sprintf("Published event '%s' to %s", cfg.event, cfg.url)}, nil
	}
}
