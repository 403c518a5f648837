// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package source implements the source node kinds: nodes that produce text
// from their own configuration rather than from upstream nodes.
package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/specialistvlad/contentgrid/internal/brand"
	"github.com/specialistvlad/contentgrid/internal/ctxlog"
	"github.com/specialistvlad/contentgrid/internal/fetch"
	"github.com/specialistvlad/contentgrid/internal/handlers"
	"github.com/specialistvlad/contentgrid/internal/node"
	"github.com/specialistvlad/contentgrid/internal/task"
)

// Fetcher is the import capability used by url_import and feed_import.
type Fetcher interface {
	FetchText(ctx context.Context, url string) (string, error)
	FetchFeed(ctx context.Context, url string) (*fetch.Feed, error)
}

// Module implements the handlers.Module interface for this package.
type Module struct {
	Fetcher Fetcher
}

// Register registers the source handlers.
func (m *Module) Register(h *handlers.Handlers) {
	h.Register(node.KindTextInput, TextInput)
	h.Register(node.KindURLImport, m.URLImport)
	h.Register(node.KindFileImport, FileImport)
	h.Register(node.KindFeedImport, m.FeedImport)
	h.Register(node.KindBrandMemory, BrandMemory)
}

// TextInput returns the preset text of the node.
func TextInput(_ context.Context, t *task.Task) (any, error) {
	text, ok := t.Node.Param("text")
	if !ok {
		return nil, node.MissingConfig(t.Node.Kind, "text")
	}
	return text, nil
}

// URLImport downloads a page and returns its readable text, optionally
// truncated to max_chars.
func (m *Module) URLImport(ctx context.Context, t *task.Task) (any, error) {
	url, ok := t.Node.Param("url")
	if !ok {
		return nil, node.MissingConfig(t.Node.Kind, "url")
	}
	maxChars, err := t.Node.IntParam("max_chars", 0)
	if err != nil {
		return nil, err
	}
	if m.Fetcher == nil {
		return nil, fmt.Errorf("%s node: no fetch capability configured", t.Node.Kind)
	}

	text, err := m.Fetcher.FetchText(ctx, url)
	if err != nil {
		return nil, err
	}
	if text == "" {
		return nil, fmt.Errorf("%w: %s: no readable text found", fetch.ErrFetch, url)
	}
	ctxlog.FromContext(ctx).Info("Imported page.", "url", url, "chars", len(text))
	return truncate(text, maxChars), nil
}

// FileImport returns inline content, or the content of the file at path.
func FileImport(ctx context.Context, t *task.Task) (any, error) {
	if content, ok := t.Node.Param("content"); ok {
		return content, nil
	}
	path, ok := t.Node.Param("path")
	if !ok {
		return nil, node.ConfigError(t.Node.Kind, "path", "or \"content\" is required")
	}
	path = resolve(t.WorkDir, path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file '%s': %w", path, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("file '%s' is empty", path)
	}
	ctxlog.FromContext(ctx).Info("Imported file.", "path", path, "bytes", len(data))
	return string(data), nil
}

// FeedImport returns the latest items of an RSS or Atom feed as text.
func (m *Module) FeedImport(ctx context.Context, t *task.Task) (any, error) {
	url, ok := t.Node.Param("url")
	if !ok {
		return nil, node.MissingConfig(t.Node.Kind, "url")
	}
	limit, err := t.Node.IntParam("limit", 5)
	if err != nil {
		return nil, err
	}
	if m.Fetcher == nil {
		return nil, fmt.Errorf("%s node: no fetch capability configured", t.Node.Kind)
	}

	feed, err := m.Fetcher.FetchFeed(ctx, url)
	if err != nil {
		return nil, err
	}
	if len(feed.Items) == 0 {
		return nil, fmt.Errorf("%w: %s: feed has no items", fetch.ErrFetch, url)
	}
	ctxlog.FromContext(ctx).Info("Imported feed.", "url", url, "items", min(len(feed.Items), limit))
	return feed.Text(limit), nil
}

// BrandMemory renders the brand context as text. A path in the node's
// configuration takes precedence over the run's brand context.
func BrandMemory(_ context.Context, t *task.Task) (any, error) {
	b := t.Brand
	if path, ok := t.Node.Param("path"); ok {
		loaded, err := brand.Load(resolve(t.WorkDir, path))
		if err != nil {
			return nil, err
		}
		b = loaded
	}
	if b.Empty() {
		return nil, node.ConfigError(t.Node.Kind, "path", "is required when the run has no brand context")
	}
	return b.Text(), nil
}

func resolve(dir, path string) string {
	if filepath.IsAbs(path) || dir == "" {
		return path
	}
	return filepath.Join(dir, path)
}

func truncate(s string, n int) string {
	if n <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
