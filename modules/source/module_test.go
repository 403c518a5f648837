// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package source

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/contentgrid/internal/brand"
	"github.com/specialistvlad/contentgrid/internal/fetch"
	"github.com/specialistvlad/contentgrid/internal/handlers"
	"github.com/specialistvlad/contentgrid/internal/node"
	"github.com/specialistvlad/contentgrid/internal/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFetcher struct {
	text string
	feed *fetch.Feed
	err  error
	urls []string
}

func (s *stubFetcher) FetchText(_ context.Context, url string) (string, error) {
	s.urls = append(s.urls, url)
	return s.text, s.err
}

func (s *stubFetcher) FetchFeed(_ context.Context, url string) (*fetch.Feed, error) {
	s.urls = append(s.urls, url)
	return s.feed, s.err
}

func newTask(kind node.Kind, cfg map[string]any) *task.Task {
	return &task.Task{Node: &node.Node{ID: "src", Kind: kind, Config: cfg}}
}

func TestRegister(t *testing.T) {
	h := handlers.New()
	(&Module{}).Register(h)
	assert.ElementsMatch(t, node.Kinds(node.CategorySource), h.Kinds())
}

func TestTextInput(t *testing.T) {
	out, err := TextInput(context.Background(), newTask(node.KindTextInput, map[string]any{"text": "hello"}))
	require.NoError(t, err)
	assert.Equal(t, "hello", out)

	_, err = TextInput(context.Background(), newTask(node.KindTextInput, nil))
	assert.True(t, errors.Is(err, node.ErrConfig))
	assert.ErrorContains(t, err, `"text" is required`)
}

func TestURLImport(t *testing.T) {
	ctx := context.Background()

	t.Run("fetches and truncates", func(t *testing.T) {
		f := &stubFetcher{text: "Cold brew guide"}
		m := &Module{Fetcher: f}
		out, err := m.URLImport(ctx, newTask(node.KindURLImport, map[string]any{"url": "https://example.com", "max_chars": 4}))
		require.NoError(t, err)
		assert.Equal(t, "Cold", out)
		assert.Equal(t, []string{"https://example.com"}, f.urls)
	})

	t.Run("missing url is a config error and nothing is fetched", func(t *testing.T) {
		f := &stubFetcher{}
		_, err := (&Module{Fetcher: f}).URLImport(ctx, newTask(node.KindURLImport, nil))
		assert.ErrorIs(t, err, node.ErrConfig)
		assert.Empty(t, f.urls)
	})

	t.Run("fetch failure", func(t *testing.T) {
		f := &stubFetcher{err: fetch.ErrFetch}
		_, err := (&Module{Fetcher: f}).URLImport(ctx, newTask(node.KindURLImport, map[string]any{"url": "https://x"}))
		assert.ErrorIs(t, err, fetch.ErrFetch)
	})

	t.Run("empty page", func(t *testing.T) {
		_, err := (&Module{Fetcher: &stubFetcher{}}).URLImport(ctx, newTask(node.KindURLImport, map[string]any{"url": "https://x"}))
		assert.ErrorContains(t, err, "no readable text")
	})
}

func TestFileImport(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "post.md"), []byte("# Launch"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "empty.md"), nil, 0o600))

	out, err := FileImport(ctx, newTask(node.KindFileImport, map[string]any{"content": "inline"}))
	require.NoError(t, err)
	assert.Equal(t, "inline", out)

	tk := newTask(node.KindFileImport, map[string]any{"path": "post.md"})
	tk.WorkDir = dir
	out, err = FileImport(ctx, tk)
	require.NoError(t, err)
	assert.Equal(t, "# Launch", out)

	tk = newTask(node.KindFileImport, map[string]any{"path": "empty.md"})
	tk.WorkDir = dir
	_, err = FileImport(ctx, tk)
	assert.ErrorContains(t, err, "is empty")

	_, err = FileImport(ctx, newTask(node.KindFileImport, map[string]any{"path": filepath.Join(dir, "missing.md")}))
	assert.ErrorContains(t, err, "failed to read file")

	_, err = FileImport(ctx, newTask(node.KindFileImport, nil))
	assert.ErrorIs(t, err, node.ErrConfig)
}

func TestFeedImport(t *testing.T) {
	feed := &fetch.Feed{Title: "News", Items: []fetch.Item{{Title: "One"}, {Title: "Two"}, {Title: "Three"}}}
	m := &Module{Fetcher: &stubFetcher{feed: feed}}

	out, err := m.FeedImport(context.Background(), newTask(node.KindFeedImport, map[string]any{"url": "https://x/feed", "limit": 2}))
	require.NoError(t, err)
	assert.Equal(t, feed.Text(2), out)
	assert.NotContains(t, out, "Three")

	_, err = m.FeedImport(context.Background(), newTask(node.KindFeedImport, map[string]any{"url": "https://x/feed", "limit": "many"}))
	assert.ErrorIs(t, err, node.ErrConfig)

	empty := &Module{Fetcher: &stubFetcher{feed: &fetch.Feed{}}}
	_, err = empty.FeedImport(context.Background(), newTask(node.KindFeedImport, map[string]any{"url": "https://x/feed"}))
	assert.ErrorContains(t, err, "no items")
}

func TestBrandMemory(t *testing.T) {
	ctx := context.Background()

	tk := newTask(node.KindBrandMemory, nil)
	tk.Brand = &brand.Context{Name: "Acme", Tone: []string{"bold"}}
	out, err := BrandMemory(ctx, tk)
	require.NoError(t, err)
	assert.Contains(t, out, "Brand: Acme")
	assert.Contains(t, out, "bold")

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "brand.yaml"), []byte("tone: [calm]\n"), 0o600))
	tk = newTask(node.KindBrandMemory, map[string]any{"path": "brand.yaml"})
	tk.WorkDir = dir
	tk.Brand = &brand.Context{Tone: []string{"bold"}}
	out, err = BrandMemory(ctx, tk)
	require.NoError(t, err)
	assert.Contains(t, out, "calm")
	assert.NotContains(t, out, "bold")

	_, err = BrandMemory(ctx, newTask(node.KindBrandMemory, nil))
	assert.ErrorIs(t, err, node.ErrConfig)
}
