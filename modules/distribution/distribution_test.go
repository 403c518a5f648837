// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package distribution

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/specialistvlad/contentgrid/internal/graph"
	"github.com/specialistvlad/contentgrid/internal/handlers"
	"github.com/specialistvlad/contentgrid/internal/node"
	"github.com/specialistvlad/contentgrid/internal/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

type emitCall struct {
	url, namespace, event string
	payload               any
}

type stubEmitter struct {
	calls []emitCall
	err   error
}

func (s *stubEmitter) Emit(_ context.Context, url, namespace, event string, payload any) error {
	s.calls = append(s.calls, emitCall{url, namespace, event, payload})
	return s.err
}

type stubMailer struct {
	sent []Message
}

func (s *stubMailer) Send(_ context.Context, msg Message) error {
	s.sent = append(s.sent, msg)
	return nil
}

func newModule(t *testing.T, opts Options) *Module {
	t.Helper()
	m := New(opts)
	m.now = func() time.Time { return fixedNow }
	t.Cleanup(func() { _ = m.Close() })
	return m
}

func sinkTask(kind node.Kind, cfg map[string]any, input string) *task.Task {
	return &task.Task{Node: &node.Node{ID: "sink", Kind: kind, Name: "Launch Post", Config: cfg}, Input: input}
}

func TestRegister(t *testing.T) {
	h := handlers.New()
	newModule(t, Options{}).Register(h)
	assert.ElementsMatch(t, node.Kinds(node.CategoryDistribution), h.Kinds())
}

func TestPublish_ConfigErrorsComeBeforeEmptyInput(t *testing.T) {
	m := newModule(t, Options{Emitter: &stubEmitter{}})
	ctx := context.Background()

	tests := []struct {
		name string
		cfg  map[string]any
		want string
	}{
		{"missing channel", nil, `"channel" is required`},
		{"unknown channel", map[string]any{"channel": "fax"}, `must be one of log, webhook, socketio; got "fax"`},
		{"webhook without url", map[string]any{"channel": "webhook"}, `"url" is required for the webhook channel`},
		{"socketio with bad url", map[string]any{"channel": "socketio", "url": "ftp://x"}, "must be an http or https URL"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := m.Publish(ctx, sinkTask(node.KindPublish, tc.cfg, ""))
			require.Error(t, err)
			assert.True(t, errors.Is(err, node.ErrConfig))
			assert.False(t, errors.Is(err, node.ErrEmptyInput))
			assert.ErrorContains(t, err, tc.want)
		})
	}

	_, err := m.Publish(ctx, sinkTask(node.KindPublish, map[string]any{"channel": "log"}, ""))
	assert.ErrorIs(t, err, node.ErrEmptyInput)
}

func TestPublish_Log(t *testing.T) {
	out, err := newModule(t, Options{}).Publish(context.Background(), sinkTask(node.KindPublish, map[string]any{"channel": "LOG"}, "hello"))
	require.NoError(t, err)
	assert.Equal(t, node.Ack{Success: true, Message: "Published to log"}, out)
}

func TestPublish_Webhook(t *testing.T) {
	t.Parallel()

	var got Payload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/fail" {
			http.Error(w, "nope", http.StatusBadGateway)
			return
		}
		raw, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(raw, &got))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()
	m := newModule(t, Options{})

	out, err := m.Publish(context.Background(), sinkTask(node.KindPublish, map[string]any{"channel": "webhook", "url": srv.URL + "/hook"}, "hello"))
	require.NoError(t, err)
	assert.Equal(t, node.Ack{Success: true, Message: "Published to webhook " + srv.URL + "/hook (status 202)"}, out)
	assert.Equal(t, Payload{Node: "sink", Name: "Launch Post", Content: "hello", PublishedAt: fixedNow}, got)

	_, err = m.Publish(context.Background(), sinkTask(node.KindPublish, map[string]any{"channel": "webhook", "url": srv.URL + "/fail"}, "hello"))
	assert.ErrorContains(t, err, "status 502")
}

func TestPublish_SocketIO(t *testing.T) {
	e := &stubEmitter{}
	m := newModule(t, Options{Emitter: e})

	out, err := m.Publish(context.Background(), sinkTask(node.KindPublish, map[string]any{"channel": "socketio", "url": "http://localhost:3000", "event": "post"}, "hello"))
	require.NoError(t, err)
	assert.Equal(t, node.Ack{Success: true, Message: "Published event 'post' to http://localhost:3000"}, out)
	require.Len(t, e.calls, 1)
	assert.Equal(t, "/", e.calls[0].namespace)
	assert.Equal(t, "post", e.calls[0].event)
	assert.Equal(t, "hello", e.calls[0].payload.(Payload).Content)

	e.err = errors.New("refused")
	_, err = m.Publish(context.Background(), sinkTask(node.KindPublish, map[string]any{"channel": "socketio", "url": "http://localhost:3000"}, "hello"))
	assert.ErrorContains(t, err, "refused")
}

func TestExport(t *testing.T) {
	m := newModule(t, Options{})
	ctx := context.Background()
	dir := t.TempDir()

	run := func(cfg map[string]any, input string) (any, error) {
		tk := sinkTask(node.KindExport, cfg, input)
		tk.WorkDir = dir
		return m.Export(ctx, tk)
	}

	t.Run("markdown from extension", func(t *testing.T) {
		out, err := run(map[string]any{"path": "out/post.md"}, "# Title")
		require.NoError(t, err)
		assert.True(t, out.(node.Ack).Success)
		data, err := os.ReadFile(filepath.Join(dir, "out", "post.md"))
		require.NoError(t, err)
		assert.Equal(t, "# Title\n", string(data))
	})

	t.Run("json document", func(t *testing.T) {
		_, err := run(map[string]any{"path": "post.data", "format": "json"}, "hello")
		require.NoError(t, err)
		raw, err := os.ReadFile(filepath.Join(dir, "post.data"))
		require.NoError(t, err)
		var doc exportDoc
		require.NoError(t, json.Unmarshal(raw, &doc))
		assert.Equal(t, exportDoc{Node: "sink", Name: "Launch Post", Content: "hello", ExportedAt: fixedNow}, doc)
	})

	t.Run("html escapes and splits paragraphs", func(t *testing.T) {
		_, err := run(map[string]any{"path": "post.html"}, "a <b>\n\nsecond\nline")
		require.NoError(t, err)
		raw, err := os.ReadFile(filepath.Join(dir, "post.html"))
		require.NoError(t, err)
		assert.Contains(t, string(raw), "<title>Launch Post</title>")
		assert.Contains(t, string(raw), "<p>a &lt;b&gt;</p>")
		assert.Contains(t, string(raw), "<p>second<br>line</p>")
	})

	t.Run("html keeps one section per parent", func(t *testing.T) {
		parents := []string{"Intro" + graph.InputSeparator + "Outro", "Second parent"}
		tk := sinkTask(node.KindExport, map[string]any{"path": "digest.html"}, graph.JoinInputs(parents))
		tk.Inputs = parents
		tk.WorkDir = dir
		_, err := m.Export(ctx, tk)
		require.NoError(t, err)

		raw, err := os.ReadFile(filepath.Join(dir, "digest.html"))
		require.NoError(t, err)
		assert.Contains(t, string(raw),
			"<section>\n<p>Intro</p>\n<hr>\n<p>Outro</p>\n</section>\n<section>\n<p>Second parent</p>\n</section>\n")
	})

	t.Run("unknown extension falls back to text", func(t *testing.T) {
		_, err := run(map[string]any{"path": "notes.out"}, "x")
		require.NoError(t, err)
	})

	t.Run("config errors before empty input", func(t *testing.T) {
		_, err := run(nil, "")
		assert.ErrorIs(t, err, node.ErrConfig)
		_, err = run(map[string]any{"path": "x.pdf", "format": "pdf"}, "")
		assert.ErrorIs(t, err, node.ErrConfig)
		_, err = run(map[string]any{"path": "x.txt"}, "  ")
		assert.ErrorIs(t, err, node.ErrEmptyInput)
	})
}

func TestEmail(t *testing.T) {
	mailer := &stubMailer{}
	m := newModule(t, Options{Mailer: mailer})
	ctx := context.Background()

	out, err := m.Email(ctx, sinkTask(node.KindEmail, map[string]any{"to": "Ana <ana@example.com>, bo@example.com"}, "Newsletter body"))
	require.NoError(t, err)
	assert.Equal(t, node.Ack{Success: true, Message: `Email sent to "Ana" <ana@example.com>, bo@example.com`}, out)
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, Message{
		To:      []string{`"Ana" <ana@example.com>`, "bo@example.com"},
		Subject: "Launch Post",
		Body:    "Newsletter body",
		Date:    fixedNow,
	}, mailer.sent[0])

	_, err = m.Email(ctx, sinkTask(node.KindEmail, nil, ""))
	assert.ErrorIs(t, err, node.ErrConfig)
	_, err = m.Email(ctx, sinkTask(node.KindEmail, map[string]any{"to": "not an address"}, "x"))
	assert.ErrorIs(t, err, node.ErrConfig)
	_, err = m.Email(ctx, sinkTask(node.KindEmail, map[string]any{"to": "a@example.com", "from": "@@"}, "x"))
	assert.ErrorContains(t, err, `"from"`)
	_, err = m.Email(ctx, sinkTask(node.KindEmail, map[string]any{"to": "a@example.com"}, ""))
	assert.ErrorIs(t, err, node.ErrEmptyInput)
}

func TestOutbox(t *testing.T) {
	dir := t.TempDir()
	o := &Outbox{Dir: dir, From: "news@example.com"}

	err := o.Send(context.Background(), Message{
		To:      []string{"a@example.com"},
		Subject: "Spring launch!",
		Body:    "line one\nline two",
		Date:    fixedNow,
	})
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "20250314T093000Z-Spring_launch_.eml", entries[0].Name())

	raw, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	require.NoError(t, err)
	msg := string(raw)
	assert.Contains(t, msg, "From: news@example.com\r\n")
	assert.Contains(t, msg, "To: a@example.com\r\n")
	assert.Contains(t, msg, "Subject: Spring launch!\r\n")
	assert.True(t, strings.HasSuffix(msg, "\r\n\r\nline one\r\nline two\r\n"))
}
