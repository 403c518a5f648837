// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package checkpoint implements the human review node kind.
package checkpoint

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/specialistvlad/contentgrid/internal/ctxlog"
	"github.com/specialistvlad/contentgrid/internal/handlers"
	"github.com/specialistvlad/contentgrid/internal/node"
	"github.com/specialistvlad/contentgrid/internal/task"
)

// ErrRejected is returned when a reviewer rejects the content.
var ErrRejected = errors.New("content rejected by reviewer")

// Request is the content submitted for review.
type Request struct {
	NodeID  string
	Name    string
	Note    string
	Content string
}

// Decision is the reviewer's verdict. A non-empty Comment is attached to the
// approved content.
type Decision struct {
	Approved bool
	Comment  string
}

// Approver decides whether content may continue downstream.
type Approver interface {
	Review(ctx context.Context, req Request) (Decision, error)
}

// AutoApprove approves everything. It is the default for unattended runs.
type AutoApprove struct{}

// Review implements Approver.
func (AutoApprove) Review(context.Context, Request) (Decision, error) {
	return Decision{Approved: true}, nil
}

// Console asks a human on a terminal. Answers starting with "y" approve, "n"
// rejects; anything after the first word is kept as a comment.
//
// Lines are read by a background goroutine started on the first review, so
// a cancelled context interrupts a pending prompt. That goroutine stays
// blocked on the input until the next line or EOF.
type Console struct {
	mu    sync.Mutex
	in    *bufio.Reader
	out   io.Writer
	once  sync.Once
	lines chan answerLine
}

type answerLine struct {
	text string
	err  error
}

// NewConsole creates a Console approver.
func NewConsole(in io.Reader, out io.Writer) *Console {
	return &Console{in: bufio.NewReader(in), out: out, lines: make(chan answerLine)}
}

func (c *Console) readLines() {
	defer close(c.lines)
	for {
		text, err := c.in.ReadString('\n')
		c.lines <- answerLine{text: text, err: err}
		if err != nil {
			return
		}
	}
}

func (c *Console) next(ctx context.Context) (string, error) {
	c.once.Do(func() { go c.readLines() })
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case l, ok := <-c.lines:
		if !ok {
			return "", io.EOF
		}
		return l.text, l.err
	}
}

// Review implements Approver.
func (c *Console) Review(ctx context.Context, req Request) (Decision, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	fmt.Fprintf(c.out, "\n=== Review: %s ===\n", req.Name)
	if req.Note != "" {
		fmt.Fprintf(c.out, "Note: %s\n", req.Note)
	}
	fmt.Fprintf(c.out, "%s\n", req.Content)

	for {
		fmt.Fprint(c.out, "Approve? [y/n, optional comment]: ")
		line, err := c.next(ctx)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Decision{}, ctxErr
		}
		answer := strings.TrimSpace(line)
		if answer == "" && err != nil {
			return Decision{}, fmt.Errorf("reading review answer: %w", err)
		}

		verdict, comment, _ := strings.Cut(answer, " ")
		switch strings.ToLower(verdict) {
		case "y", "yes":
			return Decision{Approved: true, Comment: strings.TrimSpace(comment)}, nil
		case "n", "no":
			return Decision{Approved: false, Comment: strings.TrimSpace(comment)}, nil
		}
		if err != nil {
			return Decision{}, fmt.Errorf("reading review answer: %w", err)
		}
	}
}

// Module implements the handlers.Module interface for this package.
type Module struct {
	Approver Approver
}

// Register registers the human review handler.
func (m *Module) Register(h *handlers.Handlers) {
	h.Register(node.KindHumanReview, m.Review)
}

// Review submits the input to the approver and passes it through unchanged
// when approved. A reviewer comment is appended as a note.
func (m *Module) Review(ctx context.Context, t *task.Task) (any, error) {
	if strings.TrimSpace(t.Input) == "" {
		return nil, node.EmptyInput(t.Node.Kind)
	}
	approver := m.Approver
	if approver == nil {
		approver = AutoApprove{}
	}

	d, err := approver.Review(ctx, Request{
		NodeID:  t.Node.ID,
		Name:    t.Node.DisplayName(),
		Note:    t.Node.ParamOr("note", ""),
		Content: t.Input,
	})
	if err != nil {
		return nil, err
	}
	logger := ctxlog.FromContext(ctx)
	if !d.Approved {
		logger.Info("Content rejected at checkpoint.", "comment", d.Comment)
		if d.Comment != "" {
			return nil, fmt.Errorf("%w: %s", ErrRejected, d.Comment)
		}
		return nil, ErrRejected
	}
	logger.Info("Content approved at checkpoint.")
	if d.Comment != "" {
		return t.Input + "\n\nReviewer note: " + d.Comment, nil
	}
	return t.Input, nil
}
