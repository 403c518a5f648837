// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package distribution

import (
	"context"
	"fmt"
	"mime"
	"net/mail"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/specialistvlad/contentgrid/internal/ctxlog"
	"github.com/specialistvlad/contentgrid/internal/node"
	"github.com/specialistvlad/contentgrid/internal/task"
)

// Message is an outgoing email.
type Message struct {
	From    string
	To      []string
	Subject string
	Body    string
	Date    time.Time
}

// Mailer delivers emails.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// Outbox is a Mailer that writes every message as an RFC 5322 .eml file, to
// be picked up by a mail relay or opened in a mail client.
type Outbox struct {
	Dir  string
	From string
}

var unsafeName = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// Send implements Mailer.
func (o *Outbox) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(o.Dir, 0o755); err != nil {
		return fmt.Errorf("failed to create outbox: %w", err)
	}
	from := msg.From
	if from == "" {
		from = o.From
	}
	if from == "" {
		from = "contentgrid@localhost"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "From: %s\r\n", from)
	fmt.Fprintf(&sb, "To: %s\r\n", strings.Join(msg.To, ", "))
	fmt.Fprintf(&sb, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", msg.Subject))
	fmt.Fprintf(&sb, "Date: %s\r\n", msg.Date.Format(time.RFC1123Z))
	fmt.Fprintf(&sb, "Message-ID: <%s@contentgrid>\r\n", uuid.NewString())
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	sb.WriteString("Content-Transfer-Encoding: 8bit\r\n\r\n")
	sb.WriteString(strings.ReplaceAll(msg.Body, "\n", "\r\n"))
	sb.WriteString("\r\n")

	name := fmt.Sprintf("%s-%s.eml", msg.Date.UTC().Format("20060102T150405Z"), unsafeName.ReplaceAllString(msg.Subject, "_"))
	path := filepath.Join(o.Dir, name)
	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("failed to write message '%s': %w", path, err)
	}
	ctxlog.FromContext(ctx).Debug("Message written to outbox.", "path", path)
	return nil
}

// Email sends the input to the configured recipients.
func (m *Module) Email(ctx context.Context, t *task.Task) (any, error) {
	to, ok := t.Node.Param("to")
	if !ok {
		return nil, node.MissingConfig(t.Node.Kind, "to")
	}
	addrs, err := mail.ParseAddressList(to)
	if err != nil {
		return nil, node.ConfigError(t.Node.Kind, "to", fmt.Sprintf("is not a valid address list: %v", err))
	}
	var from string
	if f, ok := t.Node.Param("from"); ok {
		addr, err := mail.ParseAddress(f)
		if err != nil {
			return nil, node.ConfigError(t.Node.Kind, "from", fmt.Sprintf("is not a valid address: %v", err))
		}
		from = formatAddress(addr)
	}
	if strings.TrimSpace(t.Input) == "" {
		return nil, node.EmptyInput(t.Node.Kind)
	}

	recipients := make([]string, 0, len(addrs))
	for _, a := range addrs {
		recipients = append(recipients, formatAddress(a))
	}
	msg := Message{
		From:    from,
		To:      recipients,
		Subject: t.Node.ParamOr("subject", t.Node.DisplayName()),
		Body:    t.Input,
		Date:    m.now(),
	}
	if err := m.mailer.Send(ctx, msg); err != nil {
		return nil, fmt.Errorf("email delivery failed: %w", err)
	}
	ctxlog.FromContext(ctx).Info("Email sent.", "to", recipients, "subject", msg.Subject)
	return node.Ack{Success: true, Message: fmt.Sprintf("Email sent to %s", strings.Join(recipients, ", "))}, nil
}

func formatAddress(a *mail.Address) string {
	if a.Name == "" {
		return a.Address
	}
	return a.String()
}
