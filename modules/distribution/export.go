// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package distribution

import (
	"context"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/specialistvlad/contentgrid/internal/ctxlog"
	"github.com/specialistvlad/contentgrid/internal/node"
	"github.com/specialistvlad/contentgrid/internal/task"
)

var exportFormats = map[string]bool{"txt": true, "md": true, "json": true, "html": true}

type exportDoc struct {
	Node       string    `json:"node"`
	Name       string    `json:"name"`
	Content    string    `json:"content"`
	ExportedAt time.Time `json:"exported_at"`
}

// Export writes the input to a file. The format defaults to the file
// extension, then to plain text.
func (m *Module) Export(ctx context.Context, t *task.Task) (any, error) {
	path, ok := t.Node.Param("path")
	if !ok {
		return nil, node.MissingConfig(t.Node.Kind, "path")
	}
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if f, ok := t.Node.Param("format"); ok {
		format = strings.ToLower(f)
	} else if !exportFormats[format] {
		format = "txt"
	}
	if !exportFormats[format] {
		return nil, node.ConfigError(t.Node.Kind, "format", fmt.Sprintf("must be one of txt, md, json, html; got %q", format))
	}
	if strings.TrimSpace(t.Input) == "" {
		return nil, node.EmptyInput(t.Node.Kind)
	}

	data, err := m.render(format, t)
	if err != nil {
		return nil, err
	}
	if !filepath.IsAbs(path) && t.WorkDir != "" {
		path = filepath.Join(t.WorkDir, path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create export directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write export file '%s': %w", path, err)
	}

	ctxlog.FromContext(ctx).Info("Content exported.", "path", path, "format", format, "bytes", len(data))
	return node.Ack{Success: true, Message: fmt.Sprintf("Exported %d bytes to %s", len(data), path)}, nil
}

func (m *Module) render(format string, t *task.Task) ([]byte, error) {
	switch format {
	case "json":
		return json.MarshalIndent(exportDoc{
			Node:       t.Node.ID,
			Name:       t.Node.DisplayName(),
			Content:    t.Input,
			ExportedAt: m.now().UTC(),
		}, "", "  ")
	case "html":
		var sb strings.Builder
		title := html.EscapeString(t.Node.DisplayName())
		fmt.Fprintf(&sb, "<!DOCTYPE html>\n<html>\n<head><meta charset=\"utf-8\"><title>%s</title></head>\n<body>\n", title)
		// One section per parent; a paragraph of dashes is a rule.
		for _, block := range t.Blocks() {
			sb.WriteString("<section>\n")
			for _, para := range strings.Split(block, "\n\n") {
				switch para = strings.TrimSpace(para); {
				case para == "":
				case strings.Trim(para, "-") == "" && len(para) >= 3:
					sb.WriteString("<hr>\n")
				default:
					fmt.Fprintf(&sb, "<p>%s</p>\n", strings.ReplaceAll(html.EscapeString(para), "\n", "<br>"))
				}
			}
			sb.WriteString("</section>\n")
		}
		sb.WriteString("</body>\n</html>\n")
		return []byte(sb.String()), nil
	default:
		return []byte(strings.TrimRight(t.Input, "\n") + "\n"), nil
	}
}
