// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package node

import (
	"fmt"
	"reflect"

	json "github.com/goccy/go-json"
)

// Ack is the structured acknowledgement returned by distribution sinks and by
// nodes that have nothing else to report.
type Ack struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Report is the structured output of an analytics node.
type Report struct {
	Words          int      `json:"words"`
	Characters     int      `json:"characters"`
	Sentences      int      `json:"sentences"`
	Paragraphs     int      `json:"paragraphs"`
	ReadingMinutes float64  `json:"reading_minutes"`
	Hashtags       []string `json:"hashtags,omitempty"`
	Mentions       []string `json:"mentions,omitempty"`
	Links          int      `json:"links"`
	TopKeywords    []string `json:"top_keywords,omitempty"`
}

// TextOf coerces a node output into the text handed to its children.
//
// Strings pass through, records with a Content field (or a "content" key) use
// that field, an Ack uses its message, and anything else is serialized to JSON.
func TextOf(output any) string {
	switch v := output.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case Ack:
		return v.Message
	case *Ack:
		if v == nil {
			return ""
		}
		return v.Message
	case fmt.Stringer:
		return v.String()
	case map[string]any:
		if c, ok := v["content"].(string); ok {
			return c
		}
	}

	if c, ok := contentField(output); ok {
		return c
	}

	b, err := json.Marshal(output)
	if err != nil {
		return fmt.Sprint(output)
	}
	return string(b)
}

// contentField looks for an exported string field named Content.
func contentField(v any) (string, bool) {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return "", false
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return "", false
	}
	f := rv.FieldByName("Content")
	if !f.IsValid() || f.Kind() != reflect.String {
		return "", false
	}
	return f.String(), true
}
