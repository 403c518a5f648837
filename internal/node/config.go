// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package node

import (
	"fmt"
	"strconv"
	"strings"
)

// Param returns the trimmed string value of a configuration key. Unset keys,
// nil values and blank strings all report false.
func (n *Node) Param(key string) (string, bool) {
	v, ok := n.Config[key]
	if !ok || v == nil {
		return "", false
	}
	var s string
	switch t := v.(type) {
	case string:
		s = t
	case fmt.Stringer:
		s = t.String()
	default:
		s = fmt.Sprint(t)
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}

// ParamOr returns the string value of key, or def when it is unset.
func (n *Node) ParamOr(key, def string) string {
	if s, ok := n.Param(key); ok {
		return s
	}
	return def
}

// IntParam returns the integer value of key, or def when it is unset. Strings are
// parsed; a value that is not a number is a configuration error.
func (n *Node) IntParam(key string, def int) (int, error) {
	v, ok := n.Config[key]
	if !ok || v == nil {
		return def, nil
	}
	switch t := v.(type) {
	case int:
		return t, nil
	case int32:
		return int(t), nil
	case int64:
		return int(t), nil
	case float64:
		if t != float64(int(t)) {
			return 0, ConfigError(n.Kind, key, "must be a whole number")
		}
		return int(t), nil
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return 0, ConfigError(n.Kind, key, "must be a whole number")
		}
		return i, nil
	}
	return 0, ConfigError(n.Kind, key, "must be a whole number")
}

// BoolParam returns the boolean value of key, or def when it is unset.
func (n *Node) BoolParam(key string, def bool) bool {
	v, ok := n.Config[key]
	if !ok || v == nil {
		return def
	}
	switch t := v.(type) {
	case bool:
		return t
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(t))
		if err != nil {
			return def
		}
		return b
	}
	return def
}

// ListParam returns a list value of key. A single string is split on commas.
func (n *Node) ListParam(key string) []string {
	v, ok := n.Config[key]
	if !ok || v == nil {
		return nil
	}
	var raw []string
	switch t := v.(type) {
	case []string:
		raw = t
	case []any:
		for _, item := range t {
			raw = append(raw, fmt.Sprint(item))
		}
	case string:
		raw = strings.Split(t, ",")
	default:
		raw = []string{fmt.Sprint(t)}
	}
	out := make([]string, 0, len(raw))
	for _, s := range raw {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
