// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package brand holds the brand-voice constraints injected into AI transform
// prompts, and loads them from YAML files.
package brand

import (
	"bytes"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Context is a bundle of brand-voice constraints. Every category is a
// free-form list of strings; Extra carries categories without a dedicated field.
type Context struct {
	Name            string              `yaml:"name"`
	Tone            []string            `yaml:"tone"`
	CallsToAction   []string            `yaml:"calls_to_action"`
	Do              []string            `yaml:"do"`
	Dont            []string            `yaml:"dont"`
	AvoidCompetitor []string            `yaml:"avoid_competitor_styles"`
	Expertise       []string            `yaml:"expertise"`
	Extra           map[string][]string `yaml:"extra,omitempty"`
}

// Load reads a brand context from a YAML file.
func Load(path string) (*Context, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read brand file '%s': %w", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse brand file '%s': %w", path, err)
	}
	return c, nil
}

// Parse decodes a brand context from YAML. Unknown keys are rejected so typos
// in category names don't silently drop constraints.
func Parse(data []byte) (*Context, error) {
	var c Context
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Empty reports whether the context carries no constraint at all.
func (c *Context) Empty() bool {
	if c == nil {
		return true
	}
	if len(c.Tone)+len(c.CallsToAction)+len(c.Do)+len(c.Dont)+len(c.AvoidCompetitor)+len(c.Expertise) > 0 {
		return false
	}
	for _, v := range c.Extra {
		if len(v) > 0 {
			return false
		}
	}
	return true
}

type section struct {
	title string
	items []string
}

func (c *Context) sections() []section {
	out := []section{
		{"Tone of voice", c.Tone},
		{"Preferred calls to action", c.CallsToAction},
		{"Always", c.Do},
		{"Never", c.Dont},
		{"Do not imitate the style of", c.AvoidCompetitor},
		{"Domain expertise to draw on", c.Expertise},
	}
	keys := make([]string, 0, len(c.Extra))
	for k := range c.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		out = append(out, section{strings.ReplaceAll(k, "_", " "), c.Extra[k]})
	}
	return out
}

// Block renders the constraints as a prompt section. It returns an empty
// string for a nil or empty context.
func (c *Context) Block() string {
	if c.Empty() {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("Brand guidelines")
	if c.Name != "" {
		sb.WriteString(" for ")
		sb.WriteString(c.Name)
	}
	sb.WriteString(":\n")
	for _, s := range c.sections() {
		if len(s.items) == 0 {
			continue
		}
		fmt.Fprintf(&sb, "- %s: %s\n", s.title, strings.Join(s.items, "; "))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// Text renders the context as plain text for nodes that load brand memory
// into the graph.
func (c *Context) Text() string {
	if c.Empty() {
		return ""
	}
	var sb strings.Builder
	if c.Name != "" {
		fmt.Fprintf(&sb, "Brand: %s\n", c.Name)
	}
	for _, s := range c.sections() {
		if len(s.items) == 0 {
			continue
		}
		fmt.Fprintf(&sb, "%s:\n", s.title)
		for _, item := range s.items {
			fmt.Fprintf(&sb, "  - %s\n", item)
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}
