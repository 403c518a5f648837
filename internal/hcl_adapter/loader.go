// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package hcl_adapter

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/contentgrid/internal/config"
	"github.com/specialistvlad/contentgrid/internal/ctxlog"
	"github.com/specialistvlad/contentgrid/internal/fsutil"
)

// ErrNoWorkflowFiles is returned when none of the given paths holds a
// workflow file.
var ErrNoWorkflowFiles = errors.New("no workflow files found")

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct {
	env       map[string]string
	converter *Converter
}

// Option configures a Loader.
type Option func(*Loader)

// WithEnv replaces the process environment exposed as `env` in expressions.
// Without it the environment is read when Load is called.
func WithEnv(env map[string]string) Option {
	return func(l *Loader) { l.env = env }
}

// NewLoader creates a new HCL workflow loader.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{converter: NewConverter()}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load parses every .hcl file found under paths and merges their blocks into
// one model. Directories are walked recursively in lexical order.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	files, err := l.findAllHCLFiles(paths)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoWorkflowFiles, strings.Join(paths, ", "))
	}
	logger.Debug("Discovered HCL files.", "count", len(files))

	model := &config.Model{Files: files}
	parser := hclparse.NewParser()
	env := l.env
	if env == nil {
		env = environ()
	}
	evalCtx := newEvalContext(env)
	declared := make(map[string]string)

	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var root fileRoot
		if diags := gohcl.DecodeBody(hclFile.Body, evalCtx, &root); diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}

		for _, wf := range root.Workflows {
			if model.Name != "" && model.Name != wf.Name {
				return nil, fmt.Errorf("conflicting workflow names '%s' and '%s' in %s", model.Name, wf.Name, file)
			}
			model.Name = wf.Name
			if wf.Description != "" {
				model.Description = wf.Description
			}
		}

		for _, block := range root.Nodes {
			def, err := l.translateNode(ctx, block, evalCtx)
			if err != nil {
				return nil, err
			}
			if first, dup := declared[def.ID]; dup {
				return nil, fmt.Errorf("node '%s' declared at %s was already declared at %s", def.ID, def.Source, first)
			}
			declared[def.ID] = def.Source
			model.Nodes = append(model.Nodes, def)
		}

		for _, e := range root.Edges {
			model.Edges = append(model.Edges, translateEdge(e))
		}
	}

	if model.Name == "" {
		model.Name = strings.TrimSuffix(filepath.Base(files[0]), filepath.Ext(files[0]))
	}

	logger.Debug("HCL loading complete.", "workflow", model.Name, "nodes", len(model.Nodes), "edges", len(model.Edges))
	return model, nil
}

// findAllHCLFiles walks all given paths and returns a flat list of all .hcl
// files found, without duplicates.
func (l *Loader) findAllHCLFiles(paths []string) ([]string, error) {
	var all []string
	seen := make(map[string]struct{})
	add := func(p string) {
		if _, ok := seen[p]; !ok {
			seen[p] = struct{}{}
			all = append(all, p)
		}
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("error accessing path %s: %w", path, err)
		}

		if !info.IsDir() {
			add(path)
			continue
		}
		found, err := fsutil.FindFilesByExtension(path, ".hcl")
		if err != nil {
			return nil, err
		}
		for _, f := range found {
			add(f)
		}
	}
	return all, nil
}
