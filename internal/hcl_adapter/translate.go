// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// This file contains the logic for translating HCL schema structs into the
// format-agnostic configuration model defined in the config package.

package hcl_adapter

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/contentgrid/internal/config"
	"github.com/specialistvlad/contentgrid/internal/ctxlog"
	"github.com/specialistvlad/contentgrid/internal/node"
)

// translateNode converts the HCL node schema into the agnostic model,
// evaluating its config expression.
func (l *Loader) translateNode(ctx context.Context, b *NodeBlock, evalCtx *hcl.EvalContext) (*config.NodeDefinition, error) {
	ctx, logger := ctxlog.With(ctx, "node_kind", b.Kind, "node_id", b.ID)

	kind := node.Kind(b.Kind)
	if !kind.Known() {
		logger.Warn("Unknown node kind, the node will run as a pass-through.", "source", b.DeclRange.String())
	}

	def := &config.NodeDefinition{
		Kind:   kind,
		ID:     b.ID,
		Name:   b.Name,
		Inputs: b.Inputs,
		Source: b.DeclRange.String(),
	}

	if !isExprDefined(ctx, b.Config, "config") {
		return def, nil
	}
	val, diags := b.Config.Value(evalCtx)
	if diags.HasErrors() {
		return nil, fmt.Errorf("invalid config for node '%s': %w", b.ID, diags)
	}
	if !val.IsNull() && !val.Type().IsObjectType() && !val.Type().IsMapType() {
		return nil, fmt.Errorf("config for node '%s' at %s must be an object, got %s", b.ID, def.Source, val.Type().FriendlyName())
	}

	native, err := l.converter.ToNative(val)
	if err != nil {
		return nil, fmt.Errorf("config for node '%s': %w", b.ID, err)
	}
	if m, ok := native.(map[string]any); ok {
		def.Config = m
	}
	return def, nil
}

func translateEdge(e *EdgeBlock) node.Edge {
	return node.Edge{From: e.From, To: e.To}
}

// isExprDefined checks if an HCL expression was actually present in the
// source. The decoder populates omitted optional expressions with zero-width
// placeholders, so a nil check is insufficient.
func isExprDefined(ctx context.Context, expr hcl.Expression, attrName string) bool {
	if expr == nil {
		return false
	}
	r := expr.Range()
	defined := r.End.Byte > r.Start.Byte
	ctxlog.FromContext(ctx).Debug("Checking if HCL attribute was explicitly defined.",
		"attribute", attrName,
		"hcl_range", r.String(),
		"is_defined", defined,
	)
	return defined
}
