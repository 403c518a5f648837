// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package config

import (
	"context"

	"github.com/zclconf/go-cty/cty"
)

// Loader is the interface for a format-specific workflow loader.
type Loader interface {
	// Load reads every workflow file found under paths and merges them into
	// one format-agnostic model.
	Load(ctx context.Context, paths ...string) (*Model, error)
}

// Converter translates values between the configuration language and the
// plain Go values stored in node.Node.Config.
type Converter interface {
	// ToNative converts a configuration value into strings, int64, float64,
	// bool, []any and map[string]any.
	ToNative(v cty.Value) (any, error)

	// ToCtyValue converts a native Go value into its equivalent cty.Value.
	ToCtyValue(v any) (cty.Value, error)
}
