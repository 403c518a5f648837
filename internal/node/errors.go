// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package node

import (
	"errors"
	"fmt"
)

var (
	// ErrConfig marks a user configuration error on a node.
	ErrConfig = errors.New("configuration error")
	// ErrEmptyInput marks a node that requires parent output but received none.
	ErrEmptyInput = errors.New("no input from upstream nodes")
)

// ConfigError reports a missing or invalid configuration key of a node kind.
func ConfigError(kind Kind, key, msg string) error {
	return fmt.Errorf("%w: %s node: %q %s", ErrConfig, kind, key, msg)
}

// MissingConfig reports a required configuration key that is unset.
func MissingConfig(kind Kind, key string) error {
	return ConfigError(kind, key, "is required")
}

// EmptyInput reports that a node of the given kind needs upstream content.
func EmptyInput(kind Kind) error {
	return fmt.Errorf("%w: %s node needs content from a connected node", ErrEmptyInput, kind)
}
