// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package app

import (
	"errors"
	"fmt"
	"time"
)

// Completion providers.
const (
	ProviderEcho = "echo"
	ProviderHTTP = "http"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	WorkflowPaths []string // .hcl files or directories
	BrandPath     string   // brand context YAML

	CompletionProvider string
	CompletionURL      string
	CompletionModel    string
	CompletionTimeout  time.Duration

	EnvFile     string
	OutboxDir   string
	ResultsPath string
	Interactive bool

	LogFormat       string
	LogLevel        string
	HealthcheckPort int
}

// NewConfig validates cfg and fills in defaults. Without an explicit
// provider, a completion URL selects "http" and its absence "echo".
func NewConfig(cfg Config) (*Config, error) {
	if len(cfg.WorkflowPaths) == 0 {
		return nil, errors.New("at least one workflow path is required")
	}

	if cfg.CompletionProvider == "" {
		cfg.CompletionProvider = ProviderEcho
		if cfg.CompletionURL != "" {
			cfg.CompletionProvider = ProviderHTTP
		}
	}
	switch cfg.CompletionProvider {
	case ProviderEcho:
	case ProviderHTTP:
		if cfg.CompletionURL == "" {
			return nil, errors.New("the http completion provider requires a completion URL")
		}
		if cfg.CompletionModel == "" {
			return nil, errors.New("the http completion provider requires a completion model")
		}
	default:
		return nil, fmt.Errorf("unknown completion provider '%s': must be 'http' or 'echo'", cfg.CompletionProvider)
	}

	if cfg.HealthcheckPort < 0 || cfg.HealthcheckPort > 65535 {
		return nil, fmt.Errorf("healthcheck port %d is out of range", cfg.HealthcheckPort)
	}
	if cfg.OutboxDir == "" {
		cfg.OutboxDir = "outbox"
	}
	return &cfg, nil
}
