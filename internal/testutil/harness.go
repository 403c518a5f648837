// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/contentgrid/internal/app"
	"github.com/specialistvlad/contentgrid/internal/hcl_adapter"
	"github.com/stretchr/testify/require"
)

// HarnessResult holds the outcomes of an integration test run.
type HarnessResult struct {
	// Dir is the temporary directory the workflow files were written to.
	Dir       string
	Output    string
	LogOutput string
	Err       error
	App       *app.App
}

// RunApp writes files into a temporary directory and runs the app against
// it, using a background context.
func RunApp(t *testing.T, files map[string]string, cfg app.Config, opts ...app.Option) *HarnessResult {
	t.Helper()
	return RunAppWithContext(context.Background(), t, files, cfg, opts...)
}

// RunAppWithContext is RunApp with a caller-provided context. Relative paths
// in cfg are resolved against the temporary directory; without workflow
// paths the whole directory is loaded.
func RunAppWithContext(ctx context.Context, t *testing.T, files map[string]string, cfg app.Config, opts ...app.Option) *HarnessResult {
	t.Helper()

	dir := WriteFiles(t, files)
	resolve := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(dir, p)
	}
	if len(cfg.WorkflowPaths) == 0 {
		cfg.WorkflowPaths = []string{dir}
	}
	for i, p := range cfg.WorkflowPaths {
		cfg.WorkflowPaths[i] = resolve(p)
	}
	cfg.BrandPath = resolve(cfg.BrandPath)
	cfg.ResultsPath = resolve(cfg.ResultsPath)
	cfg.EnvFile = resolve(cfg.EnvFile)
	if cfg.OutboxDir == "" {
		cfg.OutboxDir = "outbox"
	}
	cfg.OutboxDir = resolve(cfg.OutboxDir)
	if cfg.LogLevel == "" {
		cfg.LogLevel = "debug"
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}

	validated, err := app.NewConfig(cfg)
	require.NoError(t, err)

	out, logs := &SafeBuffer{}, &SafeBuffer{}
	opts = append([]app.Option{app.WithLogWriter(logs)}, opts...)
	a := app.NewApp(out, validated, hcl_adapter.NewLoader(), opts...)
	runErr := a.Run(ctx)

	if os.Getenv("CONTENTGRID_TEST_LOGS") == "true" {
		t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logs.String())
	}

	return &HarnessResult{
		Dir:       dir,
		Output:    out.String(),
		LogOutput: logs.String(),
		Err:       runErr,
		App:       a,
	}
}
