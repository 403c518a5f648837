// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/contentgrid/internal/cli"
	"github.com/stretchr/testify/require"
)

func writeWorkflow(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "main.hcl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestRun_Success(t *testing.T) {
	t.Parallel()

	path := writeWorkflow(t, `
node "text_input" "A" { config = { text = "hello" } }
node "summarize" "B" { inputs = ["A"] }
`)
	out, logs := &bytes.Buffer{}, &bytes.Buffer{}

	err := run(context.Background(), out, logs, []string{"-completion-provider", "echo", path})

	require.NoError(t, err)
	require.Contains(t, out.String(), "2/2 completed")
	require.Equal(t, cli.ExitOK, cli.ExitCode(err))
}

func TestRun_FailedNodesExitWithThree(t *testing.T) {
	t.Parallel()

	path := writeWorkflow(t, `node "text_input" "A" {}`)
	out, logs := &bytes.Buffer{}, &bytes.Buffer{}

	err := run(context.Background(), out, logs, []string{path})

	require.Error(t, err)
	require.Equal(t, cli.ExitNodesFailed, cli.ExitCode(err))
}

func TestRun_InvalidWorkflowFile(t *testing.T) {
	t.Parallel()

	// Missing closing brace.
	path := writeWorkflow(t, `
node "text_input" "A" {
  config = { text = "hello" }
`)
	out, logs := &bytes.Buffer{}, &bytes.Buffer{}

	err := run(context.Background(), out, logs, []string{path})

	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to parse")
	require.Equal(t, cli.ExitStartup, cli.ExitCode(err))
}

func TestRun_ShouldExit(t *testing.T) {
	t.Parallel()

	// The "-h" (help) flag should cause cli.Parse to return `shouldExit=true`.
	out := &bytes.Buffer{}
	err := run(context.Background(), out, out, []string{"-h"})

	require.NoError(t, err, "run() should return a nil error when shouldExit is true")
	require.Contains(t, out.String(), "Usage:", "Expected help text to be printed to the output buffer")
}

func TestRun_ParseError(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	err := run(context.Background(), out, out, []string{"--this-is-not-a-valid-flag"})

	require.Error(t, err)
	require.Contains(t, err.Error(), "flag provided but not defined: -this-is-not-a-valid-flag")
	require.Equal(t, cli.ExitUsage, cli.ExitCode(err))
}
