// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/specialistvlad/contentgrid/internal/app"
)

// Exit codes.
const (
	ExitOK          = 0
	ExitStartup     = 1
	ExitUsage       = 2
	ExitNodesFailed = 3
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// ExitCode maps an error returned by the app to a process exit code.
func ExitCode(err error) int {
	var exitErr *ExitError
	switch {
	case err == nil:
		return ExitOK
	case errors.As(err, &exitErr):
		return exitErr.Code
	case errors.Is(err, app.ErrNodesFailed):
		return ExitNodesFailed
	default:
		return ExitStartup
	}
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("contentgrid", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
contentgrid - Runs content-marketing workflows: import, transform, review, publish.

Usage:
  contentgrid [options] WORKFLOW_PATH...

Arguments:
  WORKFLOW_PATH
    Path to a single .hcl file or a directory containing .hcl files.

Environment:
  `+"CONTENTGRID_API_KEY"+`  API key sent to the completion service.

Options:
`)
		flagSet.PrintDefaults()
	}

	workflowFlag := flagSet.String("workflow", "", "Path to the workflow file or directory.")
	wFlag := flagSet.String("w", "", "Path to the workflow file or directory (shorthand).")
	brandFlag := flagSet.String("brand", "", "Path to a brand context YAML file.")
	urlFlag := flagSet.String("completion-url", "", "Base URL of an OpenAI-compatible completion API.")
	modelFlag := flagSet.String("completion-model", "", "Model name sent to the completion API.")
	providerFlag := flagSet.String("completion-provider", "", "Completion backend. Options: 'http' or 'echo'. Defaults to 'http' when a URL is set.")
	timeoutFlag := flagSet.Duration("completion-timeout", 60*time.Second, "Timeout of a single completion request.")
	envFileFlag := flagSet.String("env-file", "", "Load environment variables from this file before running.")
	outboxFlag := flagSet.String("outbox", "outbox", "Directory email nodes write messages to.")
	resultsFlag := flagSet.String("results", "", "Write the run results as JSON to this file.")
	interactiveFlag := flagSet.Bool("interactive", false, "Ask on the terminal to approve human_review nodes.")
	healthPortFlag := flagSet.Int("healthcheck-port", 0, "Port for the HTTP health check and metrics server. 0 is disabled.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: ExitUsage, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	var paths []string
	switch {
	case *workflowFlag != "":
		paths = append(paths, *workflowFlag)
	case *wFlag != "":
		paths = append(paths, *wFlag)
	}
	paths = append(paths, flagSet.Args()...)
	slog.Debug("Workflow paths determined.", "paths", paths)

	if len(paths) == 0 {
		slog.Debug("No workflow path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: ExitUsage, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, false, &ExitError{Code: ExitUsage, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		WorkflowPaths:      paths,
		BrandPath:          *brandFlag,
		CompletionProvider: strings.ToLower(*providerFlag),
		CompletionURL:      *urlFlag,
		CompletionModel:    *modelFlag,
		CompletionTimeout:  *timeoutFlag,
		EnvFile:            *envFileFlag,
		OutboxDir:          *outboxFlag,
		ResultsPath:        *resultsFlag,
		Interactive:        *interactiveFlag,
		LogFormat:          logFormat,
		LogLevel:           logLevel,
		HealthcheckPort:    *healthPortFlag,
	})
	if err != nil {
		return nil, false, &ExitError{Code: ExitUsage, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
