// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/specialistvlad/contentgrid/internal/app"
	"github.com/specialistvlad/contentgrid/internal/cli"
	"github.com/specialistvlad/contentgrid/internal/hcl_adapter"
)

// main is the entrypoint for the contentgrid application.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Stdout, os.Stderr, os.Args[1:])
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	os.Exit(cli.ExitCode(err))
}

// run encapsulates the main application logic for easier testing and error handling.
func run(ctx context.Context, outW, logW io.Writer, args []string) (err error) {
	appConfig, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	// Handlers panic on programmer errors such as a kind registered twice;
	// report them as a startup failure instead of a stack trace.
	defer func() {
		if r := recover(); r != nil {
			err = &cli.ExitError{Code: cli.ExitStartup, Message: fmt.Sprintf("application startup panicked | %v", r)}
		}
	}()

	contentgrid := app.NewApp(outW, appConfig, hcl_adapter.NewLoader(), app.WithLogWriter(logW))
	if err := contentgrid.Run(ctx); err != nil {
		if errors.Is(err, app.ErrNodesFailed) {
			return err
		}
		return fmt.Errorf("contentgrid: %w", err)
	}
	return nil
}
