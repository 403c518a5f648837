// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/specialistvlad/contentgrid/internal/ctxlog"
	"github.com/specialistvlad/contentgrid/internal/node"
	"github.com/specialistvlad/contentgrid/internal/scheduler"
)

// ErrNodesFailed is returned by Run when the workflow finished with at least
// one failed node.
var ErrNodesFailed = errors.New("workflow finished with failed nodes")

// Run loads the workflow, executes it and reports the outcome.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if a.config.EnvFile != "" {
		if err := godotenv.Load(a.config.EnvFile); err != nil {
			return fmt.Errorf("failed to load env file %s: %w", a.config.EnvFile, err)
		}
		a.logger.Debug("Environment file loaded.", "path", a.config.EnvFile)
	}

	if err := a.startHealthcheckServer(ctx); err != nil {
		return err
	}
	defer a.closeHealthcheckServer(ctx)

	model, err := a.loader.Load(ctx, a.config.WorkflowPaths...)
	if err != nil {
		return fmt.Errorf("failed to load workflow: %w", err)
	}
	wf := model.Workflow()
	a.logger.Info("Workflow loaded.", "workflow", wf.Name, "nodes", len(wf.Nodes), "edges", len(wf.Edges))

	factory, err := a.newSessionFactory(ctx, filepath.Dir(model.Files[0]))
	if err != nil {
		return err
	}
	sess, err := factory.NewSession(ctx)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	defer func() {
		if err := sess.Close(ctx); err != nil {
			a.logger.Warn("Failed to close session.", "error", err)
		}
	}()

	if len(wf.Nodes) == 0 {
		a.logger.Warn("No nodes found in workflow, execution not required.")
		return nil
	}

	a.logger.Info("🚀 Starting workflow run...")
	report, runErr := sess.Run(ctx, wf, a.observer(ctx, wf))
	if report == nil {
		return fmt.Errorf("workflow run failed: %w", runErr)
	}
	a.logger.Info("🏁 Workflow run finished.", "run_id", report.RunID)

	if err := a.printSummary(wf, report); err != nil {
		a.logger.Warn("Failed to print the run summary.", "error", err)
	}
	if a.config.ResultsPath != "" {
		if err := writeResults(a.config.ResultsPath, wf, report); err != nil {
			return err
		}
		a.logger.Info("Run results written.", "path", a.config.ResultsPath)
	}

	if runErr != nil {
		return fmt.Errorf("workflow run interrupted: %w", runErr)
	}
	if failed := report.Failed(); len(failed) > 0 {
		return fmt.Errorf("%w: %s", ErrNodesFailed, strings.Join(failed, ", "))
	}
	return nil
}

// observer logs every transition of the run.
func (a *App) observer(ctx context.Context, wf *node.Workflow) scheduler.Observer {
	names := make(map[string]string, len(wf.Nodes))
	for _, n := range wf.Nodes {
		names[n.ID] = n.DisplayName()
	}
	logger := ctxlog.FromContext(ctx)
	return func(id string, status node.Status, output any) {
		switch status {
		case node.StatusRunning:
			logger.Info("▶️ Node started.", "node", id, "name", names[id])
		case node.StatusCompleted:
			logger.Info("✅ Node completed.", "node", id, "name", names[id])
		case node.StatusFailed:
			logger.Error("❌ Node failed.", "node", id, "name", names[id], "error", output)
		}
	}
}
