// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package app

import (
	"context"
	"os"

	"github.com/specialistvlad/contentgrid/internal/brand"
	"github.com/specialistvlad/contentgrid/internal/completion"
	"github.com/specialistvlad/contentgrid/internal/ctxlog"
	"github.com/specialistvlad/contentgrid/internal/localsession"
	"github.com/specialistvlad/contentgrid/modules/checkpoint"
	"github.com/specialistvlad/contentgrid/modules/distribution"
)

// newCompleter selects the completion backend of the configured provider.
func (a *App) newCompleter(ctx context.Context) (completion.Completer, error) {
	if a.completer != nil {
		return a.completer, nil
	}
	logger := ctxlog.FromContext(ctx)
	if a.config.CompletionProvider != ProviderHTTP {
		logger.Info("Using the offline echo completer; AI nodes return their prompt.")
		return completion.Echo{}, nil
	}

	apiKey := os.Getenv(completion.APIKeyEnv)
	if apiKey == "" {
		logger.Warn("No API key set for the completion service.", "env", completion.APIKeyEnv)
	}
	logger.Info("Using the HTTP completer.", "url", a.config.CompletionURL, "model", a.config.CompletionModel)
	return completion.NewHTTPClient(completion.HTTPConfig{
		BaseURL:    a.config.CompletionURL,
		Model:      a.config.CompletionModel,
		APIKey:     apiKey,
		Timeout:    a.config.CompletionTimeout,
		MaxRetries: 3,
	})
}

// newApprover asks on the console in interactive mode and approves
// everything otherwise.
func (a *App) newApprover() checkpoint.Approver {
	if a.config.Interactive {
		return checkpoint.NewConsole(a.in, a.outW)
	}
	return checkpoint.AutoApprove{}
}

// loadBrand reads the brand context file, if one is configured.
func (a *App) loadBrand(ctx context.Context) (*brand.Context, error) {
	if a.config.BrandPath == "" {
		return nil, nil
	}
	b, err := brand.Load(a.config.BrandPath)
	if err != nil {
		return nil, err
	}
	ctxlog.FromContext(ctx).Debug("Brand context loaded.", "path", a.config.BrandPath, "brand", b.Name)
	return b, nil
}

// newSessionFactory wires every capability the modules need.
func (a *App) newSessionFactory(ctx context.Context, workDir string) (*localsession.SessionFactory, error) {
	b, err := a.loadBrand(ctx)
	if err != nil {
		return nil, err
	}
	completer, err := a.newCompleter(ctx)
	if err != nil {
		return nil, err
	}
	return &localsession.SessionFactory{
		Completer:    completer,
		Fetcher:      a.fetcher,
		Approver:     a.newApprover(),
		Distribution: distribution.Options{Mailer: &distribution.Outbox{Dir: a.config.OutboxDir}},
		Metrics:      a.metrics,
		Brand:        b,
		WorkDir:      workDir,
		Modules:      a.modules,
	}, nil
}
