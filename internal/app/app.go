// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package app

import (
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/specialistvlad/contentgrid/internal/completion"
	"github.com/specialistvlad/contentgrid/internal/config"
	"github.com/specialistvlad/contentgrid/internal/handlers"
	"github.com/specialistvlad/contentgrid/internal/metrics"
	"github.com/specialistvlad/contentgrid/modules/source"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW   io.Writer
	logW   io.Writer
	in     io.Reader
	logger *slog.Logger
	config *Config
	loader config.Loader

	completer completion.Completer
	fetcher   source.Fetcher
	modules   []handlers.Module
	metrics   *metrics.Metrics

	httpServer *http.Server
}

// Option customizes an App.
type Option func(*App)

// WithLogWriter sends logs to w instead of the output writer.
func WithLogWriter(w io.Writer) Option {
	return func(a *App) { a.logW = w }
}

// WithInput sets the reader interactive reviews are answered from.
func WithInput(r io.Reader) Option {
	return func(a *App) { a.in = r }
}

// WithCompleter overrides the completer selected by the configuration.
func WithCompleter(c completion.Completer) Option {
	return func(a *App) { a.completer = c }
}

// WithFetcher overrides the network fetcher used by import nodes.
func WithFetcher(f source.Fetcher) Option {
	return func(a *App) { a.fetcher = f }
}

// WithModules registers additional handler modules.
func WithModules(modules ...handlers.Module) Option {
	return func(a *App) { a.modules = append(a.modules, modules...) }
}

// NewApp is the constructor for the main application. The run summary is
// written to outW, as are logs unless WithLogWriter is given.
func NewApp(outW io.Writer, cfg *Config, loader config.Loader, opts ...Option) *App {
	a := &App{
		outW:    outW,
		logW:    outW,
		in:      os.Stdin,
		config:  cfg,
		loader:  loader,
		metrics: metrics.New(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.logger = newLogger(cfg.LogLevel, cfg.LogFormat, a.logW)
	a.logger.Debug("Logger configured successfully.")
	return a
}

// Metrics returns the application's metrics. This is primarily for testing.
func (a *App) Metrics() *metrics.Metrics {
	return a.metrics
}
