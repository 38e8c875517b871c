package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/vk/yxflow/internal/config"
	"github.com/vk/yxflow/internal/ctxlog"
	"github.com/vk/yxflow/internal/macro"
	"github.com/vk/yxflow/internal/registry"
	"github.com/vk/yxflow/internal/telemetry"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	config   *Config
	model    *config.Model
	registry *registry.Registry
	metrics  *telemetry.Metrics
	handler  macro.MissingHandler
}

// Option customizes an App.
type Option func(*App)

// WithMissingHandler installs the handler consulted for unresolved macros
// when the configuration selects interactive mode.
func WithMissingHandler(h macro.MissingHandler) Option {
	return func(a *App) { a.handler = h }
}

// NewApp is the constructor for the main application. Results are written
// to outW and logs to logW. It panics when the configuration file cannot
// be loaded or declares invalid tools.
func NewApp(outW, logW io.Writer, cfg *Config, loader config.Loader, opts ...Option) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	model, err := loadModel(ctx, loader, cfg.ConfigPath)
	if err != nil {
		// A failure to load config is a fatal startup error.
		panic(fmt.Errorf("failed to load configuration: %w", err))
	}

	reg, err := buildRegistry(ctx, model)
	if err != nil {
		panic(err)
	}

	a := &App{
		outW:     outW,
		logger:   logger,
		config:   cfg,
		model:    model,
		registry: reg,
		metrics:  telemetry.NewMetrics(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Metrics returns the counters of the runs made by the app.
func (a *App) Metrics() *telemetry.Metrics {
	return a.metrics
}

// resolverOptions merges the configuration file with the command line.
// Directories and skip entries from the command line come after those of
// the file.
func (a *App) resolverOptions() macro.Options {
	r := a.model.Resolver
	opts := macro.Options{
		SearchDirs:  append(slices.Clone(r.SearchDirs), a.config.MacroDirs...),
		Skip:        append(slices.Clone(r.Skip), a.config.SkipMacros...),
		Interactive: r.Interactive(),
		Handler:     a.handler,
		Metrics:     a.metrics,
	}
	if opts.Interactive && opts.Handler == nil {
		a.logger.Warn("Interactive resolution requested but no handler is installed; missing macros will not be prompted for.")
	}
	return opts
}
