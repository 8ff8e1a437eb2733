package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/simforge/internal/builder"
	"github.com/vk/simforge/internal/ctxlog"
	"github.com/vk/simforge/internal/hclconf"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW      io.Writer
	logger    *slog.Logger
	workspace *hclconf.Workspace
	builder   *builder.Builder
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance, including its own isolated logger, loaded
// workspace and build engine.
func NewApp(outW io.Writer, appConfig *Config) *App {
	logger := newLogger(appConfig, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	ws, err := hclconf.Load(ctx, appConfig.WorkspacePath)
	if err != nil {
		// A failure to load the workspace is a fatal startup error.
		panic(fmt.Errorf("failed to load workspace: %w", err))
	}
	logger.Debug("Workspace loaded.",
		"models", len(ws.Models), "builds", len(ws.BuildNames()))

	eng, err := builder.New(ws.Models...)
	if err != nil {
		panic(fmt.Errorf("failed to initialize build engine: %w", err))
	}
	logger.Debug("Build engine initialized.", "prototypes", eng.Prototypes())

	return &App{
		outW:      outW,
		logger:    logger,
		workspace: ws,
		builder:   eng,
	}
}

// Workspace returns the loaded workspace. This is primarily for testing.
func (a *App) Workspace() *hclconf.Workspace {
	return a.workspace
}

// Builder returns the application's build engine. This is primarily for
// testing.
func (a *App) Builder() *builder.Builder {
	return a.builder
}
