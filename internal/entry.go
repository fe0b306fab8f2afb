// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/lindgren/stanza/internal/index"
	"github.com/lindgren/stanza/internal/render"
	"github.com/lindgren/stanza/internal/site"
	"github.com/lindgren/stanza/internal/storage"
	"github.com/lindgren/stanza/internal/styles"
	"github.com/lindgren/stanza/internal/watch"
)

// Run executes the pipeline with the given options: one batch pass by
// default, a debounced rebuild loop with WithWatch.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel.Std(),
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("content_root", cfg.Content.Root),
		slog.String("theme_path", cfg.Theme.Path),
		slog.String("output_dir", cfg.Output.Dir),
		slog.String("log_level", cfg.App.LogLevel.Std().String()))

	if app.backend == nil {
		app.backend = styles.BuiltinBackend{}
	}
	if app.renderer == nil && cfg.Output.RenderHTML {
		app.renderer = render.NewGoldmark()
	}

	if !app.watch {
		return buildOnce(ctx, app, logger)
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The first build in watch mode is allowed to fail: the author is about
	// to edit, and the rebuild loop will pick up the fix.
	if err := buildOnce(ctx, app, logger); err != nil {
		logger.Error("build failed", slog.String("error", err.Error()))
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return watch.WatchIgnoring(gctx, watchRoots(cfg), []string{cfg.Output.Dir}, cfg.Watch.Debounce.Std(), logger, func() {
			if err := buildOnce(gctx, app, logger); err != nil {
				logger.Error("rebuild failed", slog.String("error", err.Error()))
			} else {
				logger.Info("rebuilt", slog.String("output_dir", cfg.Output.Dir))
			}
		})
	})

	if err := g.Wait(); err != nil && ctx.Err() == nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Stopped")
	return nil
}

// buildOnce runs one full batch pass and, unless check-only, writes the
// artifacts.
func buildOnce(ctx context.Context, app *application, logger *slog.Logger) error {
	cfg := app.config

	store, err := storage.NewFS(cfg.Content.Root)
	if err != nil {
		return err
	}

	theme, err := styles.LoadTheme(cfg.Theme.Path)
	if err != nil {
		return err
	}

	artifacts, err := site.Build(ctx, site.Params{
		Store: store,
		IndexOpts: index.Options{
			Skew:        cfg.Content.SkewTolerance.Std(),
			Parallelism: cfg.Content.Parallelism,
		},
		ScanRoot: cfg.Theme.ScanRoot,
		Theme:    theme,
		Backend:  app.backend,
		Renderer: app.renderer,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	if app.checkOnly {
		logger.Info("check passed",
			slog.Int("published", len(artifacts.Collection.Documents)),
			slog.Int("drafts", len(artifacts.Collection.Drafts)))
		return nil
	}

	if err := artifacts.Write(cfg.Output.Dir); err != nil {
		return err
	}
	logger.Info("artifacts written", slog.String("output_dir", cfg.Output.Dir))
	return nil
}

// watchRoots lists the directories whose changes trigger a rebuild: the
// content root, the scan root and the theme file's directory.
func watchRoots(cfg *Config) []string {
	roots := []string{cfg.Content.Root}
	seen := map[string]struct{}{cfg.Content.Root: {}}
	for _, r := range []string{cfg.Theme.ScanRoot, filepath.Dir(cfg.Theme.Path)} {
		if _, dup := seen[r]; !dup {
			seen[r] = struct{}{}
			roots = append(roots, r)
		}
	}
	return roots
}
