package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/JonMunkholm/CardBrowser/internal/config"
	"github.com/JonMunkholm/CardBrowser/internal/core"
	"github.com/JonMunkholm/CardBrowser/internal/logging"
	"github.com/JonMunkholm/CardBrowser/internal/source"
	"github.com/JonMunkholm/CardBrowser/internal/web"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	// Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Setup structured logging based on config
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"locale", cfg.Browser.Locale,
		"source_file", cfg.Source.File,
		"database", cfg.Database.Enabled(),
		"rate_limit_enabled", cfg.Rate.Enabled,
		"require_api_key", cfg.Security.RequireAPIKey,
	)
	slog.Debug("effective configuration", "config", cfg.String())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	service := core.NewService(core.DefaultColumnNames(), core.WithLocale(cfg.Browser.Locale))
	server := web.NewServer(service, cfg, web.NewSessionStore(cfg.Session))

	g, ctx := errgroup.WithContext(ctx)

	// Sources publish data-updates alongside the HTTP API.
	if cfg.Source.File != "" {
		if err := startFileSource(ctx, g, cfg.Source, service); err != nil {
			return err
		}
	}
	if cfg.Database.Enabled() {
		if err := startDatabaseSource(ctx, g, cfg.Database, service); err != nil {
			return err
		}
	}

	g.Go(func() error {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// Graceful shutdown
	g.Go(func() error {
		<-ctx.Done()
		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	slog.Info("server stopped")
	return nil
}

// startFileSource publishes the payload file and, when enabled, watches it.
func startFileSource(ctx context.Context, g *errgroup.Group, cfg config.SourceConfig, service *core.Service) error {
	p, err := source.LoadFile(cfg.File)
	if err != nil {
		return err
	}
	snap := p.Publish(ctx, service)
	slog.Info("loaded source file", "file", cfg.File, "cards", snap.Dataset.Len())

	if cfg.Watch {
		g.Go(func() error {
			return source.WatchFile(ctx, cfg.File, func(p source.Payload) {
				p.Publish(ctx, service)
			})
		})
	}
	return nil
}

// startDatabaseSource runs the configured query once and, when an interval
// is set, again on every tick. The pool closes when ctx is done.
func startDatabaseSource(ctx context.Context, g *errgroup.Group, cfg config.DatabaseConfig, service *core.Service) error {
	pool, err := source.OpenPool(ctx, cfg)
	if err != nil {
		return err
	}

	pg := &source.Postgres{Pool: pool, Query: cfg.Query, Names: service.Names()}
	load := func(ctx context.Context) error {
		rs, err := pg.Load(ctx)
		if err != nil {
			return err
		}
		service.Update(ctx, rs, service.Current().Settings)
		return nil
	}

	if err := load(ctx); err != nil {
		pool.Close()
		return err
	}

	g.Go(func() error {
		defer pool.Close()
		if cfg.RefreshInterval > 0 {
			source.RefreshEvery(ctx, cfg.RefreshInterval, load)
			return nil
		}
		<-ctx.Done()
		return nil
	})
	return nil
}
