package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lysyi3m/feed-reader/app/api"
	"github.com/lysyi3m/feed-reader/app/cfg"
	"github.com/lysyi3m/feed-reader/app/database"
	"github.com/lysyi3m/feed-reader/app/fetcher"
	"github.com/lysyi3m/feed-reader/app/registry"
	"github.com/lysyi3m/feed-reader/app/tasks"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Feed reader stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	appCfg, err := cfg.Load()
	if err != nil {
		return err
	}
	if appCfg == nil {
		// Help was shown
		return nil
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: appCfg.LogLevel()})))

	slog.Info("Starting feed reader", "version", appCfg.Version)

	db, err := database.Open(appCfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()
	slog.Info("Database ready", "path", appCfg.DBPath)

	feedRegistry := registry.New(appCfg.FeedsDir)
	if err := feedRegistry.Load(); err != nil {
		return fmt.Errorf("failed to load feed configurations: %w", err)
	}
	slog.Info("Feed configurations loaded", "dir", appCfg.FeedsDir, "count", feedRegistry.Count())

	feedRepo := database.NewFeedRepository(db)
	itemRepo := database.NewItemRepository(db)

	feedFetcher := fetcher.New(&http.Client{}, appCfg.UserAgent)
	filterer := registry.NewFilterer(appCfg.BuzzWords)

	scheduler := tasks.NewScheduler(feedRegistry, feedRepo, itemRepo, feedFetcher, filterer, tasks.Options{
		Schedule:    appCfg.Schedule,
		WorkerCount: appCfg.WorkerCount,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if appCfg.Once {
		if failed := scheduler.RunOnce(ctx); failed > 0 {
			slog.Warn("Some feeds failed to update", "failed", failed, "total", len(feedRegistry.Enabled()))
		}
		return nil
	}

	slog.Info("Starting background scheduler", "schedule", appCfg.Schedule, "workers", appCfg.WorkerCount)
	if err := scheduler.Start(); err != nil {
		return err
	}
	defer scheduler.Stop()

	handler := api.NewHandler(feedRegistry, feedRepo, itemRepo, scheduler)
	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      api.NewServer(handler, appCfg.APIAccessKey),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		slog.Info("Shutdown signal received")
	case serveErr = <-serverErrChan:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	slog.Info("Feed reader shutdown complete")

	return serveErr
}
