// Package main is the entry point for the catalog API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/klauspost/compress/gzhttp"

	"backoffice/internal/app"
	"backoffice/internal/config"
	v1 "backoffice/internal/infrastructure/http/v1"
	"backoffice/internal/infrastructure/http/v1/middleware"
	"backoffice/pkg/logger"
)

func main() {
	cfg, err := config.LoadServer()
	if err != nil {
		fmt.Printf("failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Development: cfg.IsDevelopment(),
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx := logger.WithLogger(context.Background(), log)
	log.Infow("starting catalog server", "env", cfg.AppEnv, "storage", cfg.StorageDriver)

	// --- Storage ---
	storage, err := app.NewStorage(ctx, cfg)
	if err != nil {
		log.Fatalw("failed to initialize storage", "driver", cfg.StorageDriver, "error", err)
	}
	defer storage.Close()

	// --- Router ---
	var metrics *middleware.Metrics
	if cfg.MetricsEnabled {
		metrics = middleware.NewMetrics()
	}

	var handler http.Handler = v1.NewRouter(v1.RouterConfig{
		Catalogs:      app.NewCatalogs(storage),
		Storage:       storage,
		StorageDriver: storage.Driver,
		Logger:        log,
		Metrics:       metrics,
		Metadata:      app.NewMetadataRegistry(),
	})
	if cfg.GzipEnabled {
		handler = gzhttp.GzipHandler(handler)
	}

	// --- HTTP Server ---
	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	go func() {
		log.Infow("server listening", "addr", cfg.AppAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}
