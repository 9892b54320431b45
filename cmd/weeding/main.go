package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Charlelielataste/weeding/internal/config"
	"github.com/Charlelielataste/weeding/internal/handlers"
	"github.com/Charlelielataste/weeding/internal/metrics"
	"github.com/Charlelielataste/weeding/internal/middleware"
	"github.com/Charlelielataste/weeding/internal/models"
	"github.com/Charlelielataste/weeding/internal/scratch"
	"github.com/Charlelielataste/weeding/internal/session"
	"github.com/Charlelielataste/weeding/internal/storage/b2"
)

func main() {
	// Local development reads B2 credentials from a .env file; in
	// production the variables come from the environment directly
	if err := godotenv.Load(); err == nil {
		slog.Info("loaded environment from .env file")
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	slog.Info("starting weeding",
		"port", cfg.Port,
		"chunk_size", cfg.ChunkSize,
		"max_concurrent_sessions", cfg.MaxConcurrentSessions,
		"session_max_age", cfg.SessionMaxAge,
		"bucket", cfg.B2Bucket,
	)

	// Scratch area for in-flight chunked uploads
	scr, err := scratch.NewDirStorage(cfg.TempDir)
	if err != nil {
		slog.Error("failed to initialize scratch storage", "error", err)
		os.Exit(1)
	}
	slog.Info("scratch storage ready", "path", scr.Root())

	// Blob store
	store, err := b2.New(context.Background(), b2.B2Config{
		Bucket:    cfg.B2Bucket,
		Region:    cfg.B2Region,
		Endpoint:  cfg.B2Endpoint,
		KeyID:     cfg.B2KeyID,
		Key:       cfg.B2Key,
		PublicURL: cfg.B2PublicURL,
	})
	if err != nil {
		slog.Error("failed to initialize blob storage", "error", err)
		os.Exit(1)
	}
	slog.Info("blob storage ready", "bucket", cfg.B2Bucket, "endpoint", cfg.B2Endpoint)

	// Upload session registry, exported as a gauge
	registry := session.NewRegistry(cfg.MaxConcurrentSessions)
	if err := metrics.NewSessionCollector(registry.Count).Register(); err != nil {
		slog.Warn("failed to register session gauge", "error", err)
	}

	startTime := time.Now()

	// HTTP routes
	mux := http.NewServeMux()
	mux.HandleFunc("/api/upload-photo", handlers.SimpleUploadHandler(cfg, store, models.KindPhoto))
	mux.HandleFunc("/api/upload-video", handlers.SimpleUploadHandler(cfg, store, models.KindVideo))
	mux.HandleFunc("/api/upload-photo-chunk", handlers.ChunkUploadHandler(cfg, registry, scr, store, models.KindPhoto))
	mux.HandleFunc("/api/upload-chunk", handlers.ChunkUploadHandler(cfg, registry, scr, store, models.KindVideo))
	mux.HandleFunc("/api/photos", handlers.ListMediaHandler(store, models.KindPhoto))
	mux.HandleFunc("/api/videos", handlers.ListMediaHandler(store, models.KindVideo))
	mux.HandleFunc("/health", handlers.HealthHandler(store, registry, startTime))
	mux.Handle("/metrics", promhttp.Handler())

	// Middleware chain (outermost first)
	handler := middleware.RecoveryMiddleware(
		middleware.SecurityHeadersMiddleware(
			middleware.LoggingMiddleware(
				metrics.Middleware(mux),
			),
		),
	)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  5 * time.Minute, // One chunk on a slow connection
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	// Janitor for abandoned upload sessions
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go scratch.StartJanitor(ctx, scr, registry, cfg.SessionMaxAge, cfg.CleanupInterval)

	// Start HTTP server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("http server listening", "address", server.Addr)
		serverErrors <- server.ListenAndServe()
	}()

	// Graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		slog.Error("server error", "error", err)
		os.Exit(1)

	case sig := <-shutdown:
		slog.Info("shutdown signal received", "signal", sig)

		// Stop the janitor
		cancel()

		// Give in-flight uploads time to land their current chunk
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			slog.Error("graceful shutdown failed", "error", err)
			if err := server.Close(); err != nil {
				slog.Error("server close failed", "error", err)
			}
			os.Exit(1)
		}

		slog.Info("server shutdown complete")
	}
}
