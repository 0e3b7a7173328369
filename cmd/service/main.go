// cmd/service/main.go
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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github-story/internal/activity"
	"github-story/internal/api"
	"github-story/internal/config"
	"github-story/internal/github"
	"github-story/internal/metrics"
	"github-story/internal/story"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Application startup error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Initialize structured logger
	logLevel := new(slog.LevelVar)
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	logger := slog.New(handler)
	slog.SetDefault(logger)

	// 2. Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	setLogLevel(cfg.LogLevel, logLevel)
	logger.Info("Configuration loaded successfully")

	// 3. Setup context for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// 4. Initialize application components
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	router, err := newRouter(cfg, metrics.New(reg), logger)
	if err != nil {
		return fmt.Errorf("failed to build router: %w", err)
	}

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// 5. Start the server in a separate goroutine
	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	// 6. Wait for shutdown signal
	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
		logger.Info("Shutdown signal received. Exiting.")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	logger.Info("Server exited properly")

	return nil
}

// newRouter wires the story fetcher strategy and the HTTP routes.
func newRouter(cfg *config.Config, m *metrics.Metrics, logger *slog.Logger) (http.Handler, error) {
	fetcher, err := newFetcher(cfg, m, logger)
	if err != nil {
		return nil, err
	}
	return api.NewRouter(fetcher, m, logger, api.Options{
		RequestTimeout: cfg.RequestTimeout,
		AllowedOrigins: cfg.CORSAllowedOrigins,
	}), nil
}

// newFetcher selects the story strategy once, from the configured token.
func newFetcher(cfg *config.Config, m *metrics.Metrics, logger *slog.Logger) (story.Fetcher, error) {
	if !cfg.HasToken() {
		logger.Warn("GITHUB_TOKEN is not set; story requests will be rejected until a token is configured")
		return story.Unavailable{}, nil
	}

	ghClient, err := github.NewClient(cfg.GithubToken, cfg.GithubAPIURL, cfg.GithubTimeout, logger)
	if err != nil {
		return nil, err
	}
	return story.NewLive(ghClient, activity.NewSynthetic(nil), m, logger, story.Options{
		RepoLimit:   cfg.RepoLimit,
		SampleSize:  cfg.LanguageSampleSize,
		Concurrency: cfg.LanguageFetchConcurrency,
	}), nil
}

func setLogLevel(level string, v *slog.LevelVar) {
	switch level {
	case "debug":
		v.Set(slog.LevelDebug)
	case "warn":
		v.Set(slog.LevelWarn)
	case "error":
		v.Set(slog.LevelError)
	default:
		v.Set(slog.LevelInfo)
	}
}
