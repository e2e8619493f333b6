package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/giygas/disease-dashboard/completion"
	"github.com/giygas/disease-dashboard/config"
	"github.com/giygas/disease-dashboard/data"
	"github.com/giygas/disease-dashboard/handlers"
	"github.com/giygas/disease-dashboard/health"
	"github.com/giygas/disease-dashboard/interfaces"
	"github.com/giygas/disease-dashboard/logging"
	"github.com/giygas/disease-dashboard/pipeline"
	"github.com/giygas/disease-dashboard/scheduler"
	"github.com/giygas/disease-dashboard/server"
)

func loadEnvFile() {
	// Get the working directory and read the env variables
	if err := godotenv.Load(); err == nil {
		return
	}

	// If failed, try loading from executable directory
	ex, err := os.Executable()
	if err != nil {
		slog.Warn("Failed to get executable path", "error", err)
		return
	}
	if err := godotenv.Load(filepath.Join(filepath.Dir(ex), ".env")); err != nil {
		slog.Info("No .env file found, using process environment")
	}
}

func newCompleter(cfg *config.Config) interfaces.Completer {
	client, err := completion.NewClient(completion.Config{
		APIKey:  cfg.APIKey,
		Model:   cfg.Model,
		BaseURL: cfg.BaseURL,
	})
	if errors.Is(err, completion.ErrMissingAPIKey) {
		logging.Warn("OPENAI_API_KEY is not set, every submission will fail")
		return completion.Unconfigured()
	}
	if err != nil {
		logging.Fatal("Failed to create completion client", "error", err)
	}

	logging.Info("Completion client ready", "model", client.Model(), "base_url", cfg.BaseURL)
	return client
}

func main() {
	loadEnvFile()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.InitLoggerWithOptions(cfg.LogDir, logging.Options{
		Env:            cfg.Env,
		Level:          cfg.LogLevel,
		RetentionWeeks: cfg.LogRetentionWeeks,
		MaxFileSize:    cfg.MaxLogFileSize,
	})
	defer func() {
		_ = logging.Close()
	}()

	stats := data.NewDataContainer()
	stats.SetServerStartTime(time.Now())
	stats.SetCompletionConfigured(cfg.APIKey != "")

	handler := handlers.NewHTTPHandler(
		pipeline.New(newCompleter(cfg)),
		stats,
		health.NewHealthChecker(stats),
	)

	jobs := scheduler.NewScheduler(stats)
	if err := jobs.Start(); err != nil {
		logging.Fatal("Failed to start scheduler", "error", err)
	}
	defer jobs.Stop()

	srv := server.NewServer(cfg, handler)

	// Channel to listen for interrupt signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Start the server in a goroutine
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal("Server failed to start", "error", err)
		}
	}()

	// Block until a signal is received
	<-quit

	// Create a context with timeout for shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logging.Error("Server shutdown failed", "error", err)
	}
}
