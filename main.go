package main

import (
	"context"
	"flag"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"iotview/auth"
	"iotview/config"
	"iotview/gateway"
	"iotview/handlers"
	"iotview/logging"
	"iotview/session"
	"iotview/tui"
)

func main() {
	web := flag.Bool("web", false, "run the web front-end instead of the terminal UI")
	flag.Parse()

	// Load configuration
	cfg := config.LoadConfig()

	logger, closeLog := newLogger(cfg, *web)
	defer closeLog()

	// Initialize session token storage
	store, closeStore, err := newSessionStore(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize session store: %v", err)
	}
	defer closeStore()

	gw := gateway.NewClient(cfg, store, logger)
	authController := auth.NewController(gw, store, cfg.SessionMinutes, logger)

	if *web {
		runWeb(cfg, authController, gw, logger)
		return
	}

	if err := tui.Run(cfg, authController, gw, logger); err != nil {
		log.Fatalf("Terminal UI failed: %v", err)
	}
}

// newLogger routes log records away from stdout in terminal mode, where
// the UI owns the screen.
func newLogger(cfg *config.Config, web bool) (*slog.Logger, func()) {
	if web {
		return logging.NewLogger(cfg.LogLevel), func() {}
	}
	if cfg.LogFile == "" {
		return logging.NewLoggerTo(io.Discard, cfg.LogLevel), func() {}
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		log.Printf("Warning: cannot open log file %s: %v", cfg.LogFile, err)
		return logging.NewLoggerTo(io.Discard, cfg.LogLevel), func() {}
	}
	return logging.NewLoggerTo(f, cfg.LogLevel), func() { f.Close() }
}

func newSessionStore(cfg *config.Config) (session.Store, func(), error) {
	if cfg.SessionStore == "redis" {
		store, err := session.NewRedisStore(cfg)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { store.Close() }, nil
	}
	return session.NewFileStore(cfg.SessionFile), func() {}, nil
}

func runWeb(cfg *config.Config, authController *auth.Controller, gw *gateway.Client, logger *slog.Logger) {
	registry := handlers.NewRegistry(cfg.WindowSize, logger)
	apiHandler := handlers.NewAPIHandler(authController, gw, registry)
	server := handlers.NewServer(cfg, apiHandler, registry, logger)

	// Start server in goroutine
	go func() {
		if err := server.Start(); err != nil {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("HTTP server shutdown error", slog.Any("error", err))
	}

	logger.Info("server stopped")
}
