package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tendant/content-blocks/pkg/contentblocks/api"
	"github.com/tendant/content-blocks/pkg/contentblocks/config"
)

func main() {
	// Load configuration from environment
	serverConfig, err := config.Load(config.WithEnv())
	if err != nil {
		slog.Error("Failed to load server configuration", "err", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: serverConfig.SlogLevel()}))
	slog.SetDefault(logger)

	logger.Info("Database url resolved", "database", serverConfig.DatabaseLabel(), "type", serverConfig.DatabaseType)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	svc, cleanup, err := serverConfig.BuildService(ctx, logger)
	cancel()
	if err != nil {
		logger.Error("Failed to build service", "err", err)
		os.Exit(1)
	}

	var pages = os.DirFS(serverConfig.PagesDir)
	if _, err := os.Stat(serverConfig.PagesDir); err != nil {
		logger.Warn("Pages directory unavailable, page routes disabled", "dir", serverConfig.PagesDir, "err", err)
		pages = nil
	}

	handler := api.NewRouter(svc, api.RouterConfig{
		Logger:         logger,
		AdminIPs:       serverConfig.AdminIPs,
		Pages:          pages,
		DatabaseLabel:  serverConfig.DatabaseType,
		RequestTimeout: serverConfig.RequestTimeout,
	})

	httpServer := &http.Server{
		Addr:    serverConfig.Addr(),
		Handler: handler,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Content server starting", "addr", serverConfig.Addr(), "host", serverConfig.Host, "env", serverConfig.Environment)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server error", "err", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "err", err)
	}
	if err := cleanup(shutdownCtx); err != nil {
		logger.Error("Failed to close database", "err", err)
	}

	logger.Info("Server exiting")
}
