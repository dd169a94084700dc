package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"ArticleFeed/internal/app"
	"ArticleFeed/internal/config"
	"ArticleFeed/internal/logging"
	"ArticleFeed/pkg/logger"
)

func main() {
	boot := logger.New("articlefeed")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	slogger := logging.New(cfg.Logging.Level)

	application, err := app.New(cfg, slogger)
	if err != nil {
		boot.Printf("startup failed: %v", err)
		os.Exit(1)
	}

	if err := application.Run(ctx); err != nil {
		slogger.Error("application stopped", "error", err)
		os.Exit(1)
	}
}
