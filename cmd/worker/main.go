// Package main implements the entry point for the taskfleet email worker,
// which consumes notification jobs enqueued by the API server and delivers
// the corresponding emails over SMTP.
package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/taskfleet/taskfleet/internal/config"
	"github.com/taskfleet/taskfleet/internal/platform/logger"
	"github.com/taskfleet/taskfleet/internal/worker"
)

func main() {
	_ = godotenv.Load()

	if err := run(); err != nil {
		log.Fatalf("worker failed: %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	workerLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	mailer := worker.NewSMTPMailer(cfg.SMTP)
	w, err := worker.New(cfg, mailer, workerLogger)
	if err != nil {
		return fmt.Errorf("failed to create worker: %w", err)
	}

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-shutdownCh
		workerLogger.Info("shutting down worker...")
		w.Shutdown()
	}()

	workerLogger.Info("worker starting",
		slog.String("redis_addr", cfg.Redis.Addr),
		slog.Int("concurrency", cfg.Worker.Concurrency))

	return w.Run()
}
