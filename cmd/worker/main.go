package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/Mahmoudshahin94/webhook-event-service/internal/backup"
	"github.com/Mahmoudshahin94/webhook-event-service/internal/config"
	"github.com/Mahmoudshahin94/webhook-event-service/internal/logger"
	"github.com/Mahmoudshahin94/webhook-event-service/internal/processor"
	"github.com/Mahmoudshahin94/webhook-event-service/internal/queue/sqs"
	"github.com/Mahmoudshahin94/webhook-event-service/internal/store/postgres"
	"github.com/Mahmoudshahin94/webhook-event-service/internal/tasks"
	"github.com/Mahmoudshahin94/webhook-event-service/internal/worker"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Initialize logger
	log, err := logger.New(cfg.Service.Environment)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer func(log *zap.Logger) {
		err := log.Sync()
		if err != nil {
			log.Error("Failed to sync logger", zap.Error(err))
		}
	}(log)

	log.Info("Starting worker service",
		zap.String("environment", cfg.Service.Environment),
		zap.Int("concurrency", cfg.Worker.Concurrency))

	ctx := context.Background()

	// Initialize database client
	dbClient, err := postgres.NewClient(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to create database client", zap.Error(err))
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			log.Error("Failed to close database client", zap.Error(err))
		}
	}()

	// Initialize schema (create tables if not exist)
	if err := dbClient.InitSchema(ctx); err != nil {
		log.Fatal("Failed to initialize schema", zap.Error(err))
	}
	log.Info("Database schema initialized")

	// Initialize SQS client
	sqsClient, err := sqs.NewClient(ctx, cfg.SQS, log)
	if err != nil {
		log.Fatal("Failed to create SQS client", zap.Error(err))
	}

	// Initialize stores
	events := postgres.NewEventRepo(dbClient, log)
	processes := postgres.NewProcessRepo(dbClient, log)

	// Initialize event processor with source handlers. Sources without a
	// registered handler fall back to log-only processing.
	registry := processor.NewRegistry(log)
	proc := processor.New(events, registry, log)

	// Initialize task registry
	backupSvc := backup.NewGitHubService(processes, cfg.GitHub, log)
	taskRegistry := tasks.NewRegistry(proc, backupSvc, cfg, log)

	// Initialize worker
	w := worker.New(sqsClient, taskRegistry, cfg.Worker.Concurrency, log)

	// Start health check endpoint
	go func() {
		http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			if err := dbClient.Ping(r.Context()); err != nil {
				log.Warn("Health check failed", zap.Error(err))
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			w.WriteHeader(http.StatusOK)
		})

		addr := ":" + cfg.Worker.HealthCheckPort
		log.Info("Health check server starting", zap.String("address", addr))
		if err := http.ListenAndServe(addr, nil); err != nil {
			log.Error("Health check server error", zap.Error(err))
		}
	}()

	// Start worker
	workerCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	log.Info("Worker starting")

	go func() {
		if err := w.Start(workerCtx); err != nil {
			log.Fatal("Worker error", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Info("Shutting down worker gracefully")
	cancel()
}
