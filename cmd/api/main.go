package main

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/Mahmoudshahin94/webhook-event-service/internal/config"
	"github.com/Mahmoudshahin94/webhook-event-service/internal/handler"
	"github.com/Mahmoudshahin94/webhook-event-service/internal/logger"
	"github.com/Mahmoudshahin94/webhook-event-service/internal/queue/sqs"
	"github.com/Mahmoudshahin94/webhook-event-service/internal/service"
	"github.com/Mahmoudshahin94/webhook-event-service/internal/store/postgres"
)

func main() {
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

	log.Info("Starting API service",
		zap.String("environment", cfg.Service.Environment),
		zap.String("port", cfg.Service.APIPort))

	ctx := context.Background()

	// Initialize SQS client
	sqsClient, err := sqs.NewClient(ctx, cfg.SQS, log)
	if err != nil {
		log.Fatal("Failed to create SQS client", zap.Error(err))
	}

	// Initialize database client
	dbClient, err := postgres.NewClient(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to create database client", zap.Error(err))
	}
	defer func(dbClient *postgres.Client) {
		if err := dbClient.Close(); err != nil {
			log.Error("Failed to close database client", zap.Error(err))
		}
	}(dbClient)

	// Initialize event store
	events := postgres.NewEventRepo(dbClient, log)

	// Initialize webhook service
	webhookService := service.NewWebhookService(events, sqsClient, log)

	// Initialize handler
	h := handler.NewHandler(webhookService, log)

	addr := fmt.Sprintf(":%s", cfg.Service.APIPort)
	log.Info("API server starting", zap.String("address", addr))

	if err := http.ListenAndServe(addr, h); err != nil {
		log.Fatal("Failed to start API server", zap.Error(err))
	}
}
