package main

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/dollancemedia/vapegaurd/docs"
	"github.com/dollancemedia/vapegaurd/internal/classifier"
	"github.com/dollancemedia/vapegaurd/internal/config"
	"github.com/dollancemedia/vapegaurd/internal/handler"
	"github.com/dollancemedia/vapegaurd/internal/logger"
	"github.com/dollancemedia/vapegaurd/internal/queue"
	"github.com/dollancemedia/vapegaurd/internal/queue/sqs"
	mongorepo "github.com/dollancemedia/vapegaurd/internal/repository/mongo"
	"github.com/dollancemedia/vapegaurd/internal/service"
	"github.com/dollancemedia/vapegaurd/internal/ws"
)

// @title Vape/Fire Detection API
// @version 1.0
// @description API for ingesting, classifying, and reviewing environmental sensor events
// @host localhost:8080
// @BasePath /
// @schemes http https
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

	// Configure Swagger host dynamically
	docs.SwaggerInfo.Host = cfg.Service.Host

	ctx := context.Background()

	// Load the classifier once; it is shared read-only for the process
	// lifetime with no reload path.
	clf, err := classifier.NewONNXClassifier(cfg.Classifier.ModelPath, cfg.Classifier.RuntimePath)
	if err != nil {
		log.Fatal("Failed to load classifier", zap.Error(err))
	}
	defer func() {
		if err := clf.Close(); err != nil {
			log.Error("Failed to close classifier", zap.Error(err))
		}
	}()

	// Initialize MongoDB client
	mongoClient, err := mongorepo.NewClient(ctx, &cfg.Mongo, log)
	if err != nil {
		log.Fatal("Failed to create MongoDB client", zap.Error(err))
	}
	defer func() {
		if err := mongoClient.Close(ctx); err != nil {
			log.Error("Failed to close MongoDB client", zap.Error(err))
		}
	}()

	// Initialize repository
	repo := mongorepo.NewRepository(mongoClient, log)

	// Initialize the optional alert publisher
	var alerts queue.AlertPublisher
	if cfg.SQS.AlertsQueueURL != "" {
		sqsClient, err := sqs.NewClient(ctx, cfg.SQS, log)
		if err != nil {
			log.Fatal("Failed to create SQS client", zap.Error(err))
		}
		alerts = sqsClient
	} else {
		log.Info("Alerts queue not configured, queue alerts disabled")
	}

	// Initialize the websocket hub
	hubCtx, cancelHub := context.WithCancel(ctx)
	defer cancelHub()
	hub := ws.NewHub(log)
	go hub.Run(hubCtx)

	// Initialize event service
	eventService := service.NewEventService(clf, repo, repo, alerts, hub, cfg.Alerts.MinConfidence, log)

	// Initialize handler
	h := handler.NewHandler(eventService, hub, log)

	addr := fmt.Sprintf(":%s", cfg.Service.APIPort)
	log.Info("API server starting", zap.String("address", addr))

	if err := http.ListenAndServe(addr, h); err != nil {
		log.Fatal("Failed to start API server", zap.Error(err))
	}
}
