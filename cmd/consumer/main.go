package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/dollancemedia/vapegaurd/internal/classifier"
	"github.com/dollancemedia/vapegaurd/internal/config"
	"github.com/dollancemedia/vapegaurd/internal/consumer"
	"github.com/dollancemedia/vapegaurd/internal/logger"
	"github.com/dollancemedia/vapegaurd/internal/queue/sqs"
	mongorepo "github.com/dollancemedia/vapegaurd/internal/repository/mongo"
	"github.com/dollancemedia/vapegaurd/internal/service"
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

	log.Info("Starting reading consumer",
		zap.String("environment", cfg.Service.Environment))

	if cfg.SQS.ReadingsQueueURL == "" {
		log.Fatal("SQS_READINGS_QUEUE_URL is required for the consumer")
	}

	ctx := context.Background()

	// Load the classifier; queued readings are classified with the same
	// model as HTTP ingestion.
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

	// Initialize SQS client
	sqsClient, err := sqs.NewClient(ctx, cfg.SQS, log)
	if err != nil {
		log.Fatal("Failed to create SQS client", zap.Error(err))
	}

	// The consumer ingests directly; queue alerts and websocket push are the
	// API process's concern.
	eventService := service.NewEventService(clf, repo, repo, nil, nil, cfg.Alerts.MinConfidence, log)

	// Initialize consumer
	c := consumer.NewConsumer(cfg, sqsClient, eventService, log)

	// Start health check endpoint
	go func() {
		http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			if err := repo.Ping(r.Context()); err != nil {
				log.Warn("Health check failed", zap.Error(err))
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			w.WriteHeader(http.StatusOK)
		})

		addr := ":" + cfg.Consumer.HealthCheckPort
		log.Info("Health check server starting", zap.String("address", addr))
		if err := http.ListenAndServe(addr, nil); err != nil {
			log.Error("Health check server error", zap.Error(err))
		}
	}()

	// Start consumer
	consumerCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	log.Info("Consumer starting")

	go func() {
		if err := c.Start(consumerCtx); err != nil {
			log.Fatal("Consumer error", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Info("Shutting down consumer gracefully")
	cancel()
}
