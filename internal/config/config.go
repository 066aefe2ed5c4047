package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Service holds process-level settings
type Service struct {
	Environment string `envconfig:"SERVICE_ENVIRONMENT" required:"true"`
	APIPort     string `envconfig:"SERVICE_API_PORT" default:"8080"`
	Host        string `envconfig:"SERVICE_HOST" default:"localhost:8080"`
}

// Mongo holds event store settings
type Mongo struct {
	URI        string `envconfig:"MONGODB_URI" required:"true"`
	Database   string `envconfig:"MONGODB_DATABASE" default:"vapeDB"`
	TimeoutSec int    `envconfig:"MONGODB_TIMEOUT_SEC" default:"10"`
}

// Classifier holds model artifact settings. The ONNX runtime shared library
// is expected alongside the model unless overridden.
type Classifier struct {
	ModelPath   string `envconfig:"CLASSIFIER_MODEL_PATH" required:"true"`
	RuntimePath string `envconfig:"CLASSIFIER_RUNTIME_PATH" default:""`
}

// SQS holds queue settings. ReadingsQueueURL feeds the consumer binary;
// AlertsQueueURL, when set, receives anomaly alerts from the API.
type SQS struct {
	Endpoint         string `envconfig:"SQS_ENDPOINT"`
	Region           string `envconfig:"SQS_REGION" default:"eu-central-1"`
	ReadingsQueueURL string `envconfig:"SQS_READINGS_QUEUE_URL"`
	AlertsQueueURL   string `envconfig:"SQS_ALERTS_QUEUE_URL"`
}

// Alerts holds anomaly notification settings
type Alerts struct {
	// MinConfidence gates queue alerts; websocket push is unconditional.
	MinConfidence float64 `envconfig:"ALERTS_MIN_CONFIDENCE" default:"0.7"`
}

// Consumer holds settings for the queue ingestion worker
type Consumer struct {
	Workers         int    `envconfig:"CONSUMER_WORKERS" default:"4"`
	HealthCheckPort string `envconfig:"CONSUMER_HEALTH_CHECK_PORT" default:"8081"`
}

type Config struct {
	Service    Service
	Mongo      Mongo
	Classifier Classifier
	SQS        SQS
	Alerts     Alerts
	Consumer   Consumer
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
