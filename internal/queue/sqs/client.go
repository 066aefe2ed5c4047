package sqs

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"go.uber.org/zap"

	envConfig "github.com/dollancemedia/vapegaurd/internal/config"
	"github.com/dollancemedia/vapegaurd/internal/domain"
)

// Client represents an SQS client serving two queues: the inbound raw
// readings queue and the outbound anomaly alerts queue.
type Client struct {
	client *sqs.Client
	config envConfig.SQS
	log    *zap.Logger
}

// NewClient creates a new SQS client
func NewClient(ctx context.Context, SQSConfig envConfig.SQS, log *zap.Logger) (*Client, error) {
	configOpts := []func(*config.LoadOptions) error{
		config.WithRegion(SQSConfig.Region),
	}

	var clientOpts []func(*sqs.Options)

	// Configure for local development with ElasticMQ
	if SQSConfig.Endpoint != "" {
		log.Info("Configuring SQS for local development",
			zap.String("endpoint", SQSConfig.Endpoint))
		configOpts = append(configOpts,
			config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider("dummy", "dummy", "")))

		clientOpts = append(clientOpts, func(o *sqs.Options) {
			o.BaseEndpoint = aws.String(SQSConfig.Endpoint)
		})
	}

	cfg, err := config.LoadDefaultConfig(ctx, configOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	sqsClient := sqs.NewFromConfig(cfg, clientOpts...)

	log.Info("SQS client created",
		zap.String("region", SQSConfig.Region),
		zap.String("readings_queue_url", SQSConfig.ReadingsQueueURL),
		zap.String("alerts_queue_url", SQSConfig.AlertsQueueURL))

	return &Client{
		client: sqsClient,
		config: SQSConfig,
		log:    log,
	}, nil
}

// ReceiveMessages receives messages from the readings queue
func (c *Client) ReceiveMessages(ctx context.Context, input *sqs.ReceiveMessageInput) (*sqs.ReceiveMessageOutput, error) {
	return c.client.ReceiveMessage(ctx, input)
}

// DeleteMessage deletes a message from the readings queue
func (c *Client) DeleteMessage(ctx context.Context, input *sqs.DeleteMessageInput) (*sqs.DeleteMessageOutput, error) {
	return c.client.DeleteMessage(ctx, input)
}

// ReadingsQueueURL returns the configured inbound queue URL
func (c *Client) ReadingsQueueURL() string {
	return c.config.ReadingsQueueURL
}

// PublishAlert publishes a stored anomalous event to the alerts queue for
// downstream notification fan-out.
func (c *Client) PublishAlert(ctx context.Context, event *domain.Event) error {
	bodyJSON, err := json.Marshal(event)
	if err != nil {
		c.log.Error("Failed to marshal alert",
			zap.String("event_id", event.ID.Hex()),
			zap.Error(err))
		return fmt.Errorf("failed to marshal alert: %w", err)
	}

	_, err = c.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(c.config.AlertsQueueURL),
		MessageBody: aws.String(string(bodyJSON)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"PredictedType": {
				DataType:    aws.String("String"),
				StringValue: aws.String(event.PredictedType),
			},
			"DeviceId": {
				DataType:    aws.String("String"),
				StringValue: aws.String(event.DeviceID),
			},
		},
	})
	if err != nil {
		c.log.Error("Failed to send alert to SQS",
			zap.String("event_id", event.ID.Hex()),
			zap.String("device_id", event.DeviceID),
			zap.Error(err))
		return fmt.Errorf("failed to send alert to SQS: %w", err)
	}

	c.log.Info("Alert published to SQS",
		zap.String("event_id", event.ID.Hex()),
		zap.String("device_id", event.DeviceID),
		zap.Float64("confidence", event.Confidence))

	return nil
}
