package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
	"go.uber.org/zap"

	"github.com/dollancemedia/vapegaurd/internal/config"
)

// Client wraps the MongoDB connection
type Client struct {
	client   *mongo.Client
	database *mongo.Database
	config   *config.Mongo
	log      *zap.Logger
}

// NewClient creates a new MongoDB client with the given configuration
func NewClient(ctx context.Context, config *config.Mongo, log *zap.Logger) (*Client, error) {
	log.Info("Connecting to MongoDB",
		zap.String("database", config.Database),
		zap.Int("timeout_sec", config.TimeoutSec))

	opts := options.Client().
		ApplyURI(config.URI).
		SetTimeout(time.Duration(config.TimeoutSec) * time.Second)

	client, err := mongo.Connect(opts)
	if err != nil {
		log.Error("Failed to connect to MongoDB", zap.Error(err))
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	// Verify connection
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		log.Error("Failed to ping MongoDB", zap.Error(err))
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	log.Info("MongoDB connection established successfully")

	return &Client{
		client:   client,
		database: client.Database(config.Database),
		config:   config,
		log:      log,
	}, nil
}

// Database returns the configured database handle
func (c *Client) Database() *mongo.Database {
	return c.database
}

// Close disconnects the MongoDB client
func (c *Client) Close(ctx context.Context) error {
	c.log.Info("Closing MongoDB connection")
	if err := c.client.Disconnect(ctx); err != nil {
		c.log.Error("Error closing MongoDB connection", zap.Error(err))
		return err
	}
	c.log.Info("MongoDB connection closed successfully")
	return nil
}
