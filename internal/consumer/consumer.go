package consumer

import (
	"context"
	"sync"

	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"go.uber.org/zap"

	"github.com/dollancemedia/vapegaurd/internal/config"
	"github.com/dollancemedia/vapegaurd/internal/queue"
)

// Consumer orchestrates a pipeline of stages that ingest queued readings
type Consumer struct {
	receiver    *Receiver
	parser      *ParserStage
	ingestStage *IngestStage
}

// NewConsumer creates a new consumer with a pipeline architecture
func NewConsumer(cfg *config.Config, queueConsumer queue.QueueConsumer, ingestor ReadingIngestor, log *zap.Logger) *Consumer {
	receiver := NewReceiver(queueConsumer, ReceiverConfig{
		MaxMessages:     10,
		WaitTimeSeconds: 20,
	}, log)

	parser := NewParserStage(queueConsumer, NewJSONReadingParser(), log)

	ingestStage := NewIngestStage(ingestor, cfg.Consumer.Workers, log)

	return &Consumer{
		receiver:    receiver,
		parser:      parser,
		ingestStage: ingestStage,
	}
}

// Start begins the consumer pipeline
func (c *Consumer) Start(ctx context.Context) error {
	messageChan := make(chan types.Message, 100)
	envelopeChan := make(chan *Envelope, 100)

	var wg sync.WaitGroup
	wg.Add(3)

	go func() {
		defer wg.Done()
		c.receiver.Start(ctx, messageChan)
	}()

	go func() {
		defer wg.Done()
		c.parser.Start(ctx, messageChan, envelopeChan)
	}()

	go func() {
		defer wg.Done()
		c.ingestStage.Start(ctx, envelopeChan)
	}()

	wg.Wait()
	return nil
}
