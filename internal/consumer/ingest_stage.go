package consumer

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/dollancemedia/vapegaurd/internal/domain"
)

// IngestStage runs parsed readings through the ingestion service. Readings
// are classified and stored one at a time; classification must complete
// before the insert that carries its result, so there is nothing to batch.
type IngestStage struct {
	ingestor ReadingIngestor
	workers  int
	log      *zap.Logger
}

// NewIngestStage creates a new ingest stage with the given worker count
func NewIngestStage(ingestor ReadingIngestor, workers int, log *zap.Logger) *IngestStage {
	if workers < 1 {
		workers = 1
	}
	return &IngestStage{
		ingestor: ingestor,
		workers:  workers,
		log:      log,
	}
}

// Start consumes envelopes until the input channel closes. Readings are
// independent, so workers need no cross-coordination.
func (s *IngestStage) Start(ctx context.Context, in <-chan *Envelope) {
	var wg sync.WaitGroup
	wg.Add(s.workers)

	for i := 0; i < s.workers; i++ {
		go func() {
			defer wg.Done()
			for envelope := range in {
				s.process(ctx, envelope)
			}
		}()
	}

	wg.Wait()
	s.log.Info("Ingest stage shut down")
}

// process ingests one reading and resolves its acknowledgment. Validation
// failures ack the message: redelivery cannot repair a bad reading.
// Classifier and store failures nack it for redelivery.
func (s *IngestStage) process(ctx context.Context, envelope *Envelope) {
	event, err := s.ingestor.IngestReading(ctx, envelope.Reading)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			s.log.Warn("Dropping invalid reading",
				zap.String("device_id", envelope.Reading.DeviceID),
				zap.Error(err))
			if ackErr := envelope.Ack(ctx); ackErr != nil {
				s.log.Error("Failed to ack invalid reading", zap.Error(ackErr))
			}
			return
		}

		s.log.Error("Failed to ingest reading, leaving for redelivery",
			zap.String("device_id", envelope.Reading.DeviceID),
			zap.Error(err))
		if nackErr := envelope.Nack(ctx); nackErr != nil {
			s.log.Error("Failed to nack reading", zap.Error(nackErr))
		}
		return
	}

	if err := envelope.Ack(ctx); err != nil {
		// The event is stored; a failed delete means the reading may be
		// redelivered and stored again. At-least-once on this path.
		s.log.Error("Failed to ack ingested reading",
			zap.String("event_id", event.ID.Hex()),
			zap.Error(err))
	}
}
