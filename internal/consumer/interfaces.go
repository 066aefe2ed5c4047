package consumer

import (
	"context"

	"github.com/dollancemedia/vapegaurd/internal/domain"
	"github.com/dollancemedia/vapegaurd/internal/dto"
)

// ReadingParser defines the interface for parsing raw message bytes into a
// sensor reading
type ReadingParser interface {
	Parse(body []byte) (*dto.SensorReadingRequest, error)
}

// ReadingIngestor is the slice of the event service the pipeline needs
type ReadingIngestor interface {
	IngestReading(ctx context.Context, reading *dto.SensorReadingRequest) (*domain.Event, error)
}
