package consumer

import (
	"context"

	"github.com/dollancemedia/vapegaurd/internal/dto"
)

// Envelope wraps a parsed sensor reading with acknowledgment callbacks
type Envelope struct {
	Reading *dto.SensorReadingRequest
	ack     func(context.Context) error
	nack    func(context.Context) error
}

// NewEnvelope creates a new message envelope
func NewEnvelope(reading *dto.SensorReadingRequest, ack, nack func(context.Context) error) *Envelope {
	return &Envelope{
		Reading: reading,
		ack:     ack,
		nack:    nack,
	}
}

// Ack acknowledges successful processing
func (e *Envelope) Ack(ctx context.Context) error {
	if e.ack != nil {
		return e.ack(ctx)
	}
	return nil
}

// Nack negatively acknowledges processing
func (e *Envelope) Nack(ctx context.Context) error {
	if e.nack != nil {
		return e.nack(ctx)
	}
	return nil
}
