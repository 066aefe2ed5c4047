package service

import (
	"context"

	"github.com/dollancemedia/vapegaurd/internal/domain"
	"github.com/dollancemedia/vapegaurd/internal/dto"
)

// EventServicer defines the interface for event service operations
type EventServicer interface {
	IngestReading(ctx context.Context, reading *dto.SensorReadingRequest) (*domain.Event, error)
	ListEvents(ctx context.Context, query *dto.ListEventsQuery) ([]domain.Event, error)
	GetEvent(ctx context.Context, id string) (*domain.Event, error)
	SetVerified(ctx context.Context, id string, verified bool) (*domain.Event, error)
	AttachFeedback(ctx context.Context, id string, data map[string]any) (*domain.Feedback, error)
	DeviceSummaries(ctx context.Context) ([]domain.DeviceSummary, error)
	SensorStatus(ctx context.Context) (*dto.SensorStatusResponse, error)
}

// EventBroadcaster pushes stored events to live dashboard connections
type EventBroadcaster interface {
	BroadcastEvent(event *domain.Event)
}
