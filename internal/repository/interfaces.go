package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/dollancemedia/vapegaurd/internal/domain"
)

// EventQuery represents a filtered, sorted, limited event scan. Events are
// always returned most recent first.
type EventQuery struct {
	Since *time.Time
	Limit int
}

// EventRepository defines the interface for event storage operations
type EventRepository interface {
	// InsertEvent stores a new event and fills in its assigned id
	InsertEvent(ctx context.Context, event *domain.Event) error

	// FindEventByID returns the event or domain.ErrNotFound
	FindEventByID(ctx context.Context, id string) (*domain.Event, error)

	// ListEvents returns events matching the query, descending by timestamp
	ListEvents(ctx context.Context, query EventQuery) ([]domain.Event, error)

	// SetVerified overwrites the verified flag and returns the updated event
	SetVerified(ctx context.Context, id string, verified bool) (*domain.Event, error)

	// AppendFeedbackID adds a feedback id to the event's feedback_ids as a
	// set-add, so concurrent appends cannot lose updates
	AppendFeedbackID(ctx context.Context, eventID string, feedbackID bson.ObjectID) error

	// CountEventsSince counts events with a timestamp at or after the instant
	CountEventsSince(ctx context.Context, since time.Time) (int64, error)

	// DeviceSummaries computes per-device aggregates in a single grouped
	// pass; recentSince bounds the recent-events window
	DeviceSummaries(ctx context.Context, recentSince time.Time) ([]domain.DeviceSummary, error)

	// Ping checks if the store connection is alive
	Ping(ctx context.Context) error
}

// FeedbackRepository defines the interface for feedback storage operations
type FeedbackRepository interface {
	// InsertFeedback stores a new feedback document and fills in its id
	InsertFeedback(ctx context.Context, feedback *domain.Feedback) error

	// DeleteFeedback removes a feedback document. Used only to compensate a
	// failed event link; there is no caller-facing deletion path.
	DeleteFeedback(ctx context.Context, id bson.ObjectID) error
}
