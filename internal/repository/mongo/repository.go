package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
	"go.uber.org/zap"

	"github.com/dollancemedia/vapegaurd/internal/domain"
	"github.com/dollancemedia/vapegaurd/internal/repository"
)

const (
	eventsCollection   = "events"
	feedbackCollection = "feedback"
)

// Repository implements repository.EventRepository and
// repository.FeedbackRepository backed by MongoDB
type Repository struct {
	client   *Client
	events   *mongo.Collection
	feedback *mongo.Collection
	log      *zap.Logger
}

// NewRepository creates a new MongoDB-backed repository
func NewRepository(client *Client, log *zap.Logger) *Repository {
	return &Repository{
		client:   client,
		events:   client.Database().Collection(eventsCollection),
		feedback: client.Database().Collection(feedbackCollection),
		log:      log,
	}
}

// parseEventID converts a wire-format id into an ObjectID. An id that does
// not parse cannot name a stored event, so it is reported as not found.
func parseEventID(id string) (bson.ObjectID, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return bson.ObjectID{}, fmt.Errorf("%w: invalid event id %q", domain.ErrNotFound, id)
	}
	return oid, nil
}

// InsertEvent stores a new event and fills in its assigned id
func (r *Repository) InsertEvent(ctx context.Context, event *domain.Event) error {
	result, err := r.events.InsertOne(ctx, event)
	if err != nil {
		r.log.Error("Failed to insert event",
			zap.String("device_id", event.DeviceID),
			zap.Error(err))
		return fmt.Errorf("%w: insert event: %v", domain.ErrStore, err)
	}

	oid, ok := result.InsertedID.(bson.ObjectID)
	if !ok {
		return fmt.Errorf("%w: unexpected inserted id type %T", domain.ErrStore, result.InsertedID)
	}
	event.ID = oid

	return nil
}

// FindEventByID returns the event or domain.ErrNotFound
func (r *Repository) FindEventByID(ctx context.Context, id string) (*domain.Event, error) {
	oid, err := parseEventID(id)
	if err != nil {
		return nil, err
	}

	var event domain.Event
	err = r.events.FindOne(ctx, bson.M{"_id": oid}).Decode(&event)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%w: event %s", domain.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: find event %s: %v", domain.ErrStore, id, err)
	}

	return &event, nil
}

// ListEvents returns events matching the query, descending by timestamp
func (r *Repository) ListEvents(ctx context.Context, query repository.EventQuery) ([]domain.Event, error) {
	filter := bson.M{}
	if query.Since != nil {
		filter["timestamp"] = bson.M{"$gt": *query.Since}
	}

	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	if query.Limit > 0 {
		opts.SetLimit(int64(query.Limit))
	}

	cursor, err := r.events.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: list events: %v", domain.ErrStore, err)
	}

	events := make([]domain.Event, 0)
	if err := cursor.All(ctx, &events); err != nil {
		return nil, fmt.Errorf("%w: decode events: %v", domain.ErrStore, err)
	}

	return events, nil
}

// SetVerified overwrites the verified flag and returns the updated event.
// The write sets an absolute value, so repeated or concurrent calls cannot
// race into an inconsistent state.
func (r *Repository) SetVerified(ctx context.Context, id string, verified bool) (*domain.Event, error) {
	oid, err := parseEventID(id)
	if err != nil {
		return nil, err
	}

	var event domain.Event
	err = r.events.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"verified": verified}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&event)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%w: event %s", domain.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: set verified on event %s: %v", domain.ErrStore, id, err)
	}

	return &event, nil
}

// AppendFeedbackID adds a feedback id to the event's feedback_ids
func (r *Repository) AppendFeedbackID(ctx context.Context, eventID string, feedbackID bson.ObjectID) error {
	oid, err := parseEventID(eventID)
	if err != nil {
		return err
	}

	result, err := r.events.UpdateByID(ctx, oid,
		bson.M{"$addToSet": bson.M{"feedback_ids": feedbackID}})
	if err != nil {
		return fmt.Errorf("%w: append feedback to event %s: %v", domain.ErrStore, eventID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: event %s", domain.ErrNotFound, eventID)
	}

	return nil
}

// CountEventsSince counts events with a timestamp at or after the instant
func (r *Repository) CountEventsSince(ctx context.Context, since time.Time) (int64, error) {
	count, err := r.events.CountDocuments(ctx, bson.M{"timestamp": bson.M{"$gte": since}})
	if err != nil {
		return 0, fmt.Errorf("%w: count events: %v", domain.ErrStore, err)
	}
	return count, nil
}

// deviceGroup is the decode target for one $group bucket
type deviceGroup struct {
	DeviceID       string       `bson:"_id"`
	TotalEvents    int64        `bson:"total_events"`
	RecentEvents   int64        `bson:"recent_events"`
	VerifiedEvents int64        `bson:"verified_events"`
	Latest         domain.Event `bson:"latest"`
}

// DeviceSummaries computes per-device aggregates in a single grouped pass
// keyed by device_id. The $sort before $group makes $first pick the newest
// event per device.
func (r *Repository) DeviceSummaries(ctx context.Context, recentSince time.Time) ([]domain.DeviceSummary, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$sort", Value: bson.D{{Key: "timestamp", Value: -1}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$device_id"},
			{Key: "total_events", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "recent_events", Value: bson.D{{Key: "$sum", Value: bson.D{
				{Key: "$cond", Value: bson.A{
					bson.D{{Key: "$gte", Value: bson.A{"$timestamp", recentSince}}}, 1, 0,
				}},
			}}}},
			{Key: "verified_events", Value: bson.D{{Key: "$sum", Value: bson.D{
				{Key: "$cond", Value: bson.A{"$verified", 1, 0}},
			}}}},
			{Key: "latest", Value: bson.D{{Key: "$first", Value: "$$ROOT"}}},
		}}},
	}

	cursor, err := r.events.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("%w: aggregate device summaries: %v", domain.ErrStore, err)
	}

	var groups []deviceGroup
	if err := cursor.All(ctx, &groups); err != nil {
		return nil, fmt.Errorf("%w: decode device summaries: %v", domain.ErrStore, err)
	}

	summaries := make([]domain.DeviceSummary, 0, len(groups))
	for _, g := range groups {
		if g.DeviceID == "" {
			continue
		}
		latest := g.Latest
		lastSeen := latest.Timestamp
		summaries = append(summaries, domain.DeviceSummary{
			DeviceID:       g.DeviceID,
			TotalEvents:    g.TotalEvents,
			RecentEvents:   g.RecentEvents,
			VerifiedEvents: g.VerifiedEvents,
			LastSeen:       &lastSeen,
			LastLocation:   latest.Location,
			LatestEvent:    &latest,
		})
	}

	return summaries, nil
}

// Ping checks if the store connection is alive
func (r *Repository) Ping(ctx context.Context) error {
	if err := r.client.client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("%w: ping: %v", domain.ErrStore, err)
	}
	return nil
}

// InsertFeedback stores a new feedback document and fills in its id
func (r *Repository) InsertFeedback(ctx context.Context, feedback *domain.Feedback) error {
	result, err := r.feedback.InsertOne(ctx, feedback)
	if err != nil {
		r.log.Error("Failed to insert feedback",
			zap.String("event_id", feedback.EventID.Hex()),
			zap.Error(err))
		return fmt.Errorf("%w: insert feedback: %v", domain.ErrStore, err)
	}

	oid, ok := result.InsertedID.(bson.ObjectID)
	if !ok {
		return fmt.Errorf("%w: unexpected inserted id type %T", domain.ErrStore, result.InsertedID)
	}
	feedback.ID = oid

	return nil
}

// DeleteFeedback removes a feedback document
func (r *Repository) DeleteFeedback(ctx context.Context, id bson.ObjectID) error {
	if _, err := r.feedback.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("%w: delete feedback %s: %v", domain.ErrStore, id.Hex(), err)
	}
	return nil
}
