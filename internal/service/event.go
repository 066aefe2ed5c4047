package service

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"

	"github.com/dollancemedia/vapegaurd/internal/classifier"
	"github.com/dollancemedia/vapegaurd/internal/domain"
	"github.com/dollancemedia/vapegaurd/internal/dto"
	"github.com/dollancemedia/vapegaurd/internal/metrics"
	"github.com/dollancemedia/vapegaurd/internal/queue"
	"github.com/dollancemedia/vapegaurd/internal/repository"
)

const (
	statusWindow = time.Hour
	recentWindow = 24 * time.Hour

	defaultListLimit = 50
)

// EventService implements the ingestion, lifecycle, and aggregation
// operations over the event store.
type EventService struct {
	classifier          classifier.Classifier
	events              repository.EventRepository
	feedback            repository.FeedbackRepository
	alerts              queue.AlertPublisher
	broadcaster         EventBroadcaster
	alertsMinConfidence float64
	log                 *zap.Logger
}

// NewEventService creates a new event service. alerts and broadcaster are
// optional; when nil the corresponding notification path is disabled.
func NewEventService(
	clf classifier.Classifier,
	events repository.EventRepository,
	feedback repository.FeedbackRepository,
	alerts queue.AlertPublisher,
	broadcaster EventBroadcaster,
	alertsMinConfidence float64,
	log *zap.Logger,
) *EventService {
	return &EventService{
		classifier:          clf,
		events:              events,
		feedback:            feedback,
		alerts:              alerts,
		broadcaster:         broadcaster,
		alertsMinConfidence: alertsMinConfidence,
		log:                 log,
	}
}

// IngestReading normalizes a raw reading, classifies it, and stores the
// resulting event. Classification happens exactly once, before the insert;
// a reading is never stored without a valid classification.
func (s *EventService) IngestReading(ctx context.Context, reading *dto.SensorReadingRequest) (*domain.Event, error) {
	features, err := requiredFeatures(reading)
	if err != nil {
		s.log.Warn("Rejected reading with missing features",
			zap.String("device_id", reading.DeviceID),
			zap.Error(err))
		return nil, err
	}

	deviceID := reading.DeviceID
	if deviceID == "" {
		deviceID = domain.DeviceUnknown
	}

	timestamp := time.Now().UTC()
	if reading.Timestamp != nil {
		timestamp = reading.Timestamp.UTC()
	}

	start := time.Now()
	probability, err := s.classifier.Predict(ctx, features)
	metrics.ClassifyDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ClassifierFailures.Inc()
		s.log.Error("Classification failed",
			zap.String("device_id", deviceID),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %v", domain.ErrClassifier, err)
	}

	event := &domain.Event{
		DeviceID:      deviceID,
		Timestamp:     timestamp,
		Humidity:      *reading.Humidity,
		PM25:          *reading.PM25,
		ParticleSize:  *reading.ParticleSize,
		VolumeSpike:   *reading.VolumeSpike,
		Location:      reading.Location,
		PredictedType: domain.LabelForProbability(probability),
		// Confidence is always P(anomalous), even when the label is normal.
		Confidence:  probability,
		Verified:    false,
		FeedbackIDs: []bson.ObjectID{},
	}

	if err := s.events.InsertEvent(ctx, event); err != nil {
		metrics.StoreFailures.Inc()
		return nil, err
	}

	metrics.EventsIngested.WithLabelValues(event.PredictedType).Inc()

	s.log.Info("Event stored",
		zap.String("event_id", event.ID.Hex()),
		zap.String("device_id", event.DeviceID),
		zap.String("predicted_type", event.PredictedType),
		zap.Float64("confidence", event.Confidence))

	s.notify(ctx, event)

	return event, nil
}

// requiredFeatures validates the numeric feature set, distinguishing a
// missing field from a literal zero.
func requiredFeatures(reading *dto.SensorReadingRequest) (classifier.Features, error) {
	missing := func(name string) error {
		return fmt.Errorf("%w: %s is required", domain.ErrValidation, name)
	}
	switch {
	case reading.Humidity == nil:
		return classifier.Features{}, missing("humidity")
	case reading.PM25 == nil:
		return classifier.Features{}, missing("pm25")
	case reading.ParticleSize == nil:
		return classifier.Features{}, missing("particle_size")
	case reading.VolumeSpike == nil:
		return classifier.Features{}, missing("volume_spike")
	}

	return classifier.Features{
		Humidity:     *reading.Humidity,
		PM25:         *reading.PM25,
		ParticleSize: *reading.ParticleSize,
		VolumeSpike:  *reading.VolumeSpike,
	}, nil
}

// notify fans the stored event out to the live notification paths. Both are
// best-effort and never fail the ingestion that triggered them.
func (s *EventService) notify(ctx context.Context, event *domain.Event) {
	if s.broadcaster != nil {
		s.broadcaster.BroadcastEvent(event)
	}

	if s.alerts == nil || event.PredictedType != domain.TypeAnomalous {
		return
	}
	if event.Confidence < s.alertsMinConfidence {
		return
	}
	if err := s.alerts.PublishAlert(ctx, event); err != nil {
		s.log.Error("Failed to publish anomaly alert",
			zap.String("event_id", event.ID.Hex()),
			zap.Error(err))
	}
}

// ListEvents returns the most recent events, descending by timestamp
func (s *EventService) ListEvents(ctx context.Context, query *dto.ListEventsQuery) ([]domain.Event, error) {
	repoQuery := repository.EventQuery{Limit: query.Limit}
	if repoQuery.Limit <= 0 {
		repoQuery.Limit = defaultListLimit
	}

	if query.Since != "" {
		since, err := time.Parse(time.RFC3339, query.Since)
		if err != nil {
			return nil, fmt.Errorf("%w: since must be RFC3339: %v", domain.ErrValidation, err)
		}
		repoQuery.Since = &since
	}

	return s.events.ListEvents(ctx, repoQuery)
}

// GetEvent returns a single event by id
func (s *EventService) GetEvent(ctx context.Context, id string) (*domain.Event, error) {
	return s.events.FindEventByID(ctx, id)
}

// SetVerified overwrites the verification flag. Last writer wins; repeated
// identical calls are idempotent.
func (s *EventService) SetVerified(ctx context.Context, id string, verified bool) (*domain.Event, error) {
	event, err := s.events.SetVerified(ctx, id, verified)
	if err != nil {
		return nil, err
	}

	s.log.Info("Event verification updated",
		zap.String("event_id", id),
		zap.Bool("verified", verified))

	return event, nil
}

// AttachFeedback stores a feedback document and links it to the event. The
// feedback is written first; if linking fails the feedback is deleted again
// so the two collections cannot diverge.
func (s *EventService) AttachFeedback(ctx context.Context, id string, data map[string]any) (*domain.Feedback, error) {
	event, err := s.events.FindEventByID(ctx, id)
	if err != nil {
		return nil, err
	}

	feedback := &domain.Feedback{
		EventID:   event.ID,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}

	if err := s.feedback.InsertFeedback(ctx, feedback); err != nil {
		return nil, err
	}

	if err := s.events.AppendFeedbackID(ctx, id, feedback.ID); err != nil {
		if delErr := s.feedback.DeleteFeedback(ctx, feedback.ID); delErr != nil {
			s.log.Error("Failed to roll back orphaned feedback",
				zap.String("feedback_id", feedback.ID.Hex()),
				zap.String("event_id", id),
				zap.Error(delErr))
		}
		return nil, err
	}

	s.log.Info("Feedback attached",
		zap.String("feedback_id", feedback.ID.Hex()),
		zap.String("event_id", id))

	return feedback, nil
}

// DeviceSummaries computes per-device aggregates over the trailing 24 hours
func (s *EventService) DeviceSummaries(ctx context.Context) ([]domain.DeviceSummary, error) {
	return s.events.DeviceSummaries(ctx, time.Now().UTC().Add(-recentWindow))
}

// SensorStatus reports the trailing-1h event count as a liveness signal
func (s *EventService) SensorStatus(ctx context.Context) (*dto.SensorStatusResponse, error) {
	now := time.Now().UTC()

	count, err := s.events.CountEventsSince(ctx, now.Add(-statusWindow))
	if err != nil {
		return nil, err
	}

	return &dto.SensorStatusResponse{
		RecentEventCount: count,
		AsOf:             now,
	}, nil
}
