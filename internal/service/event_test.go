package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"

	"github.com/dollancemedia/vapegaurd/internal/classifier"
	"github.com/dollancemedia/vapegaurd/internal/domain"
	"github.com/dollancemedia/vapegaurd/internal/dto"
	"github.com/dollancemedia/vapegaurd/internal/repository"
)

// MockClassifier is a mock implementation of classifier.Classifier
type MockClassifier struct {
	mock.Mock
}

func (m *MockClassifier) Predict(ctx context.Context, features classifier.Features) (float64, error) {
	args := m.Called(ctx, features)
	return args.Get(0).(float64), args.Error(1)
}

// MockEventRepository is a mock implementation of repository.EventRepository
type MockEventRepository struct {
	mock.Mock
}

func (m *MockEventRepository) InsertEvent(ctx context.Context, event *domain.Event) error {
	args := m.Called(ctx, event)
	if args.Error(0) == nil {
		event.ID = bson.NewObjectID()
	}
	return args.Error(0)
}

func (m *MockEventRepository) FindEventByID(ctx context.Context, id string) (*domain.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Event), args.Error(1)
}

func (m *MockEventRepository) ListEvents(ctx context.Context, query repository.EventQuery) ([]domain.Event, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Event), args.Error(1)
}

func (m *MockEventRepository) SetVerified(ctx context.Context, id string, verified bool) (*domain.Event, error) {
	args := m.Called(ctx, id, verified)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Event), args.Error(1)
}

func (m *MockEventRepository) AppendFeedbackID(ctx context.Context, eventID string, feedbackID bson.ObjectID) error {
	args := m.Called(ctx, eventID, feedbackID)
	return args.Error(0)
}

func (m *MockEventRepository) CountEventsSince(ctx context.Context, since time.Time) (int64, error) {
	args := m.Called(ctx, since)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockEventRepository) DeviceSummaries(ctx context.Context, recentSince time.Time) ([]domain.DeviceSummary, error) {
	args := m.Called(ctx, recentSince)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DeviceSummary), args.Error(1)
}

func (m *MockEventRepository) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockFeedbackRepository is a mock implementation of repository.FeedbackRepository
type MockFeedbackRepository struct {
	mock.Mock
}

func (m *MockFeedbackRepository) InsertFeedback(ctx context.Context, feedback *domain.Feedback) error {
	args := m.Called(ctx, feedback)
	if args.Error(0) == nil {
		feedback.ID = bson.NewObjectID()
	}
	return args.Error(0)
}

func (m *MockFeedbackRepository) DeleteFeedback(ctx context.Context, id bson.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockBroadcaster is a mock implementation of EventBroadcaster
type MockBroadcaster struct {
	mock.Mock
}

func (m *MockBroadcaster) BroadcastEvent(event *domain.Event) {
	m.Called(event)
}

// MockAlertPublisher is a mock implementation of queue.AlertPublisher
type MockAlertPublisher struct {
	mock.Mock
}

func (m *MockAlertPublisher) PublishAlert(ctx context.Context, event *domain.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func f(v float64) *float64 { return &v }

func newService(clf *MockClassifier, events *MockEventRepository, feedback *MockFeedbackRepository) *EventService {
	return NewEventService(clf, events, feedback, nil, nil, 0.7, zap.NewNop())
}

func TestEventService_IngestReading_Anomalous(t *testing.T) {
	mockClf := new(MockClassifier)
	mockRepo := new(MockEventRepository)
	mockFeedback := new(MockFeedbackRepository)

	service := newService(mockClf, mockRepo, mockFeedback)

	reading := &dto.SensorReadingRequest{
		DeviceID:     "device-a",
		Humidity:     f(32),
		PM25:         f(28),
		ParticleSize: f(320),
		VolumeSpike:  f(80),
	}

	mockClf.On("Predict", mock.Anything, classifier.Features{
		Humidity: 32, PM25: 28, ParticleSize: 320, VolumeSpike: 80,
	}).Return(0.82, nil)
	mockRepo.On("InsertEvent", mock.Anything, mock.AnythingOfType("*domain.Event")).Return(nil)

	event, err := service.IngestReading(context.Background(), reading)

	assert.NoError(t, err)
	assert.Equal(t, domain.TypeAnomalous, event.PredictedType)
	assert.Equal(t, 0.82, event.Confidence)
	assert.False(t, event.Verified)
	assert.Empty(t, event.FeedbackIDs)
	assert.False(t, event.ID.IsZero())
	mockClf.AssertExpectations(t)
	mockRepo.AssertExpectations(t)
}

func TestEventService_IngestReading_BoundaryProbabilityIsNormal(t *testing.T) {
	mockClf := new(MockClassifier)
	mockRepo := new(MockEventRepository)

	service := newService(mockClf, mockRepo, new(MockFeedbackRepository))

	reading := &dto.SensorReadingRequest{
		DeviceID:     "device-a",
		Humidity:     f(50),
		PM25:         f(10),
		ParticleSize: f(200),
		VolumeSpike:  f(45),
	}

	mockClf.On("Predict", mock.Anything, mock.AnythingOfType("classifier.Features")).Return(0.5, nil)
	mockRepo.On("InsertEvent", mock.Anything, mock.AnythingOfType("*domain.Event")).Return(nil)

	event, err := service.IngestReading(context.Background(), reading)

	assert.NoError(t, err)
	assert.Equal(t, domain.TypeNormal, event.PredictedType)
	// Confidence stays P(anomalous) even though the chosen label is normal.
	assert.Equal(t, 0.5, event.Confidence)
}

func TestEventService_IngestReading_NormalizesMissingFields(t *testing.T) {
	mockClf := new(MockClassifier)
	mockRepo := new(MockEventRepository)

	service := newService(mockClf, mockRepo, new(MockFeedbackRepository))

	reading := &dto.SensorReadingRequest{
		Humidity:     f(50),
		PM25:         f(10),
		ParticleSize: f(200),
		VolumeSpike:  f(45),
	}

	mockClf.On("Predict", mock.Anything, mock.AnythingOfType("classifier.Features")).Return(0.1, nil)
	mockRepo.On("InsertEvent", mock.Anything, mock.AnythingOfType("*domain.Event")).Return(nil)

	before := time.Now().UTC()
	event, err := service.IngestReading(context.Background(), reading)

	assert.NoError(t, err)
	assert.Equal(t, domain.DeviceUnknown, event.DeviceID)
	assert.WithinDuration(t, before, event.Timestamp, 5*time.Second)
}

func TestEventService_IngestReading_KeepsSuppliedTimestamp(t *testing.T) {
	mockClf := new(MockClassifier)
	mockRepo := new(MockEventRepository)

	service := newService(mockClf, mockRepo, new(MockFeedbackRepository))

	supplied := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	reading := &dto.SensorReadingRequest{
		DeviceID:     "device-a",
		Timestamp:    &supplied,
		Humidity:     f(50),
		PM25:         f(10),
		ParticleSize: f(200),
		VolumeSpike:  f(45),
	}

	mockClf.On("Predict", mock.Anything, mock.AnythingOfType("classifier.Features")).Return(0.1, nil)
	mockRepo.On("InsertEvent", mock.Anything, mock.AnythingOfType("*domain.Event")).Return(nil)

	event, err := service.IngestReading(context.Background(), reading)

	assert.NoError(t, err)
	assert.Equal(t, supplied, event.Timestamp)
}

func TestEventService_IngestReading_MissingFeature(t *testing.T) {
	mockClf := new(MockClassifier)
	mockRepo := new(MockEventRepository)

	service := newService(mockClf, mockRepo, new(MockFeedbackRepository))

	reading := &dto.SensorReadingRequest{
		DeviceID:     "device-a",
		Humidity:     f(50),
		ParticleSize: f(200),
		VolumeSpike:  f(45),
	}

	event, err := service.IngestReading(context.Background(), reading)

	assert.Nil(t, event)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, err.Error(), "pm25")
	mockClf.AssertNotCalled(t, "Predict")
	mockRepo.AssertNotCalled(t, "InsertEvent")
}

func TestEventService_IngestReading_ClassifierFailure(t *testing.T) {
	mockClf := new(MockClassifier)
	mockRepo := new(MockEventRepository)

	service := newService(mockClf, mockRepo, new(MockFeedbackRepository))

	reading := &dto.SensorReadingRequest{
		DeviceID:     "device-a",
		Humidity:     f(50),
		PM25:         f(10),
		ParticleSize: f(200),
		VolumeSpike:  f(45),
	}

	mockClf.On("Predict", mock.Anything, mock.AnythingOfType("classifier.Features")).
		Return(0.0, errors.New("session crashed"))

	event, err := service.IngestReading(context.Background(), reading)

	assert.Nil(t, event)
	assert.ErrorIs(t, err, domain.ErrClassifier)
	// A failed classification must never store an unscored event.
	mockRepo.AssertNotCalled(t, "InsertEvent")
}

func TestEventService_IngestReading_StoreFailure(t *testing.T) {
	mockClf := new(MockClassifier)
	mockRepo := new(MockEventRepository)

	service := newService(mockClf, mockRepo, new(MockFeedbackRepository))

	reading := &dto.SensorReadingRequest{
		DeviceID:     "device-a",
		Humidity:     f(50),
		PM25:         f(10),
		ParticleSize: f(200),
		VolumeSpike:  f(45),
	}

	mockClf.On("Predict", mock.Anything, mock.AnythingOfType("classifier.Features")).Return(0.9, nil)
	mockRepo.On("InsertEvent", mock.Anything, mock.AnythingOfType("*domain.Event")).
		Return(domain.ErrStore)

	event, err := service.IngestReading(context.Background(), reading)

	assert.Nil(t, event)
	assert.ErrorIs(t, err, domain.ErrStore)
}

func TestEventService_IngestReading_NotificationsFireForStoredAnomalies(t *testing.T) {
	mockClf := new(MockClassifier)
	mockRepo := new(MockEventRepository)
	mockBroadcaster := new(MockBroadcaster)
	mockAlerts := new(MockAlertPublisher)

	service := NewEventService(mockClf, mockRepo, new(MockFeedbackRepository),
		mockAlerts, mockBroadcaster, 0.7, zap.NewNop())

	reading := &dto.SensorReadingRequest{
		DeviceID:     "device-a",
		Humidity:     f(32),
		PM25:         f(28),
		ParticleSize: f(320),
		VolumeSpike:  f(80),
	}

	mockClf.On("Predict", mock.Anything, mock.AnythingOfType("classifier.Features")).Return(0.82, nil)
	mockRepo.On("InsertEvent", mock.Anything, mock.AnythingOfType("*domain.Event")).Return(nil)
	mockBroadcaster.On("BroadcastEvent", mock.AnythingOfType("*domain.Event")).Return()
	mockAlerts.On("PublishAlert", mock.Anything, mock.AnythingOfType("*domain.Event")).Return(nil)

	_, err := service.IngestReading(context.Background(), reading)

	assert.NoError(t, err)
	mockBroadcaster.AssertExpectations(t)
	mockAlerts.AssertExpectations(t)
}

func TestEventService_IngestReading_LowConfidenceAnomalySkipsQueueAlert(t *testing.T) {
	mockClf := new(MockClassifier)
	mockRepo := new(MockEventRepository)
	mockBroadcaster := new(MockBroadcaster)
	mockAlerts := new(MockAlertPublisher)

	service := NewEventService(mockClf, mockRepo, new(MockFeedbackRepository),
		mockAlerts, mockBroadcaster, 0.7, zap.NewNop())

	reading := &dto.SensorReadingRequest{
		DeviceID:     "device-a",
		Humidity:     f(32),
		PM25:         f(28),
		ParticleSize: f(320),
		VolumeSpike:  f(80),
	}

	mockClf.On("Predict", mock.Anything, mock.AnythingOfType("classifier.Features")).Return(0.6, nil)
	mockRepo.On("InsertEvent", mock.Anything, mock.AnythingOfType("*domain.Event")).Return(nil)
	mockBroadcaster.On("BroadcastEvent", mock.AnythingOfType("*domain.Event")).Return()

	_, err := service.IngestReading(context.Background(), reading)

	assert.NoError(t, err)
	mockBroadcaster.AssertExpectations(t)
	mockAlerts.AssertNotCalled(t, "PublishAlert")
}

func TestEventService_SetVerified_Idempotent(t *testing.T) {
	mockRepo := new(MockEventRepository)

	service := newService(new(MockClassifier), mockRepo, new(MockFeedbackRepository))

	id := bson.NewObjectID()
	verified := &domain.Event{ID: id, DeviceID: "device-a", Verified: true}

	// The write sets an absolute value; the second call returns the same state.
	mockRepo.On("SetVerified", mock.Anything, id.Hex(), true).Return(verified, nil).Twice()

	first, err := service.SetVerified(context.Background(), id.Hex(), true)
	assert.NoError(t, err)

	second, err := service.SetVerified(context.Background(), id.Hex(), true)
	assert.NoError(t, err)

	assert.Equal(t, first, second)
	mockRepo.AssertExpectations(t)
}

func TestEventService_SetVerified_NotFound(t *testing.T) {
	mockRepo := new(MockEventRepository)

	service := newService(new(MockClassifier), mockRepo, new(MockFeedbackRepository))

	mockRepo.On("SetVerified", mock.Anything, "nonexistent-id", true).
		Return(nil, domain.ErrNotFound)

	event, err := service.SetVerified(context.Background(), "nonexistent-id", true)

	assert.Nil(t, event)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEventService_AttachFeedback_Success(t *testing.T) {
	mockRepo := new(MockEventRepository)
	mockFeedback := new(MockFeedbackRepository)

	service := newService(new(MockClassifier), mockRepo, mockFeedback)

	eventID := bson.NewObjectID()
	event := &domain.Event{ID: eventID, DeviceID: "device-a"}

	mockRepo.On("FindEventByID", mock.Anything, eventID.Hex()).Return(event, nil)
	mockFeedback.On("InsertFeedback", mock.Anything, mock.AnythingOfType("*domain.Feedback")).Return(nil)
	mockRepo.On("AppendFeedbackID", mock.Anything, eventID.Hex(), mock.AnythingOfType("bson.ObjectID")).Return(nil)

	feedback, err := service.AttachFeedback(context.Background(), eventID.Hex(),
		map[string]any{"feedback_type": "false_positive", "notes": "steam from shower"})

	assert.NoError(t, err)
	assert.Equal(t, eventID, feedback.EventID)
	assert.False(t, feedback.ID.IsZero())
	assert.WithinDuration(t, time.Now().UTC(), feedback.Timestamp, 5*time.Second)
	mockRepo.AssertExpectations(t)
	mockFeedback.AssertExpectations(t)
}

func TestEventService_AttachFeedback_EventNotFound(t *testing.T) {
	mockRepo := new(MockEventRepository)
	mockFeedback := new(MockFeedbackRepository)

	service := newService(new(MockClassifier), mockRepo, mockFeedback)

	mockRepo.On("FindEventByID", mock.Anything, "nonexistent-id").
		Return(nil, domain.ErrNotFound)

	feedback, err := service.AttachFeedback(context.Background(), "nonexistent-id", map[string]any{})

	assert.Nil(t, feedback)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	mockFeedback.AssertNotCalled(t, "InsertFeedback")
}

func TestEventService_AttachFeedback_AppendFailureDeletesFeedback(t *testing.T) {
	mockRepo := new(MockEventRepository)
	mockFeedback := new(MockFeedbackRepository)

	service := newService(new(MockClassifier), mockRepo, mockFeedback)

	eventID := bson.NewObjectID()
	event := &domain.Event{ID: eventID, DeviceID: "device-a"}

	mockRepo.On("FindEventByID", mock.Anything, eventID.Hex()).Return(event, nil)
	mockFeedback.On("InsertFeedback", mock.Anything, mock.AnythingOfType("*domain.Feedback")).Return(nil)
	mockRepo.On("AppendFeedbackID", mock.Anything, eventID.Hex(), mock.AnythingOfType("bson.ObjectID")).
		Return(domain.ErrStore)
	mockFeedback.On("DeleteFeedback", mock.Anything, mock.AnythingOfType("bson.ObjectID")).Return(nil)

	feedback, err := service.AttachFeedback(context.Background(), eventID.Hex(), map[string]any{})

	assert.Nil(t, feedback)
	assert.ErrorIs(t, err, domain.ErrStore)
	// The orphaned feedback is rolled back so the collections stay aligned.
	mockFeedback.AssertCalled(t, "DeleteFeedback", mock.Anything, mock.AnythingOfType("bson.ObjectID"))
}

func TestEventService_ListEvents_DefaultsLimit(t *testing.T) {
	mockRepo := new(MockEventRepository)

	service := newService(new(MockClassifier), mockRepo, new(MockFeedbackRepository))

	mockRepo.On("ListEvents", mock.Anything, repository.EventQuery{Limit: defaultListLimit}).
		Return([]domain.Event{}, nil)

	events, err := service.ListEvents(context.Background(), &dto.ListEventsQuery{})

	assert.NoError(t, err)
	assert.Empty(t, events)
	mockRepo.AssertExpectations(t)
}

func TestEventService_ListEvents_InvalidSince(t *testing.T) {
	mockRepo := new(MockEventRepository)

	service := newService(new(MockClassifier), mockRepo, new(MockFeedbackRepository))

	events, err := service.ListEvents(context.Background(), &dto.ListEventsQuery{Since: "yesterday"})

	assert.Nil(t, events)
	assert.ErrorIs(t, err, domain.ErrValidation)
	mockRepo.AssertNotCalled(t, "ListEvents")
}

func TestEventService_DeviceSummaries(t *testing.T) {
	mockRepo := new(MockEventRepository)

	service := newService(new(MockClassifier), mockRepo, new(MockFeedbackRepository))

	summaries := []domain.DeviceSummary{
		{DeviceID: "device-a", TotalEvents: 5, RecentEvents: 2, VerifiedEvents: 1},
		{DeviceID: "device-b", TotalEvents: 3, RecentEvents: 3, VerifiedEvents: 0},
	}

	mockRepo.On("DeviceSummaries", mock.Anything, mock.MatchedBy(func(since time.Time) bool {
		return time.Since(since) > 23*time.Hour && time.Since(since) < 25*time.Hour
	})).Return(summaries, nil)

	got, err := service.DeviceSummaries(context.Background())

	assert.NoError(t, err)
	// Order is unspecified; assert set membership only.
	assert.ElementsMatch(t, summaries, got)
}

func TestEventService_SensorStatus(t *testing.T) {
	mockRepo := new(MockEventRepository)

	service := newService(new(MockClassifier), mockRepo, new(MockFeedbackRepository))

	mockRepo.On("CountEventsSince", mock.Anything, mock.MatchedBy(func(since time.Time) bool {
		return time.Since(since) > 59*time.Minute && time.Since(since) < 61*time.Minute
	})).Return(int64(12), nil)

	status, err := service.SensorStatus(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, int64(12), status.RecentEventCount)
	assert.WithinDuration(t, time.Now().UTC(), status.AsOf, 5*time.Second)
}
