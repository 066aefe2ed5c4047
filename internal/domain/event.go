package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Predicted event types. Anomalous is the positive class (vape or fire),
// normal is ambient air.
const (
	TypeNormal    = "normal"
	TypeAnomalous = "anomalous"
)

// DeviceUnknown is assigned when a reading arrives without a device_id.
const DeviceUnknown = "unknown"

// Event represents a classified sensor reading stored in MongoDB. Sensor
// features and classification results are immutable after insert; only
// Verified and FeedbackIDs may change.
type Event struct {
	ID            bson.ObjectID   `bson:"_id,omitempty" json:"id"`
	DeviceID      string          `bson:"device_id" json:"device_id"`
	Timestamp     time.Time       `bson:"timestamp" json:"timestamp"`
	Humidity      float64         `bson:"humidity" json:"humidity"`
	PM25          float64         `bson:"pm25" json:"pm25"`
	ParticleSize  float64         `bson:"particle_size" json:"particle_size"`
	VolumeSpike   float64         `bson:"volume_spike" json:"volume_spike"`
	Location      string          `bson:"location,omitempty" json:"location,omitempty"`
	PredictedType string          `bson:"predicted_type" json:"predicted_type"`
	Confidence    float64         `bson:"confidence" json:"confidence"`
	Verified      bool            `bson:"verified" json:"verified"`
	FeedbackIDs   []bson.ObjectID `bson:"feedback_ids" json:"feedback_ids"`
}

// Feedback represents a human annotation attached to an Event. EventID is a
// back-reference only; the two collections are owned independently.
type Feedback struct {
	ID        bson.ObjectID  `bson:"_id,omitempty" json:"id"`
	EventID   bson.ObjectID  `bson:"event_id" json:"event_id"`
	Timestamp time.Time      `bson:"timestamp" json:"timestamp"`
	Data      map[string]any `bson:"data,omitempty" json:"data,omitempty"`
}

// DeviceSummary is an aggregate view of one device's event history.
type DeviceSummary struct {
	DeviceID       string     `json:"device_id"`
	TotalEvents    int64      `json:"total_events"`
	RecentEvents   int64      `json:"recent_events"`
	VerifiedEvents int64      `json:"verified_events"`
	LastSeen       *time.Time `json:"last_seen"`
	LastLocation   string     `json:"last_location,omitempty"`
	LatestEvent    *Event     `json:"latest_event,omitempty"`
}

// LabelForProbability maps the classifier's P(anomalous) to a label.
// The threshold is strict: exactly 0.5 classifies as normal.
func LabelForProbability(p float64) string {
	if p > 0.5 {
		return TypeAnomalous
	}
	return TypeNormal
}
