package dto

import "time"

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error" example:"validation_error"`
	Message string `json:"message,omitempty" example:"humidity is required"`
}

// PredictionData represents the classification result for a reading.
// Confidence is always P(anomalous), independent of the chosen label.
type PredictionData struct {
	Label      string  `json:"label" example:"anomalous"`
	Confidence float64 `json:"confidence" example:"0.82"`
}

// SensorDataResponse represents a successful device ingestion response
type SensorDataResponse struct {
	Status     string         `json:"status" example:"success"`
	EventID    string         `json:"event_id" example:"66d1f0a3e4b0a1b2c3d4e5f6"`
	Prediction PredictionData `json:"prediction"`
}

// SensorStatusResponse represents the ingestion liveness signal
type SensorStatusResponse struct {
	RecentEventCount int64     `json:"recent_event_count" example:"12"`
	AsOf             time.Time `json:"as_of" example:"2026-08-31T09:30:00Z"`
}
