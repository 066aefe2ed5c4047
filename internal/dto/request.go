package dto

import "time"

// SensorReadingRequest represents a raw reading from a field device or the
// simulator. The four numeric features are required by the classifier;
// pointers distinguish a missing field from a literal zero. device_id and
// timestamp are optional and normalized by the ingestion service.
type SensorReadingRequest struct {
	DeviceID     string     `json:"device_id" example:"esp32-hallway-2"`
	Timestamp    *time.Time `json:"timestamp" example:"2026-08-31T09:30:00Z"`
	Humidity     *float64   `json:"humidity" binding:"required" example:"32"`
	PM25         *float64   `json:"pm25" binding:"required" example:"28"`
	ParticleSize *float64   `json:"particle_size" binding:"required" example:"320"`
	VolumeSpike  *float64   `json:"volume_spike" binding:"required" example:"80"`
	Location     string     `json:"location" example:"2nd floor bathroom"`
}

// VerifyEventRequest represents a verification flag update
type VerifyEventRequest struct {
	Verified *bool `json:"verified" binding:"required" example:"true"`
}

// ListEventsQuery represents the query parameters for listing events
type ListEventsQuery struct {
	Limit int    `form:"limit,default=50" binding:"omitempty,min=1,max=500" example:"50"`
	Since string `form:"since" example:"2026-08-30T00:00:00Z"`
}
