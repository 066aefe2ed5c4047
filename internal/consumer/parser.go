package consumer

import (
	"encoding/json"
	"fmt"

	"github.com/dollancemedia/vapegaurd/internal/dto"
)

// JSONReadingParser implements ReadingParser for JSON-formatted sensor
// readings, the format the device firmware and simulator emit.
type JSONReadingParser struct{}

// NewJSONReadingParser creates a new JSON reading parser
func NewJSONReadingParser() *JSONReadingParser {
	return &JSONReadingParser{}
}

// Parse parses a JSON message body into a sensor reading. Feature presence
// is not checked here; the ingestion service owns that validation.
func (p *JSONReadingParser) Parse(body []byte) (*dto.SensorReadingRequest, error) {
	var reading dto.SensorReadingRequest
	if err := json.Unmarshal(body, &reading); err != nil {
		return nil, fmt.Errorf("failed to unmarshal reading: %w", err)
	}

	return &reading, nil
}
