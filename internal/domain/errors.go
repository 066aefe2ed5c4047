package domain

import "errors"

// Error kinds surfaced across service boundaries. Callers branch with
// errors.Is; lower layers wrap these with context via fmt.Errorf("%w").
var (
	// ErrValidation marks a malformed or incomplete request. No side effects.
	ErrValidation = errors.New("validation error")

	// ErrNotFound marks an operation targeting a nonexistent event.
	ErrNotFound = errors.New("event not found")

	// ErrClassifier marks a failed or timed-out scoring call. The reading is
	// never stored without a valid classification.
	ErrClassifier = errors.New("classifier error")

	// ErrStore marks a persistence or read failure. The core performs no
	// automatic retry.
	ErrStore = errors.New("store error")
)
