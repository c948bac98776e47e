package predictions

import "time"

const (
	StatusQueued     = "queued"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Prediction is a scoring outcome for an extraction under a specific model
// version. The version string is copied at scoring time so later activations
// never rewrite history. Rows are append-only with a current flag.
type Prediction struct {
	ID           string
	ExtractionID string
	ModelID      string
	ModelVersion string
	Status       string
	Current      bool

	Probability *float64
	Factors     []string

	ErrorCode      string
	ErrorMessage   string
	ErrorRetryable *bool

	ScoredAt  *time.Time
	CreatedAt time.Time
}

// Terminal reports whether the prediction reached a final state.
func (p Prediction) Terminal() bool {
	return p.Status == StatusCompleted || p.Status == StatusFailed
}
