package extractions

import "time"

const (
	StatusQueued     = "queued"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Extraction is the structured profile derived from a document. Rows are
// append-only: reprocessing demotes the current row and inserts a new one, so
// history is preserved.
type Extraction struct {
	ID         string
	DocumentID string
	Status     string
	Current    bool

	FullName        string
	CurrentRole     string
	Employer        string
	YearsExperience int
	Location        string
	Education       string
	SkillCategories map[string][]string
	SkillTokens     []string
	EntityType      string

	ErrorCode      string
	ErrorMessage   string
	ErrorRetryable *bool

	ProcessedAt *time.Time
	CreatedAt   time.Time
}

// Terminal reports whether the extraction reached a final state.
func (e Extraction) Terminal() bool {
	return e.Status == StatusCompleted || e.Status == StatusFailed
}
