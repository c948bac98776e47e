package documents

import "time"

// Document represents an uploaded resume file owned by its uploader.
// Immutable after creation except for the raw-text cache, which is set at
// most once by the extraction coordinator.
type Document struct {
	ID         string
	UploaderID string
	FileName   string
	MimeType   string
	SizeBytes  int64
	StorageKey string
	RawTextKey string
	RawTextAt  *time.Time
	CreatedAt  time.Time
}
