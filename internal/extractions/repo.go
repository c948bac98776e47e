package extractions

import (
	"context"
	"time"
)

// Repo defines persistence operations for extractions.
type Repo interface {
	// GetOrCreateForDocument collapses concurrent submissions for the same
	// document into a single in-flight extraction. An existing current row
	// that is queued, processing, or completed is returned as-is unless
	// reprocess is set and the row is terminal, in which case the current row
	// is demoted and a fresh one inserted. A failed current row is always
	// superseded. The boolean reports whether a new row was created.
	GetOrCreateForDocument(ctx context.Context, extraction Extraction, reprocess bool) (Extraction, bool, error)
	GetByID(ctx context.Context, extractionID string) (Extraction, error)
	CurrentByDocument(ctx context.Context, documentID string) (Extraction, error)
	MarkProcessing(ctx context.Context, extractionID string) error
	Complete(ctx context.Context, extraction Extraction, processedAt time.Time) error
	Fail(ctx context.Context, extractionID, code, message string, retryable bool, processedAt time.Time) error
	// ListRecentCompleted returns the newest current completed extractions,
	// newest first, for aggregation.
	ListRecentCompleted(ctx context.Context, limit int) ([]Extraction, error)
}
