package predictions

import (
	"context"
	"time"
)

// Repo defines persistence operations for predictions.
type Repo interface {
	// GetOrCreateForExtraction collapses concurrent scoring requests for the
	// same extraction. An existing current row that is queued, processing, or
	// completed is returned as-is unless rescore is set and the row is
	// terminal; a failed current row is always superseded. The boolean
	// reports whether a new row was created.
	GetOrCreateForExtraction(ctx context.Context, prediction Prediction, rescore bool) (Prediction, bool, error)
	GetByID(ctx context.Context, predictionID string) (Prediction, error)
	CurrentByExtraction(ctx context.Context, extractionID string) (Prediction, error)
	MarkProcessing(ctx context.Context, predictionID string) error
	Complete(ctx context.Context, predictionID string, probability float64, factors []string, scoredAt time.Time) error
	Fail(ctx context.Context, predictionID, code, message string, retryable bool, scoredAt time.Time) error
}
