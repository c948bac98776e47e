package documents

import (
	"context"
	"time"
)

// Repo defines persistence operations for documents.
type Repo interface {
	Create(ctx context.Context, doc Document) error
	GetByID(ctx context.Context, documentID string) (Document, error)
	ListByUploader(ctx context.Context, uploaderID string, limit, offset int) ([]Document, error)
	// SetRawText records the raw-text cache location. It is a no-op if the
	// cache was already set; the first writer wins.
	SetRawText(ctx context.Context, documentID, rawTextKey string, at time.Time) error
}
