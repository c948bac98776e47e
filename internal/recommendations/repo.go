package recommendations

import "context"

// Repo defines persistence operations for recommendation batches.
type Repo interface {
	// CreateBatch inserts every row of a new batch atomically.
	CreateBatch(ctx context.Context, recs []Recommendation) error
	// LatestBatch returns the most recent batch ordered by rank.
	LatestBatch(ctx context.Context) (Batch, error)
	// GetBatch returns a batch by id ordered by rank.
	GetBatch(ctx context.Context, batchID string) (Batch, error)
	// TryRunLock attempts to take the cross-process aggregation lock. The
	// release function must be called when the run finishes. ok is false when
	// another process holds the lock.
	TryRunLock(ctx context.Context) (release func(), ok bool, err error)
}
