package recommendations

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory Repo used by tests and local development.
type MemoryRepo struct {
	mu      sync.Mutex
	batches map[string][]Recommendation
	order   []string

	lockMu sync.Mutex
	locked bool
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{batches: make(map[string][]Recommendation)}
}

func (r *MemoryRepo) CreateBatch(ctx context.Context, recs []Recommendation) error {
	if len(recs) == 0 {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	batchID := recs[0].BatchID
	rows := make([]Recommendation, len(recs))
	copy(rows, recs)
	sort.Slice(rows, func(i, j int) bool { return rows[i].Rank < rows[j].Rank })
	r.batches[batchID] = rows
	r.order = append(r.order, batchID)
	return nil
}

func (r *MemoryRepo) LatestBatch(ctx context.Context) (Batch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.order) == 0 {
		return Batch{}, ErrNotFound
	}
	return r.batchLocked(r.order[len(r.order)-1])
}

func (r *MemoryRepo) GetBatch(ctx context.Context, batchID string) (Batch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.batchLocked(batchID)
}

func (r *MemoryRepo) batchLocked(batchID string) (Batch, error) {
	rows, ok := r.batches[batchID]
	if !ok || len(rows) == 0 {
		return Batch{}, ErrNotFound
	}
	out := make([]Recommendation, len(rows))
	copy(out, rows)
	return Batch{ID: batchID, GeneratedAt: out[0].CreatedAt, Recommendations: out}, nil
}

func (r *MemoryRepo) TryRunLock(ctx context.Context) (func(), bool, error) {
	r.lockMu.Lock()
	defer r.lockMu.Unlock()
	if r.locked {
		return nil, false, nil
	}
	r.locked = true
	release := func() {
		r.lockMu.Lock()
		r.locked = false
		r.lockMu.Unlock()
	}
	return release, true, nil
}

var _ Repo = (*MemoryRepo)(nil)
