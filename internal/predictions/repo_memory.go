package predictions

import (
	"context"
	"sync"
	"time"
)

// MemoryRepo is an in-memory Repo used by tests and local development.
type MemoryRepo struct {
	mu   sync.Mutex
	rows map[string]Prediction
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{rows: make(map[string]Prediction)}
}

func (r *MemoryRepo) GetOrCreateForExtraction(ctx context.Context, prediction Prediction, rescore bool) (Prediction, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, row := range r.rows {
		if row.ExtractionID != prediction.ExtractionID || !row.Current {
			continue
		}
		keep := false
		switch row.Status {
		case StatusQueued, StatusProcessing:
			keep = true
		case StatusCompleted:
			keep = !rescore
		}
		if keep {
			return row, false, nil
		}
		row.Current = false
		r.rows[id] = row
	}

	prediction.Current = true
	r.rows[prediction.ID] = prediction
	return prediction, true, nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, predictionID string) (Prediction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[predictionID]
	if !ok {
		return Prediction{}, ErrNotFound
	}
	return row, nil
}

func (r *MemoryRepo) CurrentByExtraction(ctx context.Context, extractionID string) (Prediction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.ExtractionID == extractionID && row.Current {
			return row, nil
		}
	}
	return Prediction{}, ErrNotFound
}

func (r *MemoryRepo) MarkProcessing(ctx context.Context, predictionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[predictionID]
	if !ok || row.Status != StatusQueued {
		return ErrNotFound
	}
	row.Status = StatusProcessing
	r.rows[predictionID] = row
	return nil
}

func (r *MemoryRepo) Complete(ctx context.Context, predictionID string, probability float64, factors []string, scoredAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[predictionID]
	if !ok {
		return ErrNotFound
	}
	row.Status = StatusCompleted
	row.Probability = &probability
	row.Factors = factors
	row.ErrorCode = ""
	row.ErrorMessage = ""
	row.ErrorRetryable = nil
	t := scoredAt
	row.ScoredAt = &t
	r.rows[predictionID] = row
	return nil
}

func (r *MemoryRepo) Fail(ctx context.Context, predictionID, code, message string, retryable bool, scoredAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[predictionID]
	if !ok {
		return ErrNotFound
	}
	row.Status = StatusFailed
	row.ErrorCode = code
	row.ErrorMessage = message
	row.ErrorRetryable = &retryable
	t := scoredAt
	row.ScoredAt = &t
	r.rows[predictionID] = row
	return nil
}

var _ Repo = (*MemoryRepo)(nil)
