package extractions

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is an in-memory Repo used by tests and local development.
type MemoryRepo struct {
	mu   sync.Mutex
	rows map[string]Extraction
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{rows: make(map[string]Extraction)}
}

func (r *MemoryRepo) GetOrCreateForDocument(ctx context.Context, extraction Extraction, reprocess bool) (Extraction, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, row := range r.rows {
		if row.DocumentID != extraction.DocumentID || !row.Current {
			continue
		}
		keep := false
		switch row.Status {
		case StatusQueued, StatusProcessing:
			keep = true
		case StatusCompleted:
			keep = !reprocess
		}
		if keep {
			return row, false, nil
		}
		row.Current = false
		r.rows[id] = row
	}

	if extraction.EntityType == "" {
		extraction.EntityType = "candidate"
	}
	extraction.Current = true
	r.rows[extraction.ID] = extraction
	return extraction, true, nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, extractionID string) (Extraction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[extractionID]
	if !ok {
		return Extraction{}, ErrNotFound
	}
	return row, nil
}

func (r *MemoryRepo) CurrentByDocument(ctx context.Context, documentID string) (Extraction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.DocumentID == documentID && row.Current {
			return row, nil
		}
	}
	return Extraction{}, ErrNotFound
}

func (r *MemoryRepo) MarkProcessing(ctx context.Context, extractionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[extractionID]
	if !ok || row.Status != StatusQueued {
		return ErrNotFound
	}
	row.Status = StatusProcessing
	r.rows[extractionID] = row
	return nil
}

func (r *MemoryRepo) Complete(ctx context.Context, e Extraction, processedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[e.ID]
	if !ok {
		return ErrNotFound
	}
	row.Status = StatusCompleted
	row.FullName = e.FullName
	row.CurrentRole = e.CurrentRole
	row.Employer = e.Employer
	row.YearsExperience = e.YearsExperience
	row.Location = e.Location
	row.Education = e.Education
	row.SkillCategories = e.SkillCategories
	row.SkillTokens = e.SkillTokens
	row.EntityType = e.EntityType
	row.ErrorCode = ""
	row.ErrorMessage = ""
	row.ErrorRetryable = nil
	t := processedAt
	row.ProcessedAt = &t
	r.rows[e.ID] = row
	return nil
}

func (r *MemoryRepo) Fail(ctx context.Context, extractionID, code, message string, retryable bool, processedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[extractionID]
	if !ok {
		return ErrNotFound
	}
	row.Status = StatusFailed
	row.ErrorCode = code
	row.ErrorMessage = message
	row.ErrorRetryable = &retryable
	t := processedAt
	row.ProcessedAt = &t
	r.rows[extractionID] = row
	return nil
}

func (r *MemoryRepo) ListRecentCompleted(ctx context.Context, limit int) ([]Extraction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Extraction
	for _, row := range r.rows {
		if row.Current && row.Status == StatusCompleted {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

var _ Repo = (*MemoryRepo)(nil)
