package applications

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is an in-memory Repo used by tests and local development.
type MemoryRepo struct {
	mu   sync.Mutex
	rows map[string]Application
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{rows: make(map[string]Application)}
}

func (r *MemoryRepo) Create(ctx context.Context, app Application) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.CandidateID == app.CandidateID && row.VacancyID == app.VacancyID {
			return ErrDuplicate
		}
	}
	r.rows[app.ID] = app
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, applicationID string) (Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[applicationID]
	if !ok {
		return Application{}, ErrNotFound
	}
	return row, nil
}

func (r *MemoryRepo) ListByCandidate(ctx context.Context, candidateID string, limit, offset int) ([]Application, error) {
	return r.list(func(a Application) bool { return a.CandidateID == candidateID }, limit, offset)
}

func (r *MemoryRepo) ListByVacancy(ctx context.Context, vacancyID string, limit, offset int) ([]Application, error) {
	return r.list(func(a Application) bool { return a.VacancyID == vacancyID }, limit, offset)
}

func (r *MemoryRepo) list(match func(Application) bool, limit, offset int) ([]Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	var out []Application
	for _, row := range r.rows {
		if match(row) {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *MemoryRepo) Transition(ctx context.Context, applicationID, fromStatus, toStatus, recruiterID, feedback string) (Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[applicationID]
	if !ok {
		return Application{}, ErrNotFound
	}
	if row.Status != fromStatus {
		return Application{}, ErrInvalidTransition
	}
	row.Status = toStatus
	if recruiterID != "" {
		row.RecruiterID = recruiterID
	}
	if feedback != "" {
		row.Feedback = feedback
	}
	row.UpdatedAt = time.Now().UTC()
	r.rows[applicationID] = row
	return row, nil
}

var _ Repo = (*MemoryRepo)(nil)
