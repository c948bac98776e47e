package vacancies

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory Repo used by tests and local development.
type MemoryRepo struct {
	mu   sync.Mutex
	rows map[string]Vacancy
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{rows: make(map[string]Vacancy)}
}

func (r *MemoryRepo) Create(ctx context.Context, v Vacancy) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[v.ID] = v
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, vacancyID string) (Vacancy, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[vacancyID]
	if !ok {
		return Vacancy{}, ErrNotFound
	}
	return row, nil
}

func (r *MemoryRepo) List(ctx context.Context, activeOnly bool, limit, offset int) ([]Vacancy, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	var out []Vacancy
	for _, row := range r.rows {
		if activeOnly && !row.Active {
			continue
		}
		out = append(out, row)
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

func (r *MemoryRepo) Update(ctx context.Context, v Vacancy) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[v.ID]
	if !ok {
		return ErrNotFound
	}
	row.Title = v.Title
	row.Description = v.Description
	row.Requirements = v.Requirements
	row.Modality = v.Modality
	r.rows[v.ID] = row
	return nil
}

func (r *MemoryRepo) SetActive(ctx context.Context, vacancyID string, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[vacancyID]
	if !ok {
		return ErrNotFound
	}
	row.Active = active
	r.rows[vacancyID] = row
	return nil
}

var _ Repo = (*MemoryRepo)(nil)
