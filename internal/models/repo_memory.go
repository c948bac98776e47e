package models

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory Repo used by tests and local development.
type MemoryRepo struct {
	mu   sync.Mutex
	rows map[string]PredictionModel
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{rows: make(map[string]PredictionModel)}
}

func (r *MemoryRepo) Create(ctx context.Context, model PredictionModel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.Name == model.Name && row.Version == model.Version {
			return ErrDuplicate
		}
	}
	model.Active = false
	r.rows[model.ID] = model
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, modelID string) (PredictionModel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[modelID]
	if !ok {
		return PredictionModel{}, ErrNotFound
	}
	return row, nil
}

func (r *MemoryRepo) List(ctx context.Context) ([]PredictionModel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]PredictionModel, 0, len(r.rows))
	for _, row := range r.rows {
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *MemoryRepo) Activate(ctx context.Context, modelID string) (PredictionModel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	target, ok := r.rows[modelID]
	if !ok {
		return PredictionModel{}, ErrNotFound
	}
	for id, row := range r.rows {
		if row.Name == target.Name && row.Active {
			row.Active = false
			r.rows[id] = row
		}
	}
	target.Active = true
	r.rows[modelID] = target
	return target, nil
}

func (r *MemoryRepo) Deactivate(ctx context.Context, modelID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[modelID]
	if !ok {
		return ErrNotFound
	}
	row.Active = false
	r.rows[modelID] = row
	return nil
}

func (r *MemoryRepo) ActiveByName(ctx context.Context, name string) (PredictionModel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.Name == name && row.Active {
			return row, nil
		}
	}
	return PredictionModel{}, ErrNoActive
}

var _ Repo = (*MemoryRepo)(nil)
