package users

import (
	"context"
	"sync"
	"time"
)

// MemoryRepo is an in-memory Repo used by tests and local development.
type MemoryRepo struct {
	mu   sync.Mutex
	rows map[string]User
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{rows: make(map[string]User)}
}

func (r *MemoryRepo) Upsert(ctx context.Context, user User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	if existing, ok := r.rows[user.ID]; ok {
		existing.Email = user.Email
		existing.Name = user.Name
		existing.LastLoginAt = &now
		r.rows[user.ID] = existing
		return nil
	}
	if user.Role == "" {
		user.Role = "candidate"
	}
	user.CreatedAt = now
	user.LastLoginAt = &now
	r.rows[user.ID] = user
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, userID string) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[userID]
	if !ok {
		return User{}, ErrNotFound
	}
	return row, nil
}

func (r *MemoryRepo) SetRole(ctx context.Context, userID, role string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[userID]
	if !ok {
		return ErrNotFound
	}
	row.Role = role
	r.rows[userID] = row
	return nil
}

var _ Repo = (*MemoryRepo)(nil)
