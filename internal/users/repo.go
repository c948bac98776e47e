package users

import (
	"context"
	"errors"
)

var (
	ErrNotFound    = errors.New("user not found")
	ErrInvalidRole = errors.New("unknown role")
)

type Repo interface {
	// Upsert inserts or refreshes the account on login. Role is only set on
	// first insert; promotions go through SetRole.
	Upsert(ctx context.Context, user User) error
	GetByID(ctx context.Context, userID string) (User, error)
	SetRole(ctx context.Context, userID, role string) error
}
