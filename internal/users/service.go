package users

import (
	"context"
	"errors"
	"strings"

	"talent-backend/internal/shared/server/middleware"
)

type Service struct {
	Repo Repo
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// UpsertFromAuth persists the user identity on login so pipeline records
// have a stable owner.
func (s *Service) UpsertFromAuth(ctx context.Context, user User) error {
	if s == nil || s.Repo == nil {
		return errors.New("users service not configured")
	}
	if strings.TrimSpace(user.ID) == "" || strings.TrimSpace(user.Email) == "" {
		return errors.New("user id and email are required")
	}
	return s.Repo.Upsert(ctx, user)
}

func (s *Service) GetByID(ctx context.Context, userID string) (User, error) {
	if s == nil || s.Repo == nil {
		return User{}, errors.New("users service not configured")
	}
	if strings.TrimSpace(userID) == "" {
		return User{}, errors.New("user id is required")
	}
	return s.Repo.GetByID(ctx, userID)
}

// SetRole promotes or demotes an account within the closed role set.
func (s *Service) SetRole(ctx context.Context, userID, role string) error {
	if strings.TrimSpace(userID) == "" {
		return errors.New("user id is required")
	}
	switch role {
	case middleware.RoleCandidate, middleware.RoleEmployer, middleware.RoleAdministrator:
	default:
		return ErrInvalidRole
	}
	return s.Repo.SetRole(ctx, userID, role)
}
