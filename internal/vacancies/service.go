package vacancies

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Service contains business logic for vacancy administration.
type Service struct {
	Repo Repo
}

// Create opens a new vacancy.
func (s *Service) Create(ctx context.Context, title, description, requirements, modality string) (Vacancy, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Vacancy{}, errors.New("title is required")
	}
	v := Vacancy{
		ID:           uuid.NewString(),
		Title:        title,
		Description:  strings.TrimSpace(description),
		Requirements: strings.TrimSpace(requirements),
		Modality:     strings.TrimSpace(modality),
		Active:       true,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.Repo.Create(ctx, v); err != nil {
		return Vacancy{}, err
	}
	return v, nil
}

// Get returns a vacancy by ID.
func (s *Service) Get(ctx context.Context, vacancyID string) (Vacancy, error) {
	if vacancyID == "" {
		return Vacancy{}, errors.New("vacancyID is required")
	}
	return s.Repo.GetByID(ctx, vacancyID)
}

// List returns vacancies newest-first.
func (s *Service) List(ctx context.Context, activeOnly bool, limit, offset int) ([]Vacancy, error) {
	return s.Repo.List(ctx, activeOnly, limit, offset)
}

// Update edits vacancy text fields. Status changes go through Deactivate and
// Reactivate.
func (s *Service) Update(ctx context.Context, v Vacancy) (Vacancy, error) {
	if v.ID == "" {
		return Vacancy{}, errors.New("vacancyID is required")
	}
	if strings.TrimSpace(v.Title) == "" {
		return Vacancy{}, errors.New("title is required")
	}
	if err := s.Repo.Update(ctx, v); err != nil {
		return Vacancy{}, err
	}
	return s.Repo.GetByID(ctx, v.ID)
}

// Deactivate soft-closes a vacancy. Existing applications are untouched.
func (s *Service) Deactivate(ctx context.Context, vacancyID string) error {
	if vacancyID == "" {
		return errors.New("vacancyID is required")
	}
	return s.Repo.SetActive(ctx, vacancyID, false)
}

// Reactivate reopens a vacancy.
func (s *Service) Reactivate(ctx context.Context, vacancyID string) error {
	if vacancyID == "" {
		return errors.New("vacancyID is required")
	}
	return s.Repo.SetActive(ctx, vacancyID, true)
}
