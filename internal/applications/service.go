package applications

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"talent-backend/internal/shared/telemetry"
	"talent-backend/internal/vacancies"
)

// Service drives the application lifecycle.
type Service struct {
	Repo      Repo
	Vacancies vacancies.Repo
}

// Apply creates an application in the submitted state. The uniqueness of
// (candidate, vacancy) is left to the storage constraint so concurrent
// double-submission resolves to one stored row and one ErrDuplicate.
func (s *Service) Apply(ctx context.Context, candidateID, vacancyID, extractionID string) (Application, error) {
	if candidateID == "" || vacancyID == "" {
		return Application{}, errors.New("candidateID and vacancyID are required")
	}

	vacancy, err := s.Vacancies.GetByID(ctx, vacancyID)
	if err != nil {
		return Application{}, err
	}
	if !vacancy.Active {
		return Application{}, vacancies.ErrInactive
	}

	now := time.Now().UTC()
	app := Application{
		ID:           uuid.NewString(),
		CandidateID:  candidateID,
		VacancyID:    vacancyID,
		ExtractionID: extractionID,
		Status:       StatusSubmitted,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Repo.Create(ctx, app); err != nil {
		return Application{}, err
	}
	telemetry.Info("application.created", map[string]any{
		"application_id": app.ID,
		"vacancy_id":     vacancyID,
	})
	return app, nil
}

// Get returns an application by ID.
func (s *Service) Get(ctx context.Context, applicationID string) (Application, error) {
	if applicationID == "" {
		return Application{}, errors.New("applicationID is required")
	}
	return s.Repo.GetByID(ctx, applicationID)
}

// ListByCandidate returns a candidate's applications newest-first.
func (s *Service) ListByCandidate(ctx context.Context, candidateID string, limit, offset int) ([]Application, error) {
	if candidateID == "" {
		return nil, errors.New("candidateID is required")
	}
	return s.Repo.ListByCandidate(ctx, candidateID, limit, offset)
}

// ListByVacancy returns a vacancy's applications newest-first.
func (s *Service) ListByVacancy(ctx context.Context, vacancyID string, limit, offset int) ([]Application, error) {
	if vacancyID == "" {
		return nil, errors.New("vacancyID is required")
	}
	return s.Repo.ListByVacancy(ctx, vacancyID, limit, offset)
}

// Transition moves an application along the lifecycle. Feedback may be
// attached on any transition; the recruiter making the change is recorded.
func (s *Service) Transition(ctx context.Context, applicationID, toStatus, recruiterID, feedback string) (Application, error) {
	if applicationID == "" {
		return Application{}, errors.New("applicationID is required")
	}
	toStatus = strings.TrimSpace(toStatus)
	if !ValidStatus(toStatus) {
		return Application{}, ErrInvalidTransition
	}

	current, err := s.Repo.GetByID(ctx, applicationID)
	if err != nil {
		return Application{}, err
	}
	if !CanTransition(current.Status, toStatus) {
		return Application{}, ErrInvalidTransition
	}

	updated, err := s.Repo.Transition(ctx, applicationID, current.Status, toStatus, recruiterID, feedback)
	if err != nil {
		return Application{}, err
	}
	telemetry.Info("application.status", map[string]any{
		"application_id":    updated.ID,
		"status":            updated.Status,
		"status_transition": current.Status + "->" + updated.Status,
	})
	return updated, nil
}
