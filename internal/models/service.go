package models

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"talent-backend/internal/shared/telemetry"
)

// Service contains business logic for prediction model administration.
type Service struct {
	Repo Repo
}

// Register records a new model version. Versions start inactive; activation
// is an explicit second step.
func (s *Service) Register(ctx context.Context, name, version string, trainedAt *time.Time, accuracy *float64, params json.RawMessage) (PredictionModel, error) {
	name = strings.TrimSpace(name)
	version = strings.TrimSpace(version)
	if name == "" || version == "" {
		return PredictionModel{}, errors.New("name and version are required")
	}
	if accuracy != nil && (*accuracy < 0 || *accuracy > 1) {
		return PredictionModel{}, errors.New("accuracy must be within [0, 1]")
	}
	if len(params) > 0 && !json.Valid(params) {
		return PredictionModel{}, errors.New("params must be valid JSON")
	}

	model := PredictionModel{
		ID:        uuid.NewString(),
		Name:      name,
		Version:   version,
		TrainedAt: trainedAt,
		Accuracy:  accuracy,
		Params:    params,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.Repo.Create(ctx, model); err != nil {
		return PredictionModel{}, err
	}
	return model, nil
}

// Get returns a model by ID.
func (s *Service) Get(ctx context.Context, modelID string) (PredictionModel, error) {
	if modelID == "" {
		return PredictionModel{}, errors.New("modelID is required")
	}
	return s.Repo.GetByID(ctx, modelID)
}

// List returns all registered model versions.
func (s *Service) List(ctx context.Context) ([]PredictionModel, error) {
	return s.Repo.List(ctx)
}

// Activate makes the target version the active one for its name. Any other
// active version of the same name is deactivated in the same transaction.
func (s *Service) Activate(ctx context.Context, modelID string) (PredictionModel, error) {
	if modelID == "" {
		return PredictionModel{}, errors.New("modelID is required")
	}
	model, err := s.Repo.Activate(ctx, modelID)
	if err != nil {
		return PredictionModel{}, err
	}
	telemetry.Info("model.activated", map[string]any{
		"model_id": model.ID,
		"name":     model.Name,
		"version":  model.Version,
	})
	return model, nil
}

// Deactivate clears the active flag, leaving the name with no active version.
func (s *Service) Deactivate(ctx context.Context, modelID string) error {
	if modelID == "" {
		return errors.New("modelID is required")
	}
	return s.Repo.Deactivate(ctx, modelID)
}

// Active resolves the active version of a model family.
func (s *Service) Active(ctx context.Context, name string) (PredictionModel, error) {
	if name == "" {
		name = DefaultModelName
	}
	return s.Repo.ActiveByName(ctx, name)
}
