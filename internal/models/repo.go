package models

import "context"

// Repo defines persistence operations for prediction models.
type Repo interface {
	Create(ctx context.Context, model PredictionModel) error
	GetByID(ctx context.Context, modelID string) (PredictionModel, error)
	List(ctx context.Context) ([]PredictionModel, error)
	// Activate atomically clears the active flag for every version of the
	// model's name and sets it on the target.
	Activate(ctx context.Context, modelID string) (PredictionModel, error)
	Deactivate(ctx context.Context, modelID string) error
	// ActiveByName returns the active version of a model family, or ErrNoActive.
	ActiveByName(ctx context.Context, name string) (PredictionModel, error)
}
