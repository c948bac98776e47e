package models

import (
	"encoding/json"
	"time"
)

// PredictionModel describes a scoring model version. At most one version per
// name is active at a time; the active one is what the scoring engine uses.
type PredictionModel struct {
	ID        string
	Name      string
	Version   string
	TrainedAt *time.Time
	Accuracy  *float64
	Active    bool
	Params    json.RawMessage
	CreatedAt time.Time
}

// DefaultModelName is the model family the scoring engine resolves when the
// caller does not name one.
const DefaultModelName = "hiring-success"
