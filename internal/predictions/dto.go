package predictions

import "time"

// PredictionResponse is the API shape for a prediction.
type PredictionResponse struct {
	ID           string `json:"id"`
	ExtractionID string `json:"extractionId"`
	ModelVersion string `json:"modelVersion"`
	Status       string `json:"status"`
	Current      bool   `json:"current"`

	Probability *float64 `json:"probability,omitempty"`
	Factors     []string `json:"factors,omitempty"`

	Error *ErrorDetail `json:"error,omitempty"`

	ScoredAt  *time.Time `json:"scoredAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

// ErrorDetail describes a failed prediction.
type ErrorDetail struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable"`
}

func toResponse(p Prediction) PredictionResponse {
	resp := PredictionResponse{
		ID:           p.ID,
		ExtractionID: p.ExtractionID,
		ModelVersion: p.ModelVersion,
		Status:       p.Status,
		Current:      p.Current,
		Probability:  p.Probability,
		Factors:      p.Factors,
		ScoredAt:     p.ScoredAt,
		CreatedAt:    p.CreatedAt,
	}
	if p.Status == StatusFailed && p.ErrorCode != "" {
		retryable := false
		if p.ErrorRetryable != nil {
			retryable = *p.ErrorRetryable
		}
		resp.Error = &ErrorDetail{Code: p.ErrorCode, Message: p.ErrorMessage, Retryable: retryable}
	}
	return resp
}
