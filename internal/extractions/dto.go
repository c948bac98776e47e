package extractions

import "time"

// ExtractionResponse is the API shape for an extraction.
type ExtractionResponse struct {
	ID         string `json:"id"`
	DocumentID string `json:"documentId"`
	Status     string `json:"status"`
	Current    bool   `json:"current"`

	Profile *ProfileResponse `json:"profile,omitempty"`
	Error   *ErrorDetail     `json:"error,omitempty"`

	ProcessedAt *time.Time `json:"processedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// ProfileResponse carries the extracted profile fields for completed rows.
type ProfileResponse struct {
	FullName        string              `json:"fullName,omitempty"`
	CurrentRole     string              `json:"currentRole,omitempty"`
	Employer        string              `json:"employer,omitempty"`
	YearsExperience int                 `json:"yearsExperience"`
	Location        string              `json:"location,omitempty"`
	Education       string              `json:"education,omitempty"`
	SkillCategories map[string][]string `json:"skillCategories,omitempty"`
	SkillTokens     []string            `json:"skillTokens,omitempty"`
	EntityType      string              `json:"entityType"`
}

// ErrorDetail describes a failed extraction.
type ErrorDetail struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable"`
}

func toResponse(e Extraction) ExtractionResponse {
	resp := ExtractionResponse{
		ID:          e.ID,
		DocumentID:  e.DocumentID,
		Status:      e.Status,
		Current:     e.Current,
		ProcessedAt: e.ProcessedAt,
		CreatedAt:   e.CreatedAt,
	}
	if e.Status == StatusCompleted {
		resp.Profile = &ProfileResponse{
			FullName:        e.FullName,
			CurrentRole:     e.CurrentRole,
			Employer:        e.Employer,
			YearsExperience: e.YearsExperience,
			Location:        e.Location,
			Education:       e.Education,
			SkillCategories: e.SkillCategories,
			SkillTokens:     e.SkillTokens,
			EntityType:      e.EntityType,
		}
	}
	if e.Status == StatusFailed && e.ErrorCode != "" {
		retryable := false
		if e.ErrorRetryable != nil {
			retryable = *e.ErrorRetryable
		}
		resp.Error = &ErrorDetail{Code: e.ErrorCode, Message: e.ErrorMessage, Retryable: retryable}
	}
	return resp
}
