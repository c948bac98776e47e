package applications

import "time"

// ApplicationResponse is the API shape for an application.
type ApplicationResponse struct {
	ID           string    `json:"id"`
	CandidateID  string    `json:"candidateId"`
	VacancyID    string    `json:"vacancyId"`
	ExtractionID string    `json:"extractionId,omitempty"`
	Status       string    `json:"status"`
	RecruiterID  string    `json:"recruiterId,omitempty"`
	Feedback     string    `json:"feedback,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func toResponse(a Application) ApplicationResponse {
	return ApplicationResponse{
		ID:           a.ID,
		CandidateID:  a.CandidateID,
		VacancyID:    a.VacancyID,
		ExtractionID: a.ExtractionID,
		Status:       a.Status,
		RecruiterID:  a.RecruiterID,
		Feedback:     a.Feedback,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}
