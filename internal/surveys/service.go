package surveys

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"talent-backend/internal/predictions"
	"talent-backend/internal/shared/telemetry"
)

// Service records survey responses and computes the calibration signal that
// closes the feedback loop.
type Service struct {
	Repo        Repo
	Predictions predictions.Repo
}

// CreateSurvey defines a new questionnaire.
func (s *Service) CreateSurvey(ctx context.Context, title, surveyType string, questions json.RawMessage) (Survey, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Survey{}, errors.New("title is required")
	}
	if len(questions) == 0 || !json.Valid(questions) {
		return Survey{}, errors.New("questions must be valid JSON")
	}
	survey := Survey{
		ID:        uuid.NewString(),
		Title:     title,
		Type:      strings.TrimSpace(surveyType),
		Questions: questions,
		Active:    true,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.Repo.CreateSurvey(ctx, survey); err != nil {
		return Survey{}, err
	}
	return survey, nil
}

// GetSurvey returns a survey by ID.
func (s *Service) GetSurvey(ctx context.Context, surveyID string) (Survey, error) {
	if surveyID == "" {
		return Survey{}, errors.New("surveyID is required")
	}
	return s.Repo.GetSurvey(ctx, surveyID)
}

// ListSurveys returns surveys newest-first.
func (s *Service) ListSurveys(ctx context.Context, activeOnly bool) ([]Survey, error) {
	return s.Repo.ListSurveys(ctx, activeOnly)
}

// CloseSurvey deactivates a survey; existing responses are untouched.
func (s *Service) CloseSurvey(ctx context.Context, surveyID string) error {
	if surveyID == "" {
		return errors.New("surveyID is required")
	}
	return s.Repo.SetSurveyActive(ctx, surveyID, false)
}

// Respond records one respondent's answers. The insert is atomic against the
// (survey, respondent) constraint. When a rating and a linked extraction's
// current completed prediction both exist, the accuracy error is computed and
// stored on the row; the prediction itself is never modified.
func (s *Service) Respond(ctx context.Context, surveyID, respondentID string, answers json.RawMessage, extractionID string, rating *float64) (Response, error) {
	if surveyID == "" || respondentID == "" {
		return Response{}, errors.New("surveyID and respondentID are required")
	}
	if len(answers) == 0 || !json.Valid(answers) {
		return Response{}, errors.New("answers must be valid JSON")
	}
	if rating != nil && (*rating < 0 || *rating > 100) {
		return Response{}, errors.New("performance rating must be within [0, 100]")
	}

	survey, err := s.Repo.GetSurvey(ctx, surveyID)
	if err != nil {
		return Response{}, err
	}
	if !survey.Active {
		return Response{}, ErrInactive
	}

	response := Response{
		ID:                uuid.NewString(),
		SurveyID:          surveyID,
		RespondentID:      respondentID,
		Answers:           answers,
		ExtractionID:      extractionID,
		PerformanceRating: rating,
		CreatedAt:         time.Now().UTC(),
	}

	if rating != nil && extractionID != "" && s.Predictions != nil {
		if pred, err := s.Predictions.CurrentByExtraction(ctx, extractionID); err == nil &&
			pred.Status == predictions.StatusCompleted && pred.Probability != nil {
			accuracyError := *pred.Probability - *rating
			response.AccuracyError = &accuracyError
		}
	}

	if err := s.Repo.CreateResponse(ctx, response); err != nil {
		return Response{}, err
	}
	telemetry.Info("survey.response", map[string]any{
		"survey_id":   surveyID,
		"response_id": response.ID,
		"calibrated":  response.AccuracyError != nil,
	})
	return response, nil
}

// ListResponses returns a survey's responses for evaluation reporting.
func (s *Service) ListResponses(ctx context.Context, surveyID string) ([]Response, error) {
	if surveyID == "" {
		return nil, errors.New("surveyID is required")
	}
	if _, err := s.Repo.GetSurvey(ctx, surveyID); err != nil {
		return nil, err
	}
	return s.Repo.ListResponses(ctx, surveyID)
}
