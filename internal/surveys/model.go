package surveys

import (
	"encoding/json"
	"time"
)

// Survey defines a questionnaire. Questions are an ordered JSON list of
// {id, text, options} objects; the pipeline treats them as opaque.
type Survey struct {
	ID        string
	Title     string
	Type      string
	Questions json.RawMessage
	Active    bool
	CreatedAt time.Time
}

// Response is one respondent's answers to a survey. At most one exists per
// (survey, respondent) pair. When a performance rating and a linked
// extraction's current prediction both exist, AccuracyError holds
// predicted probability minus observed rating on the 0-100 scale.
type Response struct {
	ID                string
	SurveyID          string
	RespondentID      string
	Answers           json.RawMessage
	ExtractionID      string
	PerformanceRating *float64
	AccuracyError     *float64
	CreatedAt         time.Time
}
