package surveys

import "context"

// Repo defines persistence operations for surveys and their responses.
type Repo interface {
	CreateSurvey(ctx context.Context, survey Survey) error
	GetSurvey(ctx context.Context, surveyID string) (Survey, error)
	ListSurveys(ctx context.Context, activeOnly bool) ([]Survey, error)
	SetSurveyActive(ctx context.Context, surveyID string, active bool) error

	// CreateResponse inserts atomically; the (survey, respondent) constraint
	// is the only duplicate guard. A losing concurrent writer gets
	// ErrDuplicateResponse.
	CreateResponse(ctx context.Context, response Response) error
	GetResponse(ctx context.Context, responseID string) (Response, error)
	ListResponses(ctx context.Context, surveyID string) ([]Response, error)
}
