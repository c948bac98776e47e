package surveys

import (
	"context"
	"database/sql"
	"errors"

	"talent-backend/internal/shared/storage/db"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) CreateSurvey(ctx context.Context, s Survey) error {
	const query = `
INSERT INTO surveys (id, title, survey_type, questions, active, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.DB.ExecContext(ctx, query,
		s.ID, s.Title, s.Type, string(s.Questions), s.Active, s.CreatedAt)
	return err
}

func (r *PGRepo) GetSurvey(ctx context.Context, surveyID string) (Survey, error) {
	const query = `SELECT id, title, survey_type, questions, active, created_at FROM surveys WHERE id = $1 LIMIT 1`
	s, err := scanSurvey(r.DB.QueryRowContext(ctx, query, surveyID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Survey{}, ErrNotFound
		}
		return Survey{}, err
	}
	return s, nil
}

func (r *PGRepo) ListSurveys(ctx context.Context, activeOnly bool) ([]Survey, error) {
	query := `SELECT id, title, survey_type, questions, active, created_at FROM surveys`
	if activeOnly {
		query += ` WHERE active`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Survey
	for rows.Next() {
		s, err := scanSurvey(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *PGRepo) SetSurveyActive(ctx context.Context, surveyID string, active bool) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE surveys SET active = $1 WHERE id = $2`, active, surveyID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) CreateResponse(ctx context.Context, resp Response) error {
	const query = `
INSERT INTO survey_responses (id, survey_id, respondent_id, answers, extraction_id, performance_rating, accuracy_error, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	var extractionID any
	if resp.ExtractionID != "" {
		extractionID = resp.ExtractionID
	}
	_, err := r.DB.ExecContext(ctx, query,
		resp.ID, resp.SurveyID, resp.RespondentID, string(resp.Answers),
		extractionID, resp.PerformanceRating, resp.AccuracyError, resp.CreatedAt)
	if db.IsUniqueViolation(err) {
		return ErrDuplicateResponse
	}
	return err
}

const responseColumns = `id, survey_id, respondent_id, answers, extraction_id, performance_rating, accuracy_error, created_at`

func (r *PGRepo) GetResponse(ctx context.Context, responseID string) (Response, error) {
	query := `SELECT ` + responseColumns + ` FROM survey_responses WHERE id = $1 LIMIT 1`
	resp, err := scanResponse(r.DB.QueryRowContext(ctx, query, responseID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Response{}, ErrResponseNotFound
		}
		return Response{}, err
	}
	return resp, nil
}

func (r *PGRepo) ListResponses(ctx context.Context, surveyID string) ([]Response, error) {
	query := `SELECT ` + responseColumns + ` FROM survey_responses WHERE survey_id = $1 ORDER BY created_at DESC`
	rows, err := r.DB.QueryContext(ctx, query, surveyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Response
	for rows.Next() {
		resp, err := scanResponse(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, resp)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSurvey(row rowScanner) (Survey, error) {
	var s Survey
	var questions string
	if err := row.Scan(&s.ID, &s.Title, &s.Type, &questions, &s.Active, &s.CreatedAt); err != nil {
		return Survey{}, err
	}
	s.Questions = []byte(questions)
	return s, nil
}

func scanResponse(row rowScanner) (Response, error) {
	var resp Response
	var answers string
	var extractionID sql.NullString
	var rating, accuracy sql.NullFloat64
	if err := row.Scan(&resp.ID, &resp.SurveyID, &resp.RespondentID, &answers,
		&extractionID, &rating, &accuracy, &resp.CreatedAt); err != nil {
		return Response{}, err
	}
	resp.Answers = []byte(answers)
	resp.ExtractionID = extractionID.String
	if rating.Valid {
		resp.PerformanceRating = &rating.Float64
	}
	if accuracy.Valid {
		resp.AccuracyError = &accuracy.Float64
	}
	return resp, nil
}

var _ Repo = (*PGRepo)(nil)
