package applications

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"talent-backend/internal/shared/storage/db"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const applicationColumns = `
id, candidate_id, vacancy_id, extraction_id, status, recruiter_id, feedback, created_at, updated_at`

func (r *PGRepo) Create(ctx context.Context, app Application) error {
	const query = `
INSERT INTO applications (id, candidate_id, vacancy_id, extraction_id, status, recruiter_id, feedback, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.DB.ExecContext(ctx, query,
		app.ID, app.CandidateID, app.VacancyID, nullString(app.ExtractionID),
		app.Status, nullString(app.RecruiterID), nullString(app.Feedback),
		app.CreatedAt, app.UpdatedAt)
	if db.IsUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, applicationID string) (Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE id = $1 LIMIT 1`
	app, err := scanApplication(r.DB.QueryRowContext(ctx, query, applicationID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Application{}, ErrNotFound
		}
		return Application{}, err
	}
	return app, nil
}

func (r *PGRepo) ListByCandidate(ctx context.Context, candidateID string, limit, offset int) ([]Application, error) {
	query := `SELECT ` + applicationColumns + `
FROM applications WHERE candidate_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	return r.list(ctx, query, candidateID, limit, offset)
}

func (r *PGRepo) ListByVacancy(ctx context.Context, vacancyID string, limit, offset int) ([]Application, error) {
	query := `SELECT ` + applicationColumns + `
FROM applications WHERE vacancy_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	return r.list(ctx, query, vacancyID, limit, offset)
}

func (r *PGRepo) list(ctx context.Context, query, key string, limit, offset int) ([]Application, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := r.DB.QueryContext(ctx, query, key, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Application
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, app)
	}
	return out, rows.Err()
}

// Transition is guarded by the current status in the WHERE clause so a stale
// reviewer loses deterministically.
func (r *PGRepo) Transition(ctx context.Context, applicationID, fromStatus, toStatus, recruiterID, feedback string) (Application, error) {
	const query = `
UPDATE applications
SET status = $1,
    recruiter_id = COALESCE($2, recruiter_id),
    feedback = COALESCE($3, feedback),
    updated_at = $4
WHERE id = $5 AND status = $6`
	res, err := r.DB.ExecContext(ctx, query,
		toStatus, nullString(recruiterID), nullString(feedback),
		time.Now().UTC(), applicationID, fromStatus)
	if err != nil {
		return Application{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Either the row is gone or its status moved under us.
		if _, getErr := r.GetByID(ctx, applicationID); errors.Is(getErr, ErrNotFound) {
			return Application{}, ErrNotFound
		}
		return Application{}, ErrInvalidTransition
	}
	return r.GetByID(ctx, applicationID)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanApplication(row rowScanner) (Application, error) {
	var app Application
	var extractionID, recruiterID, feedback sql.NullString
	if err := row.Scan(&app.ID, &app.CandidateID, &app.VacancyID, &extractionID,
		&app.Status, &recruiterID, &feedback, &app.CreatedAt, &app.UpdatedAt); err != nil {
		return Application{}, err
	}
	app.ExtractionID = extractionID.String
	app.RecruiterID = recruiterID.String
	app.Feedback = feedback.String
	return app, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

var _ Repo = (*PGRepo)(nil)
