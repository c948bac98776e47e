package extractions

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// GetOrCreateForDocument serializes per-document creation with a row lock on
// the document, then applies the supersede policy.
func (r *PGRepo) GetOrCreateForDocument(ctx context.Context, extraction Extraction, reprocess bool) (Extraction, bool, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return Extraction{}, false, err
	}
	defer tx.Rollback()

	// Serialize per-document to collapse duplicate submissions.
	if _, err := tx.ExecContext(ctx, `SELECT id FROM documents WHERE id = $1 FOR UPDATE`, extraction.DocumentID); err != nil {
		return Extraction{}, false, err
	}

	current, err := currentByDocumentTx(ctx, tx, extraction.DocumentID)
	switch {
	case err == nil:
		keep := false
		switch current.Status {
		case StatusQueued, StatusProcessing:
			keep = true
		case StatusCompleted:
			keep = !reprocess
		case StatusFailed:
			// always superseded
		}
		if keep {
			if err := tx.Commit(); err != nil {
				return Extraction{}, false, err
			}
			return current, false, nil
		}
		if _, err := tx.ExecContext(ctx, `UPDATE extractions SET current = FALSE WHERE id = $1`, current.ID); err != nil {
			return Extraction{}, false, err
		}
		// The dependent current prediction loses its subject.
		if _, err := tx.ExecContext(ctx, `UPDATE predictions SET current = FALSE WHERE extraction_id = $1 AND current`, current.ID); err != nil {
			return Extraction{}, false, err
		}
	case errors.Is(err, ErrNotFound):
	default:
		return Extraction{}, false, err
	}

	if err := createTx(ctx, tx, extraction); err != nil {
		return Extraction{}, false, err
	}
	if err := tx.Commit(); err != nil {
		return Extraction{}, false, err
	}
	return extraction, true, nil
}

func createTx(ctx context.Context, tx *sql.Tx, e Extraction) error {
	const query = `
INSERT INTO extractions (id, document_id, status, current, entity_type, created_at)
VALUES ($1, $2, $3, TRUE, $4, $5)`
	entityType := e.EntityType
	if entityType == "" {
		entityType = "candidate"
	}
	_, err := tx.ExecContext(ctx, query, e.ID, e.DocumentID, e.Status, entityType, e.CreatedAt)
	return err
}

const extractionColumns = `
id, document_id, status, current, full_name, current_role, employer, years_experience,
location, education, skill_categories, skill_tokens, entity_type,
error_code, error_message, error_retryable, processed_at, created_at`

// GetByID returns an extraction by ID.
func (r *PGRepo) GetByID(ctx context.Context, extractionID string) (Extraction, error) {
	query := `SELECT ` + extractionColumns + ` FROM extractions WHERE id = $1 LIMIT 1`
	e, err := scanExtraction(r.DB.QueryRowContext(ctx, query, extractionID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Extraction{}, ErrNotFound
		}
		return Extraction{}, err
	}
	return e, nil
}

// CurrentByDocument returns the current extraction for a document.
func (r *PGRepo) CurrentByDocument(ctx context.Context, documentID string) (Extraction, error) {
	query := `SELECT ` + extractionColumns + ` FROM extractions WHERE document_id = $1 AND current LIMIT 1`
	e, err := scanExtraction(r.DB.QueryRowContext(ctx, query, documentID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Extraction{}, ErrNotFound
		}
		return Extraction{}, err
	}
	return e, nil
}

func currentByDocumentTx(ctx context.Context, tx *sql.Tx, documentID string) (Extraction, error) {
	query := `SELECT ` + extractionColumns + ` FROM extractions WHERE document_id = $1 AND current LIMIT 1`
	e, err := scanExtraction(tx.QueryRowContext(ctx, query, documentID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Extraction{}, ErrNotFound
		}
		return Extraction{}, err
	}
	return e, nil
}

// MarkProcessing transitions a queued extraction to processing.
func (r *PGRepo) MarkProcessing(ctx context.Context, extractionID string) error {
	const query = `UPDATE extractions SET status = $1 WHERE id = $2 AND status = $3`
	res, err := r.DB.ExecContext(ctx, query, StatusProcessing, extractionID, StatusQueued)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Complete stores the extracted profile and marks the row completed.
func (r *PGRepo) Complete(ctx context.Context, e Extraction, processedAt time.Time) error {
	const query = `
UPDATE extractions
SET status = $1, full_name = $2, current_role = $3, employer = $4, years_experience = $5,
    location = $6, education = $7, skill_categories = $8, skill_tokens = $9,
    entity_type = $10, processed_at = $11,
    error_code = NULL, error_message = NULL, error_retryable = NULL
WHERE id = $12`
	categories, err := marshalJSONB(e.SkillCategories)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, query,
		StatusCompleted,
		nullString(e.FullName),
		nullString(e.CurrentRole),
		nullString(e.Employer),
		e.YearsExperience,
		nullString(e.Location),
		nullString(e.Education),
		categories,
		textArray(e.SkillTokens),
		e.EntityType,
		processedAt,
		e.ID,
	)
	return err
}

// Fail records a terminal failure on the extraction.
func (r *PGRepo) Fail(ctx context.Context, extractionID, code, message string, retryable bool, processedAt time.Time) error {
	const query = `
UPDATE extractions
SET status = $1, error_code = $2, error_message = $3, error_retryable = $4, processed_at = $5
WHERE id = $6`
	_, err := r.DB.ExecContext(ctx, query, StatusFailed, code, message, retryable, processedAt, extractionID)
	return err
}

// ListRecentCompleted returns the newest current completed extractions.
func (r *PGRepo) ListRecentCompleted(ctx context.Context, limit int) ([]Extraction, error) {
	if limit <= 0 {
		limit = 100
	}
	query := `SELECT ` + extractionColumns + `
FROM extractions
WHERE current AND status = $1
ORDER BY created_at DESC
LIMIT $2`
	rows, err := r.DB.QueryContext(ctx, query, StatusCompleted, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Extraction
	for rows.Next() {
		e, err := scanExtraction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExtraction(row rowScanner) (Extraction, error) {
	var e Extraction
	var fullName, currentRole, employer, location, education sql.NullString
	var yearsExperience sql.NullInt64
	var categories sql.NullString
	var tokens pgtype.FlatArray[string]
	var errorCode, errorMessage sql.NullString
	var errorRetryable sql.NullBool
	var processedAt sql.NullTime

	m := pgtype.NewMap()
	if err := row.Scan(
		&e.ID,
		&e.DocumentID,
		&e.Status,
		&e.Current,
		&fullName,
		&currentRole,
		&employer,
		&yearsExperience,
		&location,
		&education,
		&categories,
		m.SQLScanner(&tokens),
		&e.EntityType,
		&errorCode,
		&errorMessage,
		&errorRetryable,
		&processedAt,
		&e.CreatedAt,
	); err != nil {
		return Extraction{}, err
	}

	e.FullName = fullName.String
	e.CurrentRole = currentRole.String
	e.Employer = employer.String
	e.YearsExperience = int(yearsExperience.Int64)
	e.Location = location.String
	e.Education = education.String
	e.SkillTokens = tokens
	if categories.Valid && categories.String != "" {
		if err := json.Unmarshal([]byte(categories.String), &e.SkillCategories); err != nil {
			return Extraction{}, err
		}
	}
	e.ErrorCode = errorCode.String
	e.ErrorMessage = errorMessage.String
	if errorRetryable.Valid {
		e.ErrorRetryable = &errorRetryable.Bool
	}
	if processedAt.Valid {
		e.ProcessedAt = &processedAt.Time
	}
	return e, nil
}

func marshalJSONB(v map[string][]string) (any, error) {
	if v == nil {
		return nil, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func textArray(values []string) any {
	if values == nil {
		return nil
	}
	m := pgtype.NewMap()
	buf, err := m.Encode(pgtype.TextArrayOID, pgtype.TextFormatCode, pgtype.FlatArray[string](values), nil)
	if err != nil {
		return nil
	}
	return string(buf)
}

var _ Repo = (*PGRepo)(nil)
