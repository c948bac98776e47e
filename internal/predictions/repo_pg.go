package predictions

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const predictionColumns = `
id, extraction_id, model_id, model_version, status, current, probability, factors,
error_code, error_message, error_retryable, scored_at, created_at`

func (r *PGRepo) GetOrCreateForExtraction(ctx context.Context, prediction Prediction, rescore bool) (Prediction, bool, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return Prediction{}, false, err
	}
	defer tx.Rollback()

	// Serialize per-extraction to collapse duplicate scoring requests.
	if _, err := tx.ExecContext(ctx, `SELECT id FROM extractions WHERE id = $1 FOR UPDATE`, prediction.ExtractionID); err != nil {
		return Prediction{}, false, err
	}

	current, err := currentByExtractionTx(ctx, tx, prediction.ExtractionID)
	switch {
	case err == nil:
		keep := false
		switch current.Status {
		case StatusQueued, StatusProcessing:
			keep = true
		case StatusCompleted:
			keep = !rescore
		}
		if keep {
			if err := tx.Commit(); err != nil {
				return Prediction{}, false, err
			}
			return current, false, nil
		}
		if _, err := tx.ExecContext(ctx, `UPDATE predictions SET current = FALSE WHERE id = $1`, current.ID); err != nil {
			return Prediction{}, false, err
		}
	case errors.Is(err, ErrNotFound):
	default:
		return Prediction{}, false, err
	}

	const insert = `
INSERT INTO predictions (id, extraction_id, model_id, model_version, status, current, created_at)
VALUES ($1, $2, $3, $4, $5, TRUE, $6)`
	if _, err := tx.ExecContext(ctx, insert,
		prediction.ID, prediction.ExtractionID, prediction.ModelID,
		prediction.ModelVersion, prediction.Status, prediction.CreatedAt); err != nil {
		return Prediction{}, false, err
	}
	if err := tx.Commit(); err != nil {
		return Prediction{}, false, err
	}
	return prediction, true, nil
}

func (r *PGRepo) GetByID(ctx context.Context, predictionID string) (Prediction, error) {
	query := `SELECT ` + predictionColumns + ` FROM predictions WHERE id = $1 LIMIT 1`
	p, err := scanPrediction(r.DB.QueryRowContext(ctx, query, predictionID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Prediction{}, ErrNotFound
		}
		return Prediction{}, err
	}
	return p, nil
}

func (r *PGRepo) CurrentByExtraction(ctx context.Context, extractionID string) (Prediction, error) {
	query := `SELECT ` + predictionColumns + ` FROM predictions WHERE extraction_id = $1 AND current LIMIT 1`
	p, err := scanPrediction(r.DB.QueryRowContext(ctx, query, extractionID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Prediction{}, ErrNotFound
		}
		return Prediction{}, err
	}
	return p, nil
}

func currentByExtractionTx(ctx context.Context, tx *sql.Tx, extractionID string) (Prediction, error) {
	query := `SELECT ` + predictionColumns + ` FROM predictions WHERE extraction_id = $1 AND current LIMIT 1`
	p, err := scanPrediction(tx.QueryRowContext(ctx, query, extractionID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Prediction{}, ErrNotFound
		}
		return Prediction{}, err
	}
	return p, nil
}

func (r *PGRepo) MarkProcessing(ctx context.Context, predictionID string) error {
	const query = `UPDATE predictions SET status = $1 WHERE id = $2 AND status = $3`
	res, err := r.DB.ExecContext(ctx, query, StatusProcessing, predictionID, StatusQueued)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) Complete(ctx context.Context, predictionID string, probability float64, factors []string, scoredAt time.Time) error {
	const query = `
UPDATE predictions
SET status = $1, probability = $2, factors = $3, scored_at = $4,
    error_code = NULL, error_message = NULL, error_retryable = NULL
WHERE id = $5`
	_, err := r.DB.ExecContext(ctx, query, StatusCompleted, probability, textArray(factors), scoredAt, predictionID)
	return err
}

func (r *PGRepo) Fail(ctx context.Context, predictionID, code, message string, retryable bool, scoredAt time.Time) error {
	const query = `
UPDATE predictions
SET status = $1, error_code = $2, error_message = $3, error_retryable = $4, scored_at = $5
WHERE id = $6`
	_, err := r.DB.ExecContext(ctx, query, StatusFailed, code, message, retryable, scoredAt, predictionID)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPrediction(row rowScanner) (Prediction, error) {
	var p Prediction
	var probability sql.NullFloat64
	var factors pgtype.FlatArray[string]
	var errorCode, errorMessage sql.NullString
	var errorRetryable sql.NullBool
	var scoredAt sql.NullTime

	m := pgtype.NewMap()
	if err := row.Scan(
		&p.ID,
		&p.ExtractionID,
		&p.ModelID,
		&p.ModelVersion,
		&p.Status,
		&p.Current,
		&probability,
		m.SQLScanner(&factors),
		&errorCode,
		&errorMessage,
		&errorRetryable,
		&scoredAt,
		&p.CreatedAt,
	); err != nil {
		return Prediction{}, err
	}

	if probability.Valid {
		p.Probability = &probability.Float64
	}
	p.Factors = factors
	p.ErrorCode = errorCode.String
	p.ErrorMessage = errorMessage.String
	if errorRetryable.Valid {
		p.ErrorRetryable = &errorRetryable.Bool
	}
	if scoredAt.Valid {
		p.ScoredAt = &scoredAt.Time
	}
	return p, nil
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
