package models

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

const modelColumns = `id, name, version, trained_at, accuracy, active, params, created_at`

func (r *PGRepo) Create(ctx context.Context, model PredictionModel) error {
	const query = `
INSERT INTO prediction_models (id, name, version, trained_at, accuracy, active, params, created_at)
VALUES ($1, $2, $3, $4, $5, FALSE, $6, $7)`
	var params any
	if len(model.Params) > 0 {
		params = string(model.Params)
	}
	_, err := r.DB.ExecContext(ctx, query,
		model.ID, model.Name, model.Version, model.TrainedAt, model.Accuracy, params, model.CreatedAt)
	if db.IsUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, modelID string) (PredictionModel, error) {
	query := `SELECT ` + modelColumns + ` FROM prediction_models WHERE id = $1 LIMIT 1`
	m, err := scanModel(r.DB.QueryRowContext(ctx, query, modelID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return PredictionModel{}, ErrNotFound
		}
		return PredictionModel{}, err
	}
	return m, nil
}

func (r *PGRepo) List(ctx context.Context) ([]PredictionModel, error) {
	query := `SELECT ` + modelColumns + ` FROM prediction_models ORDER BY name, created_at DESC`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PredictionModel
	for rows.Next() {
		m, err := scanModel(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *PGRepo) Activate(ctx context.Context, modelID string) (PredictionModel, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return PredictionModel{}, err
	}
	defer tx.Rollback()

	var name string
	if err := tx.QueryRowContext(ctx, `SELECT name FROM prediction_models WHERE id = $1 FOR UPDATE`, modelID).Scan(&name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return PredictionModel{}, ErrNotFound
		}
		return PredictionModel{}, err
	}
	if _, err := tx.ExecContext(ctx, `UPDATE prediction_models SET active = FALSE WHERE name = $1 AND active`, name); err != nil {
		return PredictionModel{}, err
	}
	if _, err := tx.ExecContext(ctx, `UPDATE prediction_models SET active = TRUE WHERE id = $1`, modelID); err != nil {
		return PredictionModel{}, err
	}
	query := `SELECT ` + modelColumns + ` FROM prediction_models WHERE id = $1`
	m, err := scanModel(tx.QueryRowContext(ctx, query, modelID))
	if err != nil {
		return PredictionModel{}, err
	}
	if err := tx.Commit(); err != nil {
		return PredictionModel{}, err
	}
	return m, nil
}

func (r *PGRepo) Deactivate(ctx context.Context, modelID string) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE prediction_models SET active = FALSE WHERE id = $1`, modelID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) ActiveByName(ctx context.Context, name string) (PredictionModel, error) {
	query := `SELECT ` + modelColumns + ` FROM prediction_models WHERE name = $1 AND active LIMIT 1`
	m, err := scanModel(r.DB.QueryRowContext(ctx, query, name))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return PredictionModel{}, ErrNoActive
		}
		return PredictionModel{}, err
	}
	return m, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanModel(row rowScanner) (PredictionModel, error) {
	var m PredictionModel
	var trainedAt sql.NullTime
	var accuracy sql.NullFloat64
	var params sql.NullString
	if err := row.Scan(&m.ID, &m.Name, &m.Version, &trainedAt, &accuracy, &m.Active, &params, &m.CreatedAt); err != nil {
		return PredictionModel{}, err
	}
	if trainedAt.Valid {
		m.TrainedAt = &trainedAt.Time
	}
	if accuracy.Valid {
		m.Accuracy = &accuracy.Float64
	}
	if params.Valid && params.String != "" {
		m.Params = []byte(params.String)
	}
	return m, nil
}

var _ Repo = (*PGRepo)(nil)
