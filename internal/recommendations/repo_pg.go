package recommendations

import (
	"context"
	"database/sql"
	"errors"
)

// aggregationLockKey identifies the advisory lock serializing aggregation
// runs across processes.
const aggregationLockKey = 74201

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) CreateBatch(ctx context.Context, recs []Recommendation) error {
	if len(recs) == 0 {
		return nil
	}
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const insert = `
INSERT INTO recommendations (id, batch_id, type, priority, title, description, user_id, rank, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	for _, rec := range recs {
		var userID any
		if rec.UserID != "" {
			userID = rec.UserID
		}
		if _, err := tx.ExecContext(ctx, insert,
			rec.ID, rec.BatchID, rec.Type, rec.Priority, rec.Title,
			rec.Description, userID, rec.Rank, rec.CreatedAt); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *PGRepo) LatestBatch(ctx context.Context) (Batch, error) {
	var batchID string
	err := r.DB.QueryRowContext(ctx,
		`SELECT batch_id FROM recommendations ORDER BY created_at DESC, batch_id LIMIT 1`).Scan(&batchID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Batch{}, ErrNotFound
		}
		return Batch{}, err
	}
	return r.GetBatch(ctx, batchID)
}

func (r *PGRepo) GetBatch(ctx context.Context, batchID string) (Batch, error) {
	const query = `
SELECT id, batch_id, type, priority, title, description, user_id, rank, created_at
FROM recommendations
WHERE batch_id = $1
ORDER BY rank`
	rows, err := r.DB.QueryContext(ctx, query, batchID)
	if err != nil {
		return Batch{}, err
	}
	defer rows.Close()

	var batch Batch
	for rows.Next() {
		var rec Recommendation
		var userID sql.NullString
		if err := rows.Scan(&rec.ID, &rec.BatchID, &rec.Type, &rec.Priority,
			&rec.Title, &rec.Description, &userID, &rec.Rank, &rec.CreatedAt); err != nil {
			return Batch{}, err
		}
		rec.UserID = userID.String
		batch.Recommendations = append(batch.Recommendations, rec)
	}
	if err := rows.Err(); err != nil {
		return Batch{}, err
	}
	if len(batch.Recommendations) == 0 {
		return Batch{}, ErrNotFound
	}
	batch.ID = batchID
	batch.GeneratedAt = batch.Recommendations[0].CreatedAt
	return batch, nil
}

// TryRunLock takes a session-level advisory lock. The lock lives on a
// dedicated connection so release happens in the same session.
func (r *PGRepo) TryRunLock(ctx context.Context) (func(), bool, error) {
	conn, err := r.DB.Conn(ctx)
	if err != nil {
		return nil, false, err
	}
	var ok bool
	if err := conn.QueryRowContext(ctx, `SELECT pg_try_advisory_lock($1)`, aggregationLockKey).Scan(&ok); err != nil {
		conn.Close()
		return nil, false, err
	}
	if !ok {
		conn.Close()
		return nil, false, nil
	}
	release := func() {
		_, _ = conn.ExecContext(context.Background(), `SELECT pg_advisory_unlock($1)`, aggregationLockKey)
		conn.Close()
	}
	return release, true, nil
}

var _ Repo = (*PGRepo)(nil)
