package vacancies

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const vacancyColumns = `id, title, description, requirements, modality, active, created_at`

func (r *PGRepo) Create(ctx context.Context, v Vacancy) error {
	const query = `
INSERT INTO vacancies (id, title, description, requirements, modality, active, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.DB.ExecContext(ctx, query,
		v.ID, v.Title, v.Description, v.Requirements, v.Modality, v.Active, v.CreatedAt)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, vacancyID string) (Vacancy, error) {
	query := `SELECT ` + vacancyColumns + ` FROM vacancies WHERE id = $1 LIMIT 1`
	v, err := scanVacancy(r.DB.QueryRowContext(ctx, query, vacancyID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Vacancy{}, ErrNotFound
		}
		return Vacancy{}, err
	}
	return v, nil
}

func (r *PGRepo) List(ctx context.Context, activeOnly bool, limit, offset int) ([]Vacancy, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	query := `SELECT ` + vacancyColumns + ` FROM vacancies`
	if activeOnly {
		query += ` WHERE active`
	}
	query += ` ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Vacancy
	for rows.Next() {
		v, err := scanVacancy(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *PGRepo) Update(ctx context.Context, v Vacancy) error {
	const query = `
UPDATE vacancies SET title = $1, description = $2, requirements = $3, modality = $4
WHERE id = $5`
	res, err := r.DB.ExecContext(ctx, query, v.Title, v.Description, v.Requirements, v.Modality, v.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) SetActive(ctx context.Context, vacancyID string, active bool) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE vacancies SET active = $1 WHERE id = $2`, active, vacancyID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVacancy(row rowScanner) (Vacancy, error) {
	var v Vacancy
	if err := row.Scan(&v.ID, &v.Title, &v.Description, &v.Requirements, &v.Modality, &v.Active, &v.CreatedAt); err != nil {
		return Vacancy{}, err
	}
	return v, nil
}

var _ Repo = (*PGRepo)(nil)
