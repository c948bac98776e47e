package documents

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new document.
func (r *PGRepo) Create(ctx context.Context, doc Document) error {
	const query = `
INSERT INTO documents (id, uploader_id, file_name, mime_type, size_bytes, storage_key, raw_text_key, raw_text_at, created_at)
VALUES ($1, $2, $3, $4, $5, $6, NULL, NULL, $7)`
	_, err := r.DB.ExecContext(ctx, query,
		doc.ID,
		doc.UploaderID,
		doc.FileName,
		doc.MimeType,
		doc.SizeBytes,
		doc.StorageKey,
		doc.CreatedAt,
	)
	return err
}

// GetByID fetches a document by ID.
func (r *PGRepo) GetByID(ctx context.Context, documentID string) (Document, error) {
	const query = `
SELECT id, uploader_id, file_name, mime_type, size_bytes, storage_key, raw_text_key, raw_text_at, created_at
FROM documents
WHERE id = $1
LIMIT 1`
	doc, err := scanDocument(r.DB.QueryRowContext(ctx, query, documentID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Document{}, ErrNotFound
		}
		return Document{}, err
	}
	return doc, nil
}

// ListByUploader lists documents ordered newest-first.
func (r *PGRepo) ListByUploader(ctx context.Context, uploaderID string, limit, offset int) ([]Document, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
SELECT id, uploader_id, file_name, mime_type, size_bytes, storage_key, raw_text_key, raw_text_at, created_at
FROM documents
WHERE uploader_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`

	rows, err := r.DB.QueryContext(ctx, query, uploaderID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

// SetRawText stores the raw-text cache key; first writer wins.
func (r *PGRepo) SetRawText(ctx context.Context, documentID, rawTextKey string, at time.Time) error {
	const query = `
UPDATE documents
SET raw_text_key = $1, raw_text_at = $2
WHERE id = $3 AND raw_text_key IS NULL`
	_, err := r.DB.ExecContext(ctx, query, rawTextKey, at, documentID)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (Document, error) {
	var doc Document
	var rawTextKey sql.NullString
	var rawTextAt sql.NullTime
	if err := row.Scan(
		&doc.ID,
		&doc.UploaderID,
		&doc.FileName,
		&doc.MimeType,
		&doc.SizeBytes,
		&doc.StorageKey,
		&rawTextKey,
		&rawTextAt,
		&doc.CreatedAt,
	); err != nil {
		return Document{}, err
	}
	if rawTextKey.Valid {
		doc.RawTextKey = rawTextKey.String
	}
	if rawTextAt.Valid {
		doc.RawTextAt = &rawTextAt.Time
	}
	return doc, nil
}

var _ Repo = (*PGRepo)(nil)
