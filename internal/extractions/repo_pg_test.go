package extractions

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func extractionRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "document_id", "status", "current", "full_name", "current_role", "employer",
		"years_experience", "location", "education", "skill_categories", "skill_tokens",
		"entity_type", "error_code", "error_message", "error_retryable", "processed_at", "created_at",
	})
}

func TestPGRepoGetOrCreateReusesInFlightRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectExec("SELECT id FROM documents").
		WithArgs("doc-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT(.|\n)+FROM extractions WHERE document_id").
		WithArgs("doc-1").
		WillReturnRows(extractionRows().AddRow(
			"ext-existing", "doc-1", StatusProcessing, true, nil, nil, nil,
			nil, nil, nil, nil, nil, "candidate", nil, nil, nil, nil, now,
		))
	mock.ExpectCommit()

	got, created, err := repo.GetOrCreateForDocument(context.Background(), Extraction{
		ID:         "ext-new",
		DocumentID: "doc-1",
		Status:     StatusQueued,
		CreatedAt:  now,
	}, false)
	if err != nil {
		t.Fatalf("GetOrCreateForDocument: %v", err)
	}
	if created {
		t.Fatal("expected existing row to be reused")
	}
	if got.ID != "ext-existing" || got.Status != StatusProcessing {
		t.Fatalf("unexpected row: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetOrCreateSupersedesFailedRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectExec("SELECT id FROM documents").
		WithArgs("doc-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT(.|\n)+FROM extractions WHERE document_id").
		WithArgs("doc-1").
		WillReturnRows(extractionRows().AddRow(
			"ext-failed", "doc-1", StatusFailed, true, nil, nil, nil,
			nil, nil, nil, nil, nil, "candidate",
			ErrorCodeExtractionFailed, "bad payload", false, now, now,
		))
	mock.ExpectExec("UPDATE extractions SET current = FALSE").
		WithArgs("ext-failed").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE predictions SET current = FALSE").
		WithArgs("ext-failed").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO extractions").
		WithArgs("ext-new", "doc-1", StatusQueued, "candidate", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	got, created, err := repo.GetOrCreateForDocument(context.Background(), Extraction{
		ID:         "ext-new",
		DocumentID: "doc-1",
		Status:     StatusQueued,
		CreatedAt:  now,
	}, false)
	if err != nil {
		t.Fatalf("GetOrCreateForDocument: %v", err)
	}
	if !created {
		t.Fatal("expected a fresh row after a failed current row")
	}
	if got.ID != "ext-new" {
		t.Fatalf("id = %s, want ext-new", got.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoMarkProcessingRequiresQueuedRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}

	mock.ExpectExec("UPDATE extractions SET status").
		WithArgs(StatusProcessing, "ext-1", StatusQueued).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.MarkProcessing(context.Background(), "ext-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}

	mock.ExpectQuery("SELECT(.|\n)+FROM extractions WHERE id").
		WithArgs("missing").
		WillReturnRows(extractionRows())

	if _, err := repo.GetByID(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
