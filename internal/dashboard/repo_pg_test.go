package dashboard

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGRepoStats(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectQuery("SELECT(.|\n)+FROM documents").
		WillReturnRows(sqlmock.NewRows([]string{"c1", "c2", "c3", "c4"}).
			AddRow(12, 7, 9, 1834.5))
	mock.ExpectQuery("SELECT LOWER\\(skill\\)").
		WithArgs(topSkillsLimit).
		WillReturnRows(sqlmock.NewRows([]string{"skill", "n"}).
			AddRow("go", 6).
			AddRow("sql", 4))

	repo := &PGRepo{DB: db}
	stats, err := repo.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.DocumentsProcessed != 12 || stats.ActiveCandidates != 7 || stats.CompletedExtractions != 9 {
		t.Fatalf("unexpected counts: %+v", stats)
	}
	if stats.AvgProcessingMs != 1834.5 {
		t.Fatalf("avg = %v, want 1834.5", stats.AvgProcessingMs)
	}
	if len(stats.TopSkills) != 2 || stats.TopSkills[0].Skill != "go" {
		t.Fatalf("topSkills = %+v", stats.TopSkills)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
