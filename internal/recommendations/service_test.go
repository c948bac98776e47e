package recommendations

import (
	"context"
	"errors"
	"testing"
	"time"

	"talent-backend/internal/extractions"
	"talent-backend/internal/predictions"
)

func seedProfile(t *testing.T, repo *extractions.MemoryRepo, id string, tokens []string) {
	t.Helper()
	e := extractions.Extraction{
		ID:         id,
		DocumentID: "doc-" + id,
		Status:     extractions.StatusQueued,
		CreatedAt:  time.Now().UTC(),
	}
	if _, _, err := repo.GetOrCreateForDocument(context.Background(), e, false); err != nil {
		t.Fatalf("seed %s: %v", id, err)
	}
	if err := repo.MarkProcessing(context.Background(), id); err != nil {
		t.Fatalf("mark %s: %v", id, err)
	}
	e.SkillTokens = tokens
	e.YearsExperience = 3
	if err := repo.Complete(context.Background(), e, time.Now().UTC()); err != nil {
		t.Fatalf("complete %s: %v", id, err)
	}
}

func TestRunWritesImmutableBatches(t *testing.T) {
	extRepo := extractions.NewMemoryRepo()
	seedProfile(t, extRepo, "e1", []string{"go", "sql"})
	seedProfile(t, extRepo, "e2", []string{"go"})

	svc := &Service{
		Repo:        NewMemoryRepo(),
		Extractions: extRepo,
		Predictions: predictions.NewMemoryRepo(),
		Window:      10,
		Config:      DefaultEngineConfig(),
	}

	first, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if len(first.Recommendations) == 0 {
		t.Fatal("first run produced no recommendations")
	}
	for i, rec := range first.Recommendations {
		if rec.Rank != i+1 {
			t.Fatalf("rank[%d] = %d, want %d", i, rec.Rank, i+1)
		}
	}

	second, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if second.ID == first.ID {
		t.Fatal("second run reused the first batch id")
	}

	// Prior batch stays readable and untouched.
	replay, err := svc.Get(context.Background(), first.ID)
	if err != nil {
		t.Fatalf("get first batch: %v", err)
	}
	if len(replay.Recommendations) != len(first.Recommendations) {
		t.Fatal("first batch was modified by the second run")
	}

	latest, err := svc.Latest(context.Background())
	if err != nil || latest.ID != second.ID {
		t.Fatalf("latest = %s err = %v, want %s", latest.ID, err, second.ID)
	}
}

func TestRunConflictsWhenLockHeld(t *testing.T) {
	repo := NewMemoryRepo()
	release, ok, err := repo.TryRunLock(context.Background())
	if err != nil || !ok {
		t.Fatalf("take lock: ok=%v err=%v", ok, err)
	}
	defer release()

	svc := &Service{
		Repo:        repo,
		Extractions: extractions.NewMemoryRepo(),
		Predictions: predictions.NewMemoryRepo(),
	}
	if _, err := svc.Run(context.Background()); !errors.Is(err, ErrRunInFlight) {
		t.Fatalf("err = %v, want ErrRunInFlight", err)
	}
}
