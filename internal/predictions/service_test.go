package predictions

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"talent-backend/internal/extractions"
	"talent-backend/internal/models"
	"talent-backend/internal/oracle"
)

type stubScorer struct {
	result oracle.ScoreResult
	errs   []error
	calls  int

	lastVersion string
}

func (s *stubScorer) Score(ctx context.Context, profile oracle.Profile, modelVersion string, params json.RawMessage) (oracle.ScoreResult, error) {
	idx := s.calls
	s.calls++
	s.lastVersion = modelVersion
	if idx < len(s.errs) && s.errs[idx] != nil {
		return oracle.ScoreResult{}, s.errs[idx]
	}
	return s.result, nil
}

func seedExtraction(t *testing.T, repo *extractions.MemoryRepo, profileOK bool) extractions.Extraction {
	t.Helper()
	e := extractions.Extraction{
		ID:         "ext-1",
		DocumentID: "doc-1",
		Status:     extractions.StatusQueued,
		EntityType: "candidate",
		CreatedAt:  time.Now().UTC(),
	}
	if _, _, err := repo.GetOrCreateForDocument(context.Background(), e, false); err != nil {
		t.Fatalf("seed extraction: %v", err)
	}
	if err := repo.MarkProcessing(context.Background(), e.ID); err != nil {
		t.Fatalf("mark processing: %v", err)
	}
	if profileOK {
		e.YearsExperience = 6
		e.SkillTokens = []string{"go", "sql"}
	}
	if err := repo.Complete(context.Background(), e, time.Now().UTC()); err != nil {
		t.Fatalf("complete extraction: %v", err)
	}
	out, err := repo.GetByID(context.Background(), e.ID)
	if err != nil {
		t.Fatalf("get extraction: %v", err)
	}
	return out
}

func activateModel(t *testing.T, repo *models.MemoryRepo, version string) models.PredictionModel {
	t.Helper()
	svc := &models.Service{Repo: repo}
	m, err := svc.Register(context.Background(), models.DefaultModelName, version, nil, nil, nil)
	if err != nil {
		t.Fatalf("register model: %v", err)
	}
	if _, err := svc.Activate(context.Background(), m.ID); err != nil {
		t.Fatalf("activate model: %v", err)
	}
	return m
}

func newScoringService(scorer oracle.Scorer, extRepo *extractions.MemoryRepo, modelRepo *models.MemoryRepo) *Service {
	return &Service{
		Repo:        NewMemoryRepo(),
		Extractions: extRepo,
		Models:      modelRepo,
		Scorer:      scorer,
		MaxAttempts: 3,
		BaseDelay:   time.Millisecond,
	}
}

func waitTerminal(t *testing.T, svc *Service, id string) Prediction {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		p, err := svc.Get(context.Background(), id)
		if err != nil {
			t.Fatalf("get prediction: %v", err)
		}
		if p.Terminal() {
			return p
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("prediction did not reach a terminal state")
	return Prediction{}
}

func TestSubmitScoresAndClampsProbability(t *testing.T) {
	extRepo := extractions.NewMemoryRepo()
	modelRepo := models.NewMemoryRepo()
	ext := seedExtraction(t, extRepo, true)
	activateModel(t, modelRepo, "v1")

	scorer := &stubScorer{result: oracle.ScoreResult{Probability: 130, Factors: []string{"experience", "skills"}}}
	svc := newScoringService(scorer, extRepo, modelRepo)

	created, isNew, err := svc.Submit(context.Background(), ext.ID, false)
	if err != nil || !isNew {
		t.Fatalf("submit: created=%v err=%v", isNew, err)
	}

	final := waitTerminal(t, svc, created.ID)
	if final.Status != StatusCompleted {
		t.Fatalf("status = %s, want completed (error: %s)", final.Status, final.ErrorMessage)
	}
	if final.Probability == nil || *final.Probability != 100 {
		t.Fatalf("probability = %v, want clamped to 100", final.Probability)
	}
	if len(final.Factors) != 2 || final.Factors[0] != "experience" || final.Factors[1] != "skills" {
		t.Fatalf("factors = %v, want order preserved", final.Factors)
	}
	if final.ModelVersion != "v1" {
		t.Fatalf("modelVersion = %s, want v1", final.ModelVersion)
	}
}

func TestSubmitWithoutActiveModel(t *testing.T) {
	extRepo := extractions.NewMemoryRepo()
	ext := seedExtraction(t, extRepo, true)
	svc := newScoringService(&stubScorer{}, extRepo, models.NewMemoryRepo())

	if _, _, err := svc.Submit(context.Background(), ext.ID, false); !errors.Is(err, models.ErrNoActive) {
		t.Fatalf("err = %v, want models.ErrNoActive", err)
	}
}

func TestSubmitInsufficientProfile(t *testing.T) {
	extRepo := extractions.NewMemoryRepo()
	modelRepo := models.NewMemoryRepo()
	ext := seedExtraction(t, extRepo, false)
	activateModel(t, modelRepo, "v1")
	svc := newScoringService(&stubScorer{}, extRepo, modelRepo)

	if _, _, err := svc.Submit(context.Background(), ext.ID, false); !errors.Is(err, ErrInsufficientProfile) {
		t.Fatalf("err = %v, want ErrInsufficientProfile", err)
	}
}

func TestSubmitIncompleteExtraction(t *testing.T) {
	extRepo := extractions.NewMemoryRepo()
	modelRepo := models.NewMemoryRepo()
	activateModel(t, modelRepo, "v1")

	queued := extractions.Extraction{
		ID:         "ext-queued",
		DocumentID: "doc-2",
		Status:     extractions.StatusQueued,
		CreatedAt:  time.Now().UTC(),
	}
	if _, _, err := extRepo.GetOrCreateForDocument(context.Background(), queued, false); err != nil {
		t.Fatalf("seed: %v", err)
	}

	svc := newScoringService(&stubScorer{}, extRepo, modelRepo)
	if _, _, err := svc.Submit(context.Background(), queued.ID, false); !errors.Is(err, ErrExtractionNotReady) {
		t.Fatalf("err = %v, want ErrExtractionNotReady", err)
	}
}

func TestRescoreKeepsHistoryAndCopiesNewVersion(t *testing.T) {
	extRepo := extractions.NewMemoryRepo()
	modelRepo := models.NewMemoryRepo()
	ext := seedExtraction(t, extRepo, true)
	activateModel(t, modelRepo, "v1")

	scorer := &stubScorer{result: oracle.ScoreResult{Probability: 72, Factors: []string{"skills"}}}
	svc := newScoringService(scorer, extRepo, modelRepo)

	first, _, err := svc.Submit(context.Background(), ext.ID, false)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	waitTerminal(t, svc, first.ID)

	// Activation of a newer version must not rewrite the recorded history.
	activateModel(t, modelRepo, "v2")
	old, err := svc.Get(context.Background(), first.ID)
	if err != nil || old.ModelVersion != "v1" {
		t.Fatalf("history rewritten: version=%s err=%v", old.ModelVersion, err)
	}

	second, isNew, err := svc.Submit(context.Background(), ext.ID, true)
	if err != nil || !isNew {
		t.Fatalf("rescore: created=%v err=%v", isNew, err)
	}
	final := waitTerminal(t, svc, second.ID)
	if final.ModelVersion != "v2" {
		t.Fatalf("modelVersion = %s, want v2", final.ModelVersion)
	}
	if scorer.lastVersion != "v2" {
		t.Fatalf("oracle called with version %s, want v2", scorer.lastVersion)
	}

	demoted, err := svc.Get(context.Background(), first.ID)
	if err != nil {
		t.Fatalf("get first: %v", err)
	}
	if demoted.Current {
		t.Fatal("superseded prediction still current")
	}
	current, err := svc.CurrentForExtraction(context.Background(), ext.ID)
	if err != nil || current.ID != second.ID {
		t.Fatalf("current = %+v err = %v, want second", current, err)
	}
}

func TestTransientScorerFailureExhaustsRetries(t *testing.T) {
	extRepo := extractions.NewMemoryRepo()
	modelRepo := models.NewMemoryRepo()
	ext := seedExtraction(t, extRepo, true)
	activateModel(t, modelRepo, "v1")

	scorer := &stubScorer{errs: []error{oracle.ErrUnavailable, oracle.ErrUnavailable, oracle.ErrUnavailable}}
	svc := newScoringService(scorer, extRepo, modelRepo)

	created, _, err := svc.Submit(context.Background(), ext.ID, false)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	final := waitTerminal(t, svc, created.ID)
	if final.Status != StatusFailed {
		t.Fatalf("status = %s, want failed", final.Status)
	}
	if final.ErrorCode != ErrorCodeOracleUnavailable {
		t.Fatalf("error code = %s, want %s", final.ErrorCode, ErrorCodeOracleUnavailable)
	}
	if final.ErrorRetryable == nil || !*final.ErrorRetryable {
		t.Fatal("exhausted transient failure must be marked retryable")
	}
	if scorer.calls != 3 {
		t.Fatalf("oracle calls = %d, want 3", scorer.calls)
	}
}
