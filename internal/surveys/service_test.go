package surveys

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"talent-backend/internal/predictions"
)

var questions = json.RawMessage(`[{"id":"q1","text":"How is the hire performing?","options":["1","2","3","4","5"]}]`)

func newSurveyService(t *testing.T) (*Service, Survey, *predictions.MemoryRepo) {
	t.Helper()
	predRepo := predictions.NewMemoryRepo()
	svc := &Service{Repo: NewMemoryRepo(), Predictions: predRepo}
	survey, err := svc.CreateSurvey(context.Background(), "90-day performance check", "performance", questions)
	if err != nil {
		t.Fatalf("create survey: %v", err)
	}
	return svc, survey, predRepo
}

func seedPrediction(t *testing.T, repo *predictions.MemoryRepo, extractionID string, probability float64) {
	t.Helper()
	p := predictions.Prediction{
		ID:           "pred-" + extractionID,
		ExtractionID: extractionID,
		ModelID:      "model-1",
		ModelVersion: "v1",
		Status:       predictions.StatusQueued,
		CreatedAt:    time.Now().UTC(),
	}
	if _, _, err := repo.GetOrCreateForExtraction(context.Background(), p, false); err != nil {
		t.Fatalf("seed prediction: %v", err)
	}
	if err := repo.MarkProcessing(context.Background(), p.ID); err != nil {
		t.Fatalf("mark processing: %v", err)
	}
	if err := repo.Complete(context.Background(), p.ID, probability, []string{"skills"}, time.Now().UTC()); err != nil {
		t.Fatalf("complete prediction: %v", err)
	}
}

func TestRespondRejectsDuplicate(t *testing.T) {
	svc, survey, _ := newSurveyService(t)
	ctx := context.Background()
	answers := json.RawMessage(`{"q1":"4"}`)

	if _, err := svc.Respond(ctx, survey.ID, "user-1", answers, "", nil); err != nil {
		t.Fatalf("first response: %v", err)
	}
	if _, err := svc.Respond(ctx, survey.ID, "user-1", answers, "", nil); !errors.Is(err, ErrDuplicateResponse) {
		t.Fatalf("err = %v, want ErrDuplicateResponse", err)
	}
	// A different respondent is fine.
	if _, err := svc.Respond(ctx, survey.ID, "user-2", answers, "", nil); err != nil {
		t.Fatalf("second respondent: %v", err)
	}
}

func TestRespondConcurrentDoubleSubmission(t *testing.T) {
	svc, survey, _ := newSurveyService(t)
	answers := json.RawMessage(`{"q1":"4"}`)

	const attempts = 8
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Respond(context.Background(), survey.ID, "user-1", answers, "", nil)
		}(i)
	}
	wg.Wait()

	var ok, dup int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, ErrDuplicateResponse):
			dup++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if ok != 1 || dup != attempts-1 {
		t.Fatalf("ok=%d dup=%d, want exactly one stored response", ok, dup)
	}
}

func TestRespondComputesAccuracyError(t *testing.T) {
	svc, survey, predRepo := newSurveyService(t)
	seedPrediction(t, predRepo, "ext-1", 85)

	rating := 70.0
	resp, err := svc.Respond(context.Background(), survey.ID, "user-1", json.RawMessage(`{"q1":"4"}`), "ext-1", &rating)
	if err != nil {
		t.Fatalf("respond: %v", err)
	}
	if resp.AccuracyError == nil {
		t.Fatal("accuracy error not computed")
	}
	if *resp.AccuracyError != 15 {
		t.Fatalf("accuracyError = %v, want 15 (85 predicted - 70 observed)", *resp.AccuracyError)
	}
}

func TestRespondWithoutPredictionSkipsCalibration(t *testing.T) {
	svc, survey, _ := newSurveyService(t)

	rating := 70.0
	resp, err := svc.Respond(context.Background(), survey.ID, "user-1", json.RawMessage(`{"q1":"4"}`), "ext-unscored", &rating)
	if err != nil {
		t.Fatalf("respond: %v", err)
	}
	if resp.AccuracyError != nil {
		t.Fatalf("accuracyError = %v, want nil without a prediction", *resp.AccuracyError)
	}
	if resp.PerformanceRating == nil || *resp.PerformanceRating != 70 {
		t.Fatal("rating not stored")
	}
}

func TestRespondClosedSurvey(t *testing.T) {
	svc, survey, _ := newSurveyService(t)
	ctx := context.Background()

	if err := svc.CloseSurvey(ctx, survey.ID); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := svc.Respond(ctx, survey.ID, "user-1", json.RawMessage(`{"q1":"4"}`), "", nil); !errors.Is(err, ErrInactive) {
		t.Fatalf("err = %v, want ErrInactive", err)
	}
}

func TestRespondValidatesRatingRange(t *testing.T) {
	svc, survey, _ := newSurveyService(t)
	bad := 120.0
	if _, err := svc.Respond(context.Background(), survey.ID, "user-1", json.RawMessage(`{"q1":"4"}`), "", &bad); err == nil {
		t.Fatal("expected rating validation error")
	}
}
