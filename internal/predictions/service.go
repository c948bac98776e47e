package predictions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"talent-backend/internal/extractions"
	"talent-backend/internal/models"
	"talent-backend/internal/oracle"
	"talent-backend/internal/shared/metrics"
	"talent-backend/internal/shared/telemetry"
)

// Service drives the scoring engine: it resolves the active model, gates on
// profile completeness, and records the oracle outcome.
type Service struct {
	Repo        Repo
	Extractions extractions.Repo
	Models      models.Repo
	Scorer      oracle.Scorer

	// ModelName selects the model family; empty means the default.
	ModelName string

	MaxAttempts int
	BaseDelay   time.Duration
}

// Submit requests a score for a completed extraction. The active model and
// profile completeness gates run synchronously so the caller gets a definite
// rejection; the oracle call itself is asynchronous.
func (s *Service) Submit(ctx context.Context, extractionID string, rescore bool) (Prediction, bool, error) {
	if extractionID == "" {
		return Prediction{}, false, errors.New("extractionID is required")
	}

	extraction, err := s.Extractions.GetByID(ctx, extractionID)
	if err != nil {
		return Prediction{}, false, err
	}
	if extraction.Status != extractions.StatusCompleted {
		return Prediction{}, false, ErrExtractionNotReady
	}
	if extraction.YearsExperience == 0 && len(extraction.SkillTokens) == 0 {
		return Prediction{}, false, ErrInsufficientProfile
	}

	name := s.ModelName
	if name == "" {
		name = models.DefaultModelName
	}
	model, err := s.Models.ActiveByName(ctx, name)
	if err != nil {
		return Prediction{}, false, err
	}

	prediction := Prediction{
		ID:           uuid.NewString(),
		ExtractionID: extractionID,
		ModelID:      model.ID,
		ModelVersion: model.Version,
		Status:       StatusQueued,
		Current:      true,
		CreatedAt:    time.Now().UTC(),
	}

	created, isNew, err := s.Repo.GetOrCreateForExtraction(ctx, prediction, rescore)
	if err != nil {
		return Prediction{}, false, err
	}
	if isNew {
		go s.completeAsync(context.WithoutCancel(ctx), created.ID, extraction, model)
	}
	return created, isNew, nil
}

// Get returns a prediction by ID.
func (s *Service) Get(ctx context.Context, predictionID string) (Prediction, error) {
	if predictionID == "" {
		return Prediction{}, errors.New("predictionID is required")
	}
	return s.Repo.GetByID(ctx, predictionID)
}

// CurrentForExtraction returns the current prediction for an extraction.
func (s *Service) CurrentForExtraction(ctx context.Context, extractionID string) (Prediction, error) {
	if extractionID == "" {
		return Prediction{}, errors.New("extractionID is required")
	}
	return s.Repo.CurrentByExtraction(ctx, extractionID)
}

// ScoreCompleted is the OnCompleted hook for the extraction pipeline: it
// chains a scoring pass onto every fresh profile when an active model exists.
func (s *Service) ScoreCompleted(ctx context.Context, extraction extractions.Extraction) {
	if _, _, err := s.Submit(ctx, extraction.ID, false); err != nil {
		if errors.Is(err, models.ErrNoActive) || errors.Is(err, ErrInsufficientProfile) {
			return
		}
		telemetry.Warn("prediction.autoscore", map[string]any{
			"extraction_id": extraction.ID,
			"error":         err.Error(),
		})
	}
}

func (s *Service) completeAsync(ctx context.Context, predictionID string, extraction extractions.Extraction, model models.PredictionModel) {
	defer func() {
		if r := recover(); r != nil {
			s.fail(ctx, predictionID, ErrorCodeInternal, fmt.Sprintf("panic: %v", r), false, time.Now().UTC())
		}
	}()
	startedAt := time.Now().UTC()

	if err := s.Repo.MarkProcessing(ctx, predictionID); err != nil {
		s.fail(ctx, predictionID, ErrorCodeInternal, fmt.Sprintf("set processing failed: %v", err), false, startedAt)
		return
	}
	metrics.IncScoringStarted()

	if s.Scorer == nil {
		s.fail(ctx, predictionID, ErrorCodeInternal, "missing scoring oracle", false, startedAt)
		return
	}

	profile := oracle.Profile{
		FullName:        extraction.FullName,
		CurrentRole:     extraction.CurrentRole,
		Employer:        extraction.Employer,
		YearsExperience: extraction.YearsExperience,
		Location:        extraction.Location,
		Education:       extraction.Education,
		SkillCategories: extraction.SkillCategories,
		SkillTokens:     extraction.SkillTokens,
		EntityType:      extraction.EntityType,
	}

	var result oracle.ScoreResult
	err := oracle.Retry(ctx, s.maxAttempts(), s.baseDelay(), func(ctx context.Context) error {
		var scoreErr error
		result, scoreErr = s.Scorer.Score(ctx, profile, model.Version, model.Params)
		return scoreErr
	})
	if err != nil {
		switch {
		case errors.Is(err, oracle.ErrUnavailable):
			s.fail(ctx, predictionID, ErrorCodeOracleUnavailable, err.Error(), true, startedAt)
		case errors.Is(err, oracle.ErrMalformedContent):
			s.fail(ctx, predictionID, ErrorCodeInsufficientProfile, err.Error(), false, startedAt)
		default:
			s.fail(ctx, predictionID, ErrorCodeInternal, err.Error(), oracle.IsTransient(err), startedAt)
		}
		return
	}

	probability := clamp(result.Probability, 0, 100)
	scoredAt := time.Now().UTC()
	if err := s.Repo.Complete(ctx, predictionID, probability, result.Factors, scoredAt); err != nil {
		s.fail(ctx, predictionID, ErrorCodeInternal, fmt.Sprintf("store result failed: %v", err), false, startedAt)
		return
	}

	metrics.IncScoringCompleted()
	metrics.ObserveScoringDurationMs(float64(scoredAt.Sub(startedAt).Milliseconds()))
	telemetry.Info("prediction.status", map[string]any{
		"extraction_id":     extraction.ID,
		"prediction_id":     predictionID,
		"model_version":     model.Version,
		"status":            StatusCompleted,
		"status_transition": "processing->completed",
		"probability":       probability,
		"duration_ms":       scoredAt.Sub(startedAt).Milliseconds(),
	})
}

func (s *Service) fail(ctx context.Context, predictionID, code, message string, retryable bool, startedAt time.Time) {
	scoredAt := time.Now().UTC()
	if err := s.Repo.Fail(ctx, predictionID, code, message, retryable, scoredAt); err != nil {
		telemetry.Error("prediction.fail_store", map[string]any{
			"prediction_id": predictionID,
			"error":         err.Error(),
		})
	}
	metrics.IncScoringFailed()
	telemetry.Warn("prediction.status", map[string]any{
		"prediction_id":     predictionID,
		"status":            StatusFailed,
		"status_transition": "processing->failed",
		"error_code":        code,
		"error":             message,
		"retryable":         retryable,
		"duration_ms":       scoredAt.Sub(startedAt).Milliseconds(),
	})
}

func (s *Service) maxAttempts() int {
	if s.MaxAttempts <= 0 {
		return 3
	}
	return s.MaxAttempts
}

func (s *Service) baseDelay() time.Duration {
	if s.BaseDelay <= 0 {
		return 500 * time.Millisecond
	}
	return s.BaseDelay
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
