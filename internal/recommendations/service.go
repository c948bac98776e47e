package recommendations

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"talent-backend/internal/extractions"
	"talent-backend/internal/predictions"
	"talent-backend/internal/shared/metrics"
	"talent-backend/internal/shared/telemetry"
)

// Service runs the aggregation pass over recent profiles and serves the
// resulting batches.
type Service struct {
	Repo        Repo
	Extractions extractions.Repo
	Predictions predictions.Repo

	// Window is how many recent completed extractions feed each run.
	Window int
	Config EngineConfig

	// runMu is the in-process half of the run lock; the repo lock covers
	// other processes.
	runMu sync.Mutex
}

// Run executes one aggregation pass and writes a new immutable batch.
// Concurrent runs are rejected with ErrRunInFlight rather than queued.
func (s *Service) Run(ctx context.Context) (Batch, error) {
	if !s.runMu.TryLock() {
		return Batch{}, ErrRunInFlight
	}
	defer s.runMu.Unlock()

	release, ok, err := s.Repo.TryRunLock(ctx)
	if err != nil {
		return Batch{}, err
	}
	if !ok {
		return Batch{}, ErrRunInFlight
	}
	defer release()

	window := s.Window
	if window <= 0 {
		window = 200
	}
	rows, err := s.Extractions.ListRecentCompleted(ctx, window)
	if err != nil {
		return Batch{}, err
	}

	profiles := make([]ProfileInput, 0, len(rows))
	for _, row := range rows {
		input := ProfileInput{ExtractionID: row.ID, SkillTokens: row.SkillTokens}
		if pred, err := s.Predictions.CurrentByExtraction(ctx, row.ID); err == nil &&
			pred.Status == predictions.StatusCompleted {
			input.Probability = pred.Probability
		}
		profiles = append(profiles, input)
	}

	insights := Generate(profiles, s.Config)

	now := time.Now().UTC()
	batchID := uuid.NewString()
	recs := make([]Recommendation, 0, len(insights))
	for i, ins := range insights {
		recs = append(recs, Recommendation{
			ID:          uuid.NewString(),
			BatchID:     batchID,
			Type:        ins.Type,
			Priority:    ins.Priority,
			Title:       ins.Title,
			Description: ins.Description,
			Rank:        i + 1,
			CreatedAt:   now,
		})
	}
	if err := s.Repo.CreateBatch(ctx, recs); err != nil {
		return Batch{}, err
	}

	metrics.IncAggregationRun()
	telemetry.Info("recommendations.run", map[string]any{
		"batch_id": batchID,
		"window":   len(profiles),
		"insights": len(recs),
	})
	return Batch{ID: batchID, GeneratedAt: now, Recommendations: recs}, nil
}

// Latest returns the most recent batch.
func (s *Service) Latest(ctx context.Context) (Batch, error) {
	return s.Repo.LatestBatch(ctx)
}

// Get returns a batch by id.
func (s *Service) Get(ctx context.Context, batchID string) (Batch, error) {
	return s.Repo.GetBatch(ctx, batchID)
}
