package extractions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"talent-backend/internal/documents"
	"talent-backend/internal/extract"
	"talent-backend/internal/oracle"
	"talent-backend/internal/queue"
	"talent-backend/internal/shared/metrics"
	"talent-backend/internal/shared/storage/object"
	"talent-backend/internal/shared/telemetry"
)

// Service coordinates the extraction pipeline: it enqueues work, drives the
// oracle, and records terminal outcomes.
type Service struct {
	Repo      Repo
	DocRepo   documents.Repo
	Store     object.ObjectStore
	Extractor oracle.Extractor

	// JobQueue, when set, routes new work to a queue consumer instead of an
	// in-process goroutine.
	JobQueue queue.Client

	// Retry policy for transient oracle failures.
	MaxAttempts int
	BaseDelay   time.Duration

	// OnCompleted is invoked after a successful completion, outside any lock.
	// Used to chain scoring onto fresh profiles.
	OnCompleted func(ctx context.Context, extraction Extraction)
}

// Submit enqueues an extraction for a document, reusing any extraction already
// in flight or completed. With reprocess set, a terminal extraction is
// superseded by a fresh one and the previous rows are kept as history.
func (s *Service) Submit(ctx context.Context, documentID string, reprocess bool) (Extraction, bool, error) {
	if documentID == "" {
		return Extraction{}, false, errors.New("documentID is required")
	}
	if _, err := s.DocRepo.GetByID(ctx, documentID); err != nil {
		if errors.Is(err, documents.ErrNotFound) {
			return Extraction{}, false, documents.ErrNotFound
		}
		return Extraction{}, false, err
	}

	extraction := Extraction{
		ID:         uuid.NewString(),
		DocumentID: documentID,
		Status:     StatusQueued,
		Current:    true,
		EntityType: "candidate",
		CreatedAt:  time.Now().UTC(),
	}

	created, isNew, err := s.Repo.GetOrCreateForDocument(ctx, extraction, reprocess)
	if err != nil {
		return Extraction{}, false, err
	}
	if isNew {
		s.dispatch(ctx, created)
	}
	return created, isNew, nil
}

// dispatch hands a freshly queued extraction to the worker queue, falling back
// to in-process completion when no queue is configured or the send fails.
func (s *Service) dispatch(ctx context.Context, extraction Extraction) {
	if s.JobQueue != nil {
		msg := queue.Message{
			ExtractionID: extraction.ID,
			DocumentID:   extraction.DocumentID,
			RequestID:    requestIDFromContext(ctx),
			EnqueuedAt:   time.Now().UTC().Format(time.RFC3339),
			Version:      1,
		}
		err := s.JobQueue.Send(ctx, msg)
		if err == nil {
			return
		}
		telemetry.Error("extraction.enqueue_failed", map[string]any{
			"request_id":    requestIDFromContext(ctx),
			"extraction_id": extraction.ID,
			"error":         err.Error(),
		})
	}
	go s.completeAsync(backgroundWithRequestID(ctx), extraction.ID)
}

// ProcessExtraction drives the pipeline for a queued extraction synchronously.
// Queue consumers call this; redelivered messages for extractions that already
// reached a terminal state are no-ops.
func (s *Service) ProcessExtraction(ctx context.Context, extractionID string) error {
	if extractionID == "" {
		return errors.New("extractionID is required")
	}
	extraction, err := s.Repo.GetByID(ctx, extractionID)
	if err != nil {
		return err
	}
	if extraction.Terminal() {
		return nil
	}
	s.completeAsync(ctx, extractionID)

	final, err := s.Repo.GetByID(ctx, extractionID)
	if err != nil {
		return err
	}
	if final.Status == StatusFailed {
		msg := final.ErrorMessage
		if msg == "" {
			msg = "extraction failed"
		}
		return fmt.Errorf("extraction %s: %s", extractionID, msg)
	}
	return nil
}

// Get returns an extraction by ID.
func (s *Service) Get(ctx context.Context, extractionID string) (Extraction, error) {
	if extractionID == "" {
		return Extraction{}, errors.New("extractionID is required")
	}
	return s.Repo.GetByID(ctx, extractionID)
}

// CurrentForDocument returns the current extraction for a document.
func (s *Service) CurrentForDocument(ctx context.Context, documentID string) (Extraction, error) {
	if documentID == "" {
		return Extraction{}, errors.New("documentID is required")
	}
	return s.Repo.CurrentByDocument(ctx, documentID)
}

func (s *Service) completeAsync(ctx context.Context, extractionID string) {
	defer func() {
		if r := recover(); r != nil {
			s.fail(ctx, extractionID, ErrorCodeInternal, fmt.Sprintf("panic: %v", r), false, time.Now().UTC())
		}
	}()
	startedAt := time.Now().UTC()

	if err := s.Repo.MarkProcessing(ctx, extractionID); err != nil {
		s.fail(ctx, extractionID, ErrorCodeInternal, fmt.Sprintf("set processing failed: %v", err), false, startedAt)
		return
	}
	metrics.IncExtractionStarted()

	extraction, err := s.Repo.GetByID(ctx, extractionID)
	if err != nil {
		s.fail(ctx, extractionID, ErrorCodeInternal, fmt.Sprintf("extraction lookup: %v", err), false, startedAt)
		return
	}
	telemetry.Info("extraction.status", map[string]any{
		"request_id":        requestIDFromContext(ctx),
		"document_id":       extraction.DocumentID,
		"extraction_id":     extraction.ID,
		"status":            StatusProcessing,
		"status_transition": "queued->processing",
	})

	if s.DocRepo == nil || s.Store == nil {
		s.fail(ctx, extractionID, ErrorCodeInternal, "missing document store dependencies", false, startedAt)
		return
	}
	if s.Extractor == nil {
		s.fail(ctx, extractionID, ErrorCodeInternal, "missing extraction oracle", false, startedAt)
		return
	}

	doc, err := s.DocRepo.GetByID(ctx, extraction.DocumentID)
	if err != nil {
		s.fail(ctx, extractionID, ErrorCodeInternal, fmt.Sprintf("document lookup id=%s: %v", extraction.DocumentID, err), false, startedAt)
		return
	}

	rawText, err := s.ensureRawText(ctx, doc)
	if err != nil {
		code := ErrorCodeExtractionFailed
		if errors.Is(err, extract.ErrUnsupportedContent) {
			code = ErrorCodeExtractionFailed
		}
		s.fail(ctx, extractionID, code, fmt.Sprintf("document %s mime %s: %v", doc.ID, doc.MimeType, err), false, startedAt)
		return
	}

	ref := oracle.DocumentRef{
		DocumentID: doc.ID,
		FileName:   doc.FileName,
		MimeType:   doc.MimeType,
		RawText:    rawText,
	}

	var profile oracle.Profile
	err = oracle.Retry(ctx, s.maxAttempts(), s.baseDelay(), func(ctx context.Context) error {
		var extractErr error
		profile, extractErr = s.Extractor.Extract(ctx, ref)
		return extractErr
	})
	if err != nil {
		switch {
		case errors.Is(err, oracle.ErrMalformedContent):
			s.fail(ctx, extractionID, ErrorCodeExtractionFailed, err.Error(), false, startedAt)
		case errors.Is(err, oracle.ErrUnavailable):
			s.fail(ctx, extractionID, ErrorCodeOracleUnavailable, err.Error(), true, startedAt)
		default:
			s.fail(ctx, extractionID, ErrorCodeExtractionFailed, err.Error(), oracle.IsTransient(err), startedAt)
		}
		return
	}

	extraction.FullName = profile.FullName
	extraction.CurrentRole = profile.CurrentRole
	extraction.Employer = profile.Employer
	extraction.YearsExperience = profile.YearsExperience
	extraction.Location = profile.Location
	extraction.Education = profile.Education
	extraction.SkillCategories = profile.SkillCategories
	extraction.SkillTokens = profile.SkillTokens
	if profile.EntityType != "" {
		extraction.EntityType = profile.EntityType
	}

	processedAt := time.Now().UTC()
	if err := s.Repo.Complete(ctx, extraction, processedAt); err != nil {
		s.fail(ctx, extractionID, ErrorCodeInternal, fmt.Sprintf("store result failed: %v", err), false, startedAt)
		return
	}
	extraction.Status = StatusCompleted
	extraction.ProcessedAt = &processedAt

	metrics.IncExtractionCompleted()
	metrics.ObserveExtractionDurationMs(float64(processedAt.Sub(startedAt).Milliseconds()))
	telemetry.Info("extraction.status", map[string]any{
		"request_id":        requestIDFromContext(ctx),
		"document_id":       extraction.DocumentID,
		"extraction_id":     extraction.ID,
		"status":            StatusCompleted,
		"status_transition": "processing->completed",
		"duration_ms":       processedAt.Sub(startedAt).Milliseconds(),
	})

	if s.OnCompleted != nil {
		s.OnCompleted(ctx, extraction)
	}
}

// ensureRawText loads the cached plain text for a document, extracting and
// caching it on first use.
func (s *Service) ensureRawText(ctx context.Context, doc documents.Document) (string, error) {
	if doc.RawTextKey != "" {
		text, err := loadText(ctx, s.Store, doc.RawTextKey)
		if err == nil {
			return text, nil
		}
		// Fall through and re-extract when the cached object went missing.
	}
	rawTextKey, text, err := extract.Text(ctx, s.Store, doc.StorageKey, doc.MimeType, doc.FileName)
	if err != nil {
		return "", err
	}
	if err := s.DocRepo.SetRawText(ctx, doc.ID, rawTextKey, time.Now().UTC()); err != nil {
		return "", fmt.Errorf("record raw text key: %w", err)
	}
	return text, nil
}

func (s *Service) fail(ctx context.Context, extractionID, code, message string, retryable bool, startedAt time.Time) {
	processedAt := time.Now().UTC()
	if err := s.Repo.Fail(ctx, extractionID, code, message, retryable, processedAt); err != nil {
		telemetry.Error("extraction.fail_store", map[string]any{
			"request_id":    requestIDFromContext(ctx),
			"extraction_id": extractionID,
			"error":         err.Error(),
		})
	}
	metrics.IncExtractionFailed()
	telemetry.Warn("extraction.status", map[string]any{
		"request_id":        requestIDFromContext(ctx),
		"extraction_id":     extractionID,
		"status":            StatusFailed,
		"status_transition": "processing->failed",
		"error_code":        code,
		"error":             message,
		"retryable":         retryable,
		"duration_ms":       processedAt.Sub(startedAt).Milliseconds(),
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
