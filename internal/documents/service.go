package documents

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"talent-backend/internal/shared/storage/object"
	"talent-backend/internal/shared/telemetry"
)

var allowedMimeTypes = map[string]struct{}{
	"application/pdf":    {},
	"application/msword": {},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": {},
	"text/plain": {},
}

// Service contains business logic for document intake.
type Service struct {
	Store          object.ObjectStore
	Repo           Repo
	MaxUploadBytes int64
}

// Upload validates the payload, saves it to object storage, and records the
// document. Validation failures are rejected before any storage write. If the
// record insert fails after the object was written, the orphaned object is
// reconciled asynchronously rather than blocking the caller.
func (s *Service) Upload(ctx context.Context, uploaderID, fileName, declaredMime string, declaredSize int64, r io.Reader) (Document, error) {
	if uploaderID == "" || fileName == "" {
		return Document{}, ErrInvalidInput
	}
	maxBytes := s.MaxUploadBytes
	if maxBytes <= 0 {
		maxBytes = 10 << 20
	}
	if declaredSize <= 0 || declaredSize > maxBytes {
		return Document{}, fmt.Errorf("%w: %d bytes (limit %d)", ErrTooLarge, declaredSize, maxBytes)
	}
	if _, ok := allowedMimeTypes[normalizeMime(declaredMime, fileName)]; !ok {
		return Document{}, fmt.Errorf("%w: %s", ErrBadMimeType, declaredMime)
	}

	// Guard against payloads larger than declared.
	storageKey, size, sniffedMime, err := s.Store.Save(ctx, uploaderID, fileName, io.LimitReader(r, maxBytes+1))
	if err != nil {
		return Document{}, err
	}
	if size > maxBytes {
		s.reclaimOrphan(storageKey, "size over limit")
		return Document{}, fmt.Errorf("%w: payload larger than declared", ErrTooLarge)
	}

	mimeType := normalizeMime(sniffedMime, fileName)
	if _, ok := allowedMimeTypes[mimeType]; !ok {
		s.reclaimOrphan(storageKey, "sniffed mime not allowed")
		return Document{}, fmt.Errorf("%w: %s", ErrBadMimeType, sniffedMime)
	}

	doc := Document{
		ID:         uuid.NewString(),
		UploaderID: uploaderID,
		FileName:   fileName,
		MimeType:   mimeType,
		SizeBytes:  size,
		StorageKey: storageKey,
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.Repo.Create(ctx, doc); err != nil {
		s.reclaimOrphan(storageKey, "document insert failed")
		return Document{}, err
	}

	return doc, nil
}

// Get returns a document by ID, restricted to its uploader unless the caller
// may read any document.
func (s *Service) Get(ctx context.Context, callerID string, anyOwner bool, documentID string) (Document, error) {
	if documentID == "" {
		return Document{}, ErrInvalidInput
	}
	doc, err := s.Repo.GetByID(ctx, documentID)
	if err != nil {
		return Document{}, err
	}
	if !anyOwner && doc.UploaderID != callerID {
		return Document{}, ErrNotFound
	}
	return doc, nil
}

// List returns the caller's documents newest-first.
func (s *Service) List(ctx context.Context, uploaderID string, limit, offset int) ([]Document, error) {
	if uploaderID == "" {
		return nil, ErrInvalidInput
	}
	return s.Repo.ListByUploader(ctx, uploaderID, limit, offset)
}

func (s *Service) reclaimOrphan(storageKey, reason string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.Store.Delete(ctx, storageKey); err != nil {
			telemetry.Warn("documents.orphan_reclaim_failed", map[string]any{
				"storage_key": storageKey,
				"reason":      reason,
				"err":         err.Error(),
			})
			return
		}
		telemetry.Info("documents.orphan_reclaimed", map[string]any{
			"storage_key": storageKey,
			"reason":      reason,
		})
	}()
}

func normalizeMime(mimeType, fileName string) string {
	clean := strings.ToLower(strings.TrimSpace(strings.Split(mimeType, ";")[0]))
	switch clean {
	case "", "application/octet-stream", "application/zip":
		lower := strings.ToLower(fileName)
		switch {
		case strings.HasSuffix(lower, ".pdf"):
			return "application/pdf"
		case strings.HasSuffix(lower, ".docx"):
			return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
		case strings.HasSuffix(lower, ".doc"):
			return "application/msword"
		case strings.HasSuffix(lower, ".txt"):
			return "text/plain"
		}
	}
	return clean
}
