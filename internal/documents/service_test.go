package documents

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"talent-backend/internal/shared/storage/object/local"
)

func newTestService(t *testing.T) (*Service, *MemoryRepo) {
	t.Helper()
	repo := NewMemoryRepo()
	svc := &Service{
		Store:          local.New(t.TempDir()),
		Repo:           repo,
		MaxUploadBytes: 1 << 20,
	}
	return svc, repo
}

func TestUploadStoresDocument(t *testing.T) {
	svc, repo := newTestService(t)
	body := "Jane Doe\n8 years of experience with Go and PostgreSQL"

	doc, err := svc.Upload(context.Background(), "user-1", "resume.txt", "text/plain", int64(len(body)), strings.NewReader(body))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if doc.ID == "" || doc.StorageKey == "" {
		t.Fatalf("missing id or storage key: %+v", doc)
	}
	if doc.MimeType != "text/plain" {
		t.Fatalf("mime = %q", doc.MimeType)
	}
	if doc.SizeBytes != int64(len(body)) {
		t.Fatalf("size = %d, want %d", doc.SizeBytes, len(body))
	}

	stored, err := repo.GetByID(context.Background(), doc.ID)
	if err != nil {
		t.Fatalf("get stored: %v", err)
	}
	if stored.UploaderID != "user-1" {
		t.Fatalf("uploader = %q", stored.UploaderID)
	}

	rc, err := svc.Store.Open(context.Background(), doc.StorageKey)
	if err != nil {
		t.Fatalf("open object: %v", err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read object: %v", err)
	}
	if string(data) != body {
		t.Fatalf("object content mismatch")
	}
}

func TestUploadRejectsOversizeDeclared(t *testing.T) {
	svc, repo := newTestService(t)
	svc.MaxUploadBytes = 16

	_, err := svc.Upload(context.Background(), "user-1", "resume.txt", "text/plain", 64, strings.NewReader("irrelevant"))
	if !errors.Is(err, ErrTooLarge) {
		t.Fatalf("err = %v, want ErrTooLarge", err)
	}
	if docs, _ := repo.ListByUploader(context.Background(), "user-1", 10, 0); len(docs) != 0 {
		t.Fatalf("expected no stored documents, got %d", len(docs))
	}
}

func TestUploadRejectsPayloadLargerThanDeclared(t *testing.T) {
	svc, repo := newTestService(t)
	svc.MaxUploadBytes = 16

	_, err := svc.Upload(context.Background(), "user-1", "resume.txt", "text/plain", 8, strings.NewReader(strings.Repeat("a", 64)))
	if !errors.Is(err, ErrTooLarge) {
		t.Fatalf("err = %v, want ErrTooLarge", err)
	}
	if docs, _ := repo.ListByUploader(context.Background(), "user-1", 10, 0); len(docs) != 0 {
		t.Fatalf("expected no stored documents, got %d", len(docs))
	}
}

func TestUploadRejectsDisallowedMime(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Upload(context.Background(), "user-1", "tool.exe", "application/x-msdownload", 8, strings.NewReader("MZ data"))
	if !errors.Is(err, ErrBadMimeType) {
		t.Fatalf("err = %v, want ErrBadMimeType", err)
	}
}

func TestGetMasksForeignDocuments(t *testing.T) {
	svc, _ := newTestService(t)
	body := "content"

	doc, err := svc.Upload(context.Background(), "owner", "resume.txt", "text/plain", int64(len(body)), strings.NewReader(body))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	if _, err := svc.Get(context.Background(), "intruder", false, doc.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if _, err := svc.Get(context.Background(), "intruder", true, doc.ID); err != nil {
		t.Fatalf("privileged get: %v", err)
	}
	if _, err := svc.Get(context.Background(), "owner", false, doc.ID); err != nil {
		t.Fatalf("owner get: %v", err)
	}
}
