package extractions

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"talent-backend/internal/documents"
	"talent-backend/internal/oracle"
	"talent-backend/internal/shared/storage/object/local"
)

type stubExtractor struct {
	profile oracle.Profile
	errs    []error
	calls   int
}

func (s *stubExtractor) Extract(ctx context.Context, ref oracle.DocumentRef) (oracle.Profile, error) {
	idx := s.calls
	s.calls++
	if idx < len(s.errs) && s.errs[idx] != nil {
		return oracle.Profile{}, s.errs[idx]
	}
	return s.profile, nil
}

func newTestService(t *testing.T, ext oracle.Extractor) (*Service, *documents.MemoryRepo, documents.Document) {
	t.Helper()

	store := local.New(t.TempDir())
	docRepo := documents.NewMemoryRepo()
	key, _, _, err := store.Save(context.Background(), "user-1", "resume.txt", strings.NewReader("Jane Doe\n8 years of experience with Go and PostgreSQL"))
	if err != nil {
		t.Fatalf("save fixture: %v", err)
	}
	doc := documents.Document{
		ID:         "doc-1",
		UploaderID: "user-1",
		FileName:   "resume.txt",
		MimeType:   "text/plain",
		StorageKey: key,
		CreatedAt:  time.Now().UTC(),
	}
	if err := docRepo.Create(context.Background(), doc); err != nil {
		t.Fatalf("create document: %v", err)
	}

	svc := &Service{
		Repo:        NewMemoryRepo(),
		DocRepo:     docRepo,
		Store:       store,
		Extractor:   ext,
		MaxAttempts: 3,
		BaseDelay:   time.Millisecond,
	}
	return svc, docRepo, doc
}

func waitTerminal(t *testing.T, svc *Service, id string) Extraction {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		e, err := svc.Get(context.Background(), id)
		if err != nil {
			t.Fatalf("get extraction: %v", err)
		}
		if e.Terminal() {
			return e
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("extraction did not reach a terminal state")
	return Extraction{}
}

func TestSubmitCompletesAndCachesRawText(t *testing.T) {
	ext := &stubExtractor{profile: oracle.Profile{
		FullName:        "Jane Doe",
		YearsExperience: 8,
		SkillTokens:     []string{"go", "postgresql"},
		EntityType:      "candidate",
	}}
	svc, docRepo, doc := newTestService(t, ext)

	created, isNew, err := svc.Submit(context.Background(), doc.ID, false)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !isNew {
		t.Fatal("expected a new extraction")
	}

	final := waitTerminal(t, svc, created.ID)
	if final.Status != StatusCompleted {
		t.Fatalf("status = %s, want completed (error: %s)", final.Status, final.ErrorMessage)
	}
	if final.FullName != "Jane Doe" || final.YearsExperience != 8 {
		t.Fatalf("unexpected profile: %+v", final)
	}
	if final.ProcessedAt == nil {
		t.Fatal("processedAt not set")
	}

	stored, err := docRepo.GetByID(context.Background(), doc.ID)
	if err != nil {
		t.Fatalf("document lookup: %v", err)
	}
	if stored.RawTextKey == "" {
		t.Fatal("raw text key was not cached on the document")
	}
}

func TestSubmitReusesInFlightExtraction(t *testing.T) {
	block := make(chan struct{})
	ext := &blockingExtractor{release: block}
	svc, _, doc := newTestService(t, ext)

	first, isNew, err := svc.Submit(context.Background(), doc.ID, false)
	if err != nil || !isNew {
		t.Fatalf("first submit: created=%v err=%v", isNew, err)
	}

	second, isNew, err := svc.Submit(context.Background(), doc.ID, false)
	if err != nil {
		t.Fatalf("second submit: %v", err)
	}
	if isNew {
		t.Fatal("second submit created a new extraction")
	}
	if second.ID != first.ID {
		t.Fatalf("second submit returned %s, want %s", second.ID, first.ID)
	}

	close(block)
	waitTerminal(t, svc, first.ID)
}

type blockingExtractor struct {
	release chan struct{}
}

func (b *blockingExtractor) Extract(ctx context.Context, ref oracle.DocumentRef) (oracle.Profile, error) {
	<-b.release
	return oracle.Profile{FullName: "Blocked"}, nil
}

func TestSubmitReprocessSupersedesCompleted(t *testing.T) {
	ext := &stubExtractor{profile: oracle.Profile{FullName: "Jane Doe"}}
	svc, _, doc := newTestService(t, ext)

	first, _, err := svc.Submit(context.Background(), doc.ID, false)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	waitTerminal(t, svc, first.ID)

	// Without reprocess the completed row is reused.
	reused, isNew, err := svc.Submit(context.Background(), doc.ID, false)
	if err != nil || isNew || reused.ID != first.ID {
		t.Fatalf("reuse: id=%s created=%v err=%v", reused.ID, isNew, err)
	}

	second, isNew, err := svc.Submit(context.Background(), doc.ID, true)
	if err != nil {
		t.Fatalf("reprocess submit: %v", err)
	}
	if !isNew || second.ID == first.ID {
		t.Fatalf("reprocess did not create a fresh extraction: created=%v", isNew)
	}
	waitTerminal(t, svc, second.ID)

	old, err := svc.Get(context.Background(), first.ID)
	if err != nil {
		t.Fatalf("get superseded: %v", err)
	}
	if old.Current {
		t.Fatal("superseded extraction still marked current")
	}
	current, err := svc.CurrentForDocument(context.Background(), doc.ID)
	if err != nil {
		t.Fatalf("current lookup: %v", err)
	}
	if current.ID != second.ID {
		t.Fatalf("current = %s, want %s", current.ID, second.ID)
	}
}

func TestSubmitRetriesTransientOracleFailure(t *testing.T) {
	ext := &stubExtractor{
		profile: oracle.Profile{FullName: "Jane Doe"},
		errs:    []error{oracle.ErrUnavailable, oracle.ErrUnavailable},
	}
	svc, _, doc := newTestService(t, ext)

	created, _, err := svc.Submit(context.Background(), doc.ID, false)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	final := waitTerminal(t, svc, created.ID)
	if final.Status != StatusCompleted {
		t.Fatalf("status = %s, want completed", final.Status)
	}
	if ext.calls != 3 {
		t.Fatalf("oracle calls = %d, want 3", ext.calls)
	}
}

func TestSubmitMalformedContentFailsWithoutRetry(t *testing.T) {
	ext := &stubExtractor{errs: []error{oracle.ErrMalformedContent}}
	svc, _, doc := newTestService(t, ext)

	created, _, err := svc.Submit(context.Background(), doc.ID, false)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	final := waitTerminal(t, svc, created.ID)
	if final.Status != StatusFailed {
		t.Fatalf("status = %s, want failed", final.Status)
	}
	if final.ErrorCode != ErrorCodeExtractionFailed {
		t.Fatalf("error code = %s, want %s", final.ErrorCode, ErrorCodeExtractionFailed)
	}
	if final.ErrorRetryable == nil || *final.ErrorRetryable {
		t.Fatal("malformed content must not be marked retryable")
	}
	if ext.calls != 1 {
		t.Fatalf("oracle calls = %d, want 1", ext.calls)
	}
}

func TestSubmitFailedExtractionIsSuperseded(t *testing.T) {
	ext := &stubExtractor{
		profile: oracle.Profile{FullName: "Jane Doe"},
		errs:    []error{oracle.ErrMalformedContent},
	}
	svc, _, doc := newTestService(t, ext)

	first, _, err := svc.Submit(context.Background(), doc.ID, false)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	failed := waitTerminal(t, svc, first.ID)
	if failed.Status != StatusFailed {
		t.Fatalf("status = %s, want failed", failed.Status)
	}

	second, isNew, err := svc.Submit(context.Background(), doc.ID, false)
	if err != nil {
		t.Fatalf("resubmit: %v", err)
	}
	if !isNew || second.ID == first.ID {
		t.Fatal("failed extraction was not superseded on resubmit")
	}
	final := waitTerminal(t, svc, second.ID)
	if final.Status != StatusCompleted {
		t.Fatalf("status = %s, want completed", final.Status)
	}
}

func TestSubmitUnknownDocument(t *testing.T) {
	svc, _, _ := newTestService(t, &stubExtractor{})
	if _, _, err := svc.Submit(context.Background(), "missing", false); !errors.Is(err, documents.ErrNotFound) {
		t.Fatalf("err = %v, want documents.ErrNotFound", err)
	}
}
