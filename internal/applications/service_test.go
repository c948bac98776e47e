package applications

import (
	"context"
	"errors"
	"sync"
	"testing"

	"talent-backend/internal/vacancies"
)

func newAppService(t *testing.T) (*Service, vacancies.Vacancy) {
	t.Helper()
	vacRepo := vacancies.NewMemoryRepo()
	vacSvc := &vacancies.Service{Repo: vacRepo}
	vacancy, err := vacSvc.Create(context.Background(), "Backend Engineer", "Go services", "Go, SQL", "remote")
	if err != nil {
		t.Fatalf("create vacancy: %v", err)
	}
	return &Service{Repo: NewMemoryRepo(), Vacancies: vacRepo}, vacancy
}

func TestApplyRejectsDuplicatePair(t *testing.T) {
	svc, vacancy := newAppService(t)
	ctx := context.Background()

	if _, err := svc.Apply(ctx, "cand-42", vacancy.ID, ""); err != nil {
		t.Fatalf("first apply: %v", err)
	}
	if _, err := svc.Apply(ctx, "cand-42", vacancy.ID, ""); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("err = %v, want ErrDuplicate", err)
	}
	// A different candidate for the same vacancy is fine.
	if _, err := svc.Apply(ctx, "cand-43", vacancy.ID, ""); err != nil {
		t.Fatalf("other candidate apply: %v", err)
	}
}

func TestApplyConcurrentDoubleSubmission(t *testing.T) {
	svc, vacancy := newAppService(t)

	const attempts = 8
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Apply(context.Background(), "cand-42", vacancy.ID, "")
		}(i)
	}
	wg.Wait()

	var ok, dup int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, ErrDuplicate):
			dup++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if ok != 1 || dup != attempts-1 {
		t.Fatalf("ok=%d dup=%d, want exactly one stored application", ok, dup)
	}
}

func TestApplyInactiveVacancy(t *testing.T) {
	svc, vacancy := newAppService(t)
	ctx := context.Background()

	if err := svc.Vacancies.SetActive(ctx, vacancy.ID, false); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if _, err := svc.Apply(ctx, "cand-42", vacancy.ID, ""); !errors.Is(err, vacancies.ErrInactive) {
		t.Fatalf("err = %v, want vacancies.ErrInactive", err)
	}
}

func TestTransitionLifecycle(t *testing.T) {
	svc, vacancy := newAppService(t)
	ctx := context.Background()

	app, err := svc.Apply(ctx, "cand-42", vacancy.ID, "")
	if err != nil {
		t.Fatalf("apply: %v", err)
	}

	app, err = svc.Transition(ctx, app.ID, StatusUnderReview, "recruiter-1", "looks promising")
	if err != nil {
		t.Fatalf("to under_review: %v", err)
	}
	if app.Status != StatusUnderReview || app.Feedback != "looks promising" {
		t.Fatalf("unexpected state: %+v", app)
	}

	app, err = svc.Transition(ctx, app.ID, StatusApproved, "recruiter-1", "")
	if err != nil {
		t.Fatalf("to approved: %v", err)
	}
	if app.Status != StatusApproved {
		t.Fatalf("status = %s, want approved", app.Status)
	}
	// Earlier feedback survives transitions without new feedback.
	if app.Feedback != "looks promising" {
		t.Fatalf("feedback = %q, want preserved", app.Feedback)
	}
}

func TestTransitionRejectsIllegalMoves(t *testing.T) {
	svc, vacancy := newAppService(t)
	ctx := context.Background()

	app, err := svc.Apply(ctx, "cand-42", vacancy.ID, "")
	if err != nil {
		t.Fatalf("apply: %v", err)
	}

	// Cannot skip review.
	if _, err := svc.Transition(ctx, app.ID, StatusApproved, "r", ""); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("submitted->approved err = %v, want ErrInvalidTransition", err)
	}

	if _, err := svc.Transition(ctx, app.ID, StatusUnderReview, "r", ""); err != nil {
		t.Fatalf("to under_review: %v", err)
	}
	if _, err := svc.Transition(ctx, app.ID, StatusRejected, "r", "not a fit"); err != nil {
		t.Fatalf("to rejected: %v", err)
	}

	// Terminal states have no outgoing edges.
	if _, err := svc.Transition(ctx, app.ID, StatusApproved, "r", ""); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("rejected->approved err = %v, want ErrInvalidTransition", err)
	}
	if _, err := svc.Transition(ctx, app.ID, StatusUnderReview, "r", ""); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("rejected->under_review err = %v, want ErrInvalidTransition", err)
	}
}

func TestTransitionUnknownStatus(t *testing.T) {
	svc, vacancy := newAppService(t)
	ctx := context.Background()

	app, err := svc.Apply(ctx, "cand-42", vacancy.ID, "")
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if _, err := svc.Transition(ctx, app.ID, "archived", "r", ""); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("err = %v, want ErrInvalidTransition", err)
	}
}
