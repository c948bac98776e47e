package vacancies

import (
	"context"
	"errors"
	"testing"
)

func TestCreateAndList(t *testing.T) {
	svc := &Service{Repo: NewMemoryRepo()}
	ctx := context.Background()

	v, err := svc.Create(ctx, "  Backend Engineer ", "Build services", "Go, SQL", "remote")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if v.Title != "Backend Engineer" {
		t.Fatalf("title = %q", v.Title)
	}
	if !v.Active {
		t.Fatal("new vacancy should be active")
	}

	if _, err := svc.Create(ctx, "   ", "", "", ""); err == nil {
		t.Fatal("expected error for empty title")
	}

	listed, err := svc.List(ctx, true, 10, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listed) != 1 {
		t.Fatalf("listed %d, want 1", len(listed))
	}
}

func TestDeactivateHidesFromActiveList(t *testing.T) {
	svc := &Service{Repo: NewMemoryRepo()}
	ctx := context.Background()

	v, err := svc.Create(ctx, "Data Engineer", "", "", "onsite")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.Deactivate(ctx, v.ID); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	active, err := svc.List(ctx, true, 10, 0)
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(active) != 0 {
		t.Fatalf("active list has %d, want 0", len(active))
	}

	all, err := svc.List(ctx, false, 10, 0)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("all list has %d, want 1", len(all))
	}

	if err := svc.Reactivate(ctx, v.ID); err != nil {
		t.Fatalf("reactivate: %v", err)
	}
	active, err = svc.List(ctx, true, 10, 0)
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(active) != 1 {
		t.Fatalf("active list has %d after reactivate, want 1", len(active))
	}
}

func TestGetUnknownVacancy(t *testing.T) {
	svc := &Service{Repo: NewMemoryRepo()}
	if _, err := svc.Get(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
