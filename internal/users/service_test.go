package users

import (
	"context"
	"errors"
	"testing"

	"talent-backend/internal/shared/server/middleware"
)

func TestUpsertKeepsRoleOnReturningLogin(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	ctx := context.Background()

	if err := svc.UpsertFromAuth(ctx, User{ID: "u1", Email: "u1@example.com", Name: "First"}); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if err := svc.SetRole(ctx, "u1", middleware.RoleEmployer); err != nil {
		t.Fatalf("set role: %v", err)
	}

	if err := svc.UpsertFromAuth(ctx, User{ID: "u1", Email: "new@example.com", Name: "Renamed"}); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	got, err := svc.GetByID(ctx, "u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Role != middleware.RoleEmployer {
		t.Fatalf("role = %q, want employer", got.Role)
	}
	if got.Email != "new@example.com" || got.Name != "Renamed" {
		t.Fatalf("profile fields not refreshed: %+v", got)
	}
}

func TestUpsertDefaultsToCandidate(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	ctx := context.Background()

	if err := svc.UpsertFromAuth(ctx, User{ID: "u2", Email: "u2@example.com"}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	got, err := svc.GetByID(ctx, "u2")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Role != middleware.RoleCandidate {
		t.Fatalf("role = %q, want candidate", got.Role)
	}
}

func TestSetRoleRejectsUnknownRole(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	ctx := context.Background()

	if err := svc.UpsertFromAuth(ctx, User{ID: "u3", Email: "u3@example.com"}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := svc.SetRole(ctx, "u3", "superuser"); !errors.Is(err, ErrInvalidRole) {
		t.Fatalf("err = %v, want ErrInvalidRole", err)
	}
}

func TestSetRoleUnknownUser(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	if err := svc.SetRole(context.Background(), "missing", middleware.RoleAdministrator); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestUpsertRequiresIdentity(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	if err := svc.UpsertFromAuth(context.Background(), User{Email: "x@example.com"}); err == nil {
		t.Fatal("expected error for missing id")
	}
	if err := svc.UpsertFromAuth(context.Background(), User{ID: "u4"}); err == nil {
		t.Fatal("expected error for missing email")
	}
}
