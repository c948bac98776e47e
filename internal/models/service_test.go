package models

import (
	"context"
	"errors"
	"testing"
)

func TestRegisterRejectsDuplicateVersion(t *testing.T) {
	svc := &Service{Repo: NewMemoryRepo()}

	if _, err := svc.Register(context.Background(), "hiring-success", "v1", nil, nil, nil); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.Register(context.Background(), "hiring-success", "v1", nil, nil, nil); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("err = %v, want ErrDuplicate", err)
	}
}

func TestActivateSwitchesActiveVersion(t *testing.T) {
	svc := &Service{Repo: NewMemoryRepo()}
	ctx := context.Background()

	v1, err := svc.Register(ctx, "hiring-success", "v1", nil, nil, nil)
	if err != nil {
		t.Fatalf("register v1: %v", err)
	}
	v2, err := svc.Register(ctx, "hiring-success", "v2", nil, nil, nil)
	if err != nil {
		t.Fatalf("register v2: %v", err)
	}

	if _, err := svc.Active(ctx, "hiring-success"); !errors.Is(err, ErrNoActive) {
		t.Fatalf("err = %v, want ErrNoActive before activation", err)
	}

	if _, err := svc.Activate(ctx, v1.ID); err != nil {
		t.Fatalf("activate v1: %v", err)
	}
	active, err := svc.Active(ctx, "hiring-success")
	if err != nil || active.ID != v1.ID {
		t.Fatalf("active = %+v err = %v, want v1", active, err)
	}

	if _, err := svc.Activate(ctx, v2.ID); err != nil {
		t.Fatalf("activate v2: %v", err)
	}
	active, err = svc.Active(ctx, "hiring-success")
	if err != nil || active.ID != v2.ID {
		t.Fatalf("active = %+v err = %v, want v2", active, err)
	}

	demoted, err := svc.Get(ctx, v1.ID)
	if err != nil {
		t.Fatalf("get v1: %v", err)
	}
	if demoted.Active {
		t.Fatal("v1 still active after v2 activation")
	}
}

func TestRegisterValidatesAccuracyRange(t *testing.T) {
	svc := &Service{Repo: NewMemoryRepo()}
	bad := 1.5
	if _, err := svc.Register(context.Background(), "hiring-success", "v1", nil, &bad, nil); err == nil {
		t.Fatal("expected accuracy validation error")
	}
}
