package bootstrap

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"talent-backend/internal/shared/config"
)

func TestBuildMemoryMode(t *testing.T) {
	cfg := config.Config{
		Env:             "dev",
		ObjectStoreType: "local",
		LocalStoreDir:   t.TempDir(),
	}

	app, err := Build(cfg)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if app.Router == nil {
		t.Fatal("router not built")
	}
	if app.DB != nil {
		t.Fatal("expected memory mode without a database")
	}
	if app.ExtractionsService == nil || app.PredictionsService == nil || app.RecommendationsService == nil {
		t.Fatal("core services not wired")
	}
	if app.ExtractionsService.OnCompleted == nil {
		t.Fatal("scoring hook not wired onto extraction completion")
	}

	resp := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	app.Router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("health status = %d", resp.Code)
	}
}

func TestRoutesRequireIdentity(t *testing.T) {
	cfg := config.Config{
		Env:             "dev",
		ObjectStoreType: "local",
		LocalStoreDir:   t.TempDir(),
	}

	app, err := Build(cfg)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	resp := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/vacancies", nil)
	app.Router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.Code)
	}
}
