package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/riskibarqy/team-roster/internal/config"
	"github.com/riskibarqy/team-roster/internal/domain/selection"
	"github.com/riskibarqy/team-roster/internal/platform/logging"
)

func testConfig() config.Config {
	return config.Config{
		AppEnv:                   config.EnvDev,
		ServiceName:              "team-roster-api",
		HTTPAddr:                 ":0",
		ReadTimeout:              time.Second,
		WriteTimeout:             time.Second,
		StorageDriver:            config.StorageMemory,
		CacheEnabled:             true,
		CacheTTL:                 time.Minute,
		CORSAllowedOrigins:       []string{"*"},
		MetricsEnabled:           true,
		SelectionBatchMaxWorkers: 2,
		SelectionLevelBands:      selection.DefaultLevelBands(),
		SelectionRandomSeed:      7,
	}
}

func TestNew_MemoryStorageServesRoutes(t *testing.T) {
	a, err := New(context.Background(), testConfig(), logging.NewNop())
	if err != nil {
		t.Fatalf("build app: %v", err)
	}
	t.Cleanup(func() { _ = a.Close() })

	for _, path := range []string{"/healthz", "/v1/players", "/v1/events", "/metrics"} {
		rec := httptest.NewRecorder()
		a.Server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("GET %s: unexpected status %d", path, rec.Code)
		}
	}
}

func TestNew_MetricsDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.MetricsEnabled = false

	a, err := New(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("build app: %v", err)
	}

	rec := httptest.NewRecorder()
	a.Server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected /metrics to be absent, got %d", rec.Code)
	}
}

func TestNew_Validation(t *testing.T) {
	cfg := testConfig()
	cfg.HTTPAddr = ""
	if _, err := New(context.Background(), cfg, nil); err == nil {
		t.Fatalf("expected error for empty addr")
	}

	cfg = testConfig()
	cfg.StorageDriver = "mongo"
	_, err := New(context.Background(), cfg, nil)
	if err == nil || !strings.Contains(err.Error(), "unsupported storage driver") {
		t.Fatalf("expected unsupported driver error, got %v", err)
	}
}

func TestNewEngine_UsesConfiguredBands(t *testing.T) {
	cfg := testConfig()
	cfg.SelectionLevelBands = selection.LevelBands{Fallback: []int{5}}

	engine := NewEngine(cfg)
	if got := engine.Bands().Levels(1); len(got) != 1 || got[0] != 5 {
		t.Fatalf("unexpected bands: %v", got)
	}
}
