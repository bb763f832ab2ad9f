package main

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/projscore/projscore/internal/ingestion"
)

func TestEnvOrDefault(t *testing.T) {
	t.Setenv("PROJSCORED_TEST_SET", "value")
	if got := envOrDefault("PROJSCORED_TEST_SET", "fallback"); got != "value" {
		t.Errorf("envOrDefault = %q, want value", got)
	}
	t.Setenv("PROJSCORED_TEST_EMPTY", "")
	if got := envOrDefault("PROJSCORED_TEST_EMPTY", "fallback"); got != "fallback" {
		t.Errorf("envOrDefault = %q, want fallback", got)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "DATABASE_URL", "STORAGE_BACKEND", "STORAGE_PATH", "REPORT_CACHE_SIZE", "LOG_LEVEL"} {
		t.Setenv(k, "")
	}
	cfg := loadConfig()
	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.StorageBackend != "local" {
		t.Errorf("StorageBackend = %q, want local", cfg.StorageBackend)
	}
	if cfg.DatabaseURL != "" {
		t.Errorf("DatabaseURL = %q, want empty", cfg.DatabaseURL)
	}
	if cfg.CacheSize != 0 {
		t.Errorf("CacheSize = %d, want 0", cfg.CacheSize)
	}
}

func TestNewStorage(t *testing.T) {
	ctx := context.Background()

	s, closeFn, err := newStorage(ctx, config{StorageBackend: "local", StoragePath: t.TempDir()})
	if err != nil {
		t.Fatalf("local storage: %v", err)
	}
	defer closeFn()
	if _, ok := s.(*ingestion.LocalStorage); !ok {
		t.Errorf("expected *LocalStorage, got %T", s)
	}

	for _, backend := range []string{"s3", "gcs"} {
		if _, _, err := newStorage(ctx, config{StorageBackend: backend}); err == nil {
			t.Errorf("%s without bucket: expected error", backend)
		}
	}

	if _, _, err := newStorage(ctx, config{StorageBackend: "ftp"}); err == nil {
		t.Error("unknown backend: expected error")
	}
}

func TestHealthHandlerWithoutDatabase(t *testing.T) {
	rec := httptest.NewRecorder()
	healthHandler(nil)(rec, httptest.NewRequest("GET", "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestNewLogger(t *testing.T) {
	logger := newLogger("debug")
	if !logger.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("expected debug level enabled")
	}
	logger = newLogger("bogus")
	if logger.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("expected fallback to info level")
	}
}
