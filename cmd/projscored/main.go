// Command projscored is the hosted projscore service.
// It serves the evaluate, ingest and report endpoints and a health check.
package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/projscore/projscore/internal/api"
	"github.com/projscore/projscore/internal/ingestion"
	"github.com/projscore/projscore/internal/platform"
	"github.com/projscore/projscore/internal/project"
	"github.com/projscore/projscore/pkg/metrics"
	"github.com/projscore/projscore/pkg/rulebase"
	"github.com/projscore/projscore/pkg/scoring"
)

type config struct {
	Port           string
	DatabaseURL    string // empty runs with an in-memory index
	StorageBackend string // local, s3 or gcs
	StoragePath    string
	StorageBucket  string
	StoragePrefix  string
	S3Endpoint     string
	S3Region       string
	APIKey         string
	RulesPath      string
	CacheSize      int
	LogLevel       string
}

func loadConfig() config {
	// A missing .env file is fine; the environment wins either way.
	_ = godotenv.Load()

	cacheSize, _ := strconv.Atoi(os.Getenv("REPORT_CACHE_SIZE"))
	return config{
		Port:           envOrDefault("PORT", "8080"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		StorageBackend: envOrDefault("STORAGE_BACKEND", "local"),
		StoragePath:    envOrDefault("STORAGE_PATH", "/tmp/projscore-data"),
		StorageBucket:  os.Getenv("STORAGE_BUCKET"),
		StoragePrefix:  os.Getenv("STORAGE_PREFIX"),
		S3Endpoint:     os.Getenv("S3_ENDPOINT"),
		S3Region:       os.Getenv("S3_REGION"),
		APIKey:         os.Getenv("API_KEY"),
		RulesPath:      os.Getenv("RULES_PATH"),
		CacheSize:      cacheSize,
		LogLevel:       envOrDefault("LOG_LEVEL", "info"),
	}
}

func main() {
	cfg := loadConfig()
	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("projscored failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	engine, err := rulebase.LoadEngine(cfg.RulesPath)
	if err != nil {
		return fmt.Errorf("load rule base: %w", err)
	}
	scorer := scoring.NewScorer(engine, metrics.DefaultMapping())

	storage, closeStorage, err := newStorage(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStorage()

	// Initialize index
	var (
		index ingestion.Index
		db    *sql.DB
	)
	if cfg.DatabaseURL != "" {
		db, err = platform.Open(ctx, cfg.DatabaseURL, 30*time.Second)
		if err != nil {
			return err
		}
		defer db.Close()

		version, err := platform.AutoMigrate(db)
		if err != nil {
			return err
		}
		logger.Info("database ready", "schema_version", version)
		index = project.NewService(db)
	} else {
		logger.Warn("DATABASE_URL not set, reports are indexed in memory")
		index = ingestion.NewMemoryIndex()
	}

	svc := ingestion.NewService(index, storage, scorer, logger)
	handler := api.NewHandler(svc, api.NewReportCache(cfg.CacheSize), logger)

	// Set up HTTP routes
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)
	mux.HandleFunc("GET /healthz", healthHandler(db))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           api.RequestLogger(logger)(api.CORS(api.APIKeyAuth(cfg.APIKey)(mux))),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting projscored", "port", cfg.Port, "storage", cfg.StorageBackend)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("listen: %w", err)
		}
		close(errCh)
	}()

	// Graceful shutdown
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// newStorage selects the report blob store. The returned func releases it.
func newStorage(ctx context.Context, cfg config) (ingestion.StorageClient, func(), error) {
	noop := func() {}
	switch cfg.StorageBackend {
	case "local":
		return ingestion.NewLocalStorage(cfg.StoragePath), noop, nil
	case "s3":
		if cfg.StorageBucket == "" {
			return nil, noop, fmt.Errorf("STORAGE_BUCKET is required for s3 storage")
		}
		s, err := ingestion.NewS3Storage(ctx, ingestion.S3Config{
			Bucket:    cfg.StorageBucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: os.Getenv("AWS_ACCESS_KEY_ID"),
			SecretKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
			Prefix:    cfg.StoragePrefix,
		})
		if err != nil {
			return nil, noop, err
		}
		return s, noop, nil
	case "gcs":
		if cfg.StorageBucket == "" {
			return nil, noop, fmt.Errorf("STORAGE_BUCKET is required for gcs storage")
		}
		s, err := ingestion.NewGCSStorage(ctx, cfg.StorageBucket)
		if err != nil {
			return nil, noop, err
		}
		return s, func() { _ = s.Close() }, nil
	default:
		return nil, noop, fmt.Errorf("unknown STORAGE_BACKEND %q (want local, s3 or gcs)", cfg.StorageBackend)
	}
}

func healthHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			if err := db.PingContext(r.Context()); err != nil {
				http.Error(w, "database unreachable", http.StatusServiceUnavailable)
				return
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}
