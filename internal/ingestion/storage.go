// Package ingestion runs the hosted scoring pipeline: score incoming metrics,
// store the report body in blob storage and index it in Postgres.
package ingestion

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNotFound is returned when a report is neither indexed nor stored.
var ErrNotFound = errors.New("report not found")

// StorageClient abstracts blob storage for report bodies.
type StorageClient interface {
	PutReport(ctx context.Context, project, reportID string, data []byte) error
	GetReport(ctx context.Context, project, reportID string) ([]byte, error)
}

// reportKey is the object key of a report body, shared by every backend.
func reportKey(project, reportID string) string {
	return project + "/reports/" + reportID + ".json"
}

// LocalStorage implements StorageClient using the local filesystem.
// Useful for development and testing.
type LocalStorage struct {
	BaseDir string
}

// NewLocalStorage creates a LocalStorage rooted at the given directory.
func NewLocalStorage(baseDir string) *LocalStorage {
	return &LocalStorage{BaseDir: baseDir}
}

func (s *LocalStorage) path(project, reportID string) string {
	return filepath.Join(s.BaseDir, filepath.FromSlash(reportKey(project, reportID)))
}

// PutReport stores a report blob.
func (s *LocalStorage) PutReport(ctx context.Context, project, reportID string, data []byte) error {
	path := s.path(project, reportID)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// GetReport retrieves a report blob.
func (s *LocalStorage) GetReport(ctx context.Context, project, reportID string) ([]byte, error) {
	data, err := os.ReadFile(s.path(project, reportID))
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("read %s: %w", reportKey(project, reportID), ErrNotFound)
	}
	return data, err
}
