package ingestion

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/projscore/projscore/internal/project"
	"github.com/projscore/projscore/pkg/metrics"
	"github.com/projscore/projscore/pkg/scoring"
)

// Index records report summaries. *project.Service implements it.
type Index interface {
	EnsureProject(ctx context.Context, name string) (string, error)
	ListProjects(ctx context.Context) ([]project.Project, error)
	InsertReport(ctx context.Context, row project.ReportRow) error
	GetReport(ctx context.Context, reportID string) (*project.ReportRow, error)
	ListReports(ctx context.Context, projectName string, limit int) ([]project.ReportRow, error)
}

var (
	_ Index = (*project.Service)(nil)
	_ Index = (*MemoryIndex)(nil)
)

// IngestRequest describes a project's metrics to score and store.
type IngestRequest struct {
	Project string           `json:"project"`
	Path    string           `json:"path,omitempty"`
	Metrics *metrics.Metrics `json:"metrics"`
}

// Validate checks that the request can be ingested.
func (r IngestRequest) Validate() error {
	if strings.TrimSpace(r.Project) == "" {
		return errors.New("project is required")
	}
	if strings.ContainsAny(r.Project, "/\\") {
		return fmt.Errorf("project %q must not contain path separators", r.Project)
	}
	if r.Project == "." || r.Project == ".." {
		return fmt.Errorf("project %q is not a valid name", r.Project)
	}
	if r.Metrics == nil {
		return errors.New("metrics are required")
	}
	return nil
}

// Service orchestrates the ingestion pipeline.
type Service struct {
	index   Index
	storage StorageClient
	scorer  *scoring.Scorer
	logger  *slog.Logger
}

// NewService creates a new ingestion Service.
func NewService(index Index, storage StorageClient, scorer *scoring.Scorer, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		index:   index,
		storage: storage,
		scorer:  scorer,
		logger:  logger,
	}
}

// Scorer returns the scorer used for every report.
func (s *Service) Scorer() *scoring.Scorer { return s.scorer }

// Evaluate scores crisp inputs without storing anything.
func (s *Service) Evaluate(in metrics.Inputs) (*scoring.Report, error) {
	return s.scorer.ScoreInputs(in)
}

// Ingest scores the request's metrics, stores the report body and indexes it.
func (s *Service) Ingest(ctx context.Context, req IngestRequest) (*scoring.Report, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// 1. Score
	report, err := s.scorer.ScoreMetrics(req.Metrics)
	if err != nil {
		return nil, fmt.Errorf("score: %w", err)
	}
	report.ID = uuid.NewString()
	report.Project = req.Project
	report.Path = req.Path

	// 2. Ensure project exists
	projectID, err := s.index.EnsureProject(ctx, req.Project)
	if err != nil {
		return nil, fmt.Errorf("ensure project: %w", err)
	}

	// 3. Store body
	data, err := json.Marshal(report)
	if err != nil {
		return nil, fmt.Errorf("marshal report: %w", err)
	}
	if err := s.storage.PutReport(ctx, req.Project, report.ID, data); err != nil {
		return nil, fmt.Errorf("put report blob: %w", err)
	}

	// 4. Index
	err = s.index.InsertReport(ctx, project.ReportRow{
		ID:            report.ID,
		ProjectID:     projectID,
		ProjectName:   req.Project,
		Path:          req.Path,
		Score:         report.Score,
		Band:          report.Band,
		CleanCode:     report.Inputs.CleanCode,
		Functionality: report.Inputs.Functionality,
		Inheritance:   report.Inputs.Inheritance,
		StorageRef:    reportKey(req.Project, report.ID),
		CreatedAt:     report.CreatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("index report: %w", err)
	}

	s.logger.Info("report ingested",
		"report_id", report.ID,
		"project", req.Project,
		"score", report.Score,
		"band", report.Band,
	)
	return report, nil
}

// GetReport loads a stored report by ID.
func (s *Service) GetReport(ctx context.Context, reportID string) (*scoring.Report, error) {
	row, err := s.index.GetReport(ctx, reportID)
	if err != nil {
		if errors.Is(err, project.ErrNotFound) {
			return nil, fmt.Errorf("report %s: %w", reportID, ErrNotFound)
		}
		return nil, fmt.Errorf("lookup report: %w", err)
	}

	data, err := s.storage.GetReport(ctx, row.ProjectName, row.ID)
	if err != nil {
		return nil, fmt.Errorf("load report blob: %w", err)
	}

	var report scoring.Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("unmarshal report: %w", err)
	}
	return &report, nil
}

// ListProjects returns every project that has reports, ordered by name.
func (s *Service) ListProjects(ctx context.Context) ([]project.Project, error) {
	projects, err := s.index.ListProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	if projects == nil {
		projects = []project.Project{}
	}
	return projects, nil
}

// ListReports returns the summaries of a project's reports, newest first.
func (s *Service) ListReports(ctx context.Context, projectName string, limit int) ([]scoring.Summary, error) {
	rows, err := s.index.ListReports(ctx, projectName, limit)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}

	summaries := make([]scoring.Summary, 0, len(rows))
	for _, r := range rows {
		summaries = append(summaries, scoring.Summary{
			ID:        r.ID,
			Project:   r.ProjectName,
			Path:      r.Path,
			CreatedAt: r.CreatedAt,
			Score:     r.Score,
			Band:      r.Band,
		})
	}
	return summaries, nil
}
