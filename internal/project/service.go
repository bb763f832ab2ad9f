// Package project indexes projects and their scored reports in Postgres.
// Report bodies live in blob storage; rows here carry the summary and the
// storage reference.
package project

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a project or report row does not exist.
var ErrNotFound = errors.New("not found")

// Service provides project and report index management backed by Postgres.
type Service struct {
	db *sql.DB
}

// Project is a codebase whose reports are tracked.
type Project struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// ReportRow is the indexed summary of one stored report.
type ReportRow struct {
	ID            string
	ProjectID     string
	ProjectName   string
	Path          string
	Score         float64
	Band          string
	CleanCode     float64
	Functionality float64
	Inheritance   float64
	StorageRef    string
	CreatedAt     time.Time
}

// NewService creates a new project Service.
func NewService(db *sql.DB) *Service {
	return &Service{db: db}
}

// EnsureProject gets or creates a project by name and returns its ID.
func (s *Service) EnsureProject(ctx context.Context, name string) (string, error) {
	var id string
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO projects (id, name)
		 VALUES ($1, $2)
		 ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		 RETURNING id`,
		uuid.NewString(), name,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("ensure project %s: %w", name, err)
	}
	return id, nil
}

// ListProjects returns all projects ordered by name.
func (s *Service) ListProjects(ctx context.Context) ([]Project, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, created_at FROM projects ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var projects []Project
	for rows.Next() {
		var p Project
		if err := rows.Scan(&p.ID, &p.Name, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// InsertReport indexes a stored report. The row's ProjectID must refer to an
// existing project.
func (s *Service) InsertReport(ctx context.Context, row ReportRow) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO reports (id, project_id, path, score, band, clean_code, functionality, inheritance, storage_ref, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		row.ID, row.ProjectID, row.Path, row.Score, row.Band,
		row.CleanCode, row.Functionality, row.Inheritance,
		row.StorageRef, row.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert report row: %w", err)
	}
	return nil
}

const reportColumns = `r.id, r.project_id, p.name, r.path, r.score, r.band,
		        r.clean_code, r.functionality, r.inheritance, r.storage_ref, r.created_at`

func scanReport(sc interface{ Scan(...any) error }, r *ReportRow) error {
	return sc.Scan(
		&r.ID, &r.ProjectID, &r.ProjectName, &r.Path, &r.Score, &r.Band,
		&r.CleanCode, &r.Functionality, &r.Inheritance, &r.StorageRef, &r.CreatedAt,
	)
}

// GetReport returns a single report row by ID.
func (s *Service) GetReport(ctx context.Context, reportID string) (*ReportRow, error) {
	// reports.id is a UUID column; anything else cannot match a row.
	if _, err := uuid.Parse(reportID); err != nil {
		return nil, fmt.Errorf("get report %s: %w", reportID, ErrNotFound)
	}
	r := &ReportRow{}
	err := scanReport(s.db.QueryRowContext(ctx,
		`SELECT `+reportColumns+`
		 FROM reports r JOIN projects p ON p.id = r.project_id
		 WHERE r.id = $1`,
		reportID,
	), r)
	if err != nil {
		return nil, fmt.Errorf("get report %s: %w", reportID, notFound(err))
	}
	return r, nil
}

// ListReports returns the reports of a project, newest first. A limit of
// zero or less returns every report.
func (s *Service) ListReports(ctx context.Context, projectName string, limit int) ([]ReportRow, error) {
	query := `SELECT ` + reportColumns + `
		 FROM reports r JOIN projects p ON p.id = r.project_id
		 WHERE p.name = $1
		 ORDER BY r.created_at DESC`
	args := []any{projectName}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	var reports []ReportRow
	for rows.Next() {
		var r ReportRow
		if err := scanReport(rows, &r); err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		reports = append(reports, r)
	}
	return reports, rows.Err()
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
