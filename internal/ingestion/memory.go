package ingestion

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/projscore/projscore/internal/project"
)

// MemoryIndex is an in-process Index for running without Postgres.
// Contents are lost on restart.
type MemoryIndex struct {
	mu       sync.RWMutex
	projects map[string]project.Project // by name
	reports  map[string]project.ReportRow
}

// NewMemoryIndex creates an empty MemoryIndex.
func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{
		projects: make(map[string]project.Project),
		reports:  make(map[string]project.ReportRow),
	}
}

func (m *MemoryIndex) EnsureProject(ctx context.Context, name string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if p, ok := m.projects[name]; ok {
		return p.ID, nil
	}
	p := project.Project{ID: uuid.NewString(), Name: name, CreatedAt: time.Now().UTC()}
	m.projects[name] = p
	return p.ID, nil
}

func (m *MemoryIndex) ListProjects(ctx context.Context) ([]project.Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	projects := make([]project.Project, 0, len(m.projects))
	for _, p := range m.projects {
		projects = append(projects, p)
	}
	sort.Slice(projects, func(i, j int) bool { return projects[i].Name < projects[j].Name })
	return projects, nil
}

func (m *MemoryIndex) InsertReport(ctx context.Context, row project.ReportRow) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.reports[row.ID]; ok {
		return fmt.Errorf("insert report row: duplicate id %s", row.ID)
	}
	m.reports[row.ID] = row
	return nil
}

func (m *MemoryIndex) GetReport(ctx context.Context, reportID string) (*project.ReportRow, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	row, ok := m.reports[reportID]
	if !ok {
		return nil, fmt.Errorf("get report %s: %w", reportID, project.ErrNotFound)
	}
	return &row, nil
}

func (m *MemoryIndex) ListReports(ctx context.Context, projectName string, limit int) ([]project.ReportRow, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var rows []project.ReportRow
	for _, r := range m.reports {
		if r.ProjectName == projectName {
			rows = append(rows, r)
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].CreatedAt.Equal(rows[j].CreatedAt) {
			return rows[i].CreatedAt.After(rows[j].CreatedAt)
		}
		return rows[i].ID < rows[j].ID
	})
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}
