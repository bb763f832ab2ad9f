// Package metrics extracts code metrics from Java sources and maps them to
// the three inputs of the project-success inference system.
package metrics

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/java"
)

// Metrics aggregates the measurements of every Java file under a root.
type Metrics struct {
	Files       int `json:"files"`
	LOC         int `json:"loc"`
	Classes     int `json:"classes"`
	Methods     int `json:"methods"`
	Extends     int `json:"extends"`    // classes declaring a superclass
	Overrides   int `json:"overrides"`  // methods annotated @Override
	Complexity  int `json:"complexity"` // estimated cyclomatic complexity
	ParseErrors int `json:"parse_errors"`
}

// Add accumulates f into m.
func (m *Metrics) Add(f FileMetrics) {
	m.Files++
	m.LOC += f.LOC
	m.Complexity += f.Complexity
	if !f.Parsed {
		m.ParseErrors++
		return
	}
	m.Classes += f.Classes
	m.Methods += f.Methods
	m.Extends += f.Extends
	m.Overrides += f.Overrides
}

// FileMetrics holds the measurements of a single source file. The structural
// counts are only meaningful when Parsed is true.
type FileMetrics struct {
	Path       string `json:"path"`
	LOC        int    `json:"loc"`
	Complexity int    `json:"complexity"`
	Parsed     bool   `json:"parsed"`
	Classes    int    `json:"classes"`
	Methods    int    `json:"methods"`
	Extends    int    `json:"extends"`
	Overrides  int    `json:"overrides"`
}

const declarationQuery = `
	(class_declaration) @class
	(method_declaration) @method
`

// branchTokens are counted as plain substrings, so identifiers that contain
// them (e.g. "notify") are counted too.
var branchTokens = []string{"if", "for", "while", "case", "catch", "&&", "||"}

// EstimateComplexity approximates the cyclomatic complexity of a source file
// as one plus the number of branching tokens it contains.
func EstimateComplexity(code string) int {
	count := 1
	for _, tok := range branchTokens {
		count += strings.Count(code, tok)
	}
	return count
}

// CountLines returns the number of lines in src. A trailing newline does not
// start a new line.
func CountLines(src []byte) int {
	if len(src) == 0 {
		return 0
	}
	n := bytes.Count(src, []byte("\n"))
	if src[len(src)-1] != '\n' {
		n++
	}
	return n
}

// Extractor walks directories for Java files and measures them.
type Extractor struct {
	ignored []string
	query   *sitter.Query
}

// DefaultIgnored lists directory names skipped while walking.
var DefaultIgnored = []string{".git"}

// NewExtractor creates an extractor that skips the given directories. Each
// entry is a slash-separated path relative to the scan root and may use
// path.Match patterns, so "build" skips only <root>/build while
// "*/build" skips it one level down. With no entries it skips DefaultIgnored.
func NewExtractor(ignored ...string) (*Extractor, error) {
	if len(ignored) == 0 {
		ignored = DefaultIgnored
	}
	q, err := sitter.NewQuery([]byte(declarationQuery), java.GetLanguage())
	if err != nil {
		return nil, fmt.Errorf("failed to create query: %w", err)
	}
	return &Extractor{ignored: ignored, query: q}, nil
}

// ExtractSource measures a single Java compilation unit.
func (e *Extractor) ExtractSource(ctx context.Context, path string, src []byte) (FileMetrics, error) {
	fm := FileMetrics{
		Path:       path,
		LOC:        CountLines(src),
		Complexity: EstimateComplexity(string(src)),
	}

	parser := sitter.NewParser()
	parser.SetLanguage(java.GetLanguage())
	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return fm, fmt.Errorf("failed to parse file %s: %w", path, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		// Counted for size and complexity only.
		return fm, nil
	}
	fm.Parsed = true

	qc := sitter.NewQueryCursor()
	defer qc.Close()
	qc.Exec(e.query, root)
	for {
		m, ok := qc.NextMatch()
		if !ok {
			break
		}
		for _, c := range m.Captures {
			switch e.query.CaptureNameForId(c.Index) {
			case "class":
				fm.Classes++
				if c.Node.ChildByFieldName("superclass") != nil {
					fm.Extends++
				}
			case "method":
				fm.Methods++
				if hasOverride(c.Node, src) {
					fm.Overrides++
				}
			}
		}
	}
	return fm, nil
}

// hasOverride reports whether a method declaration carries an Override
// annotation.
func hasOverride(method *sitter.Node, src []byte) bool {
	for i := 0; i < int(method.NamedChildCount()); i++ {
		mods := method.NamedChild(i)
		if mods.Type() != "modifiers" {
			continue
		}
		for j := 0; j < int(mods.NamedChildCount()); j++ {
			ann := mods.NamedChild(j)
			if ann.Type() != "marker_annotation" && ann.Type() != "annotation" {
				continue
			}
			if strings.Contains(ann.Content(src), "Override") {
				return true
			}
		}
	}
	return false
}

// ExtractFile reads and measures one file.
func (e *Extractor) ExtractFile(ctx context.Context, path string) (FileMetrics, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return FileMetrics{Path: path}, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	return e.ExtractSource(ctx, path, src)
}

// skip reports whether dir matches an ignore entry relative to root.
func (e *Extractor) skip(root, dir string) bool {
	rel, err := filepath.Rel(root, dir)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, ign := range e.ignored {
		if ok, _ := path.Match(strings.Trim(ign, "/"), rel); ok {
			return true
		}
	}
	return false
}

// ExtractDir walks root and aggregates the metrics of every .java file.
// Unreadable files are skipped. onFile, when non-nil, sees each file's
// metrics as it is measured.
func (e *Extractor) ExtractDir(ctx context.Context, root string, onFile func(FileMetrics)) (*Metrics, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("scanning %s: not a directory", root)
	}

	total := &Metrics{}
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if d.IsDir() {
			if path != root && e.skip(root, path) {
				return filepath.SkipDir
			}
			return nil
		}

		if !strings.HasSuffix(d.Name(), ".java") {
			return nil
		}

		fm, err := e.ExtractFile(ctx, path)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return nil
		}
		total.Add(fm)
		if onFile != nil {
			onFile(fm)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", root, err)
	}
	return total, nil
}
