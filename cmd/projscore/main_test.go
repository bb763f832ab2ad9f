package main

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/projscore/projscore/pkg/rulebase"
	"github.com/projscore/projscore/pkg/scoring"
)

func TestScanCmdFlags(t *testing.T) {
	cmd := newScanCmd()
	f := cmd.Flags()

	outputFmt, _ := f.GetString("output")
	if outputFmt != "text" {
		t.Errorf("default output = %q, want text", outputFmt)
	}

	for _, flag := range []string{"rules", "output", "no-save", "verbose"} {
		if f.Lookup(flag) == nil {
			t.Errorf("missing flag: %s", flag)
		}
	}
}

func TestEvalCmdFlags(t *testing.T) {
	cmd := newEvalCmd()
	f := cmd.Flags()

	for _, flag := range []string{"clean", "functionality", "inheritance", "rules", "output"} {
		if f.Lookup(flag) == nil {
			t.Errorf("missing flag: %s", flag)
		}
	}

	cmd.SetArgs([]string{"--clean", "50"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	if err := cmd.Execute(); err == nil {
		t.Error("expected error when functionality and inheritance are missing")
	}
}

func TestRootCmdSubcommands(t *testing.T) {
	root := newRootCmd()
	for _, name := range []string{"scan", "eval", "rules", "history"} {
		found := false
		for _, c := range root.Commands() {
			if c.Name() == name {
				found = true
			}
		}
		if !found {
			t.Errorf("missing subcommand: %s", name)
		}
	}
}

func TestRunEvalJSON(t *testing.T) {
	var buf bytes.Buffer
	err := runEval(&buf, evalOpts{clean: 67, functionality: 34, inheritance: 100, outputFmt: "json"})
	if err != nil {
		t.Fatalf("runEval: %v", err)
	}

	var report scoring.Report
	if err := json.Unmarshal(buf.Bytes(), &report); err != nil {
		t.Fatalf("decoding output: %v", err)
	}
	if math.Abs(report.Score-55) > 1e-6 {
		t.Errorf("score = %v, want 55", report.Score)
	}
	if report.Band != "average" {
		t.Errorf("band = %q, want average", report.Band)
	}
	if len(report.Rules) != 2 {
		t.Errorf("fired rules = %d, want 2", len(report.Rules))
	}
}

func TestRunEvalErrors(t *testing.T) {
	if err := runEval(&bytes.Buffer{}, evalOpts{clean: 150, functionality: 50, inheritance: 50}); err == nil {
		t.Error("expected error for out-of-domain input")
	}
	if err := runEval(&bytes.Buffer{}, evalOpts{clean: 50, functionality: 50, inheritance: 50, outputFmt: "xml"}); err == nil {
		t.Error("expected error for unknown output format")
	}
	if err := runEval(&bytes.Buffer{}, evalOpts{clean: 50, functionality: 50, inheritance: 50, rulesPath: filepath.Join(t.TempDir(), "missing.yaml")}); err == nil {
		t.Error("expected error for missing rule base")
	}
}

func TestRunRules(t *testing.T) {
	var buf bytes.Buffer
	if err := runRules(&buf, "", ""); err != nil {
		t.Fatalf("runRules: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"antecedents:", "consequent:", "rules:", "clean_code"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestRunRulesExportRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules", "custom.yaml")
	if err := runRules(&bytes.Buffer{}, "", path); err != nil {
		t.Fatalf("export: %v", err)
	}

	engine, err := rulebase.LoadEngine(path)
	if err != nil {
		t.Fatalf("loading exported rule base: %v", err)
	}
	if got, want := len(engine.Rules()), len(rulebase.Default().Rules); got != want {
		t.Errorf("exported rules = %d, want %d", got, want)
	}

	var buf bytes.Buffer
	err = runEval(&buf, evalOpts{clean: 67, functionality: 34, inheritance: 100, rulesPath: path, outputFmt: "json"})
	if err != nil {
		t.Fatalf("eval with exported rules: %v", err)
	}
	var report scoring.Report
	if err := json.Unmarshal(buf.Bytes(), &report); err != nil {
		t.Fatalf("decoding output: %v", err)
	}
	if math.Abs(report.Score-55) > 1e-6 {
		t.Errorf("score = %v, want 55", report.Score)
	}
}

func TestRunScan(t *testing.T) {
	zoo := filepath.Join("..", "..", "pkg", "metrics", "testdata", "zoo")

	var buf bytes.Buffer
	err := runScan(context.Background(), &buf, scanOpts{path: zoo, outputFmt: "json", noSave: true})
	if err != nil {
		t.Fatalf("runScan: %v", err)
	}

	var report scoring.Report
	if err := json.Unmarshal(buf.Bytes(), &report); err != nil {
		t.Fatalf("decoding output: %v", err)
	}
	if math.Abs(report.Score-30) > 1e-6 {
		t.Errorf("score = %v, want 30", report.Score)
	}
	if report.Band != "poor" {
		t.Errorf("band = %q, want poor", report.Band)
	}
	if report.Project != "zoo" {
		t.Errorf("project = %q, want zoo", report.Project)
	}
	if report.ID == "" {
		t.Error("expected report ID")
	}
	if report.Metrics == nil || report.Metrics.Files != 4 {
		t.Errorf("metrics = %+v, want 4 files", report.Metrics)
	}
}

func TestRunScanErrors(t *testing.T) {
	if err := runScan(context.Background(), &bytes.Buffer{}, scanOpts{path: filepath.Join(t.TempDir(), "missing")}); err == nil {
		t.Error("expected error for missing path")
	}

	file := filepath.Join(t.TempDir(), "App.java")
	if err := os.WriteFile(file, []byte("class App {}"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := runScan(context.Background(), &bytes.Buffer{}, scanOpts{path: file}); err == nil {
		t.Error("expected error for file path")
	}
}

func TestRunHistory(t *testing.T) {
	dir := t.TempDir()

	var buf bytes.Buffer
	if err := runHistory(&buf, dir, 10, "text"); err != nil {
		t.Fatalf("runHistory: %v", err)
	}
	if !strings.Contains(buf.String(), "No saved reports.") {
		t.Errorf("output = %q, want empty notice", buf.String())
	}

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"aaaaaaaa-1", "bbbbbbbb-2", "cccccccc-3"} {
		r := &scoring.Report{ID: id, CreatedAt: base.Add(time.Duration(i) * time.Hour), Score: float64(10 * (i + 1)), Band: "poor"}
		if err := scoring.SaveReport(filepath.Join(dir, id+".json"), r); err != nil {
			t.Fatal(err)
		}
	}

	buf.Reset()
	if err := runHistory(&buf, dir, 2, "json"); err != nil {
		t.Fatalf("runHistory: %v", err)
	}
	var summaries []scoring.Summary
	if err := json.Unmarshal(buf.Bytes(), &summaries); err != nil {
		t.Fatalf("decoding output: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("summaries = %d, want 2", len(summaries))
	}
	if summaries[0].ID != "cccccccc-3" {
		t.Errorf("first = %q, want newest report", summaries[0].ID)
	}

	buf.Reset()
	if err := runHistory(&buf, dir, 0, "text"); err != nil {
		t.Fatalf("runHistory: %v", err)
	}
	if lines := strings.Count(buf.String(), "\n"); lines != 3 {
		t.Errorf("lines = %d, want 3", lines)
	}

	if err := runHistory(&buf, dir, 0, "yaml"); err == nil {
		t.Error("expected error for unknown output format")
	}
}

func TestFirstNonEmpty(t *testing.T) {
	tests := []struct {
		vals []string
		want string
	}{
		{[]string{"", "b", "c"}, "b"},
		{[]string{"a", "b"}, "a"},
		{[]string{"", ""}, ""},
		{nil, ""},
	}
	for _, tt := range tests {
		got := firstNonEmpty(tt.vals...)
		if got != tt.want {
			t.Errorf("firstNonEmpty(%v) = %q, want %q", tt.vals, got, tt.want)
		}
	}
}

func TestMinInt(t *testing.T) {
	if minInt(3, 5) != 3 {
		t.Error("minInt(3, 5) should be 3")
	}
	if minInt(5, 3) != 3 {
		t.Error("minInt(5, 3) should be 3")
	}
	if minInt(3, 3) != 3 {
		t.Error("minInt(3, 3) should be 3")
	}
}
