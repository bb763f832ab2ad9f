// Package config handles loading and managing projscore configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/projscore/projscore/pkg/metrics"
)

// Config is the top-level configuration for projscore.
type Config struct {
	Rules RulesConfig `yaml:"rules"`
	Scan  ScanConfig  `yaml:"scan"`
}

// RulesConfig selects the rule base.
type RulesConfig struct {
	// Path to a YAML rule base, relative to the project root. Empty means
	// the built-in rules.
	Path string `yaml:"path"`
}

// ScanConfig controls metric extraction and the input mapping.
type ScanConfig struct {
	// Directories to skip, relative to the project root ("build" skips
	// <root>/build, not a nested com/acme/build package).
	Ignore  []string        `yaml:"ignore"`
	Mapping metrics.Mapping `yaml:"mapping"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Scan: ScanConfig{
			Ignore:  []string{".git", "target", "build", "node_modules"},
			Mapping: metrics.DefaultMapping(),
		},
	}
}

// Load reads a config file from the given path.
// If the file does not exist, it returns the default config.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// RulesFile returns the rule base path, resolving a relative path against the
// project root that holds configPath's .projscore directory.
func (c *Config) RulesFile(configPath string) string {
	if c.Rules.Path == "" || filepath.IsAbs(c.Rules.Path) || configPath == "" {
		return c.Rules.Path
	}
	root := filepath.Dir(filepath.Dir(configPath))
	return filepath.Join(root, c.Rules.Path)
}

// FindConfigFile looks for .projscore/config.yaml in the given directory
// and its parents, returning the path if found, or "" if not.
func FindConfigFile(dir string) string {
	for {
		candidate := filepath.Join(dir, ".projscore", "config.yaml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

// CacheDir returns the cache directory for a given project path.
// Uses ~/.cache/projscore/<project-slug>/ to avoid polluting the project.
func CacheDir(projectPath string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to temp dir if HOME isn't available
		home = os.TempDir()
	}
	slug := projectSlug(projectPath)
	return filepath.Join(home, ".cache", "projscore", slug)
}

// ReportDir returns the report storage directory for a project.
func ReportDir(projectPath string) string {
	return filepath.Join(CacheDir(projectPath), "reports")
}

// projectSlug creates a filesystem-safe identifier from a project path.
// Uses the last two path components (e.g., "user_myproject" from "/home/user/myproject").
func projectSlug(projectPath string) string {
	abs, err := filepath.Abs(projectPath)
	if err != nil {
		abs = projectPath
	}
	dir := filepath.Base(filepath.Dir(abs))
	base := filepath.Base(abs)
	return dir + "_" + base
}

// ProjectName returns the base name of the project directory.
func ProjectName(projectPath string) string {
	abs, err := filepath.Abs(projectPath)
	if err != nil {
		abs = projectPath
	}
	return filepath.Base(abs)
}

// projectMarkers are files that identify the root of a Java project.
var projectMarkers = []string{"pom.xml", "build.gradle", "build.gradle.kts", "settings.gradle", ".git"}

// FindProjectRoot walks up from dir looking for a build file or a .git
// directory.
func FindProjectRoot(dir string) (string, error) {
	for {
		for _, marker := range projectMarkers {
			candidate := filepath.Join(dir, marker)
			if _, err := os.Stat(candidate); err == nil {
				return dir, nil
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", fmt.Errorf("no project root found (looked for pom.xml, build.gradle or .git)")
}
