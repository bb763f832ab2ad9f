package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Rules.Path != "" {
		t.Errorf("expected built-in rules by default, got %q", cfg.Rules.Path)
	}
	if len(cfg.Scan.Ignore) != 4 {
		t.Errorf("expected 4 default ignored dirs, got %d", len(cfg.Scan.Ignore))
	}
	if cfg.Scan.Mapping.ComplexityPenalty != 1.2 {
		t.Errorf("expected default complexity penalty 1.2, got %f", cfg.Scan.Mapping.ComplexityPenalty)
	}
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr bool
		check   func(t *testing.T, cfg *Config)
	}{
		{
			name: "non-existent file returns defaults",
			yaml: "", // signal: don't create a file
			check: func(t *testing.T, cfg *Config) {
				if cfg.Scan.Mapping.MethodWeight != 2 {
					t.Errorf("expected default method weight 2, got %f", cfg.Scan.Mapping.MethodWeight)
				}
			},
		},
		{
			name: "valid YAML overrides defaults",
			yaml: `
rules:
  path: rules/project.yaml
scan:
  ignore:
    - generated
  mapping:
    method_weight: 4
    extends_weight: 10
`,
			check: func(t *testing.T, cfg *Config) {
				if cfg.Rules.Path != "rules/project.yaml" {
					t.Errorf("expected rules path, got %q", cfg.Rules.Path)
				}
				if len(cfg.Scan.Ignore) != 1 || cfg.Scan.Ignore[0] != "generated" {
					t.Errorf("expected ignore [generated], got %v", cfg.Scan.Ignore)
				}
				if cfg.Scan.Mapping.MethodWeight != 4 {
					t.Errorf("expected method weight 4, got %f", cfg.Scan.Mapping.MethodWeight)
				}
				if cfg.Scan.Mapping.ExtendsWeight != 10 {
					t.Errorf("expected extends weight 10, got %f", cfg.Scan.Mapping.ExtendsWeight)
				}
				// Unset coefficients keep their defaults
				if cfg.Scan.Mapping.ClassWeight != 3 {
					t.Errorf("expected default class weight 3, got %f", cfg.Scan.Mapping.ClassWeight)
				}
			},
		},
		{
			name:    "invalid YAML returns error",
			yaml:    "{{invalid yaml",
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, "config.yaml")

			if tc.yaml == "" {
				// Don't create file - test loading non-existent path
				cfg, err := Load(path)
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				tc.check(t, cfg)
				return
			}

			if err := os.WriteFile(path, []byte(tc.yaml), 0o644); err != nil {
				t.Fatalf("write test config: %v", err)
			}

			cfg, err := Load(path)
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tc.check != nil {
				tc.check(t, cfg)
			}
		})
	}
}

func TestRulesFile(t *testing.T) {
	configPath := filepath.Join("/work", "zoo", ".projscore", "config.yaml")

	tests := []struct {
		name       string
		path       string
		configPath string
		want       string
	}{
		{name: "built-in", path: "", configPath: configPath, want: ""},
		{name: "relative", path: "rules.yaml", configPath: configPath, want: filepath.Join("/work", "zoo", "rules.yaml")},
		{name: "absolute", path: "/etc/rules.yaml", configPath: configPath, want: "/etc/rules.yaml"},
		{name: "no config file", path: "rules.yaml", configPath: "", want: "rules.yaml"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Rules.Path = tc.path
			if got := cfg.RulesFile(tc.configPath); got != tc.want {
				t.Errorf("RulesFile(%q) = %q, want %q", tc.configPath, got, tc.want)
			}
		})
	}
}

func TestDirectoryFunctions(t *testing.T) {
	project := "/home/alice/repos/myproject"

	cache := CacheDir(project)
	reports := ReportDir(project)

	slug := "repos_myproject"

	if !strings.HasSuffix(cache, filepath.Join("projscore", slug)) {
		t.Errorf("CacheDir should end with %q, got %q", filepath.Join("projscore", slug), cache)
	}
	if !strings.HasSuffix(reports, filepath.Join(slug, "reports")) {
		t.Errorf("ReportDir should end with %q, got %q", filepath.Join(slug, "reports"), reports)
	}
	if got := ProjectName(project); got != "myproject" {
		t.Errorf("ProjectName = %q, want myproject", got)
	}
}

func TestProjectSlug(t *testing.T) {
	tests := []struct {
		name string
		path string
		want string
	}{
		{
			name: "normal path",
			path: "/home/user/workspace/myproject",
			want: "workspace_myproject",
		},
		{
			name: "short path",
			path: "/myproject",
			want: "/_myproject",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := projectSlug(tc.path)
			if got != tc.want {
				t.Errorf("projectSlug(%q) = %q, want %q", tc.path, got, tc.want)
			}
		})
	}
}

func TestFindProjectRoot(t *testing.T) {
	tests := []struct {
		name    string
		marker  string
		dir     bool
		wantErr bool
	}{
		{name: "maven", marker: "pom.xml"},
		{name: "gradle", marker: "build.gradle"},
		{name: "gradle kotlin", marker: "build.gradle.kts"},
		{name: "git", marker: ".git", dir: true},
		{name: "no marker", marker: "", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			root := t.TempDir()

			if tc.marker != "" {
				markerPath := filepath.Join(root, tc.marker)
				var err error
				if tc.dir {
					err = os.Mkdir(markerPath, 0o755)
				} else {
					err = os.WriteFile(markerPath, nil, 0o644)
				}
				if err != nil {
					t.Fatalf("create marker: %v", err)
				}
			}

			// Create a subdirectory and search from there
			sub := filepath.Join(root, "src", "main", "java")
			if err := os.MkdirAll(sub, 0o755); err != nil {
				t.Fatalf("create subdirectory: %v", err)
			}

			got, err := FindProjectRoot(sub)
			if tc.wantErr {
				// A marker above the temp dir (e.g. a checkout) may still be found.
				if err == nil && got == root {
					t.Fatal("expected no root at the temp dir")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != root {
				t.Errorf("FindProjectRoot = %q, want %q", got, root)
			}
		})
	}
}

func TestFindConfigFile(t *testing.T) {
	t.Run("found in current directory", func(t *testing.T) {
		root := t.TempDir()
		configDir := filepath.Join(root, ".projscore")
		if err := os.MkdirAll(configDir, 0o755); err != nil {
			t.Fatalf("create config dir: %v", err)
		}
		configPath := filepath.Join(configDir, "config.yaml")
		if err := os.WriteFile(configPath, []byte("{}"), 0o644); err != nil {
			t.Fatalf("write config: %v", err)
		}

		got := FindConfigFile(root)
		if got != configPath {
			t.Errorf("FindConfigFile = %q, want %q", got, configPath)
		}
	})

	t.Run("found in parent directory", func(t *testing.T) {
		root := t.TempDir()
		configDir := filepath.Join(root, ".projscore")
		if err := os.MkdirAll(configDir, 0o755); err != nil {
			t.Fatalf("create config dir: %v", err)
		}
		configPath := filepath.Join(configDir, "config.yaml")
		if err := os.WriteFile(configPath, []byte("{}"), 0o644); err != nil {
			t.Fatalf("write config: %v", err)
		}

		sub := filepath.Join(root, "a", "b", "c")
		if err := os.MkdirAll(sub, 0o755); err != nil {
			t.Fatalf("create sub: %v", err)
		}

		got := FindConfigFile(sub)
		if got != configPath {
			t.Errorf("FindConfigFile = %q, want %q", got, configPath)
		}
	})

	t.Run("not found", func(t *testing.T) {
		root := t.TempDir()
		got := FindConfigFile(root)
		if got != "" {
			t.Errorf("FindConfigFile = %q, want empty", got)
		}
	})
}
