package setup

import (
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/xyzmtx/math-explorer-agent/internal/model"
)

func TestRunCreatesWorkspace(t *testing.T) {
	dir := t.TempDir()
	projectDir := filepath.Join(dir, "myproject")
	if err := os.Mkdir(projectDir, 0755); err != nil {
		t.Fatalf("create project dir: %v", err)
	}

	if err := Run(projectDir, ""); err != nil {
		t.Fatalf("Run: %v", err)
	}

	paths, err := Resolve(projectDir)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	for _, d := range []string{paths.SnapshotDir, paths.LogDir, filepath.Dir(paths.LockFile)} {
		info, err := os.Stat(d)
		if err != nil {
			t.Errorf("directory %s does not exist: %v", d, err)
			continue
		}
		if !info.IsDir() {
			t.Errorf("%s is not a directory", d)
		}
	}
	for _, f := range []string{paths.Config, paths.Input, paths.Control} {
		if _, err := os.Stat(f); err != nil {
			t.Errorf("file %s does not exist: %v", f, err)
		}
	}
}

func TestRunGeneratesConfigWithProjectName(t *testing.T) {
	dir := t.TempDir()
	projectDir := filepath.Join(dir, "collatz")
	os.Mkdir(projectDir, 0755)

	if err := Run(projectDir, ""); err != nil {
		t.Fatalf("Run: %v", err)
	}

	paths, _ := Resolve(projectDir)
	data, err := os.ReadFile(paths.Config)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	var cfg model.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		t.Fatalf("parse config: %v", err)
	}

	if cfg.Project.Name != "collatz" {
		t.Errorf("project name = %q, want %q", cfg.Project.Name, "collatz")
	}
	if cfg.Explorer.MaxParallelActions != 10 {
		t.Errorf("max_parallel_actions = %d, want 10", cfg.Explorer.MaxParallelActions)
	}
	if cfg.Verify.MaxRounds != 3 || cfg.Verify.ChunkLines != 6 {
		t.Errorf("verify config = %+v", cfg.Verify)
	}
}

func TestRunFailsIfWorkspaceExists(t *testing.T) {
	dir := t.TempDir()
	projectDir := filepath.Join(dir, "p")
	os.Mkdir(projectDir, 0755)

	if err := Run(projectDir, ""); err != nil {
		t.Fatalf("first Run: %v", err)
	}
	if err := Run(projectDir, ""); err == nil {
		t.Fatal("second Run: want error for existing workspace")
	}
}

func TestRunExplicitProjectName(t *testing.T) {
	dir := t.TempDir()
	projectDir := filepath.Join(dir, "p")
	os.Mkdir(projectDir, 0755)

	if err := Run(projectDir, "goldbach-search"); err != nil {
		t.Fatalf("Run: %v", err)
	}

	paths, _ := Resolve(projectDir)
	cfg, err := LoadConfig(paths.Config)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Project.Name != "goldbach-search" {
		t.Errorf("project name = %q", cfg.Project.Name)
	}
}

func TestLoadConfigAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("project:\n  name: minimal\n"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.LLM.Model == "" || cfg.Explorer.MaxRounds == 0 || cfg.Verify.ChunkLines == 0 {
		t.Errorf("defaults not applied: %+v", cfg)
	}
}
