// Package setup handles explorer workspace initialization.
package setup

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	yamlv3 "gopkg.in/yaml.v3"

	"github.com/xyzmtx/math-explorer-agent/internal/model"
	atomicyaml "github.com/xyzmtx/math-explorer-agent/internal/yaml"
	"github.com/xyzmtx/math-explorer-agent/templates"
)

const workspaceDir = ".explorer"

// Paths are the well-known locations inside a workspace.
type Paths struct {
	Base        string
	Config      string
	Input       string
	Control     string
	SnapshotDir string
	LogDir      string
	LockFile    string
}

// Resolve maps a project directory to its workspace paths.
func Resolve(projectDir string) (Paths, error) {
	absDir, err := filepath.Abs(projectDir)
	if err != nil {
		return Paths{}, fmt.Errorf("resolve project dir: %w", err)
	}
	base := filepath.Join(absDir, workspaceDir)
	return Paths{
		Base:        base,
		Config:      filepath.Join(base, "config.yaml"),
		Input:       filepath.Join(base, "input.md"),
		Control:     filepath.Join(base, "control"),
		SnapshotDir: filepath.Join(base, "snapshots"),
		LogDir:      filepath.Join(base, "logs"),
		LockFile:    filepath.Join(base, "locks", "explorer.lock"),
	}, nil
}

// Run initializes the .explorer/ workspace in the given project
// directory. projectName overrides the auto-detected name (defaults to
// the directory basename if empty).
func Run(projectDir, projectName string) error {
	paths, err := Resolve(projectDir)
	if err != nil {
		return err
	}

	if _, err := os.Stat(paths.Base); err == nil {
		return fmt.Errorf("%s already exists", paths.Base)
	}

	for _, d := range []string{paths.SnapshotDir, paths.LogDir, filepath.Dir(paths.LockFile)} {
		if err := os.MkdirAll(d, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", d, err)
		}
	}

	cfg, err := generateConfig(filepath.Dir(paths.Base), projectName)
	if err != nil {
		return fmt.Errorf("generate config: %w", err)
	}
	if err := atomicyaml.AtomicWrite(paths.Config, cfg); err != nil {
		return fmt.Errorf("write config.yaml: %w", err)
	}

	if err := copyTemplateFile("input.md", paths.Input); err != nil {
		return err
	}

	// An empty control file. Writing "stop" into it stops a running
	// explorer at the next round boundary.
	if err := os.WriteFile(paths.Control, nil, 0644); err != nil {
		return fmt.Errorf("create control file: %w", err)
	}

	return nil
}

// LoadConfig reads and defaults a workspace configuration.
func LoadConfig(path string) (*model.Config, error) {
	var cfg model.Config
	if err := atomicyaml.ReadFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg.ApplyDefaults()
	return &cfg, nil
}

func generateConfig(projectDir, projectName string) (*model.Config, error) {
	data, err := fs.ReadFile(templates.FS, "config.yaml")
	if err != nil {
		return nil, fmt.Errorf("read config template: %w", err)
	}

	var cfg model.Config
	if err := yamlv3.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config template: %w", err)
	}

	if projectName != "" {
		cfg.Project.Name = projectName
	} else {
		cfg.Project.Name = filepath.Base(projectDir)
	}
	return &cfg, nil
}

func copyTemplateFile(name, dst string) error {
	data, err := fs.ReadFile(templates.FS, name)
	if err != nil {
		return fmt.Errorf("read template %s: %w", name, err)
	}
	if err := os.WriteFile(dst, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", dst, err)
	}
	return nil
}
