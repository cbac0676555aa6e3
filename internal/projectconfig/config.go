// Package projectconfig provides the ProjectConfig struct and loader for
// .prepscore.yaml project-level configuration files.
package projectconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Default values for project configuration. These are the single source of
// truth — New() references them and no other code should duplicate them.
const (
	DefaultWeightsPath  = ""
	DefaultModelPath    = "prepscore_model.json"
	DefaultDatabasePath = "profiles.db"
	DefaultOutputPath   = "training_data.csv"

	DefaultEngine        = "rule"
	DefaultSchemaVariant = "keyword-v2"

	DefaultServerPort = 8080

	DefaultExportWorkers = 4
)

// PathsConfig holds file paths for weights, model, database, and output.
type PathsConfig struct {
	Weights  string `yaml:"weights,omitempty"`
	Model    string `yaml:"model,omitempty"`
	Database string `yaml:"database,omitempty"`
	Output   string `yaml:"output,omitempty"`
}

// ScoringConfig holds scoring engine parameters.
type ScoringConfig struct {
	Engine  string `yaml:"engine,omitempty"`
	Variant string `yaml:"variant,omitempty"`
}

// ServerConfig holds the scoring API server settings.
type ServerConfig struct {
	Port int `yaml:"port,omitempty"`
}

// ExportConfig holds training export settings.
type ExportConfig struct {
	Workers int   `yaml:"workers,omitempty"`
	Append  *bool `yaml:"append,omitempty"`
}

// ProjectConfig is the top-level configuration loaded from .prepscore.yaml.
type ProjectConfig struct {
	Paths   PathsConfig   `yaml:"paths,omitempty"`
	Scoring ScoringConfig `yaml:"scoring,omitempty"`
	Server  ServerConfig  `yaml:"server,omitempty"`
	Export  ExportConfig  `yaml:"export,omitempty"`
}

// New returns a ProjectConfig with all hard-coded defaults populated.
func New() *ProjectConfig {
	return &ProjectConfig{
		Paths: PathsConfig{
			Weights:  DefaultWeightsPath,
			Model:    DefaultModelPath,
			Database: DefaultDatabasePath,
			Output:   DefaultOutputPath,
		},
		Scoring: ScoringConfig{
			Engine:  DefaultEngine,
			Variant: DefaultSchemaVariant,
		},
		Server: ServerConfig{
			Port: DefaultServerPort,
		},
		Export: ExportConfig{
			Workers: DefaultExportWorkers,
			Append:  boolPtr(false),
		},
	}
}

// Load finds .prepscore.yaml by walking up from startDir (max 10 levels),
// unmarshals it, and fills in missing fields with defaults.
// If no config file is found, returns defaults with a nil error.
// Real I/O errors (e.g. permission denied) are returned to the caller.
func Load(startDir string) (*ProjectConfig, error) {
	cfg := New()

	data, err := findConfigFile(startDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil // no file found → return defaults
		}
		return nil, fmt.Errorf("loading .prepscore.yaml: %w", err)
	}

	var fileCfg ProjectConfig
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("parsing .prepscore.yaml: %w", err)
	}

	// Merge file values onto defaults.
	mergeConfig(cfg, &fileCfg)
	return cfg, nil
}

// findConfigFile walks up from dir looking for .prepscore.yaml (max 10
// levels). Returns os.ErrNotExist if no config file is found. Propagates
// real I/O errors (e.g. permission denied) instead of silently swallowing
// them.
func findConfigFile(dir string) ([]byte, error) {
	// Convert to absolute path so filepath.Dir(".") walks correctly.
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path %q: %w", dir, err)
	}
	dir = absDir

	for i := 0; i < 10; i++ {
		p := filepath.Join(dir, ".prepscore.yaml")
		data, err := os.ReadFile(p)
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("reading %q: %w", p, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break // reached filesystem root
		}
		dir = parent
	}
	return nil, os.ErrNotExist
}

// mergeConfig overlays non-zero values from src onto dst.
func mergeConfig(dst, src *ProjectConfig) {
	// Paths
	if src.Paths.Weights != "" {
		dst.Paths.Weights = src.Paths.Weights
	}
	if src.Paths.Model != "" {
		dst.Paths.Model = src.Paths.Model
	}
	if src.Paths.Database != "" {
		dst.Paths.Database = src.Paths.Database
	}
	if src.Paths.Output != "" {
		dst.Paths.Output = src.Paths.Output
	}

	// Scoring
	if src.Scoring.Engine != "" {
		dst.Scoring.Engine = src.Scoring.Engine
	}
	if src.Scoring.Variant != "" {
		dst.Scoring.Variant = src.Scoring.Variant
	}

	// Server
	if src.Server.Port != 0 {
		dst.Server.Port = src.Server.Port
	}

	// Export
	if src.Export.Workers != 0 {
		dst.Export.Workers = src.Export.Workers
	}
	if src.Export.Append != nil {
		dst.Export.Append = src.Export.Append
	}
}

func boolPtr(b bool) *bool {
	return &b
}
