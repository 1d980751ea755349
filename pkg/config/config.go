// Package config loads and validates quarry configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds all configuration options for quarry.
type Config struct {
	// Dedup settings for exact and near-duplicate detection
	Dedup DedupConfig `koanf:"dedup"`

	// Quality gate bounds and policy
	Quality QualityConfig `koanf:"quality"`

	// Pipeline execution settings
	Pipeline PipelineConfig `koanf:"pipeline"`

	// Output settings
	Output OutputConfig `koanf:"output"`
}

// DedupConfig controls shingling, MinHash, and LSH behavior.
type DedupConfig struct {
	ShingleSize  int     `koanf:"shingle_size"`
	Permutations int     `koanf:"permutations"`
	Seed         uint64  `koanf:"seed"`
	Threshold    float64 `koanf:"threshold"`

	// Optional explicit band/row split. When both are zero the split is
	// derived from the threshold.
	Bands int `koanf:"bands"`
	Rows  int `koanf:"rows"`
}

// QualityConfig defines the quality gate bounds and docstring policy.
type QualityConfig struct {
	Enabled        bool   `koanf:"enabled"`
	MinLOC         int    `koanf:"min_loc"`
	MaxLOC         int    `koanf:"max_loc"`
	MaxCyclomatic  int    `koanf:"max_cyclomatic"`
	MaxNesting     int    `koanf:"max_nesting"`
	AllowSynthetic bool   `koanf:"allow_synthetic"`
	RuleFile       string `koanf:"rule_file"`
}

// PipelineConfig controls run execution.
type PipelineConfig struct {
	Workers int `koanf:"workers"` // 0 = 2x NumCPU
}

// OutputConfig controls output formatting.
type OutputConfig struct {
	Format  string `koanf:"format"` // text, json, markdown
	Color   bool   `koanf:"color"`
	Verbose bool   `koanf:"verbose"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Dedup: DedupConfig{
			ShingleSize:  7,
			Permutations: 128,
			Seed:         1,
			Threshold:    0.8,
		},
		Quality: QualityConfig{
			Enabled:        true,
			MinLOC:         3,
			MaxLOC:         200,
			MaxCyclomatic:  20,
			MaxNesting:     6,
			AllowSynthetic: false,
		},
		Pipeline: PipelineConfig{
			Workers: 0,
		},
		Output: OutputConfig{
			Format:  "text",
			Color:   true,
			Verbose: false,
		},
	}
}

// Load loads configuration from a file, layered over defaults.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	var parser koanf.Parser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		parser = toml.Parser()
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		parser = toml.Parser()
	}

	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadOrDefault tries to load config from standard locations or returns
// defaults.
func LoadOrDefault() *Config {
	configNames := []string{
		"quarry.toml",
		"quarry.yaml",
		"quarry.yml",
		"quarry.json",
		".quarry.toml",
		".quarry.yaml",
		".quarry.yml",
		".quarry.json",
	}

	for _, name := range configNames {
		if _, err := os.Stat(name); err == nil {
			cfg, err := Load(name)
			if err == nil {
				return cfg
			}
		}
	}

	return DefaultConfig()
}

// ConfigurationError reports an invalid configuration value. It is raised
// pre-flight, before any record is processed.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}

// Validate checks the configuration before a run. All violations are fatal.
func (c *Config) Validate() error {
	d := c.Dedup
	if d.ShingleSize <= 0 {
		return &ConfigurationError{Field: "dedup.shingle_size", Reason: "must be positive"}
	}
	if d.Permutations <= 0 {
		return &ConfigurationError{Field: "dedup.permutations", Reason: "must be positive"}
	}
	if d.Threshold <= 0 || d.Threshold > 1 {
		return &ConfigurationError{Field: "dedup.threshold", Reason: "must be in (0, 1]"}
	}
	if (d.Bands == 0) != (d.Rows == 0) {
		return &ConfigurationError{Field: "dedup.bands", Reason: "bands and rows must be set together"}
	}
	if d.Bands < 0 || d.Rows < 0 {
		return &ConfigurationError{Field: "dedup.bands", Reason: "must be non-negative"}
	}
	if d.Bands > 0 && d.Bands*d.Rows > d.Permutations {
		return &ConfigurationError{Field: "dedup.bands", Reason: "bands*rows exceeds permutations"}
	}

	q := c.Quality
	if q.MinLOC < 0 || q.MaxLOC < 0 || q.MaxCyclomatic < 0 || q.MaxNesting < 0 {
		return &ConfigurationError{Field: "quality", Reason: "bounds must be non-negative"}
	}
	if q.MaxLOC > 0 && q.MinLOC > q.MaxLOC {
		return &ConfigurationError{Field: "quality.min_loc", Reason: "min_loc exceeds max_loc"}
	}

	if c.Pipeline.Workers < 0 {
		return &ConfigurationError{Field: "pipeline.workers", Reason: "must be non-negative"}
	}

	return nil
}
