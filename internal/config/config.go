// Package config provides configuration loading for pyscaffold.
//
// Configuration Hierarchy (highest to lowest priority):
//  1. Environment variables (PYSCAFFOLD_*)
//  2. Config file (--config, or .pyscaffold/config.yml in the analyzed root)
//  3. Built-in defaults
//
// Nested keys map to environment variables with underscores, for example
// PYSCAFFOLD_ANALYSIS_EXTENSIONS or PYSCAFFOLD_SCAFFOLD_OUTPUT_DIR. List
// values may be given as comma-separated strings.
package config

import "github.com/mvp-joe/pyscaffold/internal/analysis"

// Config represents the complete pyscaffold configuration.
type Config struct {
	Analysis AnalysisConfig `yaml:"analysis" mapstructure:"analysis"`
	Scaffold ScaffoldConfig `yaml:"scaffold" mapstructure:"scaffold"`
	Output   OutputConfig   `yaml:"output" mapstructure:"output"`
	Watch    WatchConfig    `yaml:"watch" mapstructure:"watch"`
}

// AnalysisConfig controls which files are analyzed and how.
type AnalysisConfig struct {
	Extensions string `yaml:"extensions" mapstructure:"extensions"` // comma-separated suffixes, e.g. ".py,.pyi"
	Workers    int    `yaml:"workers" mapstructure:"workers"`       // concurrent extractions, 1 = sequential
}

// ScaffoldConfig controls test file generation.
type ScaffoldConfig struct {
	OutputDir    string   `yaml:"output_dir" mapstructure:"output_dir"`       // where test_<module>.py files go
	ExcludeDirs  []string `yaml:"exclude_dirs" mapstructure:"exclude_dirs"`   // path substrings to skip
	ExcludeFiles []string `yaml:"exclude_files" mapstructure:"exclude_files"` // base-name globs to skip
}

// OutputConfig controls how reports are printed.
type OutputConfig struct {
	Format string `yaml:"format" mapstructure:"format"` // "table", "json" or "yaml"
}

// WatchConfig controls watch mode.
type WatchConfig struct {
	DebounceMs int `yaml:"debounce_ms" mapstructure:"debounce_ms"`
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Analysis: AnalysisConfig{
			Extensions: analysis.DefaultExtensions,
			Workers:    1,
		},
		Scaffold: ScaffoldConfig{
			OutputDir:    "tests",
			ExcludeDirs:  []string{"tests"},
			ExcludeFiles: []string{"main.py"},
		},
		Output: OutputConfig{
			Format: "table",
		},
		Watch: WatchConfig{
			DebounceMs: 500,
		},
	}
}

// AnalyzerOptions converts the analysis settings into analyzer options.
func (c *Config) AnalyzerOptions() []analysis.Option {
	return []analysis.Option{
		analysis.WithExtensions(c.Analysis.Extensions),
		analysis.WithWorkers(c.Analysis.Workers),
	}
}
