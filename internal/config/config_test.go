package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Config System:
// - Default() returns valid configuration with all expected defaults
// - Load() uses defaults when no config file exists
// - Load() reads .pyscaffold/config.yml and .pyscaffold/config.yaml
// - Load() merges partial config files with defaults
// - Environment variables override config file values and defaults
// - Comma-separated env values populate list settings
// - Explicit config file is read, and a missing explicit file is an error
// - Malformed YAML and invalid values are rejected
// - Validate() rejects bad extensions, workers, format, output dir, patterns, debounce
// - Validate() reports multiple problems at once

func writeConfig(t *testing.T, root, name, content string) string {
	t.Helper()
	dir := filepath.Join(root, ConfigDirName)
	require.NoError(t, os.MkdirAll(dir, 0755))
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefault_ReturnsValidConfiguration(t *testing.T) {
	cfg := Default()
	require.NotNil(t, cfg)

	assert.Equal(t, ".py", cfg.Analysis.Extensions)
	assert.Equal(t, 1, cfg.Analysis.Workers)
	assert.Equal(t, "tests", cfg.Scaffold.OutputDir)
	assert.Equal(t, []string{"tests"}, cfg.Scaffold.ExcludeDirs)
	assert.Equal(t, []string{"main.py"}, cfg.Scaffold.ExcludeFiles)
	assert.Equal(t, "table", cfg.Output.Format)
	assert.Equal(t, 500, cfg.Watch.DebounceMs)

	assert.NoError(t, Validate(cfg))
	assert.Len(t, cfg.AnalyzerOptions(), 2)
}

func TestLoadConfig_UsesDefaultsWhenNoConfigFile(t *testing.T) {
	cfg, err := NewLoader(t.TempDir()).Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadConfig_LoadsFromConfigYml(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "config.yml", `
analysis:
  extensions: ".py,.pyi"
  workers: 4
scaffold:
  output_dir: generated
  exclude_dirs: [tests, .git, __pycache__]
  exclude_files: [main.py, "__init__.py", "conf*.py"]
output:
  format: json
watch:
  debounce_ms: 250
`)

	cfg, err := LoadConfigFromDir(root)
	require.NoError(t, err)

	assert.Equal(t, ".py,.pyi", cfg.Analysis.Extensions)
	assert.Equal(t, 4, cfg.Analysis.Workers)
	assert.Equal(t, "generated", cfg.Scaffold.OutputDir)
	assert.Equal(t, []string{"tests", ".git", "__pycache__"}, cfg.Scaffold.ExcludeDirs)
	assert.Equal(t, []string{"main.py", "__init__.py", "conf*.py"}, cfg.Scaffold.ExcludeFiles)
	assert.Equal(t, "json", cfg.Output.Format)
	assert.Equal(t, 250, cfg.Watch.DebounceMs)
}

func TestLoadConfig_LoadsFromConfigYaml(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "config.yaml", "output:\n  format: yaml\n")

	cfg, err := NewLoader(root).Load()
	require.NoError(t, err)
	assert.Equal(t, "yaml", cfg.Output.Format)
}

func TestLoadConfig_MergesWithDefaults(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "config.yml", "analysis:\n  workers: 2\n")

	cfg, err := NewLoader(root).Load()
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.Analysis.Workers)
	assert.Equal(t, ".py", cfg.Analysis.Extensions)
	assert.Equal(t, "tests", cfg.Scaffold.OutputDir)
	assert.Equal(t, "table", cfg.Output.Format)
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "config.yml", "analysis:\n  extensions: .pyi\n  workers: 2\n")

	t.Setenv("PYSCAFFOLD_ANALYSIS_WORKERS", "8")
	t.Setenv("PYSCAFFOLD_OUTPUT_FORMAT", "yaml")

	cfg, err := NewLoader(root).Load()
	require.NoError(t, err)

	assert.Equal(t, ".pyi", cfg.Analysis.Extensions)
	assert.Equal(t, 8, cfg.Analysis.Workers)
	assert.Equal(t, "yaml", cfg.Output.Format)
}

func TestLoadConfig_EnvListValues(t *testing.T) {
	t.Setenv("PYSCAFFOLD_SCAFFOLD_EXCLUDE_DIRS", "tests,.venv")

	cfg, err := NewLoader(t.TempDir()).Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"tests", ".venv"}, cfg.Scaffold.ExcludeDirs)
}

func TestLoadConfig_ExplicitFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yml")
	require.NoError(t, os.WriteFile(path, []byte("scaffold:\n  output_dir: out\n"), 0644))

	cfg, err := NewFileLoader(path).Load()
	require.NoError(t, err)
	assert.Equal(t, "out", cfg.Scaffold.OutputDir)
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	_, err := NewFileLoader(filepath.Join(t.TempDir(), "missing.yml")).Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_MalformedYAML(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "config.yml", "analysis: [unterminated\n")

	_, err := NewLoader(root).Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "config.yml", "output:\n  format: xml\n")

	_, err := NewLoader(root).Load()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidFormat)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestValidate_SingleErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"blank extensions", func(c *Config) { c.Analysis.Extensions = " , " }, ErrInvalidExtensions},
		{"zero workers", func(c *Config) { c.Analysis.Workers = 0 }, ErrInvalidWorkers},
		{"unknown format", func(c *Config) { c.Output.Format = "xml" }, ErrInvalidFormat},
		{"empty output dir", func(c *Config) { c.Scaffold.OutputDir = "  " }, ErrEmptyOutputDir},
		{"bad pattern", func(c *Config) { c.Scaffold.ExcludeFiles = []string{"[a-"} }, ErrInvalidPattern},
		{"negative debounce", func(c *Config) { c.Watch.DebounceMs = -1 }, ErrInvalidDebounce},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := Validate(cfg)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestValidate_FormatIsCaseInsensitive(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidateFormat("JSON"))
	assert.NoError(t, ValidateFormat("Table"))
}

func TestValidate_MultipleErrors(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Analysis.Workers = -1
	cfg.Output.Format = "csv"
	cfg.Scaffold.OutputDir = ""

	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
	assert.Contains(t, err.Error(), "invalid worker count")
	assert.Contains(t, err.Error(), "invalid output format")
	assert.Contains(t, err.Error(), "empty output directory")
}
