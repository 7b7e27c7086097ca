package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gobwas/glob"
	"github.com/mvp-joe/pyscaffold/internal/analysis"
)

var (
	// ErrInvalidExtensions indicates an extension filter with no usable suffix
	ErrInvalidExtensions = errors.New("invalid extensions")

	// ErrInvalidWorkers indicates a worker count below one
	ErrInvalidWorkers = errors.New("invalid worker count")

	// ErrInvalidFormat indicates an unsupported output format
	ErrInvalidFormat = errors.New("invalid output format")

	// ErrEmptyOutputDir indicates a missing scaffold output directory
	ErrEmptyOutputDir = errors.New("empty output directory")

	// ErrInvalidPattern indicates an exclude-file pattern that does not compile
	ErrInvalidPattern = errors.New("invalid exclude pattern")

	// ErrInvalidDebounce indicates a negative watch debounce
	ErrInvalidDebounce = errors.New("invalid debounce")
)

// Formats lists the supported output formats.
var Formats = []string{"table", "json", "yaml"}

// Validate checks that the configuration is valid and complete.
func Validate(cfg *Config) error {
	var errs []error

	if err := validateAnalysis(&cfg.Analysis); err != nil {
		errs = append(errs, err)
	}

	if err := validateScaffold(&cfg.Scaffold); err != nil {
		errs = append(errs, err)
	}

	if err := ValidateFormat(cfg.Output.Format); err != nil {
		errs = append(errs, err)
	}

	if cfg.Watch.DebounceMs < 0 {
		errs = append(errs, fmt.Errorf("%w: debounce_ms cannot be negative, got %d", ErrInvalidDebounce, cfg.Watch.DebounceMs))
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

// ValidateFormat checks that format names a supported output format.
func ValidateFormat(format string) error {
	for _, f := range Formats {
		if strings.EqualFold(format, f) {
			return nil
		}
	}
	return fmt.Errorf("%w: must be one of %s, got '%s'", ErrInvalidFormat, strings.Join(Formats, ", "), format)
}

func validateAnalysis(cfg *AnalysisConfig) error {
	var errs []error

	if len(analysis.ParseExtensions(cfg.Extensions)) == 0 {
		errs = append(errs, fmt.Errorf("%w: at least one extension required, got '%s'", ErrInvalidExtensions, cfg.Extensions))
	}

	if cfg.Workers < 1 {
		errs = append(errs, fmt.Errorf("%w: workers must be at least 1, got %d", ErrInvalidWorkers, cfg.Workers))
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

func validateScaffold(cfg *ScaffoldConfig) error {
	var errs []error

	if strings.TrimSpace(cfg.OutputDir) == "" {
		errs = append(errs, fmt.Errorf("%w: output_dir is required", ErrEmptyOutputDir))
	}

	for _, pattern := range cfg.ExcludeFiles {
		if _, err := glob.Compile(pattern); err != nil {
			errs = append(errs, fmt.Errorf("%w: %s: %v", ErrInvalidPattern, pattern, err))
		}
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

// joinErrors combines multiple errors into a single error with clear formatting.
func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}

	if len(errs) == 1 {
		return errs[0]
	}

	var msgs []string
	for _, err := range errs {
		msgs = append(msgs, err.Error())
	}

	return fmt.Errorf("validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}
