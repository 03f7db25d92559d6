package config

import (
	"errors"
	"fmt"
	"runtime"

	lmlerrors "github.com/standardbeagle/lml/internal/errors"
)

// Validator validates configuration and sets smart defaults
type Validator struct{}

// NewValidator creates a new configuration validator
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateAndSetDefaults validates configuration and applies smart defaults
// Returns an error if validation fails
func (v *Validator) ValidateAndSetDefaults(cfg *Config) error {
	if err := v.validateProject(&cfg.Project); err != nil {
		return lmlerrors.NewConfigError("project", "", err)
	}

	if err := v.validateScan(&cfg.Scan); err != nil {
		return lmlerrors.NewConfigError("scan", "", err)
	}

	if err := v.validateMatch(&cfg.Match); err != nil {
		return lmlerrors.NewConfigError("match", "", err)
	}

	if err := v.validateDisplay(&cfg.Display); err != nil {
		return lmlerrors.NewConfigError("display", "", err)
	}

	v.setSmartDefaults(cfg)
	return nil
}

func (v *Validator) validateProject(project *Project) error {
	if project.Root == "" {
		return errors.New("project root cannot be empty")
	}
	return nil
}

func (v *Validator) validateScan(scan *Scan) error {
	if scan.Workers < 0 {
		return fmt.Errorf("workers cannot be negative, got %d", scan.Workers)
	}

	if scan.MaxFileSize <= 0 {
		return fmt.Errorf("max-file-size must be positive, got %d", scan.MaxFileSize)
	}

	if scan.WatchDebounceMs < 0 {
		return fmt.Errorf("watch-debounce-ms cannot be negative, got %d", scan.WatchDebounceMs)
	}

	return nil
}

func (v *Validator) validateMatch(match *Match) error {
	if match.MinScore < 0 {
		return fmt.Errorf("score threshold cannot be negative, got %v", match.MinScore)
	}
	return nil
}

func (v *Validator) validateDisplay(display *Display) error {
	if display.Context < 0 {
		return fmt.Errorf("context cannot be negative, got %d", display.Context)
	}

	switch display.Color {
	case "", "auto", "always", "never":
	default:
		return fmt.Errorf("color must be auto, always, or never, got %q", display.Color)
	}

	return nil
}

// setSmartDefaults applies defaults based on system capabilities
func (v *Validator) setSmartDefaults(cfg *Config) {
	// Workers: 0 means auto-detect from core count
	if cfg.Scan.Workers == 0 {
		cfg.Scan.Workers = runtime.NumCPU()
	}

	if cfg.Scan.WatchDebounceMs == 0 {
		cfg.Scan.WatchDebounceMs = DefaultWatchDebounceMs
	}

	if cfg.Display.Color == "" {
		cfg.Display.Color = DefaultColorMode
	}
}

// ValidateConfig is a convenience function for quick validation
func ValidateConfig(cfg *Config) error {
	validator := NewValidator()
	return validator.ValidateAndSetDefaults(cfg)
}
