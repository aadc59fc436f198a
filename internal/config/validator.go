package config

import (
	"errors"
	"fmt"
	"math"
	"runtime"
	"strconv"

	"github.com/bmatcuk/doublestar/v4"

	ccerrors "github.com/standardbeagle/cheatcheck/internal/errors"
	"github.com/standardbeagle/cheatcheck/internal/types"
)

// MaxPrecision is the most digits a float64 can meaningfully carry
const MaxPrecision = 17

// Validator validates configuration and sets smart defaults
type Validator struct{}

// NewValidator creates a new configuration validator
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateAndSetDefaults validates configuration and applies smart defaults
// Returns an error if validation fails
func (v *Validator) ValidateAndSetDefaults(cfg *Config) error {
	if err := v.validateCompareConfig(&cfg.Compare); err != nil {
		return ccerrors.NewConfigError("compare", formatFloat(cfg.Compare.Sensitivity), err)
	}

	if err := v.validatePerformanceConfig(&cfg.Performance); err != nil {
		return ccerrors.NewConfigError("performance", strconv.Itoa(cfg.Performance.Jobs), err)
	}

	if err := v.validateInputConfig(&cfg.Input); err != nil {
		return ccerrors.NewConfigError("input", "", err)
	}

	if err := v.validateOutputConfig(&cfg.Output); err != nil {
		return ccerrors.NewConfigError("output", strconv.Itoa(cfg.Output.Precision), err)
	}

	for _, pattern := range cfg.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return ccerrors.NewConfigError("exclude", pattern, doublestar.ErrBadPattern)
		}
	}

	v.setSmartDefaults(cfg)
	return nil
}

// validateCompareConfig validates the reportable score range and metric
func (v *Validator) validateCompareConfig(cmp *Compare) error {
	if cmp.Sensitivity == SensitivityUnset {
		return errors.New("sensitivity is required")
	}

	if math.IsNaN(cmp.Sensitivity) || cmp.Sensitivity < 0 || cmp.Sensitivity > 1 {
		return fmt.Errorf("sensitivity must be between 0 and 1, got %v", cmp.Sensitivity)
	}

	if math.IsNaN(cmp.MaxSensitivity) {
		return errors.New("max sensitivity cannot be NaN")
	}

	if cmp.MaxSensitivity < cmp.Sensitivity {
		return fmt.Errorf("max sensitivity %v is below sensitivity %v, no pair could be reported",
			cmp.MaxSensitivity, cmp.Sensitivity)
	}

	switch cmp.Metric {
	case types.MetricLevenshtein, types.MetricDamerauLevenshtein:
	default:
		return fmt.Errorf("unknown metric %d", cmp.Metric)
	}

	return nil
}

// validatePerformanceConfig validates performance configuration
func (v *Validator) validatePerformanceConfig(perf *Performance) error {
	// Jobs: 0 means auto-detect (will be set by smart defaults)
	if perf.Jobs < 0 {
		return fmt.Errorf("jobs cannot be negative, got %d", perf.Jobs)
	}
	return nil
}

// validateInputConfig validates input configuration
func (v *Validator) validateInputConfig(in *Input) error {
	if in.MaxFileSize <= 0 {
		return fmt.Errorf("MaxFileSize must be positive, got %d", in.MaxFileSize)
	}
	return nil
}

// validateOutputConfig validates output configuration
func (v *Validator) validateOutputConfig(out *Output) error {
	// Precision 0 logs whole-number scores
	if out.Precision < 0 || out.Precision > MaxPrecision {
		return fmt.Errorf("precision must be between 0 and %d, got %d", MaxPrecision, out.Precision)
	}
	return nil
}

// setSmartDefaults applies smart defaults based on system capabilities
func (v *Validator) setSmartDefaults(cfg *Config) {
	// Scoring is CPU bound, so one worker per core
	if cfg.Performance.Jobs == 0 {
		cfg.Performance.Jobs = max(1, runtime.NumCPU())
	}
}

// ValidateConfig is a convenience function for quick validation
func ValidateConfig(cfg *Config) error {
	validator := NewValidator()
	return validator.ValidateAndSetDefaults(cfg)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
