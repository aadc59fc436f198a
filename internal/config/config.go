package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/standardbeagle/cheatcheck/internal/types"
)

// Config file names searched in the home and project directories.
// KDL wins when both exist in the same directory.
const (
	KDLFileName  = ".cheatcheck.kdl"
	TOMLFileName = ".cheatcheck.toml"
)

// Defaults used when neither config files nor flags set a value
const (
	DefaultPrecision = 6
	// SensitivityUnset marks a missing lower bound; validation rejects it
	SensitivityUnset = -1.0
)

type Config struct {
	Version     int
	Compare     Compare
	Performance Performance
	Preprocess  Preprocess
	Input       Input
	Output      Output
	Exclude     []string // doublestar patterns removed from resolved inputs
}

type Compare struct {
	Sensitivity    float64      // Lower bound of the reportable range (required)
	MaxSensitivity float64      // Upper bound of the reportable range, >1.0 means unbounded
	Metric         types.Metric // Edit distance used for scoring
}

type Performance struct {
	Jobs int // Worker pool size, 0 = auto-detect (NumCPU)
}

type Preprocess struct {
	Trim      bool   // Strip all whitespace before scoring
	Formatter string // Program run on each file (stdin -> stdout) before scoring
	Template  string // Files identical to this one are not compared
}

type Input struct {
	Patterns    []string // Literal paths or glob patterns
	MaxFileSize int64    // Larger files are skipped with a warning
	SkipBinary  bool     // Skip files detected as binary
}

type Output struct {
	LogFile   string // Persisted sorted CSV report, empty = disabled
	Precision int    // Digits after the decimal point in the persisted report
	Color     bool   // Highlight scores in the live report
	Verbose   bool
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Version: 1,
		Compare: Compare{
			Sensitivity:    SensitivityUnset,
			MaxSensitivity: types.UnboundedMaxSensitivity,
			Metric:         types.MetricLevenshtein,
		},
		Performance: Performance{
			Jobs: 0, // 0 = auto-detect (NumCPU)
		},
		Input: Input{
			MaxFileSize: types.DefaultMaxFileSize,
			SkipBinary:  true,
		},
		Output: Output{
			Precision: DefaultPrecision,
			Color:     true,
		},
		Exclude: []string{},
	}
}

// Load builds a configuration from the defaults, the global config in the
// user's home directory and the project config in dir, in that order.
// Later sources override scalar values; exclusion lists are merged.
func Load(dir string) (*Config, error) {
	cfg := Default()

	// Global config problems never block a run
	if homeDir, err := os.UserHomeDir(); err == nil {
		if _, err := applyDir(cfg, homeDir); err != nil {
			log.Printf("WARNING: ignoring global config in %s: %v", homeDir, err)
		}
	}

	if dir == "" {
		dir = "."
	}
	if _, err := applyDir(cfg, dir); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFile loads an explicitly named config file on top of the defaults.
// Files ending in .toml are parsed as TOML, everything else as KDL.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if err := applyFile(cfg, path); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyDir applies the config file found in dir, if any
func applyDir(cfg *Config, dir string) (bool, error) {
	for _, name := range []string{KDLFileName, TOMLFileName} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		return true, applyFile(cfg, path)
	}
	return false, nil
}

func applyFile(cfg *Config, path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	if strings.EqualFold(filepath.Ext(path), ".toml") {
		err = applyTOML(cfg, content)
	} else {
		err = applyKDL(cfg, string(content))
	}
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	cfg.resolveRelativePaths(filepath.Dir(path))
	return nil
}

// resolveRelativePaths anchors file paths from a config file to that file's directory
func (c *Config) resolveRelativePaths(baseDir string) {
	if c.Preprocess.Template != "" && !filepath.IsAbs(c.Preprocess.Template) {
		c.Preprocess.Template = filepath.Clean(filepath.Join(baseDir, c.Preprocess.Template))
	}
	if c.Output.LogFile != "" && !filepath.IsAbs(c.Output.LogFile) {
		c.Output.LogFile = filepath.Clean(filepath.Join(baseDir, c.Output.LogFile))
	}
}

// AddExclusions appends patterns, dropping duplicates while keeping first-seen order
func (c *Config) AddExclusions(patterns ...string) {
	c.Exclude = DeduplicatePatterns(append(c.Exclude, patterns...))
}

// DeduplicatePatterns removes duplicate patterns, preserving order
func DeduplicatePatterns(patterns []string) []string {
	seen := make(map[string]bool, len(patterns))
	out := make([]string, 0, len(patterns))
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}
