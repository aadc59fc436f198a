package config

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"

	"github.com/standardbeagle/cheatcheck/internal/types"
)

// tomlConfig mirrors Config for .cheatcheck.toml. Pointer fields tell
// "absent" apart from zero values so a file only overrides what it sets.
type tomlConfig struct {
	Exclude []string `toml:"exclude"`

	Compare struct {
		Sensitivity    *float64 `toml:"sensitivity"`
		MaxSensitivity *float64 `toml:"max_sensitivity"`
		Metric         *string  `toml:"metric"`
		Damerau        *bool    `toml:"damerau"`
	} `toml:"compare"`

	Performance struct {
		Jobs *int `toml:"jobs"`
	} `toml:"performance"`

	Preprocess struct {
		Trim      *bool   `toml:"trim"`
		Formatter *string `toml:"formatter"`
		Template  *string `toml:"template"`
	} `toml:"preprocess"`

	Input struct {
		// Either a byte count or a size string like "5MB"
		MaxFileSize any   `toml:"max_file_size"`
		SkipBinary  *bool `toml:"skip_binary"`
	} `toml:"input"`

	Output struct {
		Log       *string `toml:"log"`
		Precision *int    `toml:"precision"`
		Color     *bool   `toml:"color"`
		Verbose   *bool   `toml:"verbose"`
	} `toml:"output"`
}

// applyTOML overlays values from a TOML document onto cfg
func applyTOML(cfg *Config, content []byte) error {
	var tc tomlConfig
	if err := toml.Unmarshal(content, &tc); err != nil {
		return fmt.Errorf("failed to parse TOML config: %w", err)
	}

	if tc.Compare.Sensitivity != nil {
		cfg.Compare.Sensitivity = *tc.Compare.Sensitivity
	}
	if tc.Compare.MaxSensitivity != nil {
		cfg.Compare.MaxSensitivity = *tc.Compare.MaxSensitivity
	}
	if tc.Compare.Metric != nil {
		m, err := types.ParseMetric(*tc.Compare.Metric)
		if err != nil {
			return err
		}
		cfg.Compare.Metric = m
	}
	if tc.Compare.Damerau != nil && *tc.Compare.Damerau {
		cfg.Compare.Metric = types.MetricDamerauLevenshtein
	}

	if tc.Performance.Jobs != nil {
		cfg.Performance.Jobs = *tc.Performance.Jobs
	}

	if tc.Preprocess.Trim != nil {
		cfg.Preprocess.Trim = *tc.Preprocess.Trim
	}
	if tc.Preprocess.Formatter != nil {
		cfg.Preprocess.Formatter = *tc.Preprocess.Formatter
	}
	if tc.Preprocess.Template != nil {
		cfg.Preprocess.Template = *tc.Preprocess.Template
	}

	switch v := tc.Input.MaxFileSize.(type) {
	case nil:
	case int64:
		cfg.Input.MaxFileSize = v
	case string:
		sz, err := parseSize(v)
		if err != nil {
			return fmt.Errorf("invalid max_file_size %q: %w", v, err)
		}
		cfg.Input.MaxFileSize = sz
	default:
		return fmt.Errorf("invalid max_file_size type %T", v)
	}
	if tc.Input.SkipBinary != nil {
		cfg.Input.SkipBinary = *tc.Input.SkipBinary
	}

	if tc.Output.Log != nil {
		cfg.Output.LogFile = *tc.Output.Log
	}
	if tc.Output.Precision != nil {
		cfg.Output.Precision = *tc.Output.Precision
	}
	if tc.Output.Color != nil {
		cfg.Output.Color = *tc.Output.Color
	}
	if tc.Output.Verbose != nil {
		cfg.Output.Verbose = *tc.Output.Verbose
	}

	cfg.AddExclusions(tc.Exclude...)
	return nil
}
