package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/cheatcheck/internal/types"
)

// parseKDL applies KDL content to a fresh default config
func parseKDL(content string) (*Config, error) {
	cfg := Default()
	if err := applyKDL(cfg, content); err != nil {
		return nil, err
	}
	return cfg, nil
}

func TestParseKDL_Defaults(t *testing.T) {
	cfg, err := parseKDL("")
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, SensitivityUnset, cfg.Compare.Sensitivity)
	assert.Equal(t, types.UnboundedMaxSensitivity, cfg.Compare.MaxSensitivity)
	assert.Equal(t, types.MetricLevenshtein, cfg.Compare.Metric)
	assert.Equal(t, 0, cfg.Performance.Jobs)
	assert.Equal(t, DefaultPrecision, cfg.Output.Precision)
	assert.True(t, cfg.Output.Color)
	assert.True(t, cfg.Input.SkipBinary)
	assert.Empty(t, cfg.Exclude)
}

func TestParseKDL_FullConfig(t *testing.T) {
	kdlContent := `
compare {
    sensitivity 0.75
    max_sensitivity 0.99
    metric "damerau"
}
performance {
    jobs 3
}
preprocess {
    trim true
    formatter "clang-format"
    template "/srv/starter.c"
}
input {
    max_file_size "2MB"
    skip_binary false
}
output {
    log "/tmp/report.csv"
    precision 4
    color false
    verbose true
}
exclude "**/*.md" "**/build/**"
`
	cfg, err := parseKDL(kdlContent)
	require.NoError(t, err)

	assert.Equal(t, 0.75, cfg.Compare.Sensitivity)
	assert.Equal(t, 0.99, cfg.Compare.MaxSensitivity)
	assert.Equal(t, types.MetricDamerauLevenshtein, cfg.Compare.Metric)
	assert.Equal(t, 3, cfg.Performance.Jobs)
	assert.True(t, cfg.Preprocess.Trim)
	assert.Equal(t, "clang-format", cfg.Preprocess.Formatter)
	assert.Equal(t, "/srv/starter.c", cfg.Preprocess.Template)
	assert.Equal(t, int64(2*1024*1024), cfg.Input.MaxFileSize)
	assert.False(t, cfg.Input.SkipBinary)
	assert.Equal(t, "/tmp/report.csv", cfg.Output.LogFile)
	assert.Equal(t, 4, cfg.Output.Precision)
	assert.False(t, cfg.Output.Color)
	assert.True(t, cfg.Output.Verbose)
	assert.Equal(t, []string{"**/*.md", "**/build/**"}, cfg.Exclude)
}

func TestParseKDL_IntegerSensitivity(t *testing.T) {
	cfg, err := parseKDL(`compare { sensitivity 1; }`)
	require.NoError(t, err)
	assert.Equal(t, 1.0, cfg.Compare.Sensitivity)
}

func TestParseKDL_DamerauSwitch(t *testing.T) {
	cfg, err := parseKDL(`compare { damerau true; }`)
	require.NoError(t, err)
	assert.Equal(t, types.MetricDamerauLevenshtein, cfg.Compare.Metric)
}

func TestParseKDL_UnknownMetric(t *testing.T) {
	_, err := parseKDL(`compare { metric "cosine"; }`)
	assert.Error(t, err)
}

func TestParseKDL_ExcludeBlock(t *testing.T) {
	kdlContent := `
exclude {
    "**/vendor/**"
    "**/*.min.js"
}
`
	cfg, err := parseKDL(kdlContent)
	require.NoError(t, err)
	assert.Equal(t, []string{"**/vendor/**", "**/*.min.js"}, cfg.Exclude)
}

func TestParseKDL_InvalidSyntax(t *testing.T) {
	_, err := parseKDL(`compare { sensitivity "unterminated }`)
	assert.Error(t, err)
}

func TestParseSize(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"10", 10},
		{"10B", 10},
		{"4KB", 4 * 1024},
		{"5mb", 5 * 1024 * 1024},
		{" 1GB ", 1024 * 1024 * 1024},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseSize(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := parseSize("lots")
	assert.Error(t, err)
}
