package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/cheatcheck/internal/types"
)

// isolateHome points the user home directory at an empty temp dir so a
// developer's real global config cannot leak into tests.
func isolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	return home
}

func TestLoad_NoConfigFiles(t *testing.T) {
	isolateHome(t)

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_ProjectOverridesGlobal(t *testing.T) {
	home := isolateHome(t)
	project := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(home, KDLFileName), []byte(`
compare { sensitivity 0.5; metric "damerau"; }
performance { jobs 2; }
exclude "**/vendor/**" "**/*.md"
`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(project, KDLFileName), []byte(`
compare { sensitivity 0.8; }
exclude "**/*.md" "**/dist/**"
`), 0o644))

	cfg, err := Load(project)
	require.NoError(t, err)

	assert.Equal(t, 0.8, cfg.Compare.Sensitivity, "project value wins")
	assert.Equal(t, types.MetricDamerauLevenshtein, cfg.Compare.Metric, "global value kept when project is silent")
	assert.Equal(t, 2, cfg.Performance.Jobs)
	assert.Equal(t, []string{"**/vendor/**", "**/*.md", "**/dist/**"}, cfg.Exclude)
}

func TestLoad_TOMLProjectConfig(t *testing.T) {
	isolateHome(t)
	project := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(project, TOMLFileName), []byte(`
[compare]
sensitivity = 0.7

[output]
log = "reports/run.csv"
`), 0o644))

	cfg, err := Load(project)
	require.NoError(t, err)

	assert.Equal(t, 0.7, cfg.Compare.Sensitivity)
	assert.Equal(t, filepath.Join(project, "reports", "run.csv"), cfg.Output.LogFile,
		"relative paths resolve against the config file's directory")
}

func TestLoad_KDLPreferredOverTOML(t *testing.T) {
	isolateHome(t)
	project := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(project, KDLFileName), []byte(`compare { sensitivity 0.1; }`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(project, TOMLFileName), []byte("[compare]\nsensitivity = 0.2\n"), 0o644))

	cfg, err := Load(project)
	require.NoError(t, err)
	assert.Equal(t, 0.1, cfg.Compare.Sensitivity)
}

func TestLoad_BrokenProjectConfig(t *testing.T) {
	isolateHome(t)
	project := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(project, KDLFileName), []byte(`compare {`), 0o644))

	_, err := Load(project)
	assert.Error(t, err)
}

func TestLoad_BrokenGlobalConfigIgnored(t *testing.T) {
	home := isolateHome(t)
	require.NoError(t, os.WriteFile(filepath.Join(home, KDLFileName), []byte(`compare {`), 0o644))

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, SensitivityUnset, cfg.Compare.Sensitivity)
}

func TestLoadFile_ByExtension(t *testing.T) {
	dir := t.TempDir()

	kdlPath := filepath.Join(dir, "custom.kdl")
	require.NoError(t, os.WriteFile(kdlPath, []byte(`preprocess { template "starter.go"; }`), 0o644))
	cfg, err := LoadFile(kdlPath)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "starter.go"), cfg.Preprocess.Template)

	tomlPath := filepath.Join(dir, "custom.toml")
	require.NoError(t, os.WriteFile(tomlPath, []byte("[performance]\njobs = 5\n"), 0o644))
	cfg, err = LoadFile(tomlPath)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Performance.Jobs)

	_, err = LoadFile(filepath.Join(dir, "missing.kdl"))
	assert.Error(t, err)
}

func TestDeduplicatePatterns(t *testing.T) {
	got := DeduplicatePatterns([]string{"a", " b ", "a", "", "c", "b"})
	assert.Equal(t, []string{"a", "b", "c"}, got)
}
