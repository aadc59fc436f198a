package core

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/cheatcheck/internal/types"
)

// writeFiles creates files under a fresh temp dir and returns the dir
func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

// canonical returns the FileID for path, failing the test on error
func canonical(t *testing.T, path string) types.FileID {
	t.Helper()
	id, err := Canonicalize(path)
	require.NoError(t, err)
	return id
}
