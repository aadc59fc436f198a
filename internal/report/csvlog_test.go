package report

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ccerrors "github.com/standardbeagle/cheatcheck/internal/errors"
	"github.com/standardbeagle/cheatcheck/internal/types"
)

func TestCSVLog_WriteAll(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scores.csv")
	l, err := OpenCSVLog(path, 6)
	require.NoError(t, err)
	assert.Equal(t, path, l.Path())

	_, err = os.Stat(path)
	require.NoError(t, err, "the file exists before anything is written")

	records := []types.ScoreRecord{
		{Pair: types.Pair{A: "/subs/a.txt", B: "/subs/b.txt"}, Score: 1},
		{Pair: types.Pair{A: "/subs/a.txt", B: "/subs/c.txt"}, Score: 1 - 7.0/13},
		{Pair: types.Pair{A: "/subs/odd,name.txt", B: "/subs/z.txt"}, Score: 0},
	}
	require.NoError(t, l.WriteAll(records))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t,
		"1.000000,/subs/a.txt,/subs/b.txt\n"+
			"0.461538,/subs/a.txt,/subs/c.txt\n"+
			"0.000000,\"/subs/odd,name.txt\",/subs/z.txt\n",
		string(data))

	err = l.WriteAll(records)
	var logErr *ccerrors.LogWriteError
	assert.True(t, errors.As(err, &logErr), "a log is written once")
	assert.NoError(t, l.Abort(), "abort after write is a no-op")
	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestCSVLog_Precision(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scores.csv")
	l, err := OpenCSVLog(path, 2)
	require.NoError(t, err)
	require.NoError(t, l.WriteAll([]types.ScoreRecord{{Pair: types.Pair{A: "/a", B: "/b"}, Score: 0.756}}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "0.76,/a,/b\n", string(data))
}

func TestCSVLog_ZeroPrecision(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scores.csv")
	l, err := OpenCSVLog(path, 0)
	require.NoError(t, err)
	require.NoError(t, l.WriteAll([]types.ScoreRecord{
		{Pair: types.Pair{A: "/a", B: "/b"}, Score: 1.0},
		{Pair: types.Pair{A: "/a", B: "/c"}, Score: 0.4},
	}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "1,/a,/b\n0,/a,/c\n", string(data))
}

func TestCSVLog_EmptyTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scores.csv")
	l, err := OpenCSVLog(path, 6)
	require.NoError(t, err)
	require.NoError(t, l.WriteAll(nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestOpenCSVLog_CreateFailure(t *testing.T) {
	_, err := OpenCSVLog(filepath.Join(t.TempDir(), "missing", "dir", "scores.csv"), 6)
	require.Error(t, err)

	var logErr *ccerrors.LogWriteError
	require.True(t, errors.As(err, &logErr))
	assert.Equal(t, "create", logErr.Operation)
}

func TestCSVLog_Abort(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scores.csv")
	l, err := OpenCSVLog(path, 6)
	require.NoError(t, err)

	require.NoError(t, l.Abort())
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
	assert.Error(t, l.WriteAll(nil))
}
