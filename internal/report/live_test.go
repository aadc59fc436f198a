package report

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/cheatcheck/internal/types"
)

func TestLiveReporter_Plain(t *testing.T) {
	var buf bytes.Buffer
	r := NewLiveReporter(&buf, false)

	require.NoError(t, r.Report(types.ScoreRecord{Pair: types.Pair{A: "/subs/a.c", B: "/subs/b.c"}, Score: 0.97345}))
	require.NoError(t, r.Report(types.ScoreRecord{Pair: types.Pair{A: "/subs/a.c", B: "/subs/c.c"}, Score: 1}))

	assert.Equal(t, "/subs/a.c\n/subs/b.c\n\t0.973\n/subs/a.c\n/subs/c.c\n\t1.000\n", buf.String())
	assert.Equal(t, 2, r.Count())
}

func TestLiveReporter_Color(t *testing.T) {
	var buf bytes.Buffer
	r := NewLiveReporter(&buf, true)

	require.NoError(t, r.Report(types.ScoreRecord{Pair: types.Pair{A: "/a", B: "/b"}, Score: 0.5}))
	assert.Contains(t, buf.String(), "\x1b[")
	assert.Contains(t, buf.String(), "0.500")
}

type brokenWriter struct{}

func (brokenWriter) Write([]byte) (int, error) { return 0, errors.New("broken pipe") }

func TestLiveReporter_WriteError(t *testing.T) {
	r := NewLiveReporter(brokenWriter{}, false)
	assert.Error(t, r.Report(types.ScoreRecord{Pair: types.Pair{A: "/a", B: "/b"}, Score: 0.5}))
	assert.Equal(t, 0, r.Count())
}
