package report

import (
	"bufio"
	"encoding/csv"
	"errors"
	"os"
	"strconv"

	"github.com/standardbeagle/cheatcheck/internal/debug"
	ccerrors "github.com/standardbeagle/cheatcheck/internal/errors"
	"github.com/standardbeagle/cheatcheck/internal/types"
)

// CSVLog persists every scored pair as "score,pathA,pathB", one per line,
// in the order given to WriteAll. Paths containing commas or quotes are
// quoted per RFC 4180.
//
// The file is created when the log is opened so that an unwritable path is
// reported before any comparison starts.
type CSVLog struct {
	path      string
	precision int
	f         *os.File
}

// OpenCSVLog creates (or truncates) path. Scores are written with precision
// digits after the decimal point.
func OpenCSVLog(path string, precision int) (*CSVLog, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, ccerrors.NewLogWriteError("create", path, err)
	}
	debug.LogReport("opened log %s\n", path)
	return &CSVLog{path: path, precision: precision, f: f}, nil
}

// Path returns the log file location
func (l *CSVLog) Path() string {
	return l.path
}

// WriteAll implements engine.LogSink. It writes all records and closes the
// file; the log cannot be written twice.
func (l *CSVLog) WriteAll(records []types.ScoreRecord) error {
	if l.f == nil {
		return ccerrors.NewLogWriteError("write", l.path, os.ErrClosed)
	}
	f := l.f
	l.f = nil

	buf := bufio.NewWriter(f)
	w := csv.NewWriter(buf)
	row := make([]string, 3)
	for _, rec := range records {
		row[0] = strconv.FormatFloat(rec.Score, 'f', l.precision, 64)
		row[1] = rec.Pair.A.String()
		row[2] = rec.Pair.B.String()
		if err := w.Write(row); err != nil {
			f.Close()
			return ccerrors.NewLogWriteError("write", l.path, err)
		}
	}
	w.Flush()

	err := errors.Join(w.Error(), buf.Flush(), f.Close())
	if err != nil {
		return ccerrors.NewLogWriteError("write", l.path, err)
	}
	debug.LogReport("wrote %d records to %s\n", len(records), l.path)
	return nil
}

// Abort closes and removes a log that was never written. It is a no-op
// after WriteAll.
func (l *CSVLog) Abort() error {
	if l.f == nil {
		return nil
	}
	f := l.f
	l.f = nil
	return errors.Join(f.Close(), os.Remove(l.path))
}
