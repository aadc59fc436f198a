// Package report writes comparison results: the live report of suspicious
// pairs as they are found, and the sorted CSV log written at the end of a run.
package report

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"

	"github.com/standardbeagle/cheatcheck/internal/types"
)

// LiveReporter prints each in-range pair as a three line block:
//
//	/path/to/a
//	/path/to/b
//	    0.973
type LiveReporter struct {
	mu    sync.Mutex
	w     io.Writer
	score *color.Color
	count int
}

// NewLiveReporter writes to w. With useColor the score is highlighted
// black on red; callers should pass false when w is not a terminal.
func NewLiveReporter(w io.Writer, useColor bool) *LiveReporter {
	score := color.New(color.FgBlack, color.BgRed)
	if useColor {
		score.EnableColor()
	} else {
		score.DisableColor()
	}
	return &LiveReporter{w: w, score: score}
}

// Report implements engine.Reporter
func (r *LiveReporter) Report(rec types.ScoreRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := fmt.Fprintf(r.w, "%s\n%s\n\t%s\n", rec.Pair.A, rec.Pair.B, r.score.Sprintf("%.3f", rec.Score))
	if err != nil {
		return err
	}
	r.count++
	return nil
}

// Count returns the number of pairs written so far
func (r *LiveReporter) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}
