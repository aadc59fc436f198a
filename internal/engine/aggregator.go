package engine

import (
	"cmp"
	"fmt"
	"log"
	"slices"

	"github.com/standardbeagle/cheatcheck/internal/debug"
	"github.com/standardbeagle/cheatcheck/internal/types"
)

// Reporter receives in-range records as soon as they are scored. Calls come
// from the aggregator goroutine only, one at a time, in completion order.
type Reporter interface {
	Report(rec types.ScoreRecord) error
}

// LogSink persists the complete, sorted score table once the run is over
type LogSink interface {
	WriteAll(records []types.ScoreRecord) error
}

// ScoreTable maps each scored pair to its record. Only the aggregator writes
// to it, and it is read only after the run.
type ScoreTable struct {
	records map[types.Pair]types.ScoreRecord
}

// NewScoreTable creates an empty table sized for capacity pairs
func NewScoreTable(capacity int) *ScoreTable {
	return &ScoreTable{records: make(map[types.Pair]types.ScoreRecord, capacity)}
}

func (t *ScoreTable) insert(rec types.ScoreRecord) bool {
	if _, exists := t.records[rec.Pair]; exists {
		return false
	}
	t.records[rec.Pair] = rec
	return true
}

// Len returns the number of scored pairs
func (t *ScoreTable) Len() int {
	return len(t.records)
}

// Get returns the record for a pair
func (t *ScoreTable) Get(p types.Pair) (types.ScoreRecord, bool) {
	rec, ok := t.records[p]
	return rec, ok
}

// Scores returns a copy of the table as a plain map
func (t *ScoreTable) Scores() map[types.Pair]float64 {
	out := make(map[types.Pair]float64, len(t.records))
	for p, rec := range t.records {
		out[p] = rec.Score
	}
	return out
}

// Sorted returns every record, highest score first. Equal scores are ordered
// by pair so the output is identical across runs.
func (t *ScoreTable) Sorted() []types.ScoreRecord {
	out := make([]types.ScoreRecord, 0, len(t.records))
	for _, rec := range t.records {
		out = append(out, rec)
	}
	SortRecords(out)
	return out
}

// SortRecords sorts by score descending, then by pair ascending
func SortRecords(records []types.ScoreRecord) {
	slices.SortFunc(records, func(x, y types.ScoreRecord) int {
		if c := cmp.Compare(y.Score, x.Score); c != 0 {
			return c
		}
		switch {
		case x.Pair.Less(y.Pair):
			return -1
		case y.Pair.Less(x.Pair):
			return 1
		}
		return 0
	})
}

// Aggregator is the single consumer of worker outcomes
type Aggregator struct {
	lower    float64
	upper    float64
	reporter Reporter

	table       *ScoreTable
	failures    []error
	reported    int
	reportFails int
}

// NewAggregator creates an aggregator that reports records with
// lower <= score <= upper. reporter may be nil.
func NewAggregator(lower, upper float64, reporter Reporter, capacity int) *Aggregator {
	return &Aggregator{
		lower:    lower,
		upper:    upper,
		reporter: reporter,
		table:    NewScoreTable(capacity),
	}
}

// Consume reads results until the channel is closed. It always drains the
// channel so no worker is left blocked on a send.
func (a *Aggregator) Consume(results <-chan Outcome) {
	for out := range results {
		if out.Err != nil {
			debug.LogEngine("job failed: %v\n", out.Err)
			a.failures = append(a.failures, out.Err)
			continue
		}
		a.add(out.Record)
	}
	debug.LogEngine("aggregated %d records (%d reported, %d failed)\n", a.table.Len(), a.reported, len(a.failures))
}

func (a *Aggregator) add(rec types.ScoreRecord) {
	if !a.table.insert(rec) {
		a.failures = append(a.failures, fmt.Errorf("pair %s scored twice", rec.Pair))
		return
	}
	if !rec.InRange(a.lower, a.upper) {
		return
	}
	a.reported++
	if a.reporter == nil {
		return
	}
	if err := a.reporter.Report(rec); err != nil {
		a.reportFails++
		if a.reportFails == 1 {
			log.Printf("WARNING: live report failed: %v", err)
		}
	}
}

// Table returns the score table. It must not be called before Consume returns.
func (a *Aggregator) Table() *ScoreTable {
	return a.table
}

// Failures returns the jobs that could not be scored
func (a *Aggregator) Failures() []error {
	return a.failures
}

// Reported returns how many records fell inside the reporting range
func (a *Aggregator) Reported() int {
	return a.reported
}
