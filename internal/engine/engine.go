package engine

import (
	"context"
	"errors"
	"time"

	"github.com/standardbeagle/cheatcheck/internal/core"
	"github.com/standardbeagle/cheatcheck/internal/debug"
	ccerrors "github.com/standardbeagle/cheatcheck/internal/errors"
)

// Options configures a comparison run
type Options struct {
	// Workers is the pool size; values below one mean one worker
	Workers int
	// Sensitivity and MaxSensitivity bound the live report, inclusive.
	// Use types.UnboundedMaxSensitivity for no upper bound. The persisted
	// log ignores both and holds every pair.
	Sensitivity    float64
	MaxSensitivity float64
	// Scorer defaults to LevenshteinScorer
	Scorer Scorer
	// Reporter and Log are optional
	Reporter Reporter
	Log      LogSink
}

// Result is the outcome of a run
type Result struct {
	Table    *ScoreTable
	Files    int
	Pairs    int
	Reported int
	Failures []error
	Duration time.Duration
}

// Engine compares every pair of files in a content store
type Engine struct {
	store *core.ContentStore
	opts  Options
}

// New creates an engine over a loaded store
func New(store *core.ContentStore, opts Options) (*Engine, error) {
	if store == nil {
		return nil, errors.New("engine needs a content store")
	}
	if opts.Scorer == nil {
		opts.Scorer = LevenshteinScorer{}
	}
	return &Engine{store: store, opts: opts}, nil
}

// Run scores every pair and returns the full table.
//
// Fewer than two files fails before any work starts and returns no result.
// Jobs that fail are left out of the table and returned together in a
// MultiError alongside the partial result; the log is still written for the
// pairs that were scored. Cancelling ctx stops workers between jobs: the
// result then holds whatever was scored, nothing is logged and ctx's error is
// returned.
func (e *Engine) Run(ctx context.Context) (*Result, error) {
	start := time.Now()

	pairs, err := GeneratePairs(e.store.IDs())
	if err != nil {
		return nil, err
	}

	queue := NewWorkQueueFromPairs(pairs)
	stop := context.AfterFunc(ctx, queue.Close)
	defer stop()
	pool := NewWorkerPool(e.opts.Workers, queue, e.store, e.opts.Scorer)
	agg := NewAggregator(e.opts.Sensitivity, e.opts.MaxSensitivity, e.opts.Reporter, len(pairs))

	debug.LogEngine("comparing %d files as %d pairs with %s on %d workers\n",
		e.store.Len(), len(pairs), e.opts.Scorer.Name(), pool.Workers())

	results, err := pool.Start(ctx)
	if err != nil {
		return nil, err
	}
	agg.Consume(results)
	poolErr := pool.Err()

	res := &Result{
		Table:    agg.Table(),
		Files:    e.store.Len(),
		Pairs:    len(pairs),
		Reported: agg.Reported(),
		Failures: agg.Failures(),
		Duration: time.Since(start),
	}

	// Workers that find the queue closed exit cleanly, so a cancellation
	// can surface here only as unscored pairs.
	if poolErr == nil && queue.Closed() && res.Table.Len()+len(res.Failures) < res.Pairs {
		poolErr = context.Cause(ctx)
	}
	if poolErr != nil {
		debug.LogEngine("run cancelled with %d of %d pairs scored (queue closed: %t)\n",
			res.Table.Len(), res.Pairs, queue.Closed())
		return res, poolErr
	}

	errs := append([]error(nil), res.Failures...)
	if e.opts.Log != nil {
		if err := e.opts.Log.WriteAll(res.Table.Sorted()); err != nil {
			errs = append(errs, err)
		}
	}

	debug.LogEngine("run finished in %v\n", res.Duration)
	return res, ccerrors.NewMultiError(errs).ErrOrNil()
}
