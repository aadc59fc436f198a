package engine

import (
	"context"
	"errors"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/standardbeagle/cheatcheck/internal/core"
	"github.com/standardbeagle/cheatcheck/internal/debug"
	ccerrors "github.com/standardbeagle/cheatcheck/internal/errors"
	"github.com/standardbeagle/cheatcheck/internal/types"
)

// Outcome is what a worker emits for one job: a record, or the reason the
// pair could not be scored
type Outcome struct {
	Record types.ScoreRecord
	Err    *ccerrors.ScoreError
}

// WorkerPool runs a fixed number of workers that drain a WorkQueue
type WorkerPool struct {
	workers int
	queue   *WorkQueue
	store   *core.ContentStore
	scorer  Scorer

	done chan struct{}
	err  error
}

// NewWorkerPool creates a pool of workers goroutines. Values below one are
// raised to one.
func NewWorkerPool(workers int, queue *WorkQueue, store *core.ContentStore, scorer Scorer) *WorkerPool {
	return &WorkerPool{
		workers: max(1, workers),
		queue:   queue,
		store:   store,
		scorer:  scorer,
		done:    make(chan struct{}),
	}
}

// Workers returns the pool size
func (p *WorkerPool) Workers() int {
	return p.workers
}

// Start launches the workers and returns the channel they emit on. The
// channel is closed once every worker has terminated, which happens when the
// queue is empty or ctx is cancelled. The caller must drain the channel.
//
// The queue must be sealed: a worker seeing an empty queue stops for good.
func (p *WorkerPool) Start(ctx context.Context) (<-chan Outcome, error) {
	if !p.queue.Sealed() {
		return nil, errors.New("worker pool started on an unsealed queue")
	}

	results := make(chan Outcome, p.workers*4)
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < p.workers; i++ {
		workerID := i
		g.Go(func() error {
			return p.work(gctx, workerID, results)
		})
	}

	go func() {
		p.err = g.Wait()
		close(results)
		close(p.done)
	}()

	debug.LogEngine("started %d workers on %d jobs\n", p.workers, p.queue.Len())
	return results, nil
}

// Err waits for all workers and returns the first error that stopped one,
// which can only be a context error
func (p *WorkerPool) Err() error {
	<-p.done
	return p.err
}

func (p *WorkerPool) work(ctx context.Context, workerID int, results chan<- Outcome) error {
	scored := 0
	for {
		if err := ctx.Err(); err != nil {
			debug.LogEngine("worker %d stopping after %d jobs: %v\n", workerID, scored, err)
			return err
		}

		pair, ok := p.queue.Pop()
		if !ok {
			debug.LogEngine("worker %d finished after %d jobs\n", workerID, scored)
			return nil
		}

		out := p.scoreOne(workerID, pair)
		select {
		case results <- out:
			scored++
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// scoreOne scores a single pair. A panic in the scorer is confined to this
// job and comes back as a ScoreError.
func (p *WorkerPool) scoreOne(workerID int, pair types.Pair) (out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			out = Outcome{Err: ccerrors.NewScorePanicError(pair, r).WithWorker(workerID)}
		}
	}()

	a, okA := p.store.Get(pair.A)
	b, okB := p.store.Get(pair.B)
	if !okA || !okB {
		return Outcome{Err: ccerrors.NewScoreError(pair, errors.New("content not in store")).WithWorker(workerID)}
	}

	var score float64
	if a.SameContent(b) {
		score = 1.0
	} else {
		score = p.scorer.Score(a.Content, b.Content)
	}

	if math.IsNaN(score) || score < 0 || score > 1 {
		return Outcome{Err: ccerrors.NewScoreError(pair,
			fmt.Errorf("%s returned %v, outside [0,1]", p.scorer.Name(), score)).WithWorker(workerID)}
	}
	return Outcome{Record: types.ScoreRecord{Pair: pair, Score: score}}
}
