package engine

import (
	"sync"

	ccerrors "github.com/standardbeagle/cheatcheck/internal/errors"
	"github.com/standardbeagle/cheatcheck/internal/types"
)

// WorkQueue holds the pairs waiting to be scored.
//
// It is filled during setup and then sealed; workers drain it concurrently
// with Pop until it reports empty. Every pushed pair is handed to exactly
// one caller of Pop. Pop never waits for more work: an empty sealed queue
// is the signal for workers to stop.
type WorkQueue struct {
	mu     sync.Mutex
	jobs   []types.Pair
	next   int
	sealed bool
	closed bool
}

// NewWorkQueue creates an empty, unsealed queue with room for capacity jobs
func NewWorkQueue(capacity int) *WorkQueue {
	return &WorkQueue{jobs: make([]types.Pair, 0, capacity)}
}

// NewWorkQueueFromPairs creates a sealed queue holding pairs in order
func NewWorkQueueFromPairs(pairs []types.Pair) *WorkQueue {
	q := NewWorkQueue(len(pairs))
	q.jobs = append(q.jobs, pairs...)
	q.sealed = true
	return q
}

// Push adds a job. It fails once the queue is sealed or closed.
func (q *WorkQueue) Push(p types.Pair) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.sealed || q.closed {
		return ccerrors.ErrQueueClosed
	}
	q.jobs = append(q.jobs, p)
	return nil
}

// Seal marks the end of setup. Workers may only start on a sealed queue.
func (q *WorkQueue) Seal() {
	q.mu.Lock()
	q.sealed = true
	q.mu.Unlock()
}

// Sealed reports whether Seal has been called
func (q *WorkQueue) Sealed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.sealed
}

// Pop claims the next job. ok is false when no jobs remain or the queue was closed.
func (q *WorkQueue) Pop() (p types.Pair, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed || q.next >= len(q.jobs) {
		return types.Pair{}, false
	}
	p = q.jobs[q.next]
	q.jobs[q.next] = types.Pair{}
	q.next++
	return p, true
}

// Len returns the number of unclaimed jobs
func (q *WorkQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return 0
	}
	return len(q.jobs) - q.next
}

// Close stops all further claims. Jobs already claimed are unaffected.
func (q *WorkQueue) Close() {
	q.mu.Lock()
	q.closed = true
	q.sealed = true
	q.mu.Unlock()
}

// Closed reports whether Close has been called
func (q *WorkQueue) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}
