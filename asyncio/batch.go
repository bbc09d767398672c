package asyncio

import (
	"sync"
	"sync/atomic"
)

// Result pairs a shard index with the error its task produced, so the
// caller can tell which disk failed without re-deriving it from ordering.
type Result struct {
	Index int
	Err   error
}

// Batch joins N concurrently-submitted futures and reports how many
// succeeded, per spec.md §4.6 step 5 "wait for write-quorum acknowledgements".
//
// Design note: earlier drafts used a mutex-guarded counted-completion
// object; this uses a plain sync.WaitGroup plus an atomic success counter
// instead, since nothing here needs a critical section longer than a single
// increment.
type Batch struct {
	wg       sync.WaitGroup
	results  []Result
	succeeded int64
}

// NewBatch pre-sizes the results slice for n tasks.
func NewBatch(n int) *Batch {
	return &Batch{results: make([]Result, n)}
}

// Go submits t on pool as shard index idx and tracks its completion.
func (b *Batch) Go(pool *Pool, idx int, t Task) {
	b.wg.Add(1)
	fut := pool.Submit(t)
	go func() {
		defer b.wg.Done()
		err := fut.Wait()
		b.results[idx] = Result{Index: idx, Err: err}
		if err == nil {
			atomic.AddInt64(&b.succeeded, 1)
		}
	}()
}

// Wait blocks until every submitted task has completed and returns the
// per-index results in submission order.
func (b *Batch) Wait() []Result {
	b.wg.Wait()
	return b.results
}

// Succeeded reports how many tasks completed without error. Valid only
// after Wait returns.
func (b *Batch) Succeeded() int {
	return int(atomic.LoadInt64(&b.succeeded))
}
