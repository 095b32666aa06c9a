// Package parallel provides a small bounded worker pool used to fan out
// independent, CPU-bound jobs (such as lexing and parsing several source
// files at once) and collect their results in the original order.
package parallel

import (
	"runtime"
	"sync"

	"go.uber.org/zap"
)

// Pool caps how many jobs submitted to Map run concurrently.
type Pool struct {
	workers int
	log     *zap.Logger
}

// New returns a Pool that runs at most workers jobs concurrently. A
// non-positive workers defaults to runtime.NumCPU().
func New(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Pool{workers: workers, log: zap.NewNop()}
}

// WithLogger attaches a logger that Map uses to report a job failure (the
// lowest-indexed one, the same error Map returns). Passing nil restores the
// no-op logger.
func (p *Pool) WithLogger(logger *zap.Logger) *Pool {
	if logger == nil {
		logger = zap.NewNop()
	}
	p.log = logger
	return p
}

type indexedResult[T any] struct {
	value T
	err   error
}

// Map runs fn(i) for every i in [0, n) using up to p.workers goroutines at
// a time, and returns the results in index order (not completion order).
// If any call returns a non-nil error, Map returns the lowest-indexed such
// error and a nil result slice; it still waits for every goroutine to
// finish before returning.
func Map[T any](p *Pool, n int, fn func(i int) (T, error)) ([]T, error) {
	results := make([]indexedResult[T], n)
	sem := make(chan struct{}, p.workers)
	var wg sync.WaitGroup
	wg.Add(n)

	for i := 0; i < n; i++ {
		sem <- struct{}{}
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()
			v, err := fn(i)
			results[i] = indexedResult[T]{value: v, err: err}
		}(i)
	}
	wg.Wait()

	out := make([]T, n)
	for i, r := range results {
		if r.err != nil {
			p.log.Debug("pool job failed", zap.Int("index", i), zap.Error(r.err))
			return nil, r.err
		}
		out[i] = r.value
	}
	return out, nil
}
