package simulation

import (
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
)

// minParallelItems is the smallest workload worth splitting across workers
const minParallelItems = 256

// rangePool runs read-only per-index passes in parallel. Each task writes
// only its own index range, so results do not depend on scheduling.
type rangePool struct {
	pool    worker.DynamicWorkerPool
	workers int
	nextID  int
}

// newRangePool returns nil for workers <= 1; a nil pool runs inline
func newRangePool(workers int) *rangePool {
	if workers <= 1 {
		return nil
	}
	return &rangePool{
		pool:    worker.NewDynamicWorkerPool(workers, workers*4, 1*time.Second),
		workers: workers,
	}
}

// forEachRange calls fn over [0, n) split into contiguous chunks and waits
// for all of them.
func (p *rangePool) forEachRange(n int, fn func(lo, hi int)) {
	if p == nil || n < minParallelItems {
		fn(0, n)
		return
	}

	chunk := (n + p.workers - 1) / p.workers
	var wg sync.WaitGroup
	for lo := 0; lo < n; lo += chunk {
		hi := min(lo+chunk, n)
		wg.Add(1)
		id := p.nextID
		p.nextID++
		p.pool.SubmitTask(worker.Task{
			ID: id,
			Do: func() (any, error) {
				defer wg.Done()
				fn(lo, hi)
				return nil, nil
			},
		})
	}
	wg.Wait()
}
