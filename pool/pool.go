package pool

import (
	"context"
	"sync"
)

// Task is one unit of work scheduled on the pool.
type Task func(ctx context.Context)

// WorkerPool bounds the number of tasks running at once. Conversion working
// sets can be tens of megabytes per image, so the bound directly limits peak
// memory.
type WorkerPool struct {
	sem chan struct{}
	wg  sync.WaitGroup
}

func NewWorkerPool(maxWorkers int) *WorkerPool {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	return &WorkerPool{
		sem: make(chan struct{}, maxWorkers),
	}
}

// Submit schedules task. It runs once a worker slot frees up; if the context
// is cancelled first, the task is dropped.
func (p *WorkerPool) Submit(ctx context.Context, task Task) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()

		select {
		case p.sem <- struct{}{}:
			defer func() { <-p.sem }()
			task(ctx)
		case <-ctx.Done():
		}
	}()
}

// Wait blocks until every submitted task has finished or been dropped.
func (p *WorkerPool) Wait() {
	p.wg.Wait()
}
