// Package parallel provides the worker pool used to fan out independent
// (hyperparameter, fold) training tasks.
//
// The pool has an explicit lifecycle: a search or benchmark session acquires
// it once with NewWorkerPool, passes it into every search of the session, and
// releases it with Stop once all comparisons are complete. There is no
// ambient process-wide pool, and a pool must not be reacquired mid-search.
package parallel

import (
	"runtime"
	"sync"

	"github.com/YuminosukeSato/imbalearn/pkg/errors"
)

// Job is a unit of work executed by the pool. Jobs run concurrently and must
// not share mutable state beyond what they synchronize themselves.
type Job func() error

// WorkerPool executes jobs on a fixed set of goroutines.
//
// Add dispatches jobs, Wait blocks until every dispatched job has finished,
// and Stop releases the workers. Add/Wait cycles may repeat any number of
// times before Stop; after Stop the pool rejects new work.
type WorkerPool struct {
	jobs    chan Job
	workers sync.WaitGroup
	pending sync.WaitGroup

	mu       sync.Mutex
	firstErr error
	stopped  bool
	size     int
}

// ErrPoolStopped is returned by Add after Stop has been called.
var ErrPoolStopped = errors.New("worker pool is stopped")

// NewWorkerPool starts a pool with n workers. n < 1 falls back to the number
// of available CPU cores.
func NewWorkerPool(n int) *WorkerPool {
	if n < 1 {
		n = runtime.NumCPU()
	}
	p := &WorkerPool{
		jobs: make(chan Job),
		size: n,
	}
	p.workers.Add(n)
	for i := 0; i < n; i++ {
		go p.worker()
	}
	return p
}

func (p *WorkerPool) worker() {
	defer p.workers.Done()
	for job := range p.jobs {
		p.run(job)
	}
}

func (p *WorkerPool) run(job Job) {
	defer p.pending.Done()
	err := errors.SafeExecute("parallel.Job", job)
	if err != nil {
		p.mu.Lock()
		if p.firstErr == nil {
			p.firstErr = err
		}
		p.mu.Unlock()
	}
}

// Size returns the worker count.
func (p *WorkerPool) Size() int { return p.size }

// Add dispatches jobs to the pool. It blocks while all workers are busy,
// providing natural backpressure, and fails once the pool is stopped.
func (p *WorkerPool) Add(jobs ...Job) error {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return errors.WithStack(ErrPoolStopped)
	}
	p.pending.Add(len(jobs))
	p.mu.Unlock()

	for _, job := range jobs {
		p.jobs <- job
	}
	return nil
}

// Wait blocks until every job dispatched so far has completed and returns the
// first job error observed since the previous Wait, if any.
func (p *WorkerPool) Wait() error {
	p.pending.Wait()
	p.mu.Lock()
	defer p.mu.Unlock()
	err := p.firstErr
	p.firstErr = nil
	return err
}

// Stop releases the pool. In-flight jobs finish naturally; subsequent Add
// calls fail with ErrPoolStopped. Stop is idempotent.
func (p *WorkerPool) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	p.mu.Unlock()

	close(p.jobs)
	p.workers.Wait()
}
