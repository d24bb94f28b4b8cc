package worker

import (
	"context"
	"sync"
)

// Job is one unit of work for the pool
type Job interface {
	Execute(ctx context.Context) Result
}

// Result is what a finished job hands back
type Result interface {
	GetError() error
}

// Pool runs jobs across a fixed set of worker goroutines. Submit feeds the
// queue; Close marks it complete; Shutdown abandons in-flight work. Results
// stream out as jobs finish, in completion order.
type Pool struct {
	workers   int
	jobs      chan Job
	results   chan Result
	wg        sync.WaitGroup
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
}

// NewPool creates a pool with the given worker count
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Pool{
		workers: workers,
		jobs:    make(chan Job, workers*2),
		results: make(chan Result, workers*2),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start launches the workers
func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.run()
	}
}

func (p *Pool) run() {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case job, ok := <-p.jobs:
			if !ok {
				return
			}
			result := job.Execute(p.ctx)
			select {
			case p.results <- result:
			case <-p.ctx.Done():
				return
			}
		}
	}
}

// Submit queues a job. Submitting after Shutdown is a no-op. Callers must
// not Submit once Close has been called.
func (p *Pool) Submit(job Job) {
	select {
	case <-p.ctx.Done():
	case p.jobs <- job:
	}
}

// Results exposes the result stream. It closes once the workers have
// drained the queue after Close, or exited after Shutdown.
func (p *Pool) Results() <-chan Result {
	return p.results
}

// Close marks the queue complete. Workers exit as it drains and the results
// channel closes behind them.
func (p *Pool) Close() {
	close(p.jobs)

	go func() {
		p.wg.Wait()
		p.closeResults()
	}()
}

// Wait closes the queue and collects every result. Callers consuming
// Results() directly should not call Wait.
func (p *Pool) Wait() []Result {
	p.Close()

	var results []Result
	for result := range p.results {
		results = append(results, result)
	}

	return results
}

// Shutdown cancels in-flight jobs and tears the pool down without draining
// the queue
func (p *Pool) Shutdown() {
	p.cancel()
	p.wg.Wait()
	p.closeResults()
}

func (p *Pool) closeResults() {
	p.closeOnce.Do(func() {
		close(p.results)
	})
}
