package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

// stubResult implements Result
type stubResult struct {
	err error
}

func (r *stubResult) GetError() error { return r.err }

// stubJob implements Job with an optional failure, an execution counter, and
// a hold time that respects cancellation
type stubJob struct {
	fail bool
	runs *int32
	hold time.Duration
}

func (j *stubJob) Execute(ctx context.Context) Result {
	if j.runs != nil {
		atomic.AddInt32(j.runs, 1)
	}
	if j.hold > 0 {
		select {
		case <-time.After(j.hold):
		case <-ctx.Done():
			return &stubResult{err: ctx.Err()}
		}
	}
	if j.fail {
		return &stubResult{err: errors.New("job failed")}
	}
	return &stubResult{}
}

func TestNewPool_WorkerBounds(t *testing.T) {
	cases := []struct {
		requested int
		want      int
	}{
		{5, 5},
		{1, 1},
		{0, 1},
		{-3, 1},
	}
	for _, tc := range cases {
		if got := NewPool(tc.requested).workers; got != tc.want {
			t.Errorf("NewPool(%d).workers = %d, want %d", tc.requested, got, tc.want)
		}
	}
}

func TestPool_RunsEveryJob(t *testing.T) {
	pool := NewPool(2)
	pool.Start()

	var runs int32
	const jobs = 10
	for i := 0; i < jobs; i++ {
		pool.Submit(&stubJob{runs: &runs})
	}

	results := pool.Wait()
	if len(results) != jobs {
		t.Fatalf("expected %d results, got %d", jobs, len(results))
	}
	if got := atomic.LoadInt32(&runs); got != jobs {
		t.Errorf("expected %d executions, got %d", jobs, got)
	}
}

func TestPool_ReportsPerJobErrors(t *testing.T) {
	pool := NewPool(2)
	pool.Start()

	pool.Submit(&stubJob{fail: true})
	pool.Submit(&stubJob{})

	results := pool.Wait()
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	failed := 0
	for _, res := range results {
		if res.GetError() != nil {
			failed++
		}
	}
	if failed != 1 {
		t.Errorf("expected exactly 1 failed result, got %d", failed)
	}
}

// concurrencyGauge tracks live and peak concurrent executions
type concurrencyGauge struct {
	current int32
	peak    int32
	done    int32
}

func (g *concurrencyGauge) enter() {
	curr := atomic.AddInt32(&g.current, 1)
	for {
		peak := atomic.LoadInt32(&g.peak)
		if curr <= peak || atomic.CompareAndSwapInt32(&g.peak, peak, curr) {
			return
		}
	}
}

func (g *concurrencyGauge) exit() {
	atomic.AddInt32(&g.current, -1)
	atomic.AddInt32(&g.done, 1)
}

// gaugeJob reports its execution window to a shared gauge
type gaugeJob struct {
	gauge *concurrencyGauge
	hold  time.Duration
}

func (j *gaugeJob) Execute(ctx context.Context) Result {
	j.gauge.enter()
	defer j.gauge.exit()
	time.Sleep(j.hold)
	return &stubResult{}
}

func TestPool_BoundsConcurrency(t *testing.T) {
	const workers = 10
	const jobs = 50

	pool := NewPool(workers)
	pool.Start()

	gauge := &concurrencyGauge{}
	for i := 0; i < jobs; i++ {
		pool.Submit(&gaugeJob{gauge: gauge, hold: 10 * time.Millisecond})
	}
	pool.Wait()

	if got := atomic.LoadInt32(&gauge.done); got != jobs {
		t.Errorf("expected %d completed jobs, got %d", jobs, got)
	}
	if peak := atomic.LoadInt32(&gauge.peak); peak > workers {
		t.Errorf("observed %d concurrent jobs with %d workers", peak, workers)
	}
}

func TestPool_ResultsStream(t *testing.T) {
	pool := NewPool(2)
	pool.Start()

	go func() {
		for i := 0; i < 5; i++ {
			pool.Submit(&stubJob{})
		}
		pool.Close()
	}()

	count := 0
	for range pool.Results() {
		count++
	}
	if count != 5 {
		t.Errorf("expected 5 streamed results, got %d", count)
	}
}

func TestPool_SubmitAfterShutdown(t *testing.T) {
	pool := NewPool(2)
	pool.Start()
	pool.Shutdown()

	done := make(chan struct{})
	go func() {
		pool.Submit(&stubJob{})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Submit after shutdown blocked")
	}
}

// signalJob closes started when it begins executing, then waits out hold or
// the pool context
type signalJob struct {
	started chan struct{}
	hold    time.Duration
}

func (j *signalJob) Execute(ctx context.Context) Result {
	close(j.started)
	select {
	case <-time.After(j.hold):
		return &stubResult{}
	case <-ctx.Done():
		return &stubResult{err: ctx.Err()}
	}
}

func TestPool_ShutdownInterruptsRunningJob(t *testing.T) {
	pool := NewPool(1)
	pool.Start()

	started := make(chan struct{})
	pool.Submit(&signalJob{started: started, hold: 5 * time.Second})
	<-started

	begin := time.Now()
	pool.Shutdown()

	// Shutdown must close the results channel with no drain required
	for range pool.Results() {
	}
	if elapsed := time.Since(begin); elapsed > 2*time.Second {
		t.Fatalf("expected prompt shutdown, took %v", elapsed)
	}
}
