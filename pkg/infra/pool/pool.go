package pool

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kart-io/logger"
	"github.com/panjf2000/ants/v2"

	"github.com/kart-io/launchpad/pkg/infra/lifecycle"
)

// Config defines the worker pool settings.
type Config struct {
	// Capacity is the maximum number of concurrent workers.
	Capacity int
	// ExpiryDuration is how long an idle worker is kept.
	ExpiryDuration time.Duration
	PreAlloc       bool
	// Nonblocking makes Submit fail with ErrPoolOverload when the pool is full.
	Nonblocking      bool
	MaxBlockingTasks int
	// PanicHandler overrides the report to the error trap.
	PanicHandler func(interface{})
}

// DefaultConfig returns the settings used for application background work.
func DefaultConfig() *Config {
	return &Config{
		Capacity:         50,
		ExpiryDuration:   60 * time.Second,
		Nonblocking:      true,
		MaxBlockingTasks: 100,
	}
}

// Pool is a named worker pool.
type Pool struct {
	name     string
	pool     *ants.Pool
	config   *Config
	stats    statsCounter
	inflight sync.WaitGroup
	closed   atomic.Bool
	closedMu sync.Mutex
}

type statsCounter struct {
	submitted atomic.Int64
	completed atomic.Int64
	failed    atomic.Int64
	rejected  atomic.Int64
	panics    atomic.Int64
}

// Stats is a snapshot of the pool counters.
type Stats struct {
	SubmittedTasks int64
	CompletedTasks int64
	FailedTasks    int64
	RejectedTasks  int64
	PanicRecovered int64
}

// New creates a worker pool. A nil config uses DefaultConfig.
func New(name string, config *Config) (*Pool, error) {
	if config == nil {
		config = DefaultConfig()
	}

	p := &Pool{name: name, config: config}

	pool, err := ants.NewPool(config.Capacity, buildAntsOptions(name, config)...)
	if err != nil {
		return nil, fmt.Errorf("create worker pool %q: %w", name, err)
	}
	p.pool = pool

	logger.Debugw("Worker pool created",
		"name", name,
		"capacity", config.Capacity,
		"nonblocking", config.Nonblocking,
	)
	return p, nil
}

func buildAntsOptions(name string, config *Config) []ants.Option {
	opts := []ants.Option{
		ants.WithExpiryDuration(config.ExpiryDuration),
		ants.WithPreAlloc(config.PreAlloc),
		ants.WithNonblocking(config.Nonblocking),
		ants.WithMaxBlockingTasks(config.MaxBlockingTasks),
	}

	handler := config.PanicHandler
	if handler == nil {
		handler = func(p interface{}) {
			lifecycle.ReportPanic("pool:"+name, p)
		}
	}
	return append(opts, ants.WithPanicHandler(handler))
}

// Name returns the pool name.
func (p *Pool) Name() string {
	return p.name
}

// Cap returns the pool capacity.
func (p *Pool) Cap() int {
	return p.pool.Cap()
}

// Running returns the number of busy workers.
func (p *Pool) Running() int {
	return p.pool.Running()
}

// Submit queues task. A panic in task is recovered and reported.
func (p *Pool) Submit(task func()) error {
	if p.closed.Load() {
		return ErrPoolClosed
	}

	p.inflight.Add(1)
	err := p.pool.Submit(func() {
		defer p.inflight.Done()
		p.stats.submitted.Add(1)

		defer func() {
			if r := recover(); r != nil {
				p.stats.panics.Add(1)
				p.stats.failed.Add(1)
				// let the ants panic handler report it
				panic(r)
			}
			p.stats.completed.Add(1)
		}()

		task()
	})
	if err != nil {
		p.inflight.Done()
		if errors.Is(err, ants.ErrPoolOverload) {
			p.stats.rejected.Add(1)
			return ErrPoolOverload
		}
		if errors.Is(err, ants.ErrPoolClosed) {
			return ErrPoolClosed
		}
		p.stats.failed.Add(1)
		return err
	}
	return nil
}

// SubmitErr queues task and reports a returned error as an unhandled
// rejection named operation.
func (p *Pool) SubmitErr(operation string, task func() error) error {
	return p.Submit(func() {
		if err := task(); err != nil {
			p.stats.failed.Add(1)
			lifecycle.Reject(operation, err)
		}
	})
}

// SubmitWithContext queues task; it is skipped if ctx is done before it starts.
func (p *Pool) SubmitWithContext(ctx context.Context, task func()) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return p.Submit(func() {
		if ctx.Err() != nil {
			return
		}
		task()
	})
}

// Release closes the pool without waiting for queued work.
func (p *Pool) Release() {
	p.closedMu.Lock()
	defer p.closedMu.Unlock()
	if p.closed.Swap(true) {
		return
	}
	p.pool.Release()
	logger.Debugw("Worker pool released", "name", p.name)
}

// Shutdown closes the pool and waits for submitted tasks until ctx is done.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.closedMu.Lock()
	if p.closed.Swap(true) {
		p.closedMu.Unlock()
		return nil
	}
	p.closedMu.Unlock()

	done := make(chan struct{})
	go func() {
		p.inflight.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.pool.Release()
		logger.Debugw("Worker pool drained", "name", p.name)
		return nil
	case <-ctx.Done():
		p.pool.Release()
		return fmt.Errorf("drain worker pool %q: %w", p.name, ctx.Err())
	}
}

// Stats returns a snapshot of the counters.
func (p *Pool) Stats() Stats {
	return Stats{
		SubmittedTasks: p.stats.submitted.Load(),
		CompletedTasks: p.stats.completed.Load(),
		FailedTasks:    p.stats.failed.Load(),
		RejectedTasks:  p.stats.rejected.Load(),
		PanicRecovered: p.stats.panics.Load(),
	}
}
