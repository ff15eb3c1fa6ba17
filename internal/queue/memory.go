package queue

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

const memoryBuffer = 1024

// Memory is an in-process Queue with the same semantics as the redis driver.
// Used in tests and in development without a redis instance; jobs do not
// survive a restart.
type Memory struct {
	log      *slog.Logger
	workers  int
	handlers map[string]registration
	jobs     chan *Job

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

var _ Queue = (*Memory)(nil)

// NewMemory creates an in-memory queue with the given worker count.
func NewMemory(workers int, log *slog.Logger) *Memory {
	if workers < 1 {
		workers = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Memory{
		log:      log,
		workers:  workers,
		handlers: make(map[string]registration),
		jobs:     make(chan *Job, memoryBuffer),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Register binds a handler to a job name. Must be called before Start.
func (q *Memory) Register(name string, opts HandlerOptions, fn HandlerFunc) {
	q.handlers[name] = registration{opts: opts, fn: fn}
}

// Enqueue schedules a job for immediate execution.
func (q *Memory) Enqueue(ctx context.Context, name string, payload interface{}) error {
	job, err := newJob(name, payload)
	if err != nil {
		return err
	}
	select {
	case q.jobs <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-q.ctx.Done():
		return errors.New("queue stopped")
	}
}

// Start launches the worker pool.
func (q *Memory) Start() error {
	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.worker()
	}
	q.log.Info("queue started", "driver", "memory", "workers", q.workers)
	return nil
}

// Stop cancels all workers and pending retry timers, then waits for them.
func (q *Memory) Stop() {
	q.cancel()
	q.wg.Wait()
	q.log.Info("queue stopped")
}

func (q *Memory) worker() {
	defer q.wg.Done()

	for {
		select {
		case <-q.ctx.Done():
			return
		case job := <-q.jobs:
			dispatch(q.ctx, q.log, q.handlers, job, q.reschedule)
		}
	}
}

func (q *Memory) reschedule(job *Job, delay time.Duration) {
	q.wg.Add(1)
	go func() {
		defer q.wg.Done()

		timer := time.NewTimer(delay)
		defer timer.Stop()

		select {
		case <-q.ctx.Done():
		case <-timer.C:
			select {
			case q.jobs <- job:
			case <-q.ctx.Done():
			}
		}
	}()
}
