// Package queue provides a small at-least-once background job queue.
//
// A job is a named unit of work with a JSON payload. Retry state (attempt
// count, next-eligible time) is carried explicitly on the job rather than
// through decorator-style wrapping: a handler requests a retry by returning
// Retry(err), and the worker reschedules the job with a fixed per-handler
// delay until the retry budget is exhausted. There is no dead-letter path;
// exhausted jobs are logged and dropped.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Job is one queued unit of work.
type Job struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Payload    json.RawMessage `json:"payload"`
	Attempt    int             `json:"attempt"`
	EnqueuedAt time.Time       `json:"enqueued_at"`
}

// HandlerFunc processes one job. Returning Retry(err) requests rescheduling;
// any other non-nil error abandons the job.
type HandlerFunc func(ctx context.Context, job *Job) error

// HandlerOptions bound the retry behavior of a registered handler.
type HandlerOptions struct {
	// MaxRetries is the number of reschedules allowed after the first run.
	MaxRetries int
	// RetryDelay is the fixed delay before a rescheduled run becomes eligible.
	RetryDelay time.Duration
}

// Enqueuer schedules jobs fire-and-forget. Producers depend on this interface
// only.
type Enqueuer interface {
	Enqueue(ctx context.Context, name string, payload interface{}) error
}

// Queue is a runnable job queue with registered handlers and a worker pool.
type Queue interface {
	Enqueuer
	Register(name string, opts HandlerOptions, fn HandlerFunc)
	Start() error
	Stop()
}

// RetryError signals that a job hit a transient failure and should run again.
type RetryError struct {
	Err error
}

// Retry wraps a transient failure so the worker reschedules the job. The
// original error is preserved unchanged.
func Retry(err error) error {
	return &RetryError{Err: err}
}

func (e *RetryError) Error() string {
	return "retry requested: " + e.Err.Error()
}

func (e *RetryError) Unwrap() error {
	return e.Err
}

type registration struct {
	opts HandlerOptions
	fn   HandlerFunc
}

func newJob(name string, payload interface{}) (*Job, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal job payload: %w", err)
	}
	return &Job{
		ID:         uuid.New().String(),
		Name:       name,
		Payload:    data,
		EnqueuedAt: time.Now(),
	}, nil
}

// dispatch runs one job through its handler and settles the outcome: success,
// reschedule (via the driver-supplied callback), or abandonment once the
// retry budget is spent. Abandonment isolates the failure to this job.
func dispatch(ctx context.Context, log *slog.Logger, handlers map[string]registration, job *Job, reschedule func(job *Job, delay time.Duration)) {
	reg, ok := handlers[job.Name]
	if !ok {
		log.Error("no handler registered for job", "job", job.Name, "job_id", job.ID)
		jobsFailed.WithLabelValues(job.Name).Inc()
		return
	}

	err := reg.fn(ctx, job)
	if err == nil {
		jobsProcessed.WithLabelValues(job.Name).Inc()
		return
	}

	var re *RetryError
	if errors.As(err, &re) && job.Attempt < reg.opts.MaxRetries {
		job.Attempt++
		log.Error("job failed, retry scheduled",
			"job", job.Name, "job_id", job.ID,
			"attempt", job.Attempt, "max_retries", reg.opts.MaxRetries,
			"delay", reg.opts.RetryDelay, "error", re.Err)
		jobsRetried.WithLabelValues(job.Name).Inc()
		reschedule(job, reg.opts.RetryDelay)
		return
	}

	log.Error("job abandoned", "job", job.Name, "job_id", job.ID, "attempt", job.Attempt, "error", err)
	jobsFailed.WithLabelValues(job.Name).Inc()
}
