package jobs

import (
	"context"
	"errors"
)

// ErrJobNotFound is returned when a job record does not exist or has expired
// from the result backend.
var ErrJobNotFound = errors.New("job not found")

// Backend is the broker plus result store behind the orchestrator.
// Two implementations exist: RedisBackend for deployments and MemoryBackend
// for tests and broker-less development, selected by configuration the same
// way the database driver is.
type Backend interface {
	// Enqueue persists a new PENDING job and makes it available to workers.
	Enqueue(ctx context.Context, job *Job) error

	// Dequeue blocks until a job is available or ctx is done.
	Dequeue(ctx context.Context) (*Job, error)

	// Save persists the job's current state. Moving into PROCESSING adds the
	// job to the active set; reaching a terminal state removes it and starts
	// the result retention clock.
	Save(ctx context.Context, job *Job) error

	// Get retrieves a job record by ID. Returns ErrJobNotFound for unknown
	// or expired jobs.
	Get(ctx context.Context, id string) (*Job, error)

	// ListActive returns all jobs currently in PROCESSING.
	ListActive(ctx context.Context) ([]*Job, error)

	// RequestCancel flags a job for cooperative cancellation.
	RequestCancel(ctx context.Context, id string) error

	// CancelRequested reports whether cancellation has been requested.
	CancelRequested(ctx context.Context, id string) (bool, error)

	// Close releases backend resources.
	Close() error
}
