package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/a-s-adam/streamlink/internal/logger"
)

// ErrJobTerminal is returned when an operation targets a job that has
// already reached SUCCESS or FAILURE.
var ErrJobTerminal = errors.New("job already finished")

// Orchestrator is the client side of the work queue: it submits tasks,
// reads status, and relays cancellation. One instance is shared by the API
// handlers; workers consume from the same Backend.
type Orchestrator struct {
	backend  Backend
	registry *Registry
}

// NewOrchestrator creates an Orchestrator over the given backend.
// The registry is consulted at submission time so unknown task names fail
// fast instead of dying in a worker.
func NewOrchestrator(backend Backend, registry *Registry) *Orchestrator {
	return &Orchestrator{backend: backend, registry: registry}
}

// Submit enqueues a new job for the named task and returns its ID.
func (o *Orchestrator) Submit(ctx context.Context, task string, args interface{}) (string, error) {
	if _, ok := o.registry.Get(task); !ok {
		return "", fmt.Errorf("unknown task %q", task)
	}

	var raw json.RawMessage
	if args != nil {
		encoded, err := json.Marshal(args)
		if err != nil {
			return "", fmt.Errorf("encode args for %s: %w", task, err)
		}
		raw = encoded
	}

	job := &Job{
		ID:         uuid.NewString(),
		Task:       task,
		Args:       raw,
		State:      StatePending,
		EnqueuedAt: time.Now().UTC(),
	}
	if err := o.backend.Enqueue(ctx, job); err != nil {
		return "", err
	}

	logger.CtxInfo(ctx, "job submitted: id=%s task=%s", job.ID, task)
	return job.ID, nil
}

// Dispatch is Submit under the name pipeline code depends on, so services
// can chain follow-up tasks without importing this package's broker types.
func (o *Orchestrator) Dispatch(ctx context.Context, task string, args interface{}) (string, error) {
	return o.Submit(ctx, task, args)
}

// Status returns the current job record.
func (o *Orchestrator) Status(ctx context.Context, id string) (*Job, error) {
	return o.backend.Get(ctx, id)
}

// Cancel requests cooperative cancellation of a pending or processing job.
// Terminal jobs are rejected with ErrJobTerminal.
func (o *Orchestrator) Cancel(ctx context.Context, id string) error {
	job, err := o.backend.Get(ctx, id)
	if err != nil {
		return err
	}
	if job.State.Terminal() {
		return ErrJobTerminal
	}
	if err := o.backend.RequestCancel(ctx, id); err != nil {
		return err
	}
	logger.CtxInfo(ctx, "job cancel requested: id=%s task=%s", id, job.Task)
	return nil
}

// ListActive returns all jobs currently executing on workers.
func (o *Orchestrator) ListActive(ctx context.Context) ([]*Job, error) {
	return o.backend.ListActive(ctx)
}

// Resubmit enqueues a fresh job with the same task and args as an existing
// terminal job. The source record is left untouched; the new job gets its
// own ID and a clean lifecycle.
func (o *Orchestrator) Resubmit(ctx context.Context, id string) (string, error) {
	job, err := o.backend.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if !job.State.Terminal() {
		return "", fmt.Errorf("job %s is still %s", id, job.State)
	}

	fresh := &Job{
		ID:         uuid.NewString(),
		Task:       job.Task,
		Args:       job.Args,
		State:      StatePending,
		EnqueuedAt: time.Now().UTC(),
	}
	if err := o.backend.Enqueue(ctx, fresh); err != nil {
		return "", err
	}

	logger.CtxInfo(ctx, "job resubmitted: source=%s new=%s task=%s", id, fresh.ID, job.Task)
	return fresh.ID, nil
}
