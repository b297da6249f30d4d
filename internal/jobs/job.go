// Package jobs provides the background work queue: submission, worker
// execution, status tracking, and best-effort cancellation. Pipeline logic
// stays out of this package; tasks are plain functions looked up in a
// Registry, so every pipeline remains testable without a broker running.
package jobs

import (
	"context"
	"encoding/json"
	"time"
)

// State is the lifecycle state of a job.
// PENDING -> PROCESSING -> SUCCESS | FAILURE. No job is left PROCESSING:
// worker crash recovery and the hard time limit both force a terminal state.
type State string

const (
	StatePending    State = "PENDING"
	StateProcessing State = "PROCESSING"
	StateSuccess    State = "SUCCESS"
	StateFailure    State = "FAILURE"
)

// Terminal reports whether the state is final.
func (s State) Terminal() bool {
	return s == StateSuccess || s == StateFailure
}

// Job is a transient work descriptor. It lives only as long as the backend
// retains it; terminal records expire after the configured result TTL.
type Job struct {
	ID         string          `json:"id"`
	Task       string          `json:"task"`
	Args       json.RawMessage `json:"args,omitempty"`
	State      State           `json:"state"`
	Progress   int             `json:"progress"`
	Result     json.RawMessage `json:"result,omitempty"`
	Error      string          `json:"error,omitempty"`
	EnqueuedAt time.Time       `json:"enqueued_at"`
	StartedAt  *time.Time      `json:"started_at,omitempty"`
	FinishedAt *time.Time      `json:"finished_at,omitempty"`
}

// Progress reports job completion percentage in [0, 100].
// Handlers call it at their own checkpoints; ticks are caller-reported, the
// orchestrator never infers progress.
type Progress func(pct int)

// Handler executes one task. The returned value is marshaled into the job's
// terminal result; a non-nil error marks the job FAILURE with the error text.
// Handlers must honor ctx cancellation between major stages; mid-stage work
// is allowed to complete.
type Handler func(ctx context.Context, args json.RawMessage, progress Progress) (interface{}, error)

// Registry maps task names to handlers.
type Registry struct {
	handlers map[string]Handler
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

// Register binds a handler to a task name, replacing any previous binding.
func (r *Registry) Register(task string, h Handler) {
	r.handlers[task] = h
}

// Get returns the handler for a task name.
func (r *Registry) Get(task string) (Handler, bool) {
	h, ok := r.handlers[task]
	return h, ok
}

// Tasks returns all registered task names.
func (r *Registry) Tasks() []string {
	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	return names
}
