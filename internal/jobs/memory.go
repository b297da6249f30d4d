package jobs

import (
	"context"
	"sync"
)

// memoryQueueSize bounds the pending queue; Enqueue fails beyond it rather
// than blocking an API handler.
const memoryQueueSize = 4096

// MemoryBackend is an in-process Backend. It backs tests and broker-less
// development. Records never expire, so Resubmit always finds its source job.
type MemoryBackend struct {
	mu      sync.RWMutex
	records map[string]Job
	active  map[string]struct{}
	cancels map[string]struct{}
	queue   chan string
}

// NewMemoryBackend creates an empty in-process backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		records: make(map[string]Job),
		active:  make(map[string]struct{}),
		cancels: make(map[string]struct{}),
		queue:   make(chan string, memoryQueueSize),
	}
}

// Enqueue persists the job and pushes it onto the queue.
func (b *MemoryBackend) Enqueue(ctx context.Context, job *Job) error {
	b.mu.Lock()
	b.records[job.ID] = *job
	b.mu.Unlock()

	select {
	case b.queue <- job.ID:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Dequeue blocks until a job is available or ctx is done.
func (b *MemoryBackend) Dequeue(ctx context.Context) (*Job, error) {
	for {
		select {
		case id := <-b.queue:
			job, err := b.Get(ctx, id)
			if err == ErrJobNotFound {
				continue
			}
			return job, err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// Save persists the job state and maintains the active set.
func (b *MemoryBackend) Save(ctx context.Context, job *Job) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.records[job.ID] = *job
	if job.State == StateProcessing {
		b.active[job.ID] = struct{}{}
	} else {
		delete(b.active, job.ID)
	}
	return nil
}

// Get retrieves a copy of the job record.
func (b *MemoryBackend) Get(ctx context.Context, id string) (*Job, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	job, ok := b.records[id]
	if !ok {
		return nil, ErrJobNotFound
	}
	copy := job
	return &copy, nil
}

// ListActive returns all PROCESSING jobs.
func (b *MemoryBackend) ListActive(ctx context.Context) ([]*Job, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	jobs := make([]*Job, 0, len(b.active))
	for id := range b.active {
		if job, ok := b.records[id]; ok {
			copy := job
			jobs = append(jobs, &copy)
		}
	}
	return jobs, nil
}

// RequestCancel flags the job for cooperative cancellation.
func (b *MemoryBackend) RequestCancel(ctx context.Context, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.records[id]; !ok {
		return ErrJobNotFound
	}
	b.cancels[id] = struct{}{}
	return nil
}

// CancelRequested reports whether cancellation was requested.
func (b *MemoryBackend) CancelRequested(ctx context.Context, id string) (bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	_, ok := b.cancels[id]
	return ok, nil
}

// Close is a no-op for the in-process backend.
func (b *MemoryBackend) Close() error {
	return nil
}
