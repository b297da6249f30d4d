package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"
)

func startWorker(t *testing.T, backend Backend, registry *Registry) context.CancelFunc {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	w := NewWorker(backend, registry, 2, 10*time.Second, 20*time.Second)
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return cancel
}

func waitTerminal(t *testing.T, o *Orchestrator, id string) *Job {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		job, err := o.Status(context.Background(), id)
		if err != nil {
			t.Fatalf("Status(%s) error: %v", id, err)
		}
		if job.State.Terminal() {
			return job
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("job %s never reached a terminal state", id)
	return nil
}

func TestSubmitAndSucceed(t *testing.T) {
	backend := NewMemoryBackend()
	registry := NewRegistry()
	registry.Register("echo", func(ctx context.Context, args json.RawMessage, progress Progress) (interface{}, error) {
		progress(50)
		var in map[string]string
		if err := json.Unmarshal(args, &in); err != nil {
			return nil, err
		}
		return map[string]string{"echo": in["msg"]}, nil
	})
	o := NewOrchestrator(backend, registry)
	startWorker(t, backend, registry)

	id, err := o.Submit(context.Background(), "echo", map[string]string{"msg": "hello"})
	if err != nil {
		t.Fatalf("Submit error: %v", err)
	}

	job := waitTerminal(t, o, id)
	if job.State != StateSuccess {
		t.Fatalf("state = %s, want SUCCESS (error: %s)", job.State, job.Error)
	}
	if job.Progress != 100 {
		t.Errorf("progress = %d, want 100", job.Progress)
	}
	var out map[string]string
	if err := json.Unmarshal(job.Result, &out); err != nil {
		t.Fatalf("result decode error: %v", err)
	}
	if out["echo"] != "hello" {
		t.Errorf("result = %v, want echo=hello", out)
	}
	if job.StartedAt == nil || job.FinishedAt == nil {
		t.Error("terminal job missing timestamps")
	}
}

func TestSubmitUnknownTask(t *testing.T) {
	o := NewOrchestrator(NewMemoryBackend(), NewRegistry())
	if _, err := o.Submit(context.Background(), "nope", nil); err == nil {
		t.Fatal("Submit of unregistered task succeeded, want error")
	}
}

func TestHandlerFailure(t *testing.T) {
	backend := NewMemoryBackend()
	registry := NewRegistry()
	registry.Register("boom", func(ctx context.Context, args json.RawMessage, progress Progress) (interface{}, error) {
		return nil, errors.New("item 42 not found")
	})
	o := NewOrchestrator(backend, registry)
	startWorker(t, backend, registry)

	id, err := o.Submit(context.Background(), "boom", nil)
	if err != nil {
		t.Fatalf("Submit error: %v", err)
	}

	job := waitTerminal(t, o, id)
	if job.State != StateFailure {
		t.Fatalf("state = %s, want FAILURE", job.State)
	}
	if job.Error != "item 42 not found" {
		t.Errorf("error = %q, want original message", job.Error)
	}
}

func TestHandlerPanicBecomesFailure(t *testing.T) {
	backend := NewMemoryBackend()
	registry := NewRegistry()
	registry.Register("panic", func(ctx context.Context, args json.RawMessage, progress Progress) (interface{}, error) {
		panic("nil map write")
	})
	o := NewOrchestrator(backend, registry)
	startWorker(t, backend, registry)

	id, err := o.Submit(context.Background(), "panic", nil)
	if err != nil {
		t.Fatalf("Submit error: %v", err)
	}

	job := waitTerminal(t, o, id)
	if job.State != StateFailure {
		t.Fatalf("state = %s, want FAILURE", job.State)
	}
}

func TestCancelRunningJob(t *testing.T) {
	backend := NewMemoryBackend()
	registry := NewRegistry()
	started := make(chan struct{})
	registry.Register("slow", func(ctx context.Context, args json.RawMessage, progress Progress) (interface{}, error) {
		close(started)
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("interrupted: %w", ctx.Err())
		case <-time.After(30 * time.Second):
			return "done", nil
		}
	})
	o := NewOrchestrator(backend, registry)
	startWorker(t, backend, registry)

	id, err := o.Submit(context.Background(), "slow", nil)
	if err != nil {
		t.Fatalf("Submit error: %v", err)
	}

	<-started
	if err := o.Cancel(context.Background(), id); err != nil {
		t.Fatalf("Cancel error: %v", err)
	}

	job := waitTerminal(t, o, id)
	if job.State != StateFailure {
		t.Fatalf("state = %s, want FAILURE after cancel", job.State)
	}
}

func TestCancelTerminalJobRejected(t *testing.T) {
	backend := NewMemoryBackend()
	registry := NewRegistry()
	registry.Register("noop", func(ctx context.Context, args json.RawMessage, progress Progress) (interface{}, error) {
		return nil, nil
	})
	o := NewOrchestrator(backend, registry)
	startWorker(t, backend, registry)

	id, err := o.Submit(context.Background(), "noop", nil)
	if err != nil {
		t.Fatalf("Submit error: %v", err)
	}
	waitTerminal(t, o, id)

	if err := o.Cancel(context.Background(), id); !errors.Is(err, ErrJobTerminal) {
		t.Fatalf("Cancel on terminal job = %v, want ErrJobTerminal", err)
	}
}

func TestResubmitReusesArgs(t *testing.T) {
	backend := NewMemoryBackend()
	registry := NewRegistry()
	var fail = true
	registry.Register("flaky", func(ctx context.Context, args json.RawMessage, progress Progress) (interface{}, error) {
		var in map[string]int
		if err := json.Unmarshal(args, &in); err != nil {
			return nil, err
		}
		if fail {
			fail = false
			return nil, errors.New("transient")
		}
		return map[string]int{"n": in["n"] * 2}, nil
	})
	o := NewOrchestrator(backend, registry)
	startWorker(t, backend, registry)

	id, err := o.Submit(context.Background(), "flaky", map[string]int{"n": 21})
	if err != nil {
		t.Fatalf("Submit error: %v", err)
	}
	first := waitTerminal(t, o, id)
	if first.State != StateFailure {
		t.Fatalf("first run state = %s, want FAILURE", first.State)
	}

	retryID, err := o.Resubmit(context.Background(), id)
	if err != nil {
		t.Fatalf("Resubmit error: %v", err)
	}
	if retryID == id {
		t.Fatal("Resubmit returned the same job ID")
	}

	second := waitTerminal(t, o, retryID)
	if second.State != StateSuccess {
		t.Fatalf("retry state = %s (error: %s), want SUCCESS", second.State, second.Error)
	}
	var out map[string]int
	if err := json.Unmarshal(second.Result, &out); err != nil {
		t.Fatalf("result decode error: %v", err)
	}
	if out["n"] != 42 {
		t.Errorf("result n = %d, want 42", out["n"])
	}

	// The original record is untouched by the retry.
	orig, err := o.Status(context.Background(), id)
	if err != nil {
		t.Fatalf("Status error: %v", err)
	}
	if orig.State != StateFailure {
		t.Errorf("original job state changed to %s", orig.State)
	}
}

func TestResubmitNonTerminalRejected(t *testing.T) {
	backend := NewMemoryBackend()
	registry := NewRegistry()
	registry.Register("idle", func(ctx context.Context, args json.RawMessage, progress Progress) (interface{}, error) {
		return nil, nil
	})
	o := NewOrchestrator(backend, registry)
	// No worker running: the job stays PENDING.
	id, err := o.Submit(context.Background(), "idle", nil)
	if err != nil {
		t.Fatalf("Submit error: %v", err)
	}
	if _, err := o.Resubmit(context.Background(), id); err == nil {
		t.Fatal("Resubmit of a PENDING job succeeded, want error")
	}
}

func TestStatusUnknownJob(t *testing.T) {
	o := NewOrchestrator(NewMemoryBackend(), NewRegistry())
	if _, err := o.Status(context.Background(), "missing"); !errors.Is(err, ErrJobNotFound) {
		t.Fatalf("Status = %v, want ErrJobNotFound", err)
	}
}
