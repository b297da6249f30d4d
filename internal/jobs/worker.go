package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/a-s-adam/streamlink/internal/logger"
)

// cancelPollInterval is how often a running job checks for a cancel flag.
const cancelPollInterval = 2 * time.Second

// Worker drains the queue with a fixed pool of goroutines. Each job runs
// under a hard-deadline context; the soft limit only logs a warning so the
// handler gets a chance to wind down before the deadline kills it.
type Worker struct {
	backend       Backend
	registry      *Registry
	concurrency   int
	softTimeLimit time.Duration
	hardTimeLimit time.Duration

	wg sync.WaitGroup
}

// NewWorker creates a worker pool. Concurrency below 1 is clamped to 1.
func NewWorker(backend Backend, registry *Registry, concurrency int, softLimit, hardLimit time.Duration) *Worker {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Worker{
		backend:       backend,
		registry:      registry,
		concurrency:   concurrency,
		softTimeLimit: softLimit,
		hardTimeLimit: hardLimit,
	}
}

// Run starts the pool and blocks until ctx is done and all in-flight jobs
// have reached a terminal state.
func (w *Worker) Run(ctx context.Context) {
	logger.CtxInfo(ctx, "worker pool starting: concurrency=%d tasks=%v", w.concurrency, w.registry.Tasks())
	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go func(n int) {
			defer w.wg.Done()
			w.loop(ctx, n)
		}(i)
	}
	w.wg.Wait()
	logger.CtxInfo(ctx, "worker pool stopped")
}

func (w *Worker) loop(ctx context.Context, n int) {
	for {
		job, err := w.backend.Dequeue(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.CtxError(ctx, "worker %d dequeue failed: %v", n, err)
			time.Sleep(time.Second)
			continue
		}
		w.execute(ctx, job)
	}
}

// execute drives one job through its lifecycle. A cancel requested before
// the job starts fails it immediately; after that, cancellation is
// cooperative via the handler's ctx.
func (w *Worker) execute(parent context.Context, job *Job) {
	ctx := logger.SetJobID(parent, job.ID)
	ctx = logger.SetTask(ctx, job.Task)

	// The background context keeps terminal saves working during shutdown.
	saveCtx := logger.SetJobID(context.Background(), job.ID)

	cancelled, err := w.backend.CancelRequested(ctx, job.ID)
	if err != nil {
		logger.CtxError(ctx, "cancel check failed: %v", err)
	}
	if cancelled {
		w.finish(saveCtx, job, nil, fmt.Errorf("cancelled before start"))
		return
	}

	handler, ok := w.registry.Get(job.Task)
	if !ok {
		w.finish(saveCtx, job, nil, fmt.Errorf("no handler for task %q", job.Task))
		return
	}

	now := time.Now().UTC()
	job.State = StateProcessing
	job.StartedAt = &now
	if err := w.backend.Save(ctx, job); err != nil {
		logger.CtxError(ctx, "save PROCESSING failed: %v", err)
	}
	logger.CtxInfo(ctx, "job started")

	runCtx, cancel := context.WithTimeout(ctx, w.hardTimeLimit)
	defer cancel()

	// Relay broker-side cancel requests into the handler's ctx.
	pollDone := make(chan struct{})
	go func() {
		ticker := time.NewTicker(cancelPollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-pollDone:
				return
			case <-runCtx.Done():
				return
			case <-ticker.C:
				if requested, _ := w.backend.CancelRequested(runCtx, job.ID); requested {
					cancel()
					return
				}
			}
		}
	}()

	softTimer := time.AfterFunc(w.softTimeLimit, func() {
		logger.CtxWarn(ctx, "job exceeded soft time limit of %s", w.softTimeLimit)
	})

	progress := func(pct int) {
		if pct < 0 {
			pct = 0
		}
		if pct > 100 {
			pct = 100
		}
		job.Progress = pct
		if err := w.backend.Save(runCtx, job); err != nil {
			logger.CtxWarn(ctx, "progress save failed: %v", err)
		}
	}

	result, runErr := w.run(runCtx, handler, job, progress)

	softTimer.Stop()
	close(pollDone)
	cancel()

	w.finish(saveCtx, job, result, runErr)
}

// run invokes the handler, converting a panic into a failure instead of
// taking the pool down.
func (w *Worker) run(ctx context.Context, handler Handler, job *Job, progress Progress) (result interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.CtxError(ctx, "task panicked: %v\n%s", r, debug.Stack())
			err = fmt.Errorf("task panicked: %v", r)
		}
	}()
	return handler(ctx, job.Args, progress)
}

func (w *Worker) finish(ctx context.Context, job *Job, result interface{}, runErr error) {
	now := time.Now().UTC()
	job.FinishedAt = &now

	if runErr != nil {
		job.State = StateFailure
		job.Error = runErr.Error()
		logger.CtxError(ctx, "job failed: %v", runErr)
	} else {
		job.State = StateSuccess
		job.Progress = 100
		if result != nil {
			raw, err := json.Marshal(result)
			if err != nil {
				logger.CtxError(ctx, "result encode failed: %v", err)
			} else {
				job.Result = raw
			}
		}
		logger.CtxInfo(ctx, "job succeeded")
	}

	if err := w.backend.Save(ctx, job); err != nil {
		logger.CtxError(ctx, "terminal save failed: %v", err)
	}
}
