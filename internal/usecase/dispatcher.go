package usecase

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/sahara-community/pulse/internal/domain"
)

type dispatchJob struct {
	name string
	run  func(ctx context.Context) error
}

// Dispatcher runs queued jobs on a fixed pool of workers. Jobs run with the
// dispatcher's context, not the context of the request that queued them,
// and a job accepted by Enqueue is run even while the server shuts down.
type Dispatcher struct {
	queue   chan dispatchJob
	workers int
	wg      sync.WaitGroup

	mu     sync.RWMutex
	closed bool
	cancel context.CancelFunc
}

func NewDispatcher(workers, queueSize int) *Dispatcher {
	if workers <= 0 {
		workers = 1
	}
	if queueSize <= 0 {
		queueSize = 1
	}
	return &Dispatcher{
		queue:   make(chan dispatchJob, queueSize),
		workers: workers,
	}
}

// Enqueue schedules job without blocking. It fails with ErrQueueFull when
// the backlog is at capacity and with ErrDispatcherClosed after Stop.
func (d *Dispatcher) Enqueue(name string, job func(ctx context.Context) error) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return domain.ErrDispatcherClosed
	}

	select {
	case d.queue <- dispatchJob{name: name, run: job}:
		return nil
	default:
		return domain.ErrQueueFull
	}
}

// Start launches the workers. Jobs inherit ctx's values but not its
// cancellation; only Stop ends them.
func (d *Dispatcher) Start(ctx context.Context) {
	jobCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	d.mu.Lock()
	d.cancel = cancel
	d.mu.Unlock()

	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.work(jobCtx)
	}
}

// Stop refuses new jobs and waits for the queued ones to finish. If ctx
// expires first, running jobs see their context cancelled and Stop
// returns ctx's error.
func (d *Dispatcher) Stop(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	cancel := d.cancel
	d.mu.Unlock()

	finished := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(finished)
	}()

	select {
	case <-finished:
		if cancel != nil {
			cancel()
		}
		return nil
	case <-ctx.Done():
		if cancel != nil {
			cancel()
		}
		slog.WarnContext(
			ctx, "Dispatcher stopped before the queue drained",
			slog.Int("pending", len(d.queue)),
			slog.String("module", "dispatcher"),
		)
		return ctx.Err()
	}
}

func (d *Dispatcher) work(ctx context.Context) {
	defer d.wg.Done()
	for job := range d.queue {
		if ctx.Err() != nil {
			slog.WarnContext(
				ctx, "Dispatched job dropped",
				slog.String("job", job.name),
				slog.String("module", "dispatcher"),
			)
			continue
		}

		start := time.Now()
		if err := job.run(ctx); err != nil {
			slog.ErrorContext(
				ctx, "Dispatched job failed",
				slog.String("job", job.name),
				slog.String("error", err.Error()),
				slog.String("module", "dispatcher"),
			)
			continue
		}
		slog.DebugContext(
			ctx, "Dispatched job finished",
			slog.String("job", job.name),
			slog.Duration("elapsed", time.Since(start)),
			slog.String("module", "dispatcher"),
		)
	}
}
