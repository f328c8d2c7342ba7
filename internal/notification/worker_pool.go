package notification

import (
	"context"
	"errors"
	"sync"
	"time"

	"rendezvous/pkg/logger"
	"rendezvous/pkg/metrics"
)

var (
	ErrQueueFull  = errors.New("notification queue is full")
	ErrPoolClosed = errors.New("notification pool is closed")
)

type JobHandler interface {
	Dispatch(ctx context.Context, job Job) bool
}

// WorkerPool is the in-process Queue. Enqueue never blocks: when the buffer is
// full the job is dropped and counted.
type WorkerPool struct {
	handler JobHandler
	jobs    chan Job
	workers int
	timeout time.Duration
	log     *logger.Logger

	mu      sync.RWMutex
	closed  bool
	started bool
	wg      sync.WaitGroup
}

func NewWorkerPool(handler JobHandler, workers, queueSize int, timeout time.Duration, log *logger.Logger) *WorkerPool {
	if workers <= 0 {
		workers = 1
	}
	if queueSize < 0 {
		queueSize = 0
	}
	return &WorkerPool{
		handler: handler,
		jobs:    make(chan Job, queueSize),
		workers: workers,
		timeout: timeout,
		log:     log.Component("notifications"),
	}
}

func (p *WorkerPool) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started || p.closed {
		return
	}
	p.started = true

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.run(i)
	}
	p.log.Info("Notification workers started", "workers", p.workers, "queue_size", cap(p.jobs))
}

func (p *WorkerPool) Enqueue(_ context.Context, job Job) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPoolClosed
	}

	select {
	case p.jobs <- job:
		return nil
	default:
		metrics.NotificationQueueDropped.Inc()
		p.log.Warn("Notification queue full, dropping job",
			"job_id", job.ID,
			"kind", job.Kind,
			"appointment_id", job.Appointment.ID,
		)
		return ErrQueueFull
	}
}

// Stop refuses new jobs and waits for queued ones to be delivered.
func (p *WorkerPool) Stop() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.jobs)
	started := p.started
	p.mu.Unlock()

	if !started {
		return
	}
	p.wg.Wait()
	p.log.Info("Notification workers stopped")
}

func (p *WorkerPool) run(worker int) {
	defer p.wg.Done()
	for job := range p.jobs {
		p.handle(worker, job)
	}
}

func (p *WorkerPool) handle(worker int, job Job) {
	ctx := context.Background()
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			p.log.Error("Notification worker panicked", "worker", worker, "job_id", job.ID, "panic", r)
		}
	}()

	if !p.handler.Dispatch(ctx, job) {
		p.log.Warn("Notification delivered partially or not at all",
			"worker", worker,
			"job_id", job.ID,
			"kind", job.Kind,
			"appointment_id", job.Appointment.ID,
		)
	}
}
