package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/FungiProxy/QuoteTemplate-sub001/internal/config"
)

// ErrStopped is returned by Submit once the orchestrator has been stopped.
var ErrStopped = errors.New("pipeline stopped")

// OutputSweeper removes generated quotes older than a TTL.
type OutputSweeper interface {
	SweepOutputs(ttl time.Duration) (int, error)
}

// Orchestrator queues batch jobs and runs them on a fixed pool of workers.
type Orchestrator struct {
	jobs  *JobStore
	queue chan *Job
	gen   QuoteGenerator
	log   *slog.Logger
	cfg   config.Config

	mu      sync.Mutex // guards stopped and sends on queue
	stopped bool

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewOrchestrator creates the pipeline. Call Start before submitting jobs.
func NewOrchestrator(cfg config.Config, gen QuoteGenerator, log *slog.Logger) *Orchestrator {
	if log == nil {
		log = slog.Default()
	}
	return &Orchestrator{
		jobs:  NewJobStore(cfg.JobTTL),
		queue: make(chan *Job, cfg.MaxQueueSize),
		gen:   gen,
		log:   log,
		cfg:   cfg,
	}
}

// Start launches worker goroutines.
func (o *Orchestrator) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	for range o.cfg.WorkerCount {
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			w := NewWorker(o.gen, o.log, o.cfg.MaxConcurrentRender)
			for {
				select {
				case <-workerCtx.Done():
					return
				case job, ok := <-o.queue:
					if !ok {
						return
					}
					w.Process(workerCtx, job)
				}
			}
		}()
	}

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				o.cleanup()
			}
		}
	}()
}

// Stop gracefully shuts down the pipeline. It is safe to call more than once.
func (o *Orchestrator) Stop() {
	o.mu.Lock()
	if o.stopped {
		o.mu.Unlock()
		return
	}
	o.stopped = true
	if o.cancel != nil {
		o.cancel()
	}
	close(o.queue)
	o.mu.Unlock()
	o.wg.Wait()
}

// Submit queues a new job for processing.
func (o *Orchestrator) Submit(job *Job) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.stopped {
		job.SetStatus(StatusFailed, "shutting_down")
		return ErrStopped
	}
	o.jobs.Put(job)
	select {
	case o.queue <- job:
		return nil
	default:
		job.SetStatus(StatusFailed, "queue_full")
		return fmt.Errorf("job queue is full (%d)", o.cfg.MaxQueueSize)
	}
}

// cleanup drops expired jobs and, when the generator supports it, the quote
// files they pointed at.
func (o *Orchestrator) cleanup() {
	o.jobs.Cleanup()
	sweeper, ok := o.gen.(OutputSweeper)
	if !ok || o.cfg.OutputTTL <= 0 {
		return
	}
	n, err := sweeper.SweepOutputs(o.cfg.OutputTTL)
	if err != nil {
		o.log.Warn("output sweep failed", "error", err)
		return
	}
	if n > 0 {
		o.log.Info("removed expired quotes", "count", n)
	}
}

// GetJob returns a job by ID.
func (o *Orchestrator) GetJob(id string) *Job {
	return o.jobs.Get(id)
}

// QueueDepth returns current queue depth.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}
