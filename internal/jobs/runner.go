package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// RunnerConfig holds configuration for the job runner.
type RunnerConfig struct {
	// WorkerCount determines how many concurrent workers process jobs
	WorkerCount int

	// QueueSize determines the buffer size for the in-memory job queue
	QueueSize int
}

// DefaultRunnerConfig returns a RunnerConfig with reasonable defaults.
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		WorkerCount: 2,
		QueueSize:   100,
	}
}

// Runner manages background job processing: a bounded queue drained by a
// fixed pool of worker goroutines. Jobs are fire-and-forget; a failed job is
// logged and dropped, never retried.
type Runner struct {
	jobChan chan Job
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	config  RunnerConfig
	logger  *slog.Logger

	mu     sync.Mutex
	closed bool
}

// NewRunner creates a new Runner. If logger is nil, the default logger is used.
func NewRunner(config RunnerConfig, logger *slog.Logger) *Runner {
	if config.WorkerCount <= 0 {
		config.WorkerCount = DefaultRunnerConfig().WorkerCount
	}
	if config.QueueSize <= 0 {
		config.QueueSize = DefaultRunnerConfig().QueueSize
	}
	if logger == nil {
		logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Runner{
		jobChan: make(chan Job, config.QueueSize),
		ctx:     ctx,
		cancel:  cancel,
		config:  config,
		logger:  logger.With(slog.String("component", "job_runner")),
	}
}

// Submit adds a job to the queue without blocking. Returns an error when the
// queue is full or the runner has been stopped; callers treat both as a lost
// best-effort job.
func (r *Runner) Submit(job Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return fmt.Errorf("job runner is stopped")
	}

	select {
	case r.jobChan <- job:
		return nil
	default:
		return fmt.Errorf("job queue is full")
	}
}

// Start launches the worker pool.
func (r *Runner) Start() {
	for i := 0; i < r.config.WorkerCount; i++ {
		r.wg.Add(1)
		go r.worker(i)
	}

	r.logger.Info("job runner started",
		"worker_count", r.config.WorkerCount,
		"queue_size", r.config.QueueSize)
}

// Stop shuts the runner down gracefully: no further submissions are
// accepted, queued jobs are drained, and in-flight jobs run to completion.
func (r *Runner) Stop() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	close(r.jobChan)
	r.mu.Unlock()

	r.wg.Wait()
	r.cancel()

	r.logger.Info("job runner stopped")
}

func (r *Runner) worker(id int) {
	defer r.wg.Done()

	log := r.logger.With(slog.Int("worker_id", id))

	for job := range r.jobChan {
		log.Debug("executing job",
			"job_id", job.ID(),
			"job_type", job.Type())

		if err := job.Execute(r.ctx); err != nil {
			log.Error("job execution failed",
				"job_id", job.ID(),
				"job_type", job.Type(),
				"error", err)
			continue
		}

		log.Debug("job completed",
			"job_id", job.ID(),
			"job_type", job.Type())
	}
}
