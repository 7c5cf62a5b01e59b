// Package worker implements the buffered worker pool that runs history
// reconciliation after predictions. This keeps the settle reads off the
// request path, providing:
// - Backpressure handling via load shedding
// - A per-job deadline so a slow scoring service cannot pin a worker
// - Graceful shutdown that drains queued jobs
package worker

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/mymatch/dashboard/internal/models"
)

// Prometheus metrics
var (
	jobsEnqueued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mymatch_reconcile_jobs_enqueued_total",
		Help: "Total number of reconcile jobs accepted by the pool",
	})

	jobsProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mymatch_reconcile_jobs_processed_total",
		Help: "Total number of reconcile jobs completed by workers",
	})

	jobsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mymatch_reconcile_jobs_failed_total",
		Help: "Total number of reconcile jobs that finished with an error",
	})

	queueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "mymatch_reconcile_queue_depth",
		Help: "Current depth of the reconcile queue",
	})

	jobDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "mymatch_reconcile_job_duration_seconds",
		Help:    "Duration of reconcile jobs, settle waits included",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 4, 8, 16},
	})

	jobsLoadShed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mymatch_reconcile_jobs_load_shed_total",
		Help: "Total number of reconcile jobs refused because the queue was full or stopped",
	})
)

// Reconciler performs one job. logic.Dashboard satisfies it.
type Reconciler interface {
	Reconcile(ctx context.Context, job models.ReconcileJob) error
}

// PoolConfig configures the worker pool
type PoolConfig struct {
	WorkerCount int
	QueueSize   int
	JobTimeout  time.Duration
	Reconciler  Reconciler
	Logger      *zap.Logger
}

// Pool manages a pool of workers for async reconciliation
type Pool struct {
	config   PoolConfig
	jobQueue chan models.ReconcileJob
	wg       sync.WaitGroup
	ctx      context.Context
	cancel   context.CancelFunc
	logger   *zap.SugaredLogger

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

// NewPool creates a new worker pool
func NewPool(cfg PoolConfig) *Pool {
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 256
	}
	if cfg.JobTimeout <= 0 {
		cfg.JobTimeout = 30 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return &Pool{
		config:   cfg,
		jobQueue: make(chan models.ReconcileJob, cfg.QueueSize),
		logger:   cfg.Logger.Sugar(),
		done:     make(chan struct{}),
	}
}

// Start launches the worker goroutines
func (p *Pool) Start(ctx context.Context) {
	p.ctx, p.cancel = context.WithCancel(ctx)

	for i := 0; i < p.config.WorkerCount; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}

	p.wg.Add(1)
	go p.reportQueueDepth()

	p.logger.Infow("Worker pool started",
		"workers", p.config.WorkerCount,
		"queueSize", p.config.QueueSize,
	)
}

// Stop refuses new jobs, lets the workers drain the queue and waits for them
func (p *Pool) Stop() {
	p.logger.Info("Stopping worker pool...")

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.jobQueue)
	close(p.done)
	p.mu.Unlock()

	p.wg.Wait()
	if p.cancel != nil {
		p.cancel()
	}
	p.logger.Info("Worker pool stopped")
}

// Enqueue adds a job without blocking. A full or stopped queue sheds the job
// and returns false so the caller can fall back to reconciling inline.
func (p *Pool) Enqueue(job models.ReconcileJob) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		jobsLoadShed.Inc()
		return false
	}

	select {
	case p.jobQueue <- job:
		jobsEnqueued.Inc()
		return true
	default:
		p.logger.Warnw("Reconcile queue full, shedding job", "session", job.SessionID, "seq", job.Seq)
		jobsLoadShed.Inc()
		return false
	}
}

// QueueDepth returns current queue size
func (p *Pool) QueueDepth() int {
	return len(p.jobQueue)
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()

	p.logger.Debugw("Worker started", "worker", id)

	for job := range p.jobQueue {
		p.process(id, job)
	}

	p.logger.Debugw("Job queue closed, worker exiting", "worker", id)
}

func (p *Pool) process(id int, job models.ReconcileJob) {
	ctx, cancel := context.WithTimeout(p.ctx, p.config.JobTimeout)
	defer cancel()

	start := time.Now()
	err := p.config.Reconciler.Reconcile(ctx, job)
	jobDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		jobsFailed.Inc()
		p.logger.Warnw("Reconcile job failed",
			"worker", id,
			"session", job.SessionID,
			"seq", job.Seq,
			"error", err,
		)
		return
	}
	jobsProcessed.Inc()
	p.logger.Debugw("Reconcile job done", "worker", id, "session", job.SessionID, "duration", time.Since(start))
}

func (p *Pool) reportQueueDepth() {
	defer p.wg.Done()

	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-p.done:
			return
		case <-p.ctx.Done():
			return
		case <-ticker.C:
			queueDepth.Set(float64(len(p.jobQueue)))
		}
	}
}
