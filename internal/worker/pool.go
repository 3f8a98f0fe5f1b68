// Package worker implements the bounded worker pool used for the dataset
// build. Per-game feature assembly is independent once the rating replay has
// finished, so the work fans out across a fixed number of goroutines; callers
// address results by job index, which keeps output order deterministic no
// matter how the work is scheduled.
package worker

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

// Prometheus metrics
var (
	jobsCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "nbaml_worker_jobs_completed_total",
		Help: "Total number of jobs completed by the worker pool",
	})

	jobDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "nbaml_worker_job_duration_seconds",
		Help:    "Duration of individual pool jobs",
		Buckets: prometheus.DefBuckets,
	})
)

// Pool runs a fixed number of workers over an indexed batch of jobs.
type Pool struct {
	workers int
	logger  *zap.SugaredLogger
}

// NewPool creates a pool with the given worker count.
func NewPool(workers int, logger *zap.Logger) *Pool {
	if workers <= 0 {
		workers = 4
	}
	return &Pool{workers: workers, logger: logger.Sugar()}
}

// Run executes fn once for every index in [0, jobs). It blocks until all
// jobs finish or the context is canceled, in which case remaining jobs are
// abandoned and the context error is returned. fn must be safe for
// concurrent invocation across distinct indices.
func (p *Pool) Run(ctx context.Context, jobs int, fn func(ctx context.Context, index int)) error {
	if jobs == 0 {
		return nil
	}

	indices := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < p.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indices {
				start := time.Now()
				fn(ctx, i)
				jobDuration.Observe(time.Since(start).Seconds())
				jobsCompleted.Inc()
			}
		}()
	}

	var canceled bool
feed:
	for i := 0; i < jobs; i++ {
		// Checked before the send so an already-canceled context never
		// feeds a job.
		if ctx.Err() != nil {
			canceled = true
			break
		}
		select {
		case indices <- i:
		case <-ctx.Done():
			canceled = true
			break feed
		}
	}
	close(indices)
	wg.Wait()

	if canceled {
		p.logger.Warnw("Pool run canceled", "jobs", jobs)
		return ctx.Err()
	}
	return nil
}
