// Package worker runs analyses in parallel for batch mode. Each bundle
// is analyzed independently; per-request state is never shared.
package worker

import (
	"context"
	"sync"

	"github.com/greenveil/greenveil/internal/model"
)

// Job is one bundle to analyze
type Job struct {
	Path   string
	Bundle *model.ClaimBundle
}

// Result pairs a job with its report or error
type Result struct {
	Path   string
	Report *model.DeceptionReport
	Err    error
}

// AnalyzeFunc runs one analysis
type AnalyzeFunc func(ctx context.Context, bundle *model.ClaimBundle) (*model.DeceptionReport, error)

// Pool analyzes jobs with a fixed number of workers
type Pool struct {
	workers int
	analyze AnalyzeFunc
	limiter *Limiter
}

// NewPool creates a pool. A nil limiter disables rate limiting.
func NewPool(workers int, analyze AnalyzeFunc, limiter *Limiter) *Pool {
	if workers <= 0 {
		workers = 1
	}
	return &Pool{workers: workers, analyze: analyze, limiter: limiter}
}

// Run analyzes all jobs and returns results in job order. It stops
// early when the context is cancelled; unprocessed jobs report the
// context error.
func (p *Pool) Run(ctx context.Context, jobs []Job) []Result {
	results := make([]Result, len(jobs))
	jobCh := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < p.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobCh {
				results[idx] = p.runOne(ctx, jobs[idx])
			}
		}()
	}

	for i := range jobs {
		select {
		case <-ctx.Done():
			results[i] = Result{Path: jobs[i].Path, Err: ctx.Err()}
		case jobCh <- i:
		}
	}
	close(jobCh)
	wg.Wait()

	return results
}

func (p *Pool) runOne(ctx context.Context, job Job) Result {
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return Result{Path: job.Path, Err: err}
		}
	}
	report, err := p.analyze(ctx, job.Bundle)
	return Result{Path: job.Path, Report: report, Err: err}
}
