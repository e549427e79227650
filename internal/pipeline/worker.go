package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/FungiProxy/QuoteTemplate-sub001/internal/generator"
)

// QuoteGenerator renders a single quote.
type QuoteGenerator interface {
	Generate(req generator.Request) (*generator.Report, error)
}

// Worker processes a single batch job.
type Worker struct {
	gen           QuoteGenerator
	log           *slog.Logger
	maxConcurrent int
	backoff       func(attempt int) time.Duration
}

func NewWorker(gen QuoteGenerator, log *slog.Logger, maxConcurrent int) *Worker {
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	return &Worker{
		gen:           gen,
		log:           log,
		maxConcurrent: maxConcurrent,
		backoff:       Backoff,
	}
}

// Process renders every request of a job with bounded concurrency.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID)
	reqs := job.Requests()
	job.SetStatus(StatusGenerating, "generating")
	log.Info("batch started", "requests", len(reqs))

	type reqResult struct {
		res Result
		err error
	}
	results := make(chan reqResult, len(reqs))
	sem := make(chan struct{}, w.maxConcurrent)

	for i, req := range reqs {
		sem <- struct{}{}
		go func(i int, req generator.Request) {
			defer func() { <-sem }()
			var rep *generator.Report
			var lastErr error
			for attempt := range MaxRetries {
				rep, lastErr = w.gen.Generate(req)
				if lastErr == nil || !IsRetryable(lastErr) {
					break
				}
				log.Warn("retryable generation error", "request", i, "attempt", attempt, "error", lastErr)
				select {
				case <-time.After(w.backoff(attempt)):
				case <-ctx.Done():
					results <- reqResult{res: Result{Index: i}, err: ctx.Err()}
					return
				}
			}
			results <- reqResult{res: Result{Index: i, Report: rep}, err: lastErr}
		}(i, req)
	}

	failed := 0
	for range reqs {
		r := <-results
		if r.err != nil {
			failed++
			log.Error("generation failed", "request", r.res.Index, "error", r.err)
			r.res.Report = nil
			r.res.Error = r.err.Error()
			if k := generator.KindOf(r.err); k != 0 {
				r.res.Kind = k.String()
			}
			job.AddError(fmt.Sprintf("request %d: %s", r.res.Index, r.err))
		}
		job.SetResult(r.res)
	}

	log.Info("batch complete", "requests", len(reqs), "failed", failed)
	switch {
	case failed == 0:
		job.SetStatus(StatusCompleted, "done")
	case failed < len(reqs):
		job.SetStatus(StatusPartial, "done")
	default:
		job.SetStatus(StatusFailed, "generating")
	}
}
