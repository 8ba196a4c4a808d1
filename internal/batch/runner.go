package batch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/quangtb/nextimg/internal/codec"
)

const (
	// MaxWorkers bounds the pool so very large batches cannot exhaust
	// file handles or memory.
	MaxWorkers = 32

	queueRatio = 3
)

// ConvertFunc re-encodes one image; codec.Converter.Convert satisfies it
type ConvertFunc func(r io.Reader, format codec.Format, opts codec.Options) ([]byte, error)

// Runner dispatches jobs across a bounded worker pool. Every submitted job
// yields exactly one result; per-job failures never abort sibling jobs.
type Runner struct {
	Workers  int
	Convert  ConvertFunc
	Logger   *slog.Logger
	OnResult func(Result) // optional progress hook, called from the collector only
}

// Run processes all jobs and returns one result per job, in completion
// order. Cancelling ctx fails the not-yet-started jobs instead of dropping
// them, so the one-result-per-job guarantee holds either way.
func (r *Runner) Run(ctx context.Context, jobs []Job, sink Sink) []Result {
	workers := r.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > MaxWorkers {
		workers = MaxWorkers
	}
	if workers > len(jobs) && len(jobs) > 0 {
		workers = len(jobs)
	}

	queueSize := workers * queueRatio
	if queueSize > len(jobs) {
		queueSize = len(jobs)
	}

	jobsChan := make(chan Job, queueSize)
	resultsChan := make(chan Result, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobsChan {
				resultsChan <- r.process(ctx, job, sink)
			}
		}()
	}

	go func() {
		for _, job := range jobs {
			jobsChan <- job
		}
		close(jobsChan)
		wg.Wait()
		close(resultsChan)
	}()

	// Single collector drains results, so aggregation and the OnResult
	// hook never run concurrently.
	results := make([]Result, 0, len(jobs))
	for res := range resultsChan {
		r.log(res)
		results = append(results, res)
		if r.OnResult != nil {
			r.OnResult(res)
		}
	}

	return results
}

func (r *Runner) process(ctx context.Context, job Job, sink Sink) (res Result) {
	res = Result{Job: job}

	// A panicking encoder must cost one job, not the batch.
	defer func() {
		if p := recover(); p != nil {
			res.Outcome = OutcomeFailed
			res.Err = fmt.Errorf("conversion panic: %v", p)
		}
	}()

	if err := ctx.Err(); err != nil {
		res.Outcome = OutcomeFailed
		res.Err = err
		return res
	}

	if !job.Overwrite && sink.Exists(job.Output) {
		res.Outcome = OutcomeSkipped
		res.Output = job.Output
		return res
	}

	reader, cleanup, err := r.open(job)
	if err != nil {
		res.Outcome = OutcomeFailed
		res.Err = err
		return res
	}
	defer cleanup()

	data, err := r.Convert(reader, job.Format, codec.Options{Quality: job.Quality, Speed: job.Speed})
	if err != nil {
		res.Outcome = OutcomeFailed
		res.Err = err
		return res
	}

	stored, err := sink.Store(job.Output, data)
	if err != nil {
		res.Outcome = OutcomeFailed
		res.Err = err
		return res
	}

	res.Outcome = OutcomeConverted
	res.Output = stored
	res.Size = int64(len(data))
	return res
}

func (r *Runner) open(job Job) (io.Reader, func(), error) {
	if job.Data != nil {
		return bytes.NewReader(job.Data), func() {}, nil
	}

	f, err := os.Open(job.Source)
	if err != nil {
		return nil, nil, fmt.Errorf("open source: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

func (r *Runner) log(res Result) {
	if r.Logger == nil {
		return
	}

	switch res.Outcome {
	case OutcomeConverted:
		r.Logger.Info("Converted",
			slog.String("source", res.Job.Source),
			slog.String("output", res.Output),
			slog.Int64("bytes", res.Size),
		)
	case OutcomeSkipped:
		r.Logger.Warn("Output exists, skipping",
			slog.String("output", res.Output),
		)
	case OutcomeFailed:
		r.Logger.Error("Conversion failed",
			slog.String("source", res.Job.Source),
			slog.String("error", res.Err.Error()),
		)
	}
}
