// Package tail follows the log of a remote job.
package tail

import (
	"context"
	"fmt"
	"time"

	"github.com/adamavenir/noci/internal/types"
)

// DefaultInterval is the pause between polls while following.
const DefaultInterval = time.Second

// Fetcher returns a job together with the log lines starting at offset start.
type Fetcher interface {
	FetchLog(ctx context.Context, key string, start int) (types.Job, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, key string, start int) (types.Job, error)

func (f FetcherFunc) FetchLog(ctx context.Context, key string, start int) (types.Job, error) {
	return f(ctx, key, start)
}

// Options selects what to tail.
type Options struct {
	Key    string
	Start  int
	Follow bool
}

// Result describes where a tail stopped.
type Result struct {
	// Job is the last snapshot received.
	Job types.Job
	// Cursor is the offset of the next unseen line. Passing it as Start
	// resumes without repeating or skipping lines.
	Cursor int
	Ticks  int
}

// Tailer polls a Fetcher and hands every new line to an emit callback.
type Tailer struct {
	fetcher  Fetcher
	interval time.Duration
	sleep    func(ctx context.Context, d time.Duration) error
}

// New creates a tailer. A non-positive interval uses DefaultInterval.
func New(fetcher Fetcher, interval time.Duration) *Tailer {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Tailer{fetcher: fetcher, interval: interval, sleep: sleepContext}
}

// Run fetches the log once, or until the job reports dead when following.
// A fetch or emit error aborts the tail immediately; the returned Result
// still reports the cursor reached so far.
func (t *Tailer) Run(ctx context.Context, opts Options, emit func(types.LogLine) error) (Result, error) {
	if opts.Key == "" {
		return Result{}, fmt.Errorf("no job key")
	}
	if opts.Start < 0 {
		return Result{}, fmt.Errorf("start must be >= 0, got %d", opts.Start)
	}

	res := Result{Cursor: opts.Start}
	for {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		job, err := t.fetcher.FetchLog(ctx, opts.Key, res.Cursor)
		if err != nil {
			return res, err
		}
		res.Job = job
		res.Ticks++

		for _, line := range job.Log {
			if emit != nil {
				if err := emit(line); err != nil {
					return res, err
				}
			}
			res.Cursor++
		}

		if !opts.Follow || job.Dead {
			return res, nil
		}

		if err := ctx.Err(); err != nil {
			return res, err
		}
		if err := t.sleep(ctx, t.interval); err != nil {
			return res, err
		}
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
