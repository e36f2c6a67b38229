
// Package runner executes checks with bounded concurrency and collects results.
package runner

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"docsite-frame-checker/internal/checks"
	"docsite-frame-checker/internal/models"
	"docsite-frame-checker/pkg/logger"
)

const (
	DefaultConcurrency = 10
	DefaultTimeout     = 60 * time.Second
)

type Options struct {
	Concurrency int
	// Timeout bounds each check, not the whole run.
	Timeout time.Duration
	Logger  *logger.Logger
	// Filter, when set, drops checks it returns false for.
	Filter func(checks.Check) bool
}

// Run executes every check and returns results in input order. A check that
// fails never stops the others; only ctx cancellation cuts the run short, and
// checks not yet started then report the context error.
func Run(ctx context.Context, list []checks.Check, opts Options) []models.Result {
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Logger == nil {
		opts.Logger = logger.Discard()
	}

	selected := list
	if opts.Filter != nil {
		selected = selected[:0:0]
		for _, c := range list {
			if opts.Filter(c) {
				selected = append(selected, c)
			}
		}
	}

	results := make([]models.Result, len(selected))
	g := new(errgroup.Group)
	g.SetLimit(opts.Concurrency)
	for i, c := range selected {
		g.Go(func() error {
			results[i] = runOne(ctx, c, opts)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func runOne(ctx context.Context, c checks.Check, opts Options) (res models.Result) {
	res = models.Result{Suite: c.Suite, Name: c.Name, Lang: c.Lang, Version: c.Version}
	log := opts.Logger.With("suite", c.Suite, "lang", c.Lang)

	if c.Skip != "" {
		res.Status = models.StatusSkip
		res.SkipReason = c.Skip
		log.Debugf("skip %s (%s)", c.Name, c.Skip)
		return res
	}
	if err := ctx.Err(); err != nil {
		res.Status = models.StatusFail
		res.Error = err.Error()
		return res
	}

	start := time.Now()
	cctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()
	defer func() {
		if p := recover(); p != nil {
			res.Status = models.StatusFail
			res.Error = fmt.Sprintf("panic: %v", p)
			res.DurationMs = time.Since(start).Milliseconds()
			log.Errorf("%s panicked: %v", c.Name, p)
		}
	}()

	err := c.Run(cctx)
	res.DurationMs = time.Since(start).Milliseconds()
	if err != nil {
		res.Status = models.StatusFail
		res.Error = err.Error()
		log.Errorf("FAIL %s: %v", c.Name, err)
		return res
	}
	res.Status = models.StatusPass
	log.Debugf("ok %s (%dms)", c.Name, res.DurationMs)
	return res
}
