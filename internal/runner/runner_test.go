
package runner

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docsite-frame-checker/internal/checks"
	"docsite-frame-checker/internal/models"
)

func TestRunStatusesInOrder(t *testing.T) {
	var ran atomic.Int32
	list := []checks.Check{
		{Suite: "s", Name: "pass", Run: func(context.Context) error { ran.Add(1); return nil }},
		{Suite: "s", Name: "fail", Run: func(context.Context) error { ran.Add(1); return errors.New("nope") }},
		{Suite: "s", Name: "skip", Skip: "issue 1", Run: func(context.Context) error { ran.Add(1); return nil }},
		{Suite: "s", Name: "panic", Run: func(context.Context) error { panic("boom") }},
	}
	results := Run(context.Background(), list, Options{Concurrency: 2})

	require.Len(t, results, 4)
	assert.Equal(t, models.StatusPass, results[0].Status)
	assert.Equal(t, models.StatusFail, results[1].Status)
	assert.Equal(t, "nope", results[1].Error)
	assert.Equal(t, models.StatusSkip, results[2].Status)
	assert.Equal(t, "issue 1", results[2].SkipReason)
	assert.Equal(t, models.StatusFail, results[3].Status)
	assert.Contains(t, results[3].Error, "boom")
	assert.Equal(t, int32(2), ran.Load(), "skipped checks must not run")
}

func TestRunAppliesPerCheckTimeout(t *testing.T) {
	list := []checks.Check{{Name: "slow", Run: func(ctx context.Context) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(5 * time.Second):
			return nil
		}
	}}}
	results := Run(context.Background(), list, Options{Timeout: 20 * time.Millisecond})
	require.Len(t, results, 1)
	assert.Equal(t, models.StatusFail, results[0].Status)
	assert.Contains(t, results[0].Error, "deadline")
}

func TestRunBoundsConcurrency(t *testing.T) {
	var cur, peak atomic.Int32
	var list []checks.Check
	for i := 0; i < 12; i++ {
		list = append(list, checks.Check{Run: func(context.Context) error {
			n := cur.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			cur.Add(-1)
			return nil
		}})
	}
	Run(context.Background(), list, Options{Concurrency: 3})
	assert.LessOrEqual(t, peak.Load(), int32(3))
}

func TestRunFilterAndCancel(t *testing.T) {
	list := []checks.Check{
		{Lang: "ja", Run: func(context.Context) error { return nil }},
		{Lang: "pt", Run: func(context.Context) error { return nil }},
	}
	results := Run(context.Background(), list, Options{Filter: func(c checks.Check) bool { return c.Lang == "pt" }})
	require.Len(t, results, 1)
	assert.Equal(t, "pt", results[0].Lang)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	results = Run(ctx, list, Options{})
	for _, r := range results {
		assert.Equal(t, models.StatusFail, r.Status)
	}
}
