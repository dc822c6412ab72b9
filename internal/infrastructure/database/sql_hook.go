package database

import (
	"context"
	"time"

	"github.com/fatih/color"
)

type beginKey struct{}

// Hooks prints statements that take longer than Threshold.
type Hooks struct {
	Threshold time.Duration
}

func (h *Hooks) Before(ctx context.Context, query string, args ...interface{}) (context.Context, error) {
	return context.WithValue(ctx, beginKey{}, time.Now()), nil
}

func (h *Hooks) After(ctx context.Context, query string, args ...interface{}) (context.Context, error) {
	begin, ok := ctx.Value(beginKey{}).(time.Time)
	if !ok {
		return ctx, nil
	}
	if d := time.Since(begin); h.slow(d) {
		color.Red("%v slow  sql: %s %q .took: %s\n", time.Now().Format(time.RFC3339), query, args, d)
	}
	return ctx, nil
}

func (h *Hooks) slow(d time.Duration) bool {
	threshold := h.Threshold
	if threshold <= 0 {
		threshold = 500 * time.Millisecond
	}
	return d > threshold
}
