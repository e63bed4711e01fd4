// internal/metrics/metrics.go
// Package metrics records generation-call counts and latencies for a single
// pipeline run. The aggregator is an explicit instance owned by whoever
// composes the pipeline, not a process-wide singleton.
package metrics

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Aggregator accumulates per-run gateway call statistics.
type Aggregator struct {
	mu        sync.Mutex
	calls     int
	failures  int
	totalTime time.Duration
	slowest   time.Duration
}

// NewAggregator creates an empty Aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// Record adds one finished gateway call.
func (a *Aggregator) Record(elapsed time.Duration, failed bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls++
	if failed {
		a.failures++
	}
	a.totalTime += elapsed
	if elapsed > a.slowest {
		a.slowest = elapsed
	}
}

// Snapshot returns the accumulated statistics.
func (a *Aggregator) Snapshot() (calls, failures int, total, slowest time.Duration) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.calls, a.failures, a.totalTime, a.slowest
}

// Summary renders a one-line human-readable report.
func (a *Aggregator) Summary() string {
	calls, failures, total, slowest := a.Snapshot()
	if calls == 0 {
		return "llm calls: 0"
	}
	avg := total / time.Duration(calls)
	return fmt.Sprintf("llm calls: %d (%d failed), total %.1fs, avg %.1fs, slowest %.1fs",
		calls, failures, total.Seconds(), avg.Seconds(), slowest.Seconds())
}

// generator matches the gateway surface the pipeline consumes.
type generator interface {
	Generate(ctx context.Context, prompt, systemPrompt string) (string, error)
}

// Generator is a decorator that wraps a gateway to record call metrics.
type Generator struct {
	wrapped    generator
	aggregator *Aggregator
}

// NewGenerator wraps a gateway with metrics collection.
func NewGenerator(wrapped generator, aggregator *Aggregator) *Generator {
	return &Generator{wrapped: wrapped, aggregator: aggregator}
}

// Generate times the wrapped call and records its outcome.
func (g *Generator) Generate(ctx context.Context, prompt, systemPrompt string) (string, error) {
	start := time.Now()
	out, err := g.wrapped.Generate(ctx, prompt, systemPrompt)
	if g.aggregator != nil {
		g.aggregator.Record(time.Since(start), err != nil)
	}
	return out, err
}
