package metrics

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

type stubGenerator struct {
	err error
}

func (s *stubGenerator) Generate(ctx context.Context, prompt, systemPrompt string) (string, error) {
	return "ok", s.err
}

func TestGeneratorRecordsCalls(t *testing.T) {
	agg := NewAggregator()
	g := NewGenerator(&stubGenerator{}, agg)

	for i := 0; i < 3; i++ {
		if _, err := g.Generate(context.Background(), "p", ""); err != nil {
			t.Fatalf("generate: %v", err)
		}
	}

	calls, failures, total, slowest := agg.Snapshot()
	if calls != 3 || failures != 0 {
		t.Fatalf("unexpected counts: calls=%d failures=%d", calls, failures)
	}
	if total < 0 || slowest < 0 {
		t.Fatalf("negative durations: total=%v slowest=%v", total, slowest)
	}
}

func TestGeneratorRecordsFailures(t *testing.T) {
	agg := NewAggregator()
	g := NewGenerator(&stubGenerator{err: errors.New("boom")}, agg)

	if _, err := g.Generate(context.Background(), "p", ""); err == nil {
		t.Fatal("expected error passthrough")
	}

	_, failures, _, _ := agg.Snapshot()
	if failures != 1 {
		t.Fatalf("expected 1 failure, got %d", failures)
	}
}

func TestSummaryEmpty(t *testing.T) {
	if got := NewAggregator().Summary(); got != "llm calls: 0" {
		t.Fatalf("unexpected empty summary %q", got)
	}
}

func TestSummaryFormat(t *testing.T) {
	agg := NewAggregator()
	agg.Record(2*time.Second, false)
	agg.Record(4*time.Second, true)

	got := agg.Summary()
	if !strings.Contains(got, "llm calls: 2 (1 failed)") {
		t.Fatalf("unexpected summary %q", got)
	}
	if !strings.Contains(got, "slowest 4.0s") {
		t.Fatalf("unexpected summary %q", got)
	}
}
