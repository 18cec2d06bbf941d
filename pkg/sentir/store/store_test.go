package store

import (
	"testing"
	"time"
)

func TestRunSummary(t *testing.T) {
	now := time.Now()
	r := Run{
		ID:        "run-1",
		StartedAt: now,
		Documents: 4,
		Results:   []Result{{Filename: "a"}, {Filename: "b"}},
		Failures:  []Failure{{Filename: "c"}},
	}
	got := r.Summary()
	want := RunSummary{ID: "run-1", StartedAt: now, Documents: 4, Analyzed: 2, Failed: 1}
	if got != want {
		t.Errorf("Summary = %+v, want %+v", got, want)
	}
}
