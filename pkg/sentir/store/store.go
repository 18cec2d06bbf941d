package store

import (
	"context"
	"time"
)

// Store is the export sink for finished runs. Runs are written once after
// they complete; nothing read back from a Store feeds a later analysis.
type Store interface {
	Close() error

	SaveRun(ctx context.Context, r Run) error
	GetRun(ctx context.Context, id string) (Run, error)
	ListRuns(ctx context.Context, limit int) ([]RunSummary, error)
}

// Run is the stored form of one analysis run
type Run struct {
	ID                string
	StartedAt         time.Time
	Elapsed           time.Duration
	Folder            string
	Workers           int
	NegativeThreshold float64
	PositiveThreshold float64
	Documents         int
	Results           []Result
	Failures          []Failure
}

// Result is one classified document
type Result struct {
	Filename string
	Path     string
	Polarity float64
	Category string // Positive, Neutral or Negative
}

// Failure is one document that produced no result
type Failure struct {
	Filename string
	Path     string
	Stage    string
	Error    string
}

// RunSummary is the row listing of a run
type RunSummary struct {
	ID        string
	StartedAt time.Time
	Documents int
	Analyzed  int
	Failed    int
}

// Summary returns the listing row of r.
func (r Run) Summary() RunSummary {
	return RunSummary{
		ID:        r.ID,
		StartedAt: r.StartedAt,
		Documents: r.Documents,
		Analyzed:  len(r.Results),
		Failed:    len(r.Failures),
	}
}
