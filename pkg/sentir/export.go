package sentir

import (
	"context"
	"fmt"

	"github.com/cognicore/sentir/pkg/sentir/store"
)

// Record converts a report into its stored form.
func (a *Analyzer) Record(rep Report) store.Run {
	run := store.Run{
		ID:                rep.RunID,
		StartedAt:         rep.StartedAt,
		Elapsed:           rep.Elapsed,
		Folder:            a.cfg.Folder,
		Workers:           a.cfg.MaxWorkers,
		NegativeThreshold: a.cfg.Thresholds.Negative,
		PositiveThreshold: a.cfg.Thresholds.Positive,
		Documents:         rep.Documents,
	}
	for _, r := range rep.Results.All() {
		run.Results = append(run.Results, store.Result{
			Filename: r.Filename,
			Path:     r.Path,
			Polarity: r.Polarity,
			Category: r.Category.String(),
		})
	}
	for _, f := range rep.Failures {
		sf := store.Failure{Filename: f.Filename, Path: f.Path, Stage: string(f.Stage)}
		if f.Err != nil {
			sf.Error = f.Err.Error()
		}
		run.Failures = append(run.Failures, sf)
	}
	return run
}

// Export writes a finished report to st.
func (a *Analyzer) Export(ctx context.Context, st store.Store, rep Report) error {
	if err := st.SaveRun(ctx, a.Record(rep)); err != nil {
		return fmt.Errorf("export run %s: %w", rep.RunID, err)
	}
	return nil
}
