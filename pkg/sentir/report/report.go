// Package report renders a finished run for people and for machines.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/cognicore/sentir/pkg/sentir"
	"github.com/cognicore/sentir/pkg/sentir/aggregate"
	"github.com/cognicore/sentir/pkg/sentir/classify"
)

// WriteText prints the results grouped by category, then the failures, then
// the elapsed time.
func WriteText(w io.Writer, rep sentir.Report) error {
	ew := &errWriter{w: w}

	ew.printf("Run %s: %d documents, %d analyzed, %d failed\n",
		rep.RunID, rep.Documents, rep.Results.Len(), len(rep.Failures))

	for _, c := range classify.All {
		results := rep.Results.Get(c)
		ew.printf("\n%s (%d)\n", c, len(results))
		if len(results) == 0 {
			ew.printf("  (none)\n")
			continue
		}
		tw := tabwriter.NewWriter(ew, 0, 0, 2, ' ', 0)
		for _, r := range results {
			fmt.Fprintf(tw, "  %s\t%+.4f\t%s\n", r.Filename, r.Polarity, r.Category)
		}
		if err := tw.Flush(); err != nil && ew.err == nil {
			ew.err = err
		}
		if st, ok := rep.Stats[c]; ok && st.Count > 0 {
			ew.printf("  mean %+.4f  min %+.4f  max %+.4f\n", st.Mean, st.Min, st.Max)
		}
	}

	ew.printf("\nFailures (%d)\n", len(rep.Failures))
	for _, f := range rep.Failures {
		ew.printf("  %s [%s]: %v\n", f.Filename, f.Stage, f.Err)
	}

	ew.printf("\nElapsed: %s\n", rep.Elapsed.Round(time.Millisecond))
	return ew.err
}

type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	e.err = err
	return n, err
}

func (e *errWriter) printf(format string, args ...any) {
	fmt.Fprintf(e, format, args...)
}

type jsonFailure struct {
	Filename string `json:"filename"`
	Path     string `json:"path"`
	Stage    string `json:"stage"`
	Error    string `json:"error"`
}

type jsonReport struct {
	RunID          string                                        `json:"run_id"`
	StartedAt      time.Time                                     `json:"started_at"`
	ElapsedSeconds float64                                       `json:"elapsed_seconds"`
	Documents      int                                           `json:"documents"`
	Results        aggregate.ResultSet                           `json:"results"`
	Stats          map[classify.Category]aggregate.CategoryStats `json:"stats"`
	Failures       []jsonFailure                                 `json:"failures"`
}

// WriteJSON encodes the report as indented JSON.
func WriteJSON(w io.Writer, rep sentir.Report) error {
	out := jsonReport{
		RunID:          rep.RunID,
		StartedAt:      rep.StartedAt.UTC(),
		ElapsedSeconds: rep.Elapsed.Seconds(),
		Documents:      rep.Documents,
		Results:        rep.Results,
		Stats:          rep.Stats,
		Failures:       make([]jsonFailure, 0, len(rep.Failures)),
	}
	if out.Results == nil {
		out.Results = aggregate.NewResultSet()
	}
	for _, f := range rep.Failures {
		jf := jsonFailure{Filename: f.Filename, Path: f.Path, Stage: string(f.Stage)}
		if f.Err != nil {
			jf.Error = f.Err.Error()
		}
		out.Failures = append(out.Failures, jf)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
