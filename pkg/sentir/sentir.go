package sentir

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/cognicore/sentir/pkg/sentir/aggregate"
	"github.com/cognicore/sentir/pkg/sentir/classify"
	"github.com/cognicore/sentir/pkg/sentir/config"
	"github.com/cognicore/sentir/pkg/sentir/enumerate"
	"github.com/cognicore/sentir/pkg/sentir/extract"
	"github.com/cognicore/sentir/pkg/sentir/internalerr"
	"github.com/cognicore/sentir/pkg/sentir/normalize"
	"github.com/cognicore/sentir/pkg/sentir/pool"
	"github.com/cognicore/sentir/pkg/sentir/score"
)

// Analyzer is the batch sentiment engine facade
type Analyzer struct {
	cfg        config.Config
	extractor  extract.Extractor
	normalizer *normalize.Normalizer
	scorer     score.Scorer
	observer   Observer

	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// Options configures an Analyzer. Nil components fall back to the defaults:
// extract.DefaultRegistry, normalize.Default and the lexicon scorer.
type Options struct {
	Config     config.Config
	Extractor  extract.Extractor
	Normalizer *normalize.Normalizer
	Scorer     score.Scorer
	Observer   Observer
}

// New creates an Analyzer with the given dependencies
func New(opts Options) *Analyzer {
	a := &Analyzer{
		cfg:        opts.Config,
		extractor:  opts.Extractor,
		normalizer: opts.Normalizer,
		scorer:     opts.Scorer,
		observer:   opts.Observer,
		entropy:    ulid.Monotonic(rand.Reader, 0),
	}
	if a.extractor == nil {
		a.extractor = extract.DefaultRegistry()
	}
	if a.normalizer == nil {
		a.normalizer = normalize.Default()
	}
	if a.scorer == nil {
		a.scorer = score.NewLexicon(nil)
	}
	if a.observer == nil {
		a.observer = nopObserver{}
	}
	return a
}

// Stage names the pipeline step a document failed in.
type Stage string

const (
	StageExtract Stage = "extract"
	StageScore   Stage = "score"
)

// Failure records a document that produced no result.
type Failure struct {
	Filename string
	Path     string
	Stage    Stage
	Err      error
}

func (f Failure) Error() string {
	return fmt.Sprintf("%s: %s: %v", f.Filename, f.Stage, f.Err)
}

func (f Failure) Unwrap() error { return f.Err }

// Report is the outcome of one Run.
type Report struct {
	RunID     string
	StartedAt time.Time
	Elapsed   time.Duration
	Documents int
	Results   aggregate.ResultSet
	Stats     map[classify.Category]aggregate.CategoryStats
	Failures  []Failure
}

// Observer receives progress events of a Run. All calls come from the
// goroutine that called Run, in completion order.
type Observer interface {
	Started(total int)
	Completed(r aggregate.Result)
	Failed(f Failure)
}

type nopObserver struct{}

func (nopObserver) Started(int)                {}
func (nopObserver) Completed(aggregate.Result) {}
func (nopObserver) Failed(Failure)             {}

// Run analyzes every matching document of the configured folder once.
//
// Only configuration and enumeration errors abort the run. Documents that
// cannot be extracted or scored are returned in Report.Failures and every
// other document still gets a result.
func (a *Analyzer) Run(ctx context.Context) (Report, error) {
	started := time.Now()

	var supports func(string) bool
	if r, ok := a.extractor.(interface{ Supports(ext string) bool }); ok {
		supports = r.Supports
	}
	if err := a.cfg.ValidateFor(supports); err != nil {
		return Report{}, err
	}
	paths, err := enumerate.List(a.cfg.Folder, a.cfg.Extensions)
	if err != nil {
		return Report{}, err
	}

	rep := Report{
		RunID:     a.newRunID(started),
		StartedAt: started,
		Documents: len(paths),
	}
	agg := aggregate.New()
	a.observer.Started(len(paths))

	// stages[i] is written only by the worker running task i and read only
	// after its completion has been received.
	stages := make([]Stage, len(paths))
	tasks := make([]pool.Task[aggregate.Result], len(paths))
	for i, path := range paths {
		tasks[i] = func(ctx context.Context) (aggregate.Result, error) {
			return a.process(ctx, path, &stages[i])
		}
	}

	for c := range pool.Run(ctx, a.cfg.MaxWorkers, tasks) {
		if c.Err != nil {
			f := newFailure(paths[c.Index], stages[c.Index], c.Err)
			rep.Failures = append(rep.Failures, f)
			a.observer.Failed(f)
			continue
		}
		agg.Add(c.Value)
		a.observer.Completed(c.Value)
	}

	sort.Slice(rep.Failures, func(i, j int) bool {
		return rep.Failures[i].Path < rep.Failures[j].Path
	})
	rep.Results = agg.ResultSet()
	rep.Stats = agg.Stats()
	rep.Elapsed = time.Since(started)
	return rep, nil
}

// Process runs the per-document pipeline on one file: extract, normalize,
// score and classify. A returned error is a Failure.
func (a *Analyzer) Process(ctx context.Context, path string) (aggregate.Result, error) {
	var stage Stage
	r, err := a.process(ctx, path, &stage)
	if err != nil {
		return aggregate.Result{}, newFailure(path, stage, err)
	}
	return r, nil
}

func (a *Analyzer) process(ctx context.Context, path string, stage *Stage) (aggregate.Result, error) {
	*stage = StageExtract
	doc, err := a.extractor.Extract(ctx, path)
	if err != nil {
		return aggregate.Result{}, err
	}

	text := a.normalizer.Normalize(doc.Text())

	*stage = StageScore
	p, err := a.scorer.Score(ctx, text)
	if err != nil {
		if !errors.Is(err, internalerr.ErrScoring) {
			err = fmt.Errorf("%w: %w", internalerr.ErrScoring, err)
		}
		return aggregate.Result{}, err
	}
	if err := score.CheckPolarity(p); err != nil {
		return aggregate.Result{}, err
	}

	return aggregate.Result{
		Filename: filepath.Base(path),
		Path:     path,
		Polarity: p,
		Category: classify.Classify(p, a.cfg.Thresholds),
	}, nil
}

func (a *Analyzer) newRunID(t time.Time) string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(t), a.entropy).String()
}

func newFailure(path string, stage Stage, err error) Failure {
	if stage == "" {
		stage = StageExtract
	}
	return Failure{
		Filename: filepath.Base(path),
		Path:     path,
		Stage:    stage,
		Err:      err,
	}
}
