package main

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cognicore/sentir/pkg/sentir/aggregate"
	"github.com/cognicore/sentir/pkg/sentir/config"
	"github.com/cognicore/sentir/pkg/sentir/internalerr"
	"github.com/cognicore/sentir/pkg/sentir/score"
)

// TestBuildScorerLexicon tests that the default backend is the lexicon scorer
func TestBuildScorerLexicon(t *testing.T) {
	comp, err := (&config.Loader{}).Load()
	if err != nil {
		t.Fatal(err)
	}
	s, cleanup, err := buildScorer(context.Background(), config.Default(), comp)
	if err != nil {
		t.Fatalf("buildScorer: %v", err)
	}
	defer cleanup()

	if _, ok := s.(*score.Lexicon); !ok {
		t.Fatalf("scorer = %T, want *score.Lexicon", s)
	}
	p, err := s.Score(context.Background(), "lucro recorde")
	if err != nil || p <= 0 {
		t.Errorf("Score = %v, %v", p, err)
	}
}

// TestBuildScorerLLMIsCached tests that remote backends are wrapped in a cache
func TestBuildScorerLLMIsCached(t *testing.T) {
	cfg := config.Default()
	cfg.Scorer = config.ScorerLLM
	cfg.LLMBaseURL = "http://127.0.0.1:1"
	cfg.LLMModel = "test"

	s, cleanup, err := buildScorer(context.Background(), cfg, &config.Components{})
	if err != nil {
		t.Fatalf("buildScorer: %v", err)
	}
	defer cleanup()
	if _, ok := s.(*score.Cached); !ok {
		t.Errorf("scorer = %T, want *score.Cached", s)
	}
}

// TestBuildScorerCloudNLBadCredentials tests that undecodable credentials fail early
func TestBuildScorerCloudNLBadCredentials(t *testing.T) {
	cfg := config.Default()
	cfg.Scorer = config.ScorerCloudNL
	cfg.NLCredentials = "not base64!"

	_, _, err := buildScorer(context.Background(), cfg, &config.Components{})
	if !errors.Is(err, internalerr.ErrInvalidConfig) {
		t.Errorf("err = %v, want ErrInvalidConfig", err)
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	err := writeFile(path, func(w io.Writer) error {
		_, err := w.Write([]byte("{}"))
		return err
	})
	if err != nil {
		t.Fatalf("writeFile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != "{}" {
		t.Errorf("file = %q, %v", data, err)
	}

	boom := errors.New("boom")
	if err := writeFile(path, func(io.Writer) error { return boom }); !errors.Is(err, boom) {
		t.Errorf("err = %v, want boom", err)
	}
}

func TestProgressObserverEmptyBatch(t *testing.T) {
	var out strings.Builder
	o := newProgressObserver(&out)
	o.Started(0)
	o.Completed(aggregate.Result{})
	o.Wait()
	if o.bar != nil {
		t.Error("no bar expected for an empty batch")
	}
}

func TestProgressObserverCountsDocuments(t *testing.T) {
	var out strings.Builder
	o := newProgressObserver(&out)
	o.Started(2)
	o.Completed(aggregate.Result{})
	o.tick()
	o.Wait()
	if got := o.bar.Current(); got != 2 {
		t.Errorf("bar = %d, want 2", got)
	}
}
