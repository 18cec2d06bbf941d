package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/cognicore/sentir/pkg/sentir/internalerr"
)

func TestLoaderDefaults(t *testing.T) {
	comp, err := (&Loader{}).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if comp.Normalizer == nil || comp.Lexicon == nil {
		t.Fatal("expected default components")
	}
	if got := comp.Normalizer.Normalize("R$ 10"); got != "real" {
		t.Errorf("Normalize = %q", got)
	}
}

func TestLoaderFromFiles(t *testing.T) {
	dir := t.TempDir()
	subs := filepath.Join(dir, "subs.yaml")
	lex := filepath.Join(dir, "lex.yaml")
	if err := os.WriteFile(subs, []byte("substitutions:\n  - pattern: \"PL\"\n    replacement: \"patrimônio \"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(lex, []byte("words:\n  alta: 0.5\n"), 0644); err != nil {
		t.Fatal(err)
	}

	comp, err := Config{SubstitutionsPath: subs, LexiconPath: lex}.Loader().Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := comp.Normalizer.Normalize("PL alto"); got != "patrimônio alto" {
		t.Errorf("Normalize = %q", got)
	}
	if p, ok := comp.Lexicon.Polarity("alta"); !ok || p != 0.5 {
		t.Errorf("Polarity(alta) = %v, %v", p, ok)
	}
	if st := comp.Lexicon.Stats(); st.Words != 1 {
		t.Errorf("Stats = %+v", st)
	}
}

func TestLoaderErrors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("words: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []Loader{
		{SubstitutionsPath: filepath.Join(dir, "missing.yaml")},
		{LexiconPath: filepath.Join(dir, "missing.yaml")},
		{LexiconPath: bad},
		{SubstitutionsPath: bad},
	}
	for _, l := range tests {
		if _, err := l.Load(); !errors.Is(err, internalerr.ErrInvalidConfig) {
			t.Errorf("Load(%+v) err = %v, want ErrInvalidConfig", l, err)
		}
	}
}
