package lexicon

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/cognicore/sentir/pkg/sentir/internalerr"
)

func TestDefaultLexicon(t *testing.T) {
	lex := Default()

	if p, ok := lex.Polarity("lucro"); !ok || p <= 0 {
		t.Errorf("lucro should be positive, got %v (found=%v)", p, ok)
	}
	if p, ok := lex.Polarity("Prejuízo"); !ok || p >= 0 {
		t.Errorf("prejuízo should be negative (case-insensitive), got %v (found=%v)", p, ok)
	}
	if f, ok := lex.Intensity("muito"); !ok || f <= 1 {
		t.Errorf("muito should amplify, got %v", f)
	}
	if !lex.IsNegation("não") || !lex.IsNegation("NOT") {
		t.Error("expected não and not to be negations")
	}

	stats := lex.Stats()
	if stats.Words == 0 || stats.Intensifiers == 0 || stats.Negations == 0 {
		t.Errorf("default lexicon looks empty: %+v", stats)
	}
}

func TestLoadFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lexicon.yaml")
	content := `words:
  alta: 0.4
  Queda: -0.5
intensifiers:
  muito: 1.5
negations: [não]
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	lex, err := LoadFromYAML(path)
	if err != nil {
		t.Fatalf("LoadFromYAML: %v", err)
	}

	if p, ok := lex.Polarity("queda"); !ok || p != -0.5 {
		t.Errorf("queda = %v (found=%v), want -0.5", p, ok)
	}
	if _, ok := lex.Polarity("lucro"); ok {
		t.Error("lucro should not be present in a custom lexicon")
	}
	if got := lex.Stats(); got.Words != 2 || got.Intensifiers != 1 || got.Negations != 1 {
		t.Errorf("unexpected stats: %+v", got)
	}
}

func TestParseRejectsOutOfRange(t *testing.T) {
	cases := map[string]string{
		"polarity":  "words:\n  lucro: 1.5\n",
		"intensity": "intensifiers:\n  muito: 0\n",
		"malformed": "words: [",
	}
	for name, doc := range cases {
		if _, err := Parse([]byte(doc)); !errors.Is(err, internalerr.ErrInvalidConfig) {
			t.Errorf("%s: got %v, want ErrInvalidConfig", name, err)
		}
	}
}

func TestLoadFromYAMLMissing(t *testing.T) {
	if _, err := LoadFromYAML(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
