package score

import (
	"context"
	"errors"
	"math"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/cognicore/sentir/pkg/sentir/internalerr"
	"github.com/cognicore/sentir/pkg/sentir/lexicon"
)

func testLexicon() *lexicon.Lexicon {
	lex := lexicon.New()
	lex.AddWord("lucro", 0.6)
	lex.AddWord("queda", -0.5)
	lex.AddWord("excelente", 1.0)
	lex.AddIntensifier("muito", 1.5)
	lex.AddNegation("não")
	return lex
}

func TestLexiconScore(t *testing.T) {
	s := NewLexicon(testLexicon())
	ctx := context.Background()

	tests := []struct {
		name string
		text string
		want float64
	}{
		{"empty", "", 0},
		{"no polar words", "relatório trimestral consolidado", 0},
		{"positive", "lucro", 0.6},
		{"negative", "queda", -0.5},
		{"mean", "lucro queda", 0.05},
		{"case insensitive", "LUCRO", 0.6},
		{"intensified", "muito lucro", 0.9},
		{"intensified clamps", "muito excelente", 1.0},
		{"negated", "não lucro", -0.3},
		{"negated intensified", "não muito lucro", -0.45},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Score(ctx, tt.text)
			if err != nil {
				t.Fatalf("Score: %v", err)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Score(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestLexiconScoreStaysInRange(t *testing.T) {
	s := NewLexicon(nil)
	texts := []string{
		"excelente excelente muito ótimo recorde",
		"péssimo extremamente ruim crise não bom",
		"lucro cresceu mas dívida e risco aumentaram",
	}
	for _, text := range texts {
		p, err := s.Score(context.Background(), text)
		if err != nil {
			t.Fatalf("Score(%q): %v", text, err)
		}
		if err := CheckPolarity(p); err != nil {
			t.Errorf("Score(%q) out of range: %v", text, err)
		}
	}
}

func TestLexiconDeterministic(t *testing.T) {
	s := NewLexicon(nil)
	text := "lucro recorde com crescimento forte apesar da queda nas margens"
	first, _ := s.Score(context.Background(), text)
	for i := 0; i < 10; i++ {
		got, _ := s.Score(context.Background(), text)
		if got != first {
			t.Fatalf("run %d: got %v, want %v", i, got, first)
		}
	}
}

func TestCheckPolarity(t *testing.T) {
	for _, p := range []float64{-1, 0, 0.5, 1} {
		if err := CheckPolarity(p); err != nil {
			t.Errorf("CheckPolarity(%v): %v", p, err)
		}
	}
	for _, p := range []float64{-1.01, 1.5, math.NaN(), math.Inf(1)} {
		if err := CheckPolarity(p); !errors.Is(err, internalerr.ErrScoring) {
			t.Errorf("CheckPolarity(%v) = %v, want ErrScoring", p, err)
		}
	}
}

func TestTokenize(t *testing.T) {
	got := Tokenize("Lucro-líquido, não  muito_bom!")
	want := []string{"lucro", "líquido", "não", "muito", "bom"}
	if len(got) != len(want) {
		t.Fatalf("Tokenize = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestCachedScorer(t *testing.T) {
	var calls atomic.Int32
	inner := Func(func(ctx context.Context, text string) (float64, error) {
		calls.Add(1)
		if text == "fail" {
			return 0, errors.New("boom")
		}
		return 0.25, nil
	})

	c := NewCached(inner)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if p, err := c.Score(ctx, "same text"); err != nil || p != 0.25 {
				t.Errorf("Score = %v, %v", p, err)
			}
		}()
	}
	wg.Wait()

	if c.Len() != 1 {
		t.Errorf("cache size = %d, want 1", c.Len())
	}
	before := calls.Load()
	if _, err := c.Score(ctx, "same text"); err != nil {
		t.Fatal(err)
	}
	if calls.Load() != before {
		t.Error("cached text should not reach the inner scorer")
	}

	if _, err := c.Score(ctx, "fail"); err == nil {
		t.Error("expected inner error to propagate")
	}
	if c.Len() != 1 {
		t.Error("failed calls must not be cached")
	}
}
