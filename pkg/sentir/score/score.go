// Package score defines the polarity scoring contract and the local lexicon scorer.
package score

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"
	"unicode"

	"github.com/cognicore/sentir/pkg/sentir/internalerr"
	"github.com/cognicore/sentir/pkg/sentir/lexicon"
)

// Scorer returns a polarity in [-1, 1] for normalized text.
//
// Implementations must be deterministic for identical input within a run and must
// return 0 without error for empty input.
type Scorer interface {
	Score(ctx context.Context, text string) (float64, error)
}

// Func adapts a plain function to Scorer.
type Func func(ctx context.Context, text string) (float64, error)

// Score implements Scorer.
func (f Func) Score(ctx context.Context, text string) (float64, error) {
	return f(ctx, text)
}

// CheckPolarity rejects NaN and values outside [-1, 1].
func CheckPolarity(p float64) error {
	if math.IsNaN(p) || p < -1 || p > 1 {
		return fmt.Errorf("%w: polarity %v outside [-1, 1]", internalerr.ErrScoring, p)
	}
	return nil
}

// negationFactor is applied to a polar word preceded by a negation.
const negationFactor = -0.5

// Lexicon scores text as the mean polarity of the lexicon words it contains.
// An intensifier right before a polar word scales it; a negation before the word
// (or before its intensifier) flips and dampens it.
type Lexicon struct {
	lex *lexicon.Lexicon
}

// NewLexicon creates a lexicon scorer. A nil lexicon uses lexicon.Default().
func NewLexicon(lex *lexicon.Lexicon) *Lexicon {
	if lex == nil {
		lex = lexicon.Default()
	}
	return &Lexicon{lex: lex}
}

// Score implements Scorer.
func (s *Lexicon) Score(ctx context.Context, text string) (float64, error) {
	tokens := Tokenize(text)

	var sum float64
	matched := 0
	for i, tok := range tokens {
		p, ok := s.lex.Polarity(tok)
		if !ok {
			continue
		}

		j := i - 1
		if j >= 0 {
			if f, ok := s.lex.Intensity(tokens[j]); ok {
				p *= f
				j--
			}
		}
		if j >= 0 && s.lex.IsNegation(tokens[j]) {
			p *= negationFactor
		}

		sum += clamp(p)
		matched++
	}

	if matched == 0 {
		return 0, nil
	}
	return clamp(sum / float64(matched)), nil
}

// Tokenize splits text into lowercase words of letters and digits.
func Tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

func clamp(p float64) float64 {
	return math.Max(-1, math.Min(1, p))
}

// Cached memoizes another scorer by input text. Safe for concurrent use.
// Failed calls are not cached.
type Cached struct {
	next Scorer

	mu    sync.RWMutex
	cache map[string]float64
}

// NewCached wraps next.
func NewCached(next Scorer) *Cached {
	return &Cached{next: next, cache: make(map[string]float64)}
}

// Score implements Scorer.
func (c *Cached) Score(ctx context.Context, text string) (float64, error) {
	c.mu.RLock()
	p, ok := c.cache[text]
	c.mu.RUnlock()
	if ok {
		return p, nil
	}

	p, err := c.next.Score(ctx, text)
	if err != nil {
		return 0, err
	}

	c.mu.Lock()
	if prev, ok := c.cache[text]; ok {
		p = prev
	} else {
		c.cache[text] = p
	}
	c.mu.Unlock()
	return p, nil
}

// Len returns the number of cached entries.
func (c *Cached) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cache)
}
