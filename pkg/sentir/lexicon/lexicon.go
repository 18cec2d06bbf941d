package lexicon

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/sentir/pkg/sentir/internalerr"
)

//go:embed default.yaml
var defaultYAML []byte

// Lexicon stores the vocabulary a lexicon scorer needs:
// - Words: prior polarity of a word in [-1, 1] (lucro → 0.6, prejuízo → -0.7)
// - Intensifiers: multipliers applied to the next polar word (muito → 1.3)
// - Negations: words that flip the next polar word (não, never)
//
// All entries are stored lowercase; lookups are case-insensitive.
type Lexicon struct {
	words        map[string]float64
	intensifiers map[string]float64
	negations    map[string]struct{}
}

// New creates an empty lexicon.
func New() *Lexicon {
	return &Lexicon{
		words:        make(map[string]float64),
		intensifiers: make(map[string]float64),
		negations:    make(map[string]struct{}),
	}
}

type yamlDoc struct {
	Words        map[string]float64 `yaml:"words"`
	Intensifiers map[string]float64 `yaml:"intensifiers"`
	Negations    []string           `yaml:"negations"`
}

// Parse builds a lexicon from YAML.
//
// Expected format:
//
//	words:
//	  lucro: 0.6
//	  prejuízo: -0.7
//	intensifiers:
//	  muito: 1.3
//	negations: [não, nunca]
func Parse(data []byte) (*Lexicon, error) {
	var doc yamlDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: lexicon: %v", internalerr.ErrInvalidConfig, err)
	}

	lex := New()
	for w, p := range doc.Words {
		if p < -1 || p > 1 {
			return nil, fmt.Errorf("%w: lexicon word %q has polarity %g outside [-1, 1]",
				internalerr.ErrInvalidConfig, w, p)
		}
		lex.AddWord(w, p)
	}
	for w, f := range doc.Intensifiers {
		if f <= 0 {
			return nil, fmt.Errorf("%w: lexicon intensifier %q must be positive, got %g",
				internalerr.ErrInvalidConfig, w, f)
		}
		lex.AddIntensifier(w, f)
	}
	for _, w := range doc.Negations {
		lex.AddNegation(w)
	}
	return lex, nil
}

// LoadFromYAML loads a lexicon file. See Parse for the format.
func LoadFromYAML(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Default returns the embedded Portuguese/English financial lexicon.
func Default() *Lexicon {
	lex, err := Parse(defaultYAML)
	if err != nil {
		panic(err)
	}
	return lex
}

// AddWord sets the prior polarity of a word.
func (l *Lexicon) AddWord(word string, polarity float64) {
	l.words[strings.ToLower(word)] = polarity
}

// AddIntensifier registers a multiplier for the word that follows it.
func (l *Lexicon) AddIntensifier(word string, factor float64) {
	l.intensifiers[strings.ToLower(word)] = factor
}

// AddNegation registers a negation word.
func (l *Lexicon) AddNegation(word string) {
	l.negations[strings.ToLower(word)] = struct{}{}
}

// Polarity returns the prior polarity of a word.
func (l *Lexicon) Polarity(word string) (float64, bool) {
	p, ok := l.words[strings.ToLower(word)]
	return p, ok
}

// Intensity returns the multiplier of an intensifier.
func (l *Lexicon) Intensity(word string) (float64, bool) {
	f, ok := l.intensifiers[strings.ToLower(word)]
	return f, ok
}

// IsNegation reports whether word negates the polar word after it.
func (l *Lexicon) IsNegation(word string) bool {
	_, ok := l.negations[strings.ToLower(word)]
	return ok
}

// Stats returns statistics about the lexicon contents.
func (l *Lexicon) Stats() LexiconStats {
	return LexiconStats{
		Words:        len(l.words),
		Intensifiers: len(l.intensifiers),
		Negations:    len(l.negations),
	}
}

// LexiconStats holds statistics about lexicon contents.
type LexiconStats struct {
	Words        int
	Intensifiers int
	Negations    int
}
