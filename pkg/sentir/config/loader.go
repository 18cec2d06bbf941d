package config

import (
	"fmt"

	"github.com/cognicore/sentir/pkg/sentir/internalerr"
	"github.com/cognicore/sentir/pkg/sentir/lexicon"
	"github.com/cognicore/sentir/pkg/sentir/normalize"
)

// Loader loads the vocabulary files and constructs components.
type Loader struct {
	SubstitutionsPath string
	LexiconPath       string
}

// Components holds the loaded text-processing components.
type Components struct {
	Normalizer *normalize.Normalizer
	Lexicon    *lexicon.Lexicon
}

// Load reads the configured files, falling back to built-in defaults for
// any path left empty. Every failure wraps internalerr.ErrInvalidConfig.
func (l *Loader) Load() (*Components, error) {
	comp := &Components{}

	if l.SubstitutionsPath != "" {
		n, err := normalize.LoadFromYAML(l.SubstitutionsPath)
		if err != nil {
			return nil, fmt.Errorf("%w: load substitutions: %w", internalerr.ErrInvalidConfig, err)
		}
		comp.Normalizer = n
	} else {
		comp.Normalizer = normalize.Default()
	}

	if l.LexiconPath != "" {
		lex, err := lexicon.LoadFromYAML(l.LexiconPath)
		if err != nil {
			return nil, fmt.Errorf("%w: load lexicon: %w", internalerr.ErrInvalidConfig, err)
		}
		comp.Lexicon = lex
	} else {
		comp.Lexicon = lexicon.Default()
	}

	return comp, nil
}

// Loader returns a Loader for the vocabulary paths of c.
func (c Config) Loader() *Loader {
	return &Loader{
		SubstitutionsPath: c.SubstitutionsPath,
		LexiconPath:       c.LexiconPath,
	}
}
