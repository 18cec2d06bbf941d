// Package normalize rewrites raw extracted text into the form the scorers expect.
//
// The pipeline is fixed:
//  1. ordered literal substitutions (currency symbols, financial acronyms)
//  2. standalone single ASCII letters are dropped
//  3. operator and bracket characters are dropped
//  4. purely numeric words are dropped
//  5. whitespace is collapsed and trimmed
//
// A substitution or a removal can join neighbouring text into a pattern of the
// table, so Normalize repeats the pipeline until the text stops changing.
package normalize

import (
	"fmt"
	"os"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/sentir/pkg/sentir/internalerr"
)

// Substitution is one literal rewrite rule.
type Substitution struct {
	Pattern     string `yaml:"pattern"`
	Replacement string `yaml:"replacement"`
}

// DefaultSubstitutions is the built-in table for Brazilian financial reports.
// Currency-prefixed symbols must stay ahead of the bare "$".
var DefaultSubstitutions = []Substitution{
	{Pattern: "R$", Replacement: "real "},
	{Pattern: "US$", Replacement: "dólar "},
	{Pattern: "%", Replacement: " porcento "},
	{Pattern: "$", Replacement: "dólar "},
	{Pattern: "€", Replacement: "euro "},
	{Pattern: "UDM", Replacement: "unidade de medida "},
	{Pattern: "EBITDA", Replacement: "lucros antes de juros impostos depreciação e amortização"},
	{Pattern: "ROIC", Replacement: "retorno sobre capital investido"},
	{Pattern: "ROE", Replacement: "retorno sobre o patrimônio líquido"},
	{Pattern: "Capex", Replacement: "despesas de capital"},
}

// strippedChars are replaced by a space in step 3.
const strippedChars = "+-*/()[]{}|%<>="

// Normalizer applies an ordered substitution table followed by the fixed cleanup steps.
type Normalizer struct {
	subs []Substitution
}

// New validates the table and returns a Normalizer. Rejected tables:
//   - an empty pattern
//   - a pattern that contains an earlier pattern (the earlier rule rewrites it first,
//     so the later rule could never fire)
//   - a replacement that contains any pattern (a second pass would rewrite it again)
func New(subs []Substitution) (*Normalizer, error) {
	for i, s := range subs {
		if s.Pattern == "" {
			return nil, fmt.Errorf("%w: substitution %d has an empty pattern", internalerr.ErrInvalidConfig, i)
		}
		for j := 0; j < i; j++ {
			if strings.Contains(s.Pattern, subs[j].Pattern) {
				return nil, fmt.Errorf("%w: substitution %q is shadowed by earlier %q; list it first",
					internalerr.ErrInvalidConfig, s.Pattern, subs[j].Pattern)
			}
		}
	}
	for _, s := range subs {
		for _, other := range subs {
			if strings.Contains(s.Replacement, other.Pattern) {
				return nil, fmt.Errorf("%w: replacement %q for %q contains pattern %q",
					internalerr.ErrInvalidConfig, s.Replacement, s.Pattern, other.Pattern)
			}
		}
	}

	cp := make([]Substitution, len(subs))
	copy(cp, subs)
	return &Normalizer{subs: cp}, nil
}

// Default returns a Normalizer over DefaultSubstitutions.
func Default() *Normalizer {
	n, err := New(DefaultSubstitutions)
	if err != nil {
		panic(err)
	}
	return n
}

// LoadFromYAML loads an ordered substitution table.
//
// Expected format:
//
//	substitutions:
//	  - pattern: "R$"
//	    replacement: "real "
//	  - pattern: "$"
//	    replacement: "dólar "
func LoadFromYAML(path string) (*Normalizer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var doc struct {
		Substitutions []Substitution `yaml:"substitutions"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", internalerr.ErrInvalidConfig, path, err)
	}

	return New(doc.Substitutions)
}

// Substitutions returns a copy of the table in application order.
func (n *Normalizer) Substitutions() []Substitution {
	out := make([]Substitution, len(n.subs))
	copy(out, n.subs)
	return out
}

// Normalize runs the five steps over text until it reaches a fixed point,
// giving up after len(table)+2 extra passes.
func (n *Normalizer) Normalize(text string) string {
	out := n.pass(text)
	for i := 0; i < len(n.subs)+2; i++ {
		next := n.pass(out)
		if next == out {
			break
		}
		out = next
	}
	return out
}

func (n *Normalizer) pass(text string) string {
	for _, s := range n.subs {
		text = strings.ReplaceAll(text, s.Pattern, s.Replacement)
	}
	text = stripSingleLetters(text)
	text = strings.Map(func(r rune) rune {
		if strings.ContainsRune(strippedChars, r) {
			return ' '
		}
		return r
	}, text)
	text = stripNumbers(text)
	return strings.Join(strings.Fields(text), " ")
}

// isWordRune matches the characters a word is made of: letters, numbers, underscore.
func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsNumber(r) || r == '_'
}

func wordEnd(rs []rune, start int) int {
	end := start
	for end < len(rs) && isWordRune(rs[end]) {
		end++
	}
	return end
}

func allDigits(rs []rune) bool {
	for _, r := range rs {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return len(rs) > 0
}

func isASCIILetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func stripSingleLetters(s string) string {
	rs := []rune(s)
	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(rs); {
		if !isWordRune(rs[i]) {
			b.WriteRune(rs[i])
			i++
			continue
		}
		j := wordEnd(rs, i)
		if j-i == 1 && isASCIILetter(rs[i]) {
			b.WriteByte(' ')
		} else {
			b.WriteString(string(rs[i:j]))
		}
		i = j
	}
	return b.String()
}

// stripNumbers drops digit-only words. "10.5" goes as a whole; the dot is only
// consumed when a digit-only word follows it.
func stripNumbers(s string) string {
	rs := []rune(s)
	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(rs); {
		if !isWordRune(rs[i]) {
			b.WriteRune(rs[i])
			i++
			continue
		}
		j := wordEnd(rs, i)
		if !allDigits(rs[i:j]) {
			b.WriteString(string(rs[i:j]))
			i = j
			continue
		}
		if j+1 < len(rs) && rs[j] == '.' && isWordRune(rs[j+1]) {
			if k := wordEnd(rs, j+1); allDigits(rs[j+1 : k]) {
				j = k
			}
		}
		b.WriteByte(' ')
		i = j
	}
	return b.String()
}
