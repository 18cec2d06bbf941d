// Package classify maps a polarity score onto one of three sentiment categories.
package classify

import (
	"fmt"
	"math"

	"github.com/cognicore/sentir/pkg/sentir/internalerr"
)

// Category is the sentiment bucket a document falls into.
type Category int

const (
	Positive Category = iota
	Neutral
	Negative
)

// All lists the categories in report order.
var All = []Category{Positive, Neutral, Negative}

func (c Category) String() string {
	switch c {
	case Positive:
		return "Positive"
	case Neutral:
		return "Neutral"
	case Negative:
		return "Negative"
	}
	return fmt.Sprintf("Category(%d)", int(c))
}

// MarshalText implements encoding.TextMarshaler.
func (c Category) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("classify: unknown category %d", int(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Category) UnmarshalText(b []byte) error {
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Valid reports whether c is one of the three known categories.
func (c Category) Valid() bool {
	return c >= Positive && c <= Negative
}

// Parse converts a category label (as produced by String) back into a Category.
func Parse(s string) (Category, error) {
	for _, c := range All {
		if c.String() == s {
			return c, nil
		}
	}
	return 0, fmt.Errorf("classify: unknown category %q", s)
}

// Thresholds bound the neutral band. Scores strictly below Negative are negative,
// strictly above Positive are positive.
type Thresholds struct {
	Negative float64
	Positive float64
}

// Validate checks Negative <= Positive. Classify itself never re-checks.
func (t Thresholds) Validate() error {
	if math.IsNaN(t.Negative) || math.IsNaN(t.Positive) {
		return fmt.Errorf("%w: thresholds must be numbers", internalerr.ErrInvalidConfig)
	}
	if t.Negative > t.Positive {
		return fmt.Errorf("%w: negative threshold %g is greater than positive threshold %g",
			internalerr.ErrInvalidConfig, t.Negative, t.Positive)
	}
	return nil
}

// Classify buckets a polarity. A polarity equal to either threshold is Neutral.
func Classify(polarity float64, t Thresholds) Category {
	if polarity < t.Negative {
		return Negative
	}
	if polarity > t.Positive {
		return Positive
	}
	return Neutral
}
