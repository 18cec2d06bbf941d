package aggregate

import (
	"math"
	"sync"

	"github.com/cognicore/sentir/pkg/sentir/classify"
)

// Result is the sentiment outcome of one successfully analyzed document.
type Result struct {
	Filename string            `json:"filename"`
	Path     string            `json:"path"`
	Polarity float64           `json:"polarity"`
	Category classify.Category `json:"category"`
}

// ResultSet groups results by category. Every category is present, possibly
// with an empty list; within a category results keep insertion order.
type ResultSet map[classify.Category][]Result

// NewResultSet returns a ResultSet with all categories initialized.
func NewResultSet() ResultSet {
	rs := make(ResultSet, len(classify.All))
	for _, c := range classify.All {
		rs[c] = []Result{}
	}
	return rs
}

// Get returns the results of one category.
func (rs ResultSet) Get(c classify.Category) []Result {
	return rs[c]
}

// Counts returns the number of results per category.
func (rs ResultSet) Counts() map[classify.Category]int {
	out := make(map[classify.Category]int, len(classify.All))
	for _, c := range classify.All {
		out[c] = len(rs[c])
	}
	return out
}

// Len returns the total number of results.
func (rs ResultSet) Len() int {
	n := 0
	for _, list := range rs {
		n += len(list)
	}
	return n
}

// All returns every result, categories in classify.All order.
func (rs ResultSet) All() []Result {
	out := make([]Result, 0, rs.Len())
	for _, c := range classify.All {
		out = append(out, rs[c]...)
	}
	return out
}

// Aggregator collects results from concurrent producers.
type Aggregator struct {
	mu    sync.Mutex
	set   ResultSet
	stats map[classify.Category]*CategoryStats
}

// CategoryStats summarizes the polarities of one category.
type CategoryStats struct {
	Count int     `json:"count"`
	Mean  float64 `json:"mean"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	sum   float64
}

// New creates an empty aggregator.
func New() *Aggregator {
	a := &Aggregator{
		set:   NewResultSet(),
		stats: make(map[classify.Category]*CategoryStats, len(classify.All)),
	}
	for _, c := range classify.All {
		a.stats[c] = &CategoryStats{}
	}
	return a
}

// Add appends r to its category. Results with an unknown category are
// dropped and reported as false.
func (a *Aggregator) Add(r Result) bool {
	if !r.Category.Valid() {
		return false
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	a.set[r.Category] = append(a.set[r.Category], r)

	s := a.stats[r.Category]
	if s.Count == 0 {
		s.Min, s.Max = r.Polarity, r.Polarity
	} else {
		s.Min = math.Min(s.Min, r.Polarity)
		s.Max = math.Max(s.Max, r.Polarity)
	}
	s.Count++
	s.sum += r.Polarity
	s.Mean = s.sum / float64(s.Count)
	return true
}

// ResultSet returns a copy of the accumulated results.
func (a *Aggregator) ResultSet() ResultSet {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make(ResultSet, len(a.set))
	for c, list := range a.set {
		out[c] = append([]Result{}, list...)
	}
	return out
}

// Stats returns a copy of the per-category polarity summaries.
func (a *Aggregator) Stats() map[classify.Category]CategoryStats {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make(map[classify.Category]CategoryStats, len(a.stats))
	for c, s := range a.stats {
		out[c] = *s
	}
	return out
}
