// Package selector picks canned text at random from fixed per-category
// lists. It is the whole of the companion's simulated intelligence.
package selector

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"sort"
)

var ErrUnknownCategory = errors.New("unknown category")

type Selector struct {
	catalog map[string][]string
	intn    func(int) int
}

type Option func(*Selector)

// WithRand makes picks reproducible.
func WithRand(r *rand.Rand) Option {
	return func(s *Selector) { s.intn = r.IntN }
}

// New copies catalog; later changes to the caller's map do not leak in.
func New(catalog map[string][]string, opts ...Option) *Selector {
	s := &Selector{
		catalog: make(map[string][]string, len(catalog)),
		intn:    rand.IntN,
	}
	for k, v := range catalog {
		s.catalog[k] = slices.Clone(v)
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Pick returns one item of category, uniformly at random. Calls are
// independent, so repeats are possible.
func (s *Selector) Pick(category string) (string, error) {
	items := s.catalog[category]
	if len(items) == 0 {
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}
	return items[s.intn(len(items))], nil
}

// items returns the fixed list registered for category.
func (s *Selector) items(category string) []string {
	return slices.Clone(s.catalog[category])
}

func (s *Selector) Categories() []string {
	out := make([]string, 0, len(s.catalog))
	for k := range s.catalog {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
