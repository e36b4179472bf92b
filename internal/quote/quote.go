package quote

import (
	"fmt"
	"math/rand/v2"
)

// Category groups quotes by the action that triggers them.
type Category string

const (
	CategoryIn     Category = "in"
	CategoryLunch  Category = "lunch"
	CategoryResume Category = "resume"
	CategoryOut    Category = "out"
	CategoryReset  Category = "reset"
)

// Categories lists every category a Selector must have a pool for.
var Categories = []Category{CategoryIn, CategoryLunch, CategoryResume, CategoryOut, CategoryReset}

// Validate checks if the Category is a valid enum value.
func (c Category) Validate() error {
	switch c {
	case CategoryIn, CategoryLunch, CategoryResume, CategoryOut, CategoryReset:
		return nil
	default:
		return fmt.Errorf("unknown quote category: %q", c)
	}
}

// Pools maps each category to its quotes.
type Pools map[Category][]string

// DefaultPools returns a fresh copy of the built-in quotes.
func DefaultPools() Pools {
	return Pools{
		CategoryIn: {
			"Good luck today. I’m here if you need me.",
			"Take it one task at a time. Kaya mo.",
			"Start lang, no pressure.",
			"Rooting for you, always.",
		},
		CategoryLunch: {
			"Lunch muna, please. Kahit konti.",
			"Eat properly ha. Important ’yan.",
			"Take a real break. Deserve mo.",
			"Slow down muna. Saglit lang.",
		},
		CategoryResume: {
			"Okay, resume na tayo. Chill pace lang.",
			"One step at a time ulit.",
			"Let’s continue, steady lang.",
			"Almost there. Proud ako sayo.",
		},
		CategoryOut: {
			"Good work today. Rest na, okay?",
			"You did enough today. Proud ako sayo.",
			"Solid effort today. Time to recharge.",
			"Thank you for showing up today. Pahinga na.",
		},
		CategoryReset: {
			"Fresh start ulit. Take it easy.",
			"Okay, reset. New day, new pace.",
			"Back to zero, no pressure.",
		},
	}
}

// Merge returns a copy of p with each non-empty pool in overrides replacing
// the corresponding pool.
func (p Pools) Merge(overrides Pools) Pools {
	out := make(Pools, len(p))
	for c, quotes := range p {
		out[c] = append([]string(nil), quotes...)
	}
	for c, quotes := range overrides {
		if len(quotes) > 0 {
			out[c] = append([]string(nil), quotes...)
		}
	}
	return out
}

// ChooseFunc returns an index in [0, n). n is always > 0.
type ChooseFunc func(n int) int

// Selector picks quotes. It is safe for concurrent use as long as its
// ChooseFunc is.
type Selector struct {
	pools  Pools
	choose ChooseFunc
}

// New creates a Selector. Every category must have a non-empty pool.
// A nil choose uses math/rand/v2.
func New(pools Pools, choose ChooseFunc) (*Selector, error) {
	for _, c := range Categories {
		if len(pools[c]) == 0 {
			return nil, fmt.Errorf("quote pool for category %q is empty", c)
		}
	}
	for c := range pools {
		if err := c.Validate(); err != nil {
			return nil, err
		}
	}
	if choose == nil {
		choose = rand.IntN
	}
	return &Selector{pools: pools.Merge(nil), choose: choose}, nil
}

// Default returns a Selector over DefaultPools with a random choice.
func Default() *Selector {
	s, _ := New(DefaultPools(), nil)
	return s
}

// Pick returns a quote from category c. Unknown categories yield "".
func (s *Selector) Pick(c Category) string {
	pool := s.pools[c]
	if len(pool) == 0 {
		return ""
	}
	i := s.choose(len(pool))
	if i < 0 || i >= len(pool) {
		i = 0
	}
	return pool[i]
}

// Pool returns a copy of the quotes for category c.
func (s *Selector) Pool(c Category) []string {
	return append([]string(nil), s.pools[c]...)
}

// First always picks the first quote. Useful for deterministic tests.
func First(int) int { return 0 }
