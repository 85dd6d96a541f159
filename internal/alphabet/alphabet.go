// Package alphabet maps cipher symbols to ordinals and back.
package alphabet

import (
	"fmt"
	"slices"
	"strconv"
)

// Alphabet is a bijection between symbols and the ordinals 0..Base()-1.
// It is immutable and safe for concurrent use.
type Alphabet struct {
	rto map[rune]int
	otr []rune
}

// LookupError reports a symbol or an ordinal that has no counterpart.
type LookupError struct {
	Symbol  rune
	Ordinal int
	// Reverse is set when the failed lookup went from ordinal to symbol.
	Reverse bool
}

func (e *LookupError) Error() string {
	if e.Reverse {
		return fmt.Sprintf("alphabet: no symbol for ordinal %d", e.Ordinal)
	}
	return fmt.Sprintf("alphabet: symbol %s is not in alphabet", strconv.QuoteRune(e.Symbol))
}

// New builds an Alphabet from a symbol to ordinal mapping.
// The ordinals must be exactly 0..len(m)-1.
func New(m map[rune]int) (*Alphabet, error) {
	a := &Alphabet{
		rto: make(map[rune]int, len(m)),
		otr: make([]rune, len(m)),
	}
	seen := make([]bool, len(m))

	for r, o := range m {
		if o < 0 || o >= len(m) {
			return nil, fmt.Errorf("alphabet: ordinal %d of %s out of range [0..%d]", o, strconv.QuoteRune(r), len(m)-1)
		}
		if seen[o] {
			return nil, fmt.Errorf("alphabet: ordinal %d assigned to both %s and %s", o, strconv.QuoteRune(a.otr[o]), strconv.QuoteRune(r))
		}
		seen[o] = true
		a.rto[r] = o
		a.otr[o] = r
	}
	return a, nil
}

// FromString builds an Alphabet whose ordinals follow the order of the
// symbols in s. Duplicate symbols are an error.
func FromString(s string) (*Alphabet, error) {
	m := map[rune]int{}
	for _, r := range s {
		if _, ok := m[r]; ok {
			return nil, fmt.Errorf("alphabet: duplicate symbol %s", strconv.QuoteRune(r))
		}
		m[r] = len(m)
	}
	return New(m)
}

// Base returns the number of symbols, which is the base of the block numerals.
func (a *Alphabet) Base() int {
	return len(a.otr)
}

func (a *Alphabet) Ordinal(r rune) (int, error) {
	o, ok := a.rto[r]
	if !ok {
		return 0, &LookupError{Symbol: r}
	}
	return o, nil
}

func (a *Alphabet) Symbol(o int) (rune, error) {
	if o < 0 || o >= len(a.otr) {
		return 0, &LookupError{Ordinal: o, Reverse: true}
	}
	return a.otr[o], nil
}

// Symbols returns the symbols in ordinal order.
func (a *Alphabet) Symbols() []rune {
	return slices.Clone(a.otr)
}
