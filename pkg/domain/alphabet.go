package domain

import "fmt"

// Symbol is a single tape character: either a member of an alphabet range or
// the alphabet's blank sentinel.
type Symbol rune

func (s Symbol) String() string {
	return string(s)
}

// Alphabet describes a contiguous symbol range plus a blank sentinel that
// lies outside of it.
type Alphabet struct {
	First Symbol
	Last  Symbol
	Blank Symbol
}

// DefaultAlphabet is 'a'..'z' with '~' as blank.
var DefaultAlphabet = Alphabet{First: 'a', Last: 'z', Blank: '~'}

// Valid reports whether the range is non-empty and the blank is outside it.
func (a Alphabet) Valid() error {
	if a.First > a.Last {
		return fmt.Errorf("%w: empty range %q..%q", ErrInvalidAlphabet, a.First, a.Last)
	}
	if a.InRange(a.Blank) {
		return fmt.Errorf("%w: blank %q inside range %q..%q", ErrInvalidAlphabet, a.Blank, a.First, a.Last)
	}
	return nil
}

// InRange reports whether s belongs to the contiguous range (blank excluded).
func (a Alphabet) InRange(s Symbol) bool {
	return s >= a.First && s <= a.Last
}

// Contains reports whether s may appear on a tape or in a transition.
func (a Alphabet) Contains(s Symbol) bool {
	return a.InRange(s) || s == a.Blank
}

// ValidWord reports whether every rune of word is in the range. Blanks are not
// allowed in input words.
func (a Alphabet) ValidWord(word string) error {
	for i, r := range word {
		if !a.InRange(Symbol(r)) {
			return fmt.Errorf("%w: %q at offset %d is outside %q..%q", ErrInvalidWord, r, i, a.First, a.Last)
		}
	}
	return nil
}

func (a Alphabet) String() string {
	return fmt.Sprintf("%c-%c (blank %c)", a.First, a.Last, a.Blank)
}
