package domain

import (
	"slices"
	"strconv"
	"strings"
)

// Transition is an immutable rule. It fires when the machine is in Source,
// reads Input on the input tape and Read on the work tapes (index 0 is the
// output tape). It then writes Write, moves the work heads by Moves, moves
// the input head by InputMove and enters Target.
type Transition struct {
	Source int
	Input  Symbol
	Read   []Symbol

	Target    int
	InputMove Move
	Write     []Symbol
	Moves     []Move
}

// Matches compares the guard component-wise against a configuration.
func (t Transition) Matches(state int, input Symbol, heads []Symbol) bool {
	return t.Source == state && t.Input == input && slices.Equal(t.Read, heads)
}

// SameGuard reports whether t and o would fire on the same configuration.
func (t Transition) SameGuard(o Transition) bool {
	return o.Matches(t.Source, t.Input, t.Read)
}

// guardKey encodes the guard so that two transitions share a key exactly
// when SameGuard holds.
func (t Transition) guardKey() string {
	var sb strings.Builder
	sb.WriteString(strconv.Itoa(t.Source))
	sb.WriteByte('|')
	sb.WriteRune(rune(t.Input))
	for _, s := range t.Read {
		sb.WriteRune(rune(s))
	}
	return sb.String()
}

// String renders the rule as (q, a, A0, ..., Ak) -> (q', d, B0, d0, ..., Bk, dk).
func (t Transition) String() string {
	var sb strings.Builder
	sb.WriteByte('(')
	sb.WriteString(strconv.Itoa(t.Source))
	sb.WriteString(", ")
	sb.WriteRune(rune(t.Input))
	for _, s := range t.Read {
		sb.WriteString(", ")
		sb.WriteRune(rune(s))
	}
	sb.WriteString(") -> (")
	sb.WriteString(strconv.Itoa(t.Target))
	sb.WriteString(", ")
	sb.WriteString(t.InputMove.String())
	for i, s := range t.Write {
		sb.WriteString(", ")
		sb.WriteRune(rune(s))
		if i < len(t.Moves) {
			sb.WriteString(", ")
			sb.WriteString(t.Moves[i].String())
		}
	}
	sb.WriteByte(')')
	return sb.String()
}
