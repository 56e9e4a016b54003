package domain

import (
	"sort"
)

// Class is the halting classification of a state.
type Class int

const (
	Running Class = iota
	Halting
	Accepting
)

func (c Class) String() string {
	switch c {
	case Halting:
		return "halting"
	case Accepting:
		return "accepting"
	default:
		return "running"
	}
}

// Classify derives the class of a state from set membership. Accepting wins
// over halting.
func Classify(accepting, halting bool) Class {
	switch {
	case accepting:
		return Accepting
	case halting:
		return Halting
	}
	return Running
}

// State owns the ordered transitions leaving it.
type State struct {
	ID    int
	Class Class

	transitions []Transition
}

// NewState creates a state with no transitions.
func NewState(id int, class Class) *State {
	return &State{ID: id, Class: class}
}

// Add appends t to the state's rule list. Determinism is not checked.
func (s *State) Add(t Transition) {
	s.transitions = append(s.transitions, t)
}

// Transitions returns the rules in insertion order.
func (s *State) Transitions() []Transition {
	return s.transitions
}

// Lookup returns the first rule whose guard matches. A miss is a normal
// outcome: the machine halts.
func (s *State) Lookup(input Symbol, heads []Symbol) (*Transition, bool) {
	for i := range s.transitions {
		if s.transitions[i].Matches(s.ID, input, heads) {
			return &s.transitions[i], true
		}
	}
	return nil, false
}

// Describe renders every rule, sorted by text.
func (s *State) Describe() []string {
	lines := make([]string, len(s.transitions))
	for i, t := range s.transitions {
		lines[i] = t.String()
	}
	sort.Strings(lines)
	return lines
}

// MarshalText encodes the class by name.
func (c Class) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}
