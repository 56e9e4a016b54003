package domain

import (
	"errors"
	"fmt"
	"slices"
)

// Size limits enforced by Validate and the program loaders. A machine
// allocates its state table and tape set up front, so larger headers are
// rejected before anything is built.
var (
	MaxStates = 1 << 20
	MaxTapes  = 64
)

// Program is a complete machine definition as produced by a loader.
type Program struct {
	Name        string
	Description string

	// States is the number of states; ids are 0..States-1.
	States int
	// Tapes is the number of work tapes besides the output tape, so every
	// tuple in a transition has Tapes+1 entries.
	Tapes int

	Start     int
	Halting   []int
	Accepting []int

	Transitions []Transition
}

// Class returns the classification of state id.
func (p *Program) Class(id int) Class {
	return Classify(slices.Contains(p.Accepting, id), slices.Contains(p.Halting, id))
}

// Add appends a transition built from its parts.
func (p *Program) Add(source int, input Symbol, read []Symbol, target int, inputMove Move, write []Symbol, moves []Move) {
	p.Transitions = append(p.Transitions, Transition{
		Source:    source,
		Input:     input,
		Read:      read,
		Target:    target,
		InputMove: inputMove,
		Write:     write,
		Moves:     moves,
	})
}

// Clone returns a deep copy of p.
func (p *Program) Clone() *Program {
	c := *p
	c.Halting = slices.Clone(p.Halting)
	c.Accepting = slices.Clone(p.Accepting)
	if p.Transitions != nil {
		c.Transitions = make([]Transition, len(p.Transitions))
		for i, t := range p.Transitions {
			t.Read = slices.Clone(t.Read)
			t.Write = slices.Clone(t.Write)
			t.Moves = slices.Clone(t.Moves)
			c.Transitions[i] = t
		}
	}
	return &c
}

// Validate checks the program against alphabet. Every finding is reported;
// the result is nil or a joined error whose parts wrap the domain sentinels.
func (p *Program) Validate(alphabet Alphabet) error {
	if err := alphabet.Valid(); err != nil {
		return err
	}

	if err := p.CheckLimits(); err != nil {
		return err
	}

	var errs []error
	if p.States <= 0 {
		errs = append(errs, fmt.Errorf("%w: state count %d must be positive", ErrMalformedProgram, p.States))
	}
	if p.Tapes < 0 {
		errs = append(errs, fmt.Errorf("%w: tape count %d must not be negative", ErrMalformedProgram, p.Tapes))
	}

	checkState := func(what string, id int) {
		if id < 0 || id >= p.States {
			errs = append(errs, fmt.Errorf("%w: %s %d (have %d states)", ErrUnknownState, what, id, p.States))
		}
	}
	checkState("start state", p.Start)
	for _, id := range p.Halting {
		checkState("halting state", id)
	}
	for _, id := range p.Accepting {
		checkState("accepting state", id)
		if !slices.Contains(p.Halting, id) {
			errs = append(errs, fmt.Errorf("%w: accepting state %d is not halting", ErrMalformedProgram, id))
		}
	}

	arity := p.Tapes + 1
	guards := make(map[string]int, len(p.Transitions))
	for i, t := range p.Transitions {
		at := func(err error, format string, args ...any) {
			errs = append(errs, fmt.Errorf("transition %d %s: %w: %s", i, t, err, fmt.Sprintf(format, args...)))
		}

		if t.Source < 0 || t.Source >= p.States {
			at(ErrUnknownState, "source %d", t.Source)
		}
		if t.Target < 0 || t.Target >= p.States {
			at(ErrUnknownState, "target %d", t.Target)
		}
		if len(t.Read) != arity || len(t.Write) != arity || len(t.Moves) != arity {
			at(ErrTapeArity, "want %d entries, got read=%d write=%d moves=%d", arity, len(t.Read), len(t.Write), len(t.Moves))
		}
		if !alphabet.Contains(t.Input) {
			at(ErrInvalidSymbol, "input %q", t.Input)
		}
		for _, s := range slices.Concat(t.Read, t.Write) {
			if !alphabet.Contains(s) {
				at(ErrInvalidSymbol, "tape symbol %q", s)
			}
		}
		if !t.InputMove.Valid() {
			at(ErrMalformedProgram, "input move %d", t.InputMove)
		}
		for _, m := range t.Moves {
			if !m.Valid() {
				at(ErrMalformedProgram, "tape move %d", m)
			}
		}
		key := t.guardKey()
		if j, ok := guards[key]; ok {
			at(ErrNonDeterministic, "guard already used by transition %d", j)
		} else {
			guards[key] = i
		}
	}

	return errors.Join(errs...)
}

// CheckLimits reports state or tape counts above MaxStates and MaxTapes.
func (p *Program) CheckLimits() error {
	var errs []error
	if p.States > MaxStates {
		errs = append(errs, fmt.Errorf("%w: state count %d exceeds limit %d", ErrMalformedProgram, p.States, MaxStates))
	}
	if p.Tapes > MaxTapes {
		errs = append(errs, fmt.Errorf("%w: tape count %d exceeds limit %d", ErrMalformedProgram, p.Tapes, MaxTapes))
	}
	return errors.Join(errs...)
}
