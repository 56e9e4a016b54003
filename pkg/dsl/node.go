package dsl

import (
	"fmt"
	"slices"

	"github.com/aretw0/dtm/pkg/domain"
)

// StateBuilder provides a fluent API for configuring a state.
type StateBuilder struct {
	id      int
	builder *Builder
}

// Start makes this the start state.
func (s *StateBuilder) Start() *StateBuilder {
	s.builder.program.Start = s.id
	s.builder.start = true
	return s
}

// Halt marks the state as halting (rejecting unless also accepting).
func (s *StateBuilder) Halt() *StateBuilder {
	p := s.builder.program
	if !slices.Contains(p.Halting, s.id) {
		p.Halting = append(p.Halting, s.id)
	}
	return s
}

// Accept marks the state as accepting. Accepting states always halt.
func (s *StateBuilder) Accept() *StateBuilder {
	s.Halt()
	p := s.builder.program
	if !slices.Contains(p.Accepting, s.id) {
		p.Accepting = append(p.Accepting, s.id)
	}
	return s
}

// On starts a rule guarded by the input symbol and the symbols under the
// work heads (output tape first). Missing reads default to the builder's blank.
func (s *StateBuilder) On(input domain.Symbol, reads ...domain.Symbol) *RuleBuilder {
	return &RuleBuilder{state: s, input: input, read: reads}
}

// RuleBuilder configures the effect of a single transition. The rule is
// added to the program by Go.
type RuleBuilder struct {
	state     *StateBuilder
	input     domain.Symbol
	read      []domain.Symbol
	write     []domain.Symbol
	moves     []domain.Move
	inputMove domain.Move
	target    int
}

// Write sets the symbols written under the work heads. Unset entries keep
// the symbol that was read.
func (r *RuleBuilder) Write(symbols ...domain.Symbol) *RuleBuilder {
	r.write = symbols
	return r
}

// Move sets the work head moves. Unset entries stay.
func (r *RuleBuilder) Move(moves ...domain.Move) *RuleBuilder {
	r.moves = moves
	return r
}

// Shift sets the input head move.
func (r *RuleBuilder) Shift(m domain.Move) *RuleBuilder {
	r.inputMove = m
	return r
}

// Go completes the rule with its target state and returns the source state
// for further rules. Defaults are filled in by Build, against the tape
// count and blank the builder has at that point.
func (r *RuleBuilder) Go(target int) *StateBuilder {
	b := r.state.builder
	b.State(target)
	rule := *r
	rule.target = target
	rule.read = slices.Clone(r.read)
	rule.write = slices.Clone(r.write)
	rule.moves = slices.Clone(r.moves)
	b.rules = append(b.rules, &rule)
	return r.state
}

// transition expands the rule to arity entries per tuple. Tuples longer
// than arity are an error.
func (r *RuleBuilder) transition(arity int, blank domain.Symbol) (domain.Transition, error) {
	if len(r.read) > arity || len(r.write) > arity || len(r.moves) > arity {
		return domain.Transition{}, fmt.Errorf("%w: rule (%d, %s) -> %d has read=%d write=%d moves=%d entries for %d tapes",
			domain.ErrTapeArity, r.state.id, r.input, r.target, len(r.read), len(r.write), len(r.moves), arity)
	}

	read := fill(r.read, arity, blank)
	write := make([]domain.Symbol, arity)
	for i := range write {
		if i < len(r.write) {
			write[i] = r.write[i]
		} else {
			write[i] = read[i]
		}
	}
	return domain.Transition{
		Source:    r.state.id,
		Input:     r.input,
		Read:      read,
		Target:    r.target,
		InputMove: r.inputMove,
		Write:     write,
		Moves:     fill(r.moves, arity, domain.Stay),
	}, nil
}

func fill[T any](given []T, n int, def T) []T {
	out := make([]T, n)
	for i := range out {
		if i < len(given) {
			out[i] = given[i]
		} else {
			out[i] = def
		}
	}
	return out
}
