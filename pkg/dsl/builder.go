package dsl

import (
	"errors"
	"fmt"
	"slices"

	"github.com/aretw0/dtm/pkg/domain"
)

// Builder manages the program construction.
type Builder struct {
	program *domain.Program
	states  map[int]*StateBuilder
	rules   []*RuleBuilder
	blank   domain.Symbol
	start   bool
}

// New creates a new program builder with no work tapes besides the output tape.
func New(name string) *Builder {
	return &Builder{
		program: &domain.Program{Name: name},
		states:  make(map[int]*StateBuilder),
		blank:   domain.DefaultAlphabet.Blank,
	}
}

// Tapes sets the number of work tapes besides the output tape.
func (b *Builder) Tapes(n int) *Builder {
	b.program.Tapes = n
	return b
}

// Blank sets the symbol used for reads a rule leaves out.
func (b *Builder) Blank(s domain.Symbol) *Builder {
	b.blank = s
	return b
}

// Describe sets the program description.
func (b *Builder) Describe(text string) *Builder {
	b.program.Description = text
	return b
}

// State returns the builder for state id, creating it on first use.
// The program has as many states as the highest id used plus one.
func (b *Builder) State(id int) *StateBuilder {
	if sb, ok := b.states[id]; ok {
		return sb
	}
	sb := &StateBuilder{id: id, builder: b}
	b.states[id] = sb
	if id >= b.program.States {
		b.program.States = id + 1
	}
	return sb
}

// Build validates the program against the default alphabet and returns it.
func (b *Builder) Build() (*domain.Program, error) {
	return b.BuildFor(domain.DefaultAlphabet)
}

// BuildFor validates the program against alphabet and returns a copy, so
// the builder can keep growing afterwards.
func (b *Builder) BuildFor(alphabet domain.Alphabet) (*domain.Program, error) {
	if !b.start {
		return nil, fmt.Errorf("%w: no start state", domain.ErrMalformedProgram)
	}
	if b.program.Tapes < 0 || b.program.Tapes > domain.MaxTapes {
		return nil, fmt.Errorf("%w: tape count %d outside 0..%d", domain.ErrMalformedProgram, b.program.Tapes, domain.MaxTapes)
	}
	p := b.program.Clone()
	arity := p.Tapes + 1
	var errs []error
	for _, r := range b.rules {
		t, err := r.transition(arity, b.blank)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		p.Transitions = append(p.Transitions, t)
	}
	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("failed to build program %q: %w", p.Name, err)
	}

	slices.Sort(p.Halting)
	slices.Sort(p.Accepting)
	if err := p.Validate(alphabet); err != nil {
		return nil, fmt.Errorf("failed to build program %q: %w", p.Name, err)
	}
	return p, nil
}
