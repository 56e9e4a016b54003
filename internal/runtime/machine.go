package runtime

import (
	"log/slog"
	"strings"

	"github.com/aretw0/dtm/internal/logging"
	"github.com/aretw0/dtm/pkg/domain"
)

// Machine is a deterministic multi-tape Turing machine.
//
// It holds one input tape and Tapes+1 work tapes; work tape 0 is the output
// tape. A Machine is not safe for concurrent use.
type Machine struct {
	alphabet domain.Alphabet
	states   []*domain.State
	start    int

	input  *domain.InputTape
	tapes  []*domain.Tape
	active *domain.State
	heads  []domain.Symbol

	hooks  domain.LifecycleHooks
	logger *slog.Logger
	newID  func() string
	last   Stats
}

// Config is the header of a machine: everything but its transitions.
type Config struct {
	States    int
	Tapes     int
	Start     int
	Halting   []int
	Accepting []int
}

// Option configures a Machine.
type Option func(*Machine)

// WithAlphabet sets the alphabet whose blank fills new tape cells.
func WithAlphabet(a domain.Alphabet) Option {
	return func(m *Machine) {
		m.alphabet = a
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(m *Machine) {
		m.hooks = hooks
	}
}

// WithLogger sets a structured logger for run tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Machine) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithRunIDs sets the generator used to tag runs in events.
func WithRunIDs(fn func() string) Option {
	return func(m *Machine) {
		if fn != nil {
			m.newID = fn
		}
	}
}

// NewMachine creates a machine with cfg.States states and no transitions.
// The configuration is trusted; loaders validate programs beforehand.
func NewMachine(cfg Config, opts ...Option) *Machine {
	m := &Machine{
		alphabet: domain.DefaultAlphabet,
		start:    cfg.Start,
		logger:   logging.NewNop(),
		newID:    newRunID,
	}
	for _, opt := range opts {
		opt(m)
	}

	accepting := make(map[int]bool, len(cfg.Accepting))
	for _, id := range cfg.Accepting {
		accepting[id] = true
	}
	halting := make(map[int]bool, len(cfg.Halting))
	for _, id := range cfg.Halting {
		halting[id] = true
	}

	m.states = make([]*domain.State, cfg.States)
	for id := range m.states {
		m.states[id] = domain.NewState(id, domain.Classify(accepting[id], halting[id]))
	}

	blank := m.alphabet.Blank
	m.input = domain.NewInputTape("", blank)
	m.tapes = make([]*domain.Tape, cfg.Tapes+1)
	for i := range m.tapes {
		m.tapes[i] = domain.NewTape(blank)
	}
	m.heads = make([]domain.Symbol, len(m.tapes))
	m.active = m.states[m.start]
	return m
}

// Load builds a machine from a program, adding transitions in program order.
func Load(p *domain.Program, opts ...Option) *Machine {
	m := NewMachine(Config{
		States:    p.States,
		Tapes:     p.Tapes,
		Start:     p.Start,
		Halting:   p.Halting,
		Accepting: p.Accepting,
	}, opts...)
	for _, t := range p.Transitions {
		m.add(t)
	}
	return m
}

// AddTransition appends a rule to its source state. No validation happens
// here; slices are copied so later caller mutations do not leak in.
func (m *Machine) AddTransition(source int, input domain.Symbol, read []domain.Symbol, target int, inputMove domain.Move, write []domain.Symbol, moves []domain.Move) {
	m.add(domain.Transition{
		Source:    source,
		Input:     input,
		Read:      read,
		Target:    target,
		InputMove: inputMove,
		Write:     write,
		Moves:     moves,
	})
}

func (m *Machine) add(t domain.Transition) {
	t.Read = append([]domain.Symbol(nil), t.Read...)
	t.Write = append([]domain.Symbol(nil), t.Write...)
	t.Moves = append([]domain.Move(nil), t.Moves...)
	m.states[t.Source].Add(t)
}

// Alphabet returns the machine's alphabet.
func (m *Machine) Alphabet() domain.Alphabet {
	return m.alphabet
}

// Tapes returns the number of work tapes, output tape included.
func (m *Machine) Tapes() int {
	return len(m.tapes)
}

// States returns the number of states.
func (m *Machine) States() int {
	return len(m.states)
}

// Describe renders one line per transition, states in id order and lines
// sorted lexicographically within a state.
func (m *Machine) Describe() string {
	var lines []string
	for _, s := range m.states {
		lines = append(lines, s.Describe()...)
	}
	return strings.Join(lines, "\n")
}

// reset rebuilds every work tape to a single blank and restores the start state.
func (m *Machine) reset() {
	for _, t := range m.tapes {
		t.Reset()
	}
	m.active = m.states[m.start]
}

// Trim removes leading and trailing blanks, keeping interior ones.
func Trim(content string, blank domain.Symbol) string {
	return strings.Trim(content, string(blank))
}
