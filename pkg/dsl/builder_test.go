package dsl

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aretw0/dtm"
	"github.com/aretw0/dtm/pkg/domain"
)

func copyProgram() *Builder {
	b := New("copy").Describe("copies the input word to the output tape")
	b.State(1).Accept()
	b.State(0).Start().
		On('a').Write('a').Move(domain.Right).Shift(domain.Right).Go(0).
		On('b').Write('b').Move(domain.Right).Shift(domain.Right).Go(0).
		On('~').Go(1)
	return b
}

func TestBuilder_Copy(t *testing.T) {
	p, err := copyProgram().Build()
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	if p.States != 2 {
		t.Errorf("Expected 2 states, got %d", p.States)
	}
	if len(p.Transitions) != 3 {
		t.Fatalf("Expected 3 transitions, got %d", len(p.Transitions))
	}
	if got := p.Transitions[0].String(); got != "(0, a, ~) -> (0, +1, a, +1)" {
		t.Errorf("Unexpected first transition %s", got)
	}
	if got := p.Transitions[2].String(); got != "(0, ~, ~) -> (1, 0, ~, 0)" {
		t.Errorf("Unexpected default transition %s", got)
	}
	if p.Class(1) != domain.Accepting {
		t.Errorf("Expected state 1 to be accepting, got %v", p.Class(1))
	}

	e, err := dtm.New(p)
	if err != nil {
		t.Fatalf("dtm.New() failed: %v", err)
	}
	out, err := e.Simulate(context.Background(), "abba")
	if err != nil {
		t.Fatalf("Simulate() failed: %v", err)
	}
	if out != "abba" {
		t.Errorf("Expected output 'abba', got %q", out)
	}
}

func TestBuilder_WorkTapes(t *testing.T) {
	// Pushes a's onto the work tape and pops one per b.
	b := New("anbn").Tapes(1)
	b.State(2).Accept()
	b.State(0).Start().
		On('a').Write('~', 'a').Move(domain.Stay, domain.Right).Shift(domain.Right).Go(3).
		On('~').Go(2)
	b.State(3).
		On('a').Write('~', 'a').Move(domain.Stay, domain.Right).Shift(domain.Right).Go(3).
		On('b').Move(domain.Stay, domain.Left).Go(1)
	b.State(1).
		On('b', '~', 'a').Write('~', '~').Move(domain.Stay, domain.Left).Shift(domain.Right).Go(1).
		On('~').Go(2)

	p, err := b.Build()
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}
	if p.States != 4 {
		t.Errorf("Expected 4 states, got %d", p.States)
	}

	e, err := dtm.New(p)
	if err != nil {
		t.Fatalf("dtm.New() failed: %v", err)
	}
	for word, want := range map[string]bool{"": true, "ab": true, "aabb": true, "a": false, "aab": false, "ba": false} {
		got, err := e.Check(context.Background(), word)
		if err != nil {
			t.Fatalf("Check(%q) failed: %v", word, err)
		}
		if got != want {
			t.Errorf("Check(%q) = %v, want %v", word, got, want)
		}
	}
}

func TestBuilder_CustomBlank(t *testing.T) {
	alphabet := domain.Alphabet{First: '0', Last: '1', Blank: '_'}
	b := New("flip").Blank('_')
	b.State(1).Accept()
	b.State(0).Start().
		On('0').Write('1').Move(domain.Right).Shift(domain.Right).Go(0).
		On('1').Write('0').Move(domain.Right).Shift(domain.Right).Go(0).
		On('_').Go(1)

	if _, err := b.Build(); !errors.Is(err, domain.ErrInvalidSymbol) {
		t.Errorf("Expected ErrInvalidSymbol against the default alphabet, got %v", err)
	}
	if _, err := b.BuildFor(alphabet); err != nil {
		t.Fatalf("BuildFor() failed: %v", err)
	}
}

func TestBuilder_Errors(t *testing.T) {
	if _, err := New("empty").Build(); !errors.Is(err, domain.ErrMalformedProgram) {
		t.Errorf("Expected ErrMalformedProgram without start state, got %v", err)
	}

	b := New("dup")
	b.State(0).Start().On('a').Go(0).On('a').Shift(domain.Right).Go(0)
	if _, err := b.Build(); !errors.Is(err, domain.ErrNonDeterministic) {
		t.Errorf("Expected ErrNonDeterministic, got %v", err)
	}
}

func TestBuilder_ArityMismatch(t *testing.T) {
	b := New("wide")
	b.State(1).Accept()
	b.State(0).Start().
		On('a', '~', '~').Go(1).
		On('b').Write('b', 'b').Go(1).
		On('c').Move(domain.Right, domain.Right).Go(1)

	_, err := b.Build()
	if !errors.Is(err, domain.ErrTapeArity) {
		t.Fatalf("Expected ErrTapeArity for tuples wider than the tape set, got %v", err)
	}
	for _, rule := range []string{"(0, a) -> 1", "(0, b) -> 1", "(0, c) -> 1"} {
		if !strings.Contains(err.Error(), rule) {
			t.Errorf("Expected error to name rule %s, got %v", rule, err)
		}
	}

	// The same rules fit once the work tape is declared, in any order.
	b.Tapes(1)
	p, err := b.Build()
	if err != nil {
		t.Fatalf("Build() after Tapes(1) failed: %v", err)
	}
	for _, tr := range p.Transitions {
		if len(tr.Read) != 2 || len(tr.Write) != 2 || len(tr.Moves) != 2 {
			t.Errorf("Expected 2 entries per tuple, got %s", tr)
		}
	}
}

func TestBuilder_BuildReturnsCopy(t *testing.T) {
	b := copyProgram()
	first, err := b.Build()
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}
	b.State(0).On('c').Go(1)

	if len(first.Transitions) != 3 {
		t.Errorf("Expected earlier build to keep 3 transitions, got %d", len(first.Transitions))
	}
}
