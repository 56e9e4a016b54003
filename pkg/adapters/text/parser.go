package text

import (
	"bufio"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/aretw0/dtm/pkg/domain"
)

// Header directives recognized inside comment lines.
const (
	nameDirective        = "name:"
	descriptionDirective = "description:"
)

// ParseError locates a syntax error in a program file.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed program at line %d: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func malformed(line int, format string, args ...any) error {
	return &ParseError{Line: line, Err: fmt.Errorf("%w: %w", domain.ErrMalformedProgram, fmt.Errorf(format, args...))}
}

type lineReader struct {
	scanner *bufio.Scanner
	number  int
	program *domain.Program
}

// next returns the next non-comment line. ok is false at end of input.
func (r *lineReader) next() (string, bool, error) {
	for r.scanner.Scan() {
		r.number++
		text := strings.TrimRight(r.scanner.Text(), "\r")
		trimmed := strings.TrimSpace(text)
		if strings.HasPrefix(trimmed, "#") {
			r.directive(strings.TrimSpace(strings.TrimPrefix(trimmed, "#")))
			continue
		}
		return text, true, nil
	}
	return "", false, r.scanner.Err()
}

func (r *lineReader) directive(comment string) {
	switch {
	case strings.HasPrefix(comment, nameDirective) && r.program.Name == "":
		r.program.Name = strings.TrimSpace(strings.TrimPrefix(comment, nameDirective))
	case strings.HasPrefix(comment, descriptionDirective) && r.program.Description == "":
		r.program.Description = strings.TrimSpace(strings.TrimPrefix(comment, descriptionDirective))
	}
}

func (r *lineReader) header(what string) (string, error) {
	line, ok, err := r.next()
	if err != nil {
		return "", fmt.Errorf("read program: %w", err)
	}
	if !ok {
		return "", malformed(r.number+1, "missing %s", what)
	}
	return line, nil
}

// Parse reads a program in the line-oriented format: state count, tape
// count, start state, halting states, accepting states, then one transition
// per line. Lines starting with '#' are comments. The result is validated
// against alphabet, so it is deterministic and well-formed on success.
func Parse(r io.Reader, alphabet domain.Alphabet) (*domain.Program, error) {
	if err := alphabet.Valid(); err != nil {
		return nil, err
	}

	p := &domain.Program{}
	lr := &lineReader{scanner: bufio.NewScanner(r), program: p}

	line, err := lr.header("state count")
	if err != nil {
		return nil, err
	}
	if p.States, err = parseCount(line, domain.MaxStates); err != nil {
		return nil, malformed(lr.number, "state count: %w", err)
	}

	if line, err = lr.header("tape count"); err != nil {
		return nil, err
	}
	if p.Tapes, err = parseCount(line, domain.MaxTapes); err != nil {
		return nil, malformed(lr.number, "tape count: %w", err)
	}

	if line, err = lr.header("start state"); err != nil {
		return nil, err
	}
	if p.Start, err = parseStateID(strings.TrimSpace(line), p.States); err != nil {
		return nil, malformed(lr.number, "start state: %w", err)
	}

	if line, err = lr.header("halting states"); err != nil {
		return nil, err
	}
	if p.Halting, err = parseStateIDs(line, p.States); err != nil {
		return nil, malformed(lr.number, "halting states: %w", err)
	}

	if line, err = lr.header("accepting states"); err != nil {
		return nil, err
	}
	if p.Accepting, err = parseStateIDs(line, p.States); err != nil {
		return nil, malformed(lr.number, "accepting states: %w", err)
	}
	for _, id := range p.Accepting {
		if !slices.Contains(p.Halting, id) {
			return nil, malformed(lr.number, "accepting state %d is not a halting state", id)
		}
	}

	for {
		line, ok, err := lr.next()
		if err != nil {
			return nil, fmt.Errorf("read program: %w", err)
		}
		if !ok {
			break
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		t, err := ParseTransition(line, p.States, p.Tapes, alphabet)
		if err != nil {
			return nil, &ParseError{Line: lr.number, Err: err}
		}
		p.Transitions = append(p.Transitions, t)
	}

	if err := p.Validate(alphabet); err != nil {
		return nil, err
	}
	return p, nil
}

// ParseString is Parse over a string.
func ParseString(src string, alphabet domain.Alphabet) (*domain.Program, error) {
	return Parse(strings.NewReader(src), alphabet)
}

// ParseTransition reads one transition line
//
//	q a A0 .. Ak q' d B0 d0 .. Bk dk
//
// for a program with the given number of states and work tapes (k = tapes).
func ParseTransition(line string, states, tapes int, alphabet domain.Alphabet) (domain.Transition, error) {
	fail := func(format string, args ...any) (domain.Transition, error) {
		return domain.Transition{}, fmt.Errorf("%w: %w", domain.ErrMalformedProgram, fmt.Errorf(format, args...))
	}

	if tapes < 0 || tapes > domain.MaxTapes {
		return fail("tape count %d outside 0..%d", tapes, domain.MaxTapes)
	}
	args := strings.Fields(line)
	arity := tapes + 1
	if want := 3*tapes + 7; len(args) != want {
		return fail("want %d fields, got %d", want, len(args))
	}

	var (
		t   domain.Transition
		err error
	)
	if t.Source, err = parseStateID(args[0], states); err != nil {
		return fail("source state: %w", err)
	}
	if t.Input, err = parseSymbol(args[1], alphabet); err != nil {
		return fail("input symbol: %w", err)
	}
	t.Read = make([]domain.Symbol, arity)
	for i := range t.Read {
		if t.Read[i], err = parseSymbol(args[2+i], alphabet); err != nil {
			return fail("tape %d symbol: %w", i, err)
		}
	}

	pos := 2 + arity
	if t.Target, err = parseStateID(args[pos], states); err != nil {
		return fail("target state: %w", err)
	}
	if t.InputMove, err = domain.ParseMove(args[pos+1]); err != nil {
		return fail("input move: %w", err)
	}

	t.Write = make([]domain.Symbol, arity)
	t.Moves = make([]domain.Move, arity)
	for i := range arity {
		at := pos + 2 + 2*i
		if t.Write[i], err = parseSymbol(args[at], alphabet); err != nil {
			return fail("tape %d write: %w", i, err)
		}
		if t.Moves[i], err = domain.ParseMove(args[at+1]); err != nil {
			return fail("tape %d move: %w", i, err)
		}
	}
	return t, nil
}

func parseCount(s string, limit int) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("negative count %d", n)
	}
	if n > limit {
		return 0, fmt.Errorf("count %d exceeds limit %d", n, limit)
	}
	return n, nil
}

func parseStateID(s string, states int) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if id < 0 || id >= states {
		return 0, fmt.Errorf("%w: %d (have %d states)", domain.ErrUnknownState, id, states)
	}
	return id, nil
}

func parseStateIDs(line string, states int) ([]int, error) {
	var ids []int
	for _, f := range strings.Fields(line) {
		id, err := parseStateID(f, states)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(ids, id) {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func parseSymbol(s string, alphabet domain.Alphabet) (domain.Symbol, error) {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 || size != len(s) {
		return 0, fmt.Errorf("%q is not a single character", s)
	}
	sym := domain.Symbol(r)
	if !alphabet.Contains(sym) {
		return 0, fmt.Errorf("%w: %q", domain.ErrInvalidSymbol, s)
	}
	return sym, nil
}
