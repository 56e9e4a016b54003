package domain

import "strings"

// Tape is a one-dimensional, two-way unbounded storage with a read/write head.
//
// Cells are materialized lazily: moving past either end adds exactly one
// blank cell, so the head always addresses an existing cell. Moving right off
// the end appends and advances; moving left off the start prepends and keeps
// the head index, which leaves the new blank under the head.
type Tape struct {
	cells []Symbol
	head  int
	blank Symbol
}

// NewTape returns a tape holding a single blank cell.
func NewTape(blank Symbol) *Tape {
	return &Tape{cells: []Symbol{blank}, blank: blank}
}

// Read returns the symbol under the head.
func (t *Tape) Read() Symbol {
	return t.cells[t.head]
}

// Write replaces the symbol under the head.
func (t *Tape) Write(s Symbol) {
	t.cells[t.head] = s
}

// MoveRight advances the head, appending a blank first when at the last cell.
func (t *Tape) MoveRight() {
	if t.head == len(t.cells)-1 {
		t.cells = append(t.cells, t.blank)
	}
	t.head++
}

// MoveLeft moves the head back one cell. At cell 0 a blank is prepended
// instead and the head index stays 0.
func (t *Tape) MoveLeft() {
	if t.head == 0 {
		t.cells = append(t.cells, 0)
		copy(t.cells[1:], t.cells)
		t.cells[0] = t.blank
		return
	}
	t.head--
}

// Move dispatches on m. Stay is a no-op.
func (t *Tape) Move(m Move) {
	switch m {
	case Left:
		t.MoveLeft()
	case Right:
		t.MoveRight()
	}
}

// Head returns the head index.
func (t *Tape) Head() int { return t.head }

// Len returns the number of materialized cells.
func (t *Tape) Len() int { return len(t.cells) }

// Blank returns the tape's blank sentinel.
func (t *Tape) Blank() Symbol { return t.blank }

// Reset discards all content, leaving a single blank cell under the head.
func (t *Tape) Reset() {
	t.cells = append(t.cells[:0], t.blank)
	t.head = 0
}

// String returns every cell in order, blanks included.
func (t *Tape) String() string {
	var sb strings.Builder
	sb.Grow(len(t.cells))
	for _, c := range t.cells {
		sb.WriteRune(rune(c))
	}
	return sb.String()
}

// InputTape is a tape the transitions can read and move over but never write.
type InputTape struct {
	tape Tape
}

// NewInputTape loads word one symbol per rune. An empty word yields a single
// blank cell.
func NewInputTape(word string, blank Symbol) *InputTape {
	in := &InputTape{tape: Tape{blank: blank}}
	in.Load(word)
	return in
}

// Load replaces the content with word and rewinds the head.
func (in *InputTape) Load(word string) {
	cells := in.tape.cells[:0]
	for _, r := range word {
		cells = append(cells, Symbol(r))
	}
	if len(cells) == 0 {
		cells = append(cells, in.tape.blank)
	}
	in.tape.cells = cells
	in.tape.head = 0
}

// Read returns the symbol under the head.
func (in *InputTape) Read() Symbol { return in.tape.Read() }

// MoveLeft moves the head left; at cell 0 a blank is prepended instead.
func (in *InputTape) MoveLeft() { in.tape.MoveLeft() }

// MoveRight moves the head right, appending a blank past the end.
func (in *InputTape) MoveRight() { in.tape.MoveRight() }

// Move dispatches m to MoveLeft, MoveRight or nothing for Stay.
func (in *InputTape) Move(m Move) { in.tape.Move(m) }

// Head returns the head index.
func (in *InputTape) Head() int { return in.tape.Head() }

// Len returns the number of cells.
func (in *InputTape) Len() int { return in.tape.Len() }

// String returns the untrimmed cell content.
func (in *InputTape) String() string { return in.tape.String() }
