package tui

import (
	"io"

	"github.com/muesli/termenv"
)

// Styler colors shell output. Against a non-terminal writer it emits
// plain text.
type Styler struct {
	out *termenv.Output
}

// NewStyler detects the color profile of w.
func NewStyler(w io.Writer) *Styler {
	return &Styler{out: termenv.NewOutput(w)}
}

// Verdict renders "accept" in green and "reject" in red.
func (s *Styler) Verdict(accepted bool) string {
	if accepted {
		return s.out.String("accept").Foreground(s.out.Color("#22c55e")).Bold().String()
	}
	return s.out.String("reject").Foreground(s.out.Color("#ef4444")).Bold().String()
}

// Error renders the shell's error prefix.
func (s *Styler) Error(msg string) string {
	return s.out.String("Error! ").Foreground(s.out.Color("#ef4444")).String() + msg
}

// Prompt renders the shell prompt.
func (s *Styler) Prompt(p string) string {
	return s.out.String(p).Foreground(s.out.Color("#a78bfa")).String()
}
