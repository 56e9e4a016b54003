package text

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/aretw0/dtm/pkg/domain"
)

// Format writes p in the format read by Parse. Name and description are
// emitted as leading comment directives.
func Format(w io.Writer, p *domain.Program) error {
	bw := bufio.NewWriter(w)

	if p.Name != "" {
		bw.WriteString("# " + nameDirective + " " + p.Name + "\n")
	}
	if p.Description != "" {
		bw.WriteString("# " + descriptionDirective + " " + strings.ReplaceAll(p.Description, "\n", " ") + "\n")
	}

	bw.WriteString(strconv.Itoa(p.States) + "\n")
	bw.WriteString(strconv.Itoa(p.Tapes) + "\n")
	bw.WriteString(strconv.Itoa(p.Start) + "\n")
	bw.WriteString(joinIDs(p.Halting) + "\n")
	bw.WriteString(joinIDs(p.Accepting) + "\n")

	for _, t := range p.Transitions {
		bw.WriteString(FormatTransition(t) + "\n")
	}
	return bw.Flush()
}

// FormatString returns the formatted program.
func FormatString(p *domain.Program) string {
	var sb strings.Builder
	_ = Format(&sb, p)
	return sb.String()
}

// FormatTransition renders t as a transition line.
func FormatTransition(t domain.Transition) string {
	fields := make([]string, 0, 4+3*len(t.Read))
	fields = append(fields, strconv.Itoa(t.Source), t.Input.String())
	for _, s := range t.Read {
		fields = append(fields, s.String())
	}
	fields = append(fields, strconv.Itoa(t.Target), t.InputMove.String())
	for i, s := range t.Write {
		fields = append(fields, s.String(), t.Moves[i].String())
	}
	return strings.Join(fields, " ")
}

func joinIDs(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, " ")
}
