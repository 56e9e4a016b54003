// Package yamlprog reads and writes programs as YAML documents.
//
// A document carries the program header as plain fields and its transitions
// as a list of strings in the text transition-line syntax:
//
//	name: anbn
//	states: 4
//	tapes: 1
//	start: 0
//	halting: [2]
//	accepting: [2]
//	transitions:
//	  - 0 a ~ ~ 3 +1 ~ 0 a +1
//	  - 3 a ~ ~ 3 +1 ~ 0 a +1
package yamlprog

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/aretw0/dtm/pkg/adapters/text"
	"github.com/aretw0/dtm/pkg/domain"
	"gopkg.in/yaml.v3"
)

type document struct {
	Name        string      `yaml:"name,omitempty"`
	Description string      `yaml:"description,omitempty"`
	States      int         `yaml:"states"`
	Tapes       int         `yaml:"tapes"`
	Start       int         `yaml:"start"`
	Halting     []int       `yaml:"halting,flow"`
	Accepting   []int       `yaml:"accepting,flow"`
	Transitions []yaml.Node `yaml:"transitions"`
}

type output struct {
	Name        string   `yaml:"name,omitempty"`
	Description string   `yaml:"description,omitempty"`
	States      int      `yaml:"states"`
	Tapes       int      `yaml:"tapes"`
	Start       int      `yaml:"start"`
	Halting     []int    `yaml:"halting,flow"`
	Accepting   []int    `yaml:"accepting,flow"`
	Transitions []string `yaml:"transitions"`
}

// Decode reads one YAML program document from r and validates it against
// alphabet. Unknown fields are rejected. Transition errors are reported as
// *text.ParseError carrying the YAML line number.
func Decode(r io.Reader, alphabet domain.Alphabet) (*domain.Program, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", domain.ErrMalformedProgram)
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrMalformedProgram, err)
	}
	if doc.States <= 0 {
		return nil, fmt.Errorf("%w: states must be positive, got %d", domain.ErrMalformedProgram, doc.States)
	}
	if doc.Tapes < 0 {
		return nil, fmt.Errorf("%w: tapes must not be negative, got %d", domain.ErrMalformedProgram, doc.Tapes)
	}

	p := &domain.Program{
		Name:        doc.Name,
		Description: doc.Description,
		States:      doc.States,
		Tapes:       doc.Tapes,
		Start:       doc.Start,
		Halting:     doc.Halting,
		Accepting:   doc.Accepting,
	}
	if err := p.CheckLimits(); err != nil {
		return nil, err
	}
	for _, node := range doc.Transitions {
		if node.Kind != yaml.ScalarNode {
			return nil, &text.ParseError{Line: node.Line, Err: fmt.Errorf("%w: transition must be a string", domain.ErrMalformedProgram)}
		}
		t, err := text.ParseTransition(node.Value, p.States, p.Tapes, alphabet)
		if err != nil {
			return nil, &text.ParseError{Line: node.Line, Err: err}
		}
		p.Transitions = append(p.Transitions, t)
	}

	if err := p.Validate(alphabet); err != nil {
		return nil, err
	}
	return p, nil
}

// Parse decodes a YAML program from data.
func Parse(data []byte, alphabet domain.Alphabet) (*domain.Program, error) {
	return Decode(bytes.NewReader(data), alphabet)
}

// Encode writes p as a YAML document.
func Encode(w io.Writer, p *domain.Program) error {
	out := output{
		Name:        p.Name,
		Description: p.Description,
		States:      p.States,
		Tapes:       p.Tapes,
		Start:       p.Start,
		Halting:     p.Halting,
		Accepting:   p.Accepting,
		Transitions: make([]string, len(p.Transitions)),
	}
	for i, t := range p.Transitions {
		out.Transitions[i] = text.FormatTransition(t)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode program: %w", err)
	}
	return enc.Close()
}

// Marshal returns p as a YAML document.
func Marshal(p *domain.Program) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, p); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
