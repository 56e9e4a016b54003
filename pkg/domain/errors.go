package domain

import "errors"

var (
	// ErrMalformedProgram is returned by loaders for unparsable program text.
	ErrMalformedProgram = errors.New("malformed program")

	// ErrInvalidAlphabet is returned when an alphabet has an empty range or a
	// blank inside the range.
	ErrInvalidAlphabet = errors.New("invalid alphabet")

	// ErrInvalidSymbol is returned when a program uses a symbol outside the alphabet.
	ErrInvalidSymbol = errors.New("symbol not in alphabet")

	// ErrInvalidWord is returned when an input word contains non-alphabet runes.
	ErrInvalidWord = errors.New("word not in alphabet")

	// ErrUnknownState is returned when a state id is out of range.
	ErrUnknownState = errors.New("unknown state")

	// ErrTapeArity is returned when a transition tuple does not cover every work tape.
	ErrTapeArity = errors.New("wrong number of tape entries")

	// ErrNonDeterministic is returned when two transitions of a state share a guard.
	ErrNonDeterministic = errors.New("non-deterministic program")

	// ErrProgramNotFound is returned by stores for unknown program names.
	ErrProgramNotFound = errors.New("program not found")
)
