/*
Package dsl provides a fluent Go builder for Turing machine programs.

It is an alternative to the text and YAML program files when a machine is
generated from code or written inline in a test:

	b := dsl.New("copy")
	b.State(1).Accept()
	b.State(0).Start().
		On('a').Write('a').Move(domain.Right).Shift(domain.Right).Go(0).
		On('b').Write('b').Move(domain.Right).Shift(domain.Right).Go(0).
		On('~').Go(1)

	p, err := b.Build()
	// ... pass p to dtm.New(p)

Reads default to blank, writes default to the symbol read and moves default
to Stay. The blank is '~' unless set with Builder.Blank; pass the matching
alphabet to BuildFor when it is not the default one.
*/
package dsl
