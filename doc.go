/*
Package dtm is a deterministic multi-tape Turing machine engine.

A machine has one read-only input tape and one or more work tapes; work tape 0
is the output tape. Tapes grow with blank cells on demand at either end. In
each step the machine looks up the single transition whose guard matches the
current state, the input symbol and the symbols under every work head, then
writes, moves and changes state. A run ends when the active state is halting
or accepting, or when no transition matches.

# Programs

Programs are loaded from a line-oriented text format (see package
pkg/adapters/text), from YAML documents (pkg/adapters/yamlprog) or built in Go
with the fluent builder in pkg/dsl, and validated before use: state ids must be in range, every symbol must belong to
the alphabet and no two transitions of a state may share a guard.

# Usage

	eng, err := dtm.Open("anbn.tm")
	if err != nil {
		log.Fatal(err)
	}

	ok, err := eng.Check(ctx, "aabb")     // decide membership
	out, err := eng.Simulate(ctx, "abba") // transform to the output tape

Simulate and Check honor context cancellation, so a diverging program can be
bounded with context.WithTimeout.

# Observability

Lifecycle hooks (WithLifecycleHooks) receive run start, step and halt events.
Package pkg/observability turns them into Prometheus metrics.
*/
package dtm
