package tests

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/aretw0/dtm/pkg/domain"
	"github.com/aretw0/dtm/pkg/ports"
)

// ProgramSourceContractTest is a reusable test suite that verifies if a read-only
// adapter complies with ports.ProgramSource. want maps every program the source
// holds to its transition count.
func ProgramSourceContractTest(t *testing.T, source ports.ProgramSource, want map[string]int) {
	t.Helper()
	ctx := context.Background()

	// 1. Test Load (Success)
	t.Run("Load_Success", func(t *testing.T) {
		for name, transitions := range want {
			p, err := source.Load(ctx, name)
			if err != nil {
				t.Fatalf("unexpected error loading program %s: %v", name, err)
			}
			if p.Name != name {
				t.Errorf("program loaded as %q, want %q", p.Name, name)
			}
			if len(p.Transitions) != transitions {
				t.Errorf("transition count mismatch for %s. got %d, want %d", name, len(p.Transitions), transitions)
			}
		}
	})

	// 2. Test Load (NotFound)
	t.Run("Load_NotFound", func(t *testing.T) {
		_, err := source.Load(ctx, "non-existent-program")
		if !errors.Is(err, domain.ErrProgramNotFound) {
			t.Errorf("expected ErrProgramNotFound for non-existent program, got %v", err)
		}
	})

	// 3. Test List
	t.Run("List", func(t *testing.T) {
		names, err := source.List(ctx)
		if err != nil {
			t.Fatalf("unexpected error listing programs: %v", err)
		}

		if len(names) != len(want) {
			t.Errorf("expected %d programs, got %d", len(want), len(names))
		}
		if !slices.IsSorted(names) {
			t.Errorf("names are not sorted: %v", names)
		}
		for name := range want {
			if !slices.Contains(names, name) {
				t.Errorf("program %s missing from list", name)
			}
		}
	})
}
