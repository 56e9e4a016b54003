package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/dtm/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// contractProgram accepts words that end in 'b'.
func contractProgram() *domain.Program {
	p := &domain.Program{
		Name:        "ends-in-b",
		Description: "accepts words whose last symbol is b",
		States:      3,
		Tapes:       0,
		Start:       0,
		Halting:     []int{2},
		Accepting:   []int{2},
	}
	blank := []domain.Symbol{'~'}
	stay := []domain.Move{domain.Stay}
	p.Add(0, 'a', blank, 0, domain.Right, blank, stay)
	p.Add(0, 'b', blank, 1, domain.Right, blank, stay)
	p.Add(1, 'a', blank, 0, domain.Right, blank, stay)
	p.Add(1, 'b', blank, 1, domain.Right, blank, stay)
	p.Add(1, '~', blank, 2, domain.Stay, blank, stay)
	return p
}

// RunProgramStoreContract runs a suite of tests to verify that a ProgramStore
// implementation adheres to the defined interface contract.
func RunProgramStoreContract(t *testing.T, store ProgramStore) {
	ctx := context.Background()
	name := "contract-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		p := contractProgram()
		require.NoError(t, store.Save(ctx, name, p), "Save should not return error")

		loaded, err := store.Load(ctx, name)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, name, loaded.Name, "programs are named after their key")
		assert.Equal(t, p.States, loaded.States)
		assert.Equal(t, p.Tapes, loaded.Tapes)
		assert.Equal(t, p.Start, loaded.Start)
		assert.Equal(t, p.Halting, loaded.Halting)
		assert.Equal(t, p.Accepting, loaded.Accepting)
		assert.Equal(t, p.Transitions, loaded.Transitions)
		assert.Equal(t, p.Description, loaded.Description)
		require.NoError(t, loaded.Validate(domain.DefaultAlphabet))
	})

	t.Run("Load Isolation", func(t *testing.T) {
		p := contractProgram()
		require.NoError(t, store.Save(ctx, name, p))
		p.Transitions = nil
		p.Halting[0] = 1

		loaded, err := store.Load(ctx, name)
		require.NoError(t, err)
		assert.Len(t, loaded.Transitions, 5, "store must not alias the saved program")
		assert.Equal(t, []int{2}, loaded.Halting)
	})

	t.Run("Overwrite", func(t *testing.T) {
		p := contractProgram()
		p.Description = "second revision"
		require.NoError(t, store.Save(ctx, name, p))

		loaded, err := store.Load(ctx, name)
		require.NoError(t, err)
		assert.Equal(t, "second revision", loaded.Description)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+name)
		assert.ErrorIs(t, err, domain.ErrProgramNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, name, contractProgram()))
		require.NoError(t, store.Delete(ctx, name), "Delete should not return error")

		_, err := store.Load(ctx, name)
		assert.ErrorIs(t, err, domain.ErrProgramNotFound, "Load after Delete should return ErrProgramNotFound")

		assert.NoError(t, store.Delete(ctx, name), "Delete of a missing program is a no-op")
	})

	t.Run("List", func(t *testing.T) {
		id1 := name + "-b"
		id2 := name + "-a"
		require.NoError(t, store.Save(ctx, id1, contractProgram()))
		require.NoError(t, store.Save(ctx, id2, contractProgram()))
		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		names, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, names, id1)
		assert.Contains(t, names, id2)
		assert.IsNonDecreasing(t, names, "names must be sorted")
	})
}
