package loam_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/dtm/internal/runtime"
	"github.com/aretw0/dtm/internal/testutils"
	loamAdapter "github.com/aretw0/dtm/pkg/adapters/loam"
	"github.com/aretw0/dtm/pkg/adapters/text"
	"github.com/aretw0/dtm/pkg/domain"
	"github.com/aretw0/dtm/pkg/ports/tests"
	"github.com/aretw0/loam"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const anbnDoc = `---
description: accepts a^n b^n
states: 4
tapes: 1
start: 0
halting: [2]
accepting: [2]
---
# Transitions

` + "```" + `
0 a ~ ~ 3 +1 ~ 0 a +1
3 a ~ ~ 3 +1 ~ 0 a +1
3 b ~ ~ 1 0 ~ 0 ~ -1
0 ~ ~ ~ 2 0 ~ 0 ~ 0
1 b ~ a 1 +1 ~ 0 ~ -1
1 ~ ~ ~ 2 0 ~ 0 ~ 0
` + "```" + `
`

const haltDoc = `---
states: 1
tapes: 0
start: 0
halting: [0]
accepting: []
---
`

func TestLibrary_Load(t *testing.T) {
	dir := testutils.WriteFiles(t, map[string]string{
		"anbn.md": anbnDoc,
		"halt.md": haltDoc,
	})

	lib, err := loamAdapter.Open(dir)
	require.NoError(t, err)
	ctx := context.Background()

	p, err := lib.Load(ctx, "anbn")
	require.NoError(t, err)
	assert.Equal(t, "anbn", p.Name)
	assert.Equal(t, "accepts a^n b^n", p.Description)
	assert.Equal(t, []int{2}, p.Halting)
	require.Len(t, p.Transitions, 6)

	m := runtime.Load(p)
	assert.True(t, m.Decide("aabb"))
	assert.False(t, m.Decide("abb"))

	halt, err := lib.Load(ctx, "halt")
	require.NoError(t, err)
	assert.Empty(t, halt.Transitions)
	assert.Equal(t, "", runtime.Load(halt).Transform("ab"))
}

func TestLibrary_List(t *testing.T) {
	dir := testutils.WriteFiles(t, map[string]string{
		"zeta.md":  haltDoc,
		"anbn.md":  anbnDoc,
		"alpha.md": haltDoc,
	})

	lib, err := loamAdapter.Open(dir)
	require.NoError(t, err)

	names, err := lib.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "anbn", "zeta"}, names)
}

func TestLibrary_Contract(t *testing.T) {
	dir := testutils.WriteFiles(t, map[string]string{
		"anbn.md": anbnDoc,
		"halt.md": haltDoc,
	})

	lib, err := loamAdapter.Open(dir)
	require.NoError(t, err)

	tests.ProgramSourceContractTest(t, lib, map[string]int{"anbn": 6, "halt": 0})
}

func TestLibrary_ProseOutsideFences(t *testing.T) {
	doc := "---\nstates: 2\ntapes: 0\nstart: 0\nhalting: [1]\naccepting: [1]\n---\n" +
		"Moves to the accepting state on any input.\n\n```\n0 ~ ~ 1 0 ~ 0\n```\n\nNothing else happens.\n"
	dir := testutils.WriteFiles(t, map[string]string{"prose.md": doc})

	lib, err := loamAdapter.Open(dir)
	require.NoError(t, err)

	p, err := lib.Load(context.Background(), "prose")
	require.NoError(t, err)
	require.Len(t, p.Transitions, 1)
	assert.Equal(t, 1, p.Transitions[0].Target)
}

func TestLibrary_Errors(t *testing.T) {
	dir := testutils.WriteFiles(t, map[string]string{
		"badline.md": "---\nstates: 1\ntapes: 0\nstart: 0\nhalting: []\naccepting: []\n---\n0 a ~ 0\n",
		"noheader.md": "---\ndescription: nothing\n---\n",
	})

	lib, err := loamAdapter.Open(dir)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = lib.Load(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrProgramNotFound)

	_, err = lib.Load(ctx, "badline")
	assert.ErrorIs(t, err, domain.ErrMalformedProgram)
	var perr *text.ParseError
	assert.True(t, errors.As(err, &perr))

	_, err = lib.Load(ctx, "noheader")
	assert.ErrorIs(t, err, domain.ErrMalformedProgram)
}

func TestLibrary_Save(t *testing.T) {
	dir := testutils.WriteFiles(t, nil)
	repo, err := loam.Init(dir, loam.WithVersioning(false), loam.WithForceTemp(false))
	require.NoError(t, err)
	lib := loamAdapter.New(loam.NewTypedRepository[loamAdapter.ProgramMetadata](repo))

	p, err := text.ParseString(testutils.AnbnText, domain.DefaultAlphabet)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, lib.Save(ctx, "counter", p))

	loaded, err := lib.Load(ctx, "counter")
	require.NoError(t, err)
	assert.Equal(t, "counter", loaded.Name)
	assert.Equal(t, p.Transitions, loaded.Transitions)
	assert.Equal(t, p.Halting, loaded.Halting)
}
