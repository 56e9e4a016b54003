package cli_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/dtm/internal/cli"
	"github.com/aretw0/dtm/internal/testutils"
	"github.com/aretw0/dtm/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenStore_Writable(t *testing.T) {
	mr := miniredis.RunT(t)
	seedDir := testutils.WriteFiles(t, map[string]string{
		"copy.tm":    testutils.CopyText,
		"anbn.tm":    testutils.AnbnText,
		"README.txt": "not a program",
	})

	locations := map[string]string{
		"Memory": "memory",
		"Redis":  "redis://" + mr.Addr() + "/0",
		"SQLite": "sqlite:" + filepath.Join(t.TempDir(), "programs.db"),
	}

	for name, location := range locations {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store, err := cli.OpenStore(ctx, location, domain.DefaultAlphabet)
			require.NoError(t, err)
			defer store.Close()

			writable, ok := store.Writable()
			require.True(t, ok)
			assert.Nil(t, store.Library)

			names, err := cli.Seed(ctx, writable, seedDir, domain.DefaultAlphabet, nil)
			require.NoError(t, err)
			assert.Equal(t, []string{"anbn", "copy"}, names)

			listed, err := store.List(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{"anbn", "copy"}, listed)

			p, err := store.Load(ctx, "anbn")
			require.NoError(t, err)
			assert.Equal(t, 4, p.States)
		})
	}
}

func TestOpenStore_Library(t *testing.T) {
	dir := testutils.WriteFiles(t, map[string]string{
		"halt.md": "---\nstates: 1\ntapes: 0\nstart: 0\nhalting: [0]\naccepting: [0]\n---\n",
	})

	store, err := cli.OpenStore(context.Background(), dir, domain.DefaultAlphabet)
	require.NoError(t, err)
	defer store.Close()

	require.NotNil(t, store.Library)
	_, ok := store.Writable()
	assert.False(t, ok, "libraries are read-only")

	names, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"halt"}, names)
}

func TestOpenStore_Errors(t *testing.T) {
	ctx := context.Background()
	file := filepath.Join(testutils.WriteFiles(t, map[string]string{"x.tm": testutils.CopyText}), "x.tm")

	for _, location := range []string{
		"redis://127.0.0.1:1/0",
		"redis://%zz",
		filepath.Join(t.TempDir(), "missing"),
		file,
	} {
		_, err := cli.OpenStore(ctx, location, domain.DefaultAlphabet)
		assert.Error(t, err, location)
	}
}

func TestSeed_ReportsBrokenFiles(t *testing.T) {
	dir := testutils.WriteFiles(t, map[string]string{
		"copy.tm":   testutils.CopyText,
		"broken.tm": "1\n0\n5\n",
	})
	store, err := cli.OpenStore(context.Background(), "memory", domain.DefaultAlphabet)
	require.NoError(t, err)
	writable, _ := store.Writable()

	names, err := cli.Seed(context.Background(), writable, dir, domain.DefaultAlphabet, nil)
	assert.Error(t, err)
	assert.Equal(t, []string{"copy"}, names)
}
