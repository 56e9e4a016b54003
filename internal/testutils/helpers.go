package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// AnbnText accepts a^n b^n, counting a's on work tape 1.
const AnbnText = `# name: anbn
# description: accepts a^n b^n
4
1
0
2
2
0 a ~ ~ 3 +1 ~ 0 a +1
3 a ~ ~ 3 +1 ~ 0 a +1
3 b ~ ~ 1 0 ~ 0 ~ -1
0 ~ ~ ~ 2 0 ~ 0 ~ 0
1 b ~ a 1 +1 ~ 0 ~ -1
1 ~ ~ ~ 2 0 ~ 0 ~ 0
`

// CopyText copies a word over {a, b} to the output tape.
const CopyText = `# name: copy
2
0
0
1
1
0 a ~ 0 +1 a +1
0 b ~ 0 +1 b +1
0 ~ ~ 1 0 ~ 0
`

// WriteFiles creates a temporary directory holding files (name -> content)
// and returns its absolute path. It fails the test immediately on error.
func WriteFiles(t *testing.T, files map[string]string) string {
	t.Helper()

	dir, err := filepath.Abs(t.TempDir())
	require.NoError(t, err, "Failed to get absolute path for temp dir")

	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644), "Failed to write %s", name)
	}
	return dir
}
