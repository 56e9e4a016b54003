package cli_test

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aretw0/dtm/internal/cli"
	"github.com/aretw0/dtm/internal/testutils"
	"github.com/aretw0/dtm/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// transcript feeds script to a fresh non-interactive shell and returns its output lines.
func transcript(t *testing.T, script string, cfg cli.Config) []string {
	t.Helper()
	var out bytes.Buffer
	sh := cli.NewShell(strings.NewReader(script), &out, cfg)
	require.NoError(t, sh.Run(context.Background()))
	return strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
}

func TestShell_Session(t *testing.T) {
	dir := testutils.WriteFiles(t, map[string]string{
		"copy.tm": testutils.CopyText,
		"anbn.tm": testutils.AnbnText,
	})

	script := strings.Join([]string{
		"insert " + filepath.Join(dir, "copy.tm"),
		"run abba",
		"R",
		"insert " + filepath.Join(dir, "anbn.tm"),
		"check aabb",
		"CHECK aab",
		"c",
		"quit",
		"run never",
	}, "\n")

	assert.Equal(t, []string{
		"abba",
		"",
		"accept",
		"reject",
		"accept",
	}, transcript(t, script, cli.Config{}))
}

func TestShell_Errors(t *testing.T) {
	dir := testutils.WriteFiles(t, map[string]string{
		"copy.tm":   testutils.CopyText,
		"broken.tm": "2\n0\n",
	})

	tests := []struct {
		name   string
		script string
		want   string
	}{
		{"Unknown command", "xyzzy", "Error! Unknown command."},
		{"Run without machine", "run ab", "Error! No machine loaded!"},
		{"Check without machine", "check", "Error! No machine loaded!"},
		{"Insert without file", "insert", "Error! Wrong amount of input!"},
		{"Missing file", "insert " + filepath.Join(dir, "ghost.tm"), "Error! No file found!"},
		{"Malformed file", "insert " + filepath.Join(dir, "broken.tm"), "Error! Parsing not possible!"},
		{"Word outside alphabet", "i " + filepath.Join(dir, "copy.tm") + "\nrun aXb", "Error! Not matching the alphabet!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := transcript(t, tt.script, cli.Config{})
			require.NotEmpty(t, lines)
			assert.True(t, strings.HasPrefix(lines[len(lines)-1], tt.want), "got %q", lines[len(lines)-1])
		})
	}
}

func TestShell_ErrorKeepsPreviousMachine(t *testing.T) {
	dir := testutils.WriteFiles(t, map[string]string{"copy.tm": testutils.CopyText})

	lines := transcript(t, "insert "+filepath.Join(dir, "copy.tm")+"\ninsert nowhere.tm\nrun ab\n", cli.Config{})
	assert.Equal(t, []string{"Error! No file found!", "ab"}, lines)
}

func TestShell_Print(t *testing.T) {
	dir := testutils.WriteFiles(t, map[string]string{"copy.tm": testutils.CopyText})

	lines := transcript(t, "print\ninsert "+filepath.Join(dir, "copy.tm")+"\np\n", cli.Config{})
	assert.Equal(t, []string{
		"",
		"(0, a, ~) -> (0, +1, a, +1)",
		"(0, b, ~) -> (0, +1, b, +1)",
		"(0, ~, ~) -> (1, 0, ~, 0)",
	}, lines)
}

func TestShell_Help(t *testing.T) {
	var out bytes.Buffer
	sh := cli.NewShell(strings.NewReader("help\n"), &out, cli.Config{})
	require.NoError(t, sh.Run(context.Background()))

	for _, cmd := range []string{"insert <file>", "run [word]", "check [word]", "print", "quit"} {
		assert.Contains(t, out.String(), cmd)
	}
}

func TestShell_Interactive(t *testing.T) {
	var out bytes.Buffer
	sh := cli.NewShell(strings.NewReader("q\n"), &out, cli.Config{}, cli.WithInteractive(true))
	require.NoError(t, sh.Run(context.Background()))

	assert.True(t, strings.HasSuffix(out.String(), cli.Prompt), "prompt printed before reading")
	assert.Contains(t, out.String(), "deterministic multi-tape Turing machine")
}

func TestShell_CustomAlphabet(t *testing.T) {
	flip := "2\n0\n0\n1\n1\n0 0 _ 0 +1 1 +1\n0 1 _ 0 +1 0 +1\n0 _ _ 1 0 _ 0\n"
	dir := testutils.WriteFiles(t, map[string]string{"flip.tm": flip})
	cfg := cli.Config{Alphabet: domain.Alphabet{First: '0', Last: '1', Blank: '_'}}

	lines := transcript(t, "insert "+filepath.Join(dir, "flip.tm")+"\nrun 0110\nrun ab\n", cfg)
	assert.Equal(t, []string{"1001", "Error! Not matching the alphabet!"}, lines)
}

func TestShell_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sh := cli.NewShell(strings.NewReader("help\n"), &bytes.Buffer{}, cli.Config{})
	assert.ErrorIs(t, sh.Run(ctx), context.Canceled)
}

func TestIsInteractive(t *testing.T) {
	assert.False(t, cli.IsInteractive(strings.NewReader("")))
}
