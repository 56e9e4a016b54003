package text_test

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/dtm/internal/runtime"
	"github.com/aretw0/dtm/pkg/adapters/text"
	"github.com/aretw0/dtm/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_File(t *testing.T) {
	f, err := os.Open("testdata/anbn.tm")
	require.NoError(t, err)
	defer f.Close()

	p, err := text.Parse(f, domain.DefaultAlphabet)
	require.NoError(t, err)

	assert.Equal(t, "anbn", p.Name)
	assert.Equal(t, "accepts a^n b^n using a counter on work tape 1", p.Description)
	assert.Equal(t, 4, p.States)
	assert.Equal(t, 1, p.Tapes)
	assert.Equal(t, 0, p.Start)
	assert.Equal(t, []int{2}, p.Halting)
	assert.Equal(t, []int{2}, p.Accepting)
	require.Len(t, p.Transitions, 6)
	assert.Equal(t, "(0, a, ~, ~) -> (3, +1, ~, 0, a, +1)", p.Transitions[0].String())

	m := runtime.Load(p)
	assert.True(t, m.Decide("aabb"))
	assert.False(t, m.Decide("aab"))
	assert.False(t, m.Decide("a"))
}

func TestParse_Copy(t *testing.T) {
	data, err := os.ReadFile("testdata/copy.tm")
	require.NoError(t, err)

	p, err := text.ParseString(string(data), domain.DefaultAlphabet)
	require.NoError(t, err)
	assert.Equal(t, "abba", runtime.Load(p).Transform("abba"))
}

func TestParse_EmptySets(t *testing.T) {
	p, err := text.ParseString("1\n0\n0\n\n\n", domain.DefaultAlphabet)
	require.NoError(t, err)
	assert.Empty(t, p.Halting)
	assert.Empty(t, p.Accepting)
	assert.Empty(t, p.Transitions)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		wantLine int
		wantErr  error
	}{
		{"Empty", "", 1, domain.ErrMalformedProgram},
		{"Bad state count", "x\n", 1, domain.ErrMalformedProgram},
		{"Negative tapes", "2\n-1\n", 2, domain.ErrMalformedProgram},
		{"Start out of range", "2\n0\n2\n", 3, domain.ErrUnknownState},
		{"Missing accepting line", "2\n0\n0\n1\n", 5, domain.ErrMalformedProgram},
		{"Accepting not halting", "2\n0\n0\n1\n0\n", 5, domain.ErrMalformedProgram},
		{"Comments count lines", "# c\n2\n0\n0\n1\n1\n0 a ~ 1 0 ~\n", 7, domain.ErrMalformedProgram},
		{"Bad symbol", "2\n0\n0\n1\n1\n0 A ~ 1 0 ~ 0\n", 6, domain.ErrInvalidSymbol},
		{"Long symbol", "2\n0\n0\n1\n1\n0 ab ~ 1 0 ~ 0\n", 6, domain.ErrMalformedProgram},
		{"Bad move", "2\n0\n0\n1\n1\n0 a ~ 1 2 ~ 0\n", 6, domain.ErrMalformedProgram},
		{"Target out of range", "2\n0\n0\n1\n1\n0 a ~ 7 0 ~ 0\n", 6, domain.ErrUnknownState},
		{"Tape count overflow", "1\n9223372036854775807\n0\n0\n0\n", 2, domain.ErrMalformedProgram},
		{"Tape count over limit", "1\n65\n0\n0\n0\n", 2, domain.ErrMalformedProgram},
		{"State count over limit", "1048577\n0\n0\n0\n0\n", 1, domain.ErrMalformedProgram},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := text.ParseString(tt.src, domain.DefaultAlphabet)
			require.Error(t, err)

			var perr *text.ParseError
			require.True(t, errors.As(err, &perr), "want *ParseError, got %T: %v", err, err)
			assert.Equal(t, tt.wantLine, perr.Line)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestParseTransition_TapeLimit(t *testing.T) {
	_, err := text.ParseTransition("0 a ~ 0 0 ~ 0", 1, math.MaxInt, domain.DefaultAlphabet)
	assert.ErrorIs(t, err, domain.ErrMalformedProgram)
}

func TestParse_LargeProgram(t *testing.T) {
	const n = 60000
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d\n0\n0\n%d\n%d\n", n+1, n, n)
	for i := range n {
		fmt.Fprintf(&sb, "%d a ~ %d +1 ~ 0\n", i, i+1)
	}

	start := time.Now()
	p, err := text.ParseString(sb.String(), domain.DefaultAlphabet)
	require.NoError(t, err)
	assert.Len(t, p.Transitions, n)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestParse_NonDeterministic(t *testing.T) {
	src := "2\n0\n0\n1\n1\n0 a ~ 1 0 ~ 0\n0 a ~ 0 +1 b 0\n"
	_, err := text.ParseString(src, domain.DefaultAlphabet)
	assert.ErrorIs(t, err, domain.ErrNonDeterministic)
}

func TestParse_CustomAlphabet(t *testing.T) {
	binary := domain.Alphabet{First: '0', Last: '1', Blank: '_'}
	src := "2\n0\n0\n1\n1\n0 _ _ 1 0 1 0\n"

	p, err := text.ParseString(src, binary)
	require.NoError(t, err)
	assert.Equal(t, "1", runtime.Load(p, runtime.WithAlphabet(binary)).Transform(""))

	_, err = text.ParseString(src, domain.DefaultAlphabet)
	assert.ErrorIs(t, err, domain.ErrInvalidSymbol)
}

func TestFormat_RoundTrip(t *testing.T) {
	data, err := os.ReadFile("testdata/anbn.tm")
	require.NoError(t, err)
	p, err := text.ParseString(string(data), domain.DefaultAlphabet)
	require.NoError(t, err)

	out := text.FormatString(p)
	assert.Equal(t, string(data), out)

	again, err := text.ParseString(out, domain.DefaultAlphabet)
	require.NoError(t, err)
	assert.Equal(t, p, again)
}
