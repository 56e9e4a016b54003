package yamlprog_test

import (
	"errors"
	"os"
	"testing"

	"github.com/aretw0/dtm/internal/runtime"
	"github.com/aretw0/dtm/pkg/adapters/text"
	"github.com/aretw0/dtm/pkg/adapters/yamlprog"
	"github.com/aretw0/dtm/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_MatchesTextFormat(t *testing.T) {
	data, err := os.ReadFile("testdata/anbn.yaml")
	require.NoError(t, err)
	fromYAML, err := yamlprog.Parse(data, domain.DefaultAlphabet)
	require.NoError(t, err)

	src, err := os.ReadFile("../text/testdata/anbn.tm")
	require.NoError(t, err)
	fromText, err := text.ParseString(string(src), domain.DefaultAlphabet)
	require.NoError(t, err)

	assert.Equal(t, fromText, fromYAML)

	m := runtime.Load(fromYAML)
	assert.True(t, m.Decide("ab"))
	assert.False(t, m.Decide("ba"))
}

func TestMarshal_RoundTrip(t *testing.T) {
	data, err := os.ReadFile("testdata/anbn.yaml")
	require.NoError(t, err)
	p, err := yamlprog.Parse(data, domain.DefaultAlphabet)
	require.NoError(t, err)

	out, err := yamlprog.Marshal(p)
	require.NoError(t, err)
	assert.Contains(t, string(out), "halting: [2]")
	assert.Contains(t, string(out), "- 1 b ~ a 1 +1 ~ 0 ~ -1")

	again, err := yamlprog.Parse(out, domain.DefaultAlphabet)
	require.NoError(t, err)
	assert.Equal(t, p, again)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantErr error
	}{
		{"Empty", "", domain.ErrMalformedProgram},
		{"Unknown field", "states: 1\ntapes: 0\nstart: 0\nloops: 3\n", domain.ErrMalformedProgram},
		{"No states", "states: 0\ntapes: 0\nstart: 0\n", domain.ErrMalformedProgram},
		{"Negative tapes", "states: 1\ntapes: -2\nstart: 0\n", domain.ErrMalformedProgram},
		{"Start out of range", "states: 1\ntapes: 0\nstart: 4\n", domain.ErrUnknownState},
		{"Accepting not halting", "states: 2\ntapes: 0\nstart: 0\nhalting: [1]\naccepting: [0]\n", domain.ErrMalformedProgram},
		{"Bad symbol", "states: 1\ntapes: 0\nstart: 0\ntransitions:\n  - 0 A ~ 0 0 ~ 0\n", domain.ErrInvalidSymbol},
		{"Duplicate guard", "states: 1\ntapes: 0\nstart: 0\ntransitions:\n  - 0 a ~ 0 0 ~ 0\n  - 0 a ~ 0 +1 ~ 0\n", domain.ErrNonDeterministic},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := yamlprog.Parse([]byte(tt.src), domain.DefaultAlphabet)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestParse_TransitionLine(t *testing.T) {
	src := "states: 1\ntapes: 0\nstart: 0\ntransitions:\n  - 0 a ~ 0 0 ~ 0\n  - 0 b ~ 0 0\n"

	_, err := yamlprog.Parse([]byte(src), domain.DefaultAlphabet)
	require.Error(t, err)

	var perr *text.ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, 6, perr.Line)
	assert.ErrorIs(t, err, domain.ErrMalformedProgram)
}

func TestParse_NestedTransition(t *testing.T) {
	src := "states: 1\ntapes: 0\nstart: 0\ntransitions:\n  - [0, a]\n"

	_, err := yamlprog.Parse([]byte(src), domain.DefaultAlphabet)
	assert.ErrorIs(t, err, domain.ErrMalformedProgram)
}
