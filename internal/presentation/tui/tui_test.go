package tui_test

import (
	"bytes"
	"testing"

	"github.com/aretw0/dtm/internal/presentation/tui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStyler_PlainWriter(t *testing.T) {
	// A bytes.Buffer is not a terminal, so no escape sequences are emitted.
	s := tui.NewStyler(&bytes.Buffer{})

	assert.Equal(t, "accept", s.Verdict(true))
	assert.Equal(t, "reject", s.Verdict(false))
	assert.Equal(t, "Error! boom", s.Error("boom"))
	assert.Equal(t, "dtm> ", s.Prompt("dtm> "))
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	tui.PrintBanner(&buf, "1.2.3")

	assert.Contains(t, buf.String(), "v1.2.3")
	assert.NotContains(t, buf.String(), "\x1b[")
}

func TestRenderer(t *testing.T) {
	render := tui.NewRenderer()
	out, err := render("# Commands\n\n`quit` leaves the shell")
	require.NoError(t, err)
	assert.Contains(t, out, "Commands")

	plain, err := tui.PlainRenderer("**x**")
	require.NoError(t, err)
	assert.Equal(t, "**x**", plain)
}
