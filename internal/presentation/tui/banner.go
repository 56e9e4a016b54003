package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the dtm ASCII art banner followed by the version.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)

	// Indigo to rose, one shade per line.
	lines := []struct{ text, color string }{
		{"      _ _", "#818cf8"},
		{"   __| | |_ _ __ ___", "#a78bfa"},
		{"  / _` | __| '_ ` _ \\", "#c084fc"},
		{" | (_| | |_| | | | | |", "#e879f9"},
		{"  \\__,_|\\__|_| |_| |_|", "#f472b6"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	fmt.Fprintln(w, out.String(fmt.Sprintf("  deterministic multi-tape Turing machine v%s", version)).Faint())
	fmt.Fprintln(w)
}
