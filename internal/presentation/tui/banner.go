package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the Trove ASCII banner to w.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()
	// Warm gold to copper, like a chest opening
	lines := []struct{ text, color string }{
		{"  _____                    ", "#fde047"},
		{" |_   _| __ _____   _____  ", "#facc15"},
		{"   | || '__/ _ \\ \\ / / _ \\ ", "#eab308"},
		{"   | || | | (_) \\ V /  __/ ", "#d97706"},
		{"   |_||_|  \\___/ \\_/ \\___| ", "#b45309"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
