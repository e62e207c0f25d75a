package ui

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/log"
	"github.com/muesli/reflow/ansi"
)

const helpMarkdown = `# measure

Convert **length**, **weight** and **temperature** values.

| Key | Action |
|-----|--------|
| tab / shift+tab | move between fields |
| ← / → | change the selected option |
| enter | convert |
| ctrl+p | play the spoken result |
| ctrl+s | stop playback |
| ctrl+y | copy the result |
| ? | toggle this help |
| esc | quit |

An empty value converts the category's smallest accepted value. Lengths and
weights start at 0, temperatures at −273.15.

Speech is synthesized after every conversion and only plays on request.
The last five conversions are listed on the right; history is cleared on exit.
`

// renderHelp renders the help page with glamour, falling back to the raw
// markdown when rendering fails.
func renderHelp(style string, width int) string {
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(min(width, 80)),
	)
	if err != nil {
		log.Error("error creating help renderer", "error", err)
		return indent(helpMarkdown, 2)
	}
	out, err := r.Render(helpMarkdown)
	if err != nil {
		log.Error("error rendering help", "error", err)
		return indent(helpMarkdown, 2)
	}

	// Fill up empty cells with spaces for background coloring
	lines := strings.Split(out, "\n")
	for i := range lines {
		n := max(width-ansi.PrintableRuneWidth(lines[i]), 0)
		lines[i] += strings.Repeat(" ", n)
	}
	return helpViewStyle(strings.Join(lines, "\n"))
}

// Lightweight version of reflow's indent function.
func indent(s string, n int) string {
	if n <= 0 || s == "" {
		return s
	}
	l := strings.Split(s, "\n")
	b := strings.Builder{}
	i := strings.Repeat(" ", n)
	for _, v := range l {
		b.WriteString(i + v + "\n")
	}
	return b.String()
}
