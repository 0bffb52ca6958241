package tui

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// renderMarkdown renders the comment preview with a glamour standard style.
// Falls back to the raw text if rendering fails.
func renderMarkdown(text, style string, wrapWidth int) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(wrapWidth),
	)
	if err != nil {
		return text
	}
	out, err := r.Render(text)
	if err != nil {
		return text
	}
	return strings.Trim(out, "\n")
}
