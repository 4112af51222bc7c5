package tui

import (
	"os"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"
)

// NewRenderer returns a function that renders markdown for the terminal.
// Outside a TTY (pipes, CI) the markdown is passed through untouched.
func NewRenderer() func(string) string {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return func(markdown string) string { return markdown }
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return func(markdown string) string { return markdown }
	}
	return func(markdown string) string {
		out, err := r.Render(markdown)
		if err != nil {
			return markdown
		}
		return out
	}
}
