// Package render provides terminal markdown rendering for help-style output.
package render

import (
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Renderer renders markdown content for display.
type Renderer interface {
	Render(in string) (string, error)
}

// PlainText returns content as-is. Used as a fallback when glamour
// construction fails.
type PlainText struct{}

func (PlainText) Render(in string) (string, error) { return in, nil }

// IsTTY reports whether stdout is connected to a terminal.
func IsTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

func ttyStyle() ansi.StyleConfig {
	style := styles.LightStyleConfig
	if termenv.HasDarkBackground() {
		style = styles.DarkStyleConfig
	}
	style.Document.BlockPrefix = ""
	return style
}

func asciiStyle() ansi.StyleConfig {
	style := styles.ASCIIStyleConfig
	style.Document.BlockPrefix = ""
	style.Document.Margin = nil
	return style
}

// New returns a renderer appropriate for the current context: a styled
// glamour renderer on a TTY, an ASCII one otherwise, and plain text if
// glamour cannot be constructed.
func New() Renderer {
	style := ttyStyle()
	if !IsTTY() {
		style = asciiStyle()
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStyles(style),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return PlainText{}
	}
	return renderer
}
