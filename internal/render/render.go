// Package render formats prompt previews for the terminal.
package render

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

const wordWrap = 120

// Renderer renders markdown content.
type Renderer interface {
	Render(in string) (string, error)
}

// Plain returns content as-is.
type Plain struct{}

func (Plain) Render(in string) (string, error) {
	return in, nil
}

var headingStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.AdaptiveColor{Light: "#2980b9", Dark: "#3498db"})

// IsTTY reports whether w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func baseStyle() ansi.StyleConfig {
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

// New returns a colored glamour renderer when w is a terminal and an ASCII
// one otherwise. Plain is used when glamour cannot be set up.
func New(w io.Writer) Renderer {
	style := asciiStyle()
	if IsTTY(w) {
		style = baseStyle()
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStyles(style),
		glamour.WithWordWrap(wordWrap),
	)
	if err != nil {
		return Plain{}
	}
	return r
}

// Heading formats a section title, styled only on a terminal.
func Heading(w io.Writer, title string) string {
	if !IsTTY(w) {
		return "==> " + title
	}
	return headingStyle.Render(title)
}

// Section writes a heading followed by the rendered body.
func Section(w io.Writer, r Renderer, title, body string) error {
	out, err := r.Render(body)
	if err != nil {
		out = body
	}
	_, err = fmt.Fprintf(w, "%s\n%s\n", Heading(w, title), out)
	return err
}
