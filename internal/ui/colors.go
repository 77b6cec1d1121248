package ui

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Style is the closed set of text styles the CLI uses.
type Style int

const (
	Reset Style = iota
	Green
	BoldGreen
	Red
	Yellow
)

func (s Style) String() string {
	switch s {
	case Green:
		return "green"
	case BoldGreen:
		return "bold_green"
	case Red:
		return "red"
	case Yellow:
		return "yellow"
	default:
		return "reset"
	}
}

// renderer always emits basic ANSI sequences so [Colorize] does not depend on the attached terminal.
var renderer = func() *lipgloss.Renderer {
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(termenv.ANSI)
	return r
}()

// lipglossStyle maps every [Style] to a [lipgloss.Style]; unknown values render unstyled.
func lipglossStyle(s Style) lipgloss.Style {
	base := renderer.NewStyle()
	switch s {
	case Green:
		return base.Foreground(lipgloss.Color("2"))
	case BoldGreen:
		return base.Foreground(lipgloss.Color("2")).Bold(true)
	case Red:
		return base.Foreground(lipgloss.Color("1"))
	case Yellow:
		return base.Foreground(lipgloss.Color("3"))
	default:
		return base
	}
}

// Colorize wraps text in the escape sequences for s. [Reset] returns text unchanged.
func Colorize(text string, s Style) string {
	if s == Reset {
		return text
	}
	return lipglossStyle(s).Render(text)
}

// Painter applies styles only when color output is enabled.
type Painter struct {
	color bool
}

// NewPainter returns a [Painter]; color false turns every call into the identity.
func NewPainter(color bool) Painter {
	return Painter{color: color}
}

// Enabled reports whether the painter emits escape sequences.
func (p Painter) Enabled() bool { return p.color }

// Paint styles text when color is enabled.
func (p Painter) Paint(text string, s Style) string {
	if !p.color {
		return text
	}
	return Colorize(text, s)
}
