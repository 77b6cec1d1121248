package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

const banner = `██████╗ ██╗   ██╗██╗     ██╗███████╗████████╗
██╔══██╗╚██╗ ██╔╝██║     ██║██╔════╝╚══██╔══╝
██████╔╝ ╚████╔╝ ██║     ██║███████╗   ██║
██╔═══╝   ╚██╔╝  ██║     ██║╚════██║   ██║
██║        ██║   ███████╗██║███████║   ██║
╚═╝        ╚═╝   ╚══════╝╚═╝╚══════╝   ╚═╝
███████╗ █████╗ ██╗   ██╗███████╗██████╗
██╔════╝██╔══██╗██║   ██║██╔════╝██╔══██╗
███████╗███████║██║   ██║█████╗  ██████╔╝
╚════██║██╔══██║╚██╗ ██╔╝██╔══╝  ██╔══██╗
███████║██║  ██║ ╚████╔╝ ███████╗██║  ██║
╚══════╝╚═╝  ╚═╝  ╚═══╝  ╚══════╝╚═╝  ╚═╝`

// clearSequence moves the cursor home and clears the screen.
const clearSequence = "\x1b[H\x1b[2J"

// Option is one numbered menu entry.
type Option struct {
	Key   string
	Label string
	Style Style
}

// MenuOptions lists the interactive menu entries in display order.
var MenuOptions = []Option{
	{Key: "1", Label: "Save all playlists", Style: Green},
	{Key: "2", Label: "Save one playlist", Style: Green},
	{Key: "3", Label: "Get playlist ids", Style: Green},
	{Key: "4", Label: "Exit", Style: Red},
}

var menuBox = renderer.NewStyle().
	Border(lipgloss.RoundedBorder()).
	Padding(0, 1)

// Banner returns the application banner.
func (p Painter) Banner() string {
	return p.Paint(banner, BoldGreen)
}

// Menu returns the boxed option list.
func (p Painter) Menu() string {
	lines := make([]string, 0, len(MenuOptions)+1)
	lines = append(lines, "Choose one of the following")
	for _, opt := range MenuOptions {
		lines = append(lines, fmt.Sprintf("%s %s", p.Paint("["+opt.Key+"]", opt.Style), opt.Label))
	}
	return menuBox.Render(strings.Join(lines, "\n"))
}

// Screen returns the full idle screen: banner followed by the menu.
func (p Painter) Screen() string {
	return p.Banner() + "\n" + p.Menu() + "\n"
}

// Success, Failure and Highlight style status messages.
func (p Painter) Success(text string) string   { return p.Paint(text, Green) }
func (p Painter) Failure(text string) string   { return p.Paint(text, Red) }
func (p Painter) Highlight(text string) string { return p.Paint(text, Yellow) }

// ClearScreen clears the terminal behind w. It writes nothing when color is disabled,
// which is also the case for pipes and files.
func (p Painter) ClearScreen(w io.Writer) {
	if p.color {
		io.WriteString(w, clearSequence)
	}
}

// ColorEnabled reports whether w is a terminal that should receive escape sequences.
//
// NO_COLOR (any non-empty value) always disables color.
func ColorEnabled(w io.Writer, lookup func(string) (string, bool)) bool {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	if v, ok := lookup("NO_COLOR"); ok && v != "" {
		return false
	}

	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
