// Package ui renders the plsaver banner, menu and status lines for a line-oriented terminal.
//
// Colors come from a closed [Style] set mapped to lipgloss styles; [Colorize] is pure and
// [Painter] decides whether to apply it. [ColorEnabled] decides based on NO_COLOR and whether
// the output is a terminal.
package ui
