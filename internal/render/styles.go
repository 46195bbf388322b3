// Package render formats catalogs for the terminal: aligned resource tables
// and reference trees.
package render

import "github.com/charmbracelet/lipgloss"

var (
	HeaderColor   = lipgloss.AdaptiveColor{Light: "#1A5276", Dark: "#89B4FA"}
	MutedColor    = lipgloss.AdaptiveColor{Light: "#AAAAAA", Dark: "#696969"}
	ReservedColor = lipgloss.AdaptiveColor{Light: "#DF8E1D", Dark: "#F9E2AF"}
	ErrorColor    = lipgloss.AdaptiveColor{Light: "#FF6B6B", Dark: "#FF8787"}
	SuccessColor  = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}

	HeaderStyle   = lipgloss.NewStyle().Bold(true).Foreground(HeaderColor)
	MutedStyle    = lipgloss.NewStyle().Foreground(MutedColor)
	ReservedStyle = lipgloss.NewStyle().Foreground(ReservedColor)
	ErrorStyle    = lipgloss.NewStyle().Foreground(ErrorColor)
	SuccessStyle  = lipgloss.NewStyle().Foreground(SuccessColor)
)
