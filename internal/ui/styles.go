package ui

import "github.com/charmbracelet/lipgloss"

var (
	accent = lipgloss.AdaptiveColor{Light: "#2E7D32", Dark: "#81C784"}
	muted  = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}
	danger = lipgloss.AdaptiveColor{Light: "#B91C1C", Dark: "#F87171"}

	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(accent).MarginBottom(1)

	inputStyle        = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(muted).Padding(0, 1)
	inputFocusedStyle = inputStyle.BorderForeground(accent)

	buttonStyle        = lipgloss.NewStyle().Padding(0, 1).Foreground(muted)
	buttonFocusedStyle = lipgloss.NewStyle().Padding(0, 1).Bold(true).Reverse(true).Foreground(accent)

	rowStyle          = lipgloss.NewStyle()
	rowCompletedStyle = lipgloss.NewStyle().Faint(true).Strikethrough(true)
	rowRemovingStyle  = lipgloss.NewStyle().Foreground(danger).Faint(true)
	cursorStyle       = lipgloss.NewStyle().Foreground(accent).Bold(true)
	checkStyle        = lipgloss.NewStyle().Foreground(accent)

	placeholderStyle = lipgloss.NewStyle().Foreground(muted).Italic(true)
	statsStyle       = lipgloss.NewStyle().Foreground(muted).MarginTop(1)
	statusStyle      = lipgloss.NewStyle().Foreground(accent)
)
