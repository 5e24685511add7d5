package main

import "github.com/charmbracelet/lipgloss"

// Layout constants for the streaming view.
const (
	barWidth    = 24 // probability bar width in cells
	maxAmpsRows = 16 // amplitude rows shown before truncation
)

// Lipgloss styles used by the streaming view.
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ff9e64"))

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7aa2f7")).
			Padding(0, 1)

	gateDoneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#9ece6a"))

	gateCurrentStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#ff9e64")).
				Bold(true)

	gatePendingStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#565f89"))

	barFillStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#bb9af7"))

	serverStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#565f89")).
			Italic(true)

	errStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f7768e")).
			Bold(true)
)
