// Package theme holds the terminal styles of the CLI renderers.
package theme

import (
	"charm.land/lipgloss/v2"
)

// Color palette
var (
	Primary   = lipgloss.Color("#8B5CF6") // Vivid Purple
	Secondary = lipgloss.Color("#14B8A6") // Teal
	Accent    = lipgloss.Color("#F97316") // Orange
	Success   = lipgloss.Color("#22C55E") // Green
	Error     = lipgloss.Color("#F43F5E") // Rose
	Warning   = lipgloss.Color("#EAB308") // Amber
	Text      = lipgloss.Color("#F8FAFC") // White
	TextDim   = lipgloss.Color("#94A3B8") // Slate
	Border    = lipgloss.Color("#334155") // Slate
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	Heading = lipgloss.NewStyle().
		Bold(true).
		Foreground(Secondary)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)
)

// States
var (
	Good = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	Bad = lipgloss.NewStyle().
		Foreground(Error).
		Bold(true)

	Warn = lipgloss.NewStyle().
		Foreground(Warning)

	Locked = lipgloss.NewStyle().
		Foreground(TextDim).
		Faint(true)
)

// Components
var (
	ProgressFilled = lipgloss.NewStyle().
			Foreground(Secondary)

	ProgressEmpty = lipgloss.NewStyle().
			Foreground(Border)

	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(0, 1)
)

var rarityColors = map[string]lipgloss.Style{
	"common":    lipgloss.NewStyle().Foreground(TextDim),
	"rare":      lipgloss.NewStyle().Foreground(Secondary),
	"epic":      lipgloss.NewStyle().Foreground(Primary),
	"legendary": lipgloss.NewStyle().Foreground(Accent).Bold(true),
}

// Rarity returns the style of a badge rarity label.
func Rarity(rarity string) lipgloss.Style {
	if s, ok := rarityColors[rarity]; ok {
		return s
	}
	return Body
}

// Status returns the style of a schedule status: not_due, due or overdue.
func Status(status string) lipgloss.Style {
	switch status {
	case "overdue":
		return Bad
	case "due":
		return Warn
	default:
		return Hint
	}
}
