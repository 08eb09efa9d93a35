// Package components renders reusable CLI widgets.
package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/learnloop/internal/ui/theme"
)

// ProgressBar displays a horizontal progress bar.
type ProgressBar struct {
	Label   string
	Current int64
	Total   int64
	Width   int
}

// NewProgressBar creates a bar for current out of total.
func NewProgressBar(label string, current, total int64, width int) ProgressBar {
	return ProgressBar{
		Label:   label,
		Current: current,
		Total:   total,
		Width:   width,
	}
}

// Percent returns the filled share in [0,1]. A zero total is full.
func (p ProgressBar) Percent() float64 {
	if p.Total <= 0 {
		return 1
	}
	pct := float64(p.Current) / float64(p.Total)
	if pct < 0 {
		return 0
	}
	if pct > 1 {
		return 1
	}
	return pct
}

// View renders the bar followed by "current/total".
func (p ProgressBar) View() string {
	var result string

	if p.Label != "" {
		result += theme.Body.Render(p.Label) + "  "
	}

	suffix := fmt.Sprintf("  %d/%d", p.Current, p.Total)
	if p.Total <= 0 {
		suffix = "  max"
	}

	barWidth := p.Width - lipgloss.Width(result) - len(suffix)
	if barWidth < 4 {
		barWidth = 4
	}

	filled := int(float64(barWidth) * p.Percent())
	empty := barWidth - filled

	result += theme.ProgressFilled.Render(strings.Repeat("█", filled))
	result += theme.ProgressEmpty.Render(strings.Repeat("░", empty))
	result += theme.Hint.Render(suffix)
	return result
}
