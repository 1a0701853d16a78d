// Package theme holds the palette and shared text styles. Colours are
// high contrast with large, friendly accents for early readers.
package theme

import (
	"strings"

	"charm.land/lipgloss/v2"
)

var (
	Primary   = lipgloss.Color("#8B5CF6") // purple
	Secondary = lipgloss.Color("#14B8A6") // teal
	Accent    = lipgloss.Color("#F97316") // orange
	Success   = lipgloss.Color("#22C55E")
	Error     = lipgloss.Color("#F43F5E")
	Text      = lipgloss.Color("#F8FAFC")
	TextDim   = lipgloss.Color("#94A3B8")
	BgDark    = lipgloss.Color("#0F172A")
	BgCard    = lipgloss.Color("#1E293B")
	Border    = lipgloss.Color("#334155")

	ArcadeYellow = lipgloss.Color("#FACC15")
	ArcadeCyan   = lipgloss.Color("#22D3EE")
)

var (
	Title = lipgloss.NewStyle().Bold(true).Foreground(Primary).Align(lipgloss.Center)
	Body  = lipgloss.NewStyle().Foreground(Text)
	Hint  = lipgloss.NewStyle().Foreground(TextDim).Italic(true)
	Toast = lipgloss.NewStyle().Foreground(Accent).Bold(true)

	// Minigame feedback. Screening tests never show right or wrong.
	Correct   = lipgloss.NewStyle().Foreground(Success).Bold(true)
	Incorrect = lipgloss.NewStyle().Foreground(Error).Bold(true)

	RiskLow    = lipgloss.NewStyle().Foreground(Success).Bold(true)
	RiskMedium = lipgloss.NewStyle().Foreground(ArcadeYellow).Bold(true)
	RiskHigh   = lipgloss.NewStyle().Foreground(Error).Bold(true)
)

// Risk returns the style for a risk level name (LOW, MEDIUM, HIGH), or Body
// for anything else.
func Risk(level string) lipgloss.Style {
	switch strings.ToUpper(level) {
	case "LOW":
		return RiskLow
	case "MEDIUM":
		return RiskMedium
	case "HIGH":
		return RiskHigh
	}
	return Body
}
