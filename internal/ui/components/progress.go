package components

import (
	"fmt"
	"math"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/dyscreen/internal/ui/theme"
)

// ProgressBar draws a fraction in [0,1] as a row of block glyphs.
type ProgressBar struct {
	Label       string
	Fraction    float64
	ShowPercent bool
	Width       int
	// WarnBelow paints the bar in the warning colour when Fraction is
	// below it. Zero disables the warning.
	WarnBelow float64
}

// NewProgressBar creates a bar; fraction is clamped to [0,1].
func NewProgressBar(label string, fraction float64, showPercent bool, width int) ProgressBar {
	return ProgressBar{
		Label:       label,
		Fraction:    math.Max(0, math.Min(1, fraction)),
		ShowPercent: showPercent,
		Width:       width,
	}
}

// Cells returns how many of n cells are filled.
func (p ProgressBar) Cells(n int) int {
	return int(math.Round(p.Fraction * float64(n)))
}

func (p ProgressBar) View() string {
	var b strings.Builder
	if p.Label != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Render(p.Label))
		b.WriteString("  ")
	}

	suffix := ""
	if p.ShowPercent {
		suffix = fmt.Sprintf(" %3d%%", int(math.Round(p.Fraction*100)))
	}
	n := max(p.Width-lipgloss.Width(b.String())-len(suffix), 4)
	filled := p.Cells(n)

	fill := theme.Secondary
	if p.WarnBelow > 0 && p.Fraction < p.WarnBelow {
		fill = theme.Accent
	}
	b.WriteString(lipgloss.NewStyle().Foreground(fill).Render(strings.Repeat("█", filled)))
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("░", n-filled)))
	if suffix != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render(suffix))
	}
	return b.String()
}
