package results

import (
	"fmt"
	"strings"
	"time"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/dyscreen/internal/report"
	"github.com/abhisek/dyscreen/internal/scoring"
	"github.com/abhisek/dyscreen/internal/ui/components"
	"github.com/abhisek/dyscreen/internal/ui/theme"
)

func (s *ResultsScreen) View(width, height int) string {
	if !s.loaded {
		return components.Centered(width, theme.Hint.Render("\n\n  Loading results..."))
	}

	var b strings.Builder
	b.WriteString(s.renderTabs(width))
	b.WriteString("\n\n")

	sec, ok := s.Focused()
	if ok {
		b.WriteString(renderSection(sec, width))
	}

	if s.report.Risk != "" {
		b.WriteString("\n")
		b.WriteString(components.Centered(width, "Overall: "+riskBadge(s.report.Risk)))
		b.WriteString("\n")
	}

	if s.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(components.Centered(width, lipgloss.NewStyle().Foreground(theme.Error).Render("Could not read saved results: "+s.errMsg)))
	}

	if s.outcome != nil {
		b.WriteString("\n")
		note := "All tests finished. Well done!"
		if s.outcome.HasNext {
			note = fmt.Sprintf("Up next: %s test", s.outcome.Next.DisplayName())
		}
		b.WriteString(components.Centered(width, theme.Toast.Render(note)))
	}

	return b.String()
}

// renderTabs draws one tab per test, marking the focused one.
func (s *ResultsScreen) renderTabs(width int) string {
	tabs := make([]string, 0, len(s.report.Tests))
	for i, sec := range s.report.Tests {
		label := sec.Test.DisplayName()
		if sec.Completed {
			label = "✓ " + label
		}
		style := lipgloss.NewStyle().Padding(0, 2).Foreground(theme.TextDim)
		if i == s.focus {
			style = style.Foreground(theme.BgDark).Background(theme.ArcadeYellow).Bold(true)
		}
		tabs = append(tabs, style.Render(label))
	}
	return components.Centered(width, lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
}

func renderSection(sec report.Section, width int) string {
	cw := components.ContentWidth(width)
	res := sec.Result
	if res == nil {
		msg := "Not taken yet."
		if sec.Completed {
			msg = fmt.Sprintf("Completed with score %d. Details were recorded on another device.", sec.Score)
		}
		return components.Centered(width, components.TitledCard(sec.Test.DisplayName(), theme.Hint.Render(msg), cw))
	}

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(
		fmt.Sprintf("%d / %d points  (%.0f%%)", res.Score, res.MaxScore, res.Percentage)))
	b.WriteString("   ")
	b.WriteString(riskBadge(res.Risk))
	b.WriteString("\n")
	if res.Weighted != nil {
		b.WriteString(theme.Hint.Render(fmt.Sprintf("Weighted language score: %d", res.Weighted.Score)))
		b.WriteString("\n")
	}
	b.WriteString(theme.Hint.Render(fmt.Sprintf("%d answers in %s", res.Answered, res.Duration.Round(time.Second))))
	b.WriteString("\n\n")

	barWidth := cw - 6
	for _, m := range res.SortedModules() {
		label := fmt.Sprintf("%-24s", m.Module.DisplayName())
		bar := components.NewProgressBar(label, m.Percentage/100, true, barWidth)
		bar.WarnBelow = scoring.UnderperformingThreshold / 100
		b.WriteString(bar.View())
		if m.Underperforming() {
			b.WriteString(" " + lipgloss.NewStyle().Foreground(theme.Accent).Render("!"))
		}
		b.WriteString("\n")
	}
	if res.Underperforming > 0 {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Accent).Render(
			fmt.Sprintf("! %d area(s) below %.0f%%", res.Underperforming, scoring.UnderperformingThreshold)))
	}

	return components.Centered(width, components.TitledCard(sec.Test.DisplayName(), b.String(), cw))
}

func riskBadge(r scoring.RiskLevel) string {
	return theme.Risk(string(r)).Render(fmt.Sprintf("%s risk", r))
}
