package home

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	figure "github.com/common-nighthawk/go-figure"

	"github.com/abhisek/dyscreen/internal/ui/theme"
)

const titleCompact = "D · Y · S · C · R · E · E · N"

var titleFull = strings.TrimRight(figure.NewFigure("dyscreen", "", true).String(), "\n")

func renderTitle(cw int, compact bool) string {
	title := titleFull
	if compact || lipgloss.Width(title) > cw {
		title = titleCompact
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Foreground(theme.ArcadeYellow).
		Bold(true).
		Render(title)
}

// renderStatsBar shows how many tests are done and whether results go to
// the backend.
func renderStatsBar(done, total int, online bool, cw int, compact bool) string {
	doneStyle := lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true)

	pips := strings.Repeat("★", done) + strings.Repeat("☆", max(total-done, 0))
	conn := lipgloss.NewStyle().Foreground(theme.TextDim).Render("○ OFFLINE")
	if online {
		conn = lipgloss.NewStyle().Foreground(theme.ArcadeCyan).Bold(true).Render("● SIGNED IN")
	}

	stats := doneStyle.Render(pips) + "  " + conn
	if !compact {
		stats = doneStyle.Render(fmt.Sprintf("%s  %d OF %d TESTS DONE", pips, done, total)) + "   " + conn
	}

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.ArcadeCyan).
		Width(cw - 2).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(stats)
}

func button(label string, width int, selected, disabled bool) string {
	st := lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Border(lipgloss.RoundedBorder())
	switch {
	case disabled:
		return st.Foreground(theme.TextDim).BorderForeground(theme.Border).Render(label)
	case selected:
		return st.Bold(true).
			Foreground(theme.BgDark).
			Background(theme.ArcadeYellow).
			BorderForeground(theme.ArcadeYellow).
			Render("▸ " + label)
	}
	return st.Foreground(theme.Text).BorderForeground(theme.Border).Render(label)
}

// renderMenuGrid draws the first item as a wide button and the rest two
// per row.
func renderMenuGrid(items []string, selected, cw int, disabled map[int]bool) string {
	if len(items) == 0 {
		return ""
	}
	half := (cw - 6) / 2
	rows := []string{button(items[0], 2*half+2, selected == 0, disabled[0])}
	for i := 1; i < len(items); i += 2 {
		left := button(items[i], half, selected == i, disabled[i])
		if i+1 >= len(items) {
			rows = append(rows, left)
			continue
		}
		right := button(items[i+1], half, selected == i+1, disabled[i+1])
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right))
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(strings.Join(rows, "\n"))
}

// renderMenuList is the borderless fallback for small terminals. Items are
// numbered to match the menu's digit shortcuts.
func renderMenuList(items []string, selected, cw int, disabled map[int]bool) string {
	lines := make([]string, 0, len(items))
	for i, label := range items {
		text := fmt.Sprintf("%d %s", i+1, label)
		switch {
		case disabled[i]:
			lines = append(lines, lipgloss.NewStyle().Foreground(theme.TextDim).Render("   "+text))
		case i == selected:
			lines = append(lines, lipgloss.NewStyle().
				Foreground(theme.BgDark).
				Background(theme.ArcadeYellow).
				Bold(true).
				Render(" ▸ "+text+" "))
		default:
			lines = append(lines, lipgloss.NewStyle().Foreground(theme.Text).Render("   "+text))
		}
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Left).
		PaddingLeft(max(cw/2-12, 0)).
		Render(strings.Join(lines, "\n"))
}

func renderMascotBox(variant MascotVariant, cw int) string {
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(RenderMascot(variant))
}

func renderToast(text string, cw int) string {
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(theme.Toast.Render("⚠ " + text))
}
