package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/dyscreen/internal/ui/theme"
)

const (
	maxContentWidth = 64
	minContentWidth = 24
	// frame border (2) + inner padding (4)
	frameChrome = 6
)

// ContentWidth is the inner width every card on a screen is rendered at,
// so stacked cards line up.
func ContentWidth(frameWidth int) int {
	return min(max(frameWidth-frameChrome, minContentWidth), maxContentWidth)
}

// Frame draws the double border around a whole screen and centres content
// in it.
func Frame(content string, width, height int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Primary).
		Width(max(width-2, 0)).
		Height(max(height-2, 0)).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

// Card is a rounded box at content width cw.
func Card(content string, cw int) string {
	return cardStyle(cw).Render(content)
}

// TitledCard is a Card with a bold heading above the content.
func TitledCard(title, content string, cw int) string {
	heading := lipgloss.NewStyle().Bold(true).Foreground(theme.ArcadeCyan).Render(title)
	return cardStyle(cw).Render(heading + "\n\n" + content)
}

func cardStyle(cw int) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(cw - 2).
		Align(lipgloss.Center).
		Padding(1, 2)
}

// Centered places s in the middle of a line of the given width.
func Centered(width int, s string) string {
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, s)
}
