// Package layout draws the chrome around every screen: the status header,
// the key hint footer and the "terminal too small" notice.
package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/dyscreen/internal/ui/theme"
)

const (
	MinWidth  = 80
	MinHeight = 24
)

// KeyHint is one key binding shown in the footer.
type KeyHint struct {
	Key         string
	Description string
}

// QuitHint is appended to every footer.
var QuitHint = KeyHint{Key: "Ctrl+C", Description: "Quit"}

// DefaultHints are shown for screens that do not provide their own.
func DefaultHints(nested bool) []KeyHint {
	if nested {
		return []KeyHint{{Key: "Esc", Description: "Back"}, QuitHint}
	}
	return []KeyHint{{Key: "↑↓", Description: "Navigate"}, {Key: "Enter", Description: "Select"}, QuitHint}
}

// TooSmall reports whether the terminal is below the minimum size.
func TooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// RenderTooSmall asks the user to grow the terminal.
func RenderTooSmall(width, height int) string {
	return lipgloss.NewStyle().
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.Text).
		Width(width).
		Height(height).
		Render(fmt.Sprintf(
			"The window is a bit small.\n\nMake it at least %d x %d\n(now %d x %d)",
			MinWidth, MinHeight, width, height,
		))
}

// Header is the status bar: app name, the active screen's title, how many
// screening tests are done, and whether results go to the backend.
type Header struct {
	Title  string
	Done   int
	Total  int
	Online bool
}

// Render draws the header across width columns.
func (h Header) Render(width int) string {
	left := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("  dyscreen")
	center := lipgloss.NewStyle().Foreground(theme.Text).Render(h.Title)

	status := lipgloss.NewStyle().Foreground(theme.TextDim).Render("○ offline")
	if h.Online {
		status = lipgloss.NewStyle().Foreground(theme.Success).Render("● online")
	}
	right := lipgloss.NewStyle().Foreground(theme.Accent).Render(fmt.Sprintf("★ %d/%d tests", h.Done, h.Total)) +
		"   " + status

	inner := max(width-4, 0)
	leftGap := max((inner-lipgloss.Width(center))/2-lipgloss.Width(left), 1)
	rightGap := max(inner-lipgloss.Width(left)-leftGap-lipgloss.Width(center)-lipgloss.Width(right), 1)

	return bar(left+strings.Repeat(" ", leftGap)+center+strings.Repeat(" ", rightGap)+right, width)
}

// RenderFooter lists key hints left to right.
func RenderFooter(hints []KeyHint, width int) string {
	parts := make([]string, 0, len(hints))
	for _, h := range hints {
		parts = append(parts,
			lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(h.Key)+" "+
				lipgloss.NewStyle().Foreground(theme.TextDim).Render(h.Description))
	}
	return bar("  "+strings.Join(parts, "   "), width)
}

func bar(content string, width int) string {
	return lipgloss.NewStyle().
		Width(width).
		Background(theme.BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Render(content)
}

// Compose stacks header, body and footer. body is called with the space
// left between them.
func Compose(header, footer string, width, height int, body func(w, h int) string) string {
	h := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	content := lipgloss.NewStyle().Width(width).Height(h).Render(body(width, h))
	return header + "\n" + content + "\n" + footer
}
