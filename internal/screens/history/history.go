// Package history lists the screening sessions stored on the backend.
package history

import (
	"context"
	"fmt"
	"slices"
	"strings"

	tea "charm.land/bubbletea/v2"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/dyscreen/internal/api"
	"github.com/abhisek/dyscreen/internal/catalog"
	"github.com/abhisek/dyscreen/internal/router"
	"github.com/abhisek/dyscreen/internal/screen"
	"github.com/abhisek/dyscreen/internal/screens"
	"github.com/abhisek/dyscreen/internal/ui/layout"
	"github.com/abhisek/dyscreen/internal/ui/theme"
)

const listLimit = 50

type historyLoadedMsg struct {
	Sessions []api.Session
	Err      error
}

// HistoryScreen displays past sessions of the selected profile.
type HistoryScreen struct {
	deps     screens.Deps
	sessions []api.Session
	selected int
	expanded map[int]bool
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(deps screens.Deps) *HistoryScreen {
	return &HistoryScreen{
		deps:     deps,
		expanded: make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	lister := s.deps.Sessions
	if lister == nil {
		return func() tea.Msg { return historyLoadedMsg{Err: fmt.Errorf("log in and select a profile to see sessions")} }
	}
	return func() tea.Msg {
		sessions, err := lister.Sessions(context.Background())
		if err != nil {
			return historyLoadedMsg{Err: err}
		}
		slices.SortStableFunc(sessions, func(a, b api.Session) int {
			return b.CreatedAt.Compare(a.CreatedAt)
		})
		if len(sessions) > listLimit {
			sessions = sessions[:listLimit]
		}
		return historyLoadedMsg{Sessions: sessions}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.deps.Logger().Warn("load sessions", "error", msg.Err)
			s.errMsg = msg.Err.Error()
		} else {
			s.sessions = msg.Sessions
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down", "j":
			if s.selected < len(s.sessions)-1 {
				s.selected++
			}
			return s, nil
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
			return s, nil
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\n%s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading sessions...")
	}
	if len(s.sessions) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No sessions yet. Take a test to start one!")
	}

	current := ""
	if s.deps.Tracker != nil {
		current = s.deps.Tracker.SessionID()
	}

	var b strings.Builder
	b.WriteString("\n")

	for i, sess := range s.sessions {
		taken := 0
		for _, t := range catalog.AllTests() {
			if sess.Taken(t) {
				taken++
			}
		}

		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}
		tag := ""
		if sess.ID == current {
			tag = "  (current)"
		}

		line := fmt.Sprintf("%s%s  %d/%d tests  score %d%s",
			prefix, sess.CreatedAt.Local().Format("Jan 02, 2006"), taken, len(catalog.AllTests()), sess.TotalScore, tag)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")

		if s.expanded[i] {
			for _, t := range catalog.AllTests() {
				mark, c := "·", theme.TextDim
				if sess.Taken(t) {
					mark, c = "✓", theme.Success
				}
				b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
					lipgloss.NewStyle().Foreground(c).Render(fmt.Sprintf("    %s %s", mark, t.DisplayName()))))
				b.WriteString("\n")
			}
			if sess.Result != "" {
				b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
					theme.Risk(sess.Result).Render("    Risk: "+sess.Result)))
				b.WriteString("\n")
			}
		}
	}

	return b.String()
}
