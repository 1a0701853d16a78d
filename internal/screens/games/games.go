// Package games hosts the bonus minigames: a picker and the play screen.
package games

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/dyscreen/internal/minigame"
	"github.com/abhisek/dyscreen/internal/router"
	"github.com/abhisek/dyscreen/internal/screen"
	"github.com/abhisek/dyscreen/internal/screens"
	"github.com/abhisek/dyscreen/internal/ui/components"
	"github.com/abhisek/dyscreen/internal/ui/layout"
	"github.com/abhisek/dyscreen/internal/ui/theme"
)

type rewardsLoadedMsg struct {
	Rewards minigame.Rewards
	Err     error
}

// PickerScreen lists the minigames.
type PickerScreen struct {
	deps    screens.Deps
	menu    components.Menu
	rewards minigame.Rewards
}

var _ screen.Screen = (*PickerScreen)(nil)
var _ screen.KeyHintProvider = (*PickerScreen)(nil)
var _ screen.Resumer = (*PickerScreen)(nil)

// NewPicker creates the minigame picker.
func NewPicker(deps screens.Deps) *PickerScreen {
	var items []components.MenuItem
	for _, g := range minigame.Games() {
		items = append(items, components.MenuItem{Label: g.Title, Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: NewPlay(deps, g, nil)}
			}
		}})
	}
	return &PickerScreen{deps: deps, menu: components.NewMenu(items)}
}

func (p *PickerScreen) Init() tea.Cmd {
	return loadRewards(p.deps.Rewards)
}

// Resume reloads rewards after a game closes.
func (p *PickerScreen) Resume() tea.Cmd {
	return loadRewards(p.deps.Rewards)
}

func (p *PickerScreen) Title() string { return "Minigames" }

func (p *PickerScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Choose"},
		{Key: "Enter", Description: "Play"},
		{Key: "Esc", Description: "Back"},
	}
}

func (p *PickerScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case rewardsLoadedMsg:
		if msg.Err != nil {
			p.deps.Logger().Warn("load rewards failed", "error", msg.Err)
		}
		p.rewards = msg.Rewards
		return p, nil
	case tea.KeyMsg:
		var cmd tea.Cmd
		p.menu, cmd = p.menu.Update(msg)
		return p, cmd
	}
	return p, nil
}

func (p *PickerScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	var b strings.Builder
	b.WriteString(p.menu.View())
	b.WriteString("\n")
	b.WriteString(renderRewards(p.rewards))
	return components.Frame(components.TitledCard("Pick a game", b.String(), cw), width, height)
}

func renderRewards(r minigame.Rewards) string {
	return lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Render(
		fmt.Sprintf("▣ %d buildings   ★ %d stars   level %d", r.Buildings, r.Stars, r.Level))
}

func loadRewards(rs *minigame.RewardStore) tea.Cmd {
	if rs == nil {
		return nil
	}
	return func() tea.Msg {
		r, err := rs.Load(context.Background())
		return rewardsLoadedMsg{Rewards: r, Err: err}
	}
}
