package home

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/dyscreen/internal/catalog"
	"github.com/abhisek/dyscreen/internal/router"
	"github.com/abhisek/dyscreen/internal/screen"
	"github.com/abhisek/dyscreen/internal/screens"
	"github.com/abhisek/dyscreen/internal/screens/games"
	"github.com/abhisek/dyscreen/internal/screens/history"
	"github.com/abhisek/dyscreen/internal/screens/results"
	"github.com/abhisek/dyscreen/internal/ui/components"
)

const (
	itemContinue = iota
	itemAuditory
	itemVisual
	itemLanguage
	itemGames
	itemResults
	itemHistory
	itemExit
)

// HomeScreen is the main home screen of the application.
type HomeScreen struct {
	deps       screens.Deps
	menu       components.Menu
	menuLabels []string
	done       int
	toast      string
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(deps screens.Deps) *HomeScreen {
	start := func(t catalog.TestType) func() tea.Cmd {
		return func() tea.Cmd {
			return func() tea.Msg { return screens.StartTestMsg{Test: t} }
		}
	}

	items := []components.MenuItem{
		itemContinue: {Action: func() tea.Cmd {
			next, ok := deps.Tracker.NextIncomplete()
			if !ok {
				return nil
			}
			return func() tea.Msg { return screens.StartTestMsg{Test: next} }
		}},
		itemAuditory: {Action: start(catalog.Auditory)},
		itemVisual:   {Action: start(catalog.Visual)},
		itemLanguage: {Action: start(catalog.Language)},
		itemGames: {Action: func() tea.Cmd {
			return func() tea.Msg { return router.PushScreenMsg{Screen: games.NewPicker(deps)} }
		}},
		itemResults: {Action: func() tea.Cmd {
			return func() tea.Msg { return router.PushScreenMsg{Screen: results.New(deps)} }
		}},
		itemHistory: {Action: func() tea.Cmd {
			return func() tea.Msg { return router.PushScreenMsg{Screen: history.New(deps)} }
		}},
		itemExit: {Action: func() tea.Cmd {
			return tea.Quit
		}},
	}

	h := &HomeScreen{deps: deps, menu: components.NewMenu(items)}
	h.refresh()
	return h
}

// refresh relabels the menu from the tracker. Completed tests get a check
// mark and Continue is disabled once everything is done.
func (h *HomeScreen) refresh() {
	state := h.deps.Tracker.Snapshot()
	h.done = 0
	for _, t := range catalog.AllTests() {
		if state.Tests[t].Completed {
			h.done++
		}
	}

	tests := map[int]catalog.TestType{
		itemAuditory: catalog.Auditory,
		itemVisual:   catalog.Visual,
		itemLanguage: catalog.Language,
	}
	labels := make([]string, len(h.menu.Items))
	for i := range h.menu.Items {
		switch i {
		case itemContinue:
			next, ok := h.deps.Tracker.NextIncomplete()
			h.menu.Items[i].Disabled = !ok
			if ok {
				labels[i] = "CONTINUE: " + strings.ToUpper(next.DisplayName())
			} else {
				labels[i] = "ALL TESTS DONE"
			}
		case itemGames:
			labels[i] = "MINIGAMES"
		case itemResults:
			labels[i] = "RESULTS"
		case itemHistory:
			h.menu.Items[i].Disabled = h.deps.Sessions == nil
			labels[i] = "HISTORY"
		case itemExit:
			labels[i] = "EXIT"
		default:
			t := tests[i]
			label := strings.ToUpper(t.DisplayName()) + " TEST"
			if state.Tests[t].Completed {
				label = "✓ " + label
			}
			labels[i] = label
		}
		h.menu.Items[i].Label = labels[i]
	}
	h.menuLabels = labels

	if h.menu.Items[h.menu.Selected].Disabled {
		h.menu.Selected = itemAuditory
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	h.refresh()
	if t, ok := msg.(screens.ToastMsg); ok {
		h.toast = t.Text
		return h, nil
	}
	if _, ok := msg.(tea.KeyMsg); ok {
		h.toast = ""
	}
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	h.refresh()

	// height is the content area; estimate full terminal height
	// by adding back header (3) + footer (3) + frame gaps
	termHeight := height + 8
	compact := termHeight < 34 || width < 100

	cw := components.ContentWidth(width)

	var sections []string
	sections = append(sections, renderTitle(cw, compact))

	if !compact {
		sections = append(sections, renderMascotBox(h.mascot(), cw))
	}

	sections = append(sections, renderStatsBar(h.done, len(catalog.AllTests()), h.deps.Online, cw, compact))

	disabled := map[int]bool{}
	for i, item := range h.menu.Items {
		disabled[i] = item.Disabled
	}
	if compact {
		sections = append(sections, renderMenuList(h.menuLabels, h.menu.Selected, cw, disabled))
	} else {
		sections = append(sections, renderMenuGrid(h.menuLabels, h.menu.Selected, cw, disabled))
	}

	if h.toast != "" {
		sections = append(sections, renderToast(h.toast, cw))
	}

	return components.Frame(strings.Join(sections, "\n\n"), width, height)
}

func (h *HomeScreen) mascot() MascotVariant {
	switch {
	case h.toast != "":
		return MascotAlert
	case h.done == len(catalog.AllTests()):
		return MascotCelebrating
	case h.done > 0:
		return MascotReading
	}
	return MascotIdle
}

func (h *HomeScreen) Title() string {
	return "Home"
}
