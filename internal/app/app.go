package app

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/dyscreen/internal/catalog"
	"github.com/abhisek/dyscreen/internal/router"
	"github.com/abhisek/dyscreen/internal/screen"
	"github.com/abhisek/dyscreen/internal/screens"
	"github.com/abhisek/dyscreen/internal/screens/home"
	"github.com/abhisek/dyscreen/internal/screens/testflow"
	"github.com/abhisek/dyscreen/internal/ui/layout"
)

// AppModel is the root Bubble Tea model.
type AppModel struct {
	deps   screens.Deps
	start  catalog.TestType
	router *router.Router
	width  int
	height int
}

// newAppModel creates a new AppModel with the home screen.
func newAppModel(deps screens.Deps) AppModel {
	return AppModel{
		deps:   deps,
		router: router.New(home.New(deps)),
	}
}

func (m AppModel) Init() tea.Cmd {
	if m.start == "" {
		return nil
	}
	start := m.start
	return func() tea.Msg { return screens.StartTestMsg{Test: start} }
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case screens.StartTestMsg:
		flow := testflow.New(m.deps, msg.Test)
		if msg.Replace {
			return m, func() tea.Msg { return router.ReplaceScreenMsg{Screen: flow} }
		}
		return m, func() tea.Msg { return router.PushScreenMsg{Screen: flow} }

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if h, ok := m.router.Active().(screen.EscapeHandler); ok && h.HandlesEscape() {
				break
			}
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.TooSmall(m.width, m.height) {
		v.SetContent(layout.RenderTooSmall(m.width, m.height))
		return v
	}

	active := m.router.Active()
	header := layout.Header{Done: m.completed(), Total: len(catalog.AllTests()), Online: m.deps.Online}
	if active != nil {
		header.Title = active.Title()
	}

	hints := layout.DefaultHints(m.router.Depth() > 1)
	if kh, ok := active.(screen.KeyHintProvider); ok {
		hints = append(kh.KeyHints(), layout.QuitHint)
	}

	v.SetContent(layout.Compose(header.Render(m.width), layout.RenderFooter(hints, m.width), m.width, m.height, m.router.View))
	return v
}

func (m AppModel) completed() int {
	if m.deps.Tracker == nil {
		return 0
	}
	state := m.deps.Tracker.Snapshot()
	n := 0
	for _, t := range catalog.AllTests() {
		if state.Tests[t].Completed {
			n++
		}
	}
	return n
}

// Run starts the Bubble Tea program. A non-empty start opens that test
// straight away.
func Run(deps screens.Deps, start catalog.TestType) error {
	m := newAppModel(deps)
	m.start = start
	p := tea.NewProgram(m)
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
