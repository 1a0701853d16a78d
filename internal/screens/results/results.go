// Package results shows scored screening tests.
package results

import (
	"context"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/dyscreen/internal/catalog"
	"github.com/abhisek/dyscreen/internal/progress"
	"github.com/abhisek/dyscreen/internal/report"
	"github.com/abhisek/dyscreen/internal/router"
	"github.com/abhisek/dyscreen/internal/screen"
	"github.com/abhisek/dyscreen/internal/screens"
	"github.com/abhisek/dyscreen/internal/scoring"
	"github.com/abhisek/dyscreen/internal/sessionsync"
	"github.com/abhisek/dyscreen/internal/ui/layout"
)

// resultsLoadedMsg carries stored results read in Init.
type resultsLoadedMsg struct {
	Results map[catalog.TestType]scoring.Result
	Err     error
}

// ResultsScreen lists every test with its latest result.
type ResultsScreen struct {
	deps    screens.Deps
	report  report.Report
	focus   int
	loaded  bool
	errMsg  string
	outcome *sessionsync.Outcome
	fresh   *scoring.Result
}

var _ screen.Screen = (*ResultsScreen)(nil)
var _ screen.KeyHintProvider = (*ResultsScreen)(nil)

// New shows stored results, starting at the first completed test.
func New(deps screens.Deps) *ResultsScreen {
	return &ResultsScreen{deps: deps}
}

// Finished shows the result of a test that was just completed, with the
// option to move on to the next one.
func Finished(deps screens.Deps, res scoring.Result, out sessionsync.Outcome) *ResultsScreen {
	return &ResultsScreen{deps: deps, fresh: &res, outcome: &out}
}

func (s *ResultsScreen) Init() tea.Cmd {
	results := s.deps.Results
	return func() tea.Msg {
		if results == nil {
			return resultsLoadedMsg{Results: map[catalog.TestType]scoring.Result{}}
		}
		all, err := results.All(context.Background())
		return resultsLoadedMsg{Results: all, Err: err}
	}
}

func (s *ResultsScreen) Title() string {
	return "Results"
}

func (s *ResultsScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{{Key: "←→", Description: "Switch test"}}
	if s.outcome != nil && s.outcome.HasNext {
		hints = append(hints, layout.KeyHint{Key: "Enter", Description: "Next: " + s.outcome.Next.DisplayName()})
	} else {
		hints = append(hints, layout.KeyHint{Key: "Enter", Description: "Home"})
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "Back"})
}

func (s *ResultsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case resultsLoadedMsg:
		return s.handleLoaded(msg)
	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *ResultsScreen) handleLoaded(msg resultsLoadedMsg) (screen.Screen, tea.Cmd) {
	s.loaded = true
	if msg.Err != nil {
		s.deps.Logger().Warn("load results failed", "error", msg.Err)
		s.errMsg = msg.Err.Error()
	}
	all := msg.Results
	if all == nil {
		all = map[catalog.TestType]scoring.Result{}
	}
	// The store may lag behind a result that was just computed.
	if s.fresh != nil {
		all[s.fresh.TestType] = *s.fresh
	}
	var state progress.State
	if s.deps.Tracker != nil {
		state = s.deps.Tracker.Snapshot()
	}
	s.report = report.Build(state, all, s.deps.Clock())

	s.focus = 0
	for i, sec := range s.report.Tests {
		if s.fresh != nil && sec.Test == s.fresh.TestType {
			s.focus = i
			break
		}
		if s.fresh == nil && sec.Result != nil {
			s.focus = i
			break
		}
	}
	return s, nil
}

func (s *ResultsScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	n := len(s.report.Tests)
	switch msg.String() {
	case "left", "h", "shift+tab":
		if n > 0 {
			s.focus = (s.focus + n - 1) % n
		}
	case "right", "l", "tab":
		if n > 0 {
			s.focus = (s.focus + 1) % n
		}
	case "enter":
		if s.outcome != nil && s.outcome.HasNext {
			next := s.outcome.Next
			return s, func() tea.Msg { return screens.StartTestMsg{Test: next, Replace: true} }
		}
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}
	return s, nil
}

// Focused returns the test currently shown.
func (s *ResultsScreen) Focused() (report.Section, bool) {
	if s.focus < 0 || s.focus >= len(s.report.Tests) {
		return report.Section{}, false
	}
	return s.report.Tests[s.focus], true
}
