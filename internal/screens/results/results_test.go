package results

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/dyscreen/internal/catalog"
	"github.com/abhisek/dyscreen/internal/router"
	"github.com/abhisek/dyscreen/internal/screens"
	"github.com/abhisek/dyscreen/internal/scoring"
	"github.com/abhisek/dyscreen/internal/sessionsync"
)

type fakeResults struct {
	all map[catalog.TestType]scoring.Result
	err error
}

func (f fakeResults) All(context.Context) (map[catalog.TestType]scoring.Result, error) {
	return f.all, f.err
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func deps(r screens.ResultReader) screens.Deps {
	return screens.Deps{Results: r, Now: func() time.Time { return time.Unix(0, 0) }}
}

func visualResult() scoring.Result {
	return scoring.Result{
		TestType:   catalog.Visual,
		Score:      9,
		MaxScore:   18,
		Percentage: 50,
		Risk:       scoring.RiskMedium,
		Modules: map[catalog.Module]scoring.ModuleScore{
			catalog.Decoding: {Module: catalog.Decoding, Score: 2, MaxScore: 8, Percentage: 25, Questions: 4},
		},
		Underperforming: 1,
	}
}

func load(t *testing.T, s *ResultsScreen) *ResultsScreen {
	t.Helper()
	scr, _ := s.Update(s.Init()())
	return scr.(*ResultsScreen)
}

func TestFocusesFirstStoredResult(t *testing.T) {
	s := load(t, New(deps(fakeResults{all: map[catalog.TestType]scoring.Result{catalog.Visual: visualResult()}})))
	sec, ok := s.Focused()
	require.True(t, ok)
	assert.Equal(t, catalog.Visual, sec.Test)
	assert.Equal(t, scoring.RiskMedium, s.report.Risk)

	view := s.View(100, 30)
	assert.Contains(t, view, "MEDIUM risk")
	assert.Contains(t, view, "9 / 18 points")
}

func TestTabsWrap(t *testing.T) {
	s := load(t, New(deps(nil)))
	assert.Equal(t, 0, s.focus)
	s.Update(specialKey(tea.KeyLeft))
	assert.Equal(t, 2, s.focus)
	s.Update(specialKey(tea.KeyRight))
	assert.Equal(t, 0, s.focus)
	assert.Contains(t, s.View(100, 30), "Not taken yet")
}

func TestFinishedOffersNextTest(t *testing.T) {
	out := sessionsync.Outcome{Next: catalog.Language, HasNext: true}
	s := load(t, Finished(deps(fakeResults{}), visualResult(), out))
	sec, _ := s.Focused()
	assert.Equal(t, catalog.Visual, sec.Test)
	assert.Contains(t, s.View(100, 30), "Up next")

	_, cmd := s.Update(specialKey(tea.KeyEnter))
	require.NotNil(t, cmd)
	msg, ok := cmd().(screens.StartTestMsg)
	require.True(t, ok)
	assert.Equal(t, catalog.Language, msg.Test)
	assert.True(t, msg.Replace)
}

func TestFinishedLastTestGoesHome(t *testing.T) {
	s := load(t, Finished(deps(nil), visualResult(), sessionsync.Outcome{}))
	_, cmd := s.Update(specialKey(tea.KeyEnter))
	_, ok := cmd().(router.PopScreenMsg)
	assert.True(t, ok)
}

func TestLoadErrorShown(t *testing.T) {
	s := load(t, New(deps(fakeResults{err: errors.New("disk full")})))
	assert.Contains(t, s.View(100, 30), "disk full")
}
