package testflow

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/dyscreen/internal/api"
	"github.com/abhisek/dyscreen/internal/catalog"
	"github.com/abhisek/dyscreen/internal/question"
	"github.com/abhisek/dyscreen/internal/router"
	"github.com/abhisek/dyscreen/internal/screen"
	"github.com/abhisek/dyscreen/internal/screens"
	"github.com/abhisek/dyscreen/internal/scoring"
	"github.com/abhisek/dyscreen/internal/sessionsync"
	"github.com/abhisek/dyscreen/internal/steps"
)

type fakeCompleter struct {
	mu     sync.Mutex
	err    error
	calls  int
	result scoring.Result
	rating int
}

func (f *fakeCompleter) CompleteTest(_ context.Context, t catalog.TestType, res scoring.Result, rating int) (sessionsync.Outcome, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.result = res
	f.rating = rating
	if f.err != nil {
		return sessionsync.Outcome{}, f.err
	}
	return sessionsync.Outcome{Next: catalog.Visual, HasNext: t == catalog.Auditory}, nil
}

type fakeAnswers struct {
	appended []scoring.Answer
	cleared  []catalog.TestType
}

func (f *fakeAnswers) Append(_ context.Context, a scoring.Answer) error {
	f.appended = append(f.appended, a)
	return nil
}

func (f *fakeAnswers) Clear(_ context.Context, t catalog.TestType) error {
	f.cleared = append(f.cleared, t)
	return nil
}

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

var fixedNow = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func newScreen(t *testing.T, test catalog.TestType, c *fakeCompleter) *TestScreen {
	t.Helper()
	bank, err := question.Embedded()
	require.NoError(t, err)
	s := New(screens.Deps{
		Bank:      bank,
		Completer: c,
		Now:       func() time.Time { return fixedNow },
	}, test)
	require.Empty(t, s.errMsg)
	s.Init()
	return s
}

func send(s *TestScreen, msg tea.Msg) (*TestScreen, tea.Cmd) {
	var scr screen.Screen = s
	scr, cmd := scr.Update(msg)
	return scr.(*TestScreen), cmd
}

// answerCorrectly answers the current question with the expected value.
func answerCorrectly(t *testing.T, s *TestScreen) *TestScreen {
	t.Helper()
	require.True(t, s.hasDef, "step %s has no question", s.seq.Current())
	switch body := s.def.Body.(type) {
	case question.Choice:
		s, _ = send(s, keyPress(rune('1'+body.Answer)))
	case question.Text:
		s.input.Model.SetValue(body.Accepted[0])
		s, _ = send(s, specialKey(tea.KeyEnter))
	case question.Drawing:
		s.input.Model.SetValue(body.Target)
		s, _ = send(s, specialKey(tea.KeyEnter))
		s.strokes.Model.SetValue(strconv.Itoa(body.MinStrokes))
		s, _ = send(s, specialKey(tea.KeyEnter))
	default:
		t.Fatalf("unexpected body %T", body)
	}
	return s
}

// runToRating walks every step up to the rating, answering correctly.
func runToRating(t *testing.T, s *TestScreen) *TestScreen {
	t.Helper()
	for steps.KindOf(s.seq.Current()) != steps.KindRating {
		before := s.seq.Index()
		if steps.KindOf(s.seq.Current()) == steps.KindQuestion {
			s = answerCorrectly(t, s)
		} else {
			s, _ = send(s, specialKey(tea.KeyEnter))
		}
		require.Equal(t, before+1, s.seq.Index(), "stuck at %s", s.seq.Current())
	}
	return s
}

func TestTitle(t *testing.T) {
	s := newScreen(t, catalog.Auditory, &fakeCompleter{})
	assert.Equal(t, "Listening test", s.Title())
}

func TestFullFlowSubmitsPerfectScore(t *testing.T) {
	for _, test := range catalog.AllTests() {
		t.Run(string(test), func(t *testing.T) {
			c := &fakeCompleter{}
			s := runToRating(t, newScreen(t, test, c))

			s, _ = send(s, keyPress('4'))
			s, cmd := send(s, specialKey(tea.KeyEnter))
			require.NotNil(t, cmd)
			assert.True(t, s.submitting)

			s, next := send(s, cmd())
			require.NotNil(t, next)
			_, ok := next().(router.ReplaceScreenMsg)
			assert.True(t, ok)

			assert.Equal(t, 1, c.calls)
			assert.Equal(t, 4, c.rating)
			assert.Equal(t, test, c.result.TestType)
			assert.InDelta(t, 100, c.result.Percentage, 0.001)
			assert.Equal(t, scoring.RiskLow, c.result.Risk)
			if test == catalog.Language {
				require.NotNil(t, c.result.Weighted)
				assert.Equal(t, 100, c.result.Weighted.Score)
			} else {
				assert.Nil(t, c.result.Weighted)
			}
			assert.False(t, s.submitting)
		})
	}
}

func TestBackReplaysHistory(t *testing.T) {
	s := newScreen(t, catalog.Auditory, &fakeCompleter{})
	s, _ = send(s, specialKey(tea.KeyEnter))
	s, _ = send(s, specialKey(tea.KeyEnter))
	require.Equal(t, "simple/1", s.seq.Current())
	s = answerCorrectly(t, s)
	require.Equal(t, "simple/2", s.seq.Current())

	for _, want := range []string{"simple/1", "simple", steps.StepInstruction, steps.StepInstruction} {
		s, _ = send(s, keyPress('b'))
		assert.Equal(t, want, s.seq.Current())
	}
}

func TestReansweringReplacesAnswer(t *testing.T) {
	s := newScreen(t, catalog.Auditory, &fakeCompleter{})
	s, _ = send(s, specialKey(tea.KeyEnter))
	s, _ = send(s, specialKey(tea.KeyEnter))
	s = answerCorrectly(t, s)
	s, _ = send(s, keyPress('b'))
	s = answerCorrectly(t, s)
	assert.Len(t, s.answers, 1)
}

func TestStaleTickIgnored(t *testing.T) {
	s := newScreen(t, catalog.Auditory, &fakeCompleter{})
	s, _ = send(s, specialKey(tea.KeyEnter))
	s, _ = send(s, specialKey(tea.KeyEnter))
	require.True(t, s.hasDef)
	start := s.remaining

	s, cmd := send(s, timerTickMsg{Gen: s.gen - 1})
	assert.Nil(t, cmd)
	assert.Equal(t, start, s.remaining)

	s, cmd = send(s, timerTickMsg{Gen: s.gen})
	assert.NotNil(t, cmd)
	assert.Equal(t, start-time.Second, s.remaining)
}

func TestTimeoutRecordsWrongAnswer(t *testing.T) {
	s := newScreen(t, catalog.Auditory, &fakeCompleter{})
	s.deps.QuestionTime = time.Second
	s, _ = send(s, specialKey(tea.KeyEnter))
	s, _ = send(s, specialKey(tea.KeyEnter))
	require.Equal(t, "simple/1", s.seq.Current())

	s, _ = send(s, timerTickMsg{Gen: s.gen})
	require.Len(t, s.answers, 1)
	assert.False(t, s.answers[0].Correct)
	assert.Equal(t, 0, s.answers[0].Score)
	assert.Equal(t, "simple/2", s.seq.Current())
	assert.NotEmpty(t, s.toast)
}

func TestSubmitFailureAllowsRetry(t *testing.T) {
	c := &fakeCompleter{err: errors.New("backend down")}
	s := runToRating(t, newScreen(t, catalog.Visual, c))

	s, cmd := send(s, specialKey(tea.KeyEnter))
	require.NotNil(t, cmd)
	s, next := send(s, cmd())
	assert.Nil(t, next)
	assert.False(t, s.submitting)
	assert.Contains(t, s.toast, "Could not save")
	assert.Equal(t, steps.StepRating, s.seq.Current())

	c.err = nil
	s, cmd = send(s, specialKey(tea.KeyEnter))
	require.NotNil(t, cmd)
	_, next = send(s, cmd())
	require.NotNil(t, next)
	assert.Equal(t, 2, c.calls)
}

func TestKeysDisabledWhileSubmitting(t *testing.T) {
	s := runToRating(t, newScreen(t, catalog.Auditory, &fakeCompleter{}))
	s, cmd := send(s, specialKey(tea.KeyEnter))
	require.NotNil(t, cmd)

	s, again := send(s, specialKey(tea.KeyEnter))
	assert.Nil(t, again)
	s, _ = send(s, keyPress('1'))
	assert.Equal(t, defaultRating, s.rating)
	s, _ = send(s, keyPress('b'))
	assert.Equal(t, steps.StepRating, s.seq.Current())
}

func TestUnauthorizedLeavesFlow(t *testing.T) {
	c := &fakeCompleter{err: api.ErrUnauthorized}
	s := runToRating(t, newScreen(t, catalog.Auditory, c))
	s, cmd := send(s, specialKey(tea.KeyEnter))
	_, next := send(s, cmd())
	assert.NotNil(t, next)
}

func TestSubmitInFlightShowsNotice(t *testing.T) {
	c := &fakeCompleter{err: sessionsync.ErrSubmitInFlight}
	s := runToRating(t, newScreen(t, catalog.Auditory, c))
	s, cmd := send(s, specialKey(tea.KeyEnter))
	s, _ = send(s, cmd())
	assert.Contains(t, s.toast, "Still saving")
}

func TestRatingBounds(t *testing.T) {
	s := runToRating(t, newScreen(t, catalog.Auditory, &fakeCompleter{}))
	for range 10 {
		s, _ = send(s, specialKey(tea.KeyRight))
	}
	assert.Equal(t, maxRating, s.rating)
	for range 10 {
		s, _ = send(s, specialKey(tea.KeyLeft))
	}
	assert.Equal(t, minRating, s.rating)
	s, _ = send(s, keyPress('9'))
	assert.Equal(t, minRating, s.rating)
}

func TestQuitConfirm(t *testing.T) {
	s := newScreen(t, catalog.Auditory, &fakeCompleter{})
	assert.True(t, s.HandlesEscape())

	s, _ = send(s, specialKey(tea.KeyEscape))
	assert.True(t, s.confirmQuit)
	s, _ = send(s, keyPress('n'))
	assert.False(t, s.confirmQuit)

	s, _ = send(s, specialKey(tea.KeyEscape))
	_, cmd := send(s, keyPress('y'))
	require.NotNil(t, cmd)
	_, ok := cmd().(router.PopScreenMsg)
	assert.True(t, ok)
}

func TestAnswersPersisted(t *testing.T) {
	log := &fakeAnswers{}
	bank, err := question.Embedded()
	require.NoError(t, err)
	s := New(screens.Deps{Bank: bank, Completer: &fakeCompleter{}, Answers: log}, catalog.Visual)

	s.clearAnswers()()
	assert.Equal(t, []catalog.TestType{catalog.Visual}, log.cleared)

	s.persist(scoring.Answer{QuestionID: "q"})()
	require.Len(t, log.appended, 1)
}

func TestMisconfigured(t *testing.T) {
	s := New(screens.Deps{}, catalog.Auditory)
	assert.NotEmpty(t, s.errMsg)
	assert.False(t, s.HandlesEscape())
	assert.NotEmpty(t, s.View(80, 24))

	_, cmd := send(s, keyPress('x'))
	require.NotNil(t, cmd)
	_, ok := cmd().(router.PopScreenMsg)
	assert.True(t, ok)
}

func TestViewRendersEveryStepKind(t *testing.T) {
	s := newScreen(t, catalog.Visual, &fakeCompleter{})
	for {
		assert.NotEmpty(t, s.View(100, 30), "step %s", s.seq.Current())
		if steps.KindOf(s.seq.Current()) == steps.KindRating {
			break
		}
		if steps.KindOf(s.seq.Current()) == steps.KindQuestion {
			s = answerCorrectly(t, s)
		} else {
			s, _ = send(s, specialKey(tea.KeyEnter))
		}
	}
}
