// Package testflow runs one screening test step by step.
package testflow

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/dyscreen/internal/api"
	"github.com/abhisek/dyscreen/internal/catalog"
	"github.com/abhisek/dyscreen/internal/question"
	"github.com/abhisek/dyscreen/internal/router"
	"github.com/abhisek/dyscreen/internal/screen"
	"github.com/abhisek/dyscreen/internal/screens"
	"github.com/abhisek/dyscreen/internal/screens/results"
	"github.com/abhisek/dyscreen/internal/scoring"
	"github.com/abhisek/dyscreen/internal/sessionsync"
	"github.com/abhisek/dyscreen/internal/steps"
	"github.com/abhisek/dyscreen/internal/ui/components"
	"github.com/abhisek/dyscreen/internal/ui/layout"
)

const (
	minRating     = 1
	maxRating     = 5
	defaultRating = 3
)

// TestScreen walks the step list of one test.
type TestScreen struct {
	deps    screens.Deps
	test    catalog.TestType
	seq     *steps.Sequencer
	history []string

	answers   []scoring.Answer
	answerIdx map[string]int
	startedAt time.Time

	// Current question.
	def       question.Definition
	hasDef    bool
	shownAt   time.Time
	remaining time.Duration
	gen       int
	choice    components.MultiChoice
	input     components.TextInput
	strokes   components.TextInput
	drawStage int

	rating      int
	finished    scoring.Result
	submitting  bool
	confirmQuit bool
	toast       string
	errMsg      string
}

var _ screen.Screen = (*TestScreen)(nil)
var _ screen.KeyHintProvider = (*TestScreen)(nil)
var _ screen.EscapeHandler = (*TestScreen)(nil)

// New creates the flow for test t, positioned at its instructions.
func New(deps screens.Deps, t catalog.TestType) *TestScreen {
	s := &TestScreen{
		deps:      deps,
		test:      t,
		answerIdx: map[string]int{},
		rating:    defaultRating,
	}
	seq, err := steps.ForTest(t, s.navigate)
	if err != nil {
		s.errMsg = err.Error()
		return s
	}
	if deps.Bank == nil || deps.Completer == nil {
		s.errMsg = "test is not configured"
		return s
	}
	s.seq = seq
	s.history = []string{seq.Route()}
	return s
}

// navigate records every route the sequencer moves to so Back can replay it.
func (s *TestScreen) navigate(route string) {
	s.history = append(s.history, route)
}

func (s *TestScreen) Init() tea.Cmd {
	if s.errMsg != "" {
		return nil
	}
	s.startedAt = s.deps.Clock()
	return tea.Batch(s.clearAnswers(), s.enterStep())
}

func (s *TestScreen) Title() string {
	return s.test.DisplayName() + " test"
}

// HandlesEscape keeps Esc for the quit confirmation.
func (s *TestScreen) HandlesEscape() bool {
	return s.errMsg == ""
}

func (s *TestScreen) KeyHints() []layout.KeyHint {
	if s.errMsg != "" {
		return []layout.KeyHint{{Key: "any key", Description: "Back"}}
	}
	if s.confirmQuit {
		return []layout.KeyHint{
			{Key: "Y", Description: "Stop test"},
			{Key: "N", Description: "Keep going"},
		}
	}
	if s.submitting {
		return []layout.KeyHint{{Key: "", Description: "Saving..."}}
	}
	back := layout.KeyHint{Key: "B", Description: "Back"}
	switch steps.KindOf(s.seq.Current()) {
	case steps.KindQuestion:
		if !s.hasDef {
			return []layout.KeyHint{{Key: "Enter", Description: "Skip"}, back}
		}
		switch s.def.Kind() {
		case question.KindChoice:
			return []layout.KeyHint{
				{Key: "1-4", Description: "Answer"},
				{Key: "↑↓", Description: "Choose"},
				{Key: "Enter", Description: "Answer"},
				back,
			}
		default:
			return []layout.KeyHint{
				{Key: "Enter", Description: "Submit"},
				{Key: "Ctrl+B", Description: "Back"},
				{Key: "Esc", Description: "Stop"},
			}
		}
	case steps.KindRating:
		return []layout.KeyHint{
			{Key: "←→", Description: "Rate"},
			{Key: "Enter", Description: "Finish"},
			back,
		}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Continue"},
		back,
		{Key: "Esc", Description: "Stop"},
	}
}

func (s *TestScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case timerTickMsg:
		return s.handleTimerTick(msg)
	case answerSavedMsg:
		if msg.Err != nil {
			s.deps.Logger().Warn("persist answer failed", "test", s.test, "error", msg.Err)
		}
		return s, nil
	case answersClearedMsg:
		if msg.Err != nil {
			s.deps.Logger().Warn("clear answers failed", "test", s.test, "error", msg.Err)
		}
		return s, nil
	case completeMsg:
		return s.handleComplete(msg)
	case screens.ToastMsg:
		s.toast = msg.Text
		return s, nil
	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	if s.typing() {
		return s.updateInputs(msg)
	}
	return s, nil
}

func (s *TestScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.errMsg != "" {
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}

	if s.confirmQuit {
		switch key {
		case "y", "Y":
			s.gen++
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "n", "N", "esc":
			s.confirmQuit = false
		}
		return s, nil
	}

	// Keys stay disabled while the finished test is being submitted.
	if s.submitting {
		return s, nil
	}

	switch key {
	case "esc":
		s.confirmQuit = true
		return s, nil
	case "ctrl+b":
		return s.back()
	case "b", "B":
		if !s.typing() {
			return s.back()
		}
	}

	s.toast = ""
	current := s.seq.Current()
	switch steps.KindOf(current) {
	case steps.KindInstruction, steps.KindIntro:
		if key == "enter" || key == "space" || key == " " {
			return s.advance()
		}
		return s, nil
	case steps.KindRating:
		return s.handleRatingKey(key)
	}
	return s.handleQuestionKey(msg)
}

func (s *TestScreen) handleQuestionKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()
	if !s.hasDef {
		if key == "enter" {
			return s.advance()
		}
		return s, nil
	}

	switch s.def.Kind() {
	case question.KindChoice:
		s.choice, _ = s.choice.Update(msg)
		if s.choice.Submitted {
			return s.answer(question.Submission{Choice: s.choice.ChosenIndex})
		}
		return s, nil

	case question.KindText:
		if key == "enter" {
			if s.input.Empty() {
				return s, nil
			}
			return s.answer(question.Submission{Text: s.input.Value()})
		}

	case question.KindDrawing:
		if key == "enter" {
			if s.drawStage == 0 {
				if s.input.Empty() {
					return s, nil
				}
				s.drawStage = 1
				s.input.Blur()
				return s, s.strokes.Focus()
			}
			n, ok := s.strokes.IntValue()
			if !ok {
				return s, nil
			}
			return s.answer(question.Submission{Text: s.input.Value(), Strokes: n})
		}
	}
	return s.updateInputs(msg)
}

func (s *TestScreen) handleRatingKey(key string) (screen.Screen, tea.Cmd) {
	switch key {
	case "left", "h", "down", "j":
		if s.rating > minRating {
			s.rating--
		}
	case "right", "l", "up", "k":
		if s.rating < maxRating {
			s.rating++
		}
	case "enter":
		return s.finish()
	default:
		if n, err := strconv.Atoi(key); err == nil && n >= minRating && n <= maxRating {
			s.rating = n
		}
	}
	return s, nil
}

func (s *TestScreen) handleTimerTick(msg timerTickMsg) (screen.Screen, tea.Cmd) {
	if msg.Gen != s.gen || !s.hasDef || s.submitting {
		return s, nil
	}
	s.remaining -= time.Second
	if s.remaining > 0 {
		return s, tickCmd(s.gen)
	}
	s.remaining = 0
	s.confirmQuit = false
	s.toast = "Time is up for that one."
	return s.answer(timeoutSubmission(s.def))
}

// timeoutSubmission is an empty answer that never matches.
func timeoutSubmission(def question.Definition) question.Submission {
	if def.Kind() == question.KindChoice {
		return question.Submission{Choice: -1}
	}
	return question.Submission{}
}

// answer records the current question and moves on.
func (s *TestScreen) answer(sub question.Submission) (screen.Screen, tea.Cmd) {
	a := scoring.Record(s.def, sub, s.shownAt, s.deps.Clock())
	if i, ok := s.answerIdx[a.QuestionID]; ok {
		s.answers[i] = a
	} else {
		s.answerIdx[a.QuestionID] = len(s.answers)
		s.answers = append(s.answers, a)
	}
	s.deps.Logger().Debug("answer recorded", "test", s.test, "step", a.Step, "correct", a.Correct, "score", a.Score)

	_, cmd := s.advance()
	return s, tea.Batch(s.persist(a), cmd)
}

func (s *TestScreen) advance() (screen.Screen, tea.Cmd) {
	if !s.seq.Advance() {
		return s, nil
	}
	return s, s.enterStep()
}

// back replays the route history one step, the way a browser's back
// button would, and lets the sequencer adopt the restored route.
func (s *TestScreen) back() (screen.Screen, tea.Cmd) {
	if len(s.history) < 2 {
		return s, nil
	}
	s.history = s.history[:len(s.history)-1]
	if !s.seq.SyncPath(s.history[len(s.history)-1]) {
		return s, nil
	}
	s.toast = ""
	return s, s.enterStep()
}

// enterStep prepares the current step and restarts the countdown for
// questions. Bumping gen drops ticks from the previous step.
func (s *TestScreen) enterStep() tea.Cmd {
	s.gen++
	s.hasDef = false
	s.drawStage = 0

	step := s.seq.Current()
	if steps.KindOf(step) != steps.KindQuestion {
		return nil
	}
	def, ok := s.deps.Bank.ForStep(s.test, step)
	if !ok {
		s.deps.Logger().Warn("no question for step", "test", s.test, "step", step)
		return nil
	}
	s.def = def
	s.hasDef = true
	s.shownAt = s.deps.Clock()
	s.remaining = s.deps.Countdown()

	var focus tea.Cmd
	switch body := def.Body.(type) {
	case question.Choice:
		s.choice = components.NewMultiChoice(def.Prompt, body.Options)
	case question.Text:
		s.input = components.NewTextInput("type your answer", components.AnyText, 40)
		s.input.Label = "Answer: "
		focus = s.input.Init()
	case question.Drawing:
		s.input = components.NewTextInput("letter you drew", components.AnyText, 4)
		s.input.Label = "Letter you drew: "
		s.strokes = components.NewTextInput("strokes", components.DigitsOnly, 2)
		s.strokes.Label = "Strokes used:    "
		s.strokes.Blur()
		focus = s.input.Init()
	}
	return tea.Batch(focus, tickCmd(s.gen))
}

// typing reports whether keys go to a text field.
func (s *TestScreen) typing() bool {
	if s.seq == nil || !s.hasDef || steps.KindOf(s.seq.Current()) != steps.KindQuestion {
		return false
	}
	k := s.def.Kind()
	return k == question.KindText || k == question.KindDrawing
}

func (s *TestScreen) updateInputs(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	if s.def.Kind() == question.KindDrawing && s.drawStage == 1 {
		s.strokes, cmd = s.strokes.Update(msg)
	} else {
		s.input, cmd = s.input.Update(msg)
	}
	return s, cmd
}

// finish scores the test and hands it to the completer.
func (s *TestScreen) finish() (screen.Screen, tea.Cmd) {
	res := s.result()
	s.finished = res
	s.submitting = true
	s.toast = "Saving your results..."
	completer, test, rating := s.deps.Completer, s.test, s.rating
	return s, func() tea.Msg {
		out, err := completer.CompleteTest(context.Background(), test, res, rating)
		return completeMsg{Outcome: out, Err: err}
	}
}

// result scores the answers given so far.
func (s *TestScreen) result() scoring.Result {
	res := scoring.ComputeResult(s.answers, s.deps.Bank.Defs(), s.startedAt, s.deps.Clock())
	res.TestType = s.test
	if s.test == catalog.Language {
		w := scoring.WeightedLanguageScore(scoring.SubtestResults(s.answers))
		res.Weighted = &w
	}
	return res
}

func (s *TestScreen) handleComplete(msg completeMsg) (screen.Screen, tea.Cmd) {
	s.submitting = false
	if msg.Err == nil {
		s.toast = ""
		next := results.Finished(s.deps, s.finished, msg.Outcome)
		return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
	}

	log := s.deps.Logger()
	switch {
	case errors.Is(msg.Err, api.ErrUnauthorized):
		log.Warn("submit rejected, signed out", "test", s.test)
		return s, tea.Sequence(
			func() tea.Msg { return router.PopToRootMsg{} },
			func() tea.Msg { return screens.ToastMsg{Text: "Your login expired. Please log in again."} },
		)
	case errors.Is(msg.Err, sessionsync.ErrSubmitInFlight):
		s.toast = "Still saving, please wait."
	default:
		log.Error("submit failed", "test", s.test, "error", msg.Err)
		s.toast = fmt.Sprintf("Could not save results (%v). Press Enter to try again.", msg.Err)
	}
	return s, nil
}

func (s *TestScreen) clearAnswers() tea.Cmd {
	log, test := s.deps.Answers, s.test
	if log == nil {
		return nil
	}
	return func() tea.Msg {
		return answersClearedMsg{Err: log.Clear(context.Background(), test)}
	}
}

func (s *TestScreen) persist(a scoring.Answer) tea.Cmd {
	log := s.deps.Answers
	if log == nil {
		return nil
	}
	return func() tea.Msg {
		return answerSavedMsg{Err: log.Append(context.Background(), a)}
	}
}

// tickCmd returns a 1-second countdown tick for generation gen.
func tickCmd(gen int) tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return timerTickMsg{Gen: gen}
	})
}
