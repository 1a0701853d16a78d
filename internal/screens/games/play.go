package games

import (
	"context"
	"fmt"
	"math/rand/v2"
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

var roundBuilders = map[string]func(*rand.Rand) []minigame.Round{
	minigame.LetterHunt:  minigame.LetterHuntRounds,
	minigame.RhymeMatch:  minigame.RhymeMatchRounds,
	minigame.WordBuilder: minigame.WordBuilderRounds,
}

// savedMsg reports how recording the finished game went.
type savedMsg struct {
	Rewards   minigame.Rewards
	Submitted bool
	Err       error
}

// PlayScreen runs one play-through of a minigame.
type PlayScreen struct {
	deps   screens.Deps
	game   minigame.Game
	rounds []minigame.Round
	idx    int
	hits   []bool
	choice components.MultiChoice

	feedback string
	lastOK   bool

	done    bool
	outcome minigame.Outcome
	score   int
	saving  bool
	saved   *savedMsg
}

var _ screen.Screen = (*PlayScreen)(nil)
var _ screen.KeyHintProvider = (*PlayScreen)(nil)

// NewPlay prepares a play-through. rng may be nil.
func NewPlay(deps screens.Deps, g minigame.Game, rng *rand.Rand) *PlayScreen {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	p := &PlayScreen{deps: deps, game: g}
	if build, ok := roundBuilders[g.Name]; ok {
		p.rounds = build(rng)
	}
	p.hits = make([]bool, 0, len(p.rounds))
	p.loadRound()
	return p
}

func (p *PlayScreen) Init() tea.Cmd { return nil }

func (p *PlayScreen) Title() string { return p.game.Title }

func (p *PlayScreen) KeyHints() []layout.KeyHint {
	if p.done {
		return []layout.KeyHint{
			{Key: "R", Description: "Play again"},
			{Key: "Enter", Description: "Done"},
		}
	}
	return []layout.KeyHint{
		{Key: "1-4", Description: "Answer"},
		{Key: "↑↓", Description: "Choose"},
		{Key: "Esc", Description: "Quit game"},
	}
}

func (p *PlayScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case savedMsg:
		p.saving = false
		p.saved = &msg
		if msg.Err != nil {
			p.deps.Logger().Warn("record minigame failed", "game", p.game.Name, "error", msg.Err)
		}
		return p, nil
	case tea.KeyMsg:
		if p.done {
			return p.handleDoneKey(msg.String())
		}
		return p.handlePlayKey(msg)
	}
	return p, nil
}

func (p *PlayScreen) handlePlayKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if len(p.rounds) == 0 {
		return p, nil
	}
	p.choice, _ = p.choice.Update(msg)
	if !p.choice.Submitted {
		return p, nil
	}

	r := p.rounds[p.idx]
	p.lastOK = p.choice.ChosenIndex == r.Answer
	p.hits = append(p.hits, p.lastOK)
	if p.lastOK {
		p.feedback = "Yes! Well done."
	} else {
		p.feedback = fmt.Sprintf("Not quite. It was %q.", r.Options[r.Answer])
	}

	p.idx++
	if p.idx < len(p.rounds) {
		p.loadRound()
		return p, nil
	}
	return p, p.finish()
}

func (p *PlayScreen) handleDoneKey(key string) (screen.Screen, tea.Cmd) {
	if p.saving {
		return p, nil
	}
	switch key {
	case "r", "R":
		again := NewPlay(p.deps, p.game, nil)
		return p, func() tea.Msg { return router.ReplaceScreenMsg{Screen: again} }
	case "enter":
		return p, func() tea.Msg { return router.PopScreenMsg{} }
	}
	return p, nil
}

func (p *PlayScreen) loadRound() {
	if p.idx >= len(p.rounds) {
		return
	}
	r := p.rounds[p.idx]
	p.choice = components.NewMultiChoice(r.Prompt+" "+r.Target, r.Options)
}

// finish tallies the outcome and records it: rewards locally, the attempt
// on the backend when signed in.
func (p *PlayScreen) finish() tea.Cmd {
	correct := 0
	for _, ok := range p.hits {
		if ok {
			correct++
		}
	}
	p.outcome = minigame.Outcome{
		Game:    p.game.Name,
		Correct: correct,
		Wrong:   len(p.hits) - correct,
	}
	if p.game.MaxLevels > 0 {
		p.outcome.Levels = minigame.LevelsCleared(p.rounds, p.hits)
	}
	p.score = p.game.Score(p.outcome)
	p.done = true
	p.saving = true

	deps, outcome, score := p.deps, p.outcome, p.score
	return func() tea.Msg {
		return record(context.Background(), deps, outcome, score)
	}
}

func record(ctx context.Context, deps screens.Deps, o minigame.Outcome, score int) savedMsg {
	var msg savedMsg
	number := 1
	if deps.Rewards != nil {
		r, err := deps.Rewards.Record(ctx, o, score)
		if err != nil {
			return savedMsg{Err: err}
		}
		msg.Rewards = r
		if n, err := deps.Rewards.NextAttempt(ctx, o.Game); err == nil {
			number = n
		}
	}
	if deps.Attempts == nil {
		return msg
	}
	a, err := minigame.NewAttempt(number, o, deps.Clock())
	if err != nil {
		msg.Err = err
		return msg
	}
	if err := deps.Attempts.SubmitMinigame(ctx, o.Game, a); err != nil {
		msg.Err = err
		return msg
	}
	msg.Submitted = true
	return msg
}

func (p *PlayScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	if len(p.rounds) == 0 {
		return components.Frame(theme.Hint.Render("This game is not available."), width, height)
	}
	if p.done {
		return components.Frame(p.renderDone(cw), width, height)
	}

	var b strings.Builder
	b.WriteString(theme.Hint.Render(fmt.Sprintf("Round %d of %d", p.idx+1, len(p.rounds))))
	if lvl := p.rounds[p.idx].Level; lvl > 0 {
		b.WriteString(theme.Hint.Render(fmt.Sprintf("   Level %d", lvl)))
	}
	b.WriteString("\n\n")
	b.WriteString(p.choice.View())
	if p.feedback != "" {
		style := theme.Incorrect
		if p.lastOK {
			style = theme.Correct
		}
		b.WriteString("\n")
		b.WriteString(style.Render(p.feedback))
	}
	return components.Frame(components.Card(b.String(), cw), width, height)
}

func (p *PlayScreen) renderDone(cw int) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("Game over!"))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(
		fmt.Sprintf("Score %d   ✓ %d   ✗ %d", p.score, p.outcome.Correct, p.outcome.Wrong)))
	if p.game.MaxLevels > 0 {
		b.WriteString("\n")
		b.WriteString(theme.Hint.Render(fmt.Sprintf("Levels cleared: %d of %d", p.outcome.Levels, p.game.MaxLevels)))
	}
	b.WriteString("\n\n")
	switch {
	case p.saving:
		b.WriteString(theme.Hint.Render("Saving..."))
	case p.saved != nil && p.saved.Err != nil:
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Error).Render("Could not save: " + p.saved.Err.Error()))
	case p.saved != nil:
		if p.game.Name == minigame.WordBuilder {
			b.WriteString(renderRewards(p.saved.Rewards))
			b.WriteString("\n")
		}
		if p.saved.Submitted {
			b.WriteString(theme.Hint.Render("Sent to your account."))
		} else {
			b.WriteString(theme.Hint.Render("Saved on this computer."))
		}
	}
	return components.Card(b.String(), cw)
}
