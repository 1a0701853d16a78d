package games

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/dyscreen/internal/minigame"
	"github.com/abhisek/dyscreen/internal/router"
	"github.com/abhisek/dyscreen/internal/screen"
	"github.com/abhisek/dyscreen/internal/screens"
)

type memKV map[string][]byte

func (m memKV) Get(_ context.Context, k string) ([]byte, bool, error) {
	v, ok := m[k]
	return v, ok, nil
}

func (m memKV) Put(_ context.Context, k string, v []byte) error {
	m[k] = v
	return nil
}

type fakeAttempts struct {
	err  error
	game string
	got  []minigame.Attempt
}

func (f *fakeAttempts) SubmitMinigame(_ context.Context, game string, a minigame.Attempt) error {
	f.game = game
	f.got = append(f.got, a)
	return f.err
}

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func lookup(t *testing.T, name string) minigame.Game {
	t.Helper()
	g, err := minigame.Lookup(name)
	require.NoError(t, err)
	return g
}

func newDeps(attempts screens.AttemptSubmitter) screens.Deps {
	return screens.Deps{
		Rewards:  minigame.NewRewardStore(memKV{}),
		Attempts: attempts,
		Now:      func() time.Time { return time.Date(2026, 5, 2, 9, 0, 0, 0, time.UTC) },
	}
}

// play answers every round, correctly when right(i) is true.
func play(t *testing.T, p *PlayScreen, right func(i int) bool) (*PlayScreen, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for i := range p.rounds {
		r := p.rounds[i]
		pick := r.Answer
		if !right(i) {
			pick = (r.Answer + 1) % len(r.Options)
		}
		var scr screen.Screen
		scr, cmd = p.Update(keyPress(rune('1' + pick)))
		p = scr.(*PlayScreen)
	}
	return p, cmd
}

func TestLetterHuntPerfectGame(t *testing.T) {
	attempts := &fakeAttempts{}
	p := NewPlay(newDeps(attempts), lookup(t, minigame.LetterHunt), rand.New(rand.NewPCG(1, 1)))
	require.Len(t, p.rounds, 12)

	p, cmd := play(t, p, func(int) bool { return true })
	require.True(t, p.done)
	require.NotNil(t, cmd)
	assert.Equal(t, 100, p.score)
	assert.Equal(t, 12, p.outcome.Correct)

	scr, _ := p.Update(cmd())
	p = scr.(*PlayScreen)
	require.NotNil(t, p.saved)
	assert.NoError(t, p.saved.Err)
	assert.True(t, p.saved.Submitted)
	require.Len(t, attempts.got, 1)
	assert.Equal(t, minigame.LetterHunt, attempts.game)
	assert.Equal(t, 1, attempts.got[0].Number)
	assert.Equal(t, 100, attempts.got[0].Score)
}

func TestWordBuilderRecordsRewards(t *testing.T) {
	deps := newDeps(nil)
	p := NewPlay(deps, lookup(t, minigame.WordBuilder), rand.New(rand.NewPCG(2, 2)))

	// Miss one round of level 4.
	p, cmd := play(t, p, func(i int) bool { return i != 7 })
	assert.Equal(t, 3, p.outcome.Levels)
	assert.Equal(t, 1, p.outcome.Wrong)

	msg := cmd().(savedMsg)
	require.NoError(t, msg.Err)
	assert.False(t, msg.Submitted)
	assert.Equal(t, 3, msg.Rewards.Buildings)
	assert.Equal(t, 3, msg.Rewards.Level)

	loaded, err := deps.Rewards.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, msg.Rewards, loaded)
}

func TestSubmitErrorIsShown(t *testing.T) {
	p := NewPlay(newDeps(&fakeAttempts{err: errors.New("offline")}), lookup(t, minigame.RhymeMatch), rand.New(rand.NewPCG(3, 3)))
	p, cmd := play(t, p, func(i int) bool { return i%2 == 0 })
	assert.Equal(t, minigame.AccuracyScore(5, 5, 10), p.score)

	scr, _ := p.Update(cmd())
	p = scr.(*PlayScreen)
	require.Error(t, p.saved.Err)
	assert.Contains(t, p.View(100, 30), "Could not save")
}

func TestDoneKeys(t *testing.T) {
	p := NewPlay(newDeps(nil), lookup(t, minigame.LetterHunt), rand.New(rand.NewPCG(4, 4)))
	p, cmd := play(t, p, func(int) bool { return false })

	// Keys are held while saving.
	_, held := p.Update(specialKey(tea.KeyEnter))
	assert.Nil(t, held)

	scr, _ := p.Update(cmd())
	p = scr.(*PlayScreen)

	_, again := p.Update(keyPress('r'))
	require.NotNil(t, again)
	_, ok := again().(router.ReplaceScreenMsg)
	assert.True(t, ok)

	_, done := p.Update(specialKey(tea.KeyEnter))
	require.NotNil(t, done)
	_, ok = done().(router.PopScreenMsg)
	assert.True(t, ok)
}

func TestPickerPushesGame(t *testing.T) {
	p := NewPicker(newDeps(nil))
	msg := p.Init()()
	scr, _ := p.Update(msg)
	p = scr.(*PickerScreen)

	_, cmd := p.Update(specialKey(tea.KeyEnter))
	require.NotNil(t, cmd)
	push, ok := cmd().(router.PushScreenMsg)
	require.True(t, ok)
	assert.Equal(t, "Letter Hunt", push.Screen.Title())
	assert.NotEmpty(t, p.View(100, 30))
}

func TestPickerReloadsRewardsOnResume(t *testing.T) {
	deps := newDeps(nil)
	p := NewPicker(deps)
	p.Update(p.Init()())
	assert.Zero(t, p.rewards.Buildings)

	_, err := deps.Rewards.Record(context.Background(), minigame.Outcome{Game: minigame.WordBuilder, Correct: 8, Levels: 2}, 90)
	require.NoError(t, err)

	p.Update(p.Resume()())
	assert.Equal(t, 2, p.rewards.Buildings)
}
