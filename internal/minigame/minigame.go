// Package minigame scores the bonus games and keeps the word-builder
// reward counters.
package minigame

import (
	"errors"
	"fmt"
	"math"
	"time"
)

const (
	LetterHunt  = "letter-hunt"
	RhymeMatch  = "rhyme-match"
	WordBuilder = "word-builder"
)

// ErrUnknownGame is returned for names outside the game table.
var ErrUnknownGame = errors.New("unknown minigame")

// Outcome is the raw tally of one play-through.
type Outcome struct {
	Game    string `json:"game"`
	Correct int    `json:"correct"`
	Wrong   int    `json:"wrong"`
	Levels  int    `json:"levels"`
}

// Game describes one minigame and how it is scored.
type Game struct {
	Name      string
	Title     string
	Questions int
	MaxLevels int
}

var games = []Game{
	{Name: LetterHunt, Title: "Letter Hunt", Questions: 12},
	{Name: RhymeMatch, Title: "Rhyme Match", Questions: 10},
	{Name: WordBuilder, Title: "Word Builder", Questions: 8, MaxLevels: 4},
}

// Games returns the game table.
func Games() []Game {
	out := make([]Game, len(games))
	copy(out, games)
	return out
}

// Lookup finds a game by name.
func Lookup(name string) (Game, error) {
	for _, g := range games {
		if g.Name == name {
			return g, nil
		}
	}
	return Game{}, fmt.Errorf("%w: %q", ErrUnknownGame, name)
}

// Score converts an outcome into 0..100.
func (g Game) Score(o Outcome) int {
	if g.MaxLevels > 0 {
		return LevelScore(o.Correct, o.Wrong, o.Levels, g.Questions, g.MaxLevels)
	}
	return AccuracyScore(o.Correct, o.Wrong, g.Questions)
}

// AccuracyScore charges half a point per wrong answer.
func AccuracyScore(correct, wrong, questions int) int {
	if questions <= 0 {
		return 0
	}
	correct = clampInt(correct, 0, questions)
	wrong = max(wrong, 0)
	raw := float64(correct) - float64(wrong)/2
	return bounded(100 * raw / float64(questions))
}

// LevelScore rewards correct answers and completed levels and charges two
// points per wrong answer.
func LevelScore(correct, wrong, levels, questions, maxLevels int) int {
	maxRaw := 10*questions + 5*maxLevels
	if maxRaw <= 0 {
		return 0
	}
	correct = clampInt(correct, 0, questions)
	levels = clampInt(levels, 0, maxLevels)
	wrong = max(wrong, 0)
	raw := 10*correct + 5*levels - 2*wrong
	return bounded(100 * float64(raw) / float64(maxRaw))
}

// Attempt is a minigame submission.
type Attempt struct {
	Number    int            `json:"number"`
	Score     int            `json:"score"`
	Details   map[string]any `json:"details"`
	Timestamp time.Time      `json:"timestamp"`
}

// NewAttempt scores the outcome and builds the submission payload.
func NewAttempt(number int, o Outcome, now time.Time) (Attempt, error) {
	g, err := Lookup(o.Game)
	if err != nil {
		return Attempt{}, err
	}
	details := map[string]any{
		"correct": o.Correct,
		"wrong":   o.Wrong,
	}
	if g.MaxLevels > 0 {
		details["levels"] = o.Levels
	}
	return Attempt{
		Number:    number,
		Score:     g.Score(o),
		Details:   details,
		Timestamp: now.UTC(),
	}, nil
}

func bounded(v float64) int {
	return clampInt(int(math.Round(v)), 0, 100)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
