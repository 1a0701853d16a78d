package minigame

import (
	"math/rand/v2"
	"strings"
)

// Round is one minigame question: Prompt with Target, pick Options[Answer].
// Level groups word-builder rounds; it is 0 for the other games.
type Round struct {
	Prompt  string
	Target  string
	Options []string
	Answer  int
	Level   int
}

// Letters that children with dyslexia commonly confuse, grouped so each
// round offers look-alikes.
var confusables = [][]string{
	{"b", "d", "p", "q"},
	{"m", "w", "n", "u"},
	{"n", "u", "h", "r"},
	{"e", "a", "o", "c"},
	{"i", "l", "j", "t"},
	{"s", "z", "5", "2"},
}

// rhymeSets pairs a cue word with one rhyme and three distractors.
var rhymeSets = []struct {
	cue, rhyme  string
	distractors []string
}{
	{"cat", "hat", []string{"cup", "dog", "sun"}},
	{"bee", "tree", []string{"bed", "bus", "cow"}},
	{"cake", "lake", []string{"kite", "cow", "moon"}},
	{"frog", "log", []string{"fish", "leaf", "rain"}},
	{"star", "car", []string{"sky", "shoe", "bell"}},
	{"moon", "spoon", []string{"milk", "map", "pen"}},
	{"king", "ring", []string{"kite", "book", "hat"}},
	{"boat", "goat", []string{"bird", "bag", "sock"}},
	{"mouse", "house", []string{"mole", "hose", "desk"}},
	{"snail", "whale", []string{"snake", "wheel", "note"}},
	{"fox", "box", []string{"fan", "bag", "fig"}},
	{"bear", "chair", []string{"ball", "cheese", "bread"}},
}

// builderWords are grouped by level, two words per level.
var builderWords = [][]string{
	{"cat", "dog", "sun", "pig", "hat", "bus"},
	{"frog", "ship", "drum", "milk", "nest", "crab"},
	{"plant", "trunk", "bread", "clock", "grape", "smile"},
	{"rabbit", "garden", "pencil", "basket", "window", "sister"},
}

// LetterHuntRounds builds a full letter-hunt game from rng.
func LetterHuntRounds(rng *rand.Rand) []Round {
	g, _ := Lookup(LetterHunt)
	rounds := make([]Round, 0, g.Questions)
	for range g.Questions {
		group := confusables[rng.IntN(len(confusables))]
		opts := append([]string(nil), group...)
		shuffle(rng, opts)
		answer := rng.IntN(len(opts))
		rounds = append(rounds, Round{Prompt: "Find the letter", Target: opts[answer], Options: opts, Answer: answer})
	}
	return rounds
}

// RhymeMatchRounds builds a rhyme-match game from rng.
func RhymeMatchRounds(rng *rand.Rand) []Round {
	g, _ := Lookup(RhymeMatch)
	sets := make([]int, len(rhymeSets))
	for i := range sets {
		sets[i] = i
	}
	shuffle(rng, sets)

	rounds := make([]Round, 0, g.Questions)
	for _, i := range sets[:g.Questions] {
		set := rhymeSets[i]
		opts := append([]string{set.rhyme}, set.distractors...)
		shuffle(rng, opts)
		rounds = append(rounds, Round{
			Prompt:  "Which word rhymes with",
			Target:  set.cue,
			Options: opts,
			Answer:  indexOf(opts, set.rhyme),
		})
	}
	return rounds
}

// WordBuilderRounds builds a word-builder game: each round shows scrambled
// letters and asks for the word they make.
func WordBuilderRounds(rng *rand.Rand) []Round {
	g, _ := Lookup(WordBuilder)
	perLevel := g.Questions / g.MaxLevels
	rounds := make([]Round, 0, g.Questions)
	for level, words := range builderWords[:g.MaxLevels] {
		pool := append([]string(nil), words...)
		shuffle(rng, pool)
		for _, word := range pool[:perLevel] {
			opts := []string{word}
			for _, w := range pool[perLevel:] {
				if len(opts) == 4 {
					break
				}
				opts = append(opts, w)
			}
			shuffle(rng, opts)
			rounds = append(rounds, Round{
				Prompt:  "Build a word from",
				Target:  scramble(rng, word),
				Options: opts,
				Answer:  indexOf(opts, word),
				Level:   level + 1,
			})
		}
	}
	return rounds
}

// LevelsCleared counts levels whose rounds were all answered correctly.
// correct is indexed like rounds.
func LevelsCleared(rounds []Round, correct []bool) int {
	failed := map[int]bool{}
	seen := map[int]bool{}
	for i, r := range rounds {
		if r.Level == 0 {
			continue
		}
		seen[r.Level] = true
		if i >= len(correct) || !correct[i] {
			failed[r.Level] = true
		}
	}
	return len(seen) - len(failed)
}

func scramble(rng *rand.Rand, word string) string {
	letters := strings.Split(word, "")
	for range 4 {
		shuffle(rng, letters)
		if strings.Join(letters, "") != word {
			break
		}
	}
	return strings.Join(letters, " ")
}

func shuffle[T any](rng *rand.Rand, s []T) {
	rng.Shuffle(len(s), func(i, j int) { s[i], s[j] = s[j], s[i] })
}

func indexOf(s []string, v string) int {
	for i, x := range s {
		if x == v {
			return i
		}
	}
	return -1
}
