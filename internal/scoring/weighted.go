package scoring

import (
	"math"

	"github.com/abhisek/dyscreen/internal/steps"
)

// Weight of each language sub-test. The weights sum to 100.
var LanguageWeights = []SubtestWeight{
	{"vocabulary", 20},
	{"comprehension", 20},
	{"phonics", 20},
	{"spelling", 15},
	{"sentence", 15},
	{"fluency", 10},
}

// SubtestWeight pairs a language sub-test with its weight.
type SubtestWeight struct {
	Name   string
	Weight float64
}

// Subtest is the correct/total tally of one sub-test.
type Subtest struct {
	Correct int `json:"correct"`
	Total   int `json:"total"`
}

// WeightedScore is the weighted language score.
type WeightedScore struct {
	Score         int                `json:"score"`
	Raw           float64            `json:"raw"`
	Contributions map[string]float64 `json:"contributions"`
}

// SubtestResults tallies answers by the section of their step.
func SubtestResults(answers []Answer) map[string]Subtest {
	out := make(map[string]Subtest)
	for _, a := range answers {
		name := steps.Section(a.Step)
		if name == "" {
			continue
		}
		s := out[name]
		s.Total++
		if a.Correct {
			s.Correct++
		}
		out[name] = s
	}
	return out
}

// WeightedLanguageScore combines the six language sub-tests into a 0..100
// score. Missing sub-tests contribute nothing. Correct counts are clamped
// into [0, total].
func WeightedLanguageScore(results map[string]Subtest) WeightedScore {
	ws := WeightedScore{Contributions: make(map[string]float64, len(LanguageWeights))}
	for _, w := range LanguageWeights {
		r := results[w.Name]
		var c float64
		if r.Total > 0 {
			correct := r.Correct
			if correct < 0 {
				correct = 0
			}
			if correct > r.Total {
				correct = r.Total
			}
			c = float64(correct) / float64(r.Total) * w.Weight
		}
		ws.Contributions[w.Name] = c
		ws.Raw += c
	}
	ws.Raw = clamp(ws.Raw, 0, 100)
	ws.Score = int(math.Round(ws.Raw))
	return ws
}
