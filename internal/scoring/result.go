package scoring

import (
	"sort"
	"time"

	"github.com/abhisek/dyscreen/internal/catalog"
	"github.com/abhisek/dyscreen/internal/question"
)

// UnderperformingThreshold is the module percentage below which a module
// counts against the risk level.
const UnderperformingThreshold = 50.0

// RiskLevel classifies how likely the results indicate dyslexia.
type RiskLevel string

const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

// Severity orders risk levels, LOW being 0.
func (r RiskLevel) Severity() int {
	switch r {
	case RiskLow:
		return 0
	case RiskMedium:
		return 1
	default:
		return 2
	}
}

// ModuleScore aggregates the answers of one module.
type ModuleScore struct {
	Module     catalog.Module `json:"module"`
	Score      int            `json:"score"`
	MaxScore   int            `json:"max_score"`
	Percentage float64        `json:"percentage"`
	Questions  int            `json:"questions"`
}

// Underperforming reports whether the module was answered and scored below
// the threshold.
func (m ModuleScore) Underperforming() bool {
	return m.Questions > 0 && m.Percentage < UnderperformingThreshold
}

// Result is the outcome of one test run.
type Result struct {
	TestType        catalog.TestType               `json:"test_type"`
	Modules         map[catalog.Module]ModuleScore `json:"modules"`
	Score           int                            `json:"score"`
	MaxScore        int                            `json:"max_score"`
	Percentage      float64                        `json:"percentage"`
	Underperforming int                            `json:"underperforming"`
	Risk            RiskLevel                      `json:"risk"`
	Answered        int                            `json:"answered"`
	StartedAt       time.Time                      `json:"started_at"`
	EndedAt         time.Time                      `json:"ended_at"`
	Duration        time.Duration                  `json:"duration"`
	Weighted        *WeightedScore                 `json:"weighted,omitempty"`
}

// SortedModules returns the module scores in display order.
func (r Result) SortedModules() []ModuleScore {
	out := make([]ModuleScore, 0, len(r.Modules))
	for _, m := range r.Modules {
		out = append(out, m)
	}
	order := make(map[catalog.Module]int)
	for i, m := range catalog.AllModules() {
		order[m] = i
	}
	sort.Slice(out, func(i, j int) bool { return order[out[i].Module] < order[out[j].Module] })
	return out
}

// Percentage returns score/max as a percentage, 0 when max is 0.
func Percentage(score, maxScore int) float64 {
	if maxScore <= 0 {
		return 0
	}
	p := float64(score) / float64(maxScore) * 100
	return clamp(p, 0, 100)
}

// ClassifyRisk maps the overall percentage and the number of
// underperforming modules to a risk level.
func ClassifyRisk(percentage float64, underperforming int) RiskLevel {
	switch {
	case percentage >= 70 && underperforming <= 1:
		return RiskLow
	case percentage >= 50 && underperforming <= 2:
		return RiskMedium
	default:
		return RiskHigh
	}
}

// ComputeResult aggregates answers per module. Module and max score come from
// the question definition when defs has one, otherwise from the answer.
func ComputeResult(answers []Answer, defs map[string]question.Definition, start, end time.Time) Result {
	res := Result{
		Modules:   make(map[catalog.Module]ModuleScore),
		StartedAt: start,
		EndedAt:   end,
	}
	if end.After(start) {
		res.Duration = end.Sub(start)
	}

	for _, a := range answers {
		module, maxScore := a.Module, a.MaxScore
		if d, ok := defs[a.QuestionID]; ok {
			module, maxScore = d.Module, d.MaxScore
		}
		if res.TestType == "" {
			res.TestType = a.TestType
		}
		score := a.Score
		if score > maxScore {
			score = maxScore
		}
		if score < 0 {
			score = 0
		}

		m := res.Modules[module]
		m.Module = module
		m.Score += score
		m.MaxScore += maxScore
		m.Questions++
		res.Modules[module] = m

		res.Score += score
		res.MaxScore += maxScore
		res.Answered++
	}

	for k, m := range res.Modules {
		m.Percentage = Percentage(m.Score, m.MaxScore)
		res.Modules[k] = m
		if m.Underperforming() {
			res.Underperforming++
		}
	}
	res.Percentage = Percentage(res.Score, res.MaxScore)
	res.Risk = ClassifyRisk(res.Percentage, res.Underperforming)
	return res
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
