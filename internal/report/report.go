// Package report exports screening results as PDF or XLSX.
package report

import (
	"time"

	"github.com/abhisek/dyscreen/internal/catalog"
	"github.com/abhisek/dyscreen/internal/progress"
	"github.com/abhisek/dyscreen/internal/scoring"
)

// Report is the export model.
type Report struct {
	GeneratedAt time.Time
	SessionID   string
	Tests       []Section
	// Risk is the worst risk across completed tests, "" when none.
	Risk scoring.RiskLevel
}

// Section is one test in the report.
type Section struct {
	Test        catalog.TestType
	Completed   bool
	CompletedAt time.Time
	Score       int
	Rating      int
	Result      *scoring.Result
}

// Build joins tracker state with stored results.
func Build(state progress.State, results map[catalog.TestType]scoring.Result, now time.Time) Report {
	r := Report{GeneratedAt: now, SessionID: state.CurrentSessionID}
	for _, t := range catalog.AllTests() {
		ts := state.Tests[t]
		sec := Section{
			Test:        t,
			Completed:   ts.Completed,
			CompletedAt: ts.CompletedAt,
			Score:       ts.Score,
			Rating:      ts.DifficultyRating,
		}
		if res, ok := results[t]; ok {
			sec.Result = &res
			if r.Risk == "" || res.Risk.Severity() > r.Risk.Severity() {
				r.Risk = res.Risk
			}
		}
		r.Tests = append(r.Tests, sec)
	}
	return r
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
