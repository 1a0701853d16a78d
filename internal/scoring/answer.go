// Package scoring turns recorded answers into module scores, an overall
// percentage and a risk level. Everything here is a pure function of its
// inputs.
package scoring

import (
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/dyscreen/internal/catalog"
	"github.com/abhisek/dyscreen/internal/question"
)

// Latency thresholds for the slow-answer penalty.
const (
	FullCreditLimit = 30 * time.Second
	OnePointLimit   = 45 * time.Second
)

// Answer is an immutable record of one answered question.
type Answer struct {
	ID         string           `json:"id"`
	QuestionID string           `json:"question_id"`
	TestType   catalog.TestType `json:"test_type"`
	Step       string           `json:"step"`
	Module     catalog.Module   `json:"module"`
	Value      string           `json:"value"`
	Correct    bool             `json:"correct"`
	Score      int              `json:"score"`
	MaxScore   int              `json:"max_score"`
	Latency    time.Duration    `json:"latency"`
	StartedAt  time.Time        `json:"started_at"`
	EndedAt    time.Time        `json:"ended_at"`
}

// AwardScore returns the points for one answer. Correct answers lose one
// point after 30s and two after 45s, never going below zero.
func AwardScore(correct bool, latency time.Duration, maxScore int) int {
	if !correct || maxScore <= 0 {
		return 0
	}
	score := maxScore
	switch {
	case latency > OnePointLimit:
		score -= 2
	case latency > FullCreditLimit:
		score--
	}
	if score < 0 {
		return 0
	}
	return score
}

// Record checks a submission against its question and builds the answer.
func Record(def question.Definition, sub question.Submission, startedAt, endedAt time.Time) Answer {
	latency := endedAt.Sub(startedAt)
	if latency < 0 {
		latency = 0
	}
	correct := def.Check(sub)
	var value string
	if def.Body != nil {
		value = def.Body.Describe(sub)
	}
	return Answer{
		ID:         uuid.New().String(),
		QuestionID: def.ID,
		TestType:   def.TestType,
		Step:       def.Step,
		Module:     def.Module,
		Value:      value,
		Correct:    correct,
		Score:      AwardScore(correct, latency, def.MaxScore),
		MaxScore:   def.MaxScore,
		Latency:    latency,
		StartedAt:  startedAt,
		EndedAt:    endedAt,
	}
}
