package testflow

import (
	"github.com/abhisek/dyscreen/internal/sessionsync"
)

// timerTickMsg counts down the current question. Ticks from an earlier
// step carry a stale generation and are dropped.
type timerTickMsg struct {
	Gen int
}

// answerSavedMsg confirms an answer reached the local log.
type answerSavedMsg struct {
	Err error
}

// answersClearedMsg confirms previous answers of a retaken test were dropped.
type answersClearedMsg struct {
	Err error
}

// completeMsg carries the result of submitting the finished test.
type completeMsg struct {
	Outcome sessionsync.Outcome
	Err     error
}
