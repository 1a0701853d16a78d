// Package steps sequences the screens of a test flow. Each test type has a
// fixed ordered table of step names; the Sequencer walks it and maps between
// indexes and routes.
package steps

import (
	"fmt"

	"github.com/abhisek/dyscreen/internal/catalog"
)

// Navigator performs the navigation side effect for a route.
type Navigator func(route string)

// Sequencer tracks the current position in a step list.
type Sequencer struct {
	testType catalog.TestType
	list     List
	index    int
	navigate Navigator
}

// NewSequencer creates a Sequencer positioned at the first step.
// nav may be nil.
func NewSequencer(t catalog.TestType, list List, nav Navigator) (*Sequencer, error) {
	if list.Len() == 0 {
		return nil, fmt.Errorf("test %s: empty step list", t)
	}
	if nav == nil {
		nav = func(string) {}
	}
	return &Sequencer{testType: t, list: list, navigate: nav}, nil
}

// ForTest creates a Sequencer over the fixed list of a main test.
func ForTest(t catalog.TestType, nav Navigator) (*Sequencer, error) {
	list, ok := For(t)
	if !ok {
		return nil, fmt.Errorf("unknown test type %q", t)
	}
	return NewSequencer(t, list, nav)
}

// TestType returns the test the sequencer walks.
func (s *Sequencer) TestType() catalog.TestType { return s.testType }

// List returns the underlying step list.
func (s *Sequencer) List() List { return s.list }

// Index returns the current index.
func (s *Sequencer) Index() int { return s.index }

// Current returns the current step name.
func (s *Sequencer) Current() string { return s.list.At(s.index) }

// Route returns the path of the current step.
func (s *Sequencer) Route() string { return Route(s.testType, s.Current()) }

// IsLast reports whether the current step is the final one.
func (s *Sequencer) IsLast() bool { return s.index == s.list.Len()-1 }

// Advance moves to the next step and navigates to it.
// At the last step it does nothing and returns false.
func (s *Sequencer) Advance() bool {
	if s.index+1 >= s.list.Len() {
		return false
	}
	s.index++
	s.navigate(s.Route())
	return true
}

// Retreat moves to the previous step and navigates to it.
// At the first step it does nothing and returns false.
func (s *Sequencer) Retreat() bool {
	if s.index == 0 {
		return false
	}
	s.index--
	s.navigate(s.Route())
	return true
}

// SyncPath adopts the step named by an externally changed route without
// navigating. Routes for other tests or unknown steps leave the index alone.
// Returns true if the index changed.
func (s *Sequencer) SyncPath(path string) bool {
	t, step, ok := ParsePath(path)
	if !ok || t != s.testType {
		return false
	}
	i, ok := s.list.IndexOf(step)
	if !ok || i == s.index {
		return false
	}
	s.index = i
	return true
}
