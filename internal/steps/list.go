package steps

import (
	"fmt"
	"strings"

	"github.com/abhisek/dyscreen/internal/catalog"
)

// Well-known step names shared by every test flow.
const (
	StepInstruction = "instruction"
	StepRating      = "rating"
)

// Kind classifies what a step renders.
type Kind int

const (
	KindInstruction Kind = iota // Test-level instructions
	KindIntro                   // Section intro, e.g. "rhyme"
	KindQuestion                // A question, e.g. "rhyme/2"
	KindRating                  // Difficulty rating at the end of a test
)

// List is an immutable ordered table of step names.
type List struct {
	names []string
	index map[string]int
}

// NewList builds a List from an ordered slice of step names.
// Names must be non-empty and unique.
func NewList(names ...string) (List, error) {
	l := List{
		names: make([]string, len(names)),
		index: make(map[string]int, len(names)),
	}
	for i, n := range names {
		n = strings.Trim(n, "/")
		if n == "" {
			return List{}, fmt.Errorf("step %d: empty name", i)
		}
		if _, dup := l.index[n]; dup {
			return List{}, fmt.Errorf("step %d: duplicate name %q", i, n)
		}
		l.names[i] = n
		l.index[n] = i
	}
	return l, nil
}

// MustList is like NewList but panics on invalid input.
func MustList(names ...string) List {
	l, err := NewList(names...)
	if err != nil {
		panic(err)
	}
	return l
}

// Len returns the number of steps.
func (l List) Len() int { return len(l.names) }

// At returns the step name at index i, or "" when out of range.
func (l List) At(i int) string {
	if i < 0 || i >= len(l.names) {
		return ""
	}
	return l.names[i]
}

// IndexOf returns the index of the full step name.
func (l List) IndexOf(name string) (int, bool) {
	i, ok := l.index[strings.Trim(name, "/")]
	return i, ok
}

// Names returns a copy of the ordered step names.
func (l List) Names() []string {
	out := make([]string, len(l.names))
	copy(out, l.names)
	return out
}

// Questions returns the question steps in order.
func (l List) Questions() []string {
	var out []string
	for _, n := range l.names {
		if KindOf(n) == KindQuestion {
			out = append(out, n)
		}
	}
	return out
}

// KindOf classifies a step name.
func KindOf(name string) Kind {
	switch name {
	case StepInstruction:
		return KindInstruction
	case StepRating:
		return KindRating
	}
	if strings.Contains(name, "/") {
		return KindQuestion
	}
	return KindIntro
}

// Section returns the section a step belongs to ("rhyme/2" -> "rhyme").
func Section(name string) string {
	section, _, _ := strings.Cut(name, "/")
	return section
}

var lists = map[catalog.TestType]List{
	catalog.Auditory: MustList(
		StepInstruction,
		"simple", "simple/1", "simple/2", "simple/3",
		"rhyme", "rhyme/1", "rhyme/2", "rhyme/3",
		"syllable", "syllable/1", "syllable/2",
		"memory", "memory/1", "memory/2",
		StepRating,
	),
	catalog.Visual: MustList(
		StepInstruction,
		"letters", "letters/1", "letters/2", "letters/3",
		"mirror", "mirror/1", "mirror/2",
		"sequence", "sequence/1", "sequence/2",
		"copy", "copy/1", "copy/2",
		StepRating,
	),
	catalog.Language: MustList(
		StepInstruction,
		"vocabulary", "vocabulary/1", "vocabulary/2",
		"comprehension", "comprehension/1", "comprehension/2",
		"phonics", "phonics/1", "phonics/2",
		"spelling", "spelling/1", "spelling/2",
		"sentence", "sentence/1", "sentence/2",
		"fluency", "fluency/1", "fluency/2",
		StepRating,
	),
}

// For returns the fixed step list of a main test.
func For(t catalog.TestType) (List, bool) {
	l, ok := lists[t]
	return l, ok
}
