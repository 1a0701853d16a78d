// Package catalog defines the fixed vocabulary shared by every screening
// component: the three main tests and the five assessed skill modules.
package catalog

import "fmt"

// TestType identifies one of the three main screening tests.
type TestType string

const (
	Auditory TestType = "auditory"
	Visual   TestType = "visual"
	Language TestType = "language"
)

// AllTests returns the main tests in their fixed priority order.
func AllTests() []TestType {
	return []TestType{Auditory, Visual, Language}
}

// ParseTestType converts a string to a TestType.
func ParseTestType(s string) (TestType, error) {
	switch TestType(s) {
	case Auditory, Visual, Language:
		return TestType(s), nil
	}
	return "", fmt.Errorf("unknown test type %q", s)
}

// Valid reports whether t is one of the main tests.
func (t TestType) Valid() bool {
	_, err := ParseTestType(string(t))
	return err == nil
}

// DisplayName returns a human-readable label for the test.
func (t TestType) DisplayName() string {
	switch t {
	case Auditory:
		return "Listening"
	case Visual:
		return "Seeing"
	case Language:
		return "Words"
	default:
		return string(t)
	}
}

// Module is one of the skill categories a question contributes to.
type Module string

const (
	PhonologicalAwareness Module = "phonological_awareness"
	Decoding              Module = "decoding"
	Fluency               Module = "fluency"
	SpellingWriting       Module = "spelling_writing"
	LanguageComprehension Module = "language_comprehension"
)

// AllModules returns the modules in display order.
func AllModules() []Module {
	return []Module{PhonologicalAwareness, Decoding, Fluency, SpellingWriting, LanguageComprehension}
}

// DisplayName returns a human-readable label for the module.
func (m Module) DisplayName() string {
	switch m {
	case PhonologicalAwareness:
		return "Phonological awareness"
	case Decoding:
		return "Decoding"
	case Fluency:
		return "Fluency"
	case SpellingWriting:
		return "Spelling & writing"
	case LanguageComprehension:
		return "Language comprehension"
	default:
		return string(m)
	}
}

// Valid reports whether m is a known module.
func (m Module) Valid() bool {
	for _, k := range AllModules() {
		if k == m {
			return true
		}
	}
	return false
}
