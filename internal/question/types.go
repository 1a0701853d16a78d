// Package question defines screening questions. A question is a
// Definition carrying one Body variant (choice, text input or drawing);
// every variant answers the same scoring contract.
package question

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/abhisek/dyscreen/internal/catalog"
)

// Kind names the body variant of a question.
type Kind string

const (
	KindChoice  Kind = "choice"
	KindText    Kind = "text"
	KindDrawing Kind = "drawing"
)

// Submission is what the learner handed in. Only the fields relevant to the
// question kind are read.
type Submission struct {
	Choice  int    // option index for choice questions
	Text    string // typed answer, or the glyph recognised from a drawing
	Strokes int    // stroke count for drawings
}

// Body is the kind-specific part of a question.
type Body interface {
	Kind() Kind
	// Check reports whether the submission is correct.
	Check(s Submission) bool
	// Describe renders the submitted value for the answer record.
	Describe(s Submission) string
	validate() error
}

// Definition is a single screening question.
type Definition struct {
	ID       string
	TestType catalog.TestType
	Step     string
	Module   catalog.Module
	Prompt   string
	Audio    string // spoken prompt, shown as text in the terminal
	MaxScore int
	Body     Body
}

// Check reports whether the submission answers the question correctly.
func (d Definition) Check(s Submission) bool {
	if d.Body == nil {
		return false
	}
	return d.Body.Check(s)
}

// Kind returns the body variant, or "" when the body is missing.
func (d Definition) Kind() Kind {
	if d.Body == nil {
		return ""
	}
	return d.Body.Kind()
}

// Choice is a pick-one question.
type Choice struct {
	Options []string
	Answer  int
}

func (Choice) Kind() Kind { return KindChoice }

func (c Choice) Check(s Submission) bool {
	return s.Choice == c.Answer && s.Choice >= 0 && s.Choice < len(c.Options)
}

func (c Choice) Describe(s Submission) string {
	if s.Choice < 0 || s.Choice >= len(c.Options) {
		return strconv.Itoa(s.Choice)
	}
	return c.Options[s.Choice]
}

func (c Choice) validate() error {
	if len(c.Options) < 2 {
		return fmt.Errorf("choice needs at least 2 options, got %d", len(c.Options))
	}
	if c.Answer < 0 || c.Answer >= len(c.Options) {
		return fmt.Errorf("answer index %d out of range", c.Answer)
	}
	return nil
}

// Text is a typed-answer question. Matching ignores case, spaces and
// punctuation.
type Text struct {
	Accepted []string
}

func (Text) Kind() Kind { return KindText }

func (t Text) Check(s Submission) bool {
	got := Normalize(s.Text)
	if got == "" {
		return false
	}
	for _, a := range t.Accepted {
		if Normalize(a) == got {
			return true
		}
	}
	return false
}

func (Text) Describe(s Submission) string { return strings.TrimSpace(s.Text) }

func (t Text) validate() error {
	for _, a := range t.Accepted {
		if Normalize(a) != "" {
			return nil
		}
	}
	return fmt.Errorf("text question has no accepted answers")
}

// Drawing asks the learner to copy a glyph. The recognised glyph must match
// and the drawing must use at least MinStrokes strokes.
type Drawing struct {
	Target     string
	MinStrokes int
}

func (Drawing) Kind() Kind { return KindDrawing }

func (d Drawing) Check(s Submission) bool {
	return Normalize(s.Text) == Normalize(d.Target) && s.Strokes >= d.MinStrokes
}

func (Drawing) Describe(s Submission) string {
	return fmt.Sprintf("%s (%d strokes)", strings.TrimSpace(s.Text), s.Strokes)
}

func (d Drawing) validate() error {
	if Normalize(d.Target) == "" {
		return fmt.Errorf("drawing question has no target")
	}
	if d.MinStrokes < 0 {
		return fmt.Errorf("negative min strokes")
	}
	return nil
}

// Normalize lowercases s and keeps only letters and digits.
func Normalize(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
