package question

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"

	"golang.org/x/mod/semver"

	"github.com/abhisek/dyscreen/internal/catalog"
	"github.com/abhisek/dyscreen/internal/steps"
)

//go:embed bank.json
var embeddedBank []byte

// SupportedMajor is the bank format major version this build reads.
const SupportedMajor = "v1"

// ErrUnsupportedVersion is returned for banks with an unreadable version.
var ErrUnsupportedVersion = errors.New("unsupported question bank version")

// Bank is an indexed, validated set of questions.
type Bank struct {
	Version string
	byID    map[string]Definition
	byStep  map[string]string // "test/step" -> id
	order   []string
}

// NewBank indexes and validates definitions.
func NewBank(version string, defs []Definition) (*Bank, error) {
	b := &Bank{
		Version: version,
		byID:    make(map[string]Definition, len(defs)),
		byStep:  make(map[string]string, len(defs)),
	}
	for i, d := range defs {
		if err := validateDefinition(d); err != nil {
			return nil, fmt.Errorf("question %d (%s): %w", i, d.ID, err)
		}
		if _, dup := b.byID[d.ID]; dup {
			return nil, fmt.Errorf("question %d: duplicate id %q", i, d.ID)
		}
		key := stepKey(d.TestType, d.Step)
		if other, dup := b.byStep[key]; dup {
			return nil, fmt.Errorf("question %s: step %s already used by %s", d.ID, key, other)
		}
		b.byID[d.ID] = d
		b.byStep[key] = d.ID
		b.order = append(b.order, d.ID)
	}
	return b, nil
}

func validateDefinition(d Definition) error {
	if d.ID == "" {
		return errors.New("missing id")
	}
	list, ok := steps.For(d.TestType)
	if !ok {
		return fmt.Errorf("unknown test type %q", d.TestType)
	}
	if _, ok := list.IndexOf(d.Step); !ok || steps.KindOf(d.Step) != steps.KindQuestion {
		return fmt.Errorf("step %q is not a question step of %s", d.Step, d.TestType)
	}
	if !d.Module.Valid() {
		return fmt.Errorf("unknown module %q", d.Module)
	}
	if d.MaxScore < 1 {
		return fmt.Errorf("max score must be positive, got %d", d.MaxScore)
	}
	if d.Body == nil {
		return errors.New("missing body")
	}
	return d.Body.validate()
}

func stepKey(t catalog.TestType, step string) string { return string(t) + "/" + step }

// Len returns the number of questions.
func (b *Bank) Len() int { return len(b.order) }

// ByID looks up a question by id.
func (b *Bank) ByID(id string) (Definition, bool) {
	d, ok := b.byID[id]
	return d, ok
}

// ForStep returns the question shown at a step of a test.
func (b *Bank) ForStep(t catalog.TestType, step string) (Definition, bool) {
	id, ok := b.byStep[stepKey(t, step)]
	if !ok {
		return Definition{}, false
	}
	return b.byID[id], true
}

// ForTest returns the questions of a test in step order.
func (b *Bank) ForTest(t catalog.TestType) []Definition {
	list, ok := steps.For(t)
	if !ok {
		return nil
	}
	var out []Definition
	for _, id := range b.order {
		if d := b.byID[id]; d.TestType == t {
			out = append(out, d)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, _ := list.IndexOf(out[i].Step)
		c, _ := list.IndexOf(out[j].Step)
		return a < c
	})
	return out
}

// Defs returns all questions keyed by id.
func (b *Bank) Defs() map[string]Definition {
	out := make(map[string]Definition, len(b.byID))
	for id, d := range b.byID {
		out[id] = d
	}
	return out
}

// Parse decodes and validates a bank document.
func Parse(data []byte) (*Bank, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if err := validateDocument(doc); err != nil {
		return nil, err
	}

	var wire bankJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("decode bank: %w", err)
	}
	if !semver.IsValid(wire.Version) || semver.Major(wire.Version) != SupportedMajor {
		return nil, fmt.Errorf("%w: %q (want %s.x.y)", ErrUnsupportedVersion, wire.Version, SupportedMajor)
	}

	defs := make([]Definition, 0, len(wire.Questions))
	for i, q := range wire.Questions {
		d, err := q.definition()
		if err != nil {
			return nil, fmt.Errorf("question %d: %w", i, err)
		}
		defs = append(defs, d)
	}
	return NewBank(wire.Version, defs)
}

// Embedded returns the bank compiled into the binary.
func Embedded() (*Bank, error) {
	return Parse(embeddedBank)
}

// Load reads a bank from path, or the embedded bank when path is empty.
// When the bank cannot be loaded the minimal fallback set is returned along
// with the error, so callers can keep going and report the problem.
func Load(path string) (*Bank, error) {
	var (
		b   *Bank
		err error
	)
	if path == "" {
		b, err = Embedded()
	} else {
		var data []byte
		data, err = os.ReadFile(path)
		if err == nil {
			b, err = Parse(data)
		} else {
			err = fmt.Errorf("read question bank: %w", err)
		}
	}
	if err != nil {
		return Fallback(), err
	}
	return b, nil
}

type bankJSON struct {
	Version   string         `json:"version"`
	Questions []questionJSON `json:"questions"`
}

type questionJSON struct {
	ID         string   `json:"id"`
	TestType   string   `json:"test_type"`
	Step       string   `json:"step"`
	Module     string   `json:"module"`
	Kind       Kind     `json:"kind"`
	Prompt     string   `json:"prompt"`
	Audio      string   `json:"audio,omitempty"`
	MaxScore   int      `json:"max_score"`
	Options    []string `json:"options,omitempty"`
	Answer     *int     `json:"answer_index,omitempty"`
	Accepted   []string `json:"accepted,omitempty"`
	Target     string   `json:"target,omitempty"`
	MinStrokes int      `json:"min_strokes,omitempty"`
}

func (q questionJSON) definition() (Definition, error) {
	d := Definition{
		ID:       q.ID,
		TestType: catalog.TestType(q.TestType),
		Step:     q.Step,
		Module:   catalog.Module(q.Module),
		Prompt:   q.Prompt,
		Audio:    q.Audio,
		MaxScore: q.MaxScore,
	}
	switch q.Kind {
	case KindChoice:
		if q.Answer == nil {
			return d, fmt.Errorf("%s: choice without answer_index", q.ID)
		}
		d.Body = Choice{Options: q.Options, Answer: *q.Answer}
	case KindText:
		d.Body = Text{Accepted: q.Accepted}
	case KindDrawing:
		d.Body = Drawing{Target: q.Target, MinStrokes: q.MinStrokes}
	default:
		return d, fmt.Errorf("%s: unknown kind %q", q.ID, q.Kind)
	}
	return d, nil
}
