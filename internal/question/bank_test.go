package question

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/dyscreen/internal/catalog"
	"github.com/abhisek/dyscreen/internal/steps"
)

func TestEmbeddedBank_CoversEveryQuestionStep(t *testing.T) {
	b, err := Embedded()
	require.NoError(t, err)

	for _, tt := range catalog.AllTests() {
		list, _ := steps.For(tt)
		for _, step := range list.Questions() {
			_, ok := b.ForStep(tt, step)
			assert.True(t, ok, "no question for %s/%s", tt, step)
		}
	}
}

func TestFallback_OnePerSection(t *testing.T) {
	b := Fallback()
	for _, tt := range catalog.AllTests() {
		sections := map[string]bool{}
		for _, d := range b.ForTest(tt) {
			sections[steps.Section(d.Step)] = true
		}
		list, _ := steps.For(tt)
		for _, name := range list.Names() {
			if steps.KindOf(name) == steps.KindIntro {
				assert.True(t, sections[name], "%s: fallback misses section %s", tt, name)
			}
		}
	}
}

func TestForTest_StepOrder(t *testing.T) {
	b, err := Embedded()
	require.NoError(t, err)

	defs := b.ForTest(catalog.Auditory)
	require.NotEmpty(t, defs)
	list, _ := steps.For(catalog.Auditory)
	prev := -1
	for _, d := range defs {
		i, ok := list.IndexOf(d.Step)
		require.True(t, ok)
		assert.Greater(t, i, prev)
		prev = i
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not json", `{`},
		{"missing questions", `{"version":"v1.0.0"}`},
		{"unknown kind", `{"version":"v1.0.0","questions":[{"id":"x","test_type":"auditory","step":"simple/1","module":"decoding","kind":"audio","prompt":"p","max_score":1}]}`},
		{"extra field", `{"version":"v1.0.0","questions":[{"id":"x","test_type":"auditory","step":"simple/1","module":"decoding","kind":"text","prompt":"p","max_score":1,"accepted":["a"],"colour":"red"}]}`},
		{"bad step", `{"version":"v1.0.0","questions":[{"id":"x","test_type":"auditory","step":"simple","module":"decoding","kind":"text","prompt":"p","max_score":1,"accepted":["a"]}]}`},
		{"bad module", `{"version":"v1.0.0","questions":[{"id":"x","test_type":"auditory","step":"simple/1","module":"maths","kind":"text","prompt":"p","max_score":1,"accepted":["a"]}]}`},
		{"answer out of range", `{"version":"v1.0.0","questions":[{"id":"x","test_type":"auditory","step":"simple/1","module":"decoding","kind":"choice","prompt":"p","max_score":1,"options":["a","b"],"answer_index":5}]}`},
		{"duplicate step", `{"version":"v1.0.0","questions":[
			{"id":"x","test_type":"auditory","step":"simple/1","module":"decoding","kind":"text","prompt":"p","max_score":1,"accepted":["a"]},
			{"id":"y","test_type":"auditory","step":"simple/1","module":"decoding","kind":"text","prompt":"p","max_score":1,"accepted":["a"]}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestParse_RejectsMajorVersion(t *testing.T) {
	doc := `{"version":"v2.0.0","questions":[{"id":"x","test_type":"auditory","step":"simple/1","module":"decoding","kind":"text","prompt":"p","max_score":1,"accepted":["a"]}]}`
	_, err := Parse([]byte(doc))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedVersion))
}

func TestLoad_FallsBackOnError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bank.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"version":"v1.0.0","questions":[]}`), 0o644))

	b, err := Load(path)
	assert.Error(t, err)
	require.NotNil(t, b)
	assert.Equal(t, Fallback().Len(), b.Len())

	b, err = Load(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
	assert.Equal(t, Fallback().Len(), b.Len())
}

func TestLoad_EmptyPathUsesEmbedded(t *testing.T) {
	b, err := Load("")
	require.NoError(t, err)
	want, _ := Embedded()
	assert.Equal(t, want.Len(), b.Len())
}
