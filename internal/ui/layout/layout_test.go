package layout

import (
	"strings"
	"testing"

	"charm.land/lipgloss/v2"
	"github.com/stretchr/testify/assert"
)

func TestHeaderShowsStatus(t *testing.T) {
	out := Header{Title: "Results", Done: 2, Total: 3}.Render(100)
	assert.Contains(t, out, "Results")
	assert.Contains(t, out, "2/3 tests")
	assert.Contains(t, out, "offline")

	out = Header{Online: true, Total: 3}.Render(100)
	assert.Contains(t, out, "online")
	assert.NotContains(t, out, "offline")
}

func TestDefaultHints(t *testing.T) {
	assert.Equal(t, "Esc", DefaultHints(true)[0].Key)
	assert.Equal(t, "Enter", DefaultHints(false)[1].Key)
	for _, nested := range []bool{true, false} {
		hints := DefaultHints(nested)
		assert.Equal(t, QuitHint, hints[len(hints)-1])
	}
}

func TestComposeGivesBodyRemainingHeight(t *testing.T) {
	header := Header{Total: 3}.Render(90)
	footer := RenderFooter(DefaultHints(false), 90)

	var gotW, gotH int
	out := Compose(header, footer, 90, 30, func(w, h int) string {
		gotW, gotH = w, h
		return "body"
	})

	assert.Equal(t, 90, gotW)
	assert.Equal(t, 30-lipgloss.Height(header)-lipgloss.Height(footer), gotH)
	assert.True(t, strings.Contains(out, "body"))
}

func TestTooSmall(t *testing.T) {
	assert.True(t, TooSmall(79, 40))
	assert.True(t, TooSmall(120, 23))
	assert.False(t, TooSmall(MinWidth, MinHeight))
	assert.Contains(t, RenderTooSmall(60, 20), "60 x 20")
}
