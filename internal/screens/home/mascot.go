package home

import (
	"image/color"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/dyscreen/internal/ui/theme"
)

// MascotVariant is the mood of the reading owl on the home screen.
type MascotVariant int

const (
	MascotIdle MascotVariant = iota
	MascotReading
	MascotCelebrating
	MascotAlert
)

type mascotPose struct {
	art  string
	fg   color.Color
	line string
}

var poses = map[MascotVariant]mascotPose{
	MascotIdle: {
		art: " ,___,\n (o,o)\n /)__)\n──\"─\"──",
		fg:  theme.Primary,
		line: "Hi! Ready for a listening game?",
	},
	MascotReading: {
		art: " ,___,\n (o,o)\n /)▤▤)\n──\"─\"──",
		fg:  theme.ArcadeCyan,
		line: "Nice work so far. Let's keep going!",
	},
	MascotCelebrating: {
		art: " ,___,\n (^,^)\n\\(  )/\n──\"─\"──",
		fg:  theme.ArcadeYellow,
		line: "You finished every test. Hooray!",
	},
	MascotAlert: {
		art: " ,___,\n (O,O) !\n /)__)\n──\"─\"──",
		fg:  theme.Accent,
		line: "",
	},
}

// RenderMascot draws the owl with its speech line. The alert pose has no
// line of its own; the toast below it does the talking.
func RenderMascot(v MascotVariant) string {
	p, ok := poses[v]
	if !ok {
		p = poses[MascotIdle]
	}
	out := lipgloss.NewStyle().Foreground(p.fg).Render(p.art)
	if p.line != "" {
		out += "\n" + lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).Render(p.line)
	}
	return out
}
