package testflow

import (
	"fmt"
	"strings"
	"time"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/dyscreen/internal/catalog"
	"github.com/abhisek/dyscreen/internal/question"
	"github.com/abhisek/dyscreen/internal/steps"
	"github.com/abhisek/dyscreen/internal/ui/components"
	"github.com/abhisek/dyscreen/internal/ui/theme"
)

var instructions = map[catalog.TestType]string{
	catalog.Auditory: "Listen to each sound or word, then pick or type what you heard.\nAsk a grown-up to read the spoken part aloud.",
	catalog.Visual:   "Look closely at letters and shapes.\nSome questions ask you to copy a letter on paper first.",
	catalog.Language: "Read and answer questions about words and sentences.\nTake your time; there are no trick questions.",
}

var intros = map[string]string{
	"simple":        "Simple sounds: which sound did you hear?",
	"rhyme":         "Rhymes: find words that sound alike at the end.",
	"syllable":      "Syllables: count the beats in a word.",
	"memory":        "Sound memory: remember a short list of sounds.",
	"letters":       "Letters: spot the letter that matches.",
	"mirror":        "Mirror letters: b, d, p and q can look alike.",
	"sequence":      "Sequences: remember the order of letters.",
	"copy":          "Copying: draw the letter on paper, then tell us what you drew.",
	"vocabulary":    "Vocabulary: what does the word mean?",
	"comprehension": "Reading: answer a question about a short text.",
	"phonics":       "Phonics: match letters to their sounds.",
	"spelling":      "Spelling: type the word you hear.",
	"sentence":      "Sentences: pick the sentence that makes sense.",
	"fluency":       "Fluency: read quickly and carefully.",
}

var ratingLabels = []string{"", "Very easy", "Easy", "Okay", "Hard", "Very hard"}

func (s *TestScreen) View(width, height int) string {
	if s.errMsg != "" {
		return renderError(width, s.errMsg)
	}
	if s.confirmQuit {
		return renderQuitConfirm(width)
	}

	var b strings.Builder
	b.WriteString(s.renderInfoLine(width))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-4, 0))))
	b.WriteString("\n\n")

	step := s.seq.Current()
	switch steps.KindOf(step) {
	case steps.KindInstruction:
		b.WriteString(renderCard(width, theme.Title.Render(s.Title())+"\n\n"+theme.Body.Render(instructions[s.test])+"\n\n"+theme.Hint.Render("Press Enter to begin")))
	case steps.KindIntro:
		text, ok := intros[step]
		if !ok {
			text = step
		}
		b.WriteString(renderCard(width, theme.Body.Bold(true).Render(text)+"\n\n"+theme.Hint.Render("Press Enter to continue")))
	case steps.KindQuestion:
		b.WriteString(s.renderQuestion(width))
	case steps.KindRating:
		b.WriteString(s.renderRating(width))
	}

	if s.toast != "" {
		b.WriteString("\n\n")
		b.WriteString(components.Centered(width, theme.Toast.Render(s.toast)))
	}
	return b.String()
}

// renderInfoLine shows the test, step position and countdown.
func (s *TestScreen) renderInfoLine(width int) string {
	left := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render(fmt.Sprintf("  %s · %s", s.Title(), steps.Section(s.seq.Current())))

	total := s.seq.List().Len()
	bar := components.NewProgressBar("", float64(s.seq.Index()+1)/float64(total), false, 20).View()
	right := lipgloss.NewStyle().Foreground(theme.TextDim).Render(fmt.Sprintf("%d/%d ", s.seq.Index()+1, total)) + bar
	if s.hasDef && steps.KindOf(s.seq.Current()) == steps.KindQuestion {
		right += "  " + renderTimer(s.remaining)
	}

	line := left
	if pad := width - lipgloss.Width(left) - lipgloss.Width(right) - 4; pad > 0 {
		line += strings.Repeat(" ", pad) + right
	}
	return line
}

func renderTimer(d time.Duration) string {
	secs := int(d.Seconds())
	style := lipgloss.NewStyle().Foreground(theme.TextDim)
	if secs <= 10 {
		style = style.Foreground(theme.Accent).Bold(true)
	}
	return style.Render(fmt.Sprintf("⏱ %d:%02d", secs/60, secs%60))
}

func (s *TestScreen) renderQuestion(width int) string {
	if !s.hasDef {
		return components.Centered(width, theme.Hint.Render("This question is not available. Press Enter to skip."))
	}

	var b strings.Builder
	if s.def.Audio != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.ArcadeCyan).Render("🔊 " + s.def.Audio))
		b.WriteString("\n\n")
	}

	switch body := s.def.Body.(type) {
	case question.Choice:
		b.WriteString(s.choice.View())
	case question.Text:
		b.WriteString(theme.Body.Bold(true).Render(s.def.Prompt))
		b.WriteString("\n\n")
		b.WriteString(s.input.View())
	case question.Drawing:
		b.WriteString(theme.Body.Bold(true).Render(s.def.Prompt))
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().
			Foreground(theme.ArcadeYellow).
			Bold(true).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 3).
			Render(body.Target))
		b.WriteString("\n\n")
		b.WriteString(s.input.View())
		b.WriteString("\n")
		b.WriteString(s.strokes.View())
	}
	return renderCard(width, b.String())
}

func (s *TestScreen) renderRating(width int) string {
	var b strings.Builder
	b.WriteString(theme.Body.Bold(true).Render("How hard was this test?"))
	b.WriteString("\n\n")
	stars := strings.Repeat("★", s.rating) + strings.Repeat("☆", maxRating-s.rating)
	b.WriteString(lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true).Render(stars))
	b.WriteString("  ")
	b.WriteString(theme.Hint.Render(ratingLabels[s.rating]))
	if s.submitting {
		b.WriteString("\n\n")
		b.WriteString(theme.Hint.Render("Saving your results..."))
	}
	return renderCard(width, b.String())
}

// renderQuitConfirm renders the stop confirmation dialog.
func renderQuitConfirm(width int) string {
	var b strings.Builder
	b.WriteString("\n\n\n")
	b.WriteString(components.Centered(width, theme.Body.Bold(true).Render("Stop this test?")))
	b.WriteString("\n")
	b.WriteString(components.Centered(width, theme.Hint.Render("Answers so far will not count.")))
	b.WriteString("\n\n")
	b.WriteString(components.Centered(width, lipgloss.NewStyle().Foreground(theme.Success).Render("[Y] Yes, stop")))
	b.WriteString("\n")
	b.WriteString(components.Centered(width, lipgloss.NewStyle().Foreground(theme.Primary).Render("[N] No, keep going")))
	return b.String()
}

// renderError renders an error message.
func renderError(width int, errMsg string) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Error).
		Render(fmt.Sprintf("\n\n\n  Error: %s\n\n  Press any key to go back.", errMsg))
}

func renderCard(width int, content string) string {
	return components.Centered(width, components.Card(content, components.ContentWidth(width)))
}
