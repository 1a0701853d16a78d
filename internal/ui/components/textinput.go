package components

import (
	"strconv"
	"strings"
	"unicode"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/dyscreen/internal/ui/theme"
)

// Filter restricts which printable keys reach a TextInput.
type Filter int

const (
	AnyText Filter = iota
	DigitsOnly
	LettersOnly
)

func (f Filter) allows(r rune) bool {
	switch f {
	case DigitsOnly:
		return unicode.IsDigit(r)
	case LettersOnly:
		return unicode.IsLetter(r) || r == ' '
	}
	return true
}

// TextInput is a single-line answer field on top of bubbles/textinput.
// It never shows whether the answer was right.
type TextInput struct {
	Model  textinput.Model
	Filter Filter
	Label  string
}

// NewTextInput creates a focused input limited to limit runes (0 means no
// limit).
func NewTextInput(placeholder string, filter Filter, limit int) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "› "
	if limit > 0 {
		ti.CharLimit = limit
	}
	ti.Focus()
	return TextInput{Model: ti, Filter: filter}
}

// Init returns the cursor blink command.
func (t TextInput) Init() tea.Cmd {
	m := t.Model
	return m.Focus()
}

// Update forwards messages, dropping printable keys the filter rejects.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		if r := []rune(kmsg.String()); len(r) == 1 && unicode.IsPrint(r[0]) && !t.Filter.allows(r[0]) {
			return t, nil
		}
	}
	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

// Focus moves the cursor into the field.
func (t *TextInput) Focus() tea.Cmd {
	return t.Model.Focus()
}

// Blur removes the cursor.
func (t *TextInput) Blur() {
	t.Model.Blur()
}

// Focused reports whether the field takes keys.
func (t TextInput) Focused() bool {
	return t.Model.Focused()
}

// View renders the label, then the field; blurred fields are dimmed.
func (t TextInput) View() string {
	field := t.Model.View()
	if !t.Model.Focused() {
		field = lipgloss.NewStyle().Foreground(theme.TextDim).Render(t.Value())
	}
	if t.Label == "" {
		return field
	}
	return lipgloss.NewStyle().Foreground(theme.Text).Render(t.Label) + field
}

// Value returns the input with surrounding spaces removed.
func (t TextInput) Value() string {
	return strings.TrimSpace(t.Model.Value())
}

// Empty reports whether nothing but spaces was typed.
func (t TextInput) Empty() bool {
	return t.Value() == ""
}

// IntValue parses the input as a non-negative integer.
func (t TextInput) IntValue() (int, bool) {
	n, err := strconv.Atoi(t.Value())
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
