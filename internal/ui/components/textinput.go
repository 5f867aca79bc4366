package components

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/bubbles/v2/textinput"
	"charm.land/lipgloss/v2"

	"github.com/heymarley/writebot/internal/ui/theme"
)

// TextField wraps bubbles/textinput as a labeled form field with an
// inline validation error.
type TextField struct {
	Model  textinput.Model
	Label  string
	ErrMsg string
}

// NewTextField creates a styled, initially blurred text field.
func NewTextField(label, placeholder string, charLimit int) TextField {
	ti := textinput.New()
	ti.Placeholder = placeholder
	if charLimit > 0 {
		ti.CharLimit = charLimit
	}
	return TextField{
		Model: ti,
		Label: label,
	}
}

// Init returns the initial command.
func (t TextField) Init() tea.Cmd {
	return nil
}

// Update handles messages. Only focused fields receive keystrokes.
func (t TextField) Update(msg tea.Msg) (TextField, tea.Cmd) {
	if !t.Model.Focused() {
		return t, nil
	}
	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

// Focus gives the field keyboard focus.
func (t *TextField) Focus() tea.Cmd {
	return t.Model.Focus()
}

// Blur removes keyboard focus.
func (t *TextField) Blur() {
	t.Model.Blur()
}

// Focused reports whether the field has keyboard focus.
func (t TextField) Focused() bool {
	return t.Model.Focused()
}

// Value returns the current input value.
func (t TextField) Value() string {
	return t.Model.Value()
}

// SetValue replaces the input value.
func (t *TextField) SetValue(v string) {
	t.Model.SetValue(v)
}

// SetError records a validation error to show under the field. An empty
// string clears it.
func (t *TextField) SetError(msg string) {
	t.ErrMsg = msg
}

// View renders the label, input, and any validation error.
func (t TextField) View() string {
	labelStyle := lipgloss.NewStyle().Foreground(theme.TextDim)
	if t.Model.Focused() {
		labelStyle = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	}

	s := labelStyle.Render(t.Label) + "\n" + t.Model.View()
	if t.ErrMsg != "" {
		s += "\n" + theme.FieldError.Render("  "+t.ErrMsg)
	}
	return s
}
