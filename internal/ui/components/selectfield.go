package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/heymarley/writebot/internal/ui/theme"
)

// SelectField is a labeled horizontal option picker for enum form
// fields. Left/right moves between options; nothing is chosen until the
// learner moves off the blank state.
type SelectField struct {
	Label   string
	Options []string
	ErrMsg  string

	// selected is an index into Options, or -1 when nothing is chosen.
	selected int
	focused  bool
}

// NewSelectField creates a select field with no option chosen.
func NewSelectField(label string, options []string) SelectField {
	return SelectField{
		Label:    label,
		Options:  options,
		selected: -1,
	}
}

// Init returns nil (no initial command).
func (s SelectField) Init() tea.Cmd {
	return nil
}

// Update handles left/right navigation while focused.
func (s SelectField) Update(msg tea.Msg) (SelectField, tea.Cmd) {
	if !s.focused {
		return s, nil
	}
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}

	switch kmsg.String() {
	case "left", "h":
		if s.selected > 0 {
			s.selected--
		}
	case "right", "l", "space":
		if s.selected < len(s.Options)-1 {
			s.selected++
		}
	}
	return s, nil
}

// Focus gives the field keyboard focus.
func (s *SelectField) Focus() {
	s.focused = true
}

// Blur removes keyboard focus.
func (s *SelectField) Blur() {
	s.focused = false
}

// Focused reports whether the field has keyboard focus.
func (s SelectField) Focused() bool {
	return s.focused
}

// Value returns the chosen option, or "" when nothing is chosen.
func (s SelectField) Value() string {
	if s.selected < 0 || s.selected >= len(s.Options) {
		return ""
	}
	return s.Options[s.selected]
}

// SetValue selects the option matching v, clearing the selection if no
// option matches.
func (s *SelectField) SetValue(v string) {
	s.selected = -1
	for i, opt := range s.Options {
		if opt == v {
			s.selected = i
			return
		}
	}
}

// SetError records a validation error to show under the field. An empty
// string clears it.
func (s *SelectField) SetError(msg string) {
	s.ErrMsg = msg
}

// View renders the label and option row.
func (s SelectField) View() string {
	labelStyle := lipgloss.NewStyle().Foreground(theme.TextDim)
	if s.focused {
		labelStyle = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	}

	parts := make([]string, 0, len(s.Options))
	for i, opt := range s.Options {
		switch {
		case i == s.selected:
			parts = append(parts, theme.Selected.Render("( • ) "+opt))
		default:
			parts = append(parts, theme.Unselected.Render("(   ) "+opt))
		}
	}

	out := labelStyle.Render(s.Label) + "\n  " + strings.Join(parts, "   ")
	if s.ErrMsg != "" {
		out += "\n" + theme.FieldError.Render("  "+s.ErrMsg)
	}
	return out
}
