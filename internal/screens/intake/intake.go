// Package intake collects the six-field student profile. Edits are
// dispatched to the session container on every keystroke; the container
// debounces persistence and observer notification behind one timer.
package intake

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/heymarley/writebot/internal/profile"
	"github.com/heymarley/writebot/internal/router"
	"github.com/heymarley/writebot/internal/screen"
	"github.com/heymarley/writebot/internal/session"
	"github.com/heymarley/writebot/internal/ui/components"
	"github.com/heymarley/writebot/internal/ui/layout"
	"github.com/heymarley/writebot/internal/ui/theme"
)

// Field focus order.
const (
	focusName = iota
	focusAge
	focusInterests
	focusCultural
	focusHardest
	focusAudience
	focusDone
	focusCount
)

// IntakeScreen is the profile form.
type IntakeScreen struct {
	state *session.Container

	name      components.TextField
	age       components.SelectField
	interests components.TextField
	cultural  components.TextField
	hardest   components.SelectField
	audience  components.SelectField
	done      components.Button

	focus        int
	confirmClear bool
	saved        bool
}

var _ screen.Screen = (*IntakeScreen)(nil)
var _ screen.KeyHintProvider = (*IntakeScreen)(nil)
var _ screen.EscHandler = (*IntakeScreen)(nil)

// New creates an IntakeScreen prefilled from the container's form.
func New(state *session.Container) *IntakeScreen {
	s := &IntakeScreen{
		state:     state,
		name:      components.NewTextField("Full Name *", "Your full name", 80),
		age:       components.NewSelectField("Age Group *", profile.AgeGroups),
		interests: components.NewTextField("Interests", "Football, space, K-pop...", 200),
		cultural:  components.NewTextField("Favorite shows, games, books", "Anything you love right now", 200),
		hardest:   components.NewSelectField("Which is hardest for you? *", profile.HardestOptions),
		audience:  components.NewSelectField("Who do you usually write for? *", profile.Audiences),
	}
	s.done = components.NewButton("Save & Continue", s.submit)

	if rec, has := state.FormData(); has {
		s.name.SetValue(rec.FullName)
		s.age.SetValue(rec.AgeGroup)
		s.interests.SetValue(rec.Interests)
		s.cultural.SetValue(rec.CulturalRefs)
		s.hardest.SetValue(rec.Hardest)
		s.audience.SetValue(rec.Audience)
	}

	return s
}

func (s *IntakeScreen) Init() tea.Cmd {
	return s.setFocus(focusName)
}

func (s *IntakeScreen) Title() string {
	return "My Profile"
}

func (s *IntakeScreen) KeyHints() []layout.KeyHint {
	if s.confirmClear {
		return []layout.KeyHint{
			{Key: "Y", Description: "Clear everything"},
			{Key: "N", Description: "Keep my answers"},
		}
	}
	return []layout.KeyHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "←→", Description: "Choose"},
		{Key: "Ctrl+X", Description: "Clear form"},
		{Key: "Esc", Description: "Back"},
	}
}

// HandleEsc cancels the clear confirmation if one is showing; otherwise
// it flushes pending edits and lets the app pop the screen.
func (s *IntakeScreen) HandleEsc() (tea.Cmd, bool) {
	if s.confirmClear {
		s.confirmClear = false
		return nil, true
	}
	s.state.FlushForm()
	return nil, false
}

func (s *IntakeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if s.confirmClear {
		return s.updateConfirm(msg)
	}

	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "tab", "down":
			return s, s.setFocus((s.focus + 1) % focusCount)
		case "shift+tab", "up":
			return s, s.setFocus((s.focus + focusCount - 1) % focusCount)
		case "ctrl+x":
			s.confirmClear = true
			return s, nil
		case "enter":
			if s.focus != focusDone {
				return s, s.setFocus((s.focus + 1) % focusCount)
			}
		}
	}

	before := s.record()

	var cmd tea.Cmd
	switch s.focus {
	case focusName:
		s.name, cmd = s.name.Update(msg)
	case focusAge:
		s.age, cmd = s.age.Update(msg)
	case focusInterests:
		s.interests, cmd = s.interests.Update(msg)
	case focusCultural:
		s.cultural, cmd = s.cultural.Update(msg)
	case focusHardest:
		s.hardest, cmd = s.hardest.Update(msg)
	case focusAudience:
		s.audience, cmd = s.audience.Update(msg)
	case focusDone:
		s.done, cmd = s.done.Update(msg)
	}

	if after := s.record(); after != before {
		s.saved = false
		s.clearFieldErrors()
		s.state.UpdateFormData(after)
	}

	return s, cmd
}

func (s *IntakeScreen) updateConfirm(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}
	switch kmsg.String() {
	case "y", "Y":
		s.confirmClear = false
		s.state.ClearAll()
		s.name.SetValue("")
		s.age.SetValue("")
		s.interests.SetValue("")
		s.cultural.SetValue("")
		s.hardest.SetValue("")
		s.audience.SetValue("")
		s.clearFieldErrors()
		s.saved = false
		return s, s.setFocus(focusName)
	case "n", "N", "esc":
		s.confirmClear = false
	}
	return s, nil
}

// submit validates the form; on success it flushes the pending write and
// returns to the previous screen.
func (s *IntakeScreen) submit() tea.Cmd {
	rec := s.record()
	errs := profile.Validate(rec)
	s.applyFieldErrors(errs)
	if len(errs) > 0 {
		return nil
	}

	s.state.UpdateFormData(rec)
	s.state.FlushForm()
	s.saved = true
	return func() tea.Msg {
		return router.PopScreenMsg{}
	}
}

// record assembles a FormRecord from the current field values.
func (s *IntakeScreen) record() profile.FormRecord {
	return profile.FormRecord{
		FullName:     s.name.Value(),
		AgeGroup:     s.age.Value(),
		Interests:    s.interests.Value(),
		CulturalRefs: s.cultural.Value(),
		Hardest:      s.hardest.Value(),
		Audience:     s.audience.Value(),
	}
}

func (s *IntakeScreen) applyFieldErrors(errs map[string]string) {
	s.name.SetError(errs[profile.FieldFullName])
	s.age.SetError(errs[profile.FieldAgeGroup])
	s.hardest.SetError(errs[profile.FieldHardest])
	s.audience.SetError(errs[profile.FieldAudience])
}

func (s *IntakeScreen) clearFieldErrors() {
	s.applyFieldErrors(nil)
}

func (s *IntakeScreen) setFocus(target int) tea.Cmd {
	s.focus = target

	s.name.Blur()
	s.age.Blur()
	s.interests.Blur()
	s.cultural.Blur()
	s.hardest.Blur()
	s.audience.Blur()
	s.done.Focused = false

	switch target {
	case focusName:
		return s.name.Focus()
	case focusAge:
		s.age.Focus()
	case focusInterests:
		return s.interests.Focus()
	case focusCultural:
		return s.cultural.Focus()
	case focusHardest:
		s.hardest.Focus()
	case focusAudience:
		s.audience.Focus()
	case focusDone:
		s.done.Focused = true
	}
	return nil
}

func (s *IntakeScreen) View(width, height int) string {
	if s.confirmClear {
		return s.viewConfirm(width, height)
	}

	var sections []string
	sections = append(sections,
		theme.Strong.Render("Tell us about yourself"),
		theme.Hint.Render("WriteBot uses this to build exercises just for you. * required"),
		"",
		s.name.View(),
		"",
		s.age.View(),
		"",
		s.interests.View(),
		"",
		s.cultural.View(),
		"",
		s.hardest.View(),
		"",
		s.audience.View(),
		"",
		s.done.View(),
	)

	if s.saved {
		sections = append(sections, "",
			lipgloss.NewStyle().Foreground(theme.Success).Render("✓ Profile saved"))
	}

	content := strings.Join(sections, "\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func (s *IntakeScreen) viewConfirm(width, height int) string {
	box := theme.Card.Render(
		theme.Strong.Render("Clear your profile?") + "\n\n" +
			theme.Body.Render("This removes your saved answers and any\ngenerated exercises.") + "\n\n" +
			theme.Hint.Render("y: clear everything    n: keep my answers"))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
