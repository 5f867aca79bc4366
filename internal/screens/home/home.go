// Package home is the landing screen: a short pitch and the main menu.
package home

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/heymarley/writebot/internal/api"
	"github.com/heymarley/writebot/internal/router"
	"github.com/heymarley/writebot/internal/screen"
	"github.com/heymarley/writebot/internal/screens/exercises"
	"github.com/heymarley/writebot/internal/screens/intake"
	"github.com/heymarley/writebot/internal/session"
	"github.com/heymarley/writebot/internal/ui/components"
	"github.com/heymarley/writebot/internal/ui/theme"
)

// HomeScreen is the entry screen of the application.
type HomeScreen struct {
	state *session.Container
	svc   api.Service
	menu  components.Menu
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates a HomeScreen wired to the shared session container and
// backend service.
func New(state *session.Container, svc api.Service) *HomeScreen {
	h := &HomeScreen{state: state, svc: svc}

	items := []components.MenuItem{
		{Label: "MY PROFILE", Hint: "tell us about yourself", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: intake.New(state)}
			}
		}},
		{Label: "WRITING EXERCISES", Hint: "practice with your tutor", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: exercises.New(state, svc)}
			}
		}},
		{Label: "EXIT", Action: func() tea.Cmd {
			return tea.Quit
		}},
	}

	h.menu = components.NewMenu(items)
	return h
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	var sections []string

	sections = append(sections, theme.Title.Render("WriteBot"))
	sections = append(sections, theme.Subtitle.Render("Your personal writing tutor"))

	if rec, has := h.state.FormData(); has {
		if fields := strings.Fields(rec.FullName); len(fields) > 0 {
			sections = append(sections, "")
			sections = append(sections, lipgloss.NewStyle().
				Foreground(theme.Text).
				Align(lipgloss.Center).
				Render("Welcome back, "+fields[0]+"!"))
		}
	}

	sections = append(sections, "")
	sections = append(sections, h.menu.View())

	content := strings.Join(sections, "\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func (h *HomeScreen) Title() string {
	return "Home"
}
