// Package app owns the root Bubble Tea model: screen routing, the
// global frame, and repaints triggered by session-state changes.
package app

import (
	"fmt"
	"os"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/heymarley/writebot/internal/api"
	"github.com/heymarley/writebot/internal/router"
	"github.com/heymarley/writebot/internal/screen"
	"github.com/heymarley/writebot/internal/screens/home"
	"github.com/heymarley/writebot/internal/screens/welcome"
	"github.com/heymarley/writebot/internal/session"
	"github.com/heymarley/writebot/internal/ui/layout"
)

// Options carries the app's wired dependencies.
type Options struct {
	State   *session.Container
	Service api.Service
}

// stateChangedMsg triggers a repaint after a session container change.
type stateChangedMsg struct{}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	state  *session.Container
	width  int
	height int
}

// newAppModel creates a new AppModel showing the splash screen, which
// hands off to home.
func newAppModel(opts Options) AppModel {
	splash := welcome.New(func() screen.Screen {
		return home.New(opts.State, opts.Service)
	})
	return AppModel{
		router: router.New(splash),
		state:  opts.State,
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case stateChangedMsg:
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if h, ok := m.router.Active().(screen.EscHandler); ok {
				if cmd, consumed := h.HandleEsc(); consumed {
					return m, cmd
				}
			}
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.learnerName(), m.width)

	footerHints := m.footerHints(active)
	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

func (m AppModel) footerHints(active screen.Screen) []layout.KeyHint {
	if p, ok := active.(screen.KeyHintProvider); ok {
		if hints := p.KeyHints(); len(hints) > 0 {
			return hints
		}
	}
	if m.router.Depth() > 1 {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

// learnerName returns the student's first name for the header.
func (m AppModel) learnerName() string {
	rec, has := m.state.FormData()
	if !has {
		return ""
	}
	fields := strings.Fields(rec.FullName)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// Run starts the Bubble Tea program. Container changes made off the
// update loop (debounced form commits, async responses) are forwarded
// into the program so the view stays current.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))

	opts.State.Subscribe(func() {
		p.Send(stateChangedMsg{})
	})

	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
