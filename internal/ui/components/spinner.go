package components

import (
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/heymarley/writebot/internal/ui/theme"
)

// spinnerFrames cycle while a backend request is in flight.
var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerInterval = 120 * time.Millisecond

// SpinnerTickMsg advances the spinner animation.
type SpinnerTickMsg time.Time

// Spinner is a lightweight loading indicator with a message line.
type Spinner struct {
	Message string
	frame   int
	active  bool
}

// NewSpinner creates an inactive spinner with the given message.
func NewSpinner(message string) Spinner {
	return Spinner{Message: message}
}

// Start activates the spinner and returns the first tick command.
func (s *Spinner) Start() tea.Cmd {
	s.active = true
	s.frame = 0
	return s.tick()
}

// Stop deactivates the spinner; pending ticks are ignored.
func (s *Spinner) Stop() {
	s.active = false
}

// Active reports whether the spinner is animating.
func (s Spinner) Active() bool {
	return s.active
}

// Update advances the animation on tick messages.
func (s Spinner) Update(msg tea.Msg) (Spinner, tea.Cmd) {
	if _, ok := msg.(SpinnerTickMsg); !ok || !s.active {
		return s, nil
	}
	s.frame = (s.frame + 1) % len(spinnerFrames)
	return s, s.tick()
}

func (s Spinner) tick() tea.Cmd {
	return tea.Tick(spinnerInterval, func(t time.Time) tea.Msg {
		return SpinnerTickMsg(t)
	})
}

// View renders the spinner glyph and message.
func (s Spinner) View() string {
	if !s.active {
		return ""
	}
	glyph := lipgloss.NewStyle().Foreground(theme.Primary).Render(spinnerFrames[s.frame])
	return glyph + " " + lipgloss.NewStyle().Foreground(theme.TextDim).Render(s.Message)
}
