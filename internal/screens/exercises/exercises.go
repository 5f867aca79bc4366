// Package exercises drives scenario generation and the exercise picker.
package exercises

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/heymarley/writebot/internal/api"
	"github.com/heymarley/writebot/internal/profile"
	"github.com/heymarley/writebot/internal/router"
	"github.com/heymarley/writebot/internal/scenario"
	"github.com/heymarley/writebot/internal/screen"
	"github.com/heymarley/writebot/internal/screens/chat"
	"github.com/heymarley/writebot/internal/session"
	"github.com/heymarley/writebot/internal/ui/components"
	"github.com/heymarley/writebot/internal/ui/layout"
	"github.com/heymarley/writebot/internal/ui/theme"
)

// scenarioReadyMsg carries the outcome of a generation request.
type scenarioReadyMsg struct {
	token  uint64
	result *scenario.Result
	err    error
}

// exerciseStartedMsg carries the outcome of an exercise-start request.
type exerciseStartedMsg struct {
	token    uint64
	exercise scenario.Exercise
	err      error
}

// ExercisesScreen shows the generate flow, then the scenario and its
// exercise cards.
type ExercisesScreen struct {
	state *session.Container
	svc   api.Service

	spinner  components.Spinner
	selected int
	starting bool
}

var _ screen.Screen = (*ExercisesScreen)(nil)
var _ screen.KeyHintProvider = (*ExercisesScreen)(nil)

// New creates an ExercisesScreen over the shared container.
func New(state *session.Container, svc api.Service) *ExercisesScreen {
	return &ExercisesScreen{
		state:   state,
		svc:     svc,
		spinner: components.NewSpinner("Creating your personalized exercises... this can take a moment"),
	}
}

func (e *ExercisesScreen) Init() tea.Cmd {
	return nil
}

func (e *ExercisesScreen) Title() string {
	return "Writing Exercises"
}

func (e *ExercisesScreen) KeyHints() []layout.KeyHint {
	if e.state.ScenarioData() == nil {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Generate"},
			{Key: "Esc", Description: "Back"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Choose exercise"},
		{Key: "Enter", Description: "Start"},
		{Key: "R", Description: "Regenerate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (e *ExercisesScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case components.SpinnerTickMsg:
		var cmd tea.Cmd
		e.spinner, cmd = e.spinner.Update(msg)
		return e, cmd

	case scenarioReadyMsg:
		return e.handleScenarioReady(msg)

	case exerciseStartedMsg:
		return e.handleExerciseStarted(msg)

	case tea.KeyMsg:
		return e.handleKey(msg)
	}

	return e, nil
}

func (e *ExercisesScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if e.state.Generating() || e.starting {
		return e, nil
	}

	res := e.state.ScenarioData()
	switch msg.String() {
	case "enter":
		if res == nil {
			return e, e.generate()
		}
		return e, e.startExercise(res)
	case "r", "R":
		if res != nil || e.state.Error() != "" {
			return e, e.generate()
		}
	case "up", "k":
		if res != nil && e.selected > 0 {
			e.selected--
		}
	case "down", "j":
		if res != nil && e.selected < len(res.Exercises)-1 {
			e.selected++
		}
	}
	return e, nil
}

// generate validates the profile and fires the backend request. The
// sequence token keeps a superseded response from applying.
func (e *ExercisesScreen) generate() tea.Cmd {
	if e.svc == nil {
		e.state.SetError("No backend configured. Set WRITEBOT_API_URL and restart.")
		return nil
	}
	rec, has := e.state.FormData()
	if !has || !profile.Valid(rec) {
		e.state.SetError("Please complete your profile before generating exercises.")
		return nil
	}

	token := e.state.BeginGenerate()
	e.selected = 0

	request := func() tea.Msg {
		res, err := e.svc.GenerateScenario(context.Background(), rec)
		return scenarioReadyMsg{token: token, result: res, err: err}
	}
	return tea.Batch(e.spinner.Start(), request)
}

func (e *ExercisesScreen) handleScenarioReady(msg scenarioReadyMsg) (screen.Screen, tea.Cmd) {
	errMsg := ""
	if msg.err != nil {
		errMsg = msg.err.Error()
	}
	if applied := e.state.ApplyGenerate(msg.token, msg.result, errMsg); !applied {
		return e, nil
	}
	e.spinner.Stop()
	return e, nil
}

// startExercise begins the selected exercise against the backend, then
// opens the chat screen.
func (e *ExercisesScreen) startExercise(res *scenario.Result) tea.Cmd {
	if e.selected < 0 || e.selected >= len(res.Exercises) {
		return nil
	}
	ex := res.Exercises[e.selected]
	if e.svc == nil {
		e.state.SelectExercise(&ex)
		sessionID := res.SessionID
		return func() tea.Msg {
			return router.PushScreenMsg{Screen: chat.New(e.state, nil, sessionID, ex)}
		}
	}
	token := e.state.BeginStart()
	e.starting = true

	sessionID := res.SessionID
	return func() tea.Msg {
		_, err := e.svc.StartExercise(context.Background(), sessionID, ex.Title, ex.Description)
		return exerciseStartedMsg{token: token, exercise: ex, err: err}
	}
}

func (e *ExercisesScreen) handleExerciseStarted(msg exerciseStartedMsg) (screen.Screen, tea.Cmd) {
	if !e.state.StartCurrent(msg.token) {
		return e, nil
	}
	e.starting = false

	if msg.err != nil {
		e.state.SetError(msg.err.Error())
		return e, nil
	}

	e.state.ClearError()
	ex := msg.exercise
	e.state.SelectExercise(&ex)
	res := e.state.ScenarioData()
	sessionID := ""
	if res != nil {
		sessionID = res.SessionID
	}
	return e, func() tea.Msg {
		return router.PushScreenMsg{Screen: chat.New(e.state, e.svc, sessionID, ex)}
	}
}

func (e *ExercisesScreen) View(width, height int) string {
	if e.state.Generating() {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, e.spinner.View())
	}

	if errMsg := e.state.Error(); errMsg != "" {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			renderErrorBox(errMsg, width))
	}

	res := e.state.ScenarioData()
	if res == nil {
		return e.viewGeneratePrompt(width, height)
	}
	return e.viewPicker(res, width, height)
}

func (e *ExercisesScreen) viewGeneratePrompt(width, height int) string {
	var lines []string
	lines = append(lines, theme.Strong.Render("Ready to write?"))
	lines = append(lines, "")
	if rec, has := e.state.FormData(); has && profile.Valid(rec) {
		lines = append(lines, theme.Body.Render(
			"We'll build a scenario and exercises around your interests."))
	} else {
		lines = append(lines, theme.Hint.Render(
			"Finish your profile first so the exercises fit you."))
	}
	lines = append(lines, "")
	lines = append(lines, theme.Selected.Render("▸ Press Enter to generate your exercises"))

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		strings.Join(lines, "\n"))
}

func (e *ExercisesScreen) viewPicker(res *scenario.Result, width, height int) string {
	cw := width - 8
	if cw > 90 {
		cw = 90
	}
	if cw < 20 {
		cw = 20
	}

	var sections []string
	sections = append(sections, theme.Strong.Render("Your Scenario"))
	sections = append(sections, lipgloss.NewStyle().
		Foreground(theme.Text).
		Width(cw).
		Render(res.Scenario))
	sections = append(sections, "")
	sections = append(sections, theme.Strong.Render("Pick an exercise"))

	for i, ex := range res.Exercises {
		sections = append(sections, e.renderCard(ex, i == e.selected, cw))
	}

	if e.starting {
		sections = append(sections, theme.Hint.Render("Starting exercise..."))
	}

	content := strings.Join(sections, "\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top, content)
}

func (e *ExercisesScreen) renderCard(ex scenario.Exercise, selected bool, cw int) string {
	border := theme.Border
	title := theme.Unselected.Render(ex.Title)
	if selected {
		border = theme.Primary
		title = theme.Selected.Render("▸ " + ex.Title)
	}

	body := title + "\n" +
		theme.Hint.Render(ex.Focus) + "\n" +
		lipgloss.NewStyle().Foreground(theme.TextDim).Width(cw-6).Render(truncate(ex.Description, 160))

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1).
		Width(cw - 2).
		Render(body)
}

// renderErrorBox shows the failure with troubleshooting tips, mirroring
// a friendly "something went wrong" panel.
func renderErrorBox(msg string, width int) string {
	cw := width - 12
	if cw > 70 {
		cw = 70
	}
	if cw < 20 {
		cw = 20
	}

	tips := []string{
		"Make sure the backend server is running",
		"Check WRITEBOT_API_URL points at it",
		"Press R to try again, or Esc to go back",
	}
	var tipLines []string
	for _, t := range tips {
		tipLines = append(tipLines, theme.Hint.Render("  • "+t))
	}

	body := lipgloss.NewStyle().Foreground(theme.Error).Bold(true).Render("Something went wrong") +
		"\n\n" +
		lipgloss.NewStyle().Foreground(theme.Text).Width(cw).Render(msg) +
		"\n\n" +
		fmt.Sprintf("%s\n%s", theme.Hint.Render("Things to try:"), strings.Join(tipLines, "\n"))

	return theme.ErrorBox.Render(body)
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
