// Package chat renders the tutoring conversation for one exercise.
// Tutor messages are segmented so exercise instructions stand out in
// bordered blocks.
package chat

import (
	"context"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/heymarley/writebot/internal/api"
	chatsess "github.com/heymarley/writebot/internal/chat"
	"github.com/heymarley/writebot/internal/content"
	"github.com/heymarley/writebot/internal/scenario"
	"github.com/heymarley/writebot/internal/screen"
	"github.com/heymarley/writebot/internal/session"
	"github.com/heymarley/writebot/internal/ui/components"
	"github.com/heymarley/writebot/internal/ui/layout"
	"github.com/heymarley/writebot/internal/ui/theme"
)

// cannedReplyDelay simulates tutor latency when no backend is wired.
const cannedReplyDelay = time.Second

// replyMsg delivers the tutor's response for the in-flight send. The
// token ties it to the send that produced it.
type replyMsg struct {
	token   uint64
	content string
	err     error
}

// ChatScreen is the conversation view for the selected exercise.
type ChatScreen struct {
	state     *session.Container
	svc       api.Service
	sessionID string

	chat    *chatsess.Session
	input   components.TextField
	spinner components.Spinner

	// scroll counts lines hidden below the viewport; 0 sticks to the
	// newest message.
	scroll int
	errMsg string
}

var _ screen.Screen = (*ChatScreen)(nil)
var _ screen.KeyHintProvider = (*ChatScreen)(nil)

// New creates a ChatScreen bound to the given exercise.
func New(state *session.Container, svc api.Service, sessionID string, ex scenario.Exercise) *ChatScreen {
	input := components.NewTextField("", "Write your response here...", 2000)
	return &ChatScreen{
		state:     state,
		svc:       svc,
		sessionID: sessionID,
		chat:      chatsess.NewSession(ex),
		input:     input,
		spinner:   components.NewSpinner("WriteBot is thinking..."),
	}
}

func (c *ChatScreen) Init() tea.Cmd {
	return c.input.Focus()
}

func (c *ChatScreen) Title() string {
	return c.chat.Exercise().Title
}

func (c *ChatScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Send"},
		{Key: "PgUp/PgDn", Description: "Scroll"},
		{Key: "Esc", Description: "Back"},
	}
}

func (c *ChatScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case components.SpinnerTickMsg:
		var cmd tea.Cmd
		c.spinner, cmd = c.spinner.Update(msg)
		return c, cmd

	case replyMsg:
		return c.handleReply(msg)

	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			return c, c.send()
		case "pgup":
			c.scroll += 5
			return c, nil
		case "pgdown":
			c.scroll -= 5
			if c.scroll < 0 {
				c.scroll = 0
			}
			return c, nil
		}
	}

	var cmd tea.Cmd
	c.input, cmd = c.input.Update(msg)
	return c, cmd
}

// send dispatches the drafted message. Sends are serialized: while the
// tutor is composing, the draft stays in the input untouched.
func (c *ChatScreen) send() tea.Cmd {
	text := strings.TrimSpace(c.input.Value())
	if !c.chat.Send(text) {
		return nil
	}
	c.input.SetValue("")
	c.errMsg = ""
	c.scroll = 0

	token := c.state.BeginChat()
	var request tea.Cmd
	if c.svc != nil {
		sessionID := c.sessionID
		request = func() tea.Msg {
			reply, err := c.svc.SendMessage(context.Background(), sessionID, text)
			return replyMsg{token: token, content: reply, err: err}
		}
	} else {
		request = tea.Tick(cannedReplyDelay, func(time.Time) tea.Msg {
			return replyMsg{token: token, content: chatsess.CannedReply}
		})
	}
	return tea.Batch(c.spinner.Start(), request)
}

// handleReply applies the tutor's response. Replies from superseded
// sends are dropped, as are replies landing on a session with no send
// pending (the conversation was rebuilt while the request was in
// flight).
func (c *ChatScreen) handleReply(msg replyMsg) (screen.Screen, tea.Cmd) {
	if !c.state.ChatCurrent(msg.token) {
		return c, nil
	}
	c.spinner.Stop()
	if msg.err != nil {
		c.chat.Fail()
		c.errMsg = msg.err.Error()
		return c, nil
	}
	if c.chat.Reply(msg.content) {
		c.scroll = 0
	}
	return c, nil
}

func (c *ChatScreen) View(width, height int) string {
	cw := width - 6
	if cw > 100 {
		cw = 100
	}
	if cw < 20 {
		cw = 20
	}

	transcript := c.renderTranscript(cw)

	var footer []string
	if c.chat.Composing() {
		footer = append(footer, c.spinner.View())
	}
	if c.errMsg != "" {
		footer = append(footer, theme.FieldError.Render("⚠ "+c.errMsg))
	}
	footer = append(footer, c.input.View())
	footerStr := strings.Join(footer, "\n")

	footerHeight := lipgloss.Height(footerStr) + 1
	viewportHeight := height - footerHeight
	if viewportHeight < 1 {
		viewportHeight = 1
	}

	window := c.window(transcript, viewportHeight)

	body := window + "\n" + footerStr
	return lipgloss.NewStyle().Padding(0, 3).Render(body)
}

// window returns the visible slice of transcript lines, honoring the
// scroll offset and padding short transcripts to full height.
func (c *ChatScreen) window(transcript string, viewportHeight int) string {
	lines := strings.Split(transcript, "\n")

	maxScroll := len(lines) - viewportHeight
	if maxScroll < 0 {
		maxScroll = 0
	}
	if c.scroll > maxScroll {
		c.scroll = maxScroll
	}

	end := len(lines) - c.scroll
	start := end - viewportHeight
	if start < 0 {
		start = 0
	}
	visible := lines[start:end]

	for len(visible) < viewportHeight {
		visible = append([]string{""}, visible...)
	}
	return strings.Join(visible, "\n")
}

func (c *ChatScreen) renderTranscript(cw int) string {
	var parts []string
	for _, m := range c.chat.Messages() {
		if m.Role == chatsess.RoleUser {
			parts = append(parts, c.renderUser(m.Content, cw))
		} else {
			parts = append(parts, c.renderTutor(m.Content, cw))
		}
	}
	return strings.Join(parts, "\n\n")
}

func (c *ChatScreen) renderUser(text string, cw int) string {
	label := theme.UserMessage.Render("You")
	body := lipgloss.NewStyle().Foreground(theme.Text).Width(cw).Render(text)
	return label + "\n" + body
}

// renderTutor splits a tutor message into prose and exercise units;
// exercise units get a bordered block so instructions stand out.
func (c *ChatScreen) renderTutor(text string, cw int) string {
	label := theme.TutorMessage.Render("WriteBot")

	var rendered []string
	for _, u := range content.Segment(text) {
		if u.Kind == content.UnitExercise {
			rendered = append(rendered, theme.ExerciseBlock.
				Width(cw-2).
				Render(renderEmphasis(u.Raw)))
		} else {
			rendered = append(rendered, lipgloss.NewStyle().
				Width(cw).
				Render(renderEmphasis(u.Raw)))
		}
	}

	return label + "\n" + strings.Join(rendered, "\n")
}

// renderEmphasis applies bold styling to **marked** spans.
func renderEmphasis(text string) string {
	var out strings.Builder
	for _, line := range strings.Split(text, "\n") {
		if out.Len() > 0 {
			out.WriteString("\n")
		}
		for _, span := range content.Emphasis(line) {
			if span.Strong {
				out.WriteString(theme.Strong.Render(span.Text))
			} else {
				out.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Render(span.Text))
			}
		}
	}
	return out.String()
}
