// Package chat holds the state of one tutoring conversation bound to a
// selected exercise.
package chat

import (
	"fmt"
	"strings"

	"github.com/heymarley/writebot/internal/scenario"
)

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single chat turn.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// CannedReply is the simulated tutor response used when no backend chat
// endpoint is configured.
const CannedReply = "That's a great start! Keep going with your writing. " +
	"Remember to include the elements we discussed. Feel free to ask me " +
	"questions if you need help!"

// Session is an append-only message history bound to one exercise. The
// history starts as a single synthesized greeting and is discarded
// whenever the bound exercise identity changes.
type Session struct {
	exercise  scenario.Exercise
	messages  []Message
	composing bool
}

// NewSession starts a fresh session for the given exercise.
func NewSession(ex scenario.Exercise) *Session {
	return &Session{
		exercise: ex,
		messages: []Message{{Role: RoleAssistant, Content: Greeting(ex)}},
	}
}

// Rebind switches the session to a different exercise. If the identity
// (id+title) changed, the entire history is replaced by a fresh greeting;
// rebinding to the same exercise is a no-op.
func (s *Session) Rebind(ex scenario.Exercise) {
	if ex.Identity() == s.exercise.Identity() {
		return
	}
	s.exercise = ex
	s.messages = []Message{{Role: RoleAssistant, Content: Greeting(ex)}}
	s.composing = false
}

// Messages returns the ordered history. The returned slice must not be
// mutated by callers.
func (s *Session) Messages() []Message {
	return s.messages
}

// Exercise returns the currently bound exercise.
func (s *Session) Exercise() scenario.Exercise {
	return s.exercise
}

// Composing reports whether an assistant reply is pending.
func (s *Session) Composing() bool {
	return s.composing
}

// Send appends a user message and enters the composing state. Sends are
// serialized: a send while a reply is pending is rejected, as is an
// empty message.
func (s *Session) Send(content string) bool {
	content = strings.TrimSpace(content)
	if content == "" || s.composing {
		return false
	}
	s.messages = append(s.messages, Message{Role: RoleUser, Content: content})
	s.composing = true
	return true
}

// Reply appends the assistant's reply and leaves the composing state.
// A reply arriving when no send is pending belongs to a conversation
// this session no longer represents and is rejected.
func (s *Session) Reply(content string) bool {
	if !s.composing {
		return false
	}
	s.messages = append(s.messages, Message{Role: RoleAssistant, Content: content})
	s.composing = false
	return true
}

// Fail leaves the composing state without appending a reply, for when
// the backend call errors out and the error is surfaced elsewhere.
func (s *Session) Fail() {
	s.composing = false
}

// Greeting synthesizes the opening tutor message from the exercise's
// title, description, prompt, and guidelines.
func Greeting(ex scenario.Exercise) string {
	title := ex.Title
	if title == "" {
		title = "This Exercise"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Great choice! Let's work on \"%s\".\n\n", title)

	if ex.Description != "" {
		b.WriteString(ex.Description)
		b.WriteString("\n\n")
	}

	if ex.Prompt != "" && ex.Prompt != ex.Description {
		b.WriteString("**Your Prompt:**\n")
		b.WriteString(ex.Prompt)
		b.WriteString("\n\n")
	}

	if len(ex.Guidelines) > 0 {
		b.WriteString("**What to include:**\n")
		for _, g := range ex.Guidelines {
			fmt.Fprintf(&b, "• %s\n", g)
		}
		b.WriteString("\n")
	}

	b.WriteString("Take your time and write your response. I'm here to help if you have any questions!")
	return b.String()
}
