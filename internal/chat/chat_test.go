package chat

import (
	"strings"
	"testing"

	"github.com/heymarley/writebot/internal/scenario"
)

func exA() scenario.Exercise {
	return scenario.Exercise{
		ID:          1,
		Title:       "Match Report",
		Description: "Write a short match report.",
		Prompt:      "Describe the final over of the game.",
		Guidelines:  []string{"Use past tense", "Name the players"},
	}
}

func TestNewSession_StartsWithGreeting(t *testing.T) {
	s := NewSession(exA())
	msgs := s.Messages()
	if len(msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(msgs))
	}
	if msgs[0].Role != RoleAssistant {
		t.Fatalf("greeting role = %s", msgs[0].Role)
	}
	if !strings.Contains(msgs[0].Content, `Let's work on "Match Report"`) {
		t.Fatalf("greeting = %q", msgs[0].Content)
	}
}

func TestGreeting_Shape(t *testing.T) {
	g := Greeting(exA())

	for _, want := range []string{
		"Write a short match report.",
		"**Your Prompt:**\nDescribe the final over of the game.",
		"**What to include:**\n• Use past tense\n• Name the players",
		"Take your time and write your response.",
	} {
		if !strings.Contains(g, want) {
			t.Errorf("greeting missing %q:\n%s", want, g)
		}
	}
}

func TestGreeting_PromptEqualToDescriptionOmitted(t *testing.T) {
	ex := exA()
	ex.Prompt = ex.Description
	g := Greeting(ex)
	if strings.Contains(g, "**Your Prompt:**") {
		t.Fatal("prompt block should be omitted when it repeats the description")
	}
}

func TestGreeting_TitleWithQuotes(t *testing.T) {
	ex := exA()
	ex.Title = `The "Perfect" Opening`
	g := Greeting(ex)
	if !strings.Contains(g, `Let's work on "The "Perfect" Opening".`) {
		t.Fatalf("title quotes must not be escaped:\n%s", g)
	}
}

func TestGreeting_EmptyTitleFallback(t *testing.T) {
	g := Greeting(scenario.Exercise{})
	if !strings.Contains(g, `"This Exercise"`) {
		t.Fatalf("greeting = %q", g)
	}
}

func TestSend_OptimisticAppendAndComposing(t *testing.T) {
	s := NewSession(exA())
	if !s.Send("Here is my paragraph.") {
		t.Fatal("send rejected")
	}
	msgs := s.Messages()
	if len(msgs) != 2 || msgs[1].Role != RoleUser {
		t.Fatalf("messages = %+v", msgs)
	}
	if !s.Composing() {
		t.Fatal("expected composing state after send")
	}
}

func TestSend_SerializedWhileComposing(t *testing.T) {
	s := NewSession(exA())
	s.Send("first")
	if s.Send("second") {
		t.Fatal("send while composing must be rejected")
	}
	s.Reply(CannedReply)
	if s.Composing() {
		t.Fatal("reply should clear composing")
	}
	if !s.Send("second") {
		t.Fatal("send after reply should succeed")
	}
}

func TestSend_EmptyRejected(t *testing.T) {
	s := NewSession(exA())
	if s.Send("   ") {
		t.Fatal("whitespace-only send must be rejected")
	}
}

func TestRebind_NewExerciseResetsHistory(t *testing.T) {
	s := NewSession(exA())
	s.Send("some writing")
	s.Reply("feedback")

	next := scenario.Exercise{ID: 2, Title: "Poem", Description: "Write a poem."}
	s.Rebind(next)

	msgs := s.Messages()
	if len(msgs) != 1 {
		t.Fatalf("history not reset: %d messages", len(msgs))
	}
	if !strings.Contains(msgs[0].Content, `"Poem"`) {
		t.Fatalf("greeting = %q", msgs[0].Content)
	}
	if s.Composing() {
		t.Fatal("rebind must clear composing")
	}
}

func TestRebind_SameExerciseKeepsHistory(t *testing.T) {
	s := NewSession(exA())
	s.Send("some writing")
	s.Reply("feedback")

	s.Rebind(exA())
	if len(s.Messages()) != 3 {
		t.Fatalf("history discarded on same-identity rebind: %d", len(s.Messages()))
	}
}

func TestReply_RejectedWhenNotComposing(t *testing.T) {
	s := NewSession(exA())
	if s.Reply("unsolicited feedback") {
		t.Fatal("reply without a pending send must be rejected")
	}
	if len(s.Messages()) != 1 {
		t.Fatalf("rejected reply must not append: %d messages", len(s.Messages()))
	}
}

func TestFail_ClearsComposingWithoutReply(t *testing.T) {
	s := NewSession(exA())
	s.Send("hello")
	s.Fail()
	if s.Composing() {
		t.Fatal("fail should clear composing")
	}
	if len(s.Messages()) != 2 {
		t.Fatalf("fail must not append a message: %d", len(s.Messages()))
	}
}
