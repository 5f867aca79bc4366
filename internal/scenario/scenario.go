package scenario

import (
	"encoding/json"
	"fmt"
)

// Result is a generated scenario plus its exercises, as returned by the
// onboarding backend. FormKey is stamped client-side at creation time with
// the fingerprint of the form that produced it; the result is only valid
// while that fingerprint still matches the current form.
type Result struct {
	SessionID string     `json:"session_id"`
	Scenario  string     `json:"scenario"`
	Exercises []Exercise `json:"exercises"`
	FormKey   string     `json:"formKey,omitempty"`
}

// Exercise is one writing task. Immutable once received.
type Exercise struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Focus       string   `json:"focus,omitempty"`
	Description string   `json:"description,omitempty"`
	Prompt      string   `json:"prompt,omitempty"`
	Guidelines  []string `json:"guidelines,omitempty"`

	// raw holds the bare-string form of the exercise when the backend
	// sent plain text instead of a structured object.
	raw     string
	rawOnly bool
}

// UnmarshalJSON accepts either a structured exercise object or a bare
// string. The bare string is kept as a raw alternative; Normalize turns
// it into the canonical structured shape.
func (e *Exercise) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*e = Exercise{raw: s, rawOnly: true}
		return nil
	}

	type structured Exercise
	var st structured
	if err := json.Unmarshal(data, &st); err != nil {
		return fmt.Errorf("exercise is neither string nor object: %w", err)
	}
	*e = Exercise(st)
	return nil
}

// IsRaw reports whether this exercise arrived as a bare string.
func (e Exercise) IsRaw() bool {
	return e.rawOnly
}

// Normalize returns the canonical structured exercise. A bare-string
// exercise is synthesized into the structured shape: title from its
// position, description and prompt both set to the text, no guidelines.
// idx is the zero-based position in the exercise list.
func (e Exercise) Normalize(idx int) Exercise {
	if !e.rawOnly {
		if e.Title == "" {
			e.Title = fmt.Sprintf("Exercise %d", idx+1)
		}
		return e
	}
	return Exercise{
		ID:          idx,
		Title:       fmt.Sprintf("Exercise %d", idx+1),
		Focus:       "Writing Practice",
		Description: e.raw,
		Prompt:      e.raw,
		Guidelines:  nil,
	}
}

// Identity returns a stable identity for the exercise, used to detect
// when the chat session must be rebound.
func (e Exercise) Identity() string {
	return fmt.Sprintf("%d|%s", e.ID, e.Title)
}

// Normalized returns a copy of the result with every exercise in
// canonical structured form.
func (r Result) Normalized() Result {
	out := r
	out.Exercises = make([]Exercise, len(r.Exercises))
	for i, ex := range r.Exercises {
		out.Exercises[i] = ex.Normalize(i)
	}
	return out
}
