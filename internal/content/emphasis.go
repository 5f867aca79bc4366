package content

import "strings"

// Span is a run of text that is either plain or emphasized.
type Span struct {
	Text   string
	Strong bool
}

// Emphasis splits a string on the ** marker and marks odd-indexed
// segments as emphasized, assuming markers come in matched pairs. An
// unmatched trailing marker yields a final emphasized span with no
// closing marker. That quirk is load-bearing: downstream rendering
// depends on this exact shape, so it is preserved rather than corrected.
func Emphasis(s string) []Span {
	parts := strings.Split(s, "**")
	spans := make([]Span, 0, len(parts))
	for i, part := range parts {
		if part == "" {
			continue
		}
		spans = append(spans, Span{Text: part, Strong: i%2 == 1})
	}
	return spans
}
