// Package content turns a tutor message into rendering units: plain prose
// lines and visually distinct exercise blocks. Segmentation is pure and is
// recomputed from the message text on every render; nothing here persists
// across messages.
package content

import (
	"regexp"
	"strings"
)

// UnitKind distinguishes the two rendering unit types.
type UnitKind int

const (
	// UnitText is a single line of conversational prose.
	UnitText UnitKind = iota

	// UnitExercise is a block of one or more contiguous exercise lines,
	// joined by newlines, rendered as a distinct bordered block.
	UnitExercise
)

// Unit is one ordered piece of a segmented message.
type Unit struct {
	Kind UnitKind
	Raw  string
}

// exercisePatterns classify a line as exercise content. A line matching
// ANY pattern is an exercise line. Order mirrors the shapes the tutor
// pipeline emits.
var exercisePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^Your turn`),
	regexp.MustCompile(`(?i)^\d+\.\s*\*\*Sentence \d+:`),
	regexp.MustCompile(`(?i)^\*\*Sentence \d+:`),
	regexp.MustCompile(`(?i)^\*\*Transition type:`),
	regexp.MustCompile(`(?i)^\*\*Connected:`),
	regexp.MustCompile(`(?i)^Connect these pairs`),
	regexp.MustCompile(`(?i)^Write \d+ connected sentences`),
}

// IsExerciseLine reports whether a single line reads as exercise content.
// The line is trimmed before matching.
func IsExerciseLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	for _, p := range exercisePatterns {
		if p.MatchString(trimmed) {
			return true
		}
	}
	return false
}

// Segment splits a message into ordered rendering units. Consecutive
// exercise lines accumulate into one block; the first prose line after a
// run closes and emits the pending block before the prose line itself. A
// block still open at end of input is flushed after the last line. A
// single exercise line is still wrapped as a block, never left inline.
func Segment(text string) []Unit {
	lines := strings.Split(text, "\n")
	units := make([]Unit, 0, len(lines))

	var block []string
	flush := func() {
		if len(block) > 0 {
			units = append(units, Unit{Kind: UnitExercise, Raw: strings.Join(block, "\n")})
			block = nil
		}
	}

	for _, line := range lines {
		if IsExerciseLine(line) {
			block = append(block, line)
			continue
		}
		flush()
		units = append(units, Unit{Kind: UnitText, Raw: line})
	}
	flush()

	return units
}

// Join reassembles the original message from segmented units. Segment and
// Join are inverses: Join(Segment(text)) == text.
func Join(units []Unit) string {
	raws := make([]string, len(units))
	for i, u := range units {
		raws[i] = u.Raw
	}
	return strings.Join(raws, "\n")
}
