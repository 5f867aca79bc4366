package content

import (
	"reflect"
	"testing"
)

func TestEmphasis_MatchedPairs(t *testing.T) {
	got := Emphasis("plain **bold** more")
	want := []Span{
		{Text: "plain ", Strong: false},
		{Text: "bold", Strong: true},
		{Text: " more", Strong: false},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestEmphasis_NoMarkers(t *testing.T) {
	got := Emphasis("just text")
	want := []Span{{Text: "just text", Strong: false}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v", got)
	}
}

func TestEmphasis_UnmatchedMarkerQuirk(t *testing.T) {
	// An odd marker count leaves the tail emphasized with no closing
	// marker. Preserved for output compatibility.
	got := Emphasis("before **dangling tail")
	want := []Span{
		{Text: "before ", Strong: false},
		{Text: "dangling tail", Strong: true},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestEmphasis_LeadingMarker(t *testing.T) {
	got := Emphasis("**Your Prompt:** write it")
	want := []Span{
		{Text: "Your Prompt:", Strong: true},
		{Text: " write it", Strong: false},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestEmphasis_Empty(t *testing.T) {
	if spans := Emphasis(""); len(spans) != 0 {
		t.Fatalf("expected no spans, got %+v", spans)
	}
}
