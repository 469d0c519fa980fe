package cot

import (
	"strings"
	"testing"
)

func TestFilterNoReasoningPassesThrough(t *testing.T) {
	text := `{"answer":"hi"}`
	r := Filter(text)
	if r.Filtered {
		t.Error("expected Filtered=false")
	}
	if r.Text != text {
		t.Errorf("expected unchanged text, got %q", r.Text)
	}
}

func TestFilterTrimsAtFinalAnswerMarker(t *testing.T) {
	text := "Let me think step by step. First, the cat sat. Final Answer: {\"x\":1}"
	r := Filter(text)
	if !r.Filtered {
		t.Fatal("expected Filtered=true")
	}
	if !strings.HasPrefix(r.Text, "Final Answer:") && !strings.HasPrefix(r.Text, "Final answer:") {
		// case-insensitive match retains original casing of the source text
		if !strings.Contains(strings.ToLower(r.Text), "final answer:") {
			t.Errorf("expected trimmed text to start at the final-answer marker, got %q", r.Text)
		}
	}
}

func TestFilterChainOfThoughtWrap(t *testing.T) {
	text := "Let me think... Therefore the output JSON is:\n```json\n{\"answer\":\"hi\"}\n```"
	r := Filter(text)
	if !r.Filtered {
		t.Fatal("expected Filtered=true")
	}
	if !strings.Contains(r.Text, "```json") {
		t.Errorf("expected trimmed text to retain the fenced block, got %q", r.Text)
	}
}

func TestFilterFallsBackToFirstBrace(t *testing.T) {
	text := "Therefore the model produced {\"a\":1} as its result."
	r := Filter(text)
	if !r.Filtered {
		t.Fatal("expected Filtered=true")
	}
	if r.Text[0] != '{' {
		t.Errorf("expected trimmed text to start at '{', got %q", r.Text)
	}
}

func TestFilterReturnsUnchangedWhenNoMarkerFound(t *testing.T) {
	text := "Therefore nothing useful follows here without any recognizable payload marker"
	r := Filter(text)
	if r.Filtered {
		t.Error("expected Filtered=false when no payload marker and no brace present")
	}
	if r.Text != text {
		t.Error("expected text unchanged")
	}
}

func TestHasReasoningLeadingFirstClause(t *testing.T) {
	if !HasReasoning("First, consider the input.") {
		t.Error("expected leading 'First,' clause to be detected")
	}
}
