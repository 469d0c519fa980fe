// Package cot implements the chain-of-thought filter (§4.1): a pure
// function that detects reasoning preamble in a model's response and, when
// present, trims the text down to the smallest reasonable window containing
// the actual payload.
package cot

import (
	"regexp"
	"strings"
)

// reasoningMarkers are the case-insensitive substrings whose presence marks
// a response as containing chain-of-thought reasoning.
var reasoningMarkers = []string{
	"let me think",
	"step by step",
	"reasoning:",
	"thinking:",
	"analysis:",
	"therefore",
	"in conclusion",
}

var leadingFirstClause = regexp.MustCompile(`(?i)^\s*first,`)

// payloadMarkers are tried in priority order once reasoning has been
// detected; the filter returns the suffix starting at the earliest match of
// the first marker that occurs anywhere in the text.
var payloadMarkers = []*regexp.Regexp{
	regexp.MustCompile(`(?i)here is the json[^:]*:`),
	regexp.MustCompile(`(?i)(?:output json[^:]*:|therefore the output json is[^:]*:)`),
	regexp.MustCompile(`(?i)(?:final answer:|answer:)`),
	regexp.MustCompile("```"),
}

// Result is the outcome of running the filter on one response.
type Result struct {
	// Text is the (possibly trimmed) text to hand to the extractor.
	Text string
	// Filtered is true when reasoning was detected and the text was
	// actually trimmed.
	Filtered bool
}

// Filter detects reasoning preamble in text and, when found, trims it per
// the priority order in §4.1. Filter is a pure function: it allocates no
// persistent state and can be called concurrently on independent inputs.
func Filter(text string) Result {
	if !HasReasoning(text) {
		return Result{Text: text, Filtered: false}
	}

	if idx := earliestMatch(text, payloadMarkers); idx >= 0 {
		return Result{Text: text[idx:], Filtered: true}
	}

	if idx := strings.IndexByte(text, '{'); idx >= 0 {
		return Result{Text: text[idx:], Filtered: true}
	}

	return Result{Text: text, Filtered: false}
}

// HasReasoning reports whether any reasoning marker occurs in text,
// case-insensitively, including a leading "first," clause.
func HasReasoning(text string) bool {
	lower := strings.ToLower(text)
	for _, marker := range reasoningMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return leadingFirstClause.MatchString(text)
}

// earliestMatch returns the start index of the earliest match of the
// highest-priority pattern that matches anywhere in text; a
// lower-priority pattern which matches earlier in the text than a
// higher-priority pattern is NOT preferred: §4.1 specifies the four
// patterns be tried strictly in order, and the first one (of any) to match
// anywhere in the text wins.
func earliestMatch(text string, patterns []*regexp.Regexp) int {
	for _, p := range patterns {
		if loc := p.FindStringIndex(text); loc != nil {
			return loc[0]
		}
	}
	return -1
}
