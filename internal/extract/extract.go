package extract

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/kaptinlin/jsonrepair"

	"github.com/sapgo/sap/value"
)

// FixTag names one of the recorded extractor fixes.
type FixTag string

const (
	FixNormalizedUnicodeQuotes FixTag = "normalized_unicode_quotes"
	FixAppliedAutoFixes        FixTag = "applied_auto_fixes"
	FixExtractedPartial        FixTag = "extracted_partial"
)

// ErrExtractionFailed is returned when every strategy rejected the input
// and the string fallback was disabled by Options.
var ErrExtractionFailed = errors.New("extract: every recognition strategy failed and string fallback is disabled")

// ErrDepthExceeded is returned when recursive descent into fenced blocks
// exceeds Options.MaxDepth.
var ErrDepthExceeded = errors.New("extract: maximum recursion depth exceeded")

// Options configures which strategies the extractor is allowed to use and
// a handful of limits. See the Options table in §6 of the spec for the
// name/effect/default of each field.
type Options struct {
	AllowMarkdownJSON      bool
	AllowFixes             bool
	AllowAsString          bool
	FindAllJSONObjects     bool
	NormalizeUnicodeQuotes bool
	MaxDepth               int
	// InputComplete tells the extractor whether the caller considers the
	// response text complete. It only affects the IsPartial flag of the
	// string-fallback strategy: IsPartial = !InputComplete.
	InputComplete bool
}

// DefaultOptions returns the extractor defaults from the spec's Options
// table: every strategy enabled, depth 100, input assumed complete.
func DefaultOptions() Options {
	return Options{
		AllowMarkdownJSON:      true,
		AllowFixes:             true,
		AllowAsString:          true,
		FindAllJSONObjects:     true,
		NormalizeUnicodeQuotes: true,
		MaxDepth:               100,
		InputComplete:          true,
	}
}

// Result is the outcome of a successful extraction.
type Result struct {
	Value        *value.Value
	FromMarkdown bool
	IsPartial    bool
	Fixes        []FixTag
}

// Extract recovers a dynamic value from text per the strategy ladder in
// §4.2. It only returns an error for depth-exceeded or (when string
// fallback is disabled) total extraction failure; every other outcome is a
// Result, possibly a String value produced by the fallback strategy.
func Extract(text string, opts Options) (Result, error) {
	e := &extractor{opts: opts}
	return e.run(text)
}

type extractor struct {
	opts  Options
	depth int
}

// run tries the full strategy ladder against the original text first, so
// that typographic quotes occurring inside an already-valid JSON string
// value (§8 scenario 5) are never touched. Only when that first pass fails
// entirely does it normalize quotes and retry the ladder — this is what
// "the normalized text is only used for subsequent recognition attempts"
// (§4.2) means in practice: quote normalization is a second attempt, not a
// blanket pre-pass, or malformed JSON that uses smart quotes as structural
// delimiters (§8 scenario 4) would never recover, while JSON that merely
// contains smart quotes inside a valid string would be corrupted by having
// them rewritten.
func (e *extractor) run(original string) (Result, error) {
	res, matched, err := e.attempt(original)
	if err != nil {
		return Result{}, err
	}
	if matched {
		return res, nil
	}

	if e.opts.NormalizeUnicodeQuotes {
		normalized, changed := normalizeQuotes(original)
		if changed {
			res2, matched2, err2 := e.attempt(normalized)
			if err2 != nil {
				return Result{}, err2
			}
			if matched2 {
				res2.Fixes = append([]FixTag{FixNormalizedUnicodeQuotes}, res2.Fixes...)
				return res2, nil
			}
		}
	}

	// Last resort, after the full ladder and the normalization retry have
	// both failed: hand the original text to jsonrepair, whose repairs are
	// broader than strategy 4's three deterministic rewrites (it also
	// completes truncated JSON and normalizes smart quotes). It must run
	// here rather than inside strategy 4 so it never preempts strategy 5's
	// truncation-completion job or this function's own quote-normalization
	// retry.
	if e.opts.AllowFixes {
		if v, ok := tryBroadRepair(original); ok {
			return Result{Value: v, Fixes: []FixTag{FixAppliedAutoFixes}}, nil
		}
	}

	if e.opts.AllowAsString {
		return Result{
			Value:     value.Str(original),
			IsPartial: !e.opts.InputComplete,
		}, nil
	}

	return Result{}, ErrExtractionFailed
}

// attempt runs strategies 1 (direct parse) through 5 (partial completion)
// against text, in order, aborting on first success.
func (e *extractor) attempt(text string) (Result, bool, error) {
	if v, ok := tryDirectParse(text); ok {
		return Result{Value: v}, true, nil
	}

	if e.opts.AllowMarkdownJSON {
		v, fixes, fromMarkdown, ok, err := e.tryFencedBlocks(text)
		if err != nil {
			return Result{}, false, err
		}
		if ok {
			return Result{Value: v, Fixes: fixes, FromMarkdown: fromMarkdown}, true, nil
		}
	}

	if e.opts.FindAllJSONObjects {
		if v, fixes, ok := e.tryMultiObjectScan(text); ok {
			return Result{Value: v, Fixes: fixes}, true, nil
		}
	}

	if e.opts.AllowFixes {
		if v, ok := tryRepairText(text); ok {
			return Result{Value: v, Fixes: []FixTag{FixAppliedAutoFixes}}, true, nil
		}
		if v, ok := tryPartialCompletion(text); ok {
			return Result{Value: v, Fixes: []FixTag{FixExtractedPartial}, IsPartial: true}, true, nil
		}
	}

	return Result{}, false, nil
}

// --- Strategy 1: direct parse ---

var numberLiteralRe = regexp.MustCompile(`^-?\d+(\.\d+)?([eE][+-]?\d+)?$`)

func looksLikeJSON(trimmed string) bool {
	if trimmed == "" {
		return false
	}
	first := trimmed[0]
	last := trimmed[len(trimmed)-1]
	if first == '{' && last == '}' {
		return true
	}
	if first == '[' && last == ']' {
		return true
	}
	if first == '"' && last == '"' && len(trimmed) >= 2 {
		return true
	}
	switch trimmed {
	case "true", "false", "null":
		return true
	}
	return numberLiteralRe.MatchString(trimmed)
}

func tryDirectParse(text string) (*value.Value, bool) {
	trimmed := strings.TrimSpace(text)
	if !looksLikeJSON(trimmed) {
		return nil, false
	}
	return strictParse(trimmed)
}

func strictParse(text string) (*value.Value, bool) {
	v, err := value.Decode([]byte(strings.TrimSpace(text)))
	if err != nil {
		return nil, false
	}
	return v, true
}

// --- Strategy 2: fenced-block extraction ---

var fenceRe = regexp.MustCompile("```(\\w*)[ \\t]*\\r?\\n?([\\s\\S]*?)```")

func (e *extractor) tryFencedBlocks(text string) (v *value.Value, fixes []FixTag, fromMarkdown bool, ok bool, err error) {
	matches := fenceRe.FindAllStringSubmatch(text, -1)
	var bodies []string
	for _, m := range matches {
		tag := strings.ToLower(strings.TrimSpace(m[1]))
		body := m[2]
		switch tag {
		case "json", "javascript", "js", "":
			bodies = append(bodies, body)
		default:
			if looksLikeJSON(strings.TrimSpace(body)) {
				bodies = append(bodies, body)
			}
		}
	}
	if len(bodies) == 0 {
		return nil, nil, false, false, nil
	}

	if len(bodies) == 1 {
		if e.depth+1 > e.opts.MaxDepth {
			return nil, nil, false, false, DepthError(e.opts.MaxDepth)
		}
		e.depth++
		res, matched, aerr := e.attempt(bodies[0])
		e.depth--
		if aerr != nil {
			return nil, nil, false, false, aerr
		}
		if !matched {
			return nil, nil, false, false, nil
		}
		return res.Value, res.Fixes, true, true, nil
	}

	v, fixes, ok = parseFencedBodies(bodies)
	return v, fixes, ok, ok, nil
}

func parseFencedBodies(bodies []string) (*value.Value, []FixTag, bool) {
	var successes []*value.Value
	for _, b := range bodies {
		if v, ok := strictParse(b); ok {
			successes = append(successes, v)
		}
	}
	if len(successes) == 1 {
		return successes[0], nil, true
	}
	if len(successes) >= 2 {
		return value.Arr(successes...), nil, true
	}

	var repaired []*value.Value
	for _, b := range bodies {
		if v, ok := tryRepairText(b); ok {
			repaired = append(repaired, v)
		}
	}
	if len(repaired) == 1 {
		return repaired[0], []FixTag{FixAppliedAutoFixes}, true
	}
	if len(repaired) >= 2 {
		return value.Arr(repaired...), []FixTag{FixAppliedAutoFixes}, true
	}
	return nil, nil, false
}

// --- Strategy 3: multi-object scan ---
//
// The regex below matches the first '{'/'[' through the next '}'/']'
// non-greedily; it does not track nesting depth, so it fails on nested
// braces the same way the spec's reference behavior does (§9: "the source
// accepts this limitation").
var multiObjectRe = regexp.MustCompile(`\{[\s\S]*?\}|\[[\s\S]*?\]`)

func (e *extractor) tryMultiObjectScan(text string) (*value.Value, []FixTag, bool) {
	candidates := multiObjectRe.FindAllString(text, -1)
	if len(candidates) == 0 {
		return nil, nil, false
	}

	var results []*value.Value
	usedRepair := false
	for _, c := range candidates {
		if v, ok := strictParse(c); ok {
			results = append(results, v)
			continue
		}
		if v, ok := tryRepairText(c); ok {
			results = append(results, v)
			usedRepair = true
		}
	}

	var fixes []FixTag
	if usedRepair {
		fixes = []FixTag{FixAppliedAutoFixes}
	}
	if len(results) == 1 {
		return results[0], fixes, true
	}
	if len(results) >= 2 {
		return value.Arr(results...), fixes, true
	}
	return nil, nil, false
}

// --- Strategy 4: repair parse ---

// tryRepairText applies exactly the three deterministic rewrites named in
// §4.2 step 4 and nothing more. jsonrepair (this codebase's usual repair
// workhorse in core/parse and internal/utils) is deliberately not called
// here: its truncation-completion and quote-normalization behavior is
// broader than this strategy's scope and would preempt strategy 5 and the
// quote-normalization retry in run(). It is still used, gated behind
// AllowFixes, as tryBroadRepair — the true last resort after every staged
// strategy has failed.
func tryRepairText(text string) (*value.Value, bool) {
	rewritten := applyDeterministicRewrites(text)
	return strictParse(rewritten)
}

// tryBroadRepair hands text to jsonrepair directly. See run()'s comment on
// why this only runs as a final fallback, not as part of strategy 4.
func tryBroadRepair(text string) (*value.Value, bool) {
	repaired, err := jsonrepair.JSONRepair(text)
	if err != nil {
		return nil, false
	}
	return strictParse(repaired)
}

var (
	trailingCommaRe = regexp.MustCompile(`,(\s*[}\]])`)
	singleQuotedKey = regexp.MustCompile(`'([^'\\]*)'(\s*:)`)
	bareKeyRe       = regexp.MustCompile(`([{,]\s*)([A-Za-z_$][A-Za-z0-9_$]*)(\s*:)`)
)

// applyDeterministicRewrites applies exactly the three rewrites named in
// §4.2 step 4, in order: drop trailing commas, quote single-quoted keys,
// quote bare-identifier keys.
func applyDeterministicRewrites(text string) string {
	text = trailingCommaRe.ReplaceAllString(text, "$1")
	text = singleQuotedKey.ReplaceAllString(text, `"$1"$2`)
	text = bareKeyRe.ReplaceAllString(text, `$1"$2"$3`)
	return text
}

// --- Strategy 5: partial completion ---

// tryPartialCompletion appends the missing closers as every '}' followed by
// every ']'; when that does not parse it tries every ']' followed by every
// '}', which closes an array left open inside an object
// (`{"items":["a","b"`).
func tryPartialCompletion(text string) (*value.Value, bool) {
	braces, brackets := countUnmatchedBrackets(text)
	if braces == 0 && brackets == 0 {
		return nil, false
	}
	completed := text + strings.Repeat("}", braces) + strings.Repeat("]", brackets)
	if v, ok := strictParse(completed); ok {
		return v, true
	}
	return strictParse(text + strings.Repeat("]", brackets) + strings.Repeat("}", braces))
}

// countUnmatchedBrackets counts unmatched '{' and '[' characters outside of
// double-quoted string literals.
func countUnmatchedBrackets(text string) (openBraces, openBrackets int) {
	inString := false
	escaped := false
	for _, r := range text {
		if escaped {
			escaped = false
			continue
		}
		switch r {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				openBraces++
			}
		case '}':
			if !inString && openBraces > 0 {
				openBraces--
			}
		case '[':
			if !inString {
				openBrackets++
			}
		case ']':
			if !inString && openBrackets > 0 {
				openBrackets--
			}
		}
	}
	return openBraces, openBrackets
}

// --- pre-processing ---

var smartQuotes = map[rune]rune{
	'\u201c': '"',
	'\u201d': '"',
	'\u2018': '\'',
	'\u2019': '\'',
}

// normalizeQuotes replaces the four Unicode typographic quote code points
// with their ASCII counterparts, reporting whether any replacement occurred.
func normalizeQuotes(text string) (string, bool) {
	changed := false
	out := strings.Map(func(r rune) rune {
		if repl, ok := smartQuotes[r]; ok {
			changed = true
			return repl
		}
		return r
	}, text)
	return out, changed
}

// DepthError wraps ErrDepthExceeded with the configured limit for
// diagnostics.
func DepthError(maxDepth int) error {
	return fmt.Errorf("%w: limit is %d", ErrDepthExceeded, maxDepth)
}
