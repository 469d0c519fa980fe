package coerce

import (
	"fmt"

	"github.com/sapgo/sap/internal/extract"
	"github.com/sapgo/sap/schema"
	"github.com/sapgo/sap/value"
)

// ErrorKind classifies a Diagnostic. The taxonomy mirrors §4.3's own:
// a failed position is either the wrong shape, a constraint the right
// shape still violates, a required field that never showed up, or the
// walk giving up because it went too deep. KindExtractionFailure is not
// produced by the coercer; the sap orchestrator uses it when extraction
// itself fails.
type ErrorKind int

const (
	KindTypeMismatch ErrorKind = iota
	KindConstraintViolation
	KindMissingRequired
	KindDepthExceeded
	KindExtractionFailure
)

func (k ErrorKind) String() string {
	switch k {
	case KindTypeMismatch:
		return "type_mismatch"
	case KindConstraintViolation:
		return "constraint_violation"
	case KindMissingRequired:
		return "missing_required"
	case KindDepthExceeded:
		return "depth_exceeded"
	case KindExtractionFailure:
		return "extraction_failure"
	default:
		return "unknown"
	}
}

// Diagnostic records one position in the tree where coercion could not
// fully satisfy the schema.
type Diagnostic struct {
	Path    string
	Message string
	Kind    ErrorKind
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s (%s)", d.Path, d.Message, d.Kind)
}

// Note records a coercion the walk performed that a caller asked to be
// told about via Options.TrackCoercions — a lossy scalar conversion, a
// wrapping, a union pick.
type Note struct {
	Path    string
	Message string
}

// Report accumulates every Diagnostic and Note produced by a single
// Coerce call, plus whether the result should be considered partial.
type Report struct {
	Diagnostics []Diagnostic
	Notes       []Note
	IsPartial   bool
}

// Options configures the coercer's behavior.
type Options struct {
	// AllowPartials makes an absent required value become null instead of
	// a Diagnostic, and marks the report IsPartial.
	AllowPartials bool
	// UseDefaults fills an absent field from its schema's Default when one
	// was declared, before falling back to the AllowPartials/error rule.
	UseDefaults bool
	// Strict suppresses every lossy scalar conversion (string<->number,
	// string<->boolean, and so on): a shape mismatch is always a
	// Diagnostic, never a conversion.
	Strict bool
	// TrackCoercions turns on Note recording. Off by default since most
	// callers only care about success and Diagnostics.
	TrackCoercions bool
	// MaxDepth bounds recursion through nested Object/Array/Tuple/Record
	// schemas, doubling as the cycle guard for Ref-shaped input loops.
	MaxDepth int
}

// DefaultOptions returns the coercer defaults: partials off, defaults on,
// strict off, tracing off, depth 50.
func DefaultOptions() Options {
	return Options{UseDefaults: true, MaxDepth: 50}
}

// Coerce walks dv against node, returning the best-effort conforming value
// together with a Report of every Diagnostic and Note collected along the
// way. It only returns a non-nil error when the walk exceeds Options.MaxDepth;
// every other outcome, including one riddled with Diagnostics, is reported
// through the returned Report rather than as a Go error — the walk never
// aborts early on a bad position, it just records the problem and keeps going.
func Coerce(dv *value.Value, node *schema.Node, opts Options) (*value.Value, *Report, error) {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultOptions().MaxDepth
	}
	c := &coercer{opts: opts, report: &Report{}}
	out := c.coerce("", dv, node, 0)
	if c.depthExceeded {
		return out, c.report, fmt.Errorf("coerce: exceeded max depth %d", opts.MaxDepth)
	}
	return out, c.report, nil
}

type coercer struct {
	opts          Options
	report        *Report
	depthExceeded bool
}

// newFork returns a coercer sharing opts but with a private Report, used to
// trial an alternative (a union member, a schema-wrapped-value unwrap)
// without polluting the caller's Diagnostics unless the trial is adopted.
func newFork(opts Options) *coercer {
	return &coercer{opts: opts, report: &Report{}}
}

func (c *coercer) mergeSub(sub *Report) {
	c.report.Diagnostics = append(c.report.Diagnostics, sub.Diagnostics...)
	c.report.Notes = append(c.report.Notes, sub.Notes...)
	if sub.IsPartial {
		c.report.IsPartial = true
	}
}

func (c *coercer) note(path, msg string) {
	if !c.opts.TrackCoercions {
		return
	}
	c.report.Notes = append(c.report.Notes, Note{Path: path, Message: msg})
}

func (c *coercer) typeMismatch(path string, node *schema.Node, dv *value.Value) {
	c.report.Diagnostics = append(c.report.Diagnostics, Diagnostic{
		Path:    path,
		Message: fmt.Sprintf("expected %s, got %s", node.Tag, dv.Kind()),
		Kind:    KindTypeMismatch,
	})
}

func (c *coercer) constraintViolation(path, msg string) {
	c.report.Diagnostics = append(c.report.Diagnostics, Diagnostic{
		Path: path, Message: msg, Kind: KindConstraintViolation,
	})
}

func (c *coercer) missingRequired(path string) {
	c.report.Diagnostics = append(c.report.Diagnostics, Diagnostic{
		Path: path, Message: "required field is missing", Kind: KindMissingRequired,
	})
}

func joinField(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}

func joinIndex(path string, i int) string {
	return fmt.Sprintf("%s[%d]", path, i)
}

// coerce is the dispatch hub: Null handling, the schema-wrapped-value
// unwrap heuristic, and the per-Tag switch all happen here.
func (c *coercer) coerce(path string, dv *value.Value, node *schema.Node, depth int) *value.Value {
	if depth > c.opts.MaxDepth {
		c.depthExceeded = true
		c.report.Diagnostics = append(c.report.Diagnostics, Diagnostic{
			Path: path, Message: "maximum coercion depth exceeded", Kind: KindDepthExceeded,
		})
		return dv
	}
	if node == nil {
		return dv
	}

	if dv.IsNull() {
		return c.coerceAbsent(path, node)
	}

	if isWrapperShaped(dv, node) {
		if v, ok := c.tryUnwrap(path, dv, node, depth); ok {
			return v
		}
	}

	switch node.Tag {
	case schema.String:
		return c.coerceString(path, dv, node)
	case schema.Integer:
		return c.coerceNumber(path, dv, node, true)
	case schema.Number:
		return c.coerceNumber(path, dv, node, false)
	case schema.Boolean:
		return c.coerceBoolean(path, dv, node)
	case schema.Null:
		c.typeMismatch(path, node, dv)
		return dv
	case schema.Any:
		return dv
	case schema.Literal:
		return c.coerceLiteral(path, dv, node)
	case schema.Enum:
		return c.coerceEnum(path, dv, node)
	case schema.Array:
		return c.coerceArray(path, dv, node, depth)
	case schema.Tuple:
		return c.coerceTuple(path, dv, node, depth)
	case schema.Object:
		return c.coerceObject(path, dv, node, depth)
	case schema.Record:
		return c.coerceRecord(path, dv, node, depth)
	case schema.Union:
		return c.coerceUnion(path, dv, node, depth)
	case schema.Intersect:
		return c.coerceIntersect(path, dv, node, depth)
	case schema.Optional:
		return c.coerce(path, dv, node.Inner, depth)
	case schema.Ref:
		c.note(path, "unresolved_reference")
		return dv
	default:
		return dv
	}
}

// coerceAbsent handles a null or missing value. A nullable position
// resolves it for free; otherwise it is absorbed silently under
// AllowPartials, or recorded as a type mismatch.
func (c *coercer) coerceAbsent(path string, node *schema.Node) *value.Value {
	if node.AllowsNull() {
		return value.Null()
	}
	if c.opts.AllowPartials {
		c.report.IsPartial = true
		return value.Null()
	}
	c.report.Diagnostics = append(c.report.Diagnostics, Diagnostic{
		Path:    path,
		Message: fmt.Sprintf("expected %s, got null", node.Tag),
		Kind:    KindTypeMismatch,
	})
	return value.Null()
}

// isWrapperShaped recognizes the {"type": "...", "value": ...} envelope
// some models wrap scalars in when they over-apply the schema's own
// vocabulary to their output. An Object schema that genuinely declares a
// "type" field is exempted so real objects are never misread as envelopes.
func isWrapperShaped(dv *value.Value, node *schema.Node) bool {
	if dv.Kind() != value.KindObject {
		return false
	}
	obj := dv.Object()
	if obj.Len() != 2 || !obj.Has("type") || !obj.Has("value") {
		return false
	}
	if node.Tag == schema.Object && node.FieldSchema("type") != nil {
		return false
	}
	return true
}

// tryUnwrap retries coercion against the envelope's "value" field in a
// private Report; the unwrap is adopted only if it produces zero
// Diagnostics, so a genuine {"type":...,"value":...} payload that happens
// to fail never silently discards the original error-bearing attempt.
func (c *coercer) tryUnwrap(path string, dv *value.Value, node *schema.Node, depth int) (*value.Value, bool) {
	inner, _ := dv.Object().Get("value")
	trial := newFork(c.opts)
	v := trial.coerce(path, inner, node, depth)
	if trial.depthExceeded || len(trial.report.Diagnostics) > 0 {
		return nil, false
	}
	c.mergeSub(trial.report)
	c.note(path, "unwrapped_schema_shaped_value")
	return v, true
}

// tryNestedExtract runs the JSON extractor over s, used by Object
// coercion's string-input retry (§4.3): a model sometimes stuffs a whole
// JSON object into a single string field instead of emitting it as a
// structural value.
func tryNestedExtract(s string) (*value.Value, bool) {
	res, err := extract.Extract(s, extract.Options{
		AllowMarkdownJSON:  true,
		AllowFixes:         true,
		FindAllJSONObjects: true,
		InputComplete:      true,
	})
	if err != nil {
		return nil, false
	}
	if res.Value.Kind() != value.KindObject {
		return nil, false
	}
	return res.Value, true
}
