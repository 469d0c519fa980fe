package sap

import (
	"github.com/sapgo/sap/coerce"
	"github.com/sapgo/sap/internal/extract"
	"github.com/sapgo/sap/value"
)

// Meta carries everything about a parse that isn't the coerced value
// itself: provenance, the extractor's fix tags, and (when enabled) the
// coercion trace.
type Meta struct {
	Raw                    string
	FromMarkdown           bool
	ChainOfThoughtFiltered bool
	Fixes                  []extract.FixTag
	Coercions              []coerce.Note
	// AllCandidates is populated only when Options.ReturnAllCandidates is
	// set: one Result per top-level value the extractor's multi-object
	// scan found, the same split ParseAllCandidates exposes through its
	// own return value.
	AllCandidates []Result
}

// Result is the outcome of one parse attempt (§6).
type Result struct {
	Success   bool
	Value     *value.Value
	Errors    []coerce.Diagnostic
	IsPartial bool
	Meta      Meta
}
