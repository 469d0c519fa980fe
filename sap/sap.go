package sap

import (
	"log/slog"

	"github.com/sapgo/sap/coerce"
	"github.com/sapgo/sap/internal/cot"
	"github.com/sapgo/sap/internal/extract"
	"github.com/sapgo/sap/schema"
	"github.com/sapgo/sap/value"
)

func extractOptions(o Options) extract.Options {
	return extract.Options{
		AllowMarkdownJSON:      o.AllowMarkdownJSON,
		AllowFixes:             o.AllowFixes,
		AllowAsString:          o.AllowAsString,
		FindAllJSONObjects:     o.FindAllJSONObjects,
		NormalizeUnicodeQuotes: o.NormalizeUnicodeQuotes,
		MaxDepth:               o.ExtractMaxDepth,
		InputComplete:          !o.AllowPartials,
	}
}

func coerceOptions(o Options) coerce.Options {
	return coerce.Options{
		AllowPartials:  o.AllowPartials,
		UseDefaults:    o.UseDefaults,
		Strict:         o.Strict,
		TrackCoercions: o.TrackCoercions,
		MaxDepth:       o.CoerceMaxDepth,
	}
}

// Parse is the principal entry point (§6): filter, extract, coerce.
func Parse(response string, node *schema.Node, opts ...Option) Result {
	o := apply(opts)
	return runParse(response, node, o)
}

// ParsePartial is Parse with allow_partials and allow_as_string forced on,
// for callers feeding a response still being streamed.
func ParsePartial(response string, node *schema.Node, opts ...Option) Result {
	opts = append(opts, WithAllowPartials(true), WithAllowAsString(true))
	o := apply(opts)
	return runParse(response, node, o)
}

func runParse(response string, node *schema.Node, o Options) Result {
	log := o.logger()
	raw := response

	text := response
	cotFiltered := false
	if o.FilterChainOfThought {
		r := cot.Filter(response)
		text = r.Text
		cotFiltered = r.Filtered
		if cotFiltered {
			log.Debug("sap: chain-of-thought filter trimmed response", slog.Int("original_len", len(raw)), slog.Int("trimmed_len", len(text)))
		}
	}

	extracted, err := extract.Extract(text, extractOptions(o))
	if err != nil {
		log.Debug("sap: extraction failed", slog.String("error", err.Error()))
		return Result{
			Success: false,
			Errors: []coerce.Diagnostic{{
				Path: "", Message: err.Error(), Kind: coerce.KindExtractionFailure,
			}},
			Meta: Meta{Raw: raw, ChainOfThoughtFiltered: cotFiltered},
		}
	}

	return finishParse(raw, cotFiltered, extracted, node, o)
}

func finishParse(raw string, cotFiltered bool, extracted extract.Result, node *schema.Node, o Options) Result {
	coerced, report, cerr := coerce.Coerce(extracted.Value, node, coerceOptions(o))
	errors := report.Diagnostics
	if cerr != nil {
		errors = append(errors, coerce.Diagnostic{Path: "", Message: cerr.Error(), Kind: coerce.KindDepthExceeded})
	}

	isPartial := report.IsPartial || extracted.IsPartial

	res := Result{
		Success:   len(errors) == 0,
		Value:     coerced,
		Errors:    errors,
		IsPartial: isPartial,
		Meta: Meta{
			Raw:                    raw,
			FromMarkdown:           extracted.FromMarkdown,
			ChainOfThoughtFiltered: cotFiltered,
			Fixes:                  extracted.Fixes,
			Coercions:              report.Notes,
		},
	}

	if o.ReturnAllCandidates {
		candidates := splitCandidates(extracted)
		if len(candidates) > 1 {
			res.Meta.AllCandidates = make([]Result, len(candidates))
			for i, c := range candidates {
				res.Meta.AllCandidates[i] = finishParse(raw, cotFiltered, c, node, stripReturnAllCandidates(o))
			}
		}
	}

	return res
}

// stripReturnAllCandidates prevents finishParse's recursive per-candidate
// calls from recursing again into AllCandidates population.
func stripReturnAllCandidates(o Options) Options {
	o.ReturnAllCandidates = false
	return o
}

// ParseAllCandidates surfaces every top-level value the extractor's
// multi-object scan (or multi-block fenced extraction) found as
// independent Results, rather than forcing them into one Array-shaped
// value the way Parse does. A response containing only a single value
// yields a single-element slice.
func ParseAllCandidates(response string, node *schema.Node, opts ...Option) []Result {
	o := apply(opts)
	log := o.logger()
	raw := response

	text := response
	cotFiltered := false
	if o.FilterChainOfThought {
		r := cot.Filter(response)
		text = r.Text
		cotFiltered = r.Filtered
	}

	extracted, err := extract.Extract(text, extractOptions(o))
	if err != nil {
		log.Debug("sap: extraction failed", slog.String("error", err.Error()))
		return []Result{{
			Success: false,
			Errors: []coerce.Diagnostic{{
				Path: "", Message: err.Error(), Kind: coerce.KindExtractionFailure,
			}},
			Meta: Meta{Raw: raw, ChainOfThoughtFiltered: cotFiltered},
		}}
	}

	candidates := splitCandidates(extracted)
	results := make([]Result, len(candidates))
	for i, c := range candidates {
		results[i] = finishParse(raw, cotFiltered, c, node, o)
	}
	return results
}

// splitCandidates unpacks an Array produced by the extractor's multi-object
// scan into one extract.Result per element, each carrying the original
// Fixes/FromMarkdown metadata. Any other shape is already a single
// candidate.
func splitCandidates(res extract.Result) []extract.Result {
	if res.Value.Kind() != value.KindArray || len(res.Value.Array()) < 2 {
		return []extract.Result{res}
	}
	items := res.Value.Array()
	out := make([]extract.Result, len(items))
	for i, item := range items {
		out[i] = extract.Result{
			Value:        item,
			FromMarkdown: res.FromMarkdown,
			IsPartial:    res.IsPartial,
			Fixes:        res.Fixes,
		}
	}
	return out
}

// ParseBestCandidate returns the ParseAllCandidates result with the fewest
// errors, ties broken by extraction order (the same tie-break rule the
// coercer's own union selection uses).
func ParseBestCandidate(response string, node *schema.Node, opts ...Option) Result {
	candidates := ParseAllCandidates(response, node, opts...)
	best := candidates[0]
	for _, c := range candidates[1:] {
		if len(c.Errors) < len(best.Errors) {
			best = c
		}
	}
	return best
}
