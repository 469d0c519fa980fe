// Package extract implements the JSON extractor (§4.2): it recovers a
// dynamic value from free-form text via a layered strategy ladder —
// direct parse, fenced-block extraction, multi-object scan, deterministic
// repair, partial bracket completion, and finally a raw-string fallback.
//
// It is grounded on this codebase's own prior art for the same problem:
// core/parse and internal/utils's ParseStringAs, which already fell back
// from strict encoding/json decoding to github.com/kaptinlin/jsonrepair on
// failure. Extract generalizes that two-step fallback into the full ladder
// the spec requires, and returns a [value.Value] rather than unmarshaling
// straight into a caller type, so it can be tried independently of any
// particular Go type.
package extract
