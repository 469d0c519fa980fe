// Package coerce implements the type coercer (§4.3): it walks a dynamic
// [value.Value] against a [schema.Node], producing a value conforming to
// the schema's static shape, an accumulated list of [Diagnostic]s, and
// (when enabled) a trace of the lossy conversions it performed.
//
// The coercer never stops on first error — it walks the whole tree and
// returns the best-effort value alongside every diagnostic it collected,
// the same accumulate-don't-abort shape internal/utils' recursiveUnwrap
// uses when normalizing schema-shaped values throughout a tree. Dispatch
// is by [schema.Tag] rather than reflect.Kind, which is the one structural
// change from that file's reflect-based dispatch this package generalizes
// from.
package coerce
