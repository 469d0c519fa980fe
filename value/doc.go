// Package value is the dynamic value model produced by the JSON extractor
// and consumed by the type coercer: a tagged union of Null, Boolean, Number,
// String, Array and Object, with Object backed by an order-preserving map so
// that field order round-trips the way it does through encoding/json.
package value
