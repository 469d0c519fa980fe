package sap

import (
	"encoding/json"
	"fmt"

	"github.com/sapgo/sap/schema"
	"github.com/sapgo/sap/value"
)

// ParseAs is the generic typed convenience wrapper supplementing §6's
// dynamic-value-in, dynamic-value-out surface: it derives a schema from T
// via schema.FromType when the caller hasn't supplied one with WithSchema,
// runs Parse, and unmarshals the coerced value into a T. This mirrors
// StructuredClient[T]'s FromBaseClient/SendMessage finish without wrapping
// a model client — the text is already in hand.
//
// A non-nil error here is always a Go-level failure (extraction produced no
// value at all, or json.Unmarshal rejected the coerced value); parse-level
// diagnostics are still
// returned through the Result, exactly as Parse reports them.
func ParseAs[T any](response string, opts ...Option) (T, Result, error) {
	var zero T
	o := apply(opts)

	node := o.SchemaOverride
	if node == nil {
		node = schema.FromType[T]()
	}

	res := runParse(response, node, o)
	if res.Value == nil {
		return zero, res, fmt.Errorf("sap: ParseAs got no coerced value")
	}

	encoded := value.Encode(res.Value)
	var out T
	if err := json.Unmarshal([]byte(encoded), &out); err != nil {
		return zero, res, fmt.Errorf("sap: unmarshaling coerced value into %T: %w", zero, err)
	}
	return out, res, nil
}
