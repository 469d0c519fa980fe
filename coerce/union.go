package coerce

import (
	"fmt"

	"github.com/sapgo/sap/schema"
	"github.com/sapgo/sap/value"
)

// coerceUnion implements the union-selection algorithm (§4.3): a cheap
// admissibility pre-filter narrows the alternatives worth trying at all,
// each admissible alternative is coerced into a private Report so its
// Diagnostics never leak into a sibling's attempt, the first zero-error
// attempt short-circuits the rest, and otherwise the alternative with the
// fewest Diagnostics wins, ties broken by declaration order. If nothing
// was admissible, a final best-effort pass forces the first alternative
// so the caller always gets some value back.
func (c *coercer) coerceUnion(path string, dv *value.Value, node *schema.Node, depth int) *value.Value {
	var admissible []int
	for i, alt := range node.Alternatives {
		if canHandle(alt, dv) {
			admissible = append(admissible, i)
		}
	}

	type attempt struct {
		idx   int
		value *value.Value
		rep   *Report
	}
	var best *attempt

	for _, i := range admissible {
		sub := newFork(c.opts)
		v := sub.coerce(path, dv, node.Alternatives[i], depth+1)
		if sub.depthExceeded {
			c.depthExceeded = true
			continue
		}
		if len(sub.report.Diagnostics) == 0 {
			c.mergeSub(sub.report)
			return v
		}
		if best == nil || len(sub.report.Diagnostics) < len(best.rep.Diagnostics) {
			best = &attempt{idx: i, value: v, rep: sub.report}
		}
	}

	if best != nil {
		c.mergeSub(best.rep)
		c.note(path, fmt.Sprintf("selected union alternative %d with %d unresolved diagnostic(s)", best.idx, len(best.rep.Diagnostics)))
		return best.value
	}

	if len(node.Alternatives) == 0 {
		c.typeMismatch(path, node, dv)
		return dv
	}

	sub := newFork(c.opts)
	v := sub.coerce(path, dv, node.Alternatives[0], depth+1)
	c.mergeSub(sub.report)
	if sub.depthExceeded {
		c.depthExceeded = true
	}
	c.note(path, "no union alternative was admissible; forced alternative 0")
	return v
}

// canHandle is the cheap admissibility pre-filter: it checks the dynamic
// value's shape against an alternative's tag rather than running a full
// coercion attempt. It intentionally does not consider the lossy scalar
// conversions coerceNumber/coerceBoolean/coerceString perform (a numeric
// string is not admissible for a Number alternative here) — those only
// happen once an alternative is actually tried, per §4.3's "String↔string,
// Object↔object, Array↔array, Literal↔equal value, Enum↔member,
// Union↔recursive" admissibility rule.
func canHandle(alt *schema.Node, dv *value.Value) bool {
	if alt.Tag == schema.Any || alt.Tag == schema.Ref {
		return true
	}
	if dv.IsNull() {
		return alt.AllowsNull()
	}
	switch alt.Tag {
	case schema.Optional:
		return canHandle(alt.Inner, dv)
	case schema.String:
		return dv.Kind() == value.KindString
	case schema.Integer, schema.Number:
		return dv.Kind() == value.KindNumber
	case schema.Boolean:
		return dv.Kind() == value.KindBool
	case schema.Null:
		return false
	case schema.Array, schema.Tuple:
		return dv.Kind() == value.KindArray
	case schema.Object, schema.Record, schema.Intersect:
		return dv.Kind() == value.KindObject
	case schema.Literal:
		return equalValues(dv, value.FromAny(alt.LiteralValue))
	case schema.Enum:
		for _, ev := range alt.EnumValues {
			if equalValues(dv, value.FromAny(ev)) {
				return true
			}
		}
		return false
	case schema.Union:
		for _, sub := range alt.Alternatives {
			if canHandle(sub, dv) {
				return true
			}
		}
		return false
	default:
		return true
	}
}
