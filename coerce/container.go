package coerce

import (
	"strconv"

	"github.com/sapgo/sap/schema"
	"github.com/sapgo/sap/value"
)

func (c *coercer) coerceArray(path string, dv *value.Value, node *schema.Node, depth int) *value.Value {
	var items []*value.Value
	switch dv.Kind() {
	case value.KindArray:
		items = dv.Array()
	default:
		if c.opts.Strict {
			c.typeMismatch(path, node, dv)
			return dv
		}
		items = []*value.Value{dv}
		c.note(path, "wrapped scalar in single-element array")
	}

	if c.opts.AllowPartials && len(items) == 0 {
		c.report.IsPartial = true
	}

	out := make([]*value.Value, len(items))
	for i, item := range items {
		out[i] = c.coerce(joinIndex(path, i), item, node.Elem, depth+1)
	}
	return value.Arr(out...)
}

func (c *coercer) coerceTuple(path string, dv *value.Value, node *schema.Node, depth int) *value.Value {
	var items []*value.Value
	switch dv.Kind() {
	case value.KindArray:
		items = dv.Array()
	default:
		if c.opts.Strict {
			c.typeMismatch(path, node, dv)
			return dv
		}
		items = []*value.Value{dv}
		c.note(path, "wrapped scalar in single-element tuple")
	}

	out := make([]*value.Value, 0, len(node.TupleItems))
	for i, itemSchema := range node.TupleItems {
		childPath := joinIndex(path, i)
		switch {
		case i < len(items):
			out = append(out, c.coerce(childPath, items[i], itemSchema, depth+1))
		case c.opts.UseDefaults && itemSchema.HasDefault:
			out = append(out, value.FromAny(itemSchema.Default))
		case c.opts.AllowPartials:
			c.report.IsPartial = true
			out = append(out, value.Null())
		default:
			c.missingRequired(childPath)
			out = append(out, value.Null())
		}
	}

	if len(items) > len(node.TupleItems) {
		extras := items[len(node.TupleItems):]
		switch {
		case node.ForbidAdditional:
			// dropped
		case node.AdditionalItems != nil:
			for j, extra := range extras {
				idx := len(node.TupleItems) + j
				out = append(out, c.coerce(joinIndex(path, idx), extra, node.AdditionalItems, depth+1))
			}
		default:
			out = append(out, extras...)
		}
	}

	return value.Arr(out...)
}

func (c *coercer) coerceObject(path string, dv *value.Value, node *schema.Node, depth int) *value.Value {
	var obj *value.Object
	switch dv.Kind() {
	case value.KindObject:
		obj = dv.Object()
	case value.KindArray:
		if c.opts.Strict {
			c.typeMismatch(path, node, dv)
			return dv
		}
		wrapped := value.NewObject()
		for i, item := range dv.Array() {
			wrapped.Set(strconv.Itoa(i), item)
		}
		obj = wrapped
		c.note(path, "wrapped array as object using index keys")
	case value.KindString:
		if c.opts.Strict {
			c.typeMismatch(path, node, dv)
			return dv
		}
		nested, ok := tryNestedExtract(dv.AsString())
		if !ok {
			c.typeMismatch(path, node, dv)
			return dv
		}
		obj = nested.Object()
		c.note(path, "extracted nested object from string")
	default:
		c.typeMismatch(path, node, dv)
		return dv
	}

	required := node.RequiredSet()
	out := value.NewObject()
	declared := make(map[string]struct{}, len(node.Fields))

	for _, field := range node.Fields {
		declared[field.Name] = struct{}{}
		childPath := joinField(path, field.Name)

		if fv, ok := obj.Get(field.Name); ok {
			out.Set(field.Name, c.coerce(childPath, fv, field.Schema, depth+1))
			continue
		}

		_, isRequired := required[field.Name]
		switch {
		case c.opts.UseDefaults && field.Schema.HasDefault:
			out.Set(field.Name, value.FromAny(field.Schema.Default))
		case !isRequired:
			// optional and absent: leave unset
		case c.opts.AllowPartials:
			c.report.IsPartial = true
		default:
			c.missingRequired(childPath)
		}
	}

	obj.Range(func(key string, v *value.Value) bool {
		if _, ok := declared[key]; ok {
			return true
		}
		switch {
		case node.ForbidAdditional:
			// dropped
		case node.AdditionalProperties != nil:
			out.Set(key, c.coerce(joinField(path, key), v, node.AdditionalProperties, depth+1))
		default:
			out.Set(key, v)
		}
		return true
	})

	return value.Obj(out)
}

func (c *coercer) coerceRecord(path string, dv *value.Value, node *schema.Node, depth int) *value.Value {
	if dv.Kind() != value.KindObject {
		c.typeMismatch(path, node, dv)
		return dv
	}
	out := value.NewObject()
	dv.Object().Range(func(key string, v *value.Value) bool {
		out.Set(key, c.coerce(joinField(path, key), v, node.RecordValue, depth+1))
		return true
	})
	return value.Obj(out)
}

// coerceIntersect flattens every member's declared fields into a single
// synthetic Object schema and delegates to coerceObject. A field declared
// by more than one member takes the last member's schema, matching the
// shallow-merge rule in §4.3: Intersect is field-wise union of Object
// shapes, not a constraint-conjunction check against every member.
func (c *coercer) coerceIntersect(path string, dv *value.Value, node *schema.Node, depth int) *value.Value {
	merged := &schema.Node{Tag: schema.Object}
	index := map[string]int{}
	for _, member := range node.Members {
		for _, f := range member.Fields {
			if i, ok := index[f.Name]; ok {
				merged.Fields[i] = f
			} else {
				index[f.Name] = len(merged.Fields)
				merged.Fields = append(merged.Fields, f)
			}
		}
		merged.Required = append(merged.Required, member.Required...)
	}
	return c.coerceObject(path, dv, merged, depth)
}
