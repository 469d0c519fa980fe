package coerce

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/sapgo/sap/schema"
	"github.com/sapgo/sap/value"
)

func (c *coercer) coerceString(path string, dv *value.Value, node *schema.Node) *value.Value {
	if dv.Kind() == value.KindString {
		s := dv.AsString()
		c.validateStringConstraints(path, node, s)
		return value.Str(s)
	}
	if c.opts.Strict {
		c.typeMismatch(path, node, dv)
		return dv
	}

	var s string
	switch dv.Kind() {
	case value.KindNumber:
		s = formatNumber(dv.Number())
		c.note(path, "coerced number to string")
	case value.KindBool:
		s = strconv.FormatBool(dv.Bool())
		c.note(path, "coerced boolean to string")
	case value.KindArray, value.KindObject:
		s = value.Encode(dv)
		c.note(path, "json-encoded "+dv.Kind().String()+" to string")
	default:
		c.typeMismatch(path, node, dv)
		return dv
	}
	c.validateStringConstraints(path, node, s)
	return value.Str(s)
}

var formatValidators = map[string]func(string) bool{
	"email": regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`).MatchString,
	"uuid":  regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`).MatchString,
	"date-time": func(s string) bool {
		_, err := time.Parse(time.RFC3339, s)
		return err == nil
	},
	"date": func(s string) bool {
		_, err := time.Parse("2006-01-02", s)
		return err == nil
	},
}

func (c *coercer) validateStringConstraints(path string, node *schema.Node, s string) {
	if node.MinLength != nil && len(s) < *node.MinLength {
		c.constraintViolation(path, fmt.Sprintf("length %d is below minLength %d", len(s), *node.MinLength))
	}
	if node.MaxLength != nil && len(s) > *node.MaxLength {
		c.constraintViolation(path, fmt.Sprintf("length %d exceeds maxLength %d", len(s), *node.MaxLength))
	}
	if node.Pattern != "" {
		if re, err := regexp.Compile(node.Pattern); err == nil && !re.MatchString(s) {
			c.constraintViolation(path, fmt.Sprintf("value does not match pattern %q", node.Pattern))
		}
	}
	if node.Format != "" {
		if validate, ok := formatValidators[node.Format]; ok && !validate(s) {
			c.constraintViolation(path, fmt.Sprintf("value is not a valid %q", node.Format))
		}
	}
}

func (c *coercer) coerceNumber(path string, dv *value.Value, node *schema.Node, integer bool) *value.Value {
	var f float64
	switch dv.Kind() {
	case value.KindNumber:
		f = dv.Number()
	case value.KindString:
		if c.opts.Strict {
			c.typeMismatch(path, node, dv)
			return dv
		}
		parsed, err := strconv.ParseFloat(strings.TrimSpace(dv.AsString()), 64)
		if err != nil {
			c.typeMismatch(path, node, dv)
			return dv
		}
		f = parsed
		c.note(path, "parsed string to number")
	case value.KindBool:
		if c.opts.Strict {
			c.typeMismatch(path, node, dv)
			return dv
		}
		if dv.Bool() {
			f = 1
		}
		c.note(path, "coerced boolean to number")
	default:
		c.typeMismatch(path, node, dv)
		return dv
	}

	if integer {
		truncated := math.Trunc(f)
		if truncated != f {
			if c.opts.Strict {
				c.typeMismatch(path, node, dv)
				return dv
			}
			c.note(path, "truncated fractional part toward zero")
		}
		f = truncated
	}

	c.validateNumericConstraints(path, node, f)
	return value.Num(f)
}

func (c *coercer) validateNumericConstraints(path string, node *schema.Node, f float64) {
	if node.Minimum != nil && f < *node.Minimum {
		c.constraintViolation(path, fmt.Sprintf("%v is below minimum %v", f, *node.Minimum))
	}
	if node.Maximum != nil && f > *node.Maximum {
		c.constraintViolation(path, fmt.Sprintf("%v exceeds maximum %v", f, *node.Maximum))
	}
	if node.ExclusiveMinimum != nil && f <= *node.ExclusiveMinimum {
		c.constraintViolation(path, fmt.Sprintf("%v is not greater than exclusiveMinimum %v", f, *node.ExclusiveMinimum))
	}
	if node.ExclusiveMaximum != nil && f >= *node.ExclusiveMaximum {
		c.constraintViolation(path, fmt.Sprintf("%v is not less than exclusiveMaximum %v", f, *node.ExclusiveMaximum))
	}
	if node.MultipleOf != nil && *node.MultipleOf != 0 {
		q := f / *node.MultipleOf
		if math.Abs(q-math.Round(q)) > 1e-9 {
			c.constraintViolation(path, fmt.Sprintf("%v is not a multiple of %v", f, *node.MultipleOf))
		}
	}
}

func (c *coercer) coerceBoolean(path string, dv *value.Value, node *schema.Node) *value.Value {
	switch dv.Kind() {
	case value.KindBool:
		return dv
	case value.KindString:
		if c.opts.Strict {
			c.typeMismatch(path, node, dv)
			return dv
		}
		switch strings.ToLower(strings.TrimSpace(dv.AsString())) {
		case "true", "1", "yes":
			c.note(path, "coerced string to boolean")
			return value.Bool(true)
		case "false", "0", "no", "":
			c.note(path, "coerced string to boolean")
			return value.Bool(false)
		default:
			c.typeMismatch(path, node, dv)
			return dv
		}
	case value.KindNumber:
		if c.opts.Strict {
			c.typeMismatch(path, node, dv)
			return dv
		}
		c.note(path, "coerced number to boolean")
		return value.Bool(dv.Number() != 0)
	default:
		c.typeMismatch(path, node, dv)
		return dv
	}
}

func (c *coercer) coerceLiteral(path string, dv *value.Value, node *schema.Node) *value.Value {
	lit := value.FromAny(node.LiteralValue)
	if equalValues(dv, lit) {
		return lit
	}
	if !c.opts.Strict && stringifyValue(dv) == stringifyValue(lit) {
		c.note(path, "matched literal by stringified equality")
		return lit
	}
	c.constraintViolation(path, fmt.Sprintf("value does not match literal %v", node.LiteralValue))
	return dv
}

func (c *coercer) coerceEnum(path string, dv *value.Value, node *schema.Node) *value.Value {
	for _, ev := range node.EnumValues {
		evv := value.FromAny(ev)
		if equalValues(dv, evv) {
			return evv
		}
	}
	if !c.opts.Strict && dv.Kind() == value.KindString {
		for _, ev := range node.EnumValues {
			if s, ok := ev.(string); ok && strings.EqualFold(s, dv.AsString()) {
				c.note(path, "matched enum case-insensitively")
				return value.Str(s)
			}
		}
	}
	c.constraintViolation(path, "value is not a member of the enum")
	return dv
}

// formatNumber renders f the way JSON would: integral floats print without
// a trailing ".0".
func formatNumber(f float64) string {
	if b, err := json.Marshal(f); err == nil {
		return string(b)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// equalValues performs a structural deep comparison between two dynamic
// values, used by Literal/Enum matching and the Union admissibility filter.
func equalValues(a, b *value.Value) bool {
	if a.IsNull() || b.IsNull() {
		return a.IsNull() && b.IsNull()
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch a.Kind() {
	case value.KindBool:
		return a.Bool() == b.Bool()
	case value.KindNumber:
		return a.Number() == b.Number()
	case value.KindString:
		return a.AsString() == b.AsString()
	case value.KindArray:
		aa, ba := a.Array(), b.Array()
		if len(aa) != len(ba) {
			return false
		}
		for i := range aa {
			if !equalValues(aa[i], ba[i]) {
				return false
			}
		}
		return true
	case value.KindObject:
		ao, bo := a.Object(), b.Object()
		if ao.Len() != bo.Len() {
			return false
		}
		equal := true
		ao.Range(func(key string, v *value.Value) bool {
			bv, ok := bo.Get(key)
			if !ok || !equalValues(v, bv) {
				equal = false
				return false
			}
			return true
		})
		return equal
	default:
		return true
	}
}

// stringifyValue renders a scalar the way coerceString would, used for the
// literal/enum "stringified equality" fallback match.
func stringifyValue(v *value.Value) string {
	switch v.Kind() {
	case value.KindString:
		return v.AsString()
	case value.KindNumber:
		return formatNumber(v.Number())
	case value.KindBool:
		return strconv.FormatBool(v.Bool())
	case value.KindNull:
		return "null"
	default:
		return value.Encode(v)
	}
}
