package coerce

import (
	"testing"

	"github.com/sapgo/sap/schema"
	"github.com/sapgo/sap/value"
)

func TestCoerceStringFromNumber(t *testing.T) {
	out, rep, err := Coerce(value.Num(42), schema.StringNode(), DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.AsString() != "42" {
		t.Fatalf("expected \"42\", got %q", out.AsString())
	}
	if len(rep.Diagnostics) != 0 {
		t.Errorf("expected no diagnostics, got %v", rep.Diagnostics)
	}
}

func TestCoerceStringStrictRejectsNumber(t *testing.T) {
	opts := DefaultOptions()
	opts.Strict = true
	_, rep, _ := Coerce(value.Num(42), schema.StringNode(), opts)
	if len(rep.Diagnostics) != 1 || rep.Diagnostics[0].Kind != KindTypeMismatch {
		t.Fatalf("expected one type_mismatch diagnostic, got %v", rep.Diagnostics)
	}
}

func TestCoerceIntegerTruncatesFraction(t *testing.T) {
	out, _, _ := Coerce(value.Num(3.7), schema.IntegerNode(), DefaultOptions())
	if out.Number() != 3 {
		t.Fatalf("expected 3, got %v", out.Number())
	}
}

func TestCoerceNumberFromNumericString(t *testing.T) {
	out, rep, _ := Coerce(value.Str(" 12.5 "), schema.NumberNode(), DefaultOptions())
	if out.Number() != 12.5 {
		t.Fatalf("expected 12.5, got %v", out.Number())
	}
	if len(rep.Notes) != 0 {
		t.Logf("notes: %v", rep.Notes)
	}
}

func TestCoerceBooleanFromStringYes(t *testing.T) {
	out, _, _ := Coerce(value.Str("yes"), schema.BooleanNode(), DefaultOptions())
	if !out.Bool() {
		t.Fatal("expected true")
	}
}

func TestCoerceMinLengthViolation(t *testing.T) {
	node := schema.StringNode(schema.WithMinLength(5))
	_, rep, _ := Coerce(value.Str("hi"), node, DefaultOptions())
	if len(rep.Diagnostics) != 1 || rep.Diagnostics[0].Kind != KindConstraintViolation {
		t.Fatalf("expected one constraint_violation, got %v", rep.Diagnostics)
	}
}

func TestCoerceObjectMissingRequiredField(t *testing.T) {
	node := schema.ObjectNode([]schema.Field{
		{Name: "name", Schema: schema.StringNode()},
	}, []string{"name"})
	in := value.Obj(value.NewObject())
	_, rep, _ := Coerce(in, node, DefaultOptions())
	if len(rep.Diagnostics) != 1 || rep.Diagnostics[0].Kind != KindMissingRequired {
		t.Fatalf("expected one missing_required diagnostic, got %v", rep.Diagnostics)
	}
}

func TestCoerceObjectMissingRequiredAllowPartials(t *testing.T) {
	node := schema.ObjectNode([]schema.Field{
		{Name: "name", Schema: schema.StringNode()},
	}, []string{"name"})
	in := value.Obj(value.NewObject())
	opts := DefaultOptions()
	opts.AllowPartials = true
	_, rep, _ := Coerce(in, node, opts)
	if len(rep.Diagnostics) != 0 {
		t.Fatalf("expected no diagnostics under allow_partials, got %v", rep.Diagnostics)
	}
	if !rep.IsPartial {
		t.Fatal("expected IsPartial=true")
	}
}

func TestCoerceObjectAppliesDefault(t *testing.T) {
	defaulted := schema.StringNode(schema.WithDefault("anon"))
	node := schema.ObjectNode([]schema.Field{
		{Name: "name", Schema: defaulted},
	}, []string{"name"})
	in := value.Obj(value.NewObject())
	opts := DefaultOptions()
	opts.UseDefaults = true
	out, rep, _ := Coerce(in, node, opts)
	if len(rep.Diagnostics) != 0 {
		t.Fatalf("expected no diagnostics, got %v", rep.Diagnostics)
	}
	name, ok := out.Object().Get("name")
	if !ok || name.AsString() != "anon" {
		t.Fatalf("expected defaulted name=anon, got %v", out)
	}
}

func TestCoerceObjectDropsForbiddenAdditionalProperty(t *testing.T) {
	node := schema.ObjectNode(nil, nil, schema.WithForbidAdditionalProperties())
	obj := value.NewObject()
	obj.Set("extra", value.Str("x"))
	out, _, _ := Coerce(value.Obj(obj), node, DefaultOptions())
	if out.Object().Has("extra") {
		t.Fatal("expected extra to be dropped")
	}
}

func TestCoerceObjectFromArrayUsesIndexKeys(t *testing.T) {
	node := schema.ObjectNode([]schema.Field{
		{Name: "0", Schema: schema.StringNode()},
	}, nil)
	out, _, _ := Coerce(value.Arr(value.Str("a"), value.Str("b")), node, DefaultOptions())
	v, ok := out.Object().Get("0")
	if !ok || v.AsString() != "a" {
		t.Fatalf("expected index 0 = a, got %v", out)
	}
}

func TestCoerceArrayWrapsScalar(t *testing.T) {
	node := schema.ArrayNode(schema.StringNode())
	out, _, _ := Coerce(value.Str("solo"), node, DefaultOptions())
	if len(out.Array()) != 1 || out.Array()[0].AsString() != "solo" {
		t.Fatalf("expected [\"solo\"], got %v", out)
	}
}

func TestCoerceTupleFillsMissingFromDefault(t *testing.T) {
	node := schema.TupleNode([]*schema.Node{
		schema.StringNode(),
		schema.NumberNode(schema.WithDefault(0.0)),
	})
	opts := DefaultOptions()
	opts.UseDefaults = true
	out, rep, _ := Coerce(value.Arr(value.Str("x")), node, opts)
	if len(rep.Diagnostics) != 0 {
		t.Fatalf("expected no diagnostics, got %v", rep.Diagnostics)
	}
	if out.Array()[1].Number() != 0 {
		t.Fatalf("expected defaulted 0, got %v", out.Array()[1])
	}
}

func TestCoerceRecordAppliesValueSchemaToEveryKey(t *testing.T) {
	node := schema.RecordNode(schema.NumberNode())
	obj := value.NewObject()
	obj.Set("a", value.Str("1"))
	obj.Set("b", value.Str("2"))
	out, rep, _ := Coerce(value.Obj(obj), node, DefaultOptions())
	if len(rep.Diagnostics) != 0 {
		t.Fatalf("expected no diagnostics, got %v", rep.Diagnostics)
	}
	a, _ := out.Object().Get("a")
	if a.Number() != 1 {
		t.Fatalf("expected a=1, got %v", a)
	}
}

func TestCoerceIntersectMergesMemberFields(t *testing.T) {
	a := schema.ObjectNode([]schema.Field{{Name: "id", Schema: schema.StringNode()}}, []string{"id"})
	b := schema.ObjectNode([]schema.Field{{Name: "age", Schema: schema.IntegerNode()}}, nil)
	node := schema.IntersectNode([]*schema.Node{a, b})
	obj := value.NewObject()
	obj.Set("id", value.Str("x1"))
	obj.Set("age", value.Num(30))
	out, rep, _ := Coerce(value.Obj(obj), node, DefaultOptions())
	if len(rep.Diagnostics) != 0 {
		t.Fatalf("expected no diagnostics, got %v", rep.Diagnostics)
	}
	id, _ := out.Object().Get("id")
	age, _ := out.Object().Get("age")
	if id.AsString() != "x1" || age.Number() != 30 {
		t.Fatalf("unexpected merge result: %v", out)
	}
}

func TestCoerceUnionPicksZeroErrorAlternative(t *testing.T) {
	node := schema.UnionNode([]*schema.Node{schema.NumberNode(), schema.StringNode()})
	out, rep, _ := Coerce(value.Str("hello"), node, DefaultOptions())
	if out.Kind() != value.KindString || out.AsString() != "hello" {
		t.Fatalf("expected string alternative picked, got %v", out)
	}
	if len(rep.Diagnostics) != 0 {
		t.Fatalf("expected no diagnostics, got %v", rep.Diagnostics)
	}
}

func TestCoerceUnionZeroErrorAlternativeBeatsEarlierOne(t *testing.T) {
	strA := schema.ObjectNode([]schema.Field{
		{Name: "a", Schema: schema.StringNode()},
		{Name: "b", Schema: schema.StringNode()},
	}, []string{"a", "b"})
	strB := schema.ObjectNode([]schema.Field{
		{Name: "a", Schema: schema.StringNode()},
	}, []string{"a"})
	node := schema.UnionNode([]*schema.Node{strA, strB})
	obj := value.NewObject()
	obj.Set("a", value.Str("x"))
	out, rep, _ := Coerce(value.Obj(obj), node, DefaultOptions())
	if len(rep.Diagnostics) != 0 {
		t.Fatalf("expected the fully-satisfied alternative to win with zero diagnostics, got %v", rep.Diagnostics)
	}
	if out.Object().Has("b") {
		t.Fatalf("expected alternative without required b to be selected, got %v", out)
	}
}

func TestCoerceUnionNoAdmissibleForcesFirstAlternative(t *testing.T) {
	node := schema.UnionNode([]*schema.Node{schema.NumberNode(), schema.BooleanNode()})
	_, rep, _ := Coerce(value.Obj(value.NewObject()), node, DefaultOptions())
	if len(rep.Diagnostics) == 0 {
		t.Fatal("expected a forced-alternative diagnostic")
	}
}

func TestCoerceUnwrapsSchemaShapedValue(t *testing.T) {
	obj := value.NewObject()
	obj.Set("type", value.Str("string"))
	obj.Set("value", value.Str("hi"))
	out, rep, _ := Coerce(value.Obj(obj), schema.StringNode(), DefaultOptions())
	if out.AsString() != "hi" {
		t.Fatalf("expected unwrapped value \"hi\", got %v", out)
	}
	if len(rep.Diagnostics) != 0 {
		t.Fatalf("expected no diagnostics, got %v", rep.Diagnostics)
	}
}

func TestCoerceDoesNotUnwrapDeclaredTypeValueObject(t *testing.T) {
	node := schema.ObjectNode([]schema.Field{
		{Name: "type", Schema: schema.StringNode()},
		{Name: "value", Schema: schema.NumberNode()},
	}, []string{"type", "value"})
	obj := value.NewObject()
	obj.Set("type", value.Str("currency"))
	obj.Set("value", value.Num(10))
	out, rep, _ := Coerce(value.Obj(obj), node, DefaultOptions())
	if len(rep.Diagnostics) != 0 {
		t.Fatalf("expected no diagnostics, got %v", rep.Diagnostics)
	}
	typ, _ := out.Object().Get("type")
	if typ.AsString() != "currency" {
		t.Fatalf("expected the object to be coerced directly, got %v", out)
	}
}

func TestCoerceNullAtNonNullablePositionErrors(t *testing.T) {
	_, rep, _ := Coerce(value.Null(), schema.StringNode(), DefaultOptions())
	if len(rep.Diagnostics) != 1 || rep.Diagnostics[0].Kind != KindTypeMismatch {
		t.Fatalf("expected one type_mismatch diagnostic, got %v", rep.Diagnostics)
	}
}

func TestCoerceNullAtOptionalPositionIsSilent(t *testing.T) {
	node := schema.OptionalNode(schema.StringNode())
	out, rep, _ := Coerce(value.Null(), node, DefaultOptions())
	if !out.IsNull() {
		t.Fatalf("expected null, got %v", out)
	}
	if len(rep.Diagnostics) != 0 {
		t.Fatalf("expected no diagnostics, got %v", rep.Diagnostics)
	}
}

func TestCoerceAbsentInputMarksPartial(t *testing.T) {
	opts := DefaultOptions()
	opts.AllowPartials = true
	out, rep, _ := Coerce(value.Null(), schema.IntegerNode(), opts)
	if !out.IsNull() {
		t.Fatalf("expected null, got %v", out)
	}
	if !rep.IsPartial {
		t.Fatal("expected IsPartial=true for absent input under allow_partials")
	}
	if len(rep.Diagnostics) != 0 {
		t.Fatalf("expected no diagnostics, got %v", rep.Diagnostics)
	}
}

func TestCoerceDepthExceededReturnsError(t *testing.T) {
	node := schema.ArrayNode(nil)
	node.Elem = node // self-referential, forces unbounded recursion
	opts := DefaultOptions()
	opts.MaxDepth = 2
	_, _, err := Coerce(value.Arr(value.Arr(value.Arr(value.Str("x")))), node, opts)
	if err == nil {
		t.Fatal("expected a depth-exceeded error")
	}
}
