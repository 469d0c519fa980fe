package schema

// Tag identifies which of the closed set of schema node kinds a [Node]
// carries. It plays the role that a sealed sum type would play in a language
// with them: every switch over Tag in the coercer is expected to be
// exhaustive.
type Tag int

const (
	String Tag = iota
	Integer
	Number
	Boolean
	Null
	Any
	Literal
	Enum
	Array
	Tuple
	Object
	Record
	Union
	Intersect
	Optional
	Ref
)

func (t Tag) String() string {
	switch t {
	case String:
		return "string"
	case Integer:
		return "integer"
	case Number:
		return "number"
	case Boolean:
		return "boolean"
	case Null:
		return "null"
	case Any:
		return "any"
	case Literal:
		return "literal"
	case Enum:
		return "enum"
	case Array:
		return "array"
	case Tuple:
		return "tuple"
	case Object:
		return "object"
	case Record:
		return "record"
	case Union:
		return "union"
	case Intersect:
		return "intersect"
	case Optional:
		return "optional"
	case Ref:
		return "ref"
	default:
		return "unknown"
	}
}

// Field is one declared property of an Object schema. Object nodes keep
// fields in a slice rather than a bare map so that declared order survives
// for rendering and for error-path construction.
type Field struct {
	Name   string
	Schema *Node
}

// Node is a single node of a schema tree. Only the fields relevant to Tag
// are meaningful; the rest are left at their zero value. Every Node may also
// carry Description and Default regardless of Tag (§3 of the spec).
type Node struct {
	Tag Tag

	Description string
	Default     any
	HasDefault  bool

	// String constraints.
	MinLength *int
	MaxLength *int
	Pattern   string
	Format    string

	// Integer / Number constraints.
	Minimum          *float64
	Maximum          *float64
	ExclusiveMinimum *float64
	ExclusiveMaximum *float64
	MultipleOf       *float64

	// Literal.
	LiteralValue any

	// Enum.
	EnumValues []any

	// Array.
	Elem *Node

	// Tuple.
	TupleItems         []*Node
	AdditionalItems    *Node // non-nil: coerce extras against this schema
	ForbidAdditional   bool  // true: additional_items (Tuple) or additional_properties (Object) explicitly false

	// Object.
	Fields               []Field
	Required             []string
	AdditionalProperties *Node // non-nil: coerce extras against this schema

	// Record.
	RecordKey   *Node // always a String node
	RecordValue *Node

	// Union / Intersect.
	Alternatives []*Node
	Members      []*Node

	// Optional.
	Inner *Node

	// Ref.
	RefPath string
}

// RequiredSet returns the node's Required names as a lookup set. Returns nil
// for non-Object nodes.
func (n *Node) RequiredSet() map[string]struct{} {
	if n == nil || len(n.Required) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(n.Required))
	for _, name := range n.Required {
		set[name] = struct{}{}
	}
	return set
}

// FieldSchema looks up a declared field's schema by name, returning nil if
// the Object node has no such field.
func (n *Node) FieldSchema(name string) *Node {
	if n == nil {
		return nil
	}
	for _, f := range n.Fields {
		if f.Name == name {
			return f.Schema
		}
	}
	return nil
}

// AllowsNull reports whether a missing or explicit-null value is acceptable
// at this position without invoking allow_partials: Optional, Null, Any and
// any Union carrying a Null, Optional or Any alternative.
func (n *Node) AllowsNull() bool {
	if n == nil {
		return true
	}
	switch n.Tag {
	case Null, Optional, Any:
		return true
	case Union:
		for _, alt := range n.Alternatives {
			if alt.AllowsNull() {
				return true
			}
		}
	}
	return false
}
