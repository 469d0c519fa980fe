package schema

// Option configures a Node after its basic shape has been constructed. The
// pattern mirrors the functional options used throughout the rest of this
// codebase's ancestry (WithMemory, WithSystemPrompt, ...): each Option is a
// function that mutates the Node in place.
type Option func(*Node)

func apply(n *Node, opts []Option) *Node {
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// WithDescription attaches a human-readable description to any node.
func WithDescription(d string) Option {
	return func(n *Node) { n.Description = d }
}

// WithDefault attaches a default value to any node, used by the coercer when
// a field is absent and use_defaults is enabled.
func WithDefault(v any) Option {
	return func(n *Node) {
		n.Default = v
		n.HasDefault = true
	}
}

// WithMinLength constrains a String node's minimum length.
func WithMinLength(v int) Option { return func(n *Node) { n.MinLength = &v } }

// WithMaxLength constrains a String node's maximum length.
func WithMaxLength(v int) Option { return func(n *Node) { n.MaxLength = &v } }

// WithPattern constrains a String node to match a regular expression.
func WithPattern(p string) Option { return func(n *Node) { n.Pattern = p } }

// WithFormat annotates a String node with a named format (e.g. "date-time",
// "email"); the coercer treats unknown formats as unconstrained.
func WithFormat(f string) Option { return func(n *Node) { n.Format = f } }

// WithMinimum constrains a numeric node's inclusive minimum.
func WithMinimum(v float64) Option { return func(n *Node) { n.Minimum = &v } }

// WithMaximum constrains a numeric node's inclusive maximum.
func WithMaximum(v float64) Option { return func(n *Node) { n.Maximum = &v } }

// WithExclusiveMinimum constrains a numeric node's exclusive minimum.
func WithExclusiveMinimum(v float64) Option {
	return func(n *Node) { n.ExclusiveMinimum = &v }
}

// WithExclusiveMaximum constrains a numeric node's exclusive maximum.
func WithExclusiveMaximum(v float64) Option {
	return func(n *Node) { n.ExclusiveMaximum = &v }
}

// WithMultipleOf constrains a numeric node to multiples of v.
func WithMultipleOf(v float64) Option { return func(n *Node) { n.MultipleOf = &v } }

// StringNode builds a String schema node.
func StringNode(opts ...Option) *Node { return apply(&Node{Tag: String}, opts) }

// IntegerNode builds an Integer schema node.
func IntegerNode(opts ...Option) *Node { return apply(&Node{Tag: Integer}, opts) }

// NumberNode builds a Number schema node.
func NumberNode(opts ...Option) *Node { return apply(&Node{Tag: Number}, opts) }

// BooleanNode builds a Boolean schema node.
func BooleanNode(opts ...Option) *Node { return apply(&Node{Tag: Boolean}, opts) }

// NullNode builds a Null schema node.
func NullNode(opts ...Option) *Node { return apply(&Node{Tag: Null}, opts) }

// AnyNode builds an Any schema node, which accepts every dynamic value
// unchanged.
func AnyNode(opts ...Option) *Node { return apply(&Node{Tag: Any}, opts) }

// LiteralNode builds a Literal schema node pinned to a single scalar value.
func LiteralNode(value any, opts ...Option) *Node {
	return apply(&Node{Tag: Literal, LiteralValue: value}, opts)
}

// EnumNode builds an Enum schema node over an ordered set of scalar
// constants.
func EnumNode(values []any, opts ...Option) *Node {
	return apply(&Node{Tag: Enum, EnumValues: values}, opts)
}

// ArrayNode builds an Array schema node with the given element schema.
func ArrayNode(elem *Node, opts ...Option) *Node {
	return apply(&Node{Tag: Array, Elem: elem}, opts)
}

// WithAdditionalItems sets the schema used to coerce tuple elements beyond
// the declared ones. Mutually exclusive with WithForbidAdditionalItems.
func WithAdditionalItems(s *Node) Option {
	return func(n *Node) { n.AdditionalItems = s }
}

// WithForbidAdditionalItems marks a Tuple's additional_items as explicitly
// false: elements beyond the declared ones are dropped rather than kept.
func WithForbidAdditionalItems() Option {
	return func(n *Node) { n.ForbidAdditional = true }
}

// TupleNode builds a Tuple schema node with an ordered sequence of element
// schemas.
func TupleNode(items []*Node, opts ...Option) *Node {
	return apply(&Node{Tag: Tuple, TupleItems: items}, opts)
}

// WithAdditionalProperties sets the schema used to coerce object fields not
// declared in Fields. Mutually exclusive with WithForbidAdditionalProperties.
func WithAdditionalProperties(s *Node) Option {
	return func(n *Node) { n.AdditionalProperties = s }
}

// WithForbidAdditionalProperties marks an Object's additional_properties as
// explicitly false: undeclared fields are dropped rather than kept.
func WithForbidAdditionalProperties() Option {
	return func(n *Node) { n.ForbidAdditional = true }
}

// ObjectNode builds an Object schema node from an ordered list of fields and
// a set of required field names.
func ObjectNode(fields []Field, required []string, opts ...Option) *Node {
	return apply(&Node{Tag: Object, Fields: fields, Required: required}, opts)
}

// RecordNode builds a Record schema node: a string-keyed map whose values
// all conform to valueSchema.
func RecordNode(valueSchema *Node, opts ...Option) *Node {
	return apply(&Node{Tag: Record, RecordKey: StringNode(), RecordValue: valueSchema}, opts)
}

// UnionNode builds a Union schema node over an ordered list of alternative
// schemas. Declaration order matters: it is the tie-break order used by the
// coercer's union-selection algorithm.
func UnionNode(alternatives []*Node, opts ...Option) *Node {
	return apply(&Node{Tag: Union, Alternatives: alternatives}, opts)
}

// IntersectNode builds an Intersect schema node over an ordered list of
// object sub-schemas, merged field-wise by the coercer.
func IntersectNode(members []*Node, opts ...Option) *Node {
	return apply(&Node{Tag: Intersect, Members: members}, opts)
}

// OptionalNode wraps inner so that both absence and explicit null are
// accepted at this position.
func OptionalNode(inner *Node, opts ...Option) *Node {
	return apply(&Node{Tag: Optional, Inner: inner}, opts)
}

// RefNode builds a Ref schema node. The coercer treats Ref as Any and
// records an unresolved-reference coercion note rather than attempting to
// resolve path.
func RefNode(path string, opts ...Option) *Node {
	return apply(&Node{Tag: Ref, RefPath: path}, opts)
}
