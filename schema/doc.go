// Package schema is the in-memory representation of the type constructors a
// caller may declare for schema-aligned parsing: scalars with constraints,
// literals, enums, the container shapes (array, tuple, object, record), the
// combinators (union, intersect, optional) and an opaque reference node.
//
// A [Node] is a closed tagged variant, built either by hand with the
// constructor functions ([StringNode], [ObjectNode], [UnionNode], ...) or derived from a
// Go type via [FromType]. Nodes are immutable once built and safe to share
// across concurrent parses: nothing under [coerce] ever writes back into a
// schema tree.
package schema
