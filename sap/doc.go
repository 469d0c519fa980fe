// Package sap is the orchestrator and public entry point (§6): it wires
// the chain-of-thought filter, the JSON extractor, and the type coercer
// into the three call shapes a caller actually wants — parse, parse_partial,
// and the candidate-returning variants — and assembles their outcome into
// a single Result.
//
// It is grounded on core/client/structured.go's StructuredClient[T]: that
// type wraps a lower-level client and a derived schema behind SendMessage/
// ContinueConversation, catching the provider's raw text and returning a
// parsed T plus error. sap.Parse plays the same "glue layer over the real
// work, uniform result shape" role without ever calling out to a model —
// its input is already the text a model produced.
package sap
