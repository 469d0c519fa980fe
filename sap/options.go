package sap

import (
	"log/slog"

	"github.com/sapgo/sap/schema"
)

// Options is the single configuration struct threaded through every entry
// point, matching the §6 Options table. Construct one with DefaultOptions
// and mutate it with the With* functions, the same functional-options shape
// as client.ClientOptions/client.WithMemory/client.WithSystemPrompt.
type Options struct {
	AllowMarkdownJSON      bool
	AllowFixes             bool
	AllowAsString          bool
	FindAllJSONObjects     bool
	NormalizeUnicodeQuotes bool
	ExtractMaxDepth        int
	AllowPartials          bool
	UseDefaults            bool
	Strict                 bool
	TrackCoercions         bool
	FilterChainOfThought   bool
	ReturnAllCandidates    bool
	CoerceMaxDepth         int
	Logger                 *slog.Logger
	// SchemaOverride, when set via WithSchema, is used by ParseAs instead
	// of deriving a schema from the type parameter via reflection.
	SchemaOverride *schema.Node
}

// DefaultOptions returns the §6 Options table defaults.
func DefaultOptions() Options {
	return Options{
		AllowMarkdownJSON:      true,
		AllowFixes:             true,
		AllowAsString:          true,
		FindAllJSONObjects:     true,
		NormalizeUnicodeQuotes: true,
		ExtractMaxDepth:        100,
		UseDefaults:            true,
		FilterChainOfThought:   true,
		CoerceMaxDepth:         50,
	}
}

// Option mutates an Options value. Apply with apply, or pass directly to
// Parse/ParsePartial/ParseAllCandidates/ParseBestCandidate/ParseAs.
type Option func(*Options)

func apply(opts []Option) Options {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func WithAllowMarkdownJSON(b bool) Option { return func(o *Options) { o.AllowMarkdownJSON = b } }
func WithAllowFixes(b bool) Option        { return func(o *Options) { o.AllowFixes = b } }
func WithAllowAsString(b bool) Option     { return func(o *Options) { o.AllowAsString = b } }
func WithFindAllJSONObjects(b bool) Option {
	return func(o *Options) { o.FindAllJSONObjects = b }
}
func WithNormalizeUnicodeQuotes(b bool) Option {
	return func(o *Options) { o.NormalizeUnicodeQuotes = b }
}
func WithExtractMaxDepth(n int) Option { return func(o *Options) { o.ExtractMaxDepth = n } }
func WithAllowPartials(b bool) Option  { return func(o *Options) { o.AllowPartials = b } }
func WithUseDefaults(b bool) Option    { return func(o *Options) { o.UseDefaults = b } }
func WithStrict(b bool) Option         { return func(o *Options) { o.Strict = b } }
func WithTrackCoercions(b bool) Option { return func(o *Options) { o.TrackCoercions = b } }
func WithFilterChainOfThought(b bool) Option {
	return func(o *Options) { o.FilterChainOfThought = b }
}
func WithReturnAllCandidates(b bool) Option {
	return func(o *Options) { o.ReturnAllCandidates = b }
}
func WithCoerceMaxDepth(n int) Option { return func(o *Options) { o.CoerceMaxDepth = n } }

// WithSchema overrides the schema ParseAs would otherwise derive from its
// type parameter via reflection.
func WithSchema(node *schema.Node) Option { return func(o *Options) { o.SchemaOverride = node } }

// WithLogger wires a caller-supplied logger, the same nilable *slog.Logger
// shape slogobs.New takes. When omitted, slog.Default() is used.
func WithLogger(l *slog.Logger) Option { return func(o *Options) { o.Logger = l } }

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}
