package extension

import (
	"github.com/conduit-lang/schemagen/internal/compiler/attr"
	"github.com/conduit-lang/schemagen/internal/compiler/codegen"
)

// Options configures the extension.
type Options struct {
	// MarkerKey is the schema key holding the marker flag
	MarkerKey string
	// DefaultKey is the schema key holding a forced default
	DefaultKey string
	// Supertype is the class marked classes extend
	Supertype string
}

// DefaultOptions returns the stock keys and supertype
func DefaultOptions() Options {
	return Options{
		MarkerKey:  "gameObject",
		DefaultKey: "default",
		Supertype:  "GameObject",
	}
}

// Extension bundles the kinds, producers and hooks of one generation run.
type Extension struct {
	kinds *Kinds
	opts  Options
}

// New creates an extension. Empty options fall back to DefaultOptions.
func New(opts Options) *Extension {
	defaults := DefaultOptions()
	if opts.MarkerKey == "" {
		opts.MarkerKey = defaults.MarkerKey
	}
	if opts.DefaultKey == "" {
		opts.DefaultKey = defaults.DefaultKey
	}
	if opts.Supertype == "" {
		opts.Supertype = defaults.Supertype
	}
	return &Extension{kinds: NewKinds(), opts: opts}
}

// Kinds returns the extension's attribute kinds
func (e *Extension) Kinds() *Kinds {
	return e.kinds
}

// Options returns the effective options
func (e *Extension) Options() Options {
	return e.opts
}

// Producers returns the attribute producers, one per kind
func (e *Extension) Producers() []attr.Producer {
	return []attr.Producer{
		MarkerProducer(e.kinds, e.opts.MarkerKey),
		DefaultProducer(e.kinds, e.opts.DefaultKey),
	}
}

// Hooks returns the renderer overrides
func (e *Extension) Hooks() codegen.Hooks {
	return codegen.Hooks{
		Supertype:           SupertypeHook(e.kinds, e.opts.Supertype),
		PropertyDeclaration: InitializerHook(e.kinds),
	}
}

// Reserved lists names generated declarations must not take
func (e *Extension) Reserved() []string {
	return []string{e.opts.Supertype}
}
