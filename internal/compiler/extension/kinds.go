// Package extension is the built-in attribute extension. It marks classes
// whose schema sets a marker key so they extend a fixed supertype, and gives
// properties whose type schema declares a default an initializer.
package extension

import (
	"github.com/goccy/go-json"

	"github.com/conduit-lang/schemagen/internal/compiler/attr"
	cerrors "github.com/conduit-lang/schemagen/internal/compiler/errors"
	"github.com/conduit-lang/schemagen/internal/compiler/schema"
)

// Kinds holds the attribute kinds of the extension. Build it once with
// NewKinds and hand the same value to producers and hooks: lookups compare
// kinds by identity.
type Kinds struct {
	// Marker is true on classes that extend the supertype
	Marker *attr.Kind[bool]
	// Default is the forced default of a property type
	Default *attr.Kind[any]
}

// NewKinds creates the extension's kinds
func NewKinds() *Kinds {
	return &Kinds{
		Marker:  attr.NewKind("marker", attr.Ops[bool]{Combine: combineMarker}),
		Default: attr.NewKind("default", attr.Ops[any]{Combine: combineDefault, Stringify: stringifyValue}),
	}
}

// combineMarker is a logical OR: if any merged constituent is marked, so is
// the result. Markers are never inferred across differently shaped nodes.
func combineMarker(values []bool) (bool, error) {
	for _, v := range values {
		if v {
			return true, nil
		}
	}
	return false, nil
}

// combineDefault requires every default to equal the first.
func combineDefault(values []any) (any, error) {
	first := values[0]
	for _, v := range values[1:] {
		if !schema.Equal(first, v) {
			return nil, cerrors.NewInconsistentDefault(stringifyValue(first), stringifyValue(v))
		}
	}
	return first, nil
}

func stringifyValue(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "<unprintable>"
	}
	return string(b)
}
