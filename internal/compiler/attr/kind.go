// Package attr implements typed attributes carried by type graph nodes.
//
// A Kind describes one dimension of metadata: how several values combine when
// the nodes carrying them are merged, and whether a value survives a merge
// with nodes that carry no value at all. Kinds are compared by identity, so
// each one is created once with NewKind and shared by the producers that
// attach it and the renderer hooks that read it.
package attr

import "fmt"

// Ops are the capabilities a Kind is built from.
type Ops[V any] struct {
	// Combine collapses the values of two or more merged nodes into one.
	// It must not depend on input order unless it rejects disagreement.
	Combine func(values []V) (V, error)
	// MakeInferred decides what survives when a node carrying the attribute
	// is merged with nodes that do not carry it. A nil function, or a false
	// second result, drops the attribute from the merged node.
	MakeInferred func(value V) (V, bool)
	// Stringify renders a value for debugging. Nil falls back to fmt.
	Stringify func(value V) string
}

// Kind is an attribute descriptor for values of type V.
type Kind[V any] struct {
	name string
	ops  Ops[V]
}

// NewKind creates a kind. It panics when ops.Combine is nil.
func NewKind[V any](name string, ops Ops[V]) *Kind[V] {
	if ops.Combine == nil {
		panic(fmt.Sprintf("attr: kind %q has no combine function", name))
	}
	return &Kind[V]{name: name, ops: ops}
}

// Name returns the kind's debug name
func (k *Kind[V]) Name() string {
	return k.name
}

// Combine merges values contributed by several nodes
func (k *Kind[V]) Combine(values []V) (V, error) {
	return k.ops.Combine(values)
}

// MakeInferred returns the value to keep when merging with attribute-less nodes
func (k *Kind[V]) MakeInferred(value V) (V, bool) {
	if k.ops.MakeInferred == nil {
		var zero V
		return zero, false
	}
	return k.ops.MakeInferred(value)
}

// Stringify renders value for debugging output
func (k *Kind[V]) Stringify(value V) string {
	if k.ops.Stringify == nil {
		return fmt.Sprintf("%v", value)
	}
	return k.ops.Stringify(value)
}

func (k *Kind[V]) String() string {
	return k.name
}

// AnyKind is the type-erased view of a Kind used inside attribute sets.
// Only *Kind values implement it.
type AnyKind interface {
	Name() string
	combineAny(values []any) (any, error)
	inferAny(value any) (any, bool)
	stringifyAny(value any) string
}

func (k *Kind[V]) combineAny(values []any) (any, error) {
	typed := make([]V, len(values))
	for i, v := range values {
		typed[i] = as[V](v)
	}
	return k.Combine(typed)
}

func (k *Kind[V]) inferAny(value any) (any, bool) {
	return k.MakeInferred(as[V](value))
}

func (k *Kind[V]) stringifyAny(value any) string {
	return k.Stringify(as[V](value))
}

// as converts a stored value back to V. A nil interface converts to V's zero
// value, which matters for kinds over interface types where null is a value.
func as[V any](v any) V {
	typed, _ := v.(V)
	return typed
}
