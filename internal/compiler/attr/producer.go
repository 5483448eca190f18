package attr

import "github.com/conduit-lang/schemagen/internal/compiler/schema"

// Target says which node of a fragment a contribution is attached to.
type Target int

const (
	// TargetType attaches to the node produced for the fragment
	TargetType Target = iota
	// TargetObject attaches to the class produced for the fragment, if any.
	// For a fragment typed ["object", "null"] that is the class member of the
	// union, not the union itself.
	TargetObject
)

// Contribution is a value a producer declares for a fragment's node.
type Contribution struct {
	Kind   AnyKind
	Value  any
	Target Target
}

// Contribute declares v for the node produced for the fragment
func Contribute[V any](k *Kind[V], v V) Contribution {
	return Contribution{Kind: k, Value: v, Target: TargetType}
}

// ContributeObject declares v for the class produced for the fragment
func ContributeObject[V any](k *Kind[V], v V) Contribution {
	return Contribution{Kind: k, Value: v, Target: TargetObject}
}

// Absorb attaches a contribution to the set, ignoring its target
func (s *Set) Absorb(c Contribution) error {
	return s.put(c.Kind, c.Value)
}

// Fragment is the view of one schema node a producer gets.
type Fragment struct {
	// Schema is the raw fragment: *schema.Object, or a bool for boolean schemas
	Schema any
	// Ref is the canonical reference of the fragment, for diagnostics
	Ref string
	// Tags are the primitive types the fragment was classified as
	Tags schema.TagSet
}

// Object returns the fragment as a structured schema node
func (f Fragment) Object() (*schema.Object, bool) {
	obj, ok := f.Schema.(*schema.Object)
	return obj, ok
}

// Producer inspects a fragment during graph construction and declares the
// attributes of the nodes built from it. It is called once per fragment.
type Producer func(f Fragment) ([]Contribution, error)
