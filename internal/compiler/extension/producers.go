package extension

import (
	"github.com/conduit-lang/schemagen/internal/compiler/attr"
	cerrors "github.com/conduit-lang/schemagen/internal/compiler/errors"
	"github.com/conduit-lang/schemagen/internal/compiler/schema"
)

// MarkerProducer reads the boolean marker under key from object-typed
// fragments. A missing key contributes false rather than nothing so the OR
// on merge always has an operand for every class.
func MarkerProducer(kinds *Kinds, key string) attr.Producer {
	return func(f attr.Fragment) ([]attr.Contribution, error) {
		obj, ok := f.Object()
		if !ok || !f.Tags.Has(schema.TagObject) {
			return nil, nil
		}

		raw, present := obj.Get(key)
		if !present {
			return []attr.Contribution{attr.ContributeObject(kinds.Marker, false)}, nil
		}
		marked, ok := raw.(bool)
		if !ok {
			return nil, cerrors.NewSchemaExtensionTypeError(f.Ref, key, "boolean", schema.TypeName(raw))
		}
		return []attr.Contribution{attr.ContributeObject(kinds.Marker, marked)}, nil
	}
}

// DefaultProducer contributes the value declared under key, whatever its
// type. A declared null is a default too.
func DefaultProducer(kinds *Kinds, key string) attr.Producer {
	return func(f attr.Fragment) ([]attr.Contribution, error) {
		obj, ok := f.Object()
		if !ok {
			return nil, nil
		}
		value, present := obj.Get(key)
		if !present {
			return nil, nil
		}
		return []attr.Contribution{attr.Contribute(kinds.Default, value)}, nil
	}
}
