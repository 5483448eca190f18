package extension

import (
	"github.com/conduit-lang/schemagen/internal/compiler/attr"
	"github.com/conduit-lang/schemagen/internal/compiler/codegen"
	"github.com/conduit-lang/schemagen/internal/compiler/typegraph"
)

// SupertypeHook makes marked classes extend supertype. Classes without the
// marker, or with it set to false, keep the default.
func SupertypeHook(kinds *Kinds, supertype string) func(*typegraph.Node) (string, bool) {
	return func(class *typegraph.Node) (string, bool) {
		marked, ok := attr.Lookup(class.Attrs, kinds.Marker)
		if !ok || !marked {
			return "", false
		}
		return supertype, true
	}
}

// InitializerHook appends "= <default>" to the declaration of a property
// whose type carries a default. The declaration is otherwise left alone.
func InitializerHook(kinds *Kinds) func(*typegraph.Node, *typegraph.Property, string) (string, error) {
	return func(_ *typegraph.Node, p *typegraph.Property, decl string) (string, error) {
		value, ok := attr.Lookup(p.Type.Attrs, kinds.Default)
		if !ok {
			return decl, nil
		}
		lit, err := codegen.Literal(value)
		if err != nil {
			return "", err
		}
		return decl + " = " + lit, nil
	}
}
