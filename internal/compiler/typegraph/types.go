// Package typegraph infers a graph of types from schema documents and
// simplifies it for rendering. Attribute producers run while the graph is
// built; attribute sets are merged whenever the simplifier merges nodes.
package typegraph

import (
	"fmt"
	"strings"

	"github.com/conduit-lang/schemagen/internal/compiler/attr"
)

// NodeKind identifies the shape of a type node.
type NodeKind int

const (
	KindAny NodeKind = iota
	KindNone
	KindNull
	KindBool
	KindInteger
	KindNumber
	KindString
	KindEnum
	KindArray
	KindMap
	KindClass
	KindUnion
	KindIntersection
	// KindAlias is a "$ref" site that carries attributes of its own. Its
	// single member is the shared declaration it stands for.
	KindAlias
)

var kindNames = map[NodeKind]string{
	KindAny:          "any",
	KindNone:         "none",
	KindNull:         "null",
	KindBool:         "bool",
	KindInteger:      "integer",
	KindNumber:       "number",
	KindString:       "string",
	KindEnum:         "enum",
	KindArray:        "array",
	KindMap:          "map",
	KindClass:        "class",
	KindUnion:        "union",
	KindIntersection: "intersection",
	KindAlias:        "alias",
}

func (k NodeKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// IsScalar reports whether nodes of this kind have no child nodes
func (k NodeKind) IsScalar() bool {
	switch k {
	case KindAny, KindNone, KindNull, KindBool, KindInteger, KindNumber, KindString, KindEnum:
		return true
	}
	return false
}

// Node is a type in the graph.
type Node struct {
	ID   int
	Kind NodeKind
	// Name is the naming hint (definition key, title or property name)
	Name string
	// Ref is the canonical reference of the fragment the node was built from
	Ref string
	// Attrs holds the node's attributes
	Attrs attr.Set

	// Properties of a class, in declaration order
	Properties []*Property
	// Items of an array
	Items *Node
	// Values of a map
	Values *Node
	// Members of a union or intersection; the target of an alias
	Members []*Node
	// Cases of an enum
	Cases []string

	// own keeps a union's directly contributed attributes after
	// simplification replaced Attrs with the merged set. On an
	// intersection it holds the object-targeted attributes, which belong
	// to the class the intersection resolves to.
	own attr.Set
}

// Property is a class member.
type Property struct {
	Name     string
	Type     *Node
	Optional bool
}

// Property returns the class property with the given name
func (n *Node) Property(name string) (*Property, bool) {
	for _, p := range n.Properties {
		if p.Name == name {
			return p, true
		}
	}
	return nil, false
}

// Target returns the declaration an alias stands for, or n itself
func (n *Node) Target() *Node {
	for n != nil && n.Kind == KindAlias && len(n.Members) == 1 {
		n = n.Members[0]
	}
	return n
}

// IsNamed reports whether the node becomes a named declaration when rendered
func (n *Node) IsNamed() bool {
	return n.Kind == KindClass || n.Kind == KindEnum
}

// String renders a short structural description, for debugging and tests
func (n *Node) String() string {
	return describe(n, map[*Node]bool{})
}

func describe(n *Node, seen map[*Node]bool) string {
	if n == nil {
		return "<nil>"
	}
	switch n.Kind {
	case KindClass:
		if seen[n] {
			return "class " + n.Name
		}
		seen[n] = true
		parts := make([]string, 0, len(n.Properties))
		for _, p := range n.Properties {
			opt := ""
			if p.Optional {
				opt = "?"
			}
			parts = append(parts, p.Name+opt+": "+describe(p.Type, seen))
		}
		return "class " + n.Name + " {" + strings.Join(parts, ", ") + "}"
	case KindArray:
		return "array<" + describe(n.Items, seen) + ">"
	case KindMap:
		return "map<" + describe(n.Values, seen) + ">"
	case KindUnion, KindIntersection:
		parts := make([]string, 0, len(n.Members))
		for _, m := range n.Members {
			parts = append(parts, describe(m, seen))
		}
		sep := " | "
		if n.Kind == KindIntersection {
			sep = " & "
		}
		return "(" + strings.Join(parts, sep) + ")"
	case KindAlias:
		return "alias<" + describe(n.Target(), seen) + ">"
	case KindEnum:
		return "enum " + n.Name + " [" + strings.Join(n.Cases, ",") + "]"
	default:
		return n.Kind.String()
	}
}

// TopLevel is a named root of the graph, one per added source.
type TopLevel struct {
	Name string
	Node *Node
}

// Graph is the finished, simplified type graph.
type Graph struct {
	TopLevels []TopLevel
}

// Walk visits every node reachable from the top levels once, depth first,
// parents before children, in declaration order.
func (g *Graph) Walk(visit func(*Node)) {
	seen := make(map[*Node]bool)
	var walk func(*Node)
	walk = func(n *Node) {
		if n == nil || seen[n] {
			return
		}
		seen[n] = true
		visit(n)
		for _, p := range n.Properties {
			walk(p.Type)
		}
		walk(n.Items)
		walk(n.Values)
		for _, m := range n.Members {
			walk(m)
		}
	}
	for _, tl := range g.TopLevels {
		walk(tl.Node)
	}
}
