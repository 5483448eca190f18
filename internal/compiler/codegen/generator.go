// Package codegen renders a finished type graph as TypeScript declarations.
// Two decision points can be overridden through Hooks: the supertype of a
// class and the declaration text of a class property.
package codegen

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/conduit-lang/schemagen/internal/compiler/typegraph"
)

// DefaultIndent is the number of spaces per indentation level
const DefaultIndent = 4

// Hooks override rendering decisions. A nil hook keeps the default behaviour.
type Hooks struct {
	// Supertype is called once per class. Returning ok=false keeps the
	// default, which is no supertype.
	Supertype func(class *typegraph.Node) (name string, ok bool)
	// PropertyDeclaration is called once per class property with the
	// declaration computed by the generator, without the trailing semicolon,
	// and returns the declaration to emit.
	PropertyDeclaration func(class *typegraph.Node, p *typegraph.Property, decl string) (string, error)
}

// Options configures a Generator.
type Options struct {
	// Indent is the number of spaces per level; zero means DefaultIndent
	Indent int
	Hooks  Hooks
	// Reserved names are never given to generated declarations
	Reserved []string
}

// Generator transforms a type graph into TypeScript source
type Generator struct {
	opts   Options
	buf    *bytes.Buffer
	indent int
	names  *namer
}

// NewGenerator creates a new code generator
func NewGenerator(opts Options) *Generator {
	if opts.Indent <= 0 {
		opts.Indent = DefaultIndent
	}
	return &Generator{
		opts: opts,
		buf:  &bytes.Buffer{},
	}
}

// Generate renders the graph and returns the output lines. Top-level types
// that are not classes or enums become type aliases; every class and enum is
// declared once, in graph order.
func (g *Generator) Generate(graph *typegraph.Graph) ([]string, error) {
	g.reset()
	g.names = newNamer(g.opts.Reserved)
	g.names.assign(graph)

	first := true
	separate := func() {
		if !first {
			g.writeLine("")
		}
		first = false
	}

	for i, tl := range graph.TopLevels {
		if tl.Node.IsNamed() {
			continue
		}
		separate()
		g.writeLine("export type %s = %s;", g.names.alias(i), g.typeExpr(tl.Node))
	}

	var err error
	graph.Walk(func(n *typegraph.Node) {
		if err != nil {
			return
		}
		switch n.Kind {
		case typegraph.KindClass:
			separate()
			err = g.generateClass(n)
		case typegraph.KindEnum:
			separate()
			g.generateEnum(n)
		}
	})
	if err != nil {
		return nil, err
	}

	out := strings.TrimSuffix(g.buf.String(), "\n")
	if out == "" {
		return nil, nil
	}
	return strings.Split(out, "\n"), nil
}

func (g *Generator) generateClass(class *typegraph.Node) error {
	header := "export class " + g.names.of(class)
	if g.opts.Hooks.Supertype != nil {
		if super, ok := g.opts.Hooks.Supertype(class); ok {
			header += " extends " + super
		}
	}

	if len(class.Properties) == 0 {
		g.writeLine("%s {}", header)
		return nil
	}

	g.writeLine("%s {", header)
	g.indent++
	for _, p := range class.Properties {
		decl := propertyName(p.Name)
		if p.Optional {
			decl += "?"
		}
		decl += ": " + g.typeExpr(p.Type)

		if g.opts.Hooks.PropertyDeclaration != nil {
			var err error
			decl, err = g.opts.Hooks.PropertyDeclaration(class, p, decl)
			if err != nil {
				return err
			}
		}
		g.writeLine("%s;", decl)
	}
	g.indent--
	g.writeLine("}")
	return nil
}

func (g *Generator) generateEnum(n *typegraph.Node) {
	g.writeLine("export enum %s {", g.names.of(n))
	g.indent++
	used := make(map[string]bool)
	for _, c := range n.Cases {
		name := uniqueName(pascalCase(c, "Case"), used)
		g.writeLine("%s = %s,", name, quoteString(c))
	}
	g.indent--
	g.writeLine("}")
}

// Names returns the declaration names assigned by the last Generate call
func (g *Generator) Names() map[*typegraph.Node]string {
	out := make(map[*typegraph.Node]string)
	if g.names == nil {
		return out
	}
	for n, name := range g.names.names {
		out[n] = name
	}
	return out
}

// typeExpr renders a type reference.
func (g *Generator) typeExpr(n *typegraph.Node) string {
	switch n.Kind {
	case typegraph.KindAny:
		return "any"
	case typegraph.KindNone:
		return "never"
	case typegraph.KindNull:
		return "null"
	case typegraph.KindBool:
		return "boolean"
	case typegraph.KindInteger, typegraph.KindNumber:
		return "number"
	case typegraph.KindString:
		return "string"
	case typegraph.KindClass, typegraph.KindEnum:
		return g.names.of(n)
	case typegraph.KindAlias:
		return g.typeExpr(n.Target())
	case typegraph.KindArray:
		items := g.typeExpr(n.Items)
		if n.Items.Kind == typegraph.KindUnion || n.Items.Kind == typegraph.KindIntersection {
			items = "(" + items + ")"
		}
		return items + "[]"
	case typegraph.KindMap:
		return "{ [key: string]: " + g.typeExpr(n.Values) + " }"
	case typegraph.KindUnion, typegraph.KindIntersection:
		sep := " | "
		if n.Kind == typegraph.KindIntersection {
			sep = " & "
		}
		parts := make([]string, len(n.Members))
		for i, m := range n.Members {
			parts[i] = g.typeExpr(m)
		}
		return strings.Join(parts, sep)
	}
	return "unknown"
}

// reset clears the generator state
func (g *Generator) reset() {
	g.buf.Reset()
	g.indent = 0
}

// writeLine writes a formatted line with proper indentation
func (g *Generator) writeLine(format string, args ...interface{}) {
	if format == "" {
		g.buf.WriteString("\n")
		return
	}

	g.buf.WriteString(strings.Repeat(" ", g.indent*g.opts.Indent))

	if len(args) > 0 {
		g.buf.WriteString(fmt.Sprintf(format, args...))
	} else {
		g.buf.WriteString(format)
	}
	g.buf.WriteString("\n")
}
