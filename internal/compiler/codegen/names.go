package codegen

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/conduit-lang/schemagen/internal/compiler/typegraph"
)

// namer assigns declaration names. Names are handed out in graph order, so
// the same graph always gets the same names.
type namer struct {
	used    map[string]bool
	names   map[*typegraph.Node]string
	aliases map[int]string
}

func newNamer(reserved []string) *namer {
	n := &namer{
		used:    make(map[string]bool),
		names:   make(map[*typegraph.Node]string),
		aliases: make(map[int]string),
	}
	for _, r := range reserved {
		n.used[r] = true
	}
	return n
}

func (n *namer) assign(graph *typegraph.Graph) {
	// top-level names win over names found deeper in the graph
	for i, tl := range graph.TopLevels {
		if tl.Node.IsNamed() {
			if _, ok := n.names[tl.Node]; !ok {
				n.names[tl.Node] = uniqueName(pascalCase(tl.Name, "TopLevel"), n.used)
			}
			continue
		}
		n.aliases[i] = uniqueName(pascalCase(tl.Name, "TopLevel"), n.used)
	}

	graph.Walk(func(node *typegraph.Node) {
		if !node.IsNamed() {
			return
		}
		if _, ok := n.names[node]; ok {
			return
		}
		fallback := "Class"
		if node.Kind == typegraph.KindEnum {
			fallback = "Enum"
		}
		n.names[node] = uniqueName(pascalCase(node.Name, fallback), n.used)
	})
}

func (n *namer) of(node *typegraph.Node) string {
	return n.names[node]
}

// alias returns the name of the i-th top level when it renders as a type alias
func (n *namer) alias(i int) string {
	return n.aliases[i]
}

// uniqueName returns base, or base with the smallest numeric suffix from 2
// that is still free, and marks the result used.
func uniqueName(base string, used map[string]bool) string {
	name := base
	for i := 2; used[name]; i++ {
		name = base + strconv.Itoa(i)
	}
	used[name] = true
	return name
}

// pascalCase turns an arbitrary string into an identifier:
// "enemy_boss.v2" becomes "EnemyBossV2".
func pascalCase(s, fallback string) string {
	var b strings.Builder
	upper := true
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			upper = true
			continue
		}
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		b.WriteRune(r)
	}
	out := b.String()
	if out == "" {
		return fallback
	}
	if unicode.IsDigit([]rune(out)[0]) {
		out = "_" + out
	}
	return out
}

// isIdentifier reports whether s can be used unquoted as a property name
func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || r == '$' || unicode.IsLetter(r):
		case i > 0 && unicode.IsDigit(r):
		default:
			return false
		}
	}
	return true
}

func propertyName(name string) string {
	if isIdentifier(name) {
		return name
	}
	return quoteString(name)
}
