package typegraph

import (
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/conduit-lang/schemagen/internal/compiler/attr"
	cerrors "github.com/conduit-lang/schemagen/internal/compiler/errors"
)

const (
	unvisited = iota
	inProgress
	done
)

// simplifier resolves unions and intersections into renderable nodes.
// Whenever nodes are merged, their attribute sets are merged with attr.Merge
// (unions) or attr.MergeAll (intersections).
type simplifier struct {
	b       *Builder
	state   map[*Node]int
	forward map[*Node]*Node
	classes map[string]*Node
}

func newSimplifier(b *Builder) *simplifier {
	return &simplifier{
		b:       b,
		state:   make(map[*Node]int),
		forward: make(map[*Node]*Node),
		classes: make(map[string]*Node),
	}
}

func (s *simplifier) follow(n *Node) *Node {
	for n != nil {
		next, ok := s.forward[n]
		if !ok {
			return n
		}
		n = next
	}
	return n
}

func (s *simplifier) resolve(n *Node) (*Node, error) {
	n = s.follow(n)
	if n == nil || s.state[n] != unvisited {
		return n, nil
	}
	s.state[n] = inProgress

	var err error
	switch n.Kind {
	case KindAlias:
		return s.resolveAlias(n)
	case KindClass:
		for _, p := range n.Properties {
			if p.Type, err = s.resolve(p.Type); err != nil {
				return nil, err
			}
		}
	case KindArray:
		if n.Items, err = s.resolve(n.Items); err != nil {
			return nil, err
		}
	case KindMap:
		if n.Values, err = s.resolve(n.Values); err != nil {
			return nil, err
		}
	case KindUnion, KindIntersection:
		members := make([]*Node, 0, len(n.Members))
		for _, m := range n.Members {
			r, err := s.resolve(m)
			if err != nil {
				return nil, err
			}
			members = append(members, r)
		}
		var result *Node
		if n.Kind == KindUnion {
			result, err = s.unify(members, n.Attrs, n)
		} else {
			result, err = s.intersect(members, n.Attrs, n)
		}
		if err != nil {
			return nil, err
		}
		s.state[n] = done
		if result != n {
			s.forward[n] = result
		}
		return result, nil
	}

	s.state[n] = done
	return n, nil
}

// resolveAlias keeps an alias whose target is a declaration, folding the
// target's attributes under the site's own. Any other target is cloned to
// carry the site's attributes and the alias is dropped.
func (s *simplifier) resolveAlias(n *Node) (*Node, error) {
	t, err := s.resolve(n.Members[0])
	if err != nil {
		return nil, err
	}
	n.Members[0] = t
	if t.IsNamed() || s.state[t] == inProgress {
		if t.IsNamed() {
			attrs := t.Attrs.Clone()
			if err := attrs.AttachAll(n.Attrs); err != nil {
				return nil, cerrors.Locate(err, n.Ref)
			}
			n.Attrs = attrs
		}
		s.state[n] = done
		return n, nil
	}

	r, err := s.withOwn(t, false, n.Attrs)
	if err != nil {
		return nil, err
	}
	s.state[n] = done
	s.forward[n] = r
	return r, nil
}

// shape is the node whose structure n has: the target of an alias, or n
func shape(n *Node) *Node {
	return n.Target()
}

// flatten resolves members, expands nested nodes of the given kind and
// removes duplicates. Attributes contributed directly to an expanded union
// are collected into own.
func (s *simplifier) flatten(members []*Node, kind NodeKind, own *attr.Set) ([]*Node, error) {
	var out []*Node
	seen := make(map[*Node]bool)
	var add func(n *Node) error
	add = func(n *Node) error {
		n, err := s.resolve(n)
		if err != nil {
			return err
		}
		if n == nil || seen[n] {
			return nil
		}
		seen[n] = true
		if n.Kind != kind {
			out = append(out, n)
			return nil
		}
		nested := n.Attrs
		if kind == KindUnion && s.state[n] == done {
			nested = n.own
		}
		if err := own.AttachAll(nested); err != nil {
			return cerrors.Locate(err, n.Ref)
		}
		for _, m := range n.Members {
			if err := add(m); err != nil {
				return err
			}
		}
		return nil
	}
	for _, m := range members {
		if err := add(m); err != nil {
			return nil, err
		}
	}
	return out, nil
}

type group struct {
	kind  NodeKind
	nodes []*Node
}

// groupMembers buckets union members by kind, in order of first appearance.
// Integers widen into numbers and enums into strings when both are present.
func groupMembers(members []*Node) []*group {
	present := make(map[NodeKind]bool)
	for _, m := range members {
		present[shape(m).Kind] = true
	}
	if present[KindAny] {
		return []*group{{kind: KindAny, nodes: members}}
	}

	var groups []*group
	byKind := make(map[NodeKind]*group)
	for _, m := range members {
		k := shape(m).Kind
		switch {
		case k == KindNone:
			continue
		case k == KindInteger && present[KindNumber]:
			k = KindNumber
		case k == KindEnum && present[KindString]:
			k = KindString
		}
		g, ok := byKind[k]
		if !ok {
			g = &group{kind: k}
			byKind[k] = g
			groups = append(groups, g)
		}
		g.nodes = append(g.nodes, m)
	}
	return groups
}

// unify computes the union of members. own holds attributes contributed to
// the union itself; they end up on the result. origin, when set, is reused
// as the union node so references to it stay valid.
func (s *simplifier) unify(members []*Node, own attr.Set, origin *Node) (*Node, error) {
	own = own.Clone()
	flat, err := s.flatten(members, KindUnion, &own)
	if err != nil {
		return nil, err
	}

	var results []*Node
	fresh := false
	for _, g := range groupMembers(flat) {
		r, isNew, err := s.mergeGroup(g)
		if err != nil {
			return nil, err
		}
		fresh = isNew
		results = append(results, r)
	}

	switch len(results) {
	case 0:
		n := s.b.newNode(KindNone, nameOf(origin), refOf(origin))
		n.Attrs = own
		s.state[n] = done
		return n, nil
	case 1:
		return s.withOwn(results[0], fresh, own)
	}

	u := origin
	if u == nil {
		u = s.b.newNode(KindUnion, results[0].Name, results[0].Ref)
	}
	sets := make([]attr.Set, len(results))
	for i, r := range results {
		sets[i] = r.Attrs
	}
	merged, err := attr.Merge(sets...)
	if err != nil {
		return nil, cerrors.Locate(err, u.Ref)
	}
	if err := merged.AttachAll(own); err != nil {
		return nil, cerrors.Locate(err, u.Ref)
	}
	u.Kind = KindUnion
	u.Members = results
	u.Attrs = merged
	u.own = own
	s.state[u] = done
	return u, nil
}

// withOwn attaches own to r. A shared node is never changed: a declaration
// is wrapped in an alias and anything else is cloned, so the attributes stay
// local to the site that contributed them.
func (s *simplifier) withOwn(r *Node, fresh bool, own attr.Set) (*Node, error) {
	if own.Len() == 0 {
		return r, nil
	}
	switch {
	case fresh:
	case r.IsNamed():
		a := s.b.newNode(KindAlias, r.Name, r.Ref)
		a.Members = []*Node{r}
		a.Attrs = r.Attrs.Clone()
		s.state[a] = done
		r = a
	default:
		r = s.b.clone(r)
		s.state[r] = done
	}
	if err := r.Attrs.AttachAll(own); err != nil {
		return nil, cerrors.Locate(err, r.Ref)
	}
	return r, nil
}

// mergeGroup merges same-kind union members into one node. It reports
// whether the node is newly created.
func (s *simplifier) mergeGroup(g *group) (*Node, bool, error) {
	if len(g.nodes) == 1 && shape(g.nodes[0]).Kind == g.kind {
		return g.nodes[0], false, nil
	}
	if t := commonTarget(g.nodes); t != nil {
		sets := make([]attr.Set, len(g.nodes))
		for i, m := range g.nodes {
			sets[i] = m.Attrs
		}
		merged, err := attr.Merge(sets...)
		if err != nil {
			return nil, false, cerrors.Locate(err, g.nodes[0].Ref)
		}
		a := s.b.newNode(KindAlias, t.Name, g.nodes[0].Ref)
		a.Members = []*Node{t}
		a.Attrs = merged
		s.state[a] = done
		return a, true, nil
	}
	if g.kind == KindClass {
		n, err := s.mergeClasses(g.nodes, false)
		return n, true, err
	}

	first := g.nodes[0]
	n := s.b.newNode(g.kind, first.Name, first.Ref)
	s.state[n] = done
	sets := make([]attr.Set, len(g.nodes))
	for i, m := range g.nodes {
		sets[i] = m.Attrs
	}
	merged, err := attr.Merge(sets...)
	if err != nil {
		return nil, false, cerrors.Locate(err, first.Ref)
	}
	n.Attrs = merged

	switch g.kind {
	case KindEnum:
		seen := make(map[string]bool)
		for _, m := range g.nodes {
			for _, c := range shape(m).Cases {
				if !seen[c] {
					seen[c] = true
					n.Cases = append(n.Cases, c)
				}
			}
		}
	case KindArray:
		items := make([]*Node, len(g.nodes))
		for i, m := range g.nodes {
			items[i] = shape(m).Items
		}
		if n.Items, err = s.unify(items, attr.Set{}, nil); err != nil {
			return nil, false, err
		}
	case KindMap:
		values := make([]*Node, len(g.nodes))
		for i, m := range g.nodes {
			values[i] = shape(m).Values
		}
		if n.Values, err = s.unify(values, attr.Set{}, nil); err != nil {
			return nil, false, err
		}
	}

	s.b.logger.Debug("merged union members",
		zap.Stringer("kind", g.kind),
		zap.Int("count", len(g.nodes)),
		zap.String("ref", first.Ref))
	return n, true, nil
}

// mergeClasses merges classes into one. In a union a property is optional
// when any class lacks it or marks it optional; in an intersection only
// when every class that declares it marks it optional.
func (s *simplifier) mergeClasses(classes []*Node, intersect bool) (*Node, error) {
	key := classKey(classes, intersect)
	if c, ok := s.classes[key]; ok {
		return c, nil
	}

	first := classes[0]
	c := s.b.newNode(KindClass, first.Name, first.Ref)
	s.classes[key] = c
	s.state[c] = done

	sets := make([]attr.Set, len(classes))
	for i, cl := range classes {
		sets[i] = cl.Attrs
	}
	var err error
	if intersect {
		c.Attrs, err = attr.MergeAll(sets...)
	} else {
		c.Attrs, err = attr.Merge(sets...)
	}
	if err != nil {
		return nil, cerrors.Locate(err, first.Ref)
	}

	type slot struct {
		types    []*Node
		present  int
		optional int
	}
	var names []string
	slots := make(map[string]*slot)
	for _, cl := range classes {
		for _, p := range shape(cl).Properties {
			sl, ok := slots[p.Name]
			if !ok {
				sl = &slot{}
				slots[p.Name] = sl
				names = append(names, p.Name)
			}
			sl.types = append(sl.types, p.Type)
			sl.present++
			if p.Optional {
				sl.optional++
			}
		}
	}

	for _, name := range names {
		sl := slots[name]
		var t *Node
		if intersect {
			t, err = s.intersect(sl.types, attr.Set{}, nil)
		} else {
			t, err = s.unify(sl.types, attr.Set{}, nil)
		}
		if err != nil {
			return nil, err
		}
		optional := sl.optional > 0 || sl.present < len(classes)
		if intersect {
			optional = sl.optional == sl.present
		}
		c.Properties = append(c.Properties, &Property{Name: name, Type: t, Optional: optional})
	}

	s.b.logger.Debug("merged classes",
		zap.Int("count", len(classes)),
		zap.Bool("intersection", intersect),
		zap.String("ref", first.Ref))
	return c, nil
}

// intersect computes the intersection of members. Any is the identity.
// Classes merge into one class; other members of one kind merge into one
// node of that kind; anything else cannot be satisfied.
func (s *simplifier) intersect(members []*Node, own attr.Set, origin *Node) (*Node, error) {
	own = own.Clone()
	flat, err := s.flatten(members, KindIntersection, &own)
	if err != nil {
		return nil, err
	}

	var kept, classes []*Node
	for _, m := range flat {
		switch shape(m).Kind {
		case KindAny:
			if err := own.AttachAll(m.Attrs); err != nil {
				return nil, cerrors.Locate(err, m.Ref)
			}
		case KindClass:
			classes = append(classes, m)
			kept = append(kept, m)
		default:
			kept = append(kept, m)
		}
	}

	var result *Node
	fresh := true
	switch {
	case len(kept) == 0:
		result = s.b.newNode(KindAny, nameOf(origin), refOf(origin))
	case len(classes) > 0:
		if len(classes) < len(kept) {
			s.b.logger.Debug("non-class intersection members ignored",
				zap.String("ref", classes[0].Ref),
				zap.Int("ignored", len(kept)-len(classes)))
		}
		if len(classes) == 1 && len(kept) == 1 {
			result, fresh = classes[0], false
		} else {
			result, err = s.mergeClasses(classes, true)
		}
	case len(kept) == 1:
		result, fresh = kept[0], false
	case sameKind(kept):
		first := shape(kept[0])
		result = s.b.newNode(first.Kind, first.Name, first.Ref)
		sets := make([]attr.Set, len(kept))
		for i, m := range kept {
			sets[i] = m.Attrs
		}
		result.Attrs, err = attr.MergeAll(sets...)
		err = cerrors.Locate(err, first.Ref)
		result.Cases = intersectCases(kept)
		result.Items = first.Items
		result.Values = first.Values
	default:
		result = s.b.newNode(KindNone, nameOf(origin), refOf(origin))
	}
	if err != nil {
		return nil, err
	}
	if fresh {
		s.state[result] = done
		if result.Name == "" {
			result.Name = nameOf(origin)
		}
	}
	if origin != nil && origin.own.Len() > 0 {
		if err := s.attachObject(result, origin.own); err != nil {
			return nil, err
		}
	}
	return s.withOwn(result, fresh, own)
}

// attachObject gives object-targeted attributes to the class behind result.
// They describe the declaration, so a shared class receives them too.
func (s *simplifier) attachObject(result *Node, object attr.Set) error {
	decl := shape(result)
	if decl.Kind != KindClass {
		s.b.logger.Debug("object attributes dropped",
			zap.String("ref", result.Ref),
			zap.Stringer("node", decl.Kind))
		return nil
	}
	if err := decl.Attrs.AttachAll(object); err != nil {
		return cerrors.Locate(err, result.Ref)
	}
	if result != decl {
		return cerrors.Locate(result.Attrs.AttachAll(object), result.Ref)
	}
	return nil
}

// commonTarget returns the declaration every node stands for, if they
// all stand for the same one
func commonTarget(nodes []*Node) *Node {
	t := shape(nodes[0])
	if !t.IsNamed() {
		return nil
	}
	for _, n := range nodes[1:] {
		if shape(n) != t {
			return nil
		}
	}
	return t
}

func sameKind(nodes []*Node) bool {
	for _, n := range nodes[1:] {
		if shape(n).Kind != shape(nodes[0]).Kind {
			return false
		}
	}
	return true
}

func intersectCases(enums []*Node) []string {
	if shape(enums[0]).Kind != KindEnum {
		return nil
	}
	var out []string
	for _, c := range shape(enums[0]).Cases {
		all := true
		for _, e := range enums[1:] {
			found := false
			for _, other := range shape(e).Cases {
				if other == c {
					found = true
					break
				}
			}
			all = all && found
		}
		if all {
			out = append(out, c)
		}
	}
	return out
}

func classKey(classes []*Node, intersect bool) string {
	ids := make([]int, len(classes))
	for i, c := range classes {
		ids[i] = c.ID
	}
	sort.Ints(ids)
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	op := "|"
	if intersect {
		op = "&"
	}
	return strings.Join(parts, op)
}

func nameOf(n *Node) string {
	if n == nil {
		return ""
	}
	return n.Name
}

func refOf(n *Node) string {
	if n == nil {
		return ""
	}
	return n.Ref
}

// rewire replaces every edge to a forwarded node with its replacement.
func (s *simplifier) rewire(g *Graph) {
	for i := range g.TopLevels {
		g.TopLevels[i].Node = s.follow(g.TopLevels[i].Node)
	}
	g.Walk(func(n *Node) {
		for _, p := range n.Properties {
			p.Type = s.follow(p.Type)
		}
		n.Items = s.follow(n.Items)
		n.Values = s.follow(n.Values)
		for i, m := range n.Members {
			n.Members[i] = s.follow(m)
		}
	})
}
