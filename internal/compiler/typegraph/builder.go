package typegraph

import (
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/conduit-lang/schemagen/internal/compiler/attr"
	cerrors "github.com/conduit-lang/schemagen/internal/compiler/errors"
	"github.com/conduit-lang/schemagen/internal/compiler/schema"
)

// Options configures a Builder.
type Options struct {
	// ValidateSchema checks every source against its meta-schema before
	// the graph is built from it.
	ValidateSchema bool
	// Logger receives debug output about attribute attachment and merging.
	Logger *zap.Logger
}

// Builder turns schema documents into a type graph.
type Builder struct {
	opts      Options
	logger    *zap.Logger
	nextID    int
	topLevels []TopLevel
	finished  bool
}

// NewBuilder creates an empty builder
func NewBuilder(opts Options) *Builder {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{opts: opts, logger: logger}
}

// TopLevelName derives a top-level type name from a source name:
// "schemas/player.json" becomes "player".
func TopLevelName(source string) string {
	base := filepath.Base(source)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// AddSource parses a document and adds its root as a top-level type named
// after the source. Producers run once per visited fragment, in document order.
func (b *Builder) AddSource(name string, raw []byte, producers ...attr.Producer) error {
	return b.AddNamedSource(TopLevelName(name), name, raw, producers...)
}

// AddNamedSource is AddSource with an explicit top-level type name
func (b *Builder) AddNamedSource(topLevel, name string, raw []byte, producers ...attr.Producer) error {
	doc, err := schema.Parse(name, raw)
	if err != nil {
		return err
	}
	if b.opts.ValidateSchema {
		if err := schema.Validate(doc); err != nil {
			return err
		}
	}

	v := &visitor{
		b:          b,
		doc:        doc,
		classifier: schema.NewClassifier(doc),
		producers:  producers,
		nodes:      make(map[string]*Node),
		building:   make(map[*Node]bool),
		resolving:  make(map[string]bool),
	}
	root, err := v.node("", doc.Root, topLevel)
	if err != nil {
		return err
	}

	b.logger.Debug("source added",
		zap.String("source", name),
		zap.String("top_level", topLevel),
		zap.Int("nodes", b.nextID))
	b.topLevels = append(b.topLevels, TopLevel{Name: topLevel, Node: root})
	return nil
}

// Finish runs the combine phase and returns the simplified graph.
func (b *Builder) Finish() (*Graph, error) {
	if b.finished {
		return nil, cerrors.NewCodeGenFailed("type graph already finished")
	}
	b.finished = true

	s := newSimplifier(b)
	g := &Graph{}
	for _, tl := range b.topLevels {
		n, err := s.resolve(tl.Node)
		if err != nil {
			return nil, err
		}
		g.TopLevels = append(g.TopLevels, TopLevel{Name: tl.Name, Node: n})
	}
	s.rewire(g)
	return g, nil
}

func (b *Builder) newNode(kind NodeKind, name, ref string) *Node {
	b.nextID++
	return &Node{ID: b.nextID, Kind: kind, Name: name, Ref: ref}
}

func (b *Builder) clone(n *Node) *Node {
	c := b.newNode(n.Kind, n.Name, n.Ref)
	c.Attrs = n.Attrs.Clone()
	c.Properties = append([]*Property(nil), n.Properties...)
	c.Items = n.Items
	c.Values = n.Values
	c.Members = append([]*Node(nil), n.Members...)
	c.Cases = append([]string(nil), n.Cases...)
	return c
}

// visitor builds the nodes of one document.
type visitor struct {
	b          *Builder
	doc        *schema.Document
	classifier *schema.Classifier
	producers  []attr.Producer
	// nodes maps JSON pointers to the node built for them
	nodes     map[string]*Node
	building  map[*Node]bool
	resolving map[string]bool
}

// node returns the node for the fragment at pointer, building it on first use.
func (v *visitor) node(pointer string, value any, hint string) (*Node, error) {
	if n, ok := v.nodes[pointer]; ok {
		return n, nil
	}
	if obj, ok := value.(*schema.Object); ok && obj.Has("$ref") {
		return v.reference(pointer, obj, hint)
	}

	n := v.b.newNode(KindAny, hint, v.doc.Reference(pointer))
	v.nodes[pointer] = n
	v.building[n] = true
	defer delete(v.building, n)

	frag := v.fragment(pointer, value)
	contribs, err := v.produce(frag)
	if err != nil {
		return nil, err
	}
	if err := v.fill(n, pointer, value, frag.Tags, hint); err != nil {
		return nil, err
	}
	if err := v.apply(n, contribs); err != nil {
		return nil, err
	}
	return n, nil
}

// reference builds a "$ref" site. The site shares the referenced node unless
// it contributes type attributes of its own: then a scalar target is cloned
// and any other target is wrapped in an alias, so the contribution stays with
// this site and does not reach other users of the definition.
func (v *visitor) reference(pointer string, obj *schema.Object, hint string) (*Node, error) {
	frag := v.fragment(pointer, obj)
	contribs, err := v.produce(frag)
	if err != nil {
		return nil, err
	}

	ref, ok := obj.String("$ref")
	if !ok {
		return nil, cerrors.NewUnsupportedConstruct(frag.Ref, "non-string $ref")
	}
	targetPointer, targetValue, err := v.doc.ResolveRef(pointer, ref)
	if err != nil {
		return nil, err
	}

	var target *Node
	if v.resolving[pointer] {
		// a cycle made only of references describes nothing
		target = v.b.newNode(KindAny, hint, frag.Ref)
	} else {
		v.resolving[pointer] = true
		target, err = v.node(targetPointer, targetValue, definitionName(targetPointer, hint))
		delete(v.resolving, pointer)
		if err != nil {
			return nil, err
		}
	}

	n := target
	switch {
	case !hasTypeContribution(contribs):
	case isPrimitive(target.Kind) && !v.building[target]:
		n = v.b.clone(target)
		n.Ref = frag.Ref
	default:
		n = v.b.newNode(KindAlias, target.Name, frag.Ref)
		n.Members = []*Node{target}
	}
	v.nodes[pointer] = n
	if err := v.apply(n, contribs); err != nil {
		return nil, err
	}
	return n, nil
}

func (v *visitor) fragment(pointer string, value any) attr.Fragment {
	return attr.Fragment{
		Schema: value,
		Ref:    v.doc.Reference(pointer),
		Tags:   v.classifier.Classify(pointer, value),
	}
}

func (v *visitor) produce(frag attr.Fragment) ([]attr.Contribution, error) {
	var out []attr.Contribution
	for _, p := range v.producers {
		contribs, err := p(frag)
		if err != nil {
			return nil, err
		}
		out = append(out, contribs...)
	}
	return out, nil
}

func (v *visitor) apply(n *Node, contribs []attr.Contribution) error {
	for _, c := range contribs {
		target := n
		if c.Target == attr.TargetObject {
			target = objectNode(n)
			if target == nil {
				v.b.logger.Debug("object attribute dropped",
					zap.String("ref", n.Ref),
					zap.String("kind", c.Kind.Name()),
					zap.Stringer("node", n.Kind))
				continue
			}
		}
		set := &target.Attrs
		if c.Target == attr.TargetObject && target.Kind == KindIntersection {
			set = &target.own
		}
		if err := set.Absorb(c); err != nil {
			return cerrors.Locate(err, n.Ref)
		}
		v.b.logger.Debug("attribute attached",
			zap.String("ref", n.Ref),
			zap.String("kind", c.Kind.Name()),
			zap.Int("node", target.ID))
	}
	return nil
}

// objectNode returns the node an object-targeted contribution lands on
func objectNode(n *Node) *Node {
	switch n.Kind {
	case KindClass, KindIntersection:
		return n
	case KindAlias:
		return objectNode(n.Target())
	case KindUnion:
		for _, m := range n.Members {
			if m.Kind == KindClass {
				return m
			}
		}
	}
	return nil
}

func hasTypeContribution(contribs []attr.Contribution) bool {
	for _, c := range contribs {
		if c.Target == attr.TargetType {
			return true
		}
	}
	return false
}

func isPrimitive(k NodeKind) bool {
	return k.IsScalar() && k != KindEnum
}

// definitionName picks a naming hint for a referenced fragment:
// "#/definitions/Player" is named "Player".
func definitionName(pointer, fallback string) string {
	if pointer == "" {
		return fallback
	}
	if name := schema.LastToken(pointer); name != "" {
		return name
	}
	return fallback
}
