package schema

import "strings"

// Tag is one JSON Schema primitive type.
type Tag uint8

const (
	TagObject Tag = 1 << iota
	TagArray
	TagString
	TagNumber
	TagInteger
	TagBoolean
	TagNull
)

// TagSet is the set of primitive types a fragment was classified as.
type TagSet uint8

// AllTags is the classification of an unconstrained fragment
const AllTags = TagSet(TagObject | TagArray | TagString | TagNumber | TagInteger | TagBoolean | TagNull)

var tagNames = []struct {
	tag  Tag
	name string
}{
	{TagObject, "object"},
	{TagArray, "array"},
	{TagString, "string"},
	{TagNumber, "number"},
	{TagInteger, "integer"},
	{TagBoolean, "boolean"},
	{TagNull, "null"},
}

// ParseTag maps a JSON Schema type name to its Tag
func ParseTag(name string) (Tag, bool) {
	for _, tn := range tagNames {
		if tn.name == name {
			return tn.tag, true
		}
	}
	return 0, false
}

// TagsOf builds a TagSet from type names, ignoring unknown names
func TagsOf(names ...string) TagSet {
	var s TagSet
	for _, n := range names {
		if t, ok := ParseTag(n); ok {
			s |= TagSet(t)
		}
	}
	return s
}

// Has reports whether t is in the set
func (s TagSet) Has(t Tag) bool {
	return s&TagSet(t) != 0
}

// With returns the set with t added
func (s TagSet) With(t Tag) TagSet {
	return s | TagSet(t)
}

// Names returns the type names in the set in a fixed order
func (s TagSet) Names() []string {
	var out []string
	for _, tn := range tagNames {
		if s.Has(tn.tag) {
			out = append(out, tn.name)
		}
	}
	return out
}

func (s TagSet) String() string {
	return "[" + strings.Join(s.Names(), ",") + "]"
}

var (
	objectKeywords = []string{"properties", "additionalProperties", "patternProperties", "required", "minProperties", "maxProperties", "propertyNames"}
	arrayKeywords  = []string{"items", "prefixItems", "additionalItems", "minItems", "maxItems", "uniqueItems", "contains"}
	stringKeywords = []string{"minLength", "maxLength", "pattern", "format"}
	numberKeywords = []string{"minimum", "maximum", "exclusiveMinimum", "exclusiveMaximum", "multipleOf"}
)

// Classifier computes the type tags of fragments of one document.
type Classifier struct {
	doc      *Document
	visiting map[string]bool
}

// NewClassifier creates a classifier for doc
func NewClassifier(doc *Document) *Classifier {
	return &Classifier{doc: doc, visiting: make(map[string]bool)}
}

// Classify returns the primitive types the fragment at pointer can describe.
// An explicit "type" wins; otherwise the tags are inferred from the keywords
// present, following references and combinators. A fragment that constrains
// nothing is classified as every type.
func (c *Classifier) Classify(pointer string, v any) TagSet {
	switch t := v.(type) {
	case bool:
		if t {
			return AllTags
		}
		return 0
	case *Object:
		return c.classifyObject(pointer, t)
	default:
		return 0
	}
}

func (c *Classifier) classifyObject(pointer string, o *Object) TagSet {
	if tv, ok := o.Get("type"); ok {
		switch t := tv.(type) {
		case string:
			return TagsOf(t)
		case []any:
			var s TagSet
			for _, item := range t {
				if name, ok := item.(string); ok {
					s |= TagsOf(name)
				}
			}
			return s
		}
	}

	if ref, ok := o.String("$ref"); ok {
		if c.visiting[pointer] {
			return AllTags
		}
		target, tv, err := c.doc.ResolveRef(pointer, ref)
		if err != nil {
			return AllTags
		}
		c.visiting[pointer] = true
		defer delete(c.visiting, pointer)
		return c.Classify(target, tv)
	}

	if values, ok := o.Array("enum"); ok {
		var s TagSet
		for _, v := range values {
			s |= TagsOf(TypeName(v))
		}
		return s
	}
	if cv, ok := o.Get("const"); ok {
		return TagsOf(TypeName(cv))
	}

	var s TagSet
	constrained := false
	for _, kw := range []string{"oneOf", "anyOf"} {
		if members, ok := o.Array(kw); ok {
			constrained = true
			for i, m := range members {
				s |= c.Classify(Index(Child(pointer, kw), i), m)
			}
		}
	}
	if members, ok := o.Array("allOf"); ok && len(members) > 0 {
		constrained = true
		all := AllTags
		for i, m := range members {
			all &= c.Classify(Index(Child(pointer, "allOf"), i), m)
		}
		s |= all
	}

	if hasAny(o, objectKeywords) {
		constrained = true
		s = s.With(TagObject)
	}
	if hasAny(o, arrayKeywords) {
		constrained = true
		s = s.With(TagArray)
	}
	if hasAny(o, stringKeywords) {
		constrained = true
		s = s.With(TagString)
	}
	if hasAny(o, numberKeywords) {
		constrained = true
		s = s.With(TagNumber).With(TagInteger)
	}
	if !constrained {
		return AllTags
	}
	return s
}

func hasAny(o *Object, keys []string) bool {
	for _, k := range keys {
		if o.Has(k) {
			return true
		}
	}
	return false
}
