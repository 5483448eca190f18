package typegraph

import (
	cerrors "github.com/conduit-lang/schemagen/internal/compiler/errors"
	"github.com/conduit-lang/schemagen/internal/compiler/schema"
)

// shapeKeywords make a fragment describe a structure of its own, in which
// case sibling oneOf/anyOf lists are ignored.
var shapeKeywords = []string{
	"type", "properties", "additionalProperties", "required",
	"items", "prefixItems", "minItems", "maxItems",
	"minLength", "maxLength", "pattern", "format",
	"minimum", "maximum", "exclusiveMinimum", "exclusiveMaximum", "multipleOf",
}

// tagOrder is the order union members are built in
var tagOrder = []schema.Tag{
	schema.TagObject,
	schema.TagArray,
	schema.TagString,
	schema.TagNumber,
	schema.TagInteger,
	schema.TagBoolean,
	schema.TagNull,
}

// fill shapes n after the fragment value.
func (v *visitor) fill(n *Node, pointer string, value any, tags schema.TagSet, hint string) error {
	obj, ok := value.(*schema.Object)
	if !ok {
		b, isBool := value.(bool)
		if !isBool {
			return cerrors.NewUnsupportedConstruct(v.doc.Reference(pointer), "schema of type "+schema.TypeName(value))
		}
		if b {
			n.Kind = KindAny
		} else {
			n.Kind = KindNone
		}
		return nil
	}

	if title, ok := obj.String("title"); ok && title != "" {
		n.Name = title
		hint = title
	}

	if values, ok := obj.Array("enum"); ok {
		return v.fillEnum(n, values)
	}
	if c, ok := obj.Get("const"); ok {
		return v.fillEnum(n, []any{c})
	}

	structural := false
	for _, kw := range shapeKeywords {
		if obj.Has(kw) {
			structural = true
			break
		}
	}

	var choices []*Node
	if !structural {
		for _, kw := range []string{"oneOf", "anyOf"} {
			members, ok := obj.Array(kw)
			if !ok {
				continue
			}
			for i, m := range members {
				mn, err := v.node(schema.Index(schema.Child(pointer, kw), i), m, hint)
				if err != nil {
					return err
				}
				choices = append(choices, mn)
			}
		}
	}

	allOf, hasAllOf := obj.Array("allOf")
	if !hasAllOf || len(allOf) == 0 {
		if len(choices) > 0 {
			n.Kind = KindUnion
			n.Members = choices
			return nil
		}
		return v.fillTags(n, pointer, obj, tags, hint)
	}

	n.Kind = KindIntersection
	for i, m := range allOf {
		mn, err := v.node(schema.Index(schema.Child(pointer, "allOf"), i), m, hint)
		if err != nil {
			return err
		}
		n.Members = append(n.Members, mn)
	}
	if len(choices) > 0 {
		u := v.b.newNode(KindUnion, hint, n.Ref)
		u.Members = choices
		n.Members = append(n.Members, u)
	}
	if structural {
		own := v.b.newNode(KindAny, hint, n.Ref)
		if err := v.fillTags(own, pointer, obj, v.ownTags(obj), hint); err != nil {
			return err
		}
		n.Members = append(n.Members, own)
	}
	return nil
}

// ownTags classifies a fragment by its own keywords, ignoring allOf.
func (v *visitor) ownTags(obj *schema.Object) schema.TagSet {
	stripped := schema.NewObject()
	for _, k := range obj.Keys() {
		if k == "allOf" || k == "oneOf" || k == "anyOf" {
			continue
		}
		val, _ := obj.Get(k)
		stripped.Set(k, val)
	}
	return v.classifier.Classify("", stripped)
}

// fillEnum shapes an enum or const. String cases form an enum; other values
// contribute their primitive type to a union.
func (v *visitor) fillEnum(n *Node, values []any) error {
	var cases []string
	seen := make(map[string]bool)
	var others schema.TagSet
	for _, val := range values {
		if s, ok := val.(string); ok {
			if !seen[s] {
				seen[s] = true
				cases = append(cases, s)
			}
			continue
		}
		others |= schema.TagsOf(schema.TypeName(val))
	}

	var members []*Node
	if len(cases) > 0 {
		e := v.b.newNode(KindEnum, n.Name, n.Ref)
		e.Cases = cases
		members = append(members, e)
	}
	for _, tag := range shapeTags(others) {
		members = append(members, v.b.newNode(scalarKind(tag), n.Name, n.Ref))
	}

	switch len(members) {
	case 0:
		n.Kind = KindNone
	case 1:
		n.Kind = members[0].Kind
		n.Cases = members[0].Cases
	default:
		n.Kind = KindUnion
		n.Members = members
	}
	return nil
}

// fillTags shapes n from its primitive classification; more than one
// primitive type makes n a union with one member per type.
func (v *visitor) fillTags(n *Node, pointer string, obj *schema.Object, tags schema.TagSet, hint string) error {
	if tags == schema.AllTags {
		n.Kind = KindAny
		return nil
	}
	shapes := shapeTags(tags)
	switch len(shapes) {
	case 0:
		n.Kind = KindNone
		return nil
	case 1:
		return v.fillShape(n, pointer, obj, shapes[0], hint)
	}

	n.Kind = KindUnion
	for _, tag := range shapes {
		m := v.b.newNode(KindAny, n.Name, n.Ref)
		if err := v.fillShape(m, pointer, obj, tag, hint); err != nil {
			return err
		}
		n.Members = append(n.Members, m)
	}
	return nil
}

func (v *visitor) fillShape(n *Node, pointer string, obj *schema.Object, tag schema.Tag, hint string) error {
	switch tag {
	case schema.TagObject:
		return v.fillObject(n, pointer, obj, hint)
	case schema.TagArray:
		return v.fillArray(n, pointer, obj, hint)
	default:
		n.Kind = scalarKind(tag)
		return nil
	}
}

// fillObject makes a class when the fragment declares properties or closes
// itself with additionalProperties: false, and a map otherwise.
func (v *visitor) fillObject(n *Node, pointer string, obj *schema.Object, hint string) error {
	props, hasProps := obj.Object("properties")
	additional, hasAdditional := obj.Get("additionalProperties")
	closed := hasAdditional && additional == false

	if !hasProps && !closed {
		n.Kind = KindMap
		if !hasAdditional || additional == true {
			n.Values = v.b.newNode(KindAny, hint+"Value", n.Ref)
			return nil
		}
		values, err := v.node(schema.Child(pointer, "additionalProperties"), additional, hint+"Value")
		if err != nil {
			return err
		}
		n.Values = values
		return nil
	}

	required := make(map[string]bool)
	if list, ok := obj.Array("required"); ok {
		for _, r := range list {
			if name, ok := r.(string); ok {
				required[name] = true
			}
		}
	}

	n.Kind = KindClass
	if props == nil {
		return nil
	}
	base := schema.Child(pointer, "properties")
	for _, key := range props.Keys() {
		pv, _ := props.Get(key)
		pt, err := v.node(schema.Child(base, key), pv, key)
		if err != nil {
			return err
		}
		n.Properties = append(n.Properties, &Property{Name: key, Type: pt, Optional: !required[key]})
	}
	return nil
}

func (v *visitor) fillArray(n *Node, pointer string, obj *schema.Object, hint string) error {
	n.Kind = KindArray
	element := hint + "Element"

	for _, kw := range []string{"prefixItems", "items"} {
		raw, ok := obj.Get(kw)
		if !ok {
			continue
		}
		tuple, isTuple := raw.([]any)
		if !isTuple {
			items, err := v.node(schema.Child(pointer, kw), raw, element)
			if err != nil {
				return err
			}
			n.Items = items
			return nil
		}
		u := v.b.newNode(KindUnion, element, n.Ref)
		for i, item := range tuple {
			m, err := v.node(schema.Index(schema.Child(pointer, kw), i), item, element)
			if err != nil {
				return err
			}
			u.Members = append(u.Members, m)
		}
		n.Items = u
		return nil
	}

	n.Items = v.b.newNode(KindAny, element, n.Ref)
	return nil
}

// shapeTags lists the tags to build members for. Number subsumes integer.
func shapeTags(tags schema.TagSet) []schema.Tag {
	var out []schema.Tag
	for _, t := range tagOrder {
		if !tags.Has(t) {
			continue
		}
		if t == schema.TagInteger && tags.Has(schema.TagNumber) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func scalarKind(tag schema.Tag) NodeKind {
	switch tag {
	case schema.TagString:
		return KindString
	case schema.TagNumber:
		return KindNumber
	case schema.TagInteger:
		return KindInteger
	case schema.TagBoolean:
		return KindBool
	case schema.TagNull:
		return KindNull
	}
	return KindAny
}
