package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagSet(t *testing.T) {
	s := TagsOf("object", "null", "bogus")
	assert.True(t, s.Has(TagObject))
	assert.True(t, s.Has(TagNull))
	assert.False(t, s.Has(TagString))
	assert.Equal(t, []string{"object", "null"}, s.Names())
	assert.Equal(t, "[object,null]", s.String())
	assert.Len(t, AllTags.Names(), 7)
}

func TestClassifier(t *testing.T) {
	src := `{
  "definitions": {
    "Loop": {"$ref": "#/definitions/Loop"},
    "Obj": {"properties": {}}
  },
  "cases": {
    "typed": {"type": "object"},
    "typeList": {"type": ["string", "null"]},
    "inferredObject": {"required": ["a"]},
    "inferredArray": {"items": {}},
    "inferredString": {"pattern": "^a"},
    "inferredNumber": {"minimum": 0},
    "empty": {},
    "onlyDefault": {"default": 5},
    "ref": {"$ref": "#/definitions/Obj"},
    "loop": {"$ref": "#/definitions/Loop"},
    "enum": {"enum": ["a", 1, null]},
    "const": {"const": true},
    "oneOf": {"oneOf": [{"type": "string"}, {"type": "integer"}]},
    "allOf": {"allOf": [{"type": ["object", "null"]}, {"type": "object"}]},
    "falseSchema": false,
    "trueSchema": true
  }
}`
	doc, err := Parse("c.json", []byte(src))
	require.NoError(t, err)
	c := NewClassifier(doc)

	tests := []struct {
		name string
		want TagSet
	}{
		{"typed", TagsOf("object")},
		{"typeList", TagsOf("string", "null")},
		{"inferredObject", TagsOf("object")},
		{"inferredArray", TagsOf("array")},
		{"inferredString", TagsOf("string")},
		{"inferredNumber", TagsOf("number", "integer")},
		{"empty", AllTags},
		{"onlyDefault", AllTags},
		{"ref", TagsOf("object")},
		{"loop", AllTags},
		{"enum", TagsOf("string", "integer", "null")},
		{"const", TagsOf("boolean")},
		{"oneOf", TagsOf("string", "integer")},
		{"allOf", TagsOf("object")},
		{"falseSchema", 0},
		{"trueSchema", AllTags},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pointer := "/cases/" + tt.name
			v, ok := doc.Lookup(pointer)
			require.True(t, ok)
			assert.Equal(t, tt.want, c.Classify(pointer, v))
		})
	}
}
