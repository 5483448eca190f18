package schema

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeJSON_PreservesKeyOrder(t *testing.T) {
	v, err := DecodeJSON([]byte(`{"zeta": 1, "alpha": {"b": true, "a": null}, "mid": [1, "x"]}`))
	require.NoError(t, err)

	obj, ok := v.(*Object)
	require.True(t, ok)
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, obj.Keys())

	alpha, ok := obj.Object("alpha")
	require.True(t, ok)
	assert.Equal(t, []string{"b", "a"}, alpha.Keys())
	assert.True(t, alpha.Has("a"), "null values must still count as present")

	zeta, _ := obj.Get("zeta")
	assert.Equal(t, json.Number("1"), zeta)

	mid, ok := obj.Array("mid")
	require.True(t, ok)
	assert.Equal(t, []any{json.Number("1"), "x"}, mid)
}

func TestDecodeJSON_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ``},
		{"truncated object", `{"a": 1`},
		{"trailing data", `{"a": 1} {"b": 2}`},
		{"bare word", `nope`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeJSON([]byte(tt.input))
			assert.Error(t, err)
		})
	}
}

func TestDecodeYAML(t *testing.T) {
	src := `
type: object
properties:
  health:
    type: integer
    default: 100
  speed:
    type: number
    default: 1.5
  name:
    type: string
    default: ~
gameObject: true
`
	v, err := DecodeYAML([]byte(src))
	require.NoError(t, err)

	obj := v.(*Object)
	assert.Equal(t, []string{"type", "properties", "gameObject"}, obj.Keys())

	props, _ := obj.Object("properties")
	assert.Equal(t, []string{"health", "speed", "name"}, props.Keys())

	health, _ := props.Object("health")
	def, _ := health.Get("default")
	assert.Equal(t, json.Number("100"), def)

	speed, _ := props.Object("speed")
	def, _ = speed.Get("default")
	assert.Equal(t, json.Number("1.5"), def)

	name, _ := props.Object("name")
	def, ok := name.Get("default")
	assert.True(t, ok)
	assert.Nil(t, def)

	marker, _ := obj.Get("gameObject")
	assert.Equal(t, true, marker)
}

func TestDecode_SniffsFormat(t *testing.T) {
	v, err := Decode("schema", []byte("  {\"type\": \"string\"}"))
	require.NoError(t, err)
	assert.IsType(t, &Object{}, v)

	v, err = Decode("schema", []byte("type: string\n"))
	require.NoError(t, err)
	s, _ := v.(*Object).String("type")
	assert.Equal(t, "string", s)
}

func TestObject_MarshalJSON(t *testing.T) {
	v, err := DecodeJSON([]byte(`{"b": 1, "a": [true, {"y": "z", "x": null}]}`))
	require.NoError(t, err)

	out, err := json.Marshal(v)
	require.NoError(t, err)
	assert.Equal(t, `{"b":1,"a":[true,{"y":"z","x":null}]}`, string(out))
}
