package schema

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDecode(t *testing.T, s string) any {
	t.Helper()
	v, err := DecodeJSON([]byte(s))
	require.NoError(t, err)
	return v
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want bool
	}{
		{"same integer", `5`, `5`, true},
		{"different integer", `5`, `7`, false},
		{"integer vs float form", `5`, `5.0`, true},
		{"exponent form", `100`, `1e2`, true},
		{"string", `"a"`, `"a"`, true},
		{"string vs number", `"5"`, `5`, false},
		{"null", `null`, `null`, true},
		{"null vs false", `null`, `false`, false},
		{"arrays", `[1, [2, 3]]`, `[1, [2, 3]]`, true},
		{"array order matters", `[1, 2]`, `[2, 1]`, false},
		{"array length", `[1]`, `[1, 1]`, false},
		{"object key order ignored", `{"a": 1, "b": {"c": null}}`, `{"b": {"c": null}, "a": 1}`, true},
		{"object extra key", `{"a": 1}`, `{"a": 1, "b": 2}`, false},
		{"object value differs", `{"a": 1}`, `{"a": 2}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, b := mustDecode(t, tt.a), mustDecode(t, tt.b)
			assert.Equal(t, tt.want, Equal(a, b))
			assert.Equal(t, tt.want, Equal(b, a), "equality must be symmetric")
		})
	}
}

func TestTypeName(t *testing.T) {
	assert.Equal(t, "integer", TypeName(json.Number("3")))
	assert.Equal(t, "integer", TypeName(json.Number("3.0")))
	assert.Equal(t, "number", TypeName(json.Number("3.5")))
	assert.Equal(t, "object", TypeName(NewObject()))
	assert.Equal(t, "null", TypeName(nil))
}
