package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	cerrors "github.com/conduit-lang/schemagen/internal/compiler/errors"
)

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		s1, s2   string
		expected int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"kitten", "sitting", 3},
		{"supertyp", "supertype", 1},
		{"Playr", "Player", 1},
		{"héros", "heros", 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, LevenshteinDistance(tt.s1, tt.s2), "%q -> %q", tt.s1, tt.s2)
	}
}

func TestFindSimilar(t *testing.T) {
	candidates := []string{"Player", "Position", "Enemy", "Plays"}

	assert.Equal(t, []string{"Player", "Plays"}, FindSimilar("playr", candidates, nil))
	assert.Empty(t, FindSimilar("Inventory", candidates, nil))
	assert.Empty(t, FindSimilar("playr", candidates, &FuzzyMatchOptions{CaseSensitive: true, MaxDistance: 1}))
	assert.Equal(t, []string{"Player"}, FindSimilar("Playr", candidates, &FuzzyMatchOptions{MaxSuggestions: 1}))
	assert.Equal(t, "Enemy", FindBestMatch("enemi", candidates, nil))
	assert.Equal(t, "", FindBestMatch("zzzzzzzz", candidates, nil))
}

func TestFormatError(t *testing.T) {
	out := FormatError(ErrorOptions{
		Context:      "type not found",
		Problem:      "Cannot find type 'Playr'.",
		Location:     "player.json#",
		Details:      []string{"expected: boolean"},
		Suggestions:  []string{"Player"},
		HelpCommands: []string{"See all types"},
		NoColor:      true,
	})

	for _, want := range []string{
		"❌ TYPE NOT FOUND: Cannot find type 'Playr'.",
		"   --> player.json#",
		"   expected: boolean",
		"   Did you mean: Player?",
		"   → See all types",
	} {
		assert.Contains(t, out, want)
	}

	warn := FormatError(ErrorOptions{Level: ErrorLevelWarning, Problem: "careful", NoColor: true})
	assert.True(t, strings.HasPrefix(warn, "⚠️ careful"))
}

func TestGenerationError(t *testing.T) {
	err := cerrors.NewSchemaExtensionTypeError("player.json#/properties/a", "gameObject", "boolean", "string")
	out := GenerationError(err, true)

	assert.Contains(t, out, "SCHEMA EXTENSION TYPE [ATR200]")
	assert.Contains(t, out, "--> player.json#/properties/a")
	assert.Contains(t, out, "expected: boolean")
	assert.Contains(t, out, "actual:   string")
	assert.Contains(t, out, `→ Set "gameObject" to a boolean value or remove it`)

	plain := GenerationError(errors.New("disk on fire"), true)
	assert.Contains(t, plain, "GENERATION FAILED: disk on fire")
}

func TestTypeNotFoundError(t *testing.T) {
	out := TypeNotFoundError("Playr", []string{"Player", "Enemy"}, true)
	assert.Contains(t, out, "Cannot find type 'Playr'.")
	assert.Contains(t, out, "Did you mean: Player?")
}

func TestTable(t *testing.T) {
	var buf bytes.Buffer
	table := NewTable(&buf, []string{"Name", "Kind", "Attributes"}, true)
	table.AddRow("Player", "class", "marker=true")
	table.AddRow("Élan", "enum")
	table.Render()

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	assert.Equal(t, []string{
		"Name    Kind   Attributes",
		"──────  ─────  ───────────",
		"Player  class  marker=true",
		"Élan    enum   ",
	}, lines)
	assert.Equal(t, 2, table.Len())
}

func TestKeyValueTable(t *testing.T) {
	var buf bytes.Buffer
	kv := NewKeyValueTable(&buf, true)
	kv.AddRow("Version", "1.0.0")
	kv.AddRow("Go", "go1.23")
	kv.Render()

	assert.Equal(t, "Version: 1.0.0\nGo:      go1.23\n", buf.String())
}

func TestHeader(t *testing.T) {
	var buf bytes.Buffer
	Header(&buf, "Types", true)
	assert.Equal(t, "Types\n─────\n", buf.String())
}
