package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	cerrors "github.com/conduit-lang/schemagen/internal/compiler/errors"
	"github.com/conduit-lang/schemagen/internal/compiler/extension"
)

const playerJSON = `{
	"type": "object",
	"gameObject": true,
	"properties": {
		"name": {"type": "string"},
		"health": {"type": "integer", "default": 100}
	},
	"required": ["name"]
}`

const playerYAML = `
type: object
gameObject: true
properties:
  name:
    type: string
  health:
    type: integer
    default: 100
required: [name]
`

var playerLines = []string{
	"export class Player extends GameObject {",
	"    name: string;",
	"    health?: number = 100;",
	"}",
}

func TestGenerate(t *testing.T) {
	tests := []struct {
		name   string
		source string
		doc    string
	}{
		{"json", "player.json", playerJSON},
		{"yaml", "player.yaml", playerYAML},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Generate(tt.source, []byte(tt.doc), Options{ValidateSchema: true})
			require.NoError(t, err)
			assert.Equal(t, playerLines, res.Lines)
			require.Len(t, res.Graph.TopLevels, 1)
			assert.Equal(t, "player", res.Graph.TopLevels[0].Name)
		})
	}
}

func TestGenerate_Options(t *testing.T) {
	res, err := Generate("player.json", []byte(`{
		"type": "object",
		"isEntity": true,
		"properties": {"hp": {"type": "integer", "init": 3}}
	}`), Options{
		TopLevel: "Hero",
		Indent:   2,
		Extension: extension.Options{
			MarkerKey:  "isEntity",
			DefaultKey: "init",
			Supertype:  "Entity",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"export class Hero extends Entity {",
		"  hp?: number = 3;",
		"}",
	}, res.Lines)
}

func TestGenerate_ErrorsLeaveNoOutput(t *testing.T) {
	tests := []struct {
		name     string
		doc      string
		validate bool
		code     cerrors.ErrorCode
	}{
		{"marker of wrong type", `{"type": "object", "gameObject": "yes"}`, true, cerrors.ErrSchemaExtensionType},
		{"inconsistent defaults", `{"anyOf": [{"type": "integer", "default": 5}, {"type": "integer", "default": 7}]}`, true, cerrors.ErrInconsistentDefault},
		{"invalid document", `{"type": `, true, cerrors.ErrInvalidDocument},
		{"meta-schema violation", `{"type": "thing"}`, true, cerrors.ErrMetaSchemaViolation},
		{"unresolved reference", `{"$ref": "#/definitions/Nope"}`, false, cerrors.ErrUnresolvedReference},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Generate("bad.json", []byte(tt.doc), Options{ValidateSchema: tt.validate})
			require.Error(t, err)
			assert.Nil(t, res)
			assert.True(t, cerrors.HasCode(err, tt.code), "got %v", err)
		})
	}
}

func TestGenerate_Idempotent(t *testing.T) {
	doc := []byte(`{
		"definitions": {
			"Vec": {"type": "object", "properties": {"x": {"type": "number", "default": 0}, "y": {"type": "number", "default": 0}}},
			"Kind": {"enum": ["melee", "ranged"]}
		},
		"type": "object",
		"gameObject": true,
		"properties": {
			"pos": {"$ref": "#/definitions/Vec"},
			"vel": {"oneOf": [{"$ref": "#/definitions/Vec"}, {"type": "null"}]},
			"kind": {"$ref": "#/definitions/Kind"},
			"stats": {"type": "object", "additionalProperties": {"type": "integer"}}
		}
	}`)

	first, err := Generate("unit.json", doc, Options{})
	require.NoError(t, err)
	second, err := Generate("unit.json", doc, Options{})
	require.NoError(t, err)
	assert.Equal(t, first.Lines, second.Lines)
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "player.json")
	require.NoError(t, os.WriteFile(path, []byte(playerJSON), 0o644))

	core, logs := observer.New(zapcore.DebugLevel)
	res, err := Run(Options{Path: path, Logger: zap.New(core)})
	require.NoError(t, err)
	assert.Equal(t, playerLines, res.Lines)

	done := logs.FilterMessage("generation complete").All()
	require.Len(t, done, 1)
	assert.Equal(t, path, done[0].ContextMap()["source"])
	assert.NotZero(t, logs.FilterMessage("attribute attached").Len())
}

func TestRun_MissingFile(t *testing.T) {
	_, err := Run(Options{Path: filepath.Join(t.TempDir(), "missing.json")})
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestGenerate_Names(t *testing.T) {
	res, err := Generate("player.json", []byte(`{
		"type": "object",
		"properties": {"pos": {"type": "object", "properties": {"x": {"type": "number"}}}}
	}`), Options{})
	require.NoError(t, err)

	root := res.Graph.TopLevels[0].Node
	assert.Equal(t, "Player", res.Names[root])
	p, ok := root.Property("pos")
	require.True(t, ok)
	assert.Equal(t, "Pos", res.Names[p.Type])
}
