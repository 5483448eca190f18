package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := LoadFrom(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	content := `
top_level: Hero
supertype: Entity
marker_key: isEntity
default_key: init
validate_schema: false
log_level: debug
indent: 2
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0644))

	cfg, err := LoadFrom(dir)
	require.NoError(t, err)
	assert.Equal(t, &Config{
		TopLevel:       "Hero",
		Supertype:      "Entity",
		MarkerKey:      "isEntity",
		DefaultKey:     "init",
		ValidateSchema: false,
		LogLevel:       "debug",
		Indent:         2,
	}, cfg)
}

func TestLoad_YAMLExtension(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "schemagen.yaml"), []byte("supertype: Actor\n"), 0644))

	cfg, err := LoadFrom(dir)
	require.NoError(t, err)
	assert.Equal(t, "Actor", cfg.Supertype)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("SCHEMAGEN_SUPERTYPE", "Node2D")
	t.Setenv("SCHEMAGEN_INDENT", "8")

	cfg, err := LoadFrom(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "Node2D", cfg.Supertype)
	assert.Equal(t, 8, cfg.Indent)
}

func TestLoad_UnknownKeySuggestsClosest(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("supertyp: Entity\n"), 0644))

	_, err := LoadFrom(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown config key "supertyp"`)
	assert.Contains(t, err.Error(), `did you mean "supertype"?`)
}

func TestLoad_InvalidFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("indent: [\n"), 0644))

	_, err := LoadFrom(dir)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"supertype with dot", func(c *Config) { c.Supertype = "game.Object" }, "supertype"},
		{"empty supertype", func(c *Config) { c.Supertype = "" }, "supertype"},
		{"leading digit", func(c *Config) { c.Supertype = "3D" }, "supertype"},
		{"empty marker key", func(c *Config) { c.MarkerKey = " " }, "marker_key"},
		{"empty default key", func(c *Config) { c.DefaultKey = "" }, "default_key"},
		{"same keys", func(c *Config) { c.DefaultKey = c.MarkerKey }, "must differ"},
		{"indent zero", func(c *Config) { c.Indent = 0 }, "indent"},
		{"indent too large", func(c *Config) { c.Indent = 40 }, "indent"},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, "log_level"},
		{"log level case", func(c *Config) { c.LogLevel = "DEBUG" }, ""},
		{"blank top level", func(c *Config) { c.TopLevel = "  " }, "top_level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			err := Validate(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)

	cfg := Default()
	cfg.Supertype = "Entity"
	require.NoError(t, Write(path, cfg, false))

	loaded, err := LoadFrom(dir)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)

	err = Write(path, cfg, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	assert.NoError(t, Write(path, cfg, true))
}
