package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/conduit-lang/schemagen/internal/cli/ui"
)

// FileName is the configuration file looked up in the working directory
const FileName = "schemagen.yml"

// EnvPrefix prefixes environment overrides: SCHEMAGEN_SUPERTYPE and so on
const EnvPrefix = "SCHEMAGEN"

// Config represents the schemagen configuration
type Config struct {
	// TopLevel names the root type; empty derives it from the schema file name
	TopLevel       string `mapstructure:"top_level" yaml:"top_level,omitempty"`
	Supertype      string `mapstructure:"supertype" yaml:"supertype"`
	MarkerKey      string `mapstructure:"marker_key" yaml:"marker_key"`
	DefaultKey     string `mapstructure:"default_key" yaml:"default_key"`
	ValidateSchema bool   `mapstructure:"validate_schema" yaml:"validate_schema"`
	LogLevel       string `mapstructure:"log_level" yaml:"log_level"`
	Indent         int    `mapstructure:"indent" yaml:"indent"`
}

var keys = []string{
	"top_level",
	"supertype",
	"marker_key",
	"default_key",
	"validate_schema",
	"log_level",
	"indent",
}

var logLevels = []string{"debug", "info", "warn", "error"}

// Default returns the configuration used when no file or environment
// override is present
func Default() *Config {
	return &Config{
		Supertype:      "GameObject",
		MarkerKey:      "gameObject",
		DefaultKey:     "default",
		ValidateSchema: true,
		LogLevel:       "info",
		Indent:         4,
	}
}

// Load loads the configuration from schemagen.yml or schemagen.yaml in the
// working directory
func Load() (*Config, error) {
	return LoadFrom(".")
}

// LoadFrom loads the configuration from dir
func LoadFrom(dir string) (*Config, error) {
	v := viper.New()

	def := Default()
	v.SetDefault("top_level", def.TopLevel)
	v.SetDefault("supertype", def.Supertype)
	v.SetDefault("marker_key", def.MarkerKey)
	v.SetDefault("default_key", def.DefaultKey)
	v.SetDefault("validate_schema", def.ValidateSchema)
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("indent", def.Indent)

	v.SetConfigName("schemagen")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found - use defaults
	}

	if err := checkKeys(v.AllKeys()); err != nil {
		return nil, err
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// checkKeys rejects keys schemagen does not know, suggesting the closest one
func checkKeys(found []string) error {
	for _, k := range found {
		known := false
		for _, want := range keys {
			if k == want {
				known = true
				break
			}
		}
		if known {
			continue
		}
		msg := fmt.Sprintf("unknown config key %q", k)
		if best := ui.FindBestMatch(k, keys, nil); best != "" {
			msg += fmt.Sprintf(" (did you mean %q?)", best)
		}
		return fmt.Errorf("%s", msg)
	}
	return nil
}

// Validate validates the configuration
func Validate(cfg *Config) error {
	if cfg.TopLevel != "" && strings.TrimSpace(cfg.TopLevel) == "" {
		return fmt.Errorf("top_level must not be blank")
	}
	if !isIdentifier(cfg.Supertype) {
		return fmt.Errorf("supertype must be a TypeScript identifier, got: %q", cfg.Supertype)
	}
	if strings.TrimSpace(cfg.MarkerKey) == "" {
		return fmt.Errorf("marker_key must not be empty")
	}
	if strings.TrimSpace(cfg.DefaultKey) == "" {
		return fmt.Errorf("default_key must not be empty")
	}
	if cfg.MarkerKey == cfg.DefaultKey {
		return fmt.Errorf("marker_key and default_key must differ, both are %q", cfg.MarkerKey)
	}
	if cfg.Indent < 1 || cfg.Indent > 16 {
		return fmt.Errorf("indent must be between 1 and 16, got: %d", cfg.Indent)
	}
	level := strings.ToLower(cfg.LogLevel)
	for _, l := range logLevels {
		if level == l {
			return nil
		}
	}
	return fmt.Errorf("log_level must be one of %s, got: %q", strings.Join(logLevels, ", "), cfg.LogLevel)
}

// Write stores cfg as YAML at path. It refuses to overwrite an existing
// file unless force is set.
func Write(path string, cfg *Config, force bool) error {
	if err := Validate(cfg); err != nil {
		return err
	}
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists", filepath.Base(path))
		}
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || r == '$' || unicode.IsLetter(r):
		case i > 0 && unicode.IsDigit(r):
		default:
			return false
		}
	}
	return true
}
