package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"

	"github.com/anirudhraja/gdvariant/registry"
	"github.com/anirudhraja/gdvariant/wire"
)

// Output formats accepted by the decode command
var OutputFormats = []string{"yaml", "json", "cbor", "cbor-diag", "hex"}

// Config holds CLI settings from the TOML file
type Config struct {
	Protocol      registry.Protocol
	MaxDepth      int
	StrictPadding bool
	LogLevel      string
	Output        string
	IndentJSON    bool
}

type fileConfig struct {
	Protocol      string `toml:"protocol"`
	MaxDepth      int    `toml:"max_depth"`
	StrictPadding bool   `toml:"strict_padding"`
	LogLevel      string `toml:"log_level"`
	Output        string `toml:"output"`
	IndentJSON    bool   `toml:"indent_json"`
}

// Default returns the built-in settings, including wire environment overrides
func Default() Config {
	wc := wire.DefaultConfig()
	return Config{
		Protocol:      registry.Godot3,
		MaxDepth:      wc.MaxDepth,
		StrictPadding: wc.StrictPadding,
		Output:        "yaml",
		IndentJSON:    true,
	}
}

// Load reads a TOML config file over the defaults
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	cfg, err := Parse(string(data))
	if err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes TOML text over the defaults. Only keys present in the text
// change a setting; unknown keys are an error.
func Parse(data string) (Config, error) {
	cfg := Default()

	var raw fileConfig
	meta, err := toml.Decode(data, &raw)
	if err != nil {
		return Config{}, err
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("unknown key %q", undecoded[0].String())
	}

	if meta.IsDefined("protocol") {
		p, err := registry.ParseProtocol(strings.TrimSpace(raw.Protocol))
		if err != nil {
			return Config{}, fmt.Errorf("parse protocol: %w", err)
		}
		cfg.Protocol = p
	}

	if meta.IsDefined("max_depth") {
		if raw.MaxDepth <= 0 {
			return Config{}, fmt.Errorf("max_depth must be positive, got %d", raw.MaxDepth)
		}
		cfg.MaxDepth = raw.MaxDepth
	}

	if meta.IsDefined("strict_padding") {
		cfg.StrictPadding = raw.StrictPadding
	}

	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.TrimSpace(raw.LogLevel)
	}

	if meta.IsDefined("output") {
		if err := ValidateOutput(raw.Output); err != nil {
			return Config{}, err
		}
		cfg.Output = raw.Output
	}

	if meta.IsDefined("indent_json") {
		cfg.IndentJSON = raw.IndentJSON
	}

	return cfg, nil
}

// ValidateOutput checks an output format name
func ValidateOutput(format string) error {
	for _, f := range OutputFormats {
		if f == format {
			return nil
		}
	}
	return fmt.Errorf("unknown output format %q (want one of %s)", format, strings.Join(OutputFormats, ", "))
}

// Registry returns the type table for the configured protocol
func (c Config) Registry() *registry.Registry {
	return registry.New(c.Protocol)
}

// WireConfig returns codec settings that log through logger
func (c Config) WireConfig(logger zerolog.Logger) wire.Config {
	return wire.Config{
		MaxDepth:      c.MaxDepth,
		StrictPadding: c.StrictPadding,
		Logger:        logger,
	}
}
