// Package config handles exporter configuration loading and management.
package config

import (
	"fmt"

	"github.com/Faultbox/bufexport/pkg/buf"
	bufmath "github.com/Faultbox/bufexport/pkg/math"
)

// Config holds all exporter settings.
type Config struct {
	Export  ExportConfig  `yaml:"export"`
	Input   InputConfig   `yaml:"input"`
	Logging LoggingConfig `yaml:"logging"`
}

// ExportConfig holds BUF output settings.
type ExportConfig struct {
	Shading    string `yaml:"shading"`     // flat or smooth
	NormalMode string `yaml:"normal_mode"` // linear or inverse_transpose
	Generator  string `yaml:"generator"`
	Indent     int    `yaml:"indent"` // Spaces per JSON level, 0 = compact
}

// InputConfig holds scene loading settings.
type InputConfig struct {
	Object   string `yaml:"object"`   // Object to export, empty = first mesh
	Encoding string `yaml:"encoding"` // Charset of names in OBJ files
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Export: ExportConfig{
			Shading:    string(buf.ShadingFlat),
			NormalMode: string(bufmath.NormalLinear),
			Generator:  buf.DefaultGenerator,
			Indent:     buf.DefaultIndent,
		},
		Input: InputConfig{
			Object:   "",
			Encoding: "",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	if _, err := buf.ParseShading(c.Export.Shading); err != nil {
		return fmt.Errorf("export.shading: %w", err)
	}
	if _, err := bufmath.ParseNormalMode(c.Export.NormalMode); err != nil {
		return fmt.Errorf("export.normal_mode: %w", err)
	}
	if c.Export.Indent < 0 || c.Export.Indent > 8 {
		return fmt.Errorf("export.indent: %d out of range 0-8", c.Export.Indent)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unknown level %q", c.Logging.Level)
	}
	return nil
}

// ExportOptions converts the export section to buf.Options. Call Validate
// first; unparseable values fall back to defaults.
func (c *Config) ExportOptions() buf.Options {
	opts := buf.DefaultOptions()
	if s, err := buf.ParseShading(c.Export.Shading); err == nil {
		opts.Shading = s
	}
	if m, err := bufmath.ParseNormalMode(c.Export.NormalMode); err == nil {
		opts.NormalMode = m
	}
	if c.Export.Generator != "" {
		opts.Generator = c.Export.Generator
	}
	return opts
}
