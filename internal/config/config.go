// Package config loads ucmtool settings from YAML files and CLI flags.
package config

import (
	"fmt"

	"github.com/Faultbox/ucmtool/internal/logger"
	"github.com/Faultbox/ucmtool/pkg/formats"
)

// FileName is the config file name searched for in the working directory
// and in ConfigDir.
const FileName = "ucmtool.yaml"

// Config holds all tool settings.
type Config struct {
	Logging LoggingConfig `yaml:"logging"`
	Export  ExportConfig  `yaml:"export"`
	OBJ     OBJConfig     `yaml:"obj"`
	GLTF    GLTFConfig    `yaml:"gltf"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// ExportConfig controls how UCM files are written.
type ExportConfig struct {
	Format  string `yaml:"format"`  // "v2" or "legacy"
	Version uint32 `yaml:"version"` // Version tag for newly created models
}

// OBJConfig controls Wavefront OBJ conversion.
type OBJConfig struct {
	FlipV    bool `yaml:"flip_v"`
	Decimals int  `yaml:"decimals"`
	Frame    int  `yaml:"frame"`
}

// GLTFConfig controls glTF export.
type GLTFConfig struct {
	Binary   bool `yaml:"binary"`
	Tags     bool `yaml:"tags"`
	Hitboxes bool `yaml:"hitboxes"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
		Export: ExportConfig{
			Format:  "v2",
			Version: formats.UCMDefaultVersion,
		},
		OBJ: OBJConfig{
			FlipV:    true,
			Decimals: 0,
			Frame:    0,
		},
		GLTF: GLTFConfig{
			Binary:   true,
			Tags:     true,
			Hitboxes: true,
		},
	}
}

// Validate checks values that cannot be caught by YAML decoding.
func (c *Config) Validate() error {
	if _, err := logger.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	if _, err := formats.ParseUCMFormat(c.Export.Format); err != nil {
		return fmt.Errorf("export.format: %w", err)
	}
	if c.OBJ.Decimals < 0 || c.OBJ.Decimals > 9 {
		return fmt.Errorf("obj.decimals: %d out of range 0-9", c.OBJ.Decimals)
	}
	if c.OBJ.Frame < 0 {
		return fmt.Errorf("obj.frame: negative frame %d", c.OBJ.Frame)
	}
	return nil
}

// ExportFormat returns the parsed export.format value.
func (c *Config) ExportFormat() formats.UCMFormat {
	f, err := formats.ParseUCMFormat(c.Export.Format)
	if err != nil {
		return formats.UCMFormatV2
	}
	return f
}
