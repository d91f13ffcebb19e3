package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultFile is looked up in the working directory when no file is named.
const DefaultFile = ".sfmeta.yaml"

// Defaults.
const (
	DefaultProjectDir = "force-app/main/default"
	DefaultIndent     = "    "
	DefaultLogLevel   = "info"
	DefaultFileLevel  = "debug"
)

// Config holds the sfmeta settings.
type Config struct {
	// ProjectDir is the source directory default file paths are built in.
	ProjectDir string `yaml:"project_dir,omitempty"`

	// Indent is the indent unit of written documents.
	Indent string `yaml:"indent,omitempty"`

	Log Log `yaml:"log,omitempty"`

	// Schemas lists YAML schema declaration files to load at startup.
	// Relative paths are resolved against the directory of the config file.
	Schemas []string `yaml:"schemas,omitempty"`
}

// Log configures the console and file log sinks.
type Log struct {
	Level     string `yaml:"level,omitempty"`
	FileLevel string `yaml:"file_level,omitempty"`
	// Dir enables the file sink when not empty.
	Dir string `yaml:"dir,omitempty"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	c := &Config{}
	applyDefaults(c)

	return c
}

// LoadFile reads the configuration at path. A missing file yields the
// defaults when optional is true.
func LoadFile(path string, optional bool) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if optional && errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}

		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	base := filepath.Dir(path)
	for i, s := range c.Schemas {
		if !filepath.IsAbs(s) {
			c.Schemas[i] = filepath.Join(base, s)
		}
	}

	return c, nil
}

// Parse parses YAML data into a Config.
func Parse(data []byte) (*Config, error) {
	var c Config

	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	applyDefaults(&c)

	return &c, nil
}

// applyDefaults fills in default values for optional fields.
func applyDefaults(c *Config) {
	if c.ProjectDir == "" {
		c.ProjectDir = DefaultProjectDir
	}

	if c.Indent == "" {
		c.Indent = DefaultIndent
	}

	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}

	if c.Log.FileLevel == "" {
		c.Log.FileLevel = DefaultFileLevel
	}
}

// Marshal serializes a Config to YAML.
func Marshal(c *Config) ([]byte, error) {
	return yaml.Marshal(c)
}
