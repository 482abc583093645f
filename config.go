package thicket

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultMaxVertices fits 16384 quads.
	DefaultMaxVertices = 65536
	// DefaultMaxIndices is six indices per four vertices.
	DefaultMaxIndices = 98304
)

// Config holds batching capacities and runtime switches. The zero value is
// not usable; start from DefaultConfig.
type Config struct {
	MaxVertices int `yaml:"max_vertices" toml:"max_vertices"`
	MaxIndices  int `yaml:"max_indices" toml:"max_indices"`
	// MaxTextures caps texture slots per batch below the renderer's limit.
	// Zero uses the renderer's limit.
	MaxTextures int `yaml:"max_textures" toml:"max_textures"`

	TexturePolicy TexturePolicy `yaml:"texture_policy" toml:"texture_policy"`
	ColorMode     ColorMode     `yaml:"color_mode" toml:"color_mode"`
	FaceCulling   bool          `yaml:"face_culling" toml:"face_culling"`

	Debug    bool   `yaml:"debug" toml:"debug"`
	LogLevel string `yaml:"log_level" toml:"log_level"`
}

// DefaultConfig returns the default capacities with deduplicated textures
// and per-vertex colors.
func DefaultConfig() Config {
	return Config{
		MaxVertices:   DefaultMaxVertices,
		MaxIndices:    DefaultMaxIndices,
		TexturePolicy: TextureDedup,
		ColorMode:     ColorVertex,
		LogLevel:      "info",
	}
}

// Validate reports the first invalid field wrapped in ErrInvalidConfig.
func (c Config) Validate() error {
	switch {
	case c.MaxVertices < 3:
		return fmt.Errorf("thicket: max_vertices %d: %w", c.MaxVertices, ErrInvalidConfig)
	case c.MaxIndices < 3:
		return fmt.Errorf("thicket: max_indices %d: %w", c.MaxIndices, ErrInvalidConfig)
	case c.MaxTextures < 0:
		return fmt.Errorf("thicket: max_textures %d: %w", c.MaxTextures, ErrInvalidConfig)
	case c.TexturePolicy > TexturePerPrimitive:
		return fmt.Errorf("thicket: texture_policy %d: %w", c.TexturePolicy, ErrInvalidConfig)
	case c.ColorMode > ColorPalette:
		return fmt.Errorf("thicket: color_mode %d: %w", c.ColorMode, ErrInvalidConfig)
	}
	return nil
}

// ParseConfig decodes data in the given format ("yaml", "yml" or "toml")
// over DefaultConfig, so omitted keys keep their defaults.
func ParseConfig(data []byte, format string) (Config, error) {
	cfg := DefaultConfig()
	switch strings.ToLower(strings.TrimPrefix(format, ".")) {
	case "yaml", "yml":
		if len(bytes.TrimSpace(data)) > 0 {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("thicket: parse yaml config: %w", err)
			}
		}
	case "toml":
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("thicket: parse toml config: %w", err)
		}
	default:
		return Config{}, fmt.Errorf("thicket: %q: %w", format, ErrConfigFormat)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig reads path and parses it by extension.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("thicket: load config: %w", err)
	}
	return ParseConfig(data, filepath.Ext(path))
}

// Marshal encodes the config in the given format.
func (c Config) Marshal(format string) ([]byte, error) {
	switch strings.ToLower(strings.TrimPrefix(format, ".")) {
	case "yaml", "yml":
		return yaml.Marshal(c)
	case "toml":
		return toml.Marshal(c)
	default:
		return nil, fmt.Errorf("thicket: %q: %w", format, ErrConfigFormat)
	}
}
