package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config holds all configurable paths and render settings.
type Config struct {
	// Paths
	BaseDir    string `json:"base_dir" toml:"base_dir" yaml:"base_dir"`
	SceneList  string `json:"scene_list" toml:"scene_list" yaml:"scene_list"`
	TextureDir string `json:"texture_dir" toml:"texture_dir" yaml:"texture_dir"`
	OutputDir  string `json:"output_dir" toml:"output_dir" yaml:"output_dir"`

	// Render settings
	RenderSize  int `json:"render_size" toml:"render_size" yaml:"render_size"`
	Supersample int `json:"supersample" toml:"supersample" yaml:"supersample"`
	Workers     int `json:"workers" toml:"workers" yaml:"workers"`

	// Camera, degrees
	Yaw   *float64 `json:"yaw,omitempty" toml:"yaw,omitempty" yaml:"yaw,omitempty"`
	Pitch *float64 `json:"pitch,omitempty" toml:"pitch,omitempty" yaml:"pitch,omitempty"`

	// Overlays
	EdgeThickness float64 `json:"edge_thickness" toml:"edge_thickness" yaml:"edge_thickness"`
	ArrowLength   float64 `json:"arrow_length" toml:"arrow_length" yaml:"arrow_length"`

	LogLevel string `json:"log_level" toml:"log_level" yaml:"log_level"`
}

// Default camera angles in degrees.
const (
	DefaultYaw   = 30.0
	DefaultPitch = -25.0
)

// Load reads a config file and returns Config. The format follows the
// extension: .json, .toml, .yaml or .yml.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		err = json.Unmarshal(data, &cfg)
	case ".toml":
		err = toml.Unmarshal(data, &cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		return Config{}, fmt.Errorf("config: %s: unsupported format %q", path, ext)
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Resolve fills in any empty fields with defaults.
// CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	// CLI flags override config file
	if flags.BaseDir != "" {
		c.BaseDir = flags.BaseDir
	}
	if flags.SceneList != "" {
		c.SceneList = flags.SceneList
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.Size > 0 {
		c.RenderSize = flags.Size
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.LogLevel != "" {
		c.LogLevel = flags.LogLevel
	}

	if c.BaseDir == "" {
		c.BaseDir, _ = os.Getwd()
	}

	// Resolve relative paths against base dir
	if c.SceneList == "" {
		c.SceneList = filepath.Join(c.BaseDir, "scenes.xml")
	} else if !filepath.IsAbs(c.SceneList) {
		c.SceneList = filepath.Join(c.BaseDir, c.SceneList)
	}

	if c.TextureDir == "" {
		c.TextureDir = filepath.Join(c.BaseDir, "textures")
	} else if !filepath.IsAbs(c.TextureDir) {
		c.TextureDir = filepath.Join(c.BaseDir, c.TextureDir)
	}

	if c.OutputDir == "" {
		c.OutputDir = filepath.Join(c.BaseDir, "renders")
	} else if !filepath.IsAbs(c.OutputDir) {
		c.OutputDir = filepath.Join(c.BaseDir, c.OutputDir)
	}

	// Defaults for render settings
	if c.RenderSize <= 0 {
		c.RenderSize = 512
	}
	if c.Supersample <= 0 {
		c.Supersample = 2
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.Yaw == nil {
		yaw := DefaultYaw
		c.Yaw = &yaw
	}
	if c.Pitch == nil {
		pitch := DefaultPitch
		c.Pitch = &pitch
	}
	if c.EdgeThickness <= 0 {
		c.EdgeThickness = 0.01
	}
	if c.ArrowLength <= 0 {
		c.ArrowLength = 0.15
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	BaseDir   string
	SceneList string
	OutputDir string
	Size      int
	Workers   int
	LogLevel  string
}
