package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// Config holds all configurable paths and render settings.
type Config struct {
	// Paths
	BaseDir   string            `json:"base_dir"`
	OutputDir string            `json:"output_dir"`
	Fonts     map[string]string `json:"fonts"` // family name → TTF/OTF path

	// Surface binding
	Surface     string `json:"surface"`
	TextureSize int    `json:"texture_size"`
	MaxEdge     int    `json:"max_edge"`
	FlipY       *bool  `json:"flip_y"` // GL bottom-left UV origin when true
	Bright      *bool  `json:"bright"`

	// Render settings
	Supersample int     `json:"supersample"`
	YawDeg      float64 `json:"yaw_deg"`
	Format      string  `json:"format"`
	Workers     int     `json:"workers"`

	// Server
	Addr string `json:"addr"`
}

// Load reads a JSON config file and returns Config.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if cfg.BaseDir == "" {
		cfg.BaseDir = filepath.Dir(path)
	}

	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
// Nil pointers mean the flag was not given.
type Flags struct {
	OutputDir string
	Surface   string
	Format    string
	Addr      string
	Workers   int
	FlipY     *bool
	Bright    *bool
	YawDeg    *float64
}

// Resolve applies flag overrides and fills any empty fields with defaults.
func (c *Config) Resolve(flags Flags) {
	// CLI flags override config file
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.Surface != "" {
		c.Surface = flags.Surface
	}
	if flags.Format != "" {
		c.Format = flags.Format
	}
	if flags.Addr != "" {
		c.Addr = flags.Addr
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.FlipY != nil {
		c.FlipY = flags.FlipY
	}
	if flags.Bright != nil {
		c.Bright = flags.Bright
	}
	if flags.YawDeg != nil {
		c.YawDeg = *flags.YawDeg
	}

	// Resolve relative paths against base dir
	if c.OutputDir == "" {
		c.OutputDir = "."
	}
	if c.BaseDir != "" {
		if !filepath.IsAbs(c.OutputDir) && flags.OutputDir == "" {
			c.OutputDir = filepath.Join(c.BaseDir, c.OutputDir)
		}
		for name, p := range c.Fonts {
			if !filepath.IsAbs(p) {
				c.Fonts[name] = filepath.Join(c.BaseDir, p)
			}
		}
	}

	if c.Surface == "" {
		c.Surface = "Screen"
	}
	if c.TextureSize <= 0 {
		c.TextureSize = 2048
	}
	if c.MaxEdge <= 0 {
		c.MaxEdge = 2048
	}
	if c.FlipY == nil {
		c.FlipY = boolPtr(true)
	}
	if c.Bright == nil {
		c.Bright = boolPtr(true)
	}
	if c.Supersample <= 0 {
		c.Supersample = 2
	}
	if c.Format == "" {
		c.Format = "png"
	}
	if c.Addr == "" {
		c.Addr = ":8080"
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
}

// FlipYEnabled reports the resolved orientation flag.
func (c *Config) FlipYEnabled() bool { return c.FlipY == nil || *c.FlipY }

// BrightEnabled reports the resolved emissive default.
func (c *Config) BrightEnabled() bool { return c.Bright == nil || *c.Bright }

func boolPtr(b bool) *bool { return &b }
