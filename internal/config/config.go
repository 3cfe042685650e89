// Package config loads termfolio settings from defaults, an optional YAML
// file and TERMFOLIO_* environment variables.
package config

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/tomz197/termfolio/internal/particle"
)

// EnvPrefix is the prefix of environment overrides. Nested keys use a double
// underscore: TERMFOLIO_SSH__PORT sets ssh.port.
const EnvPrefix = "TERMFOLIO_"

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	cfg := DefaultConfig()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("accessing config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// envKey maps TERMFOLIO_RENDER__CELL_WIDTH to render.cell_width.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	p := c.Particles
	if p.Density <= 0 {
		return errors.New("particles.density must be positive")
	}
	if p.MaxVelocity < 0 {
		return errors.New("particles.max_velocity must be non-negative")
	}
	if p.MinSize <= 0 || p.SizeRange < 0 {
		return errors.New("particles.min_size must be positive and size_range non-negative")
	}
	if p.LineWidth <= 0 {
		return errors.New("particles.line_width must be positive")
	}
	if p.ThresholdDivisor <= 0 || p.OpacityDivisor <= 0 {
		return errors.New("particles.threshold_divisor and opacity_divisor must be positive")
	}
	if _, err := ParseHexColor(p.Color); err != nil {
		return fmt.Errorf("particles.color: %w", err)
	}

	if c.Render.FPS <= 0 {
		return errors.New("render.fps must be positive")
	}
	if c.Render.CellWidth <= 0 || c.Render.CellHeight <= 0 {
		return errors.New("render.cell_width and cell_height must be positive")
	}
	if c.Render.MaxColumns < 0 || c.Render.MaxRows < 0 {
		return errors.New("render.max_columns and max_rows must be non-negative")
	}

	if c.SSH.MaxSessions < 0 {
		return errors.New("ssh.max_sessions must be non-negative")
	}
	if c.SSH.IdleTimeout < 0 || c.SSH.IdleWarning < 0 || c.SSH.ShutdownGrace < 0 {
		return errors.New("ssh durations must be non-negative")
	}
	if c.SSH.IdleTimeout > 0 && c.SSH.IdleWarning >= c.SSH.IdleTimeout {
		return errors.New("ssh.idle_warning must be shorter than ssh.idle_timeout")
	}

	if c.Desktop.Width <= 0 || c.Desktop.Height <= 0 {
		return errors.New("desktop.width and height must be positive")
	}

	return nil
}

// Params converts the particle section into animator parameters.
func (p ParticlesConfig) Params() (particle.Params, error) {
	col, err := ParseHexColor(p.Color)
	if err != nil {
		return particle.Params{}, err
	}
	return particle.Params{
		Density:          p.Density,
		MaxVelocity:      p.MaxVelocity,
		MinSize:          p.MinSize,
		SizeRange:        p.SizeRange,
		ThresholdDivisor: p.ThresholdDivisor,
		OpacityDivisor:   p.OpacityDivisor,
		LineWidth:        p.LineWidth,
		Color:            col,
		SelfPairs:        p.SelfPairs,
	}, nil
}

// ParseHexColor parses "#rrggbb" (the leading # is optional) into an opaque colour.
func ParseHexColor(s string) (color.NRGBA, error) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return color.NRGBA{}, fmt.Errorf("invalid colour %q: want #rrggbb", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}
