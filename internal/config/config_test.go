package config

import (
	"bytes"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tomz197/termfolio/internal/particle"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults do not validate: %v", err)
	}
	if cfg.Render.FPS != 60 {
		t.Errorf("expected default fps 60, got %d", cfg.Render.FPS)
	}
	if cfg.SSH.Port != "2222" {
		t.Errorf("expected default ssh port %q, got %q", "2222", cfg.SSH.Port)
	}

	p, err := cfg.Particles.Params()
	if err != nil {
		t.Fatalf("Params failed: %v", err)
	}
	if p != particle.DefaultParams() {
		t.Errorf("default particle params %+v differ from %+v", p, particle.DefaultParams())
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "termfolio.yml")

	original := DefaultConfig()
	original.Particles.Density = 4500
	original.Particles.SelfPairs = true
	original.SSH.IdleTimeout = 5 * time.Minute
	original.ContentFile = "content.yml"

	if err := original.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.Particles.Density != 4500 {
		t.Errorf("density: got %v, want 4500", loaded.Particles.Density)
	}
	if !loaded.Particles.SelfPairs {
		t.Error("self_pairs not loaded")
	}
	if loaded.SSH.IdleTimeout != 5*time.Minute {
		t.Errorf("idle_timeout: got %v, want 5m", loaded.SSH.IdleTimeout)
	}
	if loaded.ContentFile != "content.yml" {
		t.Errorf("content_file: got %q", loaded.ContentFile)
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nonexistent.yml"))
	if err != nil {
		t.Fatalf("expected no error for missing file, got %v", err)
	}
	if cfg.Particles.Density != 9000 {
		t.Errorf("expected default density, got %v", cfg.Particles.Density)
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "termfolio.yml")
	if err := os.WriteFile(path, []byte("render:\n  fps: 30\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Render.FPS != 30 {
		t.Errorf("fps: got %d, want 30", cfg.Render.FPS)
	}
	if cfg.Render.CellWidth != 8 {
		t.Errorf("cell_width lost its default: %v", cfg.Render.CellWidth)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("TERMFOLIO_SSH__PORT", "2300")
	t.Setenv("TERMFOLIO_RENDER__CELL_WIDTH", "10")
	t.Setenv("TERMFOLIO_CONTENT_FILE", "me.yml")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.SSH.Port != "2300" {
		t.Errorf("ssh.port: got %q, want 2300", cfg.SSH.Port)
	}
	if cfg.Render.CellWidth != 10 {
		t.Errorf("render.cell_width: got %v, want 10", cfg.Render.CellWidth)
	}
	if cfg.ContentFile != "me.yml" {
		t.Errorf("content_file: got %q", cfg.ContentFile)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		errSub string
	}{
		{"zero fps", func(c *Config) { c.Render.FPS = 0 }, "render.fps"},
		{"zero density", func(c *Config) { c.Particles.Density = 0 }, "density"},
		{"zero line width", func(c *Config) { c.Particles.LineWidth = 0 }, "line_width"},
		{"bad colour", func(c *Config) { c.Particles.Color = "cyan" }, "particles.color"},
		{"negative sessions", func(c *Config) { c.SSH.MaxSessions = -1 }, "max_sessions"},
		{"warning after timeout", func(c *Config) { c.SSH.IdleWarning = 3 * time.Minute }, "idle_warning"},
		{"no window", func(c *Config) { c.Desktop.Width = 0 }, "desktop"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.errSub) {
				t.Errorf("error %q does not mention %q", err, tt.errSub)
			}
		})
	}
}

func TestParseHexColor(t *testing.T) {
	got, err := ParseHexColor("#00f2ff")
	if err != nil {
		t.Fatal(err)
	}
	if want := (color.NRGBA{R: 0, G: 0xf2, B: 0xff, A: 0xff}); got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	if _, err := ParseHexColor("#fff"); err == nil {
		t.Error("short colour accepted")
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, closer, err := NewLogger(LogConfig{Level: "warn"}, "test", &buf)
	if err != nil {
		t.Fatal(err)
	}
	defer closer.Close()

	logger.Info("hidden")
	logger.Warn("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Errorf("unexpected log output %q", buf.String())
	}

	if _, _, err := NewLogger(LogConfig{Level: "loud"}, "test", &buf); err == nil {
		t.Error("invalid level accepted")
	}
}

func TestNewLoggerFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "termfolio.log")
	var buf bytes.Buffer
	logger, closer, err := NewLogger(LogConfig{Level: "info", File: path}, "test", &buf)
	if err != nil {
		t.Fatal(err)
	}
	logger.Info("to file")
	closer.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "to file") || buf.Len() != 0 {
		t.Errorf("file=%q writer=%q", data, buf.String())
	}
}

func TestGetEnv(t *testing.T) {
	t.Setenv("TERMFOLIO_TEST_KEY", "set")
	if got := GetEnv("TERMFOLIO_TEST_KEY", "fallback"); got != "set" {
		t.Errorf("GetEnv = %q", got)
	}
	if got := GetEnv("TERMFOLIO_TEST_MISSING", "fallback"); got != "fallback" {
		t.Errorf("GetEnv = %q", got)
	}
}
