package config

import "time"

const (
	defaultFPS           = 60
	defaultCellWidth     = 8.0  // A typical monospace cell is about 8x16 px
	defaultCellHeight    = 16.0 // on the web page the effect was tuned for
	defaultMaxSessions   = 64
	defaultIdleWarning   = 90 * time.Second
	defaultIdleTimeout   = 120 * time.Second
	defaultShutdownGrace = 15 * time.Second
)

// ShutdownNotice is how long a session shows the shutdown message before it
// disconnects by itself.
const ShutdownNotice = 10 * time.Second

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Particles: ParticlesConfig{
			Density:          9000,
			MaxVelocity:      0.2,
			MinSize:          1,
			SizeRange:        2,
			ThresholdDivisor: 7,
			OpacityDivisor:   20000,
			LineWidth:        1,
			Color:            "#00f2ff",
		},
		Render: RenderConfig{
			FPS:        defaultFPS,
			CellWidth:  defaultCellWidth,
			CellHeight: defaultCellHeight,
		},
		SSH: SSHConfig{
			Host:          "::",
			Port:          "2222",
			HostKeyPath:   ".ssh/termfolio_ed25519",
			MaxSessions:   defaultMaxSessions,
			IdleWarning:   defaultIdleWarning,
			IdleTimeout:   defaultIdleTimeout,
			ShutdownGrace: defaultShutdownGrace,
		},
		Web: WebConfig{
			Host:    "0.0.0.0",
			Port:    "8080",
			SSHHost: "localhost",
			SSHPort: "2222",
		},
		Desktop: DesktopConfig{
			Width:  1280,
			Height: 800,
			Title:  "Jayesh Manani | Portfolio",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
