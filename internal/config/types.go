package config

import "time"

// Config is the top-level termfolio configuration, corresponding to termfolio.yml.
type Config struct {
	Particles   ParticlesConfig `yaml:"particles" koanf:"particles"`
	Render      RenderConfig    `yaml:"render" koanf:"render"`
	SSH         SSHConfig       `yaml:"ssh" koanf:"ssh"`
	Web         WebConfig       `yaml:"web" koanf:"web"`
	Desktop     DesktopConfig   `yaml:"desktop" koanf:"desktop"`
	Log         LogConfig       `yaml:"log" koanf:"log"`
	ContentFile string          `yaml:"content_file" koanf:"content_file"`
}

// ParticlesConfig tunes the background particle field.
type ParticlesConfig struct {
	Density          float64 `yaml:"density" koanf:"density"`                     // Surface area per particle
	MaxVelocity      float64 `yaml:"max_velocity" koanf:"max_velocity"`           // Per-axis speed bound
	MinSize          float64 `yaml:"min_size" koanf:"min_size"`                   // Smallest radius
	SizeRange        float64 `yaml:"size_range" koanf:"size_range"`               // Radius spread above MinSize
	ThresholdDivisor float64 `yaml:"threshold_divisor" koanf:"threshold_divisor"` // Lines join pairs closer than (W/div)*(H/div)
	OpacityDivisor   float64 `yaml:"opacity_divisor" koanf:"opacity_divisor"`
	LineWidth        float64 `yaml:"line_width" koanf:"line_width"`
	Color            string  `yaml:"color" koanf:"color"` // #rrggbb
	SelfPairs        bool    `yaml:"self_pairs" koanf:"self_pairs"`
}

// RenderConfig controls frame pacing and the terminal-to-pixel mapping.
type RenderConfig struct {
	FPS        int     `yaml:"fps" koanf:"fps"`
	CellWidth  float64 `yaml:"cell_width" koanf:"cell_width"`   // Logical pixels per terminal column
	CellHeight float64 `yaml:"cell_height" koanf:"cell_height"` // Logical pixels per terminal row
	MaxColumns int     `yaml:"max_columns" koanf:"max_columns"` // 0 = no limit
	MaxRows    int     `yaml:"max_rows" koanf:"max_rows"`       // 0 = no limit
}

// SSHConfig configures the SSH host.
type SSHConfig struct {
	Host          string        `yaml:"host" koanf:"host"`
	Port          string        `yaml:"port" koanf:"port"`
	HostKeyPath   string        `yaml:"host_key_path" koanf:"host_key_path"`
	MaxSessions   int           `yaml:"max_sessions" koanf:"max_sessions"` // 0 = unlimited
	IdleWarning   time.Duration `yaml:"idle_warning" koanf:"idle_warning"`
	IdleTimeout   time.Duration `yaml:"idle_timeout" koanf:"idle_timeout"`
	ShutdownGrace time.Duration `yaml:"shutdown_grace" koanf:"shutdown_grace"`
}

// WebConfig configures the landing page server.
type WebConfig struct {
	Host    string `yaml:"host" koanf:"host"`
	Port    string `yaml:"port" koanf:"port"`
	SSHHost string `yaml:"ssh_host" koanf:"ssh_host"` // Host name shown in the ssh command
	SSHPort string `yaml:"ssh_port" koanf:"ssh_port"`
}

// DesktopConfig configures the desktop window.
type DesktopConfig struct {
	Width  int    `yaml:"width" koanf:"width"`
	Height int    `yaml:"height" koanf:"height"`
	Title  string `yaml:"title" koanf:"title"`
}

// LogConfig selects the log level and an optional log file.
type LogConfig struct {
	Level string `yaml:"level" koanf:"level"`
	File  string `yaml:"file" koanf:"file"`
}
