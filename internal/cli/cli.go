// Package cli holds the flags and start-up steps shared by the termfolio binaries.
package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/tomz197/termfolio/internal/config"
)

// DefaultConfigFile is read when --config is not given. It may be absent.
const DefaultConfigFile = "termfolio.yml"

// ConfigFileEnv names the variable that replaces DefaultConfigFile.
const ConfigFileEnv = "TERMFOLIO_CONFIG"

// Flags are the persistent flags of every binary.
type Flags struct {
	ConfigFile string
	LogLevel   string
}

// Register adds the flags to cmd.
func (f *Flags) Register(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&f.ConfigFile, "config", config.GetEnv(ConfigFileEnv, DefaultConfigFile), "config file path")
	cmd.PersistentFlags().StringVar(&f.LogLevel, "log-level", "", "log level (debug, info, warn, error); overrides log.level")
}

// Load reads and validates the configuration, applying flag overrides.
func (f *Flags) Load() (*config.Config, error) {
	cfg, err := config.Load(f.ConfigFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if f.LogLevel != "" {
		cfg.Log.Level = f.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Setup loads the configuration and builds the binary's logger writing to w.
// The closer must be closed on exit.
func (f *Flags) Setup(prefix string, w io.Writer) (*config.Config, *log.Logger, io.Closer, error) {
	cfg, err := f.Load()
	if err != nil {
		return nil, nil, nil, err
	}
	logger, closer, err := config.NewLogger(cfg.Log, prefix, w)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, logger, closer, nil
}
