package cli

import (
	"os"

	"github.com/jploot/picomaven/internal/logger"
	"github.com/jploot/picomaven/pkg/config"
)

// Package-level variables set by the root command's persistent flags.
var (
	ConfigPath *string
	Verbose    *bool
	JSONOutput *bool
)

// loadConfig loads the configuration from the --config flag, an auto-detected
// file, or defaults.
func loadConfig() (*config.Config, error) {
	if ConfigPath != nil && *ConfigPath != "" {
		return config.LoadConfig(*ConfigPath)
	}
	if _, err := os.Stat(defaultConfigFile); err == nil {
		return config.LoadConfig(defaultConfigFile)
	}
	return config.DefaultConfig(), nil
}

// initLogging configures the global logger from flags and config.
func initLogging(cfg *config.Config) {
	level := cfg.Settings.LogLevel
	if Verbose != nil && *Verbose {
		level = "debug"
	}
	format := logger.FormatText
	if JSONOutput != nil && *JSONOutput {
		format = logger.FormatJSON
	}
	logger.InitLogger(level, format)
}

const defaultConfigFile = "picomaven.yaml"
