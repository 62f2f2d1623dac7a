// SPDX-License-Identifier: MPL-2.0

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/spf13/viper"
)

const (
	// AppName is the framework name, used for the config directory and as
	// the default logger prefix.
	AppName = "cmdkit"
	// EnvPrefix is the prefix for environment variable overrides
	// (e.g. CMDKIT_PROJECT_NAME, CMDKIT_LOG_LEVEL).
	EnvPrefix = "CMDKIT"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "toml"
)

// Config holds resolved framework settings.
type Config struct {
	// ProjectName is the logger prefix and the default subject for
	// build-info version lookups.
	ProjectName string
	// LogLevel is the minimum level for framework loggers
	// ("debug", "info", "warn", "error").
	LogLevel string
	// ReportTimestamp enables timestamps on log output.
	ReportTimestamp bool
	// NoColor disables styled output regardless of terminal support.
	NoColor bool
	// ForceColor enables styled output even when stdout is not a terminal.
	ForceColor bool
	// CommandsDir is the default directory scanned by the discovery runner,
	// resolved relative to the working directory when not absolute.
	CommandsDir string
}

var (
	loadOnce sync.Once
	cached   *Config
)

// ConfigDir returns the cmdkit configuration directory using platform-specific
// conventions: Windows uses %APPDATA%, macOS uses ~/Library/Application Support,
// and Linux/others use $XDG_CONFIG_HOME (defaulting to ~/.config).
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	// Allow tests to override the config directory
	if configDirOverride != "" {
		return configDirOverride, nil
	}

	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default: // Linux and others
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, AppName), nil
}

// Load resolves a fresh Config from defaults, the optional config file, and
// the environment. Most callers should use Get, which caches the result.
func Load() *Config {
	v := viper.New()

	// Set defaults
	v.SetDefault("project_name", AppName)
	v.SetDefault("log_level", "info")
	v.SetDefault("report_timestamp", false)
	v.SetDefault("no_color", false)
	v.SetDefault("force_color", false)
	v.SetDefault("commands_dir", "commands")

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if dir, err := ConfigDir(); err == nil {
		v.SetConfigName(ConfigFileName)
		v.SetConfigType(ConfigFileExt)
		v.AddConfigPath(dir)
		// A missing or malformed file falls back to defaults and env.
		_ = v.ReadInConfig()
	}

	return &Config{
		ProjectName:     v.GetString("project_name"),
		LogLevel:        v.GetString("log_level"),
		ReportTimestamp: v.GetBool("report_timestamp"),
		NoColor:         v.GetBool("no_color"),
		ForceColor:      v.GetBool("force_color"),
		CommandsDir:     v.GetString("commands_dir"),
	}
}

// Get returns the process-wide Config, loading it on first use. It is
// constructed once at program start and shared; call Reset in tests to
// force a reload.
func Get() *Config {
	loadOnce.Do(func() {
		cached = Load()
	})
	return cached
}
