// Package config provides configuration management for devinfo.
// It uses koanf v2 to load configuration from YAML files and supports
// writing a default configuration file for later editing.
//
// Configuration is loaded from /etc/devinfo/config.yaml by default. A
// missing file at that path is not an error: defaults apply.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	goyaml "gopkg.in/yaml.v3"

	"github.com/doughall/devinfo/internal/platform"
	"github.com/doughall/devinfo/internal/sysinfo"
)

// DefaultConfigPath is the default location for the configuration file.
const DefaultConfigPath = "/etc/devinfo/config.yaml"

// Config holds the settings loaded from the YAML config file.
// Fields are tagged for both koanf (loading) and yaml (saving).
type Config struct {
	// LogLevel controls the verbosity of logging on stderr.
	// Valid values: "debug", "info", "warn", "error".
	// Default: "error", so a one-shot report is not interleaved with probe warnings.
	LogLevel string `koanf:"log_level" yaml:"log_level"`

	// ShowPlaceholders keeps known-but-uncollected entries ("*Name") in the
	// output, the verbose form of the report. Default: false.
	ShowPlaceholders bool `koanf:"show_placeholders" yaml:"show_placeholders"`

	// ExperimentalSections adds Telephony, Networks, Wifi, Camera, Screen,
	// OpenGL, Sensors and Mount points.
	ExperimentalSections bool `koanf:"experimental_sections" yaml:"experimental_sections"`

	// RootFS is the directory treated as "/" for /proc, /sys and build.prop.
	// Default: "/".
	RootFS string `koanf:"root_fs" yaml:"root_fs"`

	// BuildPropFiles lists property files read for build metadata, relative to RootFS.
	BuildPropFiles []string `koanf:"build_prop_files" yaml:"build_prop_files"`

	// CommandTimeout is how long (in seconds) getprop, settings and pm may run.
	// Default: 5 seconds.
	CommandTimeout int `koanf:"command_timeout" yaml:"command_timeout"`

	// Schedule is the cron expression used by watch mode.
	// Default: "@every 1m".
	Schedule string `koanf:"schedule" yaml:"schedule"`

	// Output is the file watch mode rewrites. Empty means stdout.
	Output string `koanf:"output" yaml:"output"`

	// Listen is the HTTP address for server mode, e.g. "127.0.0.1:8321".
	// Empty disables the server unless --listen is given.
	Listen string `koanf:"listen" yaml:"listen"`

	// BatteryPollInterval is how often (in seconds) long-running modes re-read
	// the power supply state. Default: 30 seconds.
	BatteryPollInterval int `koanf:"battery_poll_interval" yaml:"battery_poll_interval"`
}

// Validation errors returned by Load.
var (
	ErrInvalidLogLevel     = errors.New("log_level must be one of debug, info, warn, error")
	ErrInvalidTimeout      = errors.New("command_timeout must be positive")
	ErrInvalidPollInterval = errors.New("battery_poll_interval must be positive")
	ErrInvalidSchedule     = errors.New("schedule is not a valid cron expression")
	ErrInvalidRootFS       = errors.New("root_fs must not be empty")
)

var validLogLevels = []string{"debug", "info", "warn", "error"}

// Default returns the configuration used when no file is present.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads configuration from the specified YAML file path.
// Keys missing from the file keep their default values.
// Returns an error if the file cannot be read or a value is invalid.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Load YAML file
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Fill anything the file set to a zero value
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadOptional is Load, except that a missing file yields Default().
func LoadOptional(path string) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return Load(path)
}

// applyDefaults sets default values for optional configuration fields.
func (c *Config) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "error"
	}
	if c.RootFS == "" {
		c.RootFS = "/"
	}
	if len(c.BuildPropFiles) == 0 {
		c.BuildPropFiles = slices.Clone(platform.DefaultBuildPropFiles)
	}
	if c.CommandTimeout == 0 {
		c.CommandTimeout = int(platform.DefaultCommandTimeout.Seconds())
	}
	if c.Schedule == "" {
		c.Schedule = sysinfo.DefaultSchedule
	}
	if c.BatteryPollInterval == 0 {
		c.BatteryPollInterval = 30
	}
}

// Validate checks that configuration values are usable. Load calls it;
// callers that modify a loaded Config (command-line overrides) call it again.
func (c *Config) Validate() error {
	if !slices.Contains(validLogLevels, c.LogLevel) {
		return fmt.Errorf("%w: got %q", ErrInvalidLogLevel, c.LogLevel)
	}
	if c.RootFS == "" {
		return ErrInvalidRootFS
	}
	if c.CommandTimeout < 0 {
		return ErrInvalidTimeout
	}
	if c.BatteryPollInterval < 0 {
		return ErrInvalidPollInterval
	}
	if _, err := sysinfo.ParseSchedule(c.Schedule); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSchedule, err)
	}
	return nil
}

// Save writes the configuration to the specified YAML file path.
// The file is created with 0600 permissions (owner read/write only).
func Save(path string, cfg *Config) error {
	// Marshal config to YAML
	data, err := goyaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Ensure parent directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config to %s: %w", path, err)
	}

	return nil
}
