// Package config loads tgterm's settings from ~/.tgterm/config.yaml.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/zhubert/tgterm/internal/errors"
)

const (
	configDirName  = ".tgterm"
	configFileName = "config.yaml"
)

// Environment variables that override values from the file.
const (
	EnvAPIID   = "TGTERM_API_ID"
	EnvAPIHash = "TGTERM_API_HASH"
	EnvPhone   = "TGTERM_PHONE"
)

// Config holds the application configuration.
type Config struct {
	APIID              int64        `yaml:"api_id"`
	APIHash            string       `yaml:"api_hash"`
	PhoneNumber        string       `yaml:"phone_number"`
	DatabaseDir        string       `yaml:"database_dir"`
	FilesDirectory     string       `yaml:"files_directory"`
	SystemLanguage     string       `yaml:"system_language"`
	DeviceModel        string       `yaml:"device_model"`
	ApplicationVersion string       `yaml:"application_version"`
	LogVerbosity       *int         `yaml:"log_verbosity"`
	Notifications      *bool        `yaml:"notifications_enabled"`
	ReceiveTimeout     *Duration    `yaml:"receive_timeout"`
	Theme              string       `yaml:"theme"`
	Bridge             BridgeConfig `yaml:"bridge"`

	filePath string
}

// BridgeConfig names the subprocess that speaks newline-delimited tdjson.
type BridgeConfig struct {
	Command string   `yaml:"command"`
	Args    []string `yaml:"args"`
}

// Duration is a wrapper around time.Duration that implements YAML unmarshaling
// from human-readable strings like "500ms", "2s".
type Duration struct {
	time.Duration
}

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	d.Duration = parsed
	return nil
}

// MarshalYAML implements yaml.Marshaler for Duration.
func (d Duration) MarshalYAML() (any, error) {
	return d.Duration.String(), nil
}

// DefaultPath returns ~/.tgterm/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, configDirName, configFileName), nil
}

// Default returns a config populated with the built-in defaults.
func Default() *Config {
	verbosity := 0
	notify := true
	return &Config{
		DatabaseDir:        "/tmp/td",
		FilesDirectory:     "/tmp/td",
		SystemLanguage:     "en",
		DeviceModel:        "computer",
		ApplicationVersion: "0.0.1",
		LogVerbosity:       &verbosity,
		Notifications:      &notify,
		ReceiveTimeout:     &Duration{500 * time.Millisecond},
	}
}

// Load reads path and merges it over the defaults. A missing file is not an
// error. Environment overrides are applied last.
func Load(path string) (*Config, error) {
	cfg := Default()
	cfg.filePath = path

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, errors.ConfigLoadFailed(path, err)
	default:
		var file Config
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, errors.ConfigLoadFailed(path, err)
		}
		merge(cfg, &file)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// merge copies every field set in src over dst.
func merge(dst, src *Config) {
	if src.APIID != 0 {
		dst.APIID = src.APIID
	}
	if src.APIHash != "" {
		dst.APIHash = src.APIHash
	}
	if src.PhoneNumber != "" {
		dst.PhoneNumber = src.PhoneNumber
	}
	if src.DatabaseDir != "" {
		dst.DatabaseDir = src.DatabaseDir
	}
	if src.FilesDirectory != "" {
		dst.FilesDirectory = src.FilesDirectory
	}
	if src.SystemLanguage != "" {
		dst.SystemLanguage = src.SystemLanguage
	}
	if src.DeviceModel != "" {
		dst.DeviceModel = src.DeviceModel
	}
	if src.ApplicationVersion != "" {
		dst.ApplicationVersion = src.ApplicationVersion
	}
	if src.LogVerbosity != nil {
		dst.LogVerbosity = src.LogVerbosity
	}
	if src.Notifications != nil {
		dst.Notifications = src.Notifications
	}
	if src.ReceiveTimeout != nil {
		dst.ReceiveTimeout = src.ReceiveTimeout
	}
	if src.Theme != "" {
		dst.Theme = src.Theme
	}
	if src.Bridge.Command != "" {
		dst.Bridge = src.Bridge
	}
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvAPIID); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return errors.ConfigInvalid(fmt.Sprintf("%s must be an integer, got %q", EnvAPIID, v))
		}
		c.APIID = id
	}
	if v := os.Getenv(EnvAPIHash); v != "" {
		c.APIHash = v
	}
	if v := os.Getenv(EnvPhone); v != "" {
		c.PhoneNumber = v
	}
	return nil
}

// Validate checks that a real backend session can be started. Demo mode
// needs no credentials.
func (c *Config) Validate(demo bool) error {
	if c.ReceiveTimeout != nil && c.ReceiveTimeout.Duration <= 0 {
		return errors.ConfigInvalid("receive_timeout must be positive")
	}
	if demo {
		return nil
	}
	if c.APIID == 0 {
		return errors.ConfigInvalid("api_id is required")
	}
	if c.APIHash == "" {
		return errors.ConfigInvalid("api_hash is required")
	}
	if c.PhoneNumber == "" {
		return errors.ConfigInvalid("phone_number is required")
	}
	if c.Bridge.Command == "" {
		return errors.ConfigInvalid("bridge.command is required")
	}
	return nil
}

// Path returns the file this config was loaded from.
func (c *Config) Path() string {
	return c.filePath
}

// Timeout is the network worker's receive timeout.
func (c *Config) Timeout() time.Duration {
	if c.ReceiveTimeout == nil || c.ReceiveTimeout.Duration <= 0 {
		return 500 * time.Millisecond
	}
	return c.ReceiveTimeout.Duration
}

// Verbosity is the backend log verbosity requested at startup.
func (c *Config) Verbosity() int {
	if c.LogVerbosity == nil {
		return 0
	}
	return *c.LogVerbosity
}

// NotificationsEnabled reports whether new-message notifications are shown.
func (c *Config) NotificationsEnabled() bool {
	return c.Notifications == nil || *c.Notifications
}
