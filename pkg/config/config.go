// Package config loads the user-adjustable knobs for the event listener
// CLI from a yaml file, with PGL_-prefixed environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// DefaultFileName is the config file looked up in the working directory
// when no explicit path is supplied.
const DefaultFileName = "pgl.yaml"

// Config captures the listener and logging settings.
type Config struct {
	Listener ListenerConfig `mapstructure:"listener"`
	Logging  LoggingConfig  `mapstructure:"logging"`

	// Source indicates where the configuration originated (defaults or a
	// file path).
	Source string `mapstructure:"-"`
}

// ListenerConfig configures a capture session.
type ListenerConfig struct {
	// SuppressKeys lists key codes to drop before they reach other
	// applications.
	SuppressKeys []int `mapstructure:"suppress_keys"`
	// SuppressChars lists characters whose ANSI US key codes are added to
	// the suppression set.
	SuppressChars string `mapstructure:"suppress_chars"`

	Failsafe FailsafeConfig `mapstructure:"failsafe"`
}

// FailsafeConfig controls the ESC escape hatch.
type FailsafeConfig struct {
	Enabled  bool `mapstructure:"enabled"`
	WindowMS int  `mapstructure:"window_ms"`
}

// LoggingConfig defines log verbosity and formatting.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Default returns the baseline configuration used when no overrides are
// supplied.
func Default() Config {
	return Config{
		Listener: ListenerConfig{
			Failsafe: FailsafeConfig{
				Enabled:  true,
				WindowMS: 500,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Source: "<defaults>",
	}
}

// Load reads configuration from disk if present, otherwise returning
// defaults. When path is empty, the loader attempts to read ./pgl.yaml but
// tolerates a missing file.
func Load(path string) (Config, error) {
	cfg := Default()

	candidate := strings.TrimSpace(path)
	explicit := candidate != ""
	if !explicit {
		candidate = DefaultFileName
	}

	v := viper.New()
	v.SetConfigFile(candidate)
	v.SetConfigType("yaml")

	v.SetDefault("listener.suppress_keys", cfg.Listener.SuppressKeys)
	v.SetDefault("listener.suppress_chars", cfg.Listener.SuppressChars)
	v.SetDefault("listener.failsafe.enabled", cfg.Listener.Failsafe.Enabled)
	v.SetDefault("listener.failsafe.window_ms", cfg.Listener.Failsafe.WindowMS)
	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)

	v.SetEnvPrefix("PGL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist) {
			if explicit {
				return cfg, fmt.Errorf("config file %q not found", candidate)
			}
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config file %q: %w", candidate, err)
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("parse config file %q: %w", candidate, err)
	}
	cfg.Source = candidate

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate ensures essential configuration values are present and
// sensible.
func (c Config) Validate() error {
	if _, err := NormalizeLogLevel(c.Logging.Level); err != nil {
		return err
	}
	if _, err := NormalizeFormat(c.Logging.Format); err != nil {
		return err
	}
	if c.Listener.Failsafe.WindowMS <= 0 {
		return errors.New("listener.failsafe.window_ms must be positive")
	}
	return nil
}

// NormalizeLogLevel validates and canonicalizes log level identifiers.
func NormalizeLogLevel(level string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "", "info":
		return "info", nil
	case "debug":
		return "debug", nil
	case "warn", "warning":
		return "warn", nil
	case "error":
		return "error", nil
	default:
		return "", fmt.Errorf("unsupported log level %q", level)
	}
}

// NormalizeFormat validates and canonicalizes logging format identifiers.
func NormalizeFormat(format string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "json":
		return "json", nil
	case "console", "text":
		return "console", nil
	default:
		return "", fmt.Errorf("unsupported log format %q", format)
	}
}
