// Package config loads imoji settings.
//
// Settings are layered: built-in defaults, then an optional file, then
// environment variables. Command-line flags are applied last by the caller.
//
// File locations, first match wins:
//   - $XDG_CONFIG_HOME/imoji/config.toml
//   - $XDG_CONFIG_HOME/imoji/config.yaml
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/csheth/imoji/internal/generation"
)

const (
	minDelay = 3 * time.Second
	maxDelay = 5 * time.Second

	defaultFPS         = 20
	defaultServiceName = "imoji"
)

// ErrInvalidConfig is matched by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config is the complete imoji configuration.
type Config struct {
	// Variant names the generation screen opened at startup. Empty shows the home screen.
	Variant string `toml:"variant" yaml:"variant"`
	// DelaySeconds overrides the variant's generation delay when positive.
	DelaySeconds float64 `toml:"delay_seconds" yaml:"delay_seconds"`

	UI        UIConfig        `toml:"ui" yaml:"ui"`
	Log       LogConfig       `toml:"log" yaml:"log"`
	Telemetry TelemetryConfig `toml:"telemetry" yaml:"telemetry"`
}

// UIConfig controls rendering.
type UIConfig struct {
	AltScreen bool `toml:"alt_screen" yaml:"alt_screen"`
	Particles bool `toml:"particles" yaml:"particles"`
	FPS       int  `toml:"fps" yaml:"fps"`
}

// LogConfig controls the debug log. An empty path disables logging.
type LogConfig struct {
	Path string `toml:"path" yaml:"path"`
}

// TelemetryConfig controls OTLP trace export. An empty endpoint disables it.
type TelemetryConfig struct {
	Endpoint    string `toml:"endpoint" yaml:"endpoint"`
	ServiceName string `toml:"service_name" yaml:"service_name"`
	Insecure    bool   `toml:"insecure" yaml:"insecure"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		UI: UIConfig{
			AltScreen: true,
			Particles: true,
			FPS:       defaultFPS,
		},
		Telemetry: TelemetryConfig{
			ServiceName: defaultServiceName,
			Insecure:    true,
		},
	}
}

// Dir returns the directory holding the config file.
func Dir() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "imoji")
}

// Path returns the first existing config file, or the default TOML location
// when none exists.
func Path() string {
	dir := Dir()
	for _, name := range []string{"config.toml", "config.yaml", "config.yml"} {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return filepath.Join(dir, "config.toml")
}

// Load reads the default config file, falling back to defaults when it does not
// exist, and applies environment overrides.
func Load() (*Config, error) {
	cfg, err := LoadFromPath(Path())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg = Default()
			cfg.ApplyEnvOverrides()
			return cfg, cfg.Validate()
		}
		return nil, err
	}
	return cfg, nil
}

// LoadFromPath reads path, choosing the decoder by extension, then applies
// environment overrides and validates.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q", filepath.Ext(path))
	}
	cfg.Log.Path = expandPath(cfg.Log.Path)
	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnvOverrides layers IMOJI_* and OTEL_* variables over the current values.
// Unparseable values are ignored and left for the file or default setting.
func (c *Config) ApplyEnvOverrides() {
	if v := strings.TrimSpace(os.Getenv("IMOJI_VARIANT")); v != "" {
		c.Variant = v
	}
	if v := strings.TrimSpace(os.Getenv("IMOJI_DELAY")); v != "" {
		if seconds, ok := parseSeconds(v); ok {
			c.DelaySeconds = seconds
		}
	}
	if v := strings.TrimSpace(os.Getenv("IMOJI_LOG")); v != "" {
		c.Log.Path = expandPath(v)
	}
	if v := strings.TrimSpace(os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")); v != "" {
		c.Telemetry.Endpoint = v
	}
	if v := strings.TrimSpace(os.Getenv("OTEL_SERVICE_NAME")); v != "" {
		c.Telemetry.ServiceName = v
	}
}

// parseSeconds accepts either a Go duration ("3s", "1500ms") or plain seconds.
func parseSeconds(value string) (float64, bool) {
	if d, err := time.ParseDuration(value); err == nil {
		return d.Seconds(), true
	}
	if f, err := strconv.ParseFloat(value, 64); err == nil {
		return f, true
	}
	return 0, false
}

// ValidationError describes one invalid field.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors aggregates every problem found by Validate.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, v := range e {
		msgs = append(msgs, v.Error())
	}
	return fmt.Sprintf("%s: %s", ErrInvalidConfig, strings.Join(msgs, "; "))
}

func (e ValidationErrors) Unwrap() error {
	return ErrInvalidConfig
}

// Validate checks every field and reports all problems at once.
func (c *Config) Validate() error {
	var errs ValidationErrors
	if c.Variant != "" {
		if _, err := generation.LookupVariant(c.Variant); err != nil {
			errs = append(errs, ValidationError{Field: "variant", Message: err.Error()})
		}
	}
	if c.DelaySeconds < 0 {
		errs = append(errs, ValidationError{Field: "delay_seconds", Message: "must not be negative"})
	} else if c.DelaySeconds > 0 {
		d := c.Delay()
		if d < minDelay || d > maxDelay {
			errs = append(errs, ValidationError{
				Field:   "delay_seconds",
				Message: fmt.Sprintf("must be between %s and %s", minDelay, maxDelay),
			})
		}
	}
	if c.UI.FPS < 1 || c.UI.FPS > 60 {
		errs = append(errs, ValidationError{Field: "ui.fps", Message: "must be between 1 and 60"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Delay returns the configured delay override, or zero when unset.
func (c *Config) Delay() time.Duration {
	if c.DelaySeconds <= 0 {
		return 0
	}
	return time.Duration(c.DelaySeconds * float64(time.Second))
}

// FrameInterval is the animation frame period.
func (c *Config) FrameInterval() time.Duration {
	fps := c.UI.FPS
	if fps <= 0 {
		fps = defaultFPS
	}
	return time.Second / time.Duration(fps)
}

// Variants returns the built-in variants with the delay override applied.
func (c *Config) Variants() []generation.Variant {
	all := generation.Variants()
	if d := c.Delay(); d > 0 {
		for i := range all {
			all[i].Delay = d
		}
	}
	return all
}

// StartVariant resolves the configured start variant. ok is false when the home
// screen should be shown instead.
func (c *Config) StartVariant() (v generation.Variant, ok bool, err error) {
	if strings.TrimSpace(c.Variant) == "" {
		return generation.Variant{}, false, nil
	}
	v, err = generation.LookupVariant(c.Variant)
	if err != nil {
		return generation.Variant{}, false, err
	}
	if d := c.Delay(); d > 0 {
		v.Delay = d
	}
	return v, true, nil
}

func expandPath(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, path[1:])
}
