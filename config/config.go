// Package config holds the micromon settings and resolves them from defaults,
// a YAML file, MICROMON_* environment variables and command line flags.
package config

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lixenwraith/micromon/driver"
	"github.com/lixenwraith/micromon/terminal"
	"github.com/lixenwraith/micromon/terminal/tui"
	"github.com/lixenwraith/micromon/transport"
)

// Config is the resolved runtime configuration
type Config struct {
	Baud         int           `mapstructure:"baud"`
	Terminator   string        `mapstructure:"terminator"`
	All          bool          `mapstructure:"all"`
	Port         int           `mapstructure:"port"`
	Device       string        `mapstructure:"device"`
	Monochrome   bool          `mapstructure:"monochrome"`
	Accent       string        `mapstructure:"accent"`
	Driver       string        `mapstructure:"driver"`
	Color        string        `mapstructure:"color"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
	Bell         bool          `mapstructure:"bell"`
	Wait         time.Duration `mapstructure:"wait"`
	Debug        bool          `mapstructure:"debug"`
}

// Key poll timeout bounds. Shorter wastes CPU, longer makes received lines lag
const (
	MinPollInterval = 100 * time.Millisecond
	MaxPollInterval = 250 * time.Millisecond
)

// Color mode spellings
const (
	ColorAuto      = "auto"
	Color256       = "256"
	ColorTrueColor = "truecolor"
)

// Default returns the built-in configuration
func Default() Config {
	return Config{
		Baud:         transport.DefaultBaud,
		Terminator:   transport.LF.Flag(),
		Accent:       tui.FormatColor(tui.DefaultAccent),
		Driver:       string(driver.KindANSI),
		Color:        ColorAuto,
		PollInterval: 150 * time.Millisecond,
	}
}

// ValidationError names the setting that failed to validate
type ValidationError struct {
	Key    string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Key, e.Reason)
}

// Validate checks every setting and returns the first problem found
func (c Config) Validate() error {
	if c.Baud <= 0 {
		return &ValidationError{Key: "baud", Reason: fmt.Sprintf("%d is not a positive rate", c.Baud)}
	}
	if _, err := c.LineTerminator(); err != nil {
		return &ValidationError{Key: "terminator", Reason: err.Error()}
	}
	if c.Port < 0 {
		return &ValidationError{Key: "port", Reason: "index must be 1 or greater"}
	}
	if _, err := c.Theme(); err != nil {
		return &ValidationError{Key: "accent", Reason: err.Error()}
	}
	if _, err := driver.ParseKind(c.Driver); err != nil {
		return &ValidationError{Key: "driver", Reason: err.Error()}
	}
	if _, err := c.ColorModes(); err != nil {
		return &ValidationError{Key: "color", Reason: err.Error()}
	}
	if c.PollInterval < MinPollInterval || c.PollInterval > MaxPollInterval {
		return &ValidationError{
			Key:    "poll_interval",
			Reason: fmt.Sprintf("%v outside %v-%v", c.PollInterval, MinPollInterval, MaxPollInterval),
		}
	}
	if c.Wait < 0 {
		return &ValidationError{Key: "wait", Reason: "must not be negative"}
	}
	return nil
}

// LineTerminator parses the terminator setting
func (c Config) LineTerminator() (transport.Terminator, error) {
	return transport.ParseTerminator(c.Terminator)
}

// Theme builds the dashboard theme from the accent and monochrome settings
func (c Config) Theme() (tui.Theme, error) {
	if c.Monochrome {
		return tui.NewTheme(tui.DefaultAccent, true), nil
	}
	if strings.TrimSpace(c.Accent) == "" {
		return tui.DefaultTheme, nil
	}
	accent, err := tui.ParseColor(c.Accent)
	if err != nil {
		return tui.Theme{}, err
	}
	return tui.NewTheme(accent, false), nil
}

// ColorModes returns the forced color mode, or none for auto detection
func (c Config) ColorModes() ([]terminal.ColorMode, error) {
	switch strings.ToLower(strings.TrimSpace(c.Color)) {
	case ColorAuto, "":
		return nil, nil
	case Color256:
		return []terminal.ColorMode{terminal.ColorMode256}, nil
	case ColorTrueColor, "24bit":
		return []terminal.ColorMode{terminal.ColorModeTrueColor}, nil
	}
	return nil, fmt.Errorf("unknown color mode %q: want auto, 256 or truecolor", c.Color)
}

// fileConfig is the on-disk shape; durations are written as strings
type fileConfig struct {
	Baud         int    `yaml:"baud"`
	Terminator   string `yaml:"terminator"`
	All          bool   `yaml:"all"`
	Port         int    `yaml:"port"`
	Device       string `yaml:"device"`
	Monochrome   bool   `yaml:"monochrome"`
	Accent       string `yaml:"accent"`
	Driver       string `yaml:"driver"`
	Color        string `yaml:"color"`
	PollInterval string `yaml:"poll_interval"`
	Bell         bool   `yaml:"bell"`
	Wait         string `yaml:"wait"`
	Debug        bool   `yaml:"debug"`
}

// YAML renders the configuration in the config file format
func (c Config) YAML() ([]byte, error) {
	return yaml.Marshal(fileConfig{
		Baud:         c.Baud,
		Terminator:   c.Terminator,
		All:          c.All,
		Port:         c.Port,
		Device:       c.Device,
		Monochrome:   c.Monochrome,
		Accent:       c.Accent,
		Driver:       c.Driver,
		Color:        c.Color,
		PollInterval: c.PollInterval.String(),
		Bell:         c.Bell,
		Wait:         c.Wait.String(),
		Debug:        c.Debug,
	})
}
