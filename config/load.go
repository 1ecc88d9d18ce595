package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. MICROMON_BAUD
const EnvPrefix = "MICROMON"

// flagKeys maps command line flag names to config keys
var flagKeys = map[string]string{
	"baud":       "baud",
	"terminator": "terminator",
	"all":        "all",
	"port":       "port",
	"device":     "device",
	"monochrome": "monochrome",
	"accent":     "accent",
	"driver":     "driver",
	"color":      "color",
	"poll":       "poll_interval",
	"bell":       "bell",
	"wait":       "wait",
	"debug":      "debug",
}

// DefaultPath returns $XDG_CONFIG_HOME/micromon/config.yaml or its platform equivalent
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "micromon", "config.yaml"), nil
}

// Load resolves the configuration. An explicit path must exist; the default
// path is read only when present. Flags that were set override everything else
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	explicit := path != ""
	if !explicit {
		if p, err := DefaultPath(); err == nil {
			path = p
		}
	}

	cfg := Default()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetDefault("baud", cfg.Baud)
	v.SetDefault("terminator", cfg.Terminator)
	v.SetDefault("all", cfg.All)
	v.SetDefault("port", cfg.Port)
	v.SetDefault("device", cfg.Device)
	v.SetDefault("monochrome", cfg.Monochrome)
	v.SetDefault("accent", cfg.Accent)
	v.SetDefault("driver", cfg.Driver)
	v.SetDefault("color", cfg.Color)
	v.SetDefault("poll_interval", cfg.PollInterval)
	v.SetDefault("bell", cfg.Bell)
	v.SetDefault("wait", cfg.Wait)
	v.SetDefault("debug", cfg.Debug)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			missing := errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)
			if explicit || !missing {
				return Config{}, fmt.Errorf("read config %s: %w", path, err)
			}
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			f := flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return Config{}, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ConfigFileUsed reports which file Load would read for path, or "" when none exists
func ConfigFileUsed(path string) string {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return ""
		}
		path = p
	}
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}
