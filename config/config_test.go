package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/lixenwraith/micromon/terminal"
	"github.com/lixenwraith/micromon/transport"
)

func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(strings.TrimSpace(content)+"\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func testFlags() *pflag.FlagSet {
	def := Default()
	fs := pflag.NewFlagSet("micromon", pflag.ContinueOnError)
	fs.IntP("baud", "b", def.Baud, "")
	fs.StringP("terminator", "t", def.Terminator, "")
	fs.BoolP("all", "a", false, "")
	fs.IntP("port", "p", 0, "")
	fs.Duration("poll", def.PollInterval, "")
	fs.Bool("bell", false, "")
	return fs
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Expected default config to validate, got %v", err)
	}
	if cfg.Baud != 9600 {
		t.Errorf("Expected 9600 baud, got %d", cfg.Baud)
	}
	term, _ := cfg.LineTerminator()
	if term != transport.LF {
		t.Errorf("Expected LF terminator, got %v", term)
	}
}

func TestLoadWithoutFile(t *testing.T) {
	isolate(t)
	cfg, err := Load("", nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg != Default() {
		t.Errorf("Expected defaults, got %+v", cfg)
	}
}

func TestLoadFile(t *testing.T) {
	isolate(t)
	path := writeConfig(t, `
baud: 115200
terminator: both
poll_interval: 200ms
wait: 5s
accent: "#ff8800"
`)
	cfg, err := Load(path, nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Baud != 115200 {
		t.Errorf("Expected 115200 baud, got %d", cfg.Baud)
	}
	if cfg.Terminator != "both" {
		t.Errorf("Expected both, got %q", cfg.Terminator)
	}
	if cfg.PollInterval != 200*time.Millisecond {
		t.Errorf("Expected 200ms poll, got %v", cfg.PollInterval)
	}
	if cfg.Wait != 5*time.Second {
		t.Errorf("Expected 5s wait, got %v", cfg.Wait)
	}
	theme, _ := cfg.Theme()
	if theme.Accent.Fg != (terminal.RGB{R: 255, G: 136, B: 0}) {
		t.Errorf("Expected orange accent, got %+v", theme.Accent.Fg)
	}
}

func TestLoadDefaultPathFile(t *testing.T) {
	isolate(t)
	path, err := DefaultPath()
	if err != nil {
		t.Skipf("no config dir: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("baud: 57600\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("", nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Baud != 57600 {
		t.Errorf("Expected baud from default path file, got %d", cfg.Baud)
	}
	if ConfigFileUsed("") != path {
		t.Errorf("Expected %q in use, got %q", path, ConfigFileUsed(""))
	}
}

func TestLoadExplicitMissingFile(t *testing.T) {
	isolate(t)
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), nil); err == nil {
		t.Error("Expected error for missing explicit config file")
	}
}

func TestLoadPrecedence(t *testing.T) {
	isolate(t)
	path := writeConfig(t, `
baud: 115200
terminator: r
bell: true
`)
	t.Setenv("MICROMON_TERMINATOR", "both")
	t.Setenv("MICROMON_POLL_INTERVAL", "120ms")

	fs := testFlags()
	if err := fs.Parse([]string{"-b", "19200"}); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path, fs)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Baud != 19200 {
		t.Errorf("Expected flag to win for baud, got %d", cfg.Baud)
	}
	if cfg.Terminator != "both" {
		t.Errorf("Expected env to win over file for terminator, got %q", cfg.Terminator)
	}
	if cfg.PollInterval != 120*time.Millisecond {
		t.Errorf("Expected env poll interval, got %v", cfg.PollInterval)
	}
	if !cfg.Bell {
		t.Error("Expected bell from file since the flag was not set")
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	isolate(t)
	path := writeConfig(t, "terminator: x\n")

	_, err := Load(path, nil)
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("Expected ValidationError, got %v", err)
	}
	if vErr.Key != "terminator" {
		t.Errorf("Expected terminator key, got %q", vErr.Key)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		key    string
	}{
		{"zero baud", func(c *Config) { c.Baud = 0 }, "baud"},
		{"bad terminator", func(c *Config) { c.Terminator = "lfcr" }, "terminator"},
		{"negative port", func(c *Config) { c.Port = -1 }, "port"},
		{"bad accent", func(c *Config) { c.Accent = "#zzzzzz" }, "accent"},
		{"bad driver", func(c *Config) { c.Driver = "curses" }, "driver"},
		{"bad color", func(c *Config) { c.Color = "16" }, "color"},
		{"poll too short", func(c *Config) { c.PollInterval = 10 * time.Millisecond }, "poll_interval"},
		{"poll too long", func(c *Config) { c.PollInterval = time.Second }, "poll_interval"},
		{"negative wait", func(c *Config) { c.Wait = -time.Second }, "wait"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(&cfg)
			err := cfg.Validate()
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("Expected ValidationError, got %v", err)
			}
			if vErr.Key != tt.key {
				t.Errorf("Expected key %q, got %q", tt.key, vErr.Key)
			}
		})
	}
}

func TestMonochromeIgnoresAccent(t *testing.T) {
	cfg := Default()
	cfg.Monochrome = true
	cfg.Accent = "not a color"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected monochrome to skip accent parsing, got %v", err)
	}
	theme, _ := cfg.Theme()
	if !theme.Accent.IsPlain() {
		t.Error("Expected plain accent in monochrome")
	}
}

func TestColorModes(t *testing.T) {
	cfg := Default()
	if modes, err := cfg.ColorModes(); err != nil || modes != nil {
		t.Errorf("Expected auto detection, got %v err=%v", modes, err)
	}
	cfg.Color = "256"
	modes, err := cfg.ColorModes()
	if err != nil || len(modes) != 1 || modes[0] != terminal.ColorMode256 {
		t.Errorf("Expected forced 256 colors, got %v err=%v", modes, err)
	}
}

func TestYAMLRoundTripsThroughLoad(t *testing.T) {
	isolate(t)
	cfg := Default()
	cfg.Baud = 38400
	cfg.Wait = 3 * time.Second

	data, err := cfg.YAML()
	if err != nil {
		t.Fatalf("YAML failed: %v", err)
	}
	if !strings.Contains(string(data), "poll_interval: 150ms") {
		t.Errorf("Expected readable durations, got:\n%s", data)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Expected valid YAML, got %v", err)
	}

	path := writeConfig(t, string(data))
	loaded, err := Load(path, nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded != cfg {
		t.Errorf("Expected %+v, got %+v", cfg, loaded)
	}
}
