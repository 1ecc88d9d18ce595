package tui

import (
	"testing"

	"github.com/lixenwraith/micromon/terminal"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    terminal.RGB
		wantErr bool
	}{
		{"#3b82f6", terminal.RGB{R: 59, G: 130, B: 246}, false},
		{"3B82F6", terminal.RGB{R: 59, G: 130, B: 246}, false},
		{"#fff", terminal.RGB{R: 255, G: 255, B: 255}, false},
		{"", terminal.RGB{}, true},
		{"blue", terminal.RGB{}, true},
	}
	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseColor(%q): expected error=%v, got %v", tt.in, tt.wantErr, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseColor(%q): expected %+v, got %+v", tt.in, tt.want, got)
		}
	}
}

func TestFormatColorRoundTrip(t *testing.T) {
	if got := FormatColor(DefaultAccent); got != "#3b82f6" {
		t.Errorf("Expected #3b82f6, got %s", got)
	}
}

func TestMonochromeTheme(t *testing.T) {
	mono := NewTheme(terminal.RGBBlue, true)
	if mono.Accent != Plain {
		t.Errorf("Expected monochrome accent to be plain, got %+v", mono.Accent)
	}
	accent := NewTheme(terminal.RGBBlue, false)
	if accent.Accent.Fg != terminal.RGBBlue || accent.Accent.IsPlain() {
		t.Errorf("Expected blue accent, got %+v", accent.Accent)
	}
	if !accent.Text.IsPlain() {
		t.Error("Expected plain text style")
	}
}
