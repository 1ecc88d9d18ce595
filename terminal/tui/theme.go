package tui

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/lixenwraith/micromon/terminal"
)

// Theme defines the two styles of the dashboard
type Theme struct {
	Accent Style // dividers and prompt glyph
	Text   Style // history and edit line
}

// DefaultAccent is the divider and prompt color
var DefaultAccent = terminal.RGBBlue

// DefaultTheme is the accent theme with the default blue
var DefaultTheme = NewTheme(DefaultAccent, false)

// NewTheme builds a theme. Monochrome substitutes the plain style for the accent
func NewTheme(accent terminal.RGB, monochrome bool) Theme {
	if monochrome {
		return Theme{Accent: Plain, Text: Plain}
	}
	return Theme{Accent: Foreground(accent), Text: Plain}
}

// ParseColor parses "#RRGGBB", "#RGB" or "RRGGBB" into an RGB value
func ParseColor(s string) (terminal.RGB, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return terminal.RGB{}, fmt.Errorf("empty color")
	}
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return terminal.RGB{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return terminal.RGB{R: r, G: g, B: b}, nil
}

// FormatColor renders an RGB value as "#rrggbb"
func FormatColor(c terminal.RGB) string {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}.Hex()
}
