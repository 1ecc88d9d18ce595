package tui

import (
	"github.com/lixenwraith/micromon/terminal"
)

// Style bundles foreground, background, and attributes for text rendering
type Style struct {
	Fg   terminal.RGB
	Bg   terminal.RGB
	Attr terminal.Attr
}

// Plain renders in the terminal's own foreground and background
var Plain = Style{Attr: terminal.AttrDefault}

// Foreground returns a style with fg over the default background
func Foreground(fg terminal.RGB) Style {
	return Style{Fg: fg, Attr: terminal.AttrBgDefault}
}

// IsPlain reports whether both colors are terminal defaults and no style bit is set
func (s Style) IsPlain() bool {
	return s.Attr&terminal.AttrDefault == terminal.AttrDefault && s.Attr&terminal.AttrStyle == 0
}
