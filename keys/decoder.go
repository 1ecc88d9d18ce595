package keys

import (
	"github.com/lixenwraith/micromon/terminal"
)

// escapeCodes maps raw codes that are neither printable nor control letters
var escapeCodes = map[int]Name{
	0x1b: NameEscape,
}

// Decode maps a raw code to exactly one Event. It has no side effects and never panics
func Decode(code int) Event {
	switch {
	case code == terminal.CodeResize:
		return Named(NameResize, code)

	// Several encodings of the same logical key
	case code == 0x7f, code == 0x08, code == terminal.CodeBackspace:
		return Named(NameBackspace, code)
	case code == 0x0d, code == terminal.CodeEnter:
		return Named(NameEnter, code)

	case code >= 0x20 && code <= 0x7e:
		return Printable(byte(code))
	case code >= 1 && code <= 26:
		return Control(byte('@' + code))
	}

	if name, ok := escapeCodes[code]; ok {
		return Named(name, code)
	}
	return Unknown(code)
}

// Decoder decodes raw codes and runs the resize hook synchronously
type Decoder struct {
	onResize func()
}

// NewDecoder creates a decoder without a resize hook
func NewDecoder() *Decoder {
	return &Decoder{}
}

// OnResize registers fn to run during decoding of a resize, before Decode returns
func (d *Decoder) OnResize(fn func()) {
	d.onResize = fn
}

// Decode decodes code; a resize runs the registered hook first
func (d *Decoder) Decode(code int) Event {
	ev := Decode(code)
	if ev.Is(NameResize) && d.onResize != nil {
		d.onResize()
	}
	return ev
}
