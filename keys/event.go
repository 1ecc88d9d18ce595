// Package keys decodes raw terminal key codes into logical key events.
package keys

import "fmt"

// Kind tags the Event variant
type Kind uint8

const (
	KindPrintable Kind = iota // Char holds a printable ASCII character
	KindControl               // Char holds the control letter 'A'..'Z'
	KindNamed                 // Name holds the named key
)

// Name identifies a named key
type Name uint8

const (
	NameUnknown Name = iota
	NameEnter
	NameBackspace
	NameEscape
	NameResize
)

var nameStrings = [...]string{
	NameUnknown:   "Unknown",
	NameEnter:     "Enter",
	NameBackspace: "Backspace",
	NameEscape:    "Escape",
	NameResize:    "Resize",
}

func (n Name) String() string {
	if int(n) < len(nameStrings) {
		return nameStrings[n]
	}
	return fmt.Sprintf("Name(%d)", n)
}

// Event is one decoded key. Construct with Printable, Control or Named
type Event struct {
	Kind Kind
	Char byte
	Name Name
	Code int // raw code the event was decoded from
}

// Printable returns a printable character event
func Printable(c byte) Event {
	return Event{Kind: KindPrintable, Char: c, Code: int(c)}
}

// Control returns a control combination event for letter 'A'..'Z'
func Control(letter byte) Event {
	return Event{Kind: KindControl, Char: letter, Code: int(letter - '@')}
}

// Named returns a named key event
func Named(n Name, code int) Event {
	return Event{Kind: KindNamed, Name: n, Code: code}
}

// Unknown returns the event for an unrecognised raw code
func Unknown(code int) Event {
	return Named(NameUnknown, code)
}

// Is reports whether e is the named key n
func (e Event) Is(n Name) bool {
	return e.Kind == KindNamed && e.Name == n
}

// IsControl reports whether e is Ctrl plus letter
func (e Event) IsControl(letter byte) bool {
	return e.Kind == KindControl && e.Char == letter
}

// Submits reports whether the event submits the edit line (Enter or Ctrl-J)
func (e Event) Submits() bool {
	return e.Is(NameEnter) || e.IsControl('J')
}

// String renders the event for diagnostics. Unknown keys render as hex
func (e Event) String() string {
	switch e.Kind {
	case KindPrintable:
		return fmt.Sprintf("Printable(%q)", e.Char)
	case KindControl:
		return "Ctrl-" + string(e.Char)
	}
	if e.Name == NameUnknown {
		return fmt.Sprintf("0x%02x", e.Code)
	}
	return e.Name.String()
}
