package terminal

import "fmt"

// Raw key codes delivered by ReadKey.
//
// Single-byte input is reported as the byte value (0-255) and decoded UTF-8 as the rune
// value. Keys that arrive as multi-byte escape sequences, and terminal resizes, are
// reported as sentinels above the Unicode range so they can never collide with a rune.
const (
	codeBase = 0x110000

	CodeResize = codeBase + iota
	CodeBackspace
	CodeEnter
	CodeUp
	CodeDown
	CodeLeft
	CodeRight
	CodeHome
	CodeEnd
	CodePageUp
	CodePageDown
	CodeInsert
	CodeDelete
	CodeBacktab
	CodeF1
	CodeF2
	CodeF3
	CodeF4
	CodeF5
	CodeF6
	CodeF7
	CodeF8
	CodeF9
	CodeF10
	CodeF11
	CodeF12
	codeEnd
)

// codeNames maps sentinel codes to diagnostic names
var codeNames = map[int]string{
	CodeResize:    "resize",
	CodeBackspace: "backspace",
	CodeEnter:     "enter",
	CodeUp:        "up",
	CodeDown:      "down",
	CodeLeft:      "left",
	CodeRight:     "right",
	CodeHome:      "home",
	CodeEnd:       "end",
	CodePageUp:    "page_up",
	CodePageDown:  "page_down",
	CodeInsert:    "insert",
	CodeDelete:    "delete",
	CodeBacktab:   "backtab",
	CodeF1:        "f1",
	CodeF2:        "f2",
	CodeF3:        "f3",
	CodeF4:        "f4",
	CodeF5:        "f5",
	CodeF6:        "f6",
	CodeF7:        "f7",
	CodeF8:        "f8",
	CodeF9:        "f9",
	CodeF10:       "f10",
	CodeF11:       "f11",
	CodeF12:       "f12",
}

// IsSentinel reports whether code is a named-key or resize sentinel
func IsSentinel(code int) bool {
	return code > codeBase && code < codeEnd
}

// CodeName returns a diagnostic name for a raw code
func CodeName(code int) string {
	if name, ok := codeNames[code]; ok {
		return name
	}
	return fmt.Sprintf("0x%02x", code)
}

// escapeSequence maps an escape sequence body to a key code
// Key: sequence after ESC [ (e.g., "A" for up arrow)
type escapeSequence struct {
	seq  string
	code int
}

// Known escape sequences (CSI sequences: ESC [ ...)
// Modified variants (xterm ESC [ 1 ; mod X) collapse onto the plain key
var csiSequences = []escapeSequence{
	{"A", CodeUp},
	{"B", CodeDown},
	{"C", CodeRight},
	{"D", CodeLeft},
	{"Z", CodeBacktab},

	{"1;2A", CodeUp},
	{"1;2B", CodeDown},
	{"1;2C", CodeRight},
	{"1;2D", CodeLeft},
	{"1;3A", CodeUp},
	{"1;3B", CodeDown},
	{"1;3C", CodeRight},
	{"1;3D", CodeLeft},
	{"1;5A", CodeUp},
	{"1;5B", CodeDown},
	{"1;5C", CodeRight},
	{"1;5D", CodeLeft},

	{"H", CodeHome},
	{"F", CodeEnd},
	{"1~", CodeHome},
	{"4~", CodeEnd},
	{"5~", CodePageUp},
	{"6~", CodePageDown},
	{"2~", CodeInsert},
	{"3~", CodeDelete},

	{"11~", CodeF1},
	{"12~", CodeF2},
	{"13~", CodeF3},
	{"14~", CodeF4},
	{"15~", CodeF5},
	{"17~", CodeF6},
	{"18~", CodeF7},
	{"19~", CodeF8},
	{"20~", CodeF9},
	{"21~", CodeF10},
	{"23~", CodeF11},
	{"24~", CodeF12},

	// Linux console
	{"[A", CodeF1},
	{"[B", CodeF2},
	{"[C", CodeF3},
	{"[D", CodeF4},
	{"[E", CodeF5},
}

// SS3 sequences (ESC O ...)
var ss3Sequences = []escapeSequence{
	{"A", CodeUp},
	{"B", CodeDown},
	{"C", CodeRight},
	{"D", CodeLeft},
	{"H", CodeHome},
	{"F", CodeEnd},
	{"M", CodeEnter}, // keypad enter in application mode
	{"P", CodeF1},
	{"Q", CodeF2},
	{"R", CodeF3},
	{"S", CodeF4},
}

var csiMap = buildSequenceMap(csiSequences)
var ss3Map = buildSequenceMap(ss3Sequences)

func buildSequenceMap(seqs []escapeSequence) map[string]int {
	m := make(map[string]int, len(seqs))
	for _, s := range seqs {
		m[s.seq] = s.code
	}
	return m
}

// lookupCSI performs zero-alloc map lookup via compiler optimization
// The string([]byte) conversion inline in map access does not allocate
func lookupCSI(seq []byte) (int, bool) {
	code, ok := csiMap[string(seq)]
	return code, ok
}

// lookupSS3 performs zero-alloc map lookup
func lookupSS3(seq []byte) (int, bool) {
	code, ok := ss3Map[string(seq)]
	return code, ok
}
