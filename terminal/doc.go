// Package terminal provides direct ANSI terminal control for the micromon dashboard.
//
// Features:
//   - True color (24-bit) and 256-color palette support, terminal default colors
//   - Double-buffered output with cell-level diffing
//   - Raw stdin input parsing into integer key codes (bytes plus named-key sentinels)
//   - SIGWINCH resize detection reported through the key code stream
//   - Clean terminal restoration on exit/panic
//
// This package bypasses terminfo/termcap entirely, emitting direct ANSI sequences.
// Target environments: Linux, macOS, BSDs with xterm-compatible terminals.
package terminal
