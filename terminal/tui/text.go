package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Width returns display width in terminal cells
func Width(s string) int {
	return runewidth.StringWidth(s)
}

// Clip cuts s to at most maxWidth cells, keeping the start. No ellipsis is added
func Clip(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if Width(s) <= maxWidth {
		return s
	}
	var buf strings.Builder
	w := 0
	for _, ch := range s {
		cw := runewidth.RuneWidth(ch)
		if w+cw > maxWidth {
			break
		}
		buf.WriteRune(ch)
		w += cw
	}
	return buf.String()
}

// Tail keeps the last maxWidth cells of s
func Tail(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if Width(s) <= maxWidth {
		return s
	}
	runes := []rune(s)
	w := 0
	i := len(runes)
	for i > 0 {
		cw := runewidth.RuneWidth(runes[i-1])
		if w+cw > maxWidth {
			break
		}
		w += cw
		i--
	}
	return string(runes[i:])
}

// TabWidth is the distance between tab stops
const TabWidth = 8

// ExpandTabs replaces each tab with spaces up to the next tab stop
func ExpandTabs(s string) string {
	if !strings.ContainsRune(s, '\t') {
		return s
	}
	var buf strings.Builder
	col := 0
	for _, ch := range s {
		if ch == '\t' {
			n := TabWidth - col%TabWidth
			buf.WriteString(strings.Repeat(" ", n))
			col += n
			continue
		}
		buf.WriteRune(ch)
		col += runewidth.RuneWidth(ch)
	}
	return buf.String()
}

// RepeatRune returns a string of n repeated runes
func RepeatRune(r rune, n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat(string(r), n)
}
