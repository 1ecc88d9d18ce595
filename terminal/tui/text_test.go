package tui

import "testing"

func TestClip(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"hello", 10, "hello"},
		{"hello", 5, "hello"},
		{"hello", 3, "hel"},
		{"hello", 0, ""},
		{"hello", -1, ""},
		{"", 4, ""},
		{"世界abc", 3, "世"},
		{"世界abc", 4, "世界"},
		{"a世", 2, "a"},
	}
	for _, tt := range tests {
		if got := Clip(tt.in, tt.max); got != tt.want {
			t.Errorf("Clip(%q, %d): expected %q, got %q", tt.in, tt.max, tt.want, got)
		}
	}
}

func TestTail(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"hello", 10, "hello"},
		{"hello", 2, "lo"},
		{"hello", 0, ""},
		{"ab世", 2, "世"},
		{"ab世", 3, "b世"},
		{"世a", 2, "a"},
	}
	for _, tt := range tests {
		if got := Tail(tt.in, tt.max); got != tt.want {
			t.Errorf("Tail(%q, %d): expected %q, got %q", tt.in, tt.max, tt.want, got)
		}
	}
}

func TestWidthAndRepeat(t *testing.T) {
	if got := Width("◦ send:      "); got != 13 {
		t.Errorf("Expected label width 13, got %d", got)
	}
	if got := RepeatRune('─', 3); got != "───" {
		t.Errorf("Expected three rules, got %q", got)
	}
	if got := RepeatRune('─', -2); got != "" {
		t.Errorf("Expected empty string for negative count, got %q", got)
	}
}

func TestExpandTabs(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"col1\tcol2", "col1    col2"},
		{"\tx", "        x"},
		{"12345678\ty", "12345678        y"},
		{"a\tb\tc", "a       b       c"},
		{"世\tx", "世      x"},
	}
	for _, tt := range tests {
		if got := ExpandTabs(tt.in); got != tt.want {
			t.Errorf("ExpandTabs(%q): expected %q, got %q", tt.in, tt.want, got)
		}
	}
}
