// Package tui provides immediate-mode drawing primitives over a terminal cell buffer.
//
// Region is a rectangular window into a row-major []terminal.Cell. Text is placed by
// display width (wide runes take two cells), clipped at the region edge, never wrapped.
//
//	cells := make([]terminal.Cell, w*h)
//	root := tui.NewRegion(cells, w, 0, 0, w, h)
//	root.Clear()
//	root.Text(0, 0, tui.Clip(line, w), tui.Plain)
//	term.Flush(cells, w, h)
package tui
