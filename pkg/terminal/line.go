package terminal

import "time"

// Line is an ordered sequence of cells plus the bookkeeping the screen
// buffer needs to preserve wrap semantics and age out scrollback.
type Line struct {
	Cells     []Cell
	Wrapped   bool // true iff continued from the previous row by autowrap
	CreatedAt time.Time
}

// newLine returns a blank line of the given width filled with
// default-attribute space cells.
func newLine(cols int) Line {
	cells := make([]Cell, cols)
	for i := range cells {
		cells[i] = blankCell(defaultAttributes())
	}
	return Line{Cells: cells, CreatedAt: time.Now()}
}

// plainText renders a line as a space-padded string of exactly width
// runes (continuation cells are skipped, so a wide grapheme counts as
// one rune), matching getVisibleLines' contract.
func (l Line) plainText(width int) string {
	buf := make([]rune, 0, width)
	for _, c := range l.Cells {
		if c.Continuation {
			continue
		}
		if c.Ch == "" {
			buf = append(buf, ' ')
			continue
		}
		for _, r := range c.Ch {
			buf = append(buf, r)
		}
	}
	for len(buf) < width {
		buf = append(buf, ' ')
	}
	if len(buf) > width {
		buf = buf[:width]
	}
	return string(buf)
}

// pad grows the line to at least n cells with default-attribute spaces.
func (l *Line) pad(n int) {
	for len(l.Cells) < n {
		l.Cells = append(l.Cells, blankCell(defaultAttributes()))
	}
}

// clone deep-copies the line's cell slice so snapshots are immutable.
func (l Line) clone() Line {
	cells := make([]Cell, len(l.Cells))
	copy(cells, l.Cells)
	return Line{Cells: cells, Wrapped: l.Wrapped, CreatedAt: l.CreatedAt}
}
