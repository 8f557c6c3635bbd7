package terminal

// Snapshot is an immutable, deep-copied view of a Terminal's visible
// state. Mutation through a Snapshot is impossible by construction: it
// shares no backing arrays with the live Terminal.
type Snapshot struct {
	Cols, Rows   int
	Cursor       Cursor
	CurrentAttrs Attributes
	Modes        Modes
	UseAlternate bool
	ScrollRegion *ScrollRegion
	Lines        []Line // exactly Rows entries, bottom of the active buffer
}

// Snapshot copies out everything a renderer needs, without exposing any
// pointer back into the live buffers.
func (t *Terminal) Snapshot() *Snapshot {
	buf := t.active()
	visible := buf.visibleRows(t.Rows)
	lines := make([]Line, len(visible))
	for i, l := range visible {
		lines[i] = l.clone()
	}
	var region *ScrollRegion
	if t.ScrollRegion != nil {
		r := *t.ScrollRegion
		region = &r
	}
	return &Snapshot{
		Cols:         t.Cols,
		Rows:         t.Rows,
		Cursor:       t.Cursor,
		CurrentAttrs: t.CurrentAttrs,
		Modes:        t.Modes,
		UseAlternate: t.UseAlternate,
		ScrollRegion: region,
		Lines:        lines,
	}
}

// Cell returns the cell at (row, col) in the snapshot, or the zero Cell
// if out of range.
func (s *Snapshot) Cell(row, col int) Cell {
	if row < 0 || row >= len(s.Lines) {
		return Cell{}
	}
	cells := s.Lines[row].Cells
	if col < 0 || col >= len(cells) {
		return Cell{}
	}
	return cells[col]
}

// GetVisibleLines returns exactly Rows plain-text strings: the active
// buffer's bottom Rows lines, short lines space-padded.
func (t *Terminal) GetVisibleLines() []string {
	buf := t.active()
	visible := buf.visibleRows(t.Rows)
	out := make([]string, len(visible))
	for i, l := range visible {
		out[i] = l.plainText(t.Cols)
	}
	return out
}

// Resize updates the terminal's size, clamping the cursor into the new
// bounds and the scroll region if one is set. Existing lines are not
// re-wrapped: resize is clamp-only, matching how most real-world
// terminal consumers resize a live session.
func (t *Terminal) Resize(cols, rows int) error {
	if cols <= 0 || rows <= 0 {
		return ErrInvalidSize
	}
	t.Cols = cols
	t.Rows = rows
	t.Primary.Cols = cols
	t.Alternate.Cols = cols

	if t.Cursor.Col > cols-1 {
		t.Cursor.Col = cols - 1
	}
	if t.Cursor.Row > rows-1 {
		t.Cursor.Row = rows - 1
	}
	if t.ScrollRegion != nil {
		if t.ScrollRegion.Bottom > rows {
			t.ScrollRegion.Bottom = rows
		}
		if t.ScrollRegion.Top >= t.ScrollRegion.Bottom {
			t.ScrollRegion = nil
		}
	}
	t.changed = true
	return nil
}

// ClearBuffer clears the active buffer, homes the cursor and resets
// current attributes — the registry-level "clearBuffer" operation.
func (t *Terminal) ClearBuffer() {
	buf := t.active()
	buf.Clear(t.Rows, defaultAttributes())
	t.Cursor.Row, t.Cursor.Col = 0, 0
	t.CurrentAttrs = defaultAttributes()
	t.changed = true
}
