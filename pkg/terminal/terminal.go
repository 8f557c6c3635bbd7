// Package terminal implements a VT-100/xterm-compatible terminal
// emulator engine: an ANSI escape-sequence recognizer driving a state
// machine that mutates a dual-buffer character grid with cursor, scroll
// region, attribute stack, alternate-screen swap and line-wrap
// semantics. It is single-threaded and synchronous by design — callers
// that need concurrency serialize at a higher layer (see pkg/session).
package terminal

import "time"

// Options configures a new Terminal. Use DefaultOptions() as a starting
// point rather than a bare Options{}: HandleCarriageReturn defaults to
// true, which a zero-value bool can't express on its own.
type Options struct {
	Cols                 int  // default 80
	Rows                 int  // default 24
	MaxBufferLines       int  // default 1000, hard ceiling HardMaxLines
	MaxLineLength        int  // default DefaultMaxLineLength; <= 0 means "use the default"
	HandleCarriageReturn bool // default true; false makes CR behave like LF
}

// DefaultOptions returns the engine's defaults: 80x24, 1000 scrollback
// lines, 4096-cell line length, CR handled normally.
func DefaultOptions() Options {
	return Options{
		Cols:                 80,
		Rows:                 24,
		MaxBufferLines:       1000,
		MaxLineLength:        DefaultMaxLineLength,
		HandleCarriageReturn: true,
	}
}

// Modes holds the DEC/ANSI mode bits the dispatcher maintains outside of
// Attributes.
type Modes struct {
	ApplicationCursor bool
	Autowrap          bool
	InsertMode        bool
	LocalEcho         bool
	OriginMode        bool // DECOM: affects only H/f addressing and the home after r; see setPrivateMode
}

func defaultModes() Modes {
	return Modes{Autowrap: true, LocalEcho: true}
}

// Cursor is the terminal's cursor position and visibility.
// 0 <= Col <= Cols: the value Cols itself is the transient "pending
// wrap" position, valid only between writing the last column and the
// next printable grapheme.
type Cursor struct {
	Row, Col int
	Visible  bool
}

// ScrollRegion is a 1-based inclusive row range eligible for scrolling.
// A nil *ScrollRegion on Terminal means "whole screen".
type ScrollRegion struct {
	Top, Bottom int
}

// Terminal is one session's full emulator state: primary and alternate
// screen buffers, cursor, attributes, modes, and the incremental parser
// needed to resume mid-sequence across ProcessOutput calls.
type Terminal struct {
	SessionID string

	Primary   *ScreenBuffer
	Alternate *ScreenBuffer
	UseAlternate bool

	Cursor      Cursor
	SavedCursor *Cursor

	Cols, Rows int

	CurrentAttrs Attributes
	Modes        Modes
	ScrollRegion *ScrollRegion

	HandleCarriageReturn bool
	MaxBufferLines       int
	MaxLineLength        int

	LastUpdated time.Time

	p parser

	changed bool
}

// NewTerminal constructs a fresh terminal state with distinct primary and
// alternate buffers.
func NewTerminal(sessionID string, opts Options) *Terminal {
	cols := opts.Cols
	if cols <= 0 {
		cols = 80
	}
	rows := opts.Rows
	if rows <= 0 {
		rows = 24
	}
	maxLines := opts.MaxBufferLines
	if maxLines <= 0 {
		maxLines = 1000
	}
	lineLength := opts.MaxLineLength
	if lineLength <= 0 {
		lineLength = DefaultMaxLineLength
	}

	t := &Terminal{
		SessionID:            sessionID,
		Cols:                 cols,
		Rows:                 rows,
		MaxBufferLines:       maxLines,
		MaxLineLength:        lineLength,
		HandleCarriageReturn: opts.HandleCarriageReturn,
		Modes:                defaultModes(),
		Cursor:               Cursor{Visible: true},
		LastUpdated:          time.Now(),
	}
	t.Primary = NewScreenBuffer(rows, cols, maxLines)
	t.Primary.SetMaxLineLength(lineLength)
	t.Alternate = NewScreenBuffer(rows, cols, rows)
	t.Alternate.SetMaxLineLength(lineLength)
	return t
}

func (t *Terminal) active() *ScreenBuffer {
	if t.UseAlternate {
		return t.Alternate
	}
	return t.Primary
}

// screenRow maps the cursor's screen-relative row to an absolute index
// into the active buffer's Lines (which may also hold scrollback).
func (t *Terminal) screenRow() int {
	buf := t.active()
	return buf.screenStart(t.Rows) + t.Cursor.Row
}

func (t *Terminal) regionTop() int {
	if t.ScrollRegion != nil {
		return t.ScrollRegion.Top - 1
	}
	return 0
}

func (t *Terminal) regionBottom() int {
	if t.ScrollRegion != nil {
		b := t.ScrollRegion.Bottom - 1
		if b > t.Rows-1 {
			b = t.Rows - 1
		}
		return b
	}
	return t.Rows - 1
}

// ---- control characters (§4.D) ----

func (t *Terminal) handleControl(b byte) {
	switch b {
	case 0x07: // BEL: ignored
	case 0x08: // BS
		if t.Cursor.Col > 0 {
			t.Cursor.Col--
			t.changed = true
		}
	case 0x09: // HT
		next := ((t.Cursor.Col / 8) + 1) * 8
		if next > t.Cols-1 {
			next = t.Cols - 1
		}
		if next != t.Cursor.Col {
			t.Cursor.Col = next
			t.changed = true
		}
	case 0x0A: // LF: next row, column 0
		t.lineFeed()
		t.Cursor.Col = 0
	case 0x0D: // CR
		if t.HandleCarriageReturn {
			if t.Cursor.Col != 0 {
				t.Cursor.Col = 0
				t.changed = true
			}
		} else {
			// CR becomes LF semantically when the option is disabled.
			t.lineFeed()
			t.Cursor.Col = 0
		}
	default:
		// other < 0x20 and 0x7F: ignored
	}
}

func (t *Terminal) lineFeed() {
	top, bottom := t.regionTop(), t.regionBottom()
	buf := t.active()
	if t.Cursor.Row == bottom {
		buf.ScrollUp(1, top, bottom, t.Rows, t.CurrentAttrs, !t.UseAlternate)
	} else if t.Cursor.Row < t.Rows-1 {
		t.Cursor.Row++
	}
	t.changed = true
}

// wrapLine performs the implicit LF;col=0 a pending-wrap position
// resolves into, and marks the destination line as continued.
func (t *Terminal) wrapLine() {
	t.lineFeed()
	t.Cursor.Col = 0
	buf := t.active()
	absRow := t.screenRow()
	buf.ensureRow(absRow)
	buf.Lines[absRow].Wrapped = true
}

// ---- printable graphemes (§4.D) ----

func (t *Terminal) writeGrapheme(s string, width int) {
	if width <= 0 {
		if t.mergeCombining(s) {
			return
		}
		width = 1
	}
	if width > 2 {
		width = 2
	}

	if t.Cursor.Col >= t.Cols {
		if t.Modes.Autowrap {
			t.wrapLine()
		} else {
			t.Cursor.Col = t.Cols - 1
		}
	}

	// xterm convention: a wide grapheme that would straddle the right
	// margin wraps first instead of splitting across the boundary.
	if width == 2 && t.Cursor.Col == t.Cols-1 {
		if t.Modes.Autowrap {
			t.wrapLine()
		} else {
			width = 1
		}
	}

	buf := t.active()
	row := t.screenRow()
	cell := Cell{Ch: s, Width: uint8(width), Attrs: t.CurrentAttrs}

	if t.Modes.InsertMode {
		buf.InsertCellAt(row, t.Cursor.Col, cell)
		if width == 2 {
			buf.InsertCellAt(row, t.Cursor.Col+1, continuationCell(t.CurrentAttrs))
		}
	} else {
		buf.WriteCellAt(row, t.Cursor.Col, cell)
		if width == 2 {
			buf.WriteCellAt(row, t.Cursor.Col+1, continuationCell(t.CurrentAttrs))
		}
	}

	t.Cursor.Col += width
	t.changed = true
}

// mergeCombining appends a zero-width grapheme (one a chunk boundary
// split off from its base character) onto the previously written cell
// instead of allocating a cell of its own.
func (t *Terminal) mergeCombining(s string) bool {
	if t.Cursor.Col <= 0 {
		return false
	}
	buf := t.active()
	row := t.screenRow()
	if row < 0 || row >= len(buf.Lines) {
		return false
	}
	line := &buf.Lines[row]
	col := t.Cursor.Col - 1
	if col < len(line.Cells) && line.Cells[col].Continuation {
		col--
	}
	if col < 0 || col >= len(line.Cells) {
		return false
	}
	line.Cells[col].Ch += s
	t.changed = true
	return true
}

// Changed reports whether the most recent ProcessOutput call produced a
// state mutation. The session registry uses this to decide whether to
// fire its change callback.
func (t *Terminal) Changed() bool { return t.changed }

// resetChanged clears the dirty flag; ProcessOutput calls it on entry so
// Changed() reflects only that call.
func (t *Terminal) resetChanged() { t.changed = false }
