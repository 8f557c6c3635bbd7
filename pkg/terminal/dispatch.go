package terminal

// dispatchSimpleEscape applies a classified two-byte ESC sequence.
// Dangerous sequences never reach here (parser.go only calls this for
// SeqSimpleEscape, which classify.go always marks Safe or Unsupported);
// Unsupported ones fall through to the no-op default below.
func (t *Terminal) dispatchSimpleEscape(seq Sequence) {
	switch seq.Final {
	case '7': // DECSC
		t.saveCursor()
	case '8': // DECRC
		t.restoreCursor()
	case 'D': // IND
		t.lineFeed()
	case 'M': // RI
		t.reverseIndex()
	case 'E': // NEL
		t.Cursor.Col = 0
		t.lineFeed()
	case 'c': // RIS
		t.fullReset()
	default:
		// recognized-but-unsupported or unknown: no state change
	}
}

func (t *Terminal) reverseIndex() {
	top, bottom := t.regionTop(), t.regionBottom()
	buf := t.active()
	if t.Cursor.Row == top {
		buf.ScrollDown(1, top, bottom, t.Rows, t.CurrentAttrs)
	} else if t.Cursor.Row > 0 {
		t.Cursor.Row--
	}
	t.changed = true
}

func (t *Terminal) saveCursor() {
	c := t.Cursor
	t.SavedCursor = &c
	t.changed = true
}

func (t *Terminal) restoreCursor() {
	if t.SavedCursor == nil {
		return
	}
	t.Cursor = *t.SavedCursor
	t.changed = true
}

// fullReset implements RIS: a complete reset of both buffers, cursor,
// attributes, modes and scroll region.
func (t *Terminal) fullReset() {
	t.Primary = NewScreenBuffer(t.Rows, t.Cols, t.MaxBufferLines)
	t.Primary.SetMaxLineLength(t.MaxLineLength)
	t.Alternate = NewScreenBuffer(t.Rows, t.Cols, t.Rows)
	t.Alternate.SetMaxLineLength(t.MaxLineLength)
	t.UseAlternate = false
	t.Cursor = Cursor{Visible: true}
	t.SavedCursor = nil
	t.CurrentAttrs = defaultAttributes()
	t.Modes = defaultModes()
	t.ScrollRegion = nil
	t.changed = true
}

// dispatchCSI applies a classified CSI sequence to cursor/buffer state.
// Unsupported sequences (recognized form, no dispatch) and anything
// classified Dangerous are no-ops.
func (t *Terminal) dispatchCSI(seq Sequence) {
	if seq.Security != Safe {
		return
	}
	switch seq.Final {
	case 'A':
		t.cursorUp(paramDefault(seq.Params, 0, 1))
	case 'B':
		t.cursorDown(paramDefault(seq.Params, 0, 1))
	case 'C':
		t.cursorForward(paramDefault(seq.Params, 0, 1))
	case 'D':
		t.cursorBack(paramDefault(seq.Params, 0, 1))
	case 'H', 'f':
		row := paramDefault(seq.Params, 0, 1)
		col := paramDefault(seq.Params, 1, 1)
		t.cursorPosition(row, col)
	case 'J':
		t.eraseInDisplay(paramDefault(seq.Params, 0, 0))
	case 'K':
		t.eraseInLine(paramDefault(seq.Params, 0, 0))
	case 's':
		t.saveCursor()
	case 'u':
		t.restoreCursor()
	case 'r':
		t.setScrollRegion(seq.Params)
	case 'm':
		t.handleSGR(seq.Params)
	case 'h':
		t.setModes(seq.Params, seq.Private, true)
	case 'l':
		t.setModes(seq.Params, seq.Private, false)
	}
}

// ---- cursor motion (§4.F) ----

func (t *Terminal) cursorUp(n int) {
	top := t.regionTop()
	floor := 0
	if t.Cursor.Row >= t.regionTop() && t.Cursor.Row <= t.regionBottom() {
		floor = top
	}
	t.Cursor.Row -= n
	if t.Cursor.Row < floor {
		t.Cursor.Row = floor
	}
	t.changed = true
}

func (t *Terminal) cursorDown(n int) {
	bottom := t.regionBottom()
	ceil := t.Rows - 1
	if t.Cursor.Row >= t.regionTop() && t.Cursor.Row <= t.regionBottom() {
		ceil = bottom
	}
	t.Cursor.Row += n
	if t.Cursor.Row > ceil {
		t.Cursor.Row = ceil
	}
	t.changed = true
}

func (t *Terminal) cursorForward(n int) {
	t.Cursor.Col += n
	if t.Cursor.Col > t.Cols-1 {
		t.Cursor.Col = t.Cols - 1
	}
	t.changed = true
}

func (t *Terminal) cursorBack(n int) {
	t.Cursor.Col -= n
	if t.Cursor.Col < 0 {
		t.Cursor.Col = 0
	}
	t.changed = true
}

func (t *Terminal) cursorPosition(row, col int) {
	r, c := row-1, col-1
	if t.Modes.OriginMode && t.ScrollRegion != nil {
		r += t.ScrollRegion.Top - 1
	}
	if r < 0 {
		r = 0
	}
	if r > t.Rows-1 {
		r = t.Rows - 1
	}
	if c < 0 {
		c = 0
	}
	if c > t.Cols-1 {
		c = t.Cols - 1
	}
	t.Cursor.Row, t.Cursor.Col = r, c
	t.changed = true
}

// ---- erase (§4.B / §4.F) ----

func (t *Terminal) eraseInLine(mode int) {
	buf := t.active()
	buf.EraseInLine(t.screenRow(), t.Cursor.Col, mode, t.CurrentAttrs)
	t.changed = true
}

func (t *Terminal) eraseInDisplay(mode int) {
	buf := t.active()
	row := t.screenRow()
	switch mode {
	case 0:
		buf.EraseInDisplay(row, t.Cursor.Col, 0, t.CurrentAttrs, false)
	case 1:
		// only the visible screen: lines above it are scrollback
		buf.EraseInLine(row, t.Cursor.Col, 1, t.CurrentAttrs)
		for y := buf.screenStart(t.Rows); y < row; y++ {
			buf.EraseInLine(y, 0, 2, t.CurrentAttrs)
		}
	case 2:
		// mode 2 clears the visible screen; scrollback survives on the
		// primary buffer and is cleared on the alternate one.
		if t.UseAlternate {
			buf.EraseInDisplay(row, t.Cursor.Col, 2, t.CurrentAttrs, true)
		} else {
			buf.Clear(t.Rows, t.CurrentAttrs)
		}
	case 3:
		buf.EraseInDisplay(row, t.Cursor.Col, 3, t.CurrentAttrs, true)
	}
	t.changed = true
}

// ---- scroll region ----

func (t *Terminal) setScrollRegion(params []int) {
	if len(params) == 0 {
		t.ScrollRegion = nil
	} else {
		top := paramDefault(params, 0, 1)
		bottom := paramDefault(params, 1, t.Rows)
		if top < 1 {
			top = 1
		}
		if bottom > t.Rows {
			bottom = t.Rows
		}
		if top >= bottom {
			t.ScrollRegion = nil
		} else {
			t.ScrollRegion = &ScrollRegion{Top: top, Bottom: bottom}
		}
	}
	t.Cursor.Row, t.Cursor.Col = 0, 0
	if t.Modes.OriginMode && t.ScrollRegion != nil {
		t.Cursor.Row = t.ScrollRegion.Top - 1
	}
	t.changed = true
}

// ---- SGR (§4.F) ----

func (t *Terminal) handleSGR(params []int) {
	if len(params) == 0 {
		params = []int{0}
	}
	for i := 0; i < len(params); i++ {
		p := params[i]
		if p == -1 {
			p = 0
		}
		switch {
		case p == 0:
			t.CurrentAttrs = defaultAttributes()
		case p == 1:
			t.CurrentAttrs.Bold = true
		case p == 2:
			t.CurrentAttrs.Dim = true
		case p == 3:
			t.CurrentAttrs.Italic = true
		case p == 4:
			t.CurrentAttrs.Underline = true
		case p == 5:
			t.CurrentAttrs.Blink = true
		case p == 7:
			t.CurrentAttrs.Reverse = true
		case p == 9:
			t.CurrentAttrs.Strikethrough = true
		case p == 22:
			t.CurrentAttrs.Bold = false
			t.CurrentAttrs.Dim = false
		case p == 23:
			t.CurrentAttrs.Italic = false
		case p == 24:
			t.CurrentAttrs.Underline = false
		case p == 25:
			t.CurrentAttrs.Blink = false
		case p == 27:
			t.CurrentAttrs.Reverse = false
		case p == 29:
			t.CurrentAttrs.Strikethrough = false
		case p >= 30 && p <= 37:
			t.CurrentAttrs.Fg = Color{Mode: ColorIndexed8, Index: uint8(p - 30)}
		case p == 39:
			t.CurrentAttrs.Fg = Color{}
		case p >= 40 && p <= 47:
			t.CurrentAttrs.Bg = Color{Mode: ColorIndexed8, Index: uint8(p - 40)}
		case p == 49:
			t.CurrentAttrs.Bg = Color{}
		case p >= 90 && p <= 97:
			t.CurrentAttrs.Fg = Color{Mode: ColorIndexed256, Index: uint8(p - 90 + 8)}
		case p >= 100 && p <= 107:
			t.CurrentAttrs.Bg = Color{Mode: ColorIndexed256, Index: uint8(p - 100 + 8)}
		case p == 38:
			n := t.readExtendedColor(params, &i)
			if n != nil {
				t.CurrentAttrs.Fg = *n
			}
		case p == 48:
			n := t.readExtendedColor(params, &i)
			if n != nil {
				t.CurrentAttrs.Bg = *n
			}
		default:
			// unknown codes are ignored
		}
	}
	t.changed = true
}

// readExtendedColor parses the "38;5;n" (indexed-256) or "38;2;r;g;b"
// (truecolor) forms starting at params[*i+1], advancing *i past what it
// consumed. Returns nil if the form is malformed.
func (t *Terminal) readExtendedColor(params []int, i *int) *Color {
	if *i+1 >= len(params) {
		return nil
	}
	switch params[*i+1] {
	case 5:
		if *i+2 >= len(params) {
			return nil
		}
		idx := params[*i+2]
		*i += 2
		return &Color{Mode: ColorIndexed256, Index: uint8(clampByte(idx))}
	case 2:
		if *i+4 >= len(params) {
			return nil
		}
		r, g, b := params[*i+2], params[*i+3], params[*i+4]
		*i += 4
		return &Color{Mode: ColorTrueColor, R: uint8(clampByte(r)), G: uint8(clampByte(g)), B: uint8(clampByte(b))}
	}
	return nil
}

func clampByte(v int) int {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}

// ---- DEC private modes (§4.F) ----

func (t *Terminal) setModes(params []int, private, set bool) {
	for _, p := range params {
		if p == -1 {
			continue
		}
		if private {
			t.setPrivateMode(p, set)
		}
	}
	t.changed = true
}

func (t *Terminal) setPrivateMode(code int, set bool) {
	switch code {
	case 1:
		t.Modes.ApplicationCursor = set
	case 6:
		// DECOM: the bit is tracked and read by cursorPosition and
		// setScrollRegion to decide whether H/f addressing is
		// region-relative, but cursor motion elsewhere (cursorUp,
		// cursorDown, ...) does not otherwise distinguish origin mode.
		t.Modes.OriginMode = set
	case 7:
		t.Modes.Autowrap = set
	case 25:
		t.Cursor.Visible = set
	case 47:
		t.swapAltBuffer(set, false)
	case 1047:
		t.swapAltBuffer(set, true)
	case 1049:
		t.swapAltBuffer(set, true)
		if set {
			t.saveCursor()
		} else {
			t.restoreCursor()
			// Unlike plain DECRC (ESC 8, which xterm allows repeating
			// from one DECSC), 1049's own save/restore pair is
			// consumed in full on exit: the cursor it restored came
			// from 1049's own implicit save, not a user DECSC the
			// user might still want to restore from again.
			t.SavedCursor = nil
		}
	default:
		// other private modes: recognized and safely ignored
	}
}

// swapAltBuffer transitions between Primary and Alternate. Entering the
// alternate screen always clears it to blank lines; entering it never
// modifies Primary, and leaving it never modifies Primary either —
// swapping is by identity, never by copying content.
func (t *Terminal) swapAltBuffer(toAlternate, clearOnEnter bool) {
	if toAlternate == t.UseAlternate {
		return
	}
	if toAlternate {
		if clearOnEnter {
			t.Alternate = NewScreenBuffer(t.Rows, t.Cols, t.Rows)
			t.Alternate.SetMaxLineLength(t.MaxLineLength)
		}
		t.UseAlternate = true
	} else {
		t.UseAlternate = false
	}
	t.changed = true
}
