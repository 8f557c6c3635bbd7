package terminal

import "testing"

func TestUTF8_SplitAcrossChunks(t *testing.T) {
	// "é" (U+00E9) is 0xC3 0xA9 in UTF-8; split the two bytes across two calls.
	full := "é"
	b := []byte(full)

	term := newTestTerminal()
	term.ProcessOutput(b[:1])
	term.ProcessOutput(b[1:])

	if got := rowText(term, 0)[:len(full)]; got != full {
		t.Errorf("row 0 prefix = %q, want %q", got, full)
	}
}

func TestWideCharacter_OccupiesTwoCells(t *testing.T) {
	term := newTestTerminal()
	term.ProcessOutput([]byte("中")) // CJK "中"

	buf := term.active()
	if buf.Lines[0].Cells[0].Width != 2 {
		t.Errorf("Width = %d, want 2", buf.Lines[0].Cells[0].Width)
	}
	if !buf.Lines[0].Cells[1].Continuation {
		t.Error("expected continuation cell at column 1")
	}
	if term.Cursor.Col != 2 {
		t.Errorf("Cursor.Col = %d, want 2", term.Cursor.Col)
	}
}

func TestWideCharacter_WrapsAtRightMargin(t *testing.T) {
	term := NewTerminal("s", Options{Cols: 5, Rows: 3, MaxBufferLines: 10, HandleCarriageReturn: true})
	term.ProcessOutput([]byte("ABCD中"))

	row0 := rowText(term, 0)
	if row0 != "ABCD " {
		t.Errorf("row 0 = %q, want \"ABCD \" (wide char deferred, not split)", row0)
	}
	row1 := term.active().Lines[1]
	if row1.Cells[0].Ch != "中" {
		t.Errorf("row 1 cell 0 = %q, want the wide char", row1.Cells[0].Ch)
	}
}

func TestInvalidUTF8_TreatedAsWidthOneReplacement(t *testing.T) {
	term := newTestTerminal()
	term.ProcessOutput([]byte{0xFF, 'A'})

	line := term.active().Lines[0]
	if line.Cells[0].Width != 1 {
		t.Errorf("invalid-byte cell width = %d, want 1", line.Cells[0].Width)
	}
}

func TestCombiningMark_MergesOntoPreviousCell(t *testing.T) {
	term := newTestTerminal()
	// "e" + combining acute accent (U+0301), fed in separate chunks so
	// the base and the mark land in different printRun flushes.
	mark := "́"
	term.ProcessOutput([]byte("e"))
	term.ProcessOutput([]byte(mark))

	line := term.active().Lines[0]
	want := "e" + mark
	if line.Cells[0].Ch != want {
		t.Errorf("cell 0 = %q, want %q", line.Cells[0].Ch, want)
	}
	if term.Cursor.Col != 1 {
		t.Errorf("Cursor.Col = %d, want 1 (merge must not advance cursor)", term.Cursor.Col)
	}
}
