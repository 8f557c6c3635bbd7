package terminal

import (
	"strings"
	"testing"
)

// The scenarios below exercise concrete escape-sequence sessions against
// an 80x24 terminal: input bytes in, expected row 0 (or another named
// row), cursor position and active buffer out.

func newTestTerminal() *Terminal {
	return NewTerminal("s", DefaultOptions())
}

func rowText(term *Terminal, row int) string {
	return term.GetVisibleLines()[row]
}

func TestScenario_S1_PlainText(t *testing.T) {
	term := newTestTerminal()
	term.ProcessOutput([]byte("Hello World"))

	want := "Hello World" + strings.Repeat(" ", 69)
	if got := rowText(term, 0); got != want {
		t.Errorf("row 0 = %q, want %q", got, want)
	}
	if term.Cursor.Row != 0 || term.Cursor.Col != 11 {
		t.Errorf("cursor = (%d,%d), want (0,11)", term.Cursor.Row, term.Cursor.Col)
	}
	if term.UseAlternate {
		t.Error("expected primary buffer")
	}
}

func TestScenario_S2_Linefeeds(t *testing.T) {
	term := newTestTerminal()
	term.ProcessOutput([]byte("Line1\nLine2\nLine3"))

	want := "Line1" + strings.Repeat(" ", 75)
	if got := rowText(term, 0); got != want {
		t.Errorf("row 0 = %q, want %q", got, want)
	}
	wantRow2 := "Line3" + strings.Repeat(" ", 75)
	if got := rowText(term, 2); got != wantRow2 {
		t.Errorf("row 2 = %q, want %q", got, wantRow2)
	}
	if term.Cursor.Row != 2 || term.Cursor.Col != 5 {
		t.Errorf("cursor = (%d,%d), want (2,5)", term.Cursor.Row, term.Cursor.Col)
	}
}

func TestScenario_S3_CarriageReturn(t *testing.T) {
	term := newTestTerminal()
	term.ProcessOutput([]byte("Hello\rWorld"))

	want := "World" + strings.Repeat(" ", 75)
	if got := rowText(term, 0); got != want {
		t.Errorf("row 0 = %q, want %q", got, want)
	}
	if term.Cursor.Row != 0 || term.Cursor.Col != 5 {
		t.Errorf("cursor = (%d,%d), want (0,5)", term.Cursor.Row, term.Cursor.Col)
	}
}

func TestScenario_S4_Backspace(t *testing.T) {
	term := newTestTerminal()
	term.ProcessOutput([]byte("ABC\b\bXY"))

	want := "AXY" + strings.Repeat(" ", 77)
	if got := rowText(term, 0); got != want {
		t.Errorf("row 0 = %q, want %q", got, want)
	}
	if term.Cursor.Row != 0 || term.Cursor.Col != 3 {
		t.Errorf("cursor = (%d,%d), want (0,3)", term.Cursor.Row, term.Cursor.Col)
	}
}

func TestScenario_S5_CursorPosition(t *testing.T) {
	term := newTestTerminal()
	term.ProcessOutput([]byte("\x1b[2;5HTest"))

	row := rowText(term, 1)
	if row[4:8] != "Test" {
		t.Errorf("row 1 cols 4-7 = %q, want \"Test\"", row[4:8])
	}
	if term.Cursor.Row != 1 || term.Cursor.Col != 8 {
		t.Errorf("cursor = (%d,%d), want (1,8)", term.Cursor.Row, term.Cursor.Col)
	}
}

func TestScenario_S6_EraseDisplay(t *testing.T) {
	term := newTestTerminal()
	term.ProcessOutput([]byte("Line1\nLine2\n\x1b[2J"))

	want := strings.Repeat(" ", 80)
	if got := rowText(term, 0); got != want {
		t.Errorf("row 0 = %q, want all spaces", got)
	}
	if term.Cursor.Row != 1 || term.Cursor.Col != 0 {
		t.Errorf("cursor = (%d,%d), want (1,0)", term.Cursor.Row, term.Cursor.Col)
	}
}

func TestScenario_S7_AlternateBuffer(t *testing.T) {
	term := newTestTerminal()
	term.ProcessOutput([]byte("\x1b[?1049h\x1b[H# Header\n\nContent"))

	got0 := rowText(term, 0)
	if got0[:8] != "# Header" {
		t.Errorf("row 0 = %q, want prefix \"# Header\"", got0)
	}
	got1 := rowText(term, 1)
	if strings.TrimRight(got1, " ") != "" {
		t.Errorf("row 1 = %q, want empty", got1)
	}
	got2 := rowText(term, 2)
	if got2[:7] != "Content" {
		t.Errorf("row 2 = %q, want prefix \"Content\"", got2)
	}
	if term.Cursor.Row != 2 || term.Cursor.Col != 7 {
		t.Errorf("cursor = (%d,%d), want (2,7)", term.Cursor.Row, term.Cursor.Col)
	}
	if !term.UseAlternate {
		t.Error("expected alternate buffer")
	}
}

func TestScenario_S8_OSCConsumedSilently(t *testing.T) {
	term := newTestTerminal()
	term.ProcessOutput([]byte("Before\x1b]0;title\x07After"))

	want := "BeforeAfter" + strings.Repeat(" ", 69)
	if got := rowText(term, 0); got != want {
		t.Errorf("row 0 = %q, want %q", got, want)
	}
	if term.Cursor.Row != 0 || term.Cursor.Col != 11 {
		t.Errorf("cursor = (%d,%d), want (0,11)", term.Cursor.Row, term.Cursor.Col)
	}
}
