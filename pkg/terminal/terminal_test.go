package terminal

import "testing"

func TestNewTerminal_MaxLineLengthOverride(t *testing.T) {
	opts := Options{Cols: 80, Rows: 24, MaxBufferLines: 100, MaxLineLength: 5, HandleCarriageReturn: true}
	term := NewTerminal("s", opts)

	if term.Primary.MaxLineLength != 5 {
		t.Errorf("Primary.MaxLineLength = %d, want 5", term.Primary.MaxLineLength)
	}
	if term.Alternate.MaxLineLength != 5 {
		t.Errorf("Alternate.MaxLineLength = %d, want 5", term.Alternate.MaxLineLength)
	}
}

func TestNewTerminal_MaxLineLengthDefaultsWhenUnset(t *testing.T) {
	opts := Options{Cols: 80, Rows: 24, MaxBufferLines: 100, HandleCarriageReturn: true}
	term := NewTerminal("s", opts)

	if term.Primary.MaxLineLength != DefaultMaxLineLength {
		t.Errorf("Primary.MaxLineLength = %d, want %d", term.Primary.MaxLineLength, DefaultMaxLineLength)
	}
}

func TestFullReset_PreservesMaxLineLengthOverride(t *testing.T) {
	opts := Options{Cols: 80, Rows: 24, MaxBufferLines: 100, MaxLineLength: 5, HandleCarriageReturn: true}
	term := NewTerminal("s", opts)

	term.ProcessOutput([]byte("\x1bc")) // RIS
	if term.Primary.MaxLineLength != 5 {
		t.Errorf("Primary.MaxLineLength after RIS = %d, want 5 (override preserved)", term.Primary.MaxLineLength)
	}
}
