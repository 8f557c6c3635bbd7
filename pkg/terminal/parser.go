package terminal

import (
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// parserState is the incremental byte-stream state machine's current
// position. It lives on Terminal so that a sequence split mid-bytes
// across two ProcessOutput calls still parses correctly.
type parserState int

const (
	stateGround parserState = iota
	stateEscape
	stateCSI
	stateOSC
	stateDCS
	stateAPC
	statePM
)

// parser holds all transient recognizer state for one Terminal. There is
// no dynamic dispatch here: the state tag plus these buffers are enough
// to resume parsing on the next call.
type parser struct {
	state         parserState
	csiBytes      []byte // accumulated params + intermediates, pre-final
	oscSawEsc     bool   // mid-sequence: saw ESC, waiting on '\' to close an ST
	pendingUTF8   []byte // incomplete trailing UTF-8 bytes carried to the next call
	printRun      []byte // accumulated valid UTF-8 printable bytes awaiting grapheme flush
}

// ProcessOutput feeds data through the parser, dispatching completed
// sequences and printable runs as they resolve. It is synchronous,
// CPU-bound and does no I/O; processOutput(s, "A"); processOutput(s, "B")
// is equivalent to processOutput(s, "AB"), except that a grapheme
// cluster split across the two calls is segmented as two clusters (a
// zero-width second part is merged onto the previous cell).
func (t *Terminal) ProcessOutput(data []byte) {
	t.resetChanged()
	t.LastUpdated = time.Now()

	if len(t.p.pendingUTF8) > 0 {
		data = append(append([]byte{}, t.p.pendingUTF8...), data...)
		t.p.pendingUTF8 = nil
	}

	i := 0
	for i < len(data) {
		b := data[i]
		switch t.p.state {
		case stateGround:
			n := t.consumeGround(data[i:])
			i += n
		case stateEscape:
			t.handleEscapeByte(b)
			i++
		case stateCSI:
			t.handleCSIByte(b)
			i++
		case stateOSC:
			t.handleOSCByte(b)
			i++
		case stateDCS, stateAPC, statePM:
			t.handleSilentByte(b)
			i++
		}
	}
	t.flushPrintRun()
}

// consumeGround handles GROUND state starting at buf[0]: either a single
// control byte, an ESC introducer, or a run of printable bytes. It
// returns how many bytes of buf were consumed.
func (t *Terminal) consumeGround(buf []byte) int {
	b := buf[0]
	if b == 0x1B {
		t.flushPrintRun()
		t.p.state = stateEscape
		return 1
	}
	if b < 0x20 || b == 0x7F {
		t.flushPrintRun()
		t.handleControl(b)
		return 1
	}

	// Collect a run of printable bytes up to the next control/ESC byte,
	// holding back a trailing incomplete UTF-8 sequence for next call.
	j := 0
	for j < len(buf) {
		c := buf[j]
		if c == 0x1B || (c < 0x20) || c == 0x7F {
			break
		}
		j++
	}
	run := buf[:j]

	// If the run ends mid-rune because the chunk itself ended there,
	// defer the tail to the next call.
	if j == len(buf) {
		if k := incompleteUTF8Tail(run); k > 0 {
			t.p.pendingUTF8 = append(t.p.pendingUTF8, run[len(run)-k:]...)
			run = run[:len(run)-k]
		}
	}

	t.p.printRun = append(t.p.printRun, run...)
	return j
}

// incompleteUTF8Tail returns how many trailing bytes of buf form the
// start of a UTF-8 sequence that isn't complete yet (so it should be
// deferred to the next call rather than decoded as U+FFFD now).
func incompleteUTF8Tail(buf []byte) int {
	n := len(buf)
	for k := 1; k <= 4 && k <= n; k++ {
		b := buf[n-k]
		if b < 0x80 {
			// ASCII byte: whatever follows it (if anything) is already a
			// complete, self-contained rune.
			return 0
		}
		if size := utf8LeadByteSize(b); size > 0 {
			if size > k {
				return k
			}
			return 0
		}
		// continuation byte (0x80-0xBF): keep walking back for the lead
	}
	return 0
}

// utf8LeadByteSize returns the total encoded length a UTF-8 lead byte
// announces (2, 3 or 4), or 0 if b isn't a valid multi-byte lead byte.
func utf8LeadByteSize(b byte) int {
	switch {
	case b&0xE0 == 0xC0:
		return 2
	case b&0xF0 == 0xE0:
		return 3
	case b&0xF8 == 0xF0:
		return 4
	default:
		return 0
	}
}

// flushPrintRun segments the accumulated printable bytes into grapheme
// clusters and writes each as a cell, then clears the run.
func (t *Terminal) flushPrintRun() {
	if len(t.p.printRun) == 0 {
		return
	}
	s := string(t.p.printRun)
	t.p.printRun = t.p.printRun[:0]

	state := -1
	for len(s) > 0 {
		cluster, rest, _, newState := uniseg.FirstGraphemeClusterInString(s, state)
		state = newState
		width := runewidth.StringWidth(cluster)
		t.writeGrapheme(cluster, width)
		s = rest
	}
}

// handleEscapeByte processes the byte immediately following a lone ESC.
func (t *Terminal) handleEscapeByte(b byte) {
	t.p.state = stateGround
	switch b {
	case '[':
		t.p.state = stateCSI
		t.p.csiBytes = t.p.csiBytes[:0]
	case ']':
		t.p.state = stateOSC
		t.p.oscSawEsc = false
	case 'P':
		t.p.state = stateDCS
		t.p.oscSawEsc = false
	case '_':
		t.p.state = stateAPC
		t.p.oscSawEsc = false
	case '^':
		t.p.state = statePM
		t.p.oscSawEsc = false
	default:
		t.dispatchSimpleEscape(ClassifySimpleEscape(b))
	}
}

// handleCSIByte accumulates CSI parameter/intermediate bytes until the
// final byte (0x40-0x7E) completes the sequence.
func (t *Terminal) handleCSIByte(b byte) {
	if b == 0x1B {
		// Truncated CSI: drop it and start a fresh escape. Parse
		// anomalies recover locally with no caller-visible error.
		t.p.csiBytes = t.p.csiBytes[:0]
		t.p.state = stateEscape
		return
	}
	if b >= 0x40 && b <= 0x7E {
		seq := ClassifyCSI(t.p.csiBytes, b)
		t.p.csiBytes = t.p.csiBytes[:0]
		t.p.state = stateGround
		t.dispatchCSI(seq)
		return
	}
	if len(t.p.csiBytes) < 256 {
		t.p.csiBytes = append(t.p.csiBytes, b)
	}
}

// handleOSCByte consumes an OSC payload silently until BEL or ST
// (ESC \\); OSC is always Dangerous and never reaches the dispatcher.
func (t *Terminal) handleOSCByte(b byte) {
	if t.p.oscSawEsc {
		t.p.oscSawEsc = false
		if b == '\\' {
			t.p.state = stateGround
		}
		return
	}
	switch b {
	case 0x07:
		t.p.state = stateGround
	case 0x1B:
		t.p.oscSawEsc = true
	}
}

// handleSilentByte consumes a DCS/APC/PM payload silently until ST
// (ESC \\); none of these ever reach the dispatcher.
func (t *Terminal) handleSilentByte(b byte) {
	if t.p.oscSawEsc {
		t.p.oscSawEsc = false
		if b == '\\' {
			t.p.state = stateGround
		}
		return
	}
	if b == 0x1B {
		t.p.oscSawEsc = true
	}
}
