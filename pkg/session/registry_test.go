package session

import (
	"errors"
	"testing"

	"github.com/vibetunnel/vterm/pkg/terminal"
)

func TestCreateBuffer_DuplicateRejected(t *testing.T) {
	r := NewRegistry()
	opts := terminal.DefaultOptions()
	if err := r.CreateBuffer("a", opts, nil); err != nil {
		t.Fatalf("first CreateBuffer failed: %v", err)
	}
	err := r.CreateBuffer("a", opts, nil)
	if !errors.Is(err, ErrSessionAlreadyExists) {
		t.Errorf("err = %v, want ErrSessionAlreadyExists", err)
	}
}

func TestOperations_UnknownSessionNotFound(t *testing.T) {
	r := NewRegistry()
	if _, err := r.GetBuffer("missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("GetBuffer err = %v, want ErrSessionNotFound", err)
	}
	if err := r.ProcessOutput("missing", []byte("x")); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("ProcessOutput err = %v, want ErrSessionNotFound", err)
	}
	if err := r.Resize("missing", 10, 10); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Resize err = %v, want ErrSessionNotFound", err)
	}
	if err := r.ClearBuffer("missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("ClearBuffer err = %v, want ErrSessionNotFound", err)
	}
	if err := r.RemoveBuffer("missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("RemoveBuffer err = %v, want ErrSessionNotFound", err)
	}
}

func TestProcessOutput_CallbackFiresOnceOnMutation(t *testing.T) {
	r := NewRegistry()
	calls := 0
	var lastID string
	cb := func(id string, view *terminal.Snapshot) {
		calls++
		lastID = id
	}
	if err := r.CreateBuffer("a", terminal.DefaultOptions(), cb); err != nil {
		t.Fatalf("CreateBuffer failed: %v", err)
	}

	if err := r.ProcessOutput("a", []byte("hello")); err != nil {
		t.Fatalf("ProcessOutput failed: %v", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if lastID != "a" {
		t.Errorf("lastID = %q, want \"a\"", lastID)
	}
}

func TestProcessOutput_NoCallbackOnNoOp(t *testing.T) {
	r := NewRegistry()
	calls := 0
	cb := func(id string, view *terminal.Snapshot) { calls++ }
	if err := r.CreateBuffer("a", terminal.DefaultOptions(), cb); err != nil {
		t.Fatalf("CreateBuffer failed: %v", err)
	}

	// BEL is a documented no-op control byte: no cell, cursor or mode change.
	if err := r.ProcessOutput("a", []byte{0x07}); err != nil {
		t.Fatalf("ProcessOutput failed: %v", err)
	}
	if calls != 0 {
		t.Errorf("calls = %d, want 0 for a no-op invocation", calls)
	}
}

func TestGetVisibleLines_ExactRowCount(t *testing.T) {
	r := NewRegistry()
	opts := terminal.DefaultOptions()
	if err := r.CreateBuffer("a", opts, nil); err != nil {
		t.Fatalf("CreateBuffer failed: %v", err)
	}
	lines, err := r.GetVisibleLines("a")
	if err != nil {
		t.Fatalf("GetVisibleLines failed: %v", err)
	}
	if len(lines) != opts.Rows {
		t.Errorf("len(lines) = %d, want %d", len(lines), opts.Rows)
	}
}

func TestRemoveBuffer_DropsSession(t *testing.T) {
	r := NewRegistry()
	if err := r.CreateBuffer("a", terminal.DefaultOptions(), nil); err != nil {
		t.Fatalf("CreateBuffer failed: %v", err)
	}
	if err := r.RemoveBuffer("a"); err != nil {
		t.Fatalf("RemoveBuffer failed: %v", err)
	}
	if _, err := r.GetBuffer("a"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("GetBuffer after remove err = %v, want ErrSessionNotFound", err)
	}
}
