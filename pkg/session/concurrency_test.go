package session

import (
	"sync"
	"testing"

	"github.com/vibetunnel/vterm/pkg/terminal"
)

// TestConcurrentSessions_Independent checks that per-session locking,
// not a global lock, is sufficient: many sessions processing output
// concurrently must not corrupt each other's state or race under -race.
func TestConcurrentSessions_Independent(t *testing.T) {
	r := NewRegistry()
	const sessions = 8
	const writes = 50

	for i := 0; i < sessions; i++ {
		id := sessionID(i)
		if err := r.CreateBuffer(id, terminal.DefaultOptions(), nil); err != nil {
			t.Fatalf("CreateBuffer(%s) failed: %v", id, err)
		}
	}

	var wg sync.WaitGroup
	for i := 0; i < sessions; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := sessionID(i)
			for j := 0; j < writes; j++ {
				if err := r.ProcessOutput(id, []byte("x")); err != nil {
					t.Errorf("ProcessOutput(%s) failed: %v", id, err)
				}
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < sessions; i++ {
		id := sessionID(i)
		view, err := r.GetBuffer(id)
		if err != nil {
			t.Fatalf("GetBuffer(%s) failed: %v", id, err)
		}
		if view.Cursor.Col != writes {
			t.Errorf("session %s cursor.Col = %d, want %d", id, view.Cursor.Col, writes)
		}
	}
}

func sessionID(i int) string {
	return "session-" + string(rune('a'+i))
}
