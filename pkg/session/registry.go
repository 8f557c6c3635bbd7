// Package session maps session ids to independent terminal states and
// fires change-notification callbacks after mutating operations.
package session

import (
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/vibetunnel/vterm/pkg/terminal"
)

// ChangeCallback is invoked after a processOutput call that produced a
// state mutation, once per call, with the session id and a read-only
// view of the resulting state. It must never be invoked for a no-op
// call.
type ChangeCallback func(id string, view *terminal.Snapshot)

// entry pairs a terminal with the lock that serializes access to it.
// Locking is per-session, not global: concurrent processOutput calls on
// two different sessions never contend.
type entry struct {
	mu   sync.RWMutex
	term *terminal.Terminal
	onChange ChangeCallback
}

// Registry is the sole owner of every session's terminal state and
// buffers; callers only ever see immutable views.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*entry
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*entry)}
}

func debugf(format string, args ...interface{}) {
	if os.Getenv("VTERM_DEBUG") != "" {
		log.Printf("[DEBUG] "+format, args...)
	}
}

// CreateBuffer registers a new terminal state under id. onChange may be
// nil.
func (r *Registry) CreateBuffer(id string, opts terminal.Options, onChange ChangeCallback) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.sessions[id]; exists {
		return fmt.Errorf("session %q: %w", id, ErrSessionAlreadyExists)
	}
	r.sessions[id] = &entry{
		term:     terminal.NewTerminal(id, opts),
		onChange: onChange,
	}
	debugf("created session %s", id)
	return nil
}

func (r *Registry) lookup(id string) (*entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.sessions[id]
	if !ok {
		return nil, fmt.Errorf("session %q: %w", id, ErrSessionNotFound)
	}
	return e, nil
}

// GetBuffer returns a read-only snapshot of the session's visible state.
func (r *Registry) GetBuffer(id string) (*terminal.Snapshot, error) {
	e, err := r.lookup(id)
	if err != nil {
		return nil, err
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.term.Snapshot(), nil
}

// ProcessOutput feeds bytes through the named session's terminal and
// fires its change callback exactly once if, and only if, the call
// produced a state mutation.
func (r *Registry) ProcessOutput(id string, data []byte) error {
	e, err := r.lookup(id)
	if err != nil {
		return err
	}
	e.mu.Lock()
	e.term.ProcessOutput(data)
	changed := e.term.Changed()
	var view *terminal.Snapshot
	if changed && e.onChange != nil {
		view = e.term.Snapshot()
	}
	cb := e.onChange
	e.mu.Unlock()

	if changed && cb != nil {
		cb(id, view)
	}
	return nil
}

// GetVisibleLines returns exactly rows plain-text lines for the named
// session.
func (r *Registry) GetVisibleLines(id string) ([]string, error) {
	e, err := r.lookup(id)
	if err != nil {
		return nil, err
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.term.GetVisibleLines(), nil
}

// Resize updates the named session's size. Existing lines are not
// re-wrapped.
func (r *Registry) Resize(id string, cols, rows int) error {
	e, err := r.lookup(id)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.term.Resize(cols, rows)
}

// ClearBuffer clears the named session's active buffer, homes the
// cursor and resets attributes.
func (r *Registry) ClearBuffer(id string) error {
	e, err := r.lookup(id)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.term.ClearBuffer()
	return nil
}

// RemoveBuffer drops the named session's state entirely.
func (r *Registry) RemoveBuffer(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[id]; !ok {
		return fmt.Errorf("session %q: %w", id, ErrSessionNotFound)
	}
	delete(r.sessions, id)
	debugf("removed session %s", id)
	return nil
}

// Ids returns the currently registered session ids, in no particular
// order.
func (r *Registry) Ids() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.sessions))
	for id := range r.sessions {
		ids = append(ids, id)
	}
	return ids
}
