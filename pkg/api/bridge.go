package api

import (
	"sync"
	"time"

	"github.com/vibetunnel/vterm/pkg/session"
	"github.com/vibetunnel/vterm/pkg/terminal"
)

// debounceWindow coalesces bursts of change notifications (a fast-typing
// shell can mutate state many times a millisecond) into one snapshot
// push, mirroring the 50ms debounce the original buffer-change
// subscription used.
const debounceWindow = 50 * time.Millisecond

// Bridge fans a session's change notifications out to any number of
// subscriber channels, debounced so a burst of mutations yields one
// pushed snapshot rather than one per call.
type Bridge struct {
	registry *session.Registry

	mu          sync.Mutex
	subscribers map[string][]chan *terminal.Snapshot
	timers      map[string]*time.Timer
	pending     map[string]*terminal.Snapshot
}

// NewBridge wraps registry. Sessions created afterward through
// CreateWatchedBuffer automatically notify this bridge's subscribers.
func NewBridge(registry *session.Registry) *Bridge {
	return &Bridge{
		registry:    registry,
		subscribers: make(map[string][]chan *terminal.Snapshot),
		timers:      make(map[string]*time.Timer),
		pending:     make(map[string]*terminal.Snapshot),
	}
}

// CreateWatchedBuffer creates a session whose change callback feeds this
// bridge's debounced subscribers; it registers no other callback.
func (br *Bridge) CreateWatchedBuffer(id string, opts terminal.Options) error {
	return br.registry.CreateBuffer(id, opts, br.onChange)
}

func (br *Bridge) onChange(id string, view *terminal.Snapshot) {
	br.mu.Lock()
	defer br.mu.Unlock()

	br.pending[id] = view
	if t, ok := br.timers[id]; ok {
		t.Stop()
	}
	br.timers[id] = time.AfterFunc(debounceWindow, func() { br.flush(id) })
}

func (br *Bridge) flush(id string) {
	br.mu.Lock()
	snap := br.pending[id]
	delete(br.pending, id)
	subs := append([]chan *terminal.Snapshot(nil), br.subscribers[id]...)
	br.mu.Unlock()

	if snap == nil {
		return
	}
	for _, ch := range subs {
		select {
		case ch <- snap:
		default:
			// slow subscriber: drop the update rather than block the
			// session that produced it.
		}
	}
}

// Subscribe registers ch to receive debounced snapshots for id. The
// returned func deregisters it.
func (br *Bridge) Subscribe(id string) (<-chan *terminal.Snapshot, func()) {
	ch := make(chan *terminal.Snapshot, 4)
	br.mu.Lock()
	br.subscribers[id] = append(br.subscribers[id], ch)
	br.mu.Unlock()

	unsubscribe := func() {
		br.mu.Lock()
		defer br.mu.Unlock()
		list := br.subscribers[id]
		for i, c := range list {
			if c == ch {
				br.subscribers[id] = append(list[:i], list[i+1:]...)
				break
			}
		}
		close(ch)
	}
	return ch, unsubscribe
}
