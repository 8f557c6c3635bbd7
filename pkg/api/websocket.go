package api

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

// handleInput reads the request body as raw producer bytes and feeds them
// into the named session's terminal state.
func (s *Server) handleInput(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	body, err := io.ReadAll(io.LimitReader(r.Body, maxMessageSize))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := s.bridge.registry.ProcessOutput(id, body); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleSnapshot serves one poll of a session's current visible state.
func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	view, err := s.bridge.registry.GetBuffer(id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(view); err != nil {
		log.Printf("[api] failed to encode snapshot for %s: %v", id, err)
	}
}

// handleWebSocket upgrades the connection and pushes a snapshot every
// time the session's bridge subscription fires, until the client
// disconnects or unsubscribes.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if _, err := s.bridge.registry.GetBuffer(id); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[api] upgrade failed for %s: %v", id, err)
		return
	}
	defer conn.Close()

	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	send := make(chan []byte, 16)
	done := make(chan struct{})
	var closeOnce sync.Once
	closeDone := func() { closeOnce.Do(func() { close(done) }) }

	updates, unsubscribe := s.bridge.Subscribe(id)
	defer unsubscribe()

	go s.writer(conn, send, done)
	go func() {
		for {
			select {
			case snap, ok := <-updates:
				if !ok {
					closeDone()
					return
				}
				msg, err := json.Marshal(snap)
				if err != nil {
					continue
				}
				if !safeSend(send, msg, done) {
					return
				}
			case <-done:
				return
			}
		}
	}()

	// Drain incoming frames; their content is ignored, and only a read
	// error (such as the client closing) ends the subscription.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			closeDone()
			return
		}
	}
}

func (s *Server) writer(conn *websocket.Conn, send chan []byte, done chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case message, ok := <-send:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
