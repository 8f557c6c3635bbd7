// Package api exposes the session registry over HTTP and WebSocket: a
// poll endpoint for the visible grid and a push channel for change
// notifications. It is an ambient demo surface around the core engine,
// not part of it: the core package never imports net/http or
// gorilla/*, and has no notion of a rendering surface.
package api

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8192
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// safeSend enqueues message on send unless done has already fired,
// returning whether the message was enqueued.
func safeSend(send chan []byte, message []byte, done chan struct{}) bool {
	select {
	case <-done:
		return false
	default:
	}
	select {
	case send <- message:
		return true
	case <-done:
		return false
	}
}

// Server wires a Bridge into an HTTP mux: GET /sessions/{id}/snapshot for
// a one-shot poll, GET /sessions/{id}/ws for push updates, and
// POST /sessions/{id}/input to feed producer bytes into the session from
// a process that isn't the one holding the pty (e.g. a separate injector).
type Server struct {
	bridge *Bridge
	router *mux.Router
}

// NewServer builds a Server backed by bridge, with routes registered.
func NewServer(bridge *Bridge) *Server {
	s := &Server{bridge: bridge, router: mux.NewRouter()}
	s.router.HandleFunc("/sessions/{id}/snapshot", s.handleSnapshot).Methods(http.MethodGet)
	s.router.HandleFunc("/sessions/{id}/ws", s.handleWebSocket)
	s.router.HandleFunc("/sessions/{id}/input", s.handleInput).Methods(http.MethodPost)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
