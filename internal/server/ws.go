package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

const writeWait = time.Second

// StateHandler broadcasts the paint session state via WebSocket.
type StateHandler struct {
	feed    *Feed
	clients map[*websocket.Conn]bool
	mu      sync.RWMutex
	done    chan struct{}
	once    sync.Once
}

type stateMessage struct {
	Mode      string  `json:"mode"`
	Tool      string  `json:"tool"`
	Color     [3]int  `json:"color"`
	Thickness int     `json:"thickness"`
	Pointer   *[2]int `json:"pointer,omitempty"`
	Drawing   bool    `json:"drawing"`
	Frame     uint64  `json:"frame"`
	Timestamp int64   `json:"timestamp"`
}

// NewStateHandler creates a StateHandler and starts its broadcast loop.
func NewStateHandler(feed *Feed) *StateHandler {
	h := &StateHandler{
		feed:    feed,
		clients: make(map[*websocket.Conn]bool),
		done:    make(chan struct{}),
	}
	go h.broadcast()
	return h
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *StateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
	}()

	// Keep connection alive by reading messages
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// Clients returns the number of connected clients.
func (h *StateHandler) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close stops the broadcast loop.
func (h *StateHandler) Close() {
	h.once.Do(func() { close(h.done) })
}

// broadcast sends each new state to all connected clients.
func (h *StateHandler) broadcast() {
	ticker := time.NewTicker(FrameInterval)
	defer ticker.Stop()

	var last uint64
	for {
		select {
		case <-h.done:
			return
		case <-ticker.C:
		}

		state, seq := h.feed.State()
		if seq == last || h.Clients() == 0 {
			continue
		}
		last = seq

		msg, err := json.Marshal(stateMessage{
			Mode:      state.Mode,
			Tool:      state.Tool,
			Color:     state.Color,
			Thickness: state.Thickness,
			Pointer:   state.Pointer,
			Drawing:   state.Drawing,
			Frame:     seq,
			Timestamp: time.Now().UnixMilli(),
		})
		if err != nil {
			continue
		}

		// Lock, not RLock: gorilla connections allow one concurrent writer.
		h.mu.Lock()
		for conn := range h.clients {
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				conn.Close()
				delete(h.clients, conn)
			}
		}
		h.mu.Unlock()
	}
}
