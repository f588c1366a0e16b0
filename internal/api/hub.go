package api

import (
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/rs/zerolog"
)

// writeWait bounds one client write so a stalled peer cannot hold up the
// broadcast loop.
const writeWait = 5 * time.Second

// wsConn is the slice of the websocket connection the hub needs.
type wsConn interface {
	WriteJSON(v any) error
	SetWriteDeadline(t time.Time) error
	ReadMessage() (int, []byte, error)
	Close() error
}

// Hub fans change events out to connected websocket clients. The events
// carry no entity payload: clients re-fetch through the REST API, mirroring
// the in-process notification bus contract.
type Hub struct {
	mu        sync.RWMutex
	clients   map[wsConn]bool
	broadcast chan any
	log       zerolog.Logger
}

func NewHub(log zerolog.Logger) *Hub {
	h := &Hub{
		clients:   make(map[wsConn]bool),
		broadcast: make(chan any, 256),
		log:       log,
	}
	go h.run()
	return h
}

// run delivers queued messages. The client set is snapshotted under the
// read lock and each write happens outside it, under a deadline, so one
// slow client never blocks registration or the other clients' writes.
func (h *Hub) run() {
	for msg := range h.broadcast {
		h.mu.RLock()
		conns := make([]wsConn, 0, len(h.clients))
		for conn := range h.clients {
			conns = append(conns, conn)
		}
		h.mu.RUnlock()

		for _, conn := range conns {
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(msg); err != nil {
				h.remove(conn)
				conn.Close()
			}
		}
	}
}

// Broadcast queues a message for every connected client. Drops the message
// when the queue is full rather than blocking a mutation.
func (h *Hub) Broadcast(msg any) {
	select {
	case h.broadcast <- msg:
	default:
		h.log.Warn().Msg("websocket broadcast queue full, dropping event")
	}
}

func (h *Hub) register(conn wsConn) {
	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()
}

func (h *Hub) remove(conn wsConn) {
	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
}

func (h *Hub) clientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) serve(conn *websocket.Conn) {
	// The init message goes out before registration so the run loop stays
	// the only writer on a registered connection.
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(map[string]any{"type": "init"}); err != nil {
		conn.Close()
		return
	}
	h.register(conn)

	defer func() {
		h.remove(conn)
		conn.Close()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
