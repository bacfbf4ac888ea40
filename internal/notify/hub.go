package notify

import (
	"context"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// maxPending bounds the notices kept for a session with no open socket.
const maxPending = 32

// safeConn wraps a websocket.Conn with a write mutex.
// gorilla/websocket allows one concurrent writer; this enforces that.
type safeConn struct {
	mu sync.Mutex
	ws *websocket.Conn
}

func (c *safeConn) writeJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ws.WriteJSON(v)
}

func (c *safeConn) readMessage() (int, []byte, error) {
	return c.ws.ReadMessage()
}

func (c *safeConn) close() { c.ws.Close() }

// Hub delivers notices to the WebSocket connections of each session.
// Notices for a session without a connection are queued and flushed when
// one connects.
type Hub struct {
	sessionOf func(*http.Request) (string, bool)

	mu      sync.RWMutex
	conns   map[string][]*safeConn
	pending map[string][]Notice
}

// NewHub creates a notification hub. sessionOf resolves the session of an
// upgrade request.
func NewHub(sessionOf func(*http.Request) (string, bool)) *Hub {
	return &Hub{
		sessionOf: sessionOf,
		conns:     make(map[string][]*safeConn),
		pending:   make(map[string][]Notice),
	}
}

// For returns the Notifier of one session.
func (h *Hub) For(sessionID string) Notifier {
	return sessionNotifier{hub: h, id: sessionID}
}

type sessionNotifier struct {
	hub *Hub
	id  string
}

func (s sessionNotifier) Notify(_ context.Context, n Notice) {
	s.hub.Send(s.id, n)
}

// HandleWS upgrades the connection and subscribes it to the caller's session.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionOf(r)
	if !ok {
		http.Error(w, `{"error":"no session"}`, http.StatusUnauthorized)
		return
	}
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[ws] upgrade error: %v", err)
		return
	}

	conn := &safeConn{ws: ws}

	h.mu.Lock()
	h.conns[sessionID] = append(h.conns[sessionID], conn)
	backlog := h.pending[sessionID]
	delete(h.pending, sessionID)
	h.mu.Unlock()

	log.Printf("[ws] client connected to session %s", sessionID)
	for _, n := range backlog {
		if err := conn.writeJSON(wire(n)); err != nil {
			log.Printf("[ws] write error: %v", err)
		}
	}

	// Block until the client disconnects
	for {
		if _, _, err := conn.readMessage(); err != nil {
			break
		}
	}

	h.removeConn(sessionID, conn)
	conn.close()
	log.Printf("[ws] client disconnected from session %s", sessionID)
}

// Send pushes a notice to every connection of a session, or queues it.
func (h *Hub) Send(sessionID string, n Notice) {
	h.mu.Lock()
	conns := h.conns[sessionID]
	if len(conns) == 0 {
		q := append(h.pending[sessionID], n)
		if len(q) > maxPending {
			q = q[len(q)-maxPending:]
		}
		h.pending[sessionID] = q
		h.mu.Unlock()
		return
	}
	conns = append([]*safeConn(nil), conns...)
	h.mu.Unlock()

	msg := wire(n)
	for _, c := range conns {
		if err := c.writeJSON(msg); err != nil {
			log.Printf("[ws] write error: %v", err)
		}
	}
}

// Drain returns and forgets the queued notices of a session.
func (h *Hub) Drain(sessionID string) []Notice {
	h.mu.Lock()
	defer h.mu.Unlock()
	q := h.pending[sessionID]
	delete(h.pending, sessionID)
	out := make([]Notice, len(q))
	for i, n := range q {
		out[i] = wire(n)
	}
	return out
}

// Forget drops everything held for an expired session.
func (h *Hub) Forget(sessionID string) {
	h.mu.Lock()
	conns := h.conns[sessionID]
	delete(h.conns, sessionID)
	delete(h.pending, sessionID)
	h.mu.Unlock()
	for _, c := range conns {
		c.close()
	}
}

func (h *Hub) removeConn(sessionID string, conn *safeConn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns := h.conns[sessionID]
	for i, c := range conns {
		if c == conn {
			h.conns[sessionID] = append(conns[:i], conns[i+1:]...)
			break
		}
	}
	if len(h.conns[sessionID]) == 0 {
		delete(h.conns, sessionID)
	}
}

func wire(n Notice) Notice {
	n.TimerMS = n.Timer.Milliseconds()
	return n
}
