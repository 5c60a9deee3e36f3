// Package relay mirrors edit records between processes over websockets.
// A Hub keeps one room per document and forwards every action message to the
// other connections in the room; a Client publishes local records and feeds
// received ones back to the editors.
package relay

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/bethropolis/mirror/internal/logger"
)

const (
	sendBuffer     = 64
	writeWait      = 5 * time.Second
	maxMessageSize = 1 << 20
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     sameOrigin,
}

// sameOrigin accepts clients that send no Origin, which covers the editor's
// own Client, and browsers whose page was served by the relay host.
func sameOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Host, r.Host)
}

// Hub routes action messages between connections on the same document.
// It does no authentication: anyone who can reach it can join any room, so
// serve it on a trusted local network only.
type Hub struct {
	mu sync.RWMutex
	// docID -> set of connections
	rooms map[string]map[*conn]struct{}
}

// NewHub returns an empty hub. It is an http.Handler; mount it on any path.
func NewHub() *Hub {
	return &Hub{rooms: make(map[string]map[*conn]struct{})}
}

// ServeHTTP upgrades the request and joins the room named by ?doc=.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	doc := r.URL.Query().Get("doc")
	if doc == "" {
		http.Error(w, "missing doc", http.StatusBadRequest)
		return
	}

	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warnf("Relay: websocket upgrade error: %v (origin=%s)", err, r.Header.Get("Origin"))
		return
	}
	defer ws.Close()

	c := newConn(ws, doc)
	h.join(c)
	defer h.leave(c)

	go c.writeLoop()
	c.readLoop(h)
}

// Clients returns the number of connections in doc's room.
func (h *Hub) Clients(doc string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[doc])
}

func (h *Hub) join(c *conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rooms[c.doc] == nil {
		h.rooms[c.doc] = make(map[*conn]struct{})
	}
	h.rooms[c.doc][c] = struct{}{}
	logger.DebugTagf("relay", "Relay: joined %q (%d connections)", c.doc, len(h.rooms[c.doc]))
}

func (h *Hub) leave(c *conn) {
	h.mu.Lock()
	if conns, ok := h.rooms[c.doc]; ok {
		delete(conns, c)
		if len(conns) == 0 {
			delete(h.rooms, c.doc)
		}
	}
	h.mu.Unlock()

	close(c.done)
	logger.DebugTagf("relay", "Relay: left %q", c.doc)
}

// broadcast enqueues msg on every connection in the room except from.
func (h *Hub) broadcast(from *conn, msg Message) {
	h.mu.RLock()
	targets := make([]*conn, 0, len(h.rooms[from.doc]))
	for c := range h.rooms[from.doc] {
		if c != from {
			targets = append(targets, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range targets {
		c.enqueue(msg)
	}
}

type conn struct {
	ws   *websocket.Conn
	doc  string
	send chan Message
	done chan struct{}
}

func newConn(ws *websocket.Conn, doc string) *conn {
	return &conn{
		ws:   ws,
		doc:  doc,
		send: make(chan Message, sendBuffer),
		done: make(chan struct{}),
	}
}

// enqueue never blocks; a full queue drops the message.
func (c *conn) enqueue(msg Message) {
	select {
	case <-c.done:
	case c.send <- msg:
	default:
		logger.Warnf("Relay: send queue full on %q, dropping %s message", c.doc, msg.Type)
	}
}

func (c *conn) readLoop(h *Hub) {
	c.ws.SetReadLimit(maxMessageSize)
	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Warnf("Relay: read error on %q: %v", c.doc, err)
			}
			return
		}
		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			logger.Warnf("Relay: undecodable message on %q: %v", c.doc, err)
			continue
		}
		if msg.Type != TypeAction {
			logger.DebugTagf("relay", "Relay: ignoring %q message", msg.Type)
			continue
		}
		msg.Doc = c.doc
		h.broadcast(c, msg)
	}
}

func (c *conn) writeLoop() {
	for {
		select {
		case <-c.done:
			return
		case msg := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteJSON(msg); err != nil {
				logger.Warnf("Relay: write error on %q: %v", c.doc, err)
				return
			}
		}
	}
}

// ListenAndServe runs hub at /ws on addr until ctx is cancelled.
func ListenAndServe(ctx context.Context, addr string, hub *Hub) error {
	mux := http.NewServeMux()
	mux.Handle("/ws", hub)
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	logger.Infof("Relay: listening on %s", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), writeWait)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
