// Package realtime pushes cart snapshots and shopping list events to
// websocket clients. Each connection attaches its own subscribers to the
// cart and list subjects and detaches them when the connection ends.
package realtime

import (
	"log/slog"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	cart "github.com/dwikikusuma/storefront/internal/cart/domain"
	"github.com/dwikikusuma/storefront/internal/metrics"
	"github.com/dwikikusuma/storefront/internal/observer"
	lists "github.com/dwikikusuma/storefront/internal/shoppinglist/domain"
)

// Message types sent over the socket.
const (
	TypeCart  = "cart"
	TypeLists = "lists"
	TypePing  = "ping"
	TypePong  = "pong"
)

type Message struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

type Hub struct {
	cart    *observer.Subject[cart.Snapshot]
	lists   *observer.Subject[lists.Event]
	log     *slog.Logger
	origins []string

	upgrader websocket.Upgrader

	mu       sync.Mutex
	sessions map[*session]struct{}
}

// NewHub builds a hub. origins lists the allowed Origin headers; "*"
// allows any origin, including none.
func NewHub(cartSubject *observer.Subject[cart.Snapshot], listSubject *observer.Subject[lists.Event], log *slog.Logger, origins []string) *Hub {
	h := &Hub{
		cart:     cartSubject,
		lists:    listSubject,
		log:      log.With(slog.String("component", "realtime")),
		origins:  origins,
		sessions: map[*session]struct{}{},
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  4096,
		CheckOrigin:      h.checkOrigin,
		HandshakeTimeout: 10 * time.Second,
	}
	return h
}

func (h *Hub) checkOrigin(r *http.Request) bool {
	if slices.Contains(h.origins, "*") {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" {
		h.log.Warn("websocket rejected: missing Origin header")
		return false
	}
	if slices.Contains(h.origins, origin) {
		return true
	}
	h.log.Warn("websocket rejected: origin not allowed", slog.String("origin", origin))
	return false
}

// ServeWS upgrades the request and serves the session until the client
// goes away or the hub is closed. It blocks for the life of the session.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, userID string) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Debug("websocket upgrade failed", slog.Any("err", err))
		return
	}

	s := newSession(conn, userID, h.log)
	cf := &cartFeed{s: s}
	lf := &listFeed{s: s}

	h.register(s)
	h.cart.Attach(cf)
	h.lists.Attach(lf)
	defer func() {
		h.cart.Detach(cf)
		h.lists.Detach(lf)
		h.unregister(s)
		s.close()
	}()

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		s.writePump()
	}()

	s.readPump()
	s.close()
	<-writerDone
}

// Len reports the number of live sessions.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sessions)
}

// Close ends every live session. ServeWS calls still running return once
// their connections shut down.
func (h *Hub) Close() {
	h.mu.Lock()
	sessions := make([]*session, 0, len(h.sessions))
	for s := range h.sessions {
		sessions = append(sessions, s)
	}
	h.mu.Unlock()

	for _, s := range sessions {
		s.close()
	}
	h.log.Info("realtime hub closed", slog.Int("sessions", len(sessions)))
}

func (h *Hub) register(s *session) {
	h.mu.Lock()
	h.sessions[s] = struct{}{}
	n := len(h.sessions)
	h.mu.Unlock()

	metrics.RealtimeSessions.Inc()
	s.log.Info("websocket client connected", slog.Int("total_sessions", n))
}

func (h *Hub) unregister(s *session) {
	h.mu.Lock()
	delete(h.sessions, s)
	n := len(h.sessions)
	h.mu.Unlock()

	metrics.RealtimeSessions.Dec()
	s.log.Info("websocket client disconnected", slog.Int("total_sessions", n))
}
