package realtime

import (
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	cart "github.com/dwikikusuma/storefront/internal/cart/domain"
	lists "github.com/dwikikusuma/storefront/internal/shoppinglist/domain"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4 * 1024
	sendBuffer     = 64
)

var (
	errSessionClosed = errors.New("realtime session closed")
	errBufferFull    = errors.New("realtime send buffer full, message dropped")
)

var sessionIDCounter atomic.Uint64

// session is one websocket connection for one user.
type session struct {
	id     uint64
	userID string
	conn   *websocket.Conn
	log    *slog.Logger

	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once

	mu    sync.Mutex
	lists map[string]struct{}
}

func newSession(conn *websocket.Conn, userID string, log *slog.Logger) *session {
	id := sessionIDCounter.Add(1)
	return &session{
		id:     id,
		userID: userID,
		conn:   conn,
		log:    log.With(slog.Uint64("session", id), slog.String("user_id", userID)),
		send:   make(chan []byte, sendBuffer),
		done:   make(chan struct{}),
		lists:  map[string]struct{}{},
	}
}

// enqueue never blocks the notifying goroutine.
func (s *session) enqueue(msg Message) error {
	b, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	select {
	case <-s.done:
		return errSessionClosed
	default:
	}

	select {
	case s.send <- b:
		return nil
	default:
		return errBufferFull
	}
}

func (s *session) close() {
	s.closeOnce.Do(func() { close(s.done) })
}

func (s *session) watchList(id string) {
	if id == "" {
		return
	}
	s.mu.Lock()
	s.lists[id] = struct{}{}
	s.mu.Unlock()
}

func (s *session) forgetList(id string) {
	s.mu.Lock()
	delete(s.lists, id)
	s.mu.Unlock()
}

func (s *session) watching(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.lists[id]
	return ok
}

// readPump drains the connection until it fails, answering ping messages.
func (s *session) readPump() {
	s.conn.SetReadLimit(maxMessageSize)
	if err := s.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		s.log.Error("failed to set read deadline", slog.Any("err", err))
		return
	}
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Warn("unexpected websocket close", slog.Any("err", err))
			}
			return
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}
		if msg.Type == TypePing {
			_ = s.enqueue(Message{Type: TypePong})
		}
	}
}

// writePump owns all writes to the connection.
func (s *session) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = s.conn.Close()
	}()

	for {
		select {
		case <-s.done:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = s.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return

		case b := <-s.send:
			if err := s.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				s.log.Error("failed to set write deadline", slog.Any("err", err))
				return
			}
			if err := s.conn.WriteMessage(websocket.TextMessage, b); err != nil {
				s.log.Debug("websocket write failed", slog.Any("err", err))
				return
			}

		case <-ticker.C:
			if err := s.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// cartFeed forwards the session user's cart snapshots.
type cartFeed struct {
	s *session
}

func (f *cartFeed) Update(snap cart.Snapshot) error {
	if snap.UserID != f.s.userID {
		return nil
	}
	return f.s.enqueue(Message{Type: TypeCart, Data: snap})
}

// listFeed forwards list events that belong to the session user. Events
// that only carry a list id are matched against the lists the session
// has already seen.
type listFeed struct {
	s *session
}

func (f *listFeed) Update(ev lists.Event) error {
	mine := ev.UserID == f.s.userID
	if !mine && (ev.ListID == "" || !f.s.watching(ev.ListID)) {
		return nil
	}

	if mine {
		f.s.watchList(ev.ListID)
		if ev.List != nil {
			f.s.watchList(ev.List.ID)
		}
		for _, l := range ev.Lists {
			f.s.watchList(l.ID)
		}
	}
	if ev.Action == lists.ActionDeleted {
		defer f.s.forgetList(ev.ListID)
	}

	return f.s.enqueue(Message{Type: TypeLists, Data: ev})
}
