// Package relay republishes cart snapshots and list events on NATS so
// processes other than the one that made the change can react to it.
package relay

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/nats-io/nats.go"

	cart "github.com/dwikikusuma/storefront/internal/cart/domain"
	"github.com/dwikikusuma/storefront/internal/observer"
	lists "github.com/dwikikusuma/storefront/internal/shoppinglist/domain"
)

const DefaultPrefix = "storefront"

// Publisher is satisfied by *nats.Conn.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// Connect dials NATS with reconnects enabled.
func Connect(url, name string, log *slog.Logger) (*nats.Conn, error) {
	nc, err := nats.Connect(url,
		nats.Name(name),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(10),
		nats.ReconnectWait(time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warn("nats disconnected", slog.Any("err", err))
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info("nats reconnected", slog.String("url", nc.ConnectedUrl()))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	return nc, nil
}

type Relay struct {
	pub    Publisher
	prefix string

	cartObs *observer.Func[cart.Snapshot]
	listObs *observer.Func[lists.Event]
}

func New(pub Publisher, prefix string) *Relay {
	prefix = strings.Trim(prefix, ".")
	if prefix == "" {
		prefix = DefaultPrefix
	}

	r := &Relay{pub: pub, prefix: prefix}
	r.cartObs = observer.NewFunc(r.publishCart)
	r.listObs = observer.NewFunc(r.publishList)
	return r
}

func (r *Relay) Attach(c *observer.Subject[cart.Snapshot], l *observer.Subject[lists.Event]) {
	c.Attach(r.cartObs)
	l.Attach(r.listObs)
}

func (r *Relay) Detach(c *observer.Subject[cart.Snapshot], l *observer.Subject[lists.Event]) {
	c.Detach(r.cartObs)
	l.Detach(r.listObs)
}

// CartSubject is where snapshots for userID are published.
func (r *Relay) CartSubject(userID string) string {
	return r.prefix + ".cart." + token(userID)
}

// ListSubject is where an event is published: under its user when the
// event names one, otherwise under its list.
func (r *Relay) ListSubject(ev lists.Event) string {
	if ev.UserID != "" {
		return r.prefix + ".lists." + token(ev.UserID)
	}
	return r.prefix + ".lists." + token(ev.ListID)
}

func (r *Relay) publishCart(s cart.Snapshot) error {
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return r.pub.Publish(r.CartSubject(s.UserID), b)
}

func (r *Relay) publishList(ev lists.Event) error {
	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return r.pub.Publish(r.ListSubject(ev), b)
}

// token keeps ids from adding subject levels or wildcards.
func token(s string) string {
	if s == "" {
		return "_"
	}
	return strings.NewReplacer(".", "_", "*", "_", ">", "_", " ", "_").Replace(s)
}
