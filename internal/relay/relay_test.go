package relay

import (
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cart "github.com/dwikikusuma/storefront/internal/cart/domain"
	"github.com/dwikikusuma/storefront/internal/observer"
	lists "github.com/dwikikusuma/storefront/internal/shoppinglist/domain"
)

func startNATS(t *testing.T) *nats.Conn {
	t.Helper()

	ns, err := server.NewServer(&server.Options{
		Host:   "127.0.0.1",
		Port:   -1,
		NoLog:  true,
		NoSigs: true,
	})
	require.NoError(t, err)

	go ns.Start()
	if !ns.ReadyForConnections(5 * time.Second) {
		ns.Shutdown()
		t.Fatal("embedded NATS server failed to start")
	}
	t.Cleanup(func() {
		ns.Shutdown()
		ns.WaitForShutdown()
	})

	nc, err := nats.Connect(ns.ClientURL())
	require.NoError(t, err)
	t.Cleanup(nc.Close)
	return nc
}

func TestRelayPublishesSnapshotsAndEvents(t *testing.T) {
	nc := startNATS(t)

	cartSubj := observer.New[cart.Snapshot]("cart")
	listSubj := observer.New[lists.Event]("shopping_lists")
	r := New(nc, "shop")
	r.Attach(cartSubj, listSubj)

	sub, err := nc.SubscribeSync("shop.>")
	require.NoError(t, err)
	require.NoError(t, nc.Flush())

	user := uuid.NewString()
	listID := uuid.NewString()
	cartSubj.Notify(cart.Snapshot{UserID: user, Items: []cart.CartItem{{Quantity: 3}}})
	listSubj.Notify(lists.Event{Action: lists.ActionItemRemoved, ListID: listID})
	require.NoError(t, nc.Flush())

	msg, err := sub.NextMsg(2 * time.Second)
	require.NoError(t, err)
	assert.Equal(t, "shop.cart."+user, msg.Subject)
	var snap cart.Snapshot
	require.NoError(t, json.Unmarshal(msg.Data, &snap))
	assert.Equal(t, 3, snap.Items[0].Quantity)

	msg, err = sub.NextMsg(2 * time.Second)
	require.NoError(t, err)
	assert.Equal(t, "shop.lists."+listID, msg.Subject)
	var ev lists.Event
	require.NoError(t, json.Unmarshal(msg.Data, &ev))
	assert.Equal(t, lists.ActionItemRemoved, ev.Action)

	r.Detach(cartSubj, listSubj)
	assert.Zero(t, cartSubj.Len())
	assert.Zero(t, listSubj.Len())
}

func TestSubjectTokens(t *testing.T) {
	r := New(nil, "")
	assert.Equal(t, "storefront.cart.a_b_c", r.CartSubject("a.b*c"))
	assert.Equal(t, "storefront.lists.u1", r.ListSubject(lists.Event{UserID: "u1", ListID: "l1"}))
	assert.Equal(t, "storefront.lists._", r.ListSubject(lists.Event{}))
}
