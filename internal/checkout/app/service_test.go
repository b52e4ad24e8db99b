package app

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dwikikusuma/storefront/internal/apperr"
	orderdomain "github.com/dwikikusuma/storefront/internal/order/domain"
)

type fakeCart struct {
	items   []CartItem
	cleared int
}

func (f *fakeCart) GetCart(ctx context.Context, userID string) ([]CartItem, error) {
	return f.items, nil
}

func (f *fakeCart) ClearCart(ctx context.Context, userID string) error {
	f.cleared++
	return nil
}

type fakeCatalog struct {
	products map[string]Product
	inflight atomic.Int32
	peak     atomic.Int32
}

func (f *fakeCatalog) GetProduct(ctx context.Context, id string) (Product, error) {
	n := f.inflight.Add(1)
	defer f.inflight.Add(-1)
	for {
		p := f.peak.Load()
		if n <= p || f.peak.CompareAndSwap(p, n) {
			break
		}
	}

	p, ok := f.products[id]
	if !ok {
		return Product{}, fmt.Errorf("product %s: %w", id, apperr.ErrNotFound)
	}
	return p, nil
}

type fakeOrders struct {
	got []orderdomain.CreateOrderRequest
}

func (f *fakeOrders) CreateOrder(ctx context.Context, req orderdomain.CreateOrderRequest) (orderdomain.Order, error) {
	f.got = append(f.got, req)
	return orderdomain.Order{ID: uuid.NewString(), UserID: req.UserID, PaymentMethod: req.PaymentMethod}, nil
}

func fixture() (*fakeCart, *fakeCatalog, *fakeOrders) {
	coffee, milk := uuid.NewString(), uuid.NewString()
	return &fakeCart{items: []CartItem{
			{ProductID: coffee, Quantity: 2},
			{ProductID: milk, Quantity: 1},
		}},
		&fakeCatalog{products: map[string]Product{
			coffee: {ID: coffee, Name: "Coffee", Price: decimal.NewFromInt(10), Stock: 5},
			milk:   {ID: milk, Name: "Milk", Price: decimal.NewFromInt(5), Stock: 1},
		}},
		&fakeOrders{}
}

func TestQuote(t *testing.T) {
	cart, catalog, orders := fixture()
	svc := NewService(cart, catalog, orders, cart, 1)

	q, err := svc.Quote(context.Background(), uuid.NewString(), decimal.NewFromInt(3))
	require.NoError(t, err)
	require.Len(t, q.Lines, 2)
	assert.Equal(t, "Coffee", q.Lines[0].Name)
	assert.Equal(t, "25", q.Subtotal.String())
	assert.Equal(t, "22", q.Total.String())
	assert.EqualValues(t, 1, catalog.peak.Load())
}

func TestQuoteFailures(t *testing.T) {
	t.Run("empty cart", func(t *testing.T) {
		_, catalog, orders := fixture()
		empty := &fakeCart{}
		_, err := NewService(empty, catalog, orders, empty, 0).Quote(context.Background(), uuid.NewString(), decimal.Zero)
		assert.ErrorIs(t, err, ErrEmptyCart)
	})

	t.Run("not enough stock", func(t *testing.T) {
		cart, catalog, orders := fixture()
		cart.items[1].Quantity = 2
		_, err := NewService(cart, catalog, orders, cart, 0).Quote(context.Background(), uuid.NewString(), decimal.Zero)
		assert.ErrorIs(t, err, ErrOutOfStock)
		assert.ErrorContains(t, err, "Milk")
	})

	t.Run("missing product", func(t *testing.T) {
		cart, catalog, orders := fixture()
		cart.items = append(cart.items, CartItem{ProductID: uuid.NewString(), Quantity: 1})
		_, err := NewService(cart, catalog, orders, cart, 0).Quote(context.Background(), uuid.NewString(), decimal.Zero)
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})

	t.Run("discount above subtotal", func(t *testing.T) {
		cart, catalog, orders := fixture()
		_, err := NewService(cart, catalog, orders, cart, 0).Quote(context.Background(), uuid.NewString(), decimal.NewFromInt(26))
		assert.ErrorIs(t, err, apperr.ErrInvalidInput)
	})
}

func TestPlaceOrder(t *testing.T) {
	cart, catalog, orders := fixture()
	svc := NewService(cart, catalog, orders, cart, 0)
	user := uuid.NewString()

	order, err := svc.PlaceOrder(context.Background(), user, orderdomain.PaymentDebitCard, decimal.Zero)
	require.NoError(t, err)
	assert.Equal(t, user, order.UserID)
	assert.Equal(t, 1, cart.cleared)

	require.Len(t, orders.got, 1)
	require.Len(t, orders.got[0].Items, 2)
	assert.Equal(t, 2, orders.got[0].Items[0].Quantity)
	assert.True(t, orders.got[0].Items[0].UnitPrice.Equal(decimal.NewFromInt(10)))
}

type failingClearer struct{}

func (failingClearer) ClearCart(context.Context, string) error { return errors.New("boom") }

func TestPlaceOrderReportsUnclearedCart(t *testing.T) {
	cart, catalog, orders := fixture()
	svc := NewService(cart, catalog, orders, failingClearer{}, 0)

	order, err := svc.PlaceOrder(context.Background(), uuid.NewString(), orderdomain.PaymentPix, decimal.Zero)
	require.Error(t, err)
	assert.NotEmpty(t, order.ID)
	assert.Len(t, orders.got, 1)
}

func TestPlaceOrderRejectsUnknownPayment(t *testing.T) {
	cart, catalog, orders := fixture()
	_, err := NewService(cart, catalog, orders, cart, 0).PlaceOrder(context.Background(), uuid.NewString(), "cash", decimal.Zero)
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
	assert.Empty(t, orders.got)
}
