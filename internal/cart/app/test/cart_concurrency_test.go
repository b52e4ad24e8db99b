package app_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/dwikikusuma/storefront/internal/cart/app"
	"github.com/dwikikusuma/storefront/internal/cart/domain"
	"github.com/dwikikusuma/storefront/internal/observer"
	"github.com/dwikikusuma/storefront/internal/store"
	"github.com/dwikikusuma/storefront/internal/store/memory"
)

func newTestController(t *testing.T) (*app.Controller, string) {
	t.Helper()
	mem := memory.New()
	p := mem.PutProduct(store.ProductRecord{
		Name:  "Keyboard",
		Price: decimal.NewFromInt(40),
		Stock: 1000,
	})
	return app.NewController(mem.Cart(), observer.New[domain.Snapshot]("cart")), p.ID
}

func TestCart_ConcurrentAddToCartIncrement(t *testing.T) {
	ctx := context.Background()
	ctl, productID := newTestController(t)
	userID := uuid.NewString()

	const N = 100
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < N; i++ {
		g.Go(func() error {
			_, err := ctl.AddToCart(gctx, userID, productID, 1)
			return err
		})
	}

	if err := g.Wait(); err != nil {
		t.Fatalf("concurrent AddToCart failed: %v", err)
	}

	items, err := ctl.GetCartItems(ctx, userID)
	if err != nil {
		t.Fatalf("GetCartItems failed: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected exactly 1 cart row, got %d", len(items))
	}
	if items[0].Quantity != N {
		t.Fatalf("expected quantity=%d, got=%d", N, items[0].Quantity)
	}
}

func TestCart_ConcurrentUsersAreIsolated(t *testing.T) {
	ctx := context.Background()
	ctl, productID := newTestController(t)

	const N = 20
	users := make([]string, N)
	for i := range users {
		users[i] = uuid.NewString()
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, u := range users {
		g.Go(func() error {
			if _, err := ctl.AddToCart(gctx, u, productID, 2); err != nil {
				return err
			}
			return ctl.ClearCart(gctx, u)
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("concurrent add/clear failed: %v", err)
	}

	for _, u := range users {
		items, err := ctl.GetCartItems(ctx, u)
		if err != nil {
			t.Fatalf("GetCartItems failed: %v", err)
		}
		if len(items) != 0 {
			t.Fatalf("expected empty cart for %s, got %d rows", u, len(items))
		}
	}
}
