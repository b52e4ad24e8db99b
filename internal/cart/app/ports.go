package app

import (
	"context"

	"github.com/dwikikusuma/storefront/internal/cart/domain"
	"github.com/dwikikusuma/storefront/internal/store"
)

// CartRepo addresses cart rows by the (user, product) pair the store
// keeps unique. Upsert adds to the quantity of an existing row.
type CartRepo interface {
	FindByUserID(ctx context.Context, userID string) ([]store.CartRecord, error)
	Upsert(ctx context.Context, userID, productID string, quantity int) error
	UpdateQuantity(ctx context.Context, userID, productID string, quantity int) error
	Remove(ctx context.Context, userID, productID string) error
	Clear(ctx context.Context, userID string) error
}

// Notifier broadcasts a store-confirmed cart. *observer.Subject satisfies it.
type Notifier interface {
	Notify(snapshot domain.Snapshot)
}
