package app

import (
	"context"

	catalog "github.com/dwikikusuma/storefront/internal/catalog/domain"
	"github.com/dwikikusuma/storefront/internal/shoppinglist/domain"
	"github.com/dwikikusuma/storefront/internal/store"
)

type ListRepo interface {
	// FindByUserID returns the user's lists newest first. An empty status
	// means every status.
	FindByUserID(ctx context.Context, userID, status string) ([]store.ShoppingListRecord, error)
	FindByID(ctx context.Context, listID string) (*store.ShoppingListRecord, error)
	Create(ctx context.Context, userID, name string) (store.ShoppingListRecord, error)
	// UpdateStatus only writes when the current status equals from and
	// reports whether a row changed.
	UpdateStatus(ctx context.Context, listID, from, to string) (bool, error)
	Delete(ctx context.Context, listID string) error

	FindItemsByListID(ctx context.Context, listID string) ([]store.ShoppingListItemRecord, error)
	AddItem(ctx context.Context, listID, productID string, quantity int) error
	// UpdateItemQuantity and RemoveItem return the id of the list that
	// owns the item.
	UpdateItemQuantity(ctx context.Context, itemID string, quantity int) (string, error)
	RemoveItem(ctx context.Context, itemID string) (string, error)
}

// ProductLookup resolves a decoded barcode to a product, nil on miss.
type ProductLookup interface {
	GetProductByBarcode(ctx context.Context, barcode string) (*catalog.Product, error)
}

// Notifier broadcasts list events. *observer.Subject satisfies it.
type Notifier interface {
	Notify(event domain.Event)
}
