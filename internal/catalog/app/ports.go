package app

import (
	"context"

	"github.com/dwikikusuma/storefront/internal/store"
)

// ProductRepo is read-only: products are created outside the data layer.
// Lookups that match nothing return a nil record and a nil error.
type ProductRepo interface {
	FindAll(ctx context.Context) ([]store.ProductRecord, error)
	FindByID(ctx context.Context, id string) (*store.ProductRecord, error)
	FindByCategory(ctx context.Context, category string) ([]store.ProductRecord, error)
	Search(ctx context.Context, query string) ([]store.ProductRecord, error)
	FindByBarcode(ctx context.Context, barcode string) (*store.ProductRecord, error)
	FindAllCategories(ctx context.Context) ([]string, error)
}
