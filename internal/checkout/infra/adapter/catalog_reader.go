package adapter

import (
	"context"

	catalogapp "github.com/dwikikusuma/storefront/internal/catalog/app"
	checkoutapp "github.com/dwikikusuma/storefront/internal/checkout/app"
)

type CatalogControllerReader struct {
	ctl *catalogapp.Controller
}

func NewCatalogControllerReader(ctl *catalogapp.Controller) *CatalogControllerReader {
	return &CatalogControllerReader{ctl: ctl}
}

func (r *CatalogControllerReader) GetProduct(ctx context.Context, productID string) (checkoutapp.Product, error) {
	p, err := r.ctl.GetProductByID(ctx, productID)
	if err != nil {
		return checkoutapp.Product{}, err
	}

	return checkoutapp.Product{
		ID:       p.ID,
		Name:     p.Name,
		Category: p.Category,
		Price:    p.Price,
		Stock:    p.Stock,
	}, nil
}
