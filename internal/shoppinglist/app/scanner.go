package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/dwikikusuma/storefront/internal/apperr"
	catalog "github.com/dwikikusuma/storefront/internal/catalog/domain"
)

// Scanner turns a decoded barcode into a list item. Decoding the camera
// frame happens on the device; only the decoded text reaches the server.
type Scanner struct {
	products ProductLookup
	lists    *Controller
}

func NewScanner(products ProductLookup, lists *Controller) *Scanner {
	return &Scanner{products: products, lists: lists}
}

// Scan adds one unit of the product carrying code to the list.
func (s *Scanner) Scan(ctx context.Context, listID, code string) (catalog.Product, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return catalog.Product{}, apperr.Invalid("code", "is required")
	}

	p, err := s.products.GetProductByBarcode(ctx, code)
	if err != nil {
		return catalog.Product{}, err
	}
	if p == nil {
		return catalog.Product{}, fmt.Errorf("barcode %s: %w", code, apperr.ErrNotFound)
	}

	if err := s.lists.AddItemToList(ctx, listID, p.ID, 1); err != nil {
		return catalog.Product{}, err
	}
	return *p, nil
}
