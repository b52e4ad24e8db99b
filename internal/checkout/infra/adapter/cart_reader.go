package adapter

import (
	"context"

	cartapp "github.com/dwikikusuma/storefront/internal/cart/app"
	checkoutapp "github.com/dwikikusuma/storefront/internal/checkout/app"
)

// CartControllerReader reads the cart through the cart controller, so a
// checkout also refreshes every cart subscriber.
type CartControllerReader struct {
	ctl *cartapp.Controller
}

func NewCartControllerReader(ctl *cartapp.Controller) *CartControllerReader {
	return &CartControllerReader{ctl: ctl}
}

func (r *CartControllerReader) GetCart(ctx context.Context, userID string) ([]checkoutapp.CartItem, error) {
	cart, err := r.ctl.GetCartItems(ctx, userID)
	if err != nil {
		return nil, err
	}

	items := make([]checkoutapp.CartItem, 0, len(cart))
	for _, it := range cart {
		items = append(items, checkoutapp.CartItem{
			ProductID: it.Product.ID,
			Quantity:  it.Quantity,
		})
	}
	return items, nil
}
