package domain

import (
	"github.com/shopspring/decimal"

	catalog "github.com/dwikikusuma/storefront/internal/catalog/domain"
)

// CartItem is a product projected with the quantity held in one user's
// cart. CartID is the identity of the cart row joining the two.
type CartItem struct {
	Product  catalog.Product `json:"product"`
	Quantity int             `json:"quantity" validate:"gte=1"`
	CartID   string          `json:"cart_id,omitempty"`
}

func (i CartItem) TotalPrice() decimal.Decimal {
	return i.Product.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Snapshot is the store-confirmed cart of one user, as broadcast on the
// cart subject.
type Snapshot struct {
	UserID string     `json:"user_id"`
	Items  []CartItem `json:"items"`
}
