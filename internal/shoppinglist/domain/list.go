package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type List struct {
	ID        string    `json:"id" validate:"required"`
	Name      string    `json:"name" validate:"required"`
	UserID    string    `json:"user_id" validate:"required"`
	Status    Status    `json:"status" validate:"oneof=previous ongoing completed"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProductRef is the denormalized copy of a product shown next to a list item.
type ProductRef struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	ImageURL string          `json:"image_url,omitempty"`
}

type Item struct {
	ID        string      `json:"id" validate:"required"`
	ListID    string      `json:"list_id" validate:"required"`
	ProductID string      `json:"product_id" validate:"required"`
	Quantity  int         `json:"quantity" validate:"gte=1"`
	CreatedAt time.Time   `json:"created_at"`
	Product   *ProductRef `json:"product,omitempty"`
}
