// Package store defines the raw record shapes returned by repositories
// and the wrapper every repository uses around a single store call.
package store

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// Collection names as they appear in the remote store.
const (
	Products          = "products"
	Cart              = "cart"
	ShoppingLists     = "shopping_lists"
	ShoppingListItems = "shopping_list_items"
	Orders            = "orders"
)

type ProductRecord struct {
	ID          string
	Name        string
	Category    string
	Price       decimal.Decimal
	Description sql.NullString
	Barcode     sql.NullString
	ImageURL    sql.NullString
	Stock       int
	CreatedAt   time.Time
}

// CartRecord is a cart row joined with the product it points to.
type CartRecord struct {
	ID       string
	UserID   string
	Quantity int
	AddedAt  time.Time
	Product  *ProductRecord
}

type ShoppingListRecord struct {
	ID        string
	UserID    string
	Name      string
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ShoppingListItemRecord is a list item row joined with its product.
type ShoppingListItemRecord struct {
	ID        string
	ListID    string
	ProductID string
	Quantity  int
	CreatedAt time.Time
	Product   *ProductRecord
}
