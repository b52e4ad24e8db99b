package memory

import (
	"database/sql"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dwikikusuma/storefront/internal/store"
)

type seedProduct struct {
	name, category, price, barcode, description string
	stock                                       int
}

var demoCatalog = []seedProduct{
	{"Arabica Coffee 500g", "coffee", "8.90", "7891000100103", "Medium roast ground coffee", 40},
	{"Espresso Beans 1kg", "coffee", "15.50", "7891000100110", "Dark roast whole beans", 12},
	{"Bananas (dozen)", "fresh-produce", "3.20", "7891000200209", "", 60},
	{"Red Apples 1kg", "fresh-produce", "4.75", "7891000200216", "Crisp and sweet", 35},
	{"Tomatoes 1kg", "fresh-produce", "3.99", "7891000200223", "", 0},
	{"Chicken Breast 1kg", "meat-seafood", "9.80", "7891000300305", "Boneless, skinless", 20},
	{"Salmon Fillet 400g", "meat-seafood", "14.30", "7891000300312", "Atlantic salmon", 8},
	{"Whole Milk 1L", "dairy", "1.25", "7891000400401", "", 100},
	{"Greek Yogurt 500g", "dairy", "3.60", "7891000400418", "Plain, unsweetened", 25},
	{"Cheddar Cheese 200g", "dairy", "4.10", "7891000400425", "Aged 12 months", 18},
	{"Dark Chocolate 100g", "candy", "2.45", "7891000500507", "70% cocoa", 50},
	{"Gummy Bears 200g", "candy", "1.90", "7891000500514", "", 45},
}

// ProductID returns the stable id a seeded product gets from its barcode.
func ProductID(barcode string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("storefront/product/"+barcode)).String()
}

// Seed loads the demo catalog. Ids are derived from barcodes so repeated
// runs produce the same catalog.
func (s *Store) Seed() int {
	for _, sp := range demoCatalog {
		s.PutProduct(store.ProductRecord{
			ID:          ProductID(sp.barcode),
			Name:        sp.name,
			Category:    sp.category,
			Price:       decimal.RequireFromString(sp.price),
			Description: sql.NullString{String: sp.description, Valid: sp.description != ""},
			Barcode:     sql.NullString{String: sp.barcode, Valid: true},
			Stock:       sp.stock,
		})
	}
	return len(demoCatalog)
}
