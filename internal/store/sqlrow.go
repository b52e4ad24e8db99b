package store

import "strings"

var productColumns = []string{
	"id", "name", "category", "price", "description", "barcode", "image_url", "stock", "created_at",
}

// ProductColumns lists the product columns in ScanTargets order,
// qualified with alias when it is not empty.
func ProductColumns(alias string) string {
	if alias == "" {
		return strings.Join(productColumns, ", ")
	}
	cols := make([]string, len(productColumns))
	for i, c := range productColumns {
		cols[i] = alias + "." + c
	}
	return strings.Join(cols, ", ")
}

// ScanTargets returns pointers to p's fields in ProductColumns order.
func (p *ProductRecord) ScanTargets() []any {
	return []any{
		&p.ID, &p.Name, &p.Category, &p.Price, &p.Description,
		&p.Barcode, &p.ImageURL, &p.Stock, &p.CreatedAt,
	}
}
