package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/dwikikusuma/storefront/internal/store"
	"github.com/dwikikusuma/storefront/pkg/postgres"
)

var (
	findAllProducts = `SELECT ` + store.ProductColumns("") + ` FROM products ORDER BY name, id`

	findProductByID = `SELECT ` + store.ProductColumns("") + ` FROM products WHERE id = $1`

	findProductsByCategory = `SELECT ` + store.ProductColumns("") + `
FROM products WHERE category = $1 ORDER BY name, id`

	searchProducts = `SELECT ` + store.ProductColumns("") + `
FROM products
WHERE name ILIKE '%' || $1 || '%'
   OR description ILIKE '%' || $1 || '%'
   OR barcode ILIKE '%' || $1 || '%'
ORDER BY name, id`

	findProductByBarcode = `SELECT ` + store.ProductColumns("") + ` FROM products WHERE barcode = $1`
)

const findAllCategories = `SELECT DISTINCT category FROM products WHERE category <> '' ORDER BY category`

type ProductRepo struct {
	db postgres.DBTX
}

func NewProductRepo(db postgres.DBTX) *ProductRepo {
	return &ProductRepo{db: db}
}

func (r *ProductRepo) FindAll(ctx context.Context) ([]store.ProductRecord, error) {
	var out []store.ProductRecord
	err := store.Observe(ctx, store.Products, "find_all", func(ctx context.Context) error {
		var err error
		out, err = r.list(ctx, findAllProducts)
		return err
	})
	return out, err
}

func (r *ProductRepo) FindByID(ctx context.Context, id string) (*store.ProductRecord, error) {
	var out *store.ProductRecord
	err := store.Observe(ctx, store.Products, "find_by_id", func(ctx context.Context) error {
		prodID, err := uuid.Parse(id)
		if err != nil {
			return err
		}
		out, err = r.one(ctx, findProductByID, prodID)
		return err
	})
	return out, err
}

func (r *ProductRepo) FindByCategory(ctx context.Context, category string) ([]store.ProductRecord, error) {
	var out []store.ProductRecord
	err := store.Observe(ctx, store.Products, "find_by_category", func(ctx context.Context) error {
		var err error
		out, err = r.list(ctx, findProductsByCategory, category)
		return err
	})
	return out, err
}

func (r *ProductRepo) Search(ctx context.Context, query string) ([]store.ProductRecord, error) {
	var out []store.ProductRecord
	err := store.Observe(ctx, store.Products, "search", func(ctx context.Context) error {
		var err error
		out, err = r.list(ctx, searchProducts, escapeLike(query))
		return err
	})
	return out, err
}

func (r *ProductRepo) FindByBarcode(ctx context.Context, barcode string) (*store.ProductRecord, error) {
	var out *store.ProductRecord
	err := store.Observe(ctx, store.Products, "find_by_barcode", func(ctx context.Context) error {
		var err error
		out, err = r.one(ctx, findProductByBarcode, barcode)
		return err
	})
	return out, err
}

func (r *ProductRepo) FindAllCategories(ctx context.Context) ([]string, error) {
	var out []string
	err := store.Observe(ctx, store.Products, "find_all_categories", func(ctx context.Context) error {
		rows, err := r.db.QueryContext(ctx, findAllCategories)
		if err != nil {
			return err
		}
		defer rows.Close()

		out = make([]string, 0)
		for rows.Next() {
			var c string
			if err := rows.Scan(&c); err != nil {
				return err
			}
			out = append(out, c)
		}
		return rows.Err()
	})
	return out, err
}

func (r *ProductRepo) one(ctx context.Context, query string, args ...any) (*store.ProductRecord, error) {
	var p store.ProductRecord
	err := r.db.QueryRowContext(ctx, query, args...).Scan(p.ScanTargets()...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepo) list(ctx context.Context, query string, args ...any) ([]store.ProductRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]store.ProductRecord, 0)
	for rows.Next() {
		var p store.ProductRecord
		if err := rows.Scan(p.ScanTargets()...); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func escapeLike(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r == '%' || r == '_' || r == '\\' {
			out = append(out, '\\')
		}
		out = append(out, r)
	}
	return string(out)
}
