package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/dwikikusuma/storefront/internal/store"
)

type ProductRepo struct {
	s *Store
}

func (r *ProductRepo) FindAll(ctx context.Context) ([]store.ProductRecord, error) {
	var out []store.ProductRecord
	err := store.Observe(ctx, store.Products, "find_all", func(ctx context.Context) error {
		out = r.filter(func(store.ProductRecord) bool { return true })
		return ctx.Err()
	})
	return out, err
}

func (r *ProductRepo) FindByID(ctx context.Context, id string) (*store.ProductRecord, error) {
	var out *store.ProductRecord
	err := store.Observe(ctx, store.Products, "find_by_id", func(ctx context.Context) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := checkUUID(id); err != nil {
			return err
		}
		r.s.mu.RLock()
		defer r.s.mu.RUnlock()
		out = r.s.productPtr(id)
		return nil
	})
	return out, err
}

func (r *ProductRepo) FindByCategory(ctx context.Context, category string) ([]store.ProductRecord, error) {
	var out []store.ProductRecord
	err := store.Observe(ctx, store.Products, "find_by_category", func(ctx context.Context) error {
		out = r.filter(func(p store.ProductRecord) bool { return p.Category == category })
		return ctx.Err()
	})
	return out, err
}

// Search matches name, description and barcode case-insensitively.
func (r *ProductRepo) Search(ctx context.Context, query string) ([]store.ProductRecord, error) {
	q := strings.ToLower(query)
	var out []store.ProductRecord
	err := store.Observe(ctx, store.Products, "search", func(ctx context.Context) error {
		out = r.filter(func(p store.ProductRecord) bool {
			return strings.Contains(strings.ToLower(p.Name), q) ||
				strings.Contains(strings.ToLower(p.Description.String), q) ||
				strings.Contains(strings.ToLower(p.Barcode.String), q)
		})
		return ctx.Err()
	})
	return out, err
}

func (r *ProductRepo) FindByBarcode(ctx context.Context, barcode string) (*store.ProductRecord, error) {
	var out *store.ProductRecord
	err := store.Observe(ctx, store.Products, "find_by_barcode", func(ctx context.Context) error {
		matches := r.filter(func(p store.ProductRecord) bool {
			return p.Barcode.Valid && p.Barcode.String == barcode
		})
		if len(matches) > 0 {
			out = &matches[0]
		}
		return ctx.Err()
	})
	return out, err
}

func (r *ProductRepo) FindAllCategories(ctx context.Context) ([]string, error) {
	var out []string
	err := store.Observe(ctx, store.Products, "find_all_categories", func(ctx context.Context) error {
		r.s.mu.RLock()
		defer r.s.mu.RUnlock()

		seen := map[string]struct{}{}
		out = make([]string, 0)
		for _, p := range r.s.products {
			if _, ok := seen[p.Category]; ok || p.Category == "" {
				continue
			}
			seen[p.Category] = struct{}{}
			out = append(out, p.Category)
		}
		sort.Strings(out)
		return ctx.Err()
	})
	return out, err
}

// filter returns matching products ordered by name, then id.
func (r *ProductRepo) filter(keep func(store.ProductRecord) bool) []store.ProductRecord {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]store.ProductRecord, 0)
	for _, p := range r.s.products {
		if keep(p) {
			out = append(out, p)
		}
	}
	sortProducts(out)
	return out
}

func sortProducts(ps []store.ProductRecord) {
	sort.Slice(ps, func(i, j int) bool {
		if ps[i].Name != ps[j].Name {
			return ps[i].Name < ps[j].Name
		}
		return ps[i].ID < ps[j].ID
	})
}
