package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/dwikikusuma/storefront/internal/apperr"
	"github.com/dwikikusuma/storefront/internal/catalog/domain"
	"github.com/dwikikusuma/storefront/internal/factory"
)

// Controller is the read-only catalog facade. The catalog has no
// subscribers, so nothing here notifies.
type Controller struct {
	repo ProductRepo
}

func NewController(repo ProductRepo) *Controller {
	return &Controller{repo: repo}
}

func (c *Controller) GetAllProducts(ctx context.Context) ([]domain.Product, error) {
	recs, err := c.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return factory.CreateProducts(recs)
}

// SearchProducts falls back to the full catalog for a blank query.
func (c *Controller) SearchProducts(ctx context.Context, query string) ([]domain.Product, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return c.GetAllProducts(ctx)
	}

	recs, err := c.repo.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	return factory.CreateProducts(recs)
}

func (c *Controller) GetProductsByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	recs, err := c.repo.FindByCategory(ctx, strings.TrimSpace(category))
	if err != nil {
		return nil, err
	}
	return factory.CreateProducts(recs)
}

func (c *Controller) GetCategories(ctx context.Context) ([]string, error) {
	return c.repo.FindAllCategories(ctx)
}

func (c *Controller) GetProductByID(ctx context.Context, id string) (domain.Product, error) {
	if strings.TrimSpace(id) == "" {
		return domain.Product{}, apperr.Invalid("id", "is required")
	}
	if _, err := uuid.Parse(id); err != nil {
		return domain.Product{}, apperr.Invalid("id", "must be a valid UUID")
	}

	rec, err := c.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}
	if rec == nil {
		return domain.Product{}, fmt.Errorf("product %s: %w", id, apperr.ErrNotFound)
	}
	return factory.CreateProduct(*rec)
}

// GetProductByBarcode returns nil when no product carries the barcode.
func (c *Controller) GetProductByBarcode(ctx context.Context, barcode string) (*domain.Product, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return nil, apperr.Invalid("barcode", "is required")
	}

	rec, err := c.repo.FindByBarcode(ctx, barcode)
	if err != nil || rec == nil {
		return nil, err
	}

	p, err := factory.CreateProduct(*rec)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
