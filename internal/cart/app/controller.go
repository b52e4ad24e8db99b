package app

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dwikikusuma/storefront/internal/apperr"
	"github.com/dwikikusuma/storefront/internal/cart/domain"
	"github.com/dwikikusuma/storefront/internal/factory"
)

// Controller owns the cart workflow. Every mutation is followed by a full
// reload so subscribers only ever see what the store confirmed.
type Controller struct {
	repo     CartRepo
	notifier Notifier
}

func NewController(repo CartRepo, notifier Notifier) *Controller {
	return &Controller{repo: repo, notifier: notifier}
}

// GetCartItems reads the user's cart and broadcasts it.
func (c *Controller) GetCartItems(ctx context.Context, userID string) ([]domain.CartItem, error) {
	if err := checkID("user_id", userID); err != nil {
		return nil, err
	}

	recs, err := c.repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	items, err := factory.CreateCartItems(recs)
	if err != nil {
		return nil, err
	}

	c.notifier.Notify(domain.Snapshot{UserID: userID, Items: items})
	return items, nil
}

// AddToCart adds quantity to the product's row, creating it if needed.
// A zero quantity means one.
func (c *Controller) AddToCart(ctx context.Context, userID, productID string, quantity int) ([]domain.CartItem, error) {
	if quantity == 0 {
		quantity = 1
	}
	if err := checkWrite(userID, productID, quantity); err != nil {
		return nil, err
	}

	if err := c.repo.Upsert(ctx, userID, productID, quantity); err != nil {
		return nil, err
	}
	return c.GetCartItems(ctx, userID)
}

func (c *Controller) UpdateQuantity(ctx context.Context, userID, productID string, quantity int) ([]domain.CartItem, error) {
	if err := checkWrite(userID, productID, quantity); err != nil {
		return nil, err
	}

	if err := c.repo.UpdateQuantity(ctx, userID, productID, quantity); err != nil {
		return nil, err
	}
	return c.GetCartItems(ctx, userID)
}

func (c *Controller) RemoveFromCart(ctx context.Context, userID, productID string) ([]domain.CartItem, error) {
	if err := checkID("user_id", userID); err != nil {
		return nil, err
	}
	if err := checkID("product_id", productID); err != nil {
		return nil, err
	}

	if err := c.repo.Remove(ctx, userID, productID); err != nil {
		return nil, err
	}
	return c.GetCartItems(ctx, userID)
}

// ClearCart empties the cart and broadcasts an empty snapshot without
// reading it back.
func (c *Controller) ClearCart(ctx context.Context, userID string) error {
	if err := checkID("user_id", userID); err != nil {
		return err
	}

	if err := c.repo.Clear(ctx, userID); err != nil {
		return err
	}

	c.notifier.Notify(domain.Snapshot{UserID: userID, Items: []domain.CartItem{}})
	return nil
}

// CalculateTotal sums price times quantity. A quantity below one counts
// as one.
func (c *Controller) CalculateTotal(items []domain.CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		qty := it.Quantity
		if qty < 1 {
			qty = 1
		}
		total = total.Add(it.Product.Price.Mul(decimal.NewFromInt(int64(qty))))
	}
	return total
}

func checkWrite(userID, productID string, quantity int) error {
	if err := checkID("user_id", userID); err != nil {
		return err
	}
	if err := checkID("product_id", productID); err != nil {
		return err
	}
	if quantity < 1 {
		return apperr.Invalid("quantity", "must be at least 1")
	}
	return nil
}

func checkID(field, id string) error {
	if strings.TrimSpace(id) == "" {
		return apperr.Invalid(field, "is required")
	}
	if _, err := uuid.Parse(id); err != nil {
		return apperr.Invalid(field, "must be a valid UUID")
	}
	return nil
}
