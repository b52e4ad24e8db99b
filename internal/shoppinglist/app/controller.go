package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dwikikusuma/storefront/internal/apperr"
	"github.com/dwikikusuma/storefront/internal/factory"
	"github.com/dwikikusuma/storefront/internal/shoppinglist/domain"
)

// Controller owns shopping lists and their items. Unlike the cart it
// does not reload after item changes; it broadcasts a tagged event and
// leaves re-fetching to the subscriber.
type Controller struct {
	repo     ListRepo
	notifier Notifier
}

func NewController(repo ListRepo, notifier Notifier) *Controller {
	return &Controller{repo: repo, notifier: notifier}
}

// GetLists returns the user's lists newest first, optionally filtered by
// status, and broadcasts them.
func (c *Controller) GetLists(ctx context.Context, userID string, status domain.Status) ([]domain.List, error) {
	if err := checkID("user_id", userID); err != nil {
		return nil, err
	}
	if status != "" && !status.Valid() {
		return nil, apperr.Invalid("status", fmt.Sprintf("unknown value %q", status))
	}

	recs, err := c.repo.FindByUserID(ctx, userID, string(status))
	if err != nil {
		return nil, err
	}
	lists, err := factory.CreateShoppingLists(recs)
	if err != nil {
		return nil, err
	}

	c.notifier.Notify(domain.Event{Action: domain.ActionLoaded, UserID: userID, Status: status, Lists: lists})
	return lists, nil
}

func (c *Controller) GetList(ctx context.Context, listID string) (domain.List, error) {
	if err := checkID("list_id", listID); err != nil {
		return domain.List{}, err
	}

	rec, err := c.repo.FindByID(ctx, listID)
	if err != nil {
		return domain.List{}, err
	}
	if rec == nil {
		return domain.List{}, fmt.Errorf("shopping list %s: %w", listID, apperr.ErrNotFound)
	}
	return factory.CreateShoppingList(*rec)
}

func (c *Controller) CreateList(ctx context.Context, userID, name string) (domain.List, error) {
	if err := checkID("user_id", userID); err != nil {
		return domain.List{}, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.List{}, apperr.Invalid("name", "is required")
	}

	rec, err := c.repo.Create(ctx, userID, name)
	if err != nil {
		return domain.List{}, err
	}
	list, err := factory.CreateShoppingList(rec)
	if err != nil {
		return domain.List{}, err
	}

	c.notifier.Notify(domain.Event{Action: domain.ActionCreated, UserID: userID, ListID: list.ID, Status: list.Status, List: &list})
	return list, nil
}

// UpdateListStatus moves the list one step forward. Anything other than
// the direct successor of the current status is a StateTransitionError,
// including the case where another writer moved the list first.
func (c *Controller) UpdateListStatus(ctx context.Context, listID string, to domain.Status) (domain.List, error) {
	if !to.Valid() {
		return domain.List{}, apperr.Invalid("status", fmt.Sprintf("unknown value %q", to))
	}

	list, err := c.GetList(ctx, listID)
	if err != nil {
		return domain.List{}, err
	}
	if !list.Status.CanTransitionTo(to) {
		return domain.List{}, &apperr.StateTransitionError{From: string(list.Status), To: string(to)}
	}

	changed, err := c.repo.UpdateStatus(ctx, listID, string(list.Status), string(to))
	if err != nil {
		return domain.List{}, err
	}
	if !changed {
		return domain.List{}, &apperr.StateTransitionError{From: string(list.Status), To: string(to)}
	}

	list, err = c.GetList(ctx, listID)
	if err != nil {
		return domain.List{}, err
	}
	c.notifier.Notify(domain.Event{Action: domain.ActionUpdated, UserID: list.UserID, ListID: listID, Status: to, List: &list})
	return list, nil
}

func (c *Controller) DeleteList(ctx context.Context, listID string) error {
	if err := checkID("list_id", listID); err != nil {
		return err
	}

	if err := c.repo.Delete(ctx, listID); err != nil {
		return err
	}

	c.notifier.Notify(domain.Event{Action: domain.ActionDeleted, ListID: listID})
	return nil
}

func (c *Controller) GetListItems(ctx context.Context, listID string) ([]domain.Item, error) {
	if err := checkID("list_id", listID); err != nil {
		return nil, err
	}

	recs, err := c.repo.FindItemsByListID(ctx, listID)
	if err != nil {
		return nil, err
	}
	return factory.CreateListItems(recs)
}

// AddItemToList sets the product's quantity on the list, adding the row
// if it is not there yet.
func (c *Controller) AddItemToList(ctx context.Context, listID, productID string, quantity int) error {
	if err := checkID("list_id", listID); err != nil {
		return err
	}
	if err := checkID("product_id", productID); err != nil {
		return err
	}
	if quantity < 1 {
		return apperr.Invalid("quantity", "must be at least 1")
	}

	if err := c.repo.AddItem(ctx, listID, productID, quantity); err != nil {
		return err
	}

	c.notifier.Notify(domain.Event{Action: domain.ActionItemAdded, ListID: listID, ProductID: productID, Quantity: quantity})
	return nil
}

// UpdateItemQuantity rejects quantities below one; removing an item goes
// through RemoveItemFromList.
func (c *Controller) UpdateItemQuantity(ctx context.Context, itemID string, quantity int) error {
	if err := checkID("item_id", itemID); err != nil {
		return err
	}
	if quantity < 1 {
		return apperr.Invalid("quantity", "must be at least 1")
	}

	listID, err := c.repo.UpdateItemQuantity(ctx, itemID, quantity)
	if err != nil {
		return err
	}

	c.notifier.Notify(domain.Event{Action: domain.ActionItemUpdated, ListID: listID, ItemID: itemID, Quantity: quantity})
	return nil
}

func (c *Controller) RemoveItemFromList(ctx context.Context, itemID string) error {
	if err := checkID("item_id", itemID); err != nil {
		return err
	}

	listID, err := c.repo.RemoveItem(ctx, itemID)
	if err != nil {
		return err
	}

	c.notifier.Notify(domain.Event{Action: domain.ActionItemRemoved, ListID: listID, ItemID: itemID})
	return nil
}

// CalculateTotal sums product price times quantity. Items whose product
// is gone contribute nothing.
func (c *Controller) CalculateTotal(items []domain.Item) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		if it.Product == nil {
			continue
		}
		total = total.Add(it.Product.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total
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
