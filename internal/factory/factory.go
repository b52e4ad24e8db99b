// Package factory turns raw store records into validated domain objects.
// It is the only place where record shapes are normalized. Every function
// is pure: no I/O, no shared mutable state, same output for the same input.
package factory

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/dwikikusuma/storefront/internal/apperr"
	cart "github.com/dwikikusuma/storefront/internal/cart/domain"
	catalog "github.com/dwikikusuma/storefront/internal/catalog/domain"
	lists "github.com/dwikikusuma/storefront/internal/shoppinglist/domain"
	"github.com/dwikikusuma/storefront/internal/store"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterCustomTypeFunc(func(v reflect.Value) any {
			d, ok := v.Interface().(decimal.Decimal)
			if !ok {
				return nil
			}
			f, _ := d.Float64()
			return f
		}, decimal.Decimal{})
	})
	return validate
}

func check(v any) error {
	err := getValidator().Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return apperr.Invalid(strings.ToLower(fe.Field()), describe(fe))
	}
	return apperr.Invalid("", err.Error())
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gte":
		return "must be at least " + fe.Param()
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	}
	return fmt.Sprintf("failed %s check", fe.Tag())
}

func CreateProduct(rec store.ProductRecord) (catalog.Product, error) {
	p := catalog.Product{
		ID:          rec.ID,
		Name:        rec.Name,
		Category:    rec.Category,
		Price:       rec.Price,
		Description: rec.Description.String,
		Barcode:     rec.Barcode.String,
		ImageURL:    rec.ImageURL.String,
		Stock:       rec.Stock,
		CreatedAt:   rec.CreatedAt,
	}
	if err := check(p); err != nil {
		return catalog.Product{}, err
	}
	return p, nil
}

func CreateProducts(recs []store.ProductRecord) ([]catalog.Product, error) {
	out := make([]catalog.Product, 0, len(recs))
	for i, rec := range recs {
		p, err := CreateProduct(rec)
		if err != nil {
			return nil, fmt.Errorf("product %d: %w", i, err)
		}
		out = append(out, p)
	}
	return out, nil
}

// CreateCartItem builds the nested product first and then attaches the
// quantity and cart row id.
func CreateCartItem(rec store.CartRecord) (cart.CartItem, error) {
	if rec.Product == nil {
		return cart.CartItem{}, apperr.Invalid("product", "is missing from cart row")
	}

	p, err := CreateProduct(*rec.Product)
	if err != nil {
		return cart.CartItem{}, err
	}

	item := cart.CartItem{
		Product:  p,
		Quantity: rec.Quantity,
		CartID:   rec.ID,
	}
	if err := check(item); err != nil {
		return cart.CartItem{}, err
	}
	return item, nil
}

func CreateCartItems(recs []store.CartRecord) ([]cart.CartItem, error) {
	out := make([]cart.CartItem, 0, len(recs))
	for i, rec := range recs {
		item, err := CreateCartItem(rec)
		if err != nil {
			return nil, fmt.Errorf("cart row %d: %w", i, err)
		}
		out = append(out, item)
	}
	return out, nil
}

func CreateShoppingList(rec store.ShoppingListRecord) (lists.List, error) {
	l := lists.List{
		ID:        rec.ID,
		Name:      rec.Name,
		UserID:    rec.UserID,
		Status:    lists.Status(rec.Status),
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}
	if err := check(l); err != nil {
		return lists.List{}, err
	}
	return l, nil
}

func CreateShoppingLists(recs []store.ShoppingListRecord) ([]lists.List, error) {
	out := make([]lists.List, 0, len(recs))
	for i, rec := range recs {
		l, err := CreateShoppingList(rec)
		if err != nil {
			return nil, fmt.Errorf("list %d: %w", i, err)
		}
		out = append(out, l)
	}
	return out, nil
}

// CreateListItem keeps the item even when its product row is gone; the
// display reference is simply left nil.
func CreateListItem(rec store.ShoppingListItemRecord) (lists.Item, error) {
	item := lists.Item{
		ID:        rec.ID,
		ListID:    rec.ListID,
		ProductID: rec.ProductID,
		Quantity:  rec.Quantity,
		CreatedAt: rec.CreatedAt,
	}
	if rec.Product != nil {
		item.Product = &lists.ProductRef{
			ID:       rec.Product.ID,
			Name:     rec.Product.Name,
			Price:    rec.Product.Price,
			ImageURL: rec.Product.ImageURL.String,
		}
	}
	if err := check(item); err != nil {
		return lists.Item{}, err
	}
	return item, nil
}

func CreateListItems(recs []store.ShoppingListItemRecord) ([]lists.Item, error) {
	out := make([]lists.Item, 0, len(recs))
	for i, rec := range recs {
		item, err := CreateListItem(rec)
		if err != nil {
			return nil, fmt.Errorf("list item %d: %w", i, err)
		}
		out = append(out, item)
	}
	return out, nil
}
