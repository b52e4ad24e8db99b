package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/dwikikusuma/storefront/internal/apperr"
	"github.com/dwikikusuma/storefront/internal/checkout/domain"
	orderdomain "github.com/dwikikusuma/storefront/internal/order/domain"
)

type CartReader interface {
	GetCart(ctx context.Context, userID string) ([]CartItem, error)
}

type CartItem struct {
	ProductID string
	Quantity  int
}

type CatalogReader interface {
	GetProduct(ctx context.Context, productID string) (Product, error)
}

type Product struct {
	ID       string
	Name     string
	Category string
	Price    decimal.Decimal
	Stock    int
}

type OrderPlacer interface {
	CreateOrder(ctx context.Context, req orderdomain.CreateOrderRequest) (orderdomain.Order, error)
}

type CartClearer interface {
	ClearCart(ctx context.Context, userID string) error
}

type Service struct {
	Cart    CartReader
	Catalog CatalogReader
	Orders  OrderPlacer
	Clearer CartClearer

	maxConcurrent int
}

func NewService(cart CartReader, catalog CatalogReader, orders OrderPlacer, clearer CartClearer, maxConcurrent int) *Service {
	if maxConcurrent <= 0 {
		maxConcurrent = 10
	}

	return &Service{
		Cart:          cart,
		Catalog:       catalog,
		Orders:        orders,
		Clearer:       clearer,
		maxConcurrent: maxConcurrent,
	}
}

var (
	ErrEmptyCart  = errors.New("cart is empty")
	ErrOutOfStock = errors.New("not enough stock")
)

// Quote prices the user's cart at current catalog prices. Products are
// re-read concurrently, bounded by maxConcurrent.
func (s *Service) Quote(ctx context.Context, userID string, discount decimal.Decimal) (domain.Quote, error) {
	if discount.IsNegative() {
		return domain.Quote{}, apperr.Invalid("discount", "cannot be negative")
	}

	items, err := s.Cart.GetCart(ctx, userID)
	if err != nil {
		return domain.Quote{}, err
	}

	if len(items) == 0 {
		return domain.Quote{}, ErrEmptyCart
	}

	lines := make([]domain.QuoteLine, len(items))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrent)

	for idx := range items {
		g.Go(func() error {
			it := items[idx]
			if it.Quantity <= 0 {
				return apperr.Invalid("quantity", fmt.Sprintf("must be greater than zero: %d", it.Quantity))
			}

			product, err := s.Catalog.GetProduct(gctx, it.ProductID)
			if err != nil {
				return fmt.Errorf("failed to get product %s: %w", it.ProductID, err)
			}
			if product.Stock < it.Quantity {
				return fmt.Errorf("%s: %w (want %d, have %d)", product.Name, ErrOutOfStock, it.Quantity, product.Stock)
			}

			lines[idx] = domain.QuoteLine{
				ProductID: product.ID,
				Name:      product.Name,
				Category:  product.Category,
				Quantity:  it.Quantity,
				UnitPrice: product.Price,
				LineTotal: product.Price.Mul(decimal.NewFromInt(int64(it.Quantity))),
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return domain.Quote{}, err
	}

	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(line.LineTotal)
	}
	if discount.GreaterThan(subtotal) {
		return domain.Quote{}, apperr.Invalid("discount", "exceeds subtotal")
	}

	return domain.Quote{
		Lines:    lines,
		Subtotal: subtotal,
		Discount: discount,
		Total:    subtotal.Sub(discount),
	}, nil
}

// PlaceOrder quotes the cart, stores the order and then empties the cart.
// A failure to clear the cart is returned alongside the stored order.
func (s *Service) PlaceOrder(ctx context.Context, userID string, method orderdomain.PaymentMethod, discount decimal.Decimal) (orderdomain.Order, error) {
	if !method.Valid() {
		return orderdomain.Order{}, apperr.Invalid("payment_method", fmt.Sprintf("unknown value %q", method))
	}

	quote, err := s.Quote(ctx, userID, discount)
	if err != nil {
		return orderdomain.Order{}, err
	}

	req := orderdomain.CreateOrderRequest{
		UserID:         userID,
		PaymentMethod:  method,
		DiscountAmount: quote.Discount,
		Items:          make([]orderdomain.OrderItemRequest, 0, len(quote.Lines)),
	}
	for _, line := range quote.Lines {
		req.Items = append(req.Items, orderdomain.OrderItemRequest{
			ProductID: line.ProductID,
			Name:      line.Name,
			Category:  line.Category,
			UnitPrice: line.UnitPrice,
			Quantity:  line.Quantity,
		})
	}

	order, err := s.Orders.CreateOrder(ctx, req)
	if err != nil {
		return orderdomain.Order{}, err
	}

	if err := s.Clearer.ClearCart(ctx, userID); err != nil {
		return order, fmt.Errorf("order %s placed but cart not cleared: %w", order.ID, err)
	}
	return order, nil
}
