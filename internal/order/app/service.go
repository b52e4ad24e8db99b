package app

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dwikikusuma/storefront/internal/apperr"
	"github.com/dwikikusuma/storefront/internal/order/domain"
)

type Service struct {
	repo OrderRepo
}

func NewService(repo OrderRepo) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreateOrder(ctx context.Context, req domain.CreateOrderRequest) (domain.Order, error) {
	if _, err := uuid.Parse(req.UserID); err != nil {
		return domain.Order{}, apperr.Invalid("user_id", "must be a valid UUID")
	}
	if !req.PaymentMethod.Valid() {
		return domain.Order{}, apperr.Invalid("payment_method", fmt.Sprintf("unknown value %q", req.PaymentMethod))
	}
	if len(req.Items) == 0 {
		return domain.Order{}, apperr.Invalid("items", "must not be empty")
	}
	if req.DiscountAmount.IsNegative() {
		return domain.Order{}, apperr.Invalid("discount_amount", "cannot be negative")
	}

	items := make([]domain.OrderItem, 0, len(req.Items))
	total := decimal.Zero

	for i, item := range req.Items {
		if item.Quantity <= 0 {
			return domain.Order{}, apperr.Invalid("quantity", fmt.Sprintf("item %d: must be positive, got %d", i, item.Quantity))
		}
		if item.UnitPrice.IsNegative() {
			return domain.Order{}, apperr.Invalid("unit_price", fmt.Sprintf("item %d: cannot be negative, got %s", i, item.UnitPrice))
		}

		lineTotal := item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		items = append(items, domain.OrderItem{
			ProductID:  item.ProductID,
			Name:       item.Name,
			Category:   item.Category,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
			TotalPrice: lineTotal,
		})
		total = total.Add(lineTotal)
	}

	if req.DiscountAmount.GreaterThan(total) {
		return domain.Order{}, apperr.Invalid("discount_amount", "exceeds order total")
	}

	order := domain.Order{
		UserID:         req.UserID,
		Status:         domain.StatusCompleted,
		PaymentMethod:  req.PaymentMethod,
		TotalAmount:    total,
		DiscountAmount: req.DiscountAmount,
		FinalAmount:    total.Sub(req.DiscountAmount),
		Items:          items,
	}

	return s.repo.CreateOrderTx(ctx, order)
}

// History returns the user's orders, newest first.
func (s *Service) History(ctx context.Context, userID string) ([]domain.Order, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, apperr.Invalid("user_id", "must be a valid UUID")
	}
	return s.repo.FindByUserID(ctx, userID)
}
