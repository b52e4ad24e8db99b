//go:build integration

package postgres

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dwikikusuma/storefront/internal/order/domain"
	"github.com/dwikikusuma/storefront/internal/testinfra"
)

func TestOrderRepo(t *testing.T) {
	db := testinfra.Postgres(t)
	ctx := context.Background()
	repo := NewOrderRepo(db)

	productID := testinfra.InsertProduct(t, db, "Coffee", "coffee", "8.00", "", 5)
	user := uuid.NewString()

	order := domain.Order{
		UserID:         user,
		Status:         domain.StatusCompleted,
		PaymentMethod:  domain.PaymentCreditCard,
		TotalAmount:    decimal.RequireFromString("16.00"),
		DiscountAmount: decimal.RequireFromString("1.00"),
		FinalAmount:    decimal.RequireFromString("15.00"),
		Items: []domain.OrderItem{{
			ProductID:  productID,
			Quantity:   2,
			UnitPrice:  decimal.RequireFromString("8.00"),
			TotalPrice: decimal.RequireFromString("16.00"),
		}},
	}

	created, err := repo.CreateOrderTx(ctx, order)
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.Len(t, created.Items, 1)

	bad := order
	bad.Items = append(bad.Items, domain.OrderItem{
		ProductID: productID, Quantity: 3, UnitPrice: decimal.NewFromInt(1), TotalPrice: decimal.NewFromInt(1),
	})
	_, err = repo.CreateOrderTx(ctx, bad)
	assert.ErrorContains(t, err, "line total mismatch")

	history, err := repo.FindByUserID(ctx, user)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, created.ID, history[0].ID)
	require.Len(t, history[0].Items, 1)
	assert.Equal(t, "Coffee", history[0].Items[0].Name)
	assert.Equal(t, "15.00", history[0].FinalAmount.StringFixed(2))
}
