package memory

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dwikikusuma/storefront/internal/apperr"
	"github.com/dwikikusuma/storefront/internal/order/domain"
	"github.com/dwikikusuma/storefront/internal/store"
)

func product(name, category, price, barcode string) store.ProductRecord {
	return store.ProductRecord{
		ID:       uuid.NewString(),
		Name:     name,
		Category: category,
		Price:    decimal.RequireFromString(price),
		Barcode:  sql.NullString{String: barcode, Valid: barcode != ""},
		Stock:    5,
	}
}

func TestProductQueries(t *testing.T) {
	ctx := context.Background()
	s := New()
	milk := s.PutProduct(product("Milk", "dairy", "1.25", "111"))
	s.PutProduct(product("Apple", "fruit", "0.50", "222"))
	s.PutProduct(product("Butter", "dairy", "2.00", ""))
	repo := s.Products()

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"Apple", "Butter", "Milk"}, []string{all[0].Name, all[1].Name, all[2].Name})

	dairy, err := repo.FindByCategory(ctx, "dairy")
	require.NoError(t, err)
	assert.Len(t, dairy, 2)

	found, err := repo.Search(ctx, "MIL")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, milk.ID, found[0].ID)

	byCode, err := repo.FindByBarcode(ctx, "222")
	require.NoError(t, err)
	require.NotNil(t, byCode)
	assert.Equal(t, "Apple", byCode.Name)

	miss, err := repo.FindByBarcode(ctx, "999")
	require.NoError(t, err)
	assert.Nil(t, miss)

	cats, err := repo.FindAllCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"dairy", "fruit"}, cats)

	byID, err := repo.FindByID(ctx, milk.ID)
	require.NoError(t, err)
	require.NotNil(t, byID)
	assert.True(t, byID.Price.Equal(decimal.RequireFromString("1.25")))

	none, err := repo.FindByID(ctx, uuid.NewString())
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestMalformedIDIsStorageError(t *testing.T) {
	_, err := New().Products().FindByID(context.Background(), "not-a-uuid")

	var se *apperr.StorageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, store.Products, se.Collection)
	assert.Contains(t, err.Error(), "invalid input syntax for type uuid")
}

func TestCartUpsertIncrements(t *testing.T) {
	ctx := context.Background()
	s := New()
	p := s.PutProduct(product("Milk", "dairy", "1.25", ""))
	user := uuid.NewString()
	repo := s.Cart()

	require.NoError(t, repo.Upsert(ctx, user, p.ID, 1))
	require.NoError(t, repo.Upsert(ctx, user, p.ID, 1))

	rows, err := repo.FindByUserID(ctx, user)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 2, rows[0].Quantity)
	require.NotNil(t, rows[0].Product)
	assert.Equal(t, "Milk", rows[0].Product.Name)

	require.NoError(t, repo.UpdateQuantity(ctx, user, p.ID, 7))
	rows, err = repo.FindByUserID(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, 7, rows[0].Quantity)

	require.NoError(t, repo.Remove(ctx, user, p.ID))
	rows, err = repo.FindByUserID(ctx, user)
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.NotNil(t, rows)
}

func TestCartRejectsUnknownProductAndZeroQuantity(t *testing.T) {
	ctx := context.Background()
	s := New()
	p := s.PutProduct(product("Milk", "dairy", "1.25", ""))
	user := uuid.NewString()

	err := s.Cart().Upsert(ctx, user, uuid.NewString(), 1)
	assert.ErrorContains(t, err, "foreign key")

	err = s.Cart().UpdateQuantity(ctx, user, p.ID, 0)
	assert.ErrorContains(t, err, "quantity_positive")
}

func TestCartClearIsScopedToUser(t *testing.T) {
	ctx := context.Background()
	s := New()
	p := s.PutProduct(product("Milk", "dairy", "1.25", ""))
	alice, bob := uuid.NewString(), uuid.NewString()

	require.NoError(t, s.Cart().Upsert(ctx, alice, p.ID, 1))
	require.NoError(t, s.Cart().Upsert(ctx, bob, p.ID, 3))
	require.NoError(t, s.Cart().Clear(ctx, alice))

	rows, err := s.Cart().FindByUserID(ctx, alice)
	require.NoError(t, err)
	assert.Empty(t, rows)

	rows, err = s.Cart().FindByUserID(ctx, bob)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 3, rows[0].Quantity)
}

func TestListsNewestFirstAndStatusFilter(t *testing.T) {
	ctx := context.Background()
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s := New(WithClock(func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}))
	user := uuid.NewString()
	repo := s.Lists()

	first, err := repo.Create(ctx, user, "Weekly")
	require.NoError(t, err)
	second, err := repo.Create(ctx, user, "Party")
	require.NoError(t, err)
	assert.Equal(t, "previous", first.Status)

	all, err := repo.FindByUserID(ctx, user, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID)

	changed, err := repo.UpdateStatus(ctx, first.ID, "previous", "ongoing")
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = repo.UpdateStatus(ctx, first.ID, "previous", "ongoing")
	require.NoError(t, err)
	assert.False(t, changed)

	ongoing, err := repo.FindByUserID(ctx, user, "ongoing")
	require.NoError(t, err)
	require.Len(t, ongoing, 1)
	assert.Equal(t, first.ID, ongoing[0].ID)
	assert.True(t, ongoing[0].UpdatedAt.After(ongoing[0].CreatedAt))
}

func TestListItemsUpsertAndCascade(t *testing.T) {
	ctx := context.Background()
	s := New()
	p := s.PutProduct(product("Bread", "bakery", "2.50", ""))
	repo := s.Lists()

	list, err := repo.Create(ctx, uuid.NewString(), "Market")
	require.NoError(t, err)

	require.NoError(t, repo.AddItem(ctx, list.ID, p.ID, 3))
	require.NoError(t, repo.AddItem(ctx, list.ID, p.ID, 2))

	items, err := repo.FindItemsByListID(ctx, list.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
	require.NotNil(t, items[0].Product)

	listID, err := repo.UpdateItemQuantity(ctx, items[0].ID, 4)
	require.NoError(t, err)
	assert.Equal(t, list.ID, listID)

	err = repo.AddItem(ctx, uuid.NewString(), p.ID, 1)
	assert.ErrorContains(t, err, "foreign key")

	require.NoError(t, repo.Delete(ctx, list.ID))
	items, err = repo.FindItemsByListID(ctx, list.ID)
	require.NoError(t, err)
	assert.Empty(t, items)

	_, err = repo.RemoveItem(ctx, uuid.NewString())
	var se *apperr.StorageError
	require.ErrorAs(t, err, &se)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestOrdersCreateAndHistory(t *testing.T) {
	ctx := context.Background()
	s := New()
	p := s.PutProduct(product("Coffee", "coffee", "8.00", ""))
	user := uuid.NewString()
	repo := s.Orders()

	order := domain.Order{
		UserID:        user,
		Status:        domain.StatusCompleted,
		PaymentMethod: domain.PaymentPix,
		TotalAmount:   decimal.RequireFromString("16.00"),
		FinalAmount:   decimal.RequireFromString("16.00"),
		Items: []domain.OrderItem{{
			ProductID:  p.ID,
			Quantity:   2,
			UnitPrice:  decimal.RequireFromString("8.00"),
			TotalPrice: decimal.RequireFromString("16.00"),
		}},
	}

	first, err := repo.CreateOrderTx(ctx, order)
	require.NoError(t, err)
	require.NotEmpty(t, first.ID)
	require.Len(t, first.Items, 1)
	assert.Equal(t, first.ID, first.Items[0].OrderID)

	second, err := repo.CreateOrderTx(ctx, order)
	require.NoError(t, err)

	history, err := repo.FindByUserID(ctx, user)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, second.ID, history[0].ID)
	assert.Equal(t, "Coffee", history[0].Items[0].Name)
	assert.Equal(t, "coffee", history[0].Items[0].Category)
}

func TestOrderWithBadLineIsNotStored(t *testing.T) {
	ctx := context.Background()
	s := New()
	p := s.PutProduct(product("Coffee", "coffee", "8.00", ""))
	user := uuid.NewString()

	_, err := s.Orders().CreateOrderTx(ctx, domain.Order{
		UserID: user,
		Items: []domain.OrderItem{
			{ProductID: p.ID, Quantity: 1, UnitPrice: decimal.NewFromInt(8), TotalPrice: decimal.NewFromInt(8)},
			{ProductID: p.ID, Quantity: 2, UnitPrice: decimal.NewFromInt(8), TotalPrice: decimal.NewFromInt(8)},
		},
	})
	assert.ErrorContains(t, err, "line total mismatch")

	history, err := s.Orders().FindByUserID(ctx, user)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestSeedIsStable(t *testing.T) {
	s := New()
	n := s.Seed()
	require.Positive(t, n)

	p, err := s.Products().FindByBarcode(context.Background(), "7891000400401")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, ProductID("7891000400401"), p.ID)

	assert.Equal(t, n, New().Seed())
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().Cart().FindByUserID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, context.Canceled)
}
