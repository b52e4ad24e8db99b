package app

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dwikikusuma/storefront/internal/apperr"
	"github.com/dwikikusuma/storefront/internal/store"
	"github.com/dwikikusuma/storefront/internal/store/memory"
)

type fakeRepo struct {
	products []store.ProductRecord
	err      error
	queries  []string
}

func (f *fakeRepo) FindAll(ctx context.Context) ([]store.ProductRecord, error) {
	f.queries = append(f.queries, "all")
	return f.products, f.err
}

func (f *fakeRepo) FindByID(ctx context.Context, id string) (*store.ProductRecord, error) {
	for _, p := range f.products {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, f.err
}

func (f *fakeRepo) FindByCategory(ctx context.Context, category string) ([]store.ProductRecord, error) {
	f.queries = append(f.queries, "category:"+category)
	var out []store.ProductRecord
	for _, p := range f.products {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out, f.err
}

func (f *fakeRepo) Search(ctx context.Context, query string) ([]store.ProductRecord, error) {
	f.queries = append(f.queries, "search:"+query)
	return f.products[:1], f.err
}

func (f *fakeRepo) FindByBarcode(ctx context.Context, barcode string) (*store.ProductRecord, error) {
	for _, p := range f.products {
		if p.Barcode.String == barcode {
			return &p, nil
		}
	}
	return nil, f.err
}

func (f *fakeRepo) FindAllCategories(ctx context.Context) ([]string, error) {
	return []string{"bakery", "dairy"}, f.err
}

func seeded() *fakeRepo {
	return &fakeRepo{products: []store.ProductRecord{
		{ID: uuid.NewString(), Name: "Bread", Category: "bakery", Price: decimal.RequireFromString("2.50"), Stock: 3,
			Barcode: sql.NullString{String: "789", Valid: true}},
		{ID: uuid.NewString(), Name: "Milk", Category: "dairy", Price: decimal.RequireFromString("1.25")},
	}}
}

func TestSearchProducts(t *testing.T) {
	t.Run("blank query -> full catalog", func(t *testing.T) {
		repo := seeded()
		got, err := NewController(repo).SearchProducts(context.Background(), "   ")
		require.NoError(t, err)
		assert.Len(t, got, 2)
		assert.Equal(t, []string{"all"}, repo.queries)
	})

	t.Run("query is trimmed and forwarded", func(t *testing.T) {
		repo := seeded()
		got, err := NewController(repo).SearchProducts(context.Background(), " bre ")
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Bread", got[0].Name)
		assert.Equal(t, []string{"search:bre"}, repo.queries)
	})
}

func TestGetProductsByCategory(t *testing.T) {
	got, err := NewController(seeded()).GetProductsByCategory(context.Background(), "dairy")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.False(t, got[0].IsInStock())
}

func TestGetProductByID(t *testing.T) {
	repo := seeded()
	ctl := NewController(repo)

	t.Run("found", func(t *testing.T) {
		p, err := ctl.GetProductByID(context.Background(), repo.products[0].ID)
		require.NoError(t, err)
		assert.Equal(t, "Bread", p.Name)
		assert.True(t, p.IsInStock())
	})

	t.Run("missing -> not found", func(t *testing.T) {
		_, err := ctl.GetProductByID(context.Background(), uuid.NewString())
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})

	t.Run("empty id -> invalid", func(t *testing.T) {
		_, err := ctl.GetProductByID(context.Background(), " ")
		assert.ErrorIs(t, err, apperr.ErrInvalidInput)
	})

	t.Run("malformed id -> invalid, store not called", func(t *testing.T) {
		_, err := NewController(memory.New().Products()).GetProductByID(context.Background(), "not-a-uuid")
		assert.ErrorIs(t, err, apperr.ErrInvalidInput)

		var se *apperr.StorageError
		assert.False(t, errors.As(err, &se))
	})
}

func TestGetProductByBarcode(t *testing.T) {
	ctl := NewController(seeded())

	p, err := ctl.GetProductByBarcode(context.Background(), " 789 ")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "Bread", p.Name)

	p, err = ctl.GetProductByBarcode(context.Background(), "000")
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestInvalidRecordSurfacesAsValidationError(t *testing.T) {
	repo := &fakeRepo{products: []store.ProductRecord{
		{ID: uuid.NewString(), Name: "Broken", Price: decimal.NewFromInt(-1)},
	}}
	_, err := NewController(repo).GetAllProducts(context.Background())

	var ve *apperr.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "price", ve.Field)
}

func TestStorageErrorPropagatesUnchanged(t *testing.T) {
	cause := &apperr.StorageError{Collection: store.Products, Op: "find_all_categories", Err: errors.New("connection refused")}
	_, err := NewController(&fakeRepo{err: cause}).GetCategories(context.Background())
	assert.Same(t, cause, err)
}
