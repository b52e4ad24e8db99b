//go:build integration

package postgres

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dwikikusuma/storefront/internal/testinfra"
)

func TestProductRepo(t *testing.T) {
	db := testinfra.Postgres(t)
	ctx := context.Background()
	repo := NewProductRepo(db)

	milkID := testinfra.InsertProduct(t, db, "Milk", "dairy", "1.25", "111", 10)
	testinfra.InsertProduct(t, db, "Apple", "fruit", "0.50", "222", 0)
	testinfra.InsertProduct(t, db, "Butter 50%", "dairy", "2.00", "", 3)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Apple", all[0].Name)

	p, err := repo.FindByID(ctx, milkID)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "1.25", p.Price.StringFixed(2))
	assert.True(t, p.Barcode.Valid)

	none, err := repo.FindByID(ctx, uuid.NewString())
	require.NoError(t, err)
	assert.Nil(t, none)

	dairy, err := repo.FindByCategory(ctx, "dairy")
	require.NoError(t, err)
	assert.Len(t, dairy, 2)

	found, err := repo.Search(ctx, "mIl")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, milkID, found[0].ID)

	literal, err := repo.Search(ctx, "50%")
	require.NoError(t, err)
	require.Len(t, literal, 1)
	assert.Equal(t, "Butter 50%", literal[0].Name)

	byCode, err := repo.FindByBarcode(ctx, "222")
	require.NoError(t, err)
	require.NotNil(t, byCode)
	assert.Equal(t, "Apple", byCode.Name)

	cats, err := repo.FindAllCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"dairy", "fruit"}, cats)
}
