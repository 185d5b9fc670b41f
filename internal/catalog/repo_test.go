package catalog

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/shopcart-app/shopcart-backend/pkg/db/models"
	pkgerrors "github.com/shopcart-app/shopcart-backend/pkg/errors"
	"github.com/shopcart-app/shopcart-backend/pkg/pagination"
)

func setupCatalogTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  seller_id TEXT NOT NULL,
  sku TEXT NOT NULL,
  title TEXT NOT NULL,
  description TEXT,
  price_cents INTEGER NOT NULL,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(schema).Error)
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, sellerID uuid.UUID, priceCents int, active bool, created time.Time) *models.Product {
	t.Helper()
	product := &models.Product{
		ID:         uuid.New(),
		SellerID:   sellerID,
		SKU:        fmt.Sprintf("sku-%s", uuid.NewString()[:8]),
		Title:      "Test Listing",
		PriceCents: priceCents,
		IsActive:   active,
		CreatedAt:  created,
		UpdatedAt:  created,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func TestRepositoryGetItem(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	sellerID := uuid.New()
	active := seedProduct(t, db, sellerID, 79900, true, time.Now().UTC())
	inactive := seedProduct(t, db, sellerID, 19900, false, time.Now().UTC())

	got, err := repo.GetItem(ctx, active.ID)
	require.NoError(t, err)
	assert.Equal(t, active.ID, got.ID)
	assert.Equal(t, 79900, got.PriceCents)
	assert.Equal(t, sellerID, got.SellerID)

	_, err = repo.GetItem(ctx, inactive.ID)
	require.Error(t, err)
	require.NotNil(t, pkgerrors.As(err))
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code(), "inactive listing reads as not found")

	_, err = repo.GetItem(ctx, uuid.New())
	require.Error(t, err)
	require.NotNil(t, pkgerrors.As(err))
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestRepositoryUpdateProduct(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	product := seedProduct(t, db, uuid.New(), 5000, true, time.Now().UTC())

	require.NoError(t, repo.UpdateProduct(ctx, product.ID, map[string]any{"price_cents": 6000, "is_active": false}))

	var reloaded models.Product
	require.NoError(t, db.Where("id = ?", product.ID).First(&reloaded).Error)
	assert.Equal(t, 6000, reloaded.PriceCents)
	assert.False(t, reloaded.IsActive)

	err := repo.UpdateProduct(ctx, uuid.New(), map[string]any{"price_cents": 1})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryListSellerProducts_pagination(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	sellerID := uuid.New()
	now := time.Now().UTC()
	older := seedProduct(t, db, sellerID, 1000, true, now.Add(-time.Hour))
	newer := seedProduct(t, db, sellerID, 2000, true, now)
	seedProduct(t, db, uuid.New(), 3000, true, now)

	list, err := repo.ListSellerProducts(ctx, sellerID, pagination.Params{Limit: 1})
	require.NoError(t, err)
	require.Len(t, list.Products, 1)
	assert.Equal(t, newer.ID, list.Products[0].ID)
	assert.NotEmpty(t, list.NextCursor)

	second, err := repo.ListSellerProducts(ctx, sellerID, pagination.Params{Limit: 1, Cursor: list.NextCursor})
	require.NoError(t, err)
	require.Len(t, second.Products, 1)
	assert.Equal(t, older.ID, second.Products[0].ID)
	assert.Empty(t, second.NextCursor)
}
