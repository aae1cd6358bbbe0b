package inventory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mrriyous/storefront-backend/pkg/db/models"
)

func setupInventoryTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	products := `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  category_id TEXT,
  name TEXT NOT NULL,
  slug TEXT NOT NULL,
  description TEXT,
  sku TEXT,
  price NUMERIC NOT NULL,
  image TEXT,
  stock_quantity INTEGER NOT NULL DEFAULT 0,
  low_notification_sent_at DATETIME,
  is_active INTEGER NOT NULL DEFAULT 1,
  is_featured INTEGER NOT NULL DEFAULT 0,
  sort_order INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME,
  deleted_at DATETIME
);`
	require.NoError(t, db.Exec(products).Error)
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, stock int) models.Product {
	t.Helper()
	product := models.Product{
		ID:            uuid.New(),
		Name:          "Widget",
		Slug:          "widget-" + uuid.NewString(),
		Price:         decimal.RequireFromString("20.00"),
		StockQuantity: stock,
		IsActive:      true,
	}
	require.NoError(t, db.Create(&product).Error)
	return product
}

func TestReduceStockDebitsWhenSufficient(t *testing.T) {
	db := setupInventoryTestDB(t)
	product := seedProduct(t, db, 5)

	require.NoError(t, ReduceStock(context.Background(), db, product.ID, 3))

	var got models.Product
	require.NoError(t, db.First(&got, "id = ?", product.ID).Error)
	assert.Equal(t, 2, got.StockQuantity)
}

func TestReduceStockRejectsWhenInsufficient(t *testing.T) {
	db := setupInventoryTestDB(t)
	product := seedProduct(t, db, 2)

	err := ReduceStock(context.Background(), db, product.ID, 3)
	require.Error(t, err)

	var insufficient *InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, product.ID, insufficient.ProductID)
	assert.Equal(t, 3, insufficient.Requested)

	var got models.Product
	require.NoError(t, db.First(&got, "id = ?", product.ID).Error)
	assert.Equal(t, 2, got.StockQuantity, "failed debit must not change stock")
}

func TestReduceStockRejectsNonPositiveQuantity(t *testing.T) {
	db := setupInventoryTestDB(t)
	product := seedProduct(t, db, 5)

	require.Error(t, ReduceStock(context.Background(), db, product.ID, 0))
	require.Error(t, ReduceStock(context.Background(), db, product.ID, -1))
}

func TestIncreaseStockCredits(t *testing.T) {
	db := setupInventoryTestDB(t)
	product := seedProduct(t, db, 1)

	require.NoError(t, IncreaseStock(context.Background(), db, product.ID, 4))

	var got models.Product
	require.NoError(t, db.First(&got, "id = ?", product.ID).Error)
	assert.Equal(t, 5, got.StockQuantity)
}

func TestIncreaseStockUnknownProduct(t *testing.T) {
	db := setupInventoryTestDB(t)

	err := IncreaseStock(context.Background(), db, uuid.New(), 1)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestHasLowStock(t *testing.T) {
	cases := []struct {
		name      string
		stock     int
		threshold int
		want      bool
	}{
		{name: "sold out is not low", stock: 0, threshold: 10, want: false},
		{name: "one unit is low", stock: 1, threshold: 10, want: true},
		{name: "just under threshold", stock: 9, threshold: 10, want: true},
		{name: "at threshold", stock: 10, threshold: 10, want: false},
		{name: "above threshold", stock: 50, threshold: 10, want: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			product := models.Product{StockQuantity: tc.stock}
			assert.Equal(t, tc.want, HasLowStock(product, tc.threshold))
		})
	}
}
