package transactions

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mrriyous/storefront-backend/pkg/db/models"
	"github.com/mrriyous/storefront-backend/pkg/enums"
	"github.com/mrriyous/storefront-backend/pkg/pagination"
)

func setupTransactionsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{`
CREATE TABLE IF NOT EXISTS transactions (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  transaction_number TEXT NOT NULL,
  recipient_name TEXT NOT NULL,
  phone_number TEXT NOT NULL,
  address TEXT NOT NULL,
  city TEXT NOT NULL,
  postal_code TEXT NOT NULL,
  notes TEXT,
  subtotal NUMERIC NOT NULL,
  delivery_fee NUMERIC NOT NULL,
  total NUMERIC NOT NULL,
  status TEXT NOT NULL DEFAULT 'completed',
  created_at DATETIME,
  updated_at DATETIME,
  deleted_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS transaction_items (
  id TEXT PRIMARY KEY,
  transaction_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  product_name TEXT NOT NULL,
  product_image TEXT,
  price_at_time NUMERIC NOT NULL,
  quantity INTEGER NOT NULL,
  total_price NUMERIC NOT NULL,
  created_at DATETIME,
  updated_at DATETIME,
  deleted_at DATETIME
);`}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func seedTransaction(t *testing.T, db *gorm.DB, userID uuid.UUID, number string, createdAt time.Time) models.Transaction {
	t.Helper()
	record := models.Transaction{
		ID:                uuid.New(),
		UserID:            userID,
		TransactionNumber: number,
		RecipientName:     "Jamie Doe",
		PhoneNumber:       "555-0100",
		Address:           "1 Main St",
		City:              "Springfield",
		PostalCode:        "12345",
		Subtotal:          decimal.RequireFromString("60.00"),
		DeliveryFee:       decimal.RequireFromString("25.00"),
		Total:             decimal.RequireFromString("85.00"),
		Status:            enums.TransactionCompleted,
		CreatedAt:         createdAt,
	}
	require.NoError(t, db.Create(&record).Error)

	item := models.TransactionItem{
		ID:            uuid.New(),
		TransactionID: record.ID,
		ProductID:     uuid.New(),
		ProductName:   "Product X",
		PriceAtTime:   decimal.RequireFromString("20.00"),
		Quantity:      3,
		TotalPrice:    decimal.RequireFromString("60.00"),
	}
	require.NoError(t, db.Create(&item).Error)
	return record
}

func TestFindByNumberForUserScopesToOwner(t *testing.T) {
	db := setupTransactionsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	owner := uuid.New()
	number := "TX-" + uuid.NewString()[:8]
	seedTransaction(t, db, owner, number, time.Now())

	got, err := repo.FindByNumberForUser(ctx, number, owner)
	require.NoError(t, err)
	assert.Equal(t, number, got.TransactionNumber)
	assert.Len(t, got.Items, 1)

	_, err = repo.FindByNumberForUser(ctx, number, uuid.New())
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestListByUserPaginatesNewestFirst(t *testing.T) {
	db := setupTransactionsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		seedTransaction(t, db, userID, "TX-"+uuid.NewString()[:8], base.Add(time.Duration(i)*time.Minute))
	}

	first, next, err := repo.ListByUser(ctx, userID, pagination.Params{Limit: 3})
	require.NoError(t, err)
	require.Len(t, first, 3)
	require.NotEmpty(t, next, "more rows remain, cursor expected")
	assert.True(t, first[0].CreatedAt.After(first[2].CreatedAt), "newest first")

	second, next, err := repo.ListByUser(ctx, userID, pagination.Params{Limit: 3, Cursor: next})
	require.NoError(t, err)
	require.Len(t, second, 2)
	assert.Empty(t, next, "last page carries no cursor")

	seen := map[uuid.UUID]bool{}
	for _, record := range append(first, second...) {
		assert.False(t, seen[record.ID], "no duplicates across pages")
		seen[record.ID] = true
	}
}

func TestFindBetweenWithItemsHonorsWindow(t *testing.T) {
	db := setupTransactionsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	dayStart := time.Date(2025, 8, 30, 0, 0, 0, 0, time.UTC)
	inside := seedTransaction(t, db, userID, "TX-"+uuid.NewString()[:8], dayStart.Add(10*time.Hour))
	seedTransaction(t, db, userID, "TX-"+uuid.NewString()[:8], dayStart.Add(-time.Minute))
	seedTransaction(t, db, userID, "TX-"+uuid.NewString()[:8], dayStart.Add(24*time.Hour))

	records, err := repo.FindBetweenWithItems(ctx, dayStart, dayStart.Add(24*time.Hour))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, inside.ID, records[0].ID)
	assert.Len(t, records[0].Items, 1)
}
