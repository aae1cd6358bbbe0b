package notifications

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mrriyous/storefront-backend/pkg/db/models"
	"github.com/mrriyous/storefront-backend/pkg/enums"
)

func setupNotifTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{`
CREATE TABLE IF NOT EXISTS product_low_stock_notif_processes (
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL,
  product_name TEXT NOT NULL,
  stock_at_check INTEGER NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  error_message TEXT,
  created_at DATETIME,
  updated_at DATETIME,
  deleted_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS transaction_report_notif_processes (
  id TEXT PRIMARY KEY,
  report_date DATETIME NOT NULL,
  payload BLOB NOT NULL,
  total_sales TEXT NOT NULL,
  total_items INTEGER NOT NULL,
  transaction_count INTEGER NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  error_message TEXT,
  created_at DATETIME,
  updated_at DATETIME,
  deleted_at DATETIME
);`}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func TestLowStockTrackerLifecycle(t *testing.T) {
	db := setupNotifTestDB(t)
	svc, err := NewService(NewRepository(db))
	require.NoError(t, err)
	ctx := context.Background()

	product := models.Product{ID: uuid.New(), Name: "Widget", StockQuantity: 3}
	row, err := svc.BeginLowStock(ctx, product)
	require.NoError(t, err)
	assert.Equal(t, enums.NotifProcessPending, row.Status)
	assert.Equal(t, 3, row.StockAtCheck)

	require.NoError(t, svc.MarkLowStockSent(ctx, row.ID))

	var got models.ProductLowStockNotifProcess
	require.NoError(t, db.First(&got, "id = ?", row.ID).Error)
	assert.Equal(t, enums.NotifProcessSent, got.Status)
	assert.Nil(t, got.ErrorMessage)
}

func TestLowStockTrackerRecordsFailure(t *testing.T) {
	db := setupNotifTestDB(t)
	svc, err := NewService(NewRepository(db))
	require.NoError(t, err)
	ctx := context.Background()

	product := models.Product{ID: uuid.New(), Name: "Widget", StockQuantity: 2}
	row, err := svc.BeginLowStock(ctx, product)
	require.NoError(t, err)

	require.NoError(t, svc.MarkLowStockFailed(ctx, row.ID, errors.New("smtp: connection refused")))

	var got models.ProductLowStockNotifProcess
	require.NoError(t, db.First(&got, "id = ?", row.ID).Error)
	assert.Equal(t, enums.NotifProcessFailed, got.Status)
	require.NotNil(t, got.ErrorMessage)
	assert.Contains(t, *got.ErrorMessage, "connection refused")
}

func TestReportTrackerLifecycle(t *testing.T) {
	db := setupNotifTestDB(t)
	svc, err := NewService(NewRepository(db))
	require.NoError(t, err)
	ctx := context.Background()

	row := &models.TransactionReportNotifProcess{
		ReportDate:       time.Date(2025, 8, 30, 0, 0, 0, 0, time.UTC),
		Payload:          []byte(`{"products":[]}`),
		TotalSales:       "35.00",
		TotalItems:       4,
		TransactionCount: 2,
	}
	require.NoError(t, svc.BeginReport(ctx, row))
	assert.NotEqual(t, uuid.Nil, row.ID)
	assert.Equal(t, enums.NotifProcessPending, row.Status)

	require.NoError(t, svc.MarkReportSent(ctx, row.ID))

	var got models.TransactionReportNotifProcess
	require.NoError(t, db.First(&got, "id = ?", row.ID).Error)
	assert.Equal(t, enums.NotifProcessSent, got.Status)
	assert.Equal(t, "35.00", got.TotalSales)
	assert.JSONEq(t, `{"products":[]}`, string(got.Payload))
}
