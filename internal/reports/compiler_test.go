package reports

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrriyous/storefront-backend/pkg/db/models"
)

func item(name, price string, qty int) models.TransactionItem {
	unit := decimal.RequireFromString(price)
	return models.TransactionItem{
		ID:          uuid.New(),
		ProductID:   uuid.New(),
		ProductName: name,
		PriceAtTime: unit,
		Quantity:    qty,
		TotalPrice:  unit.Mul(decimal.NewFromInt(int64(qty))),
	}
}

func txnWith(items ...models.TransactionItem) models.Transaction {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.TotalPrice)
	}
	return models.Transaction{
		ID:    uuid.New(),
		Items: items,
		Total: total,
	}
}

func TestCompileRollsUpByProductName(t *testing.T) {
	t.Parallel()

	day := time.Date(2025, 8, 30, 0, 0, 0, 0, time.UTC)
	txns := []models.Transaction{
		txnWith(item("Product A", "10.00", 2)),
		txnWith(item("Product A", "10.00", 1), item("Product B", "5.00", 1)),
	}

	report := Compile(day, txns)

	require.Len(t, report.Products, 2)

	productA := report.Products[0]
	assert.Equal(t, "Product A", productA.ProductName)
	assert.Equal(t, 3, productA.Quantity)
	assert.True(t, productA.Revenue.Equal(decimal.RequireFromString("30.00")))
	assert.True(t, productA.AverageUnitPrice.Equal(decimal.RequireFromString("10.00")))

	productB := report.Products[1]
	assert.Equal(t, "Product B", productB.ProductName)
	assert.Equal(t, 1, productB.Quantity)
	assert.True(t, productB.Revenue.Equal(decimal.RequireFromString("5.00")))
	assert.True(t, productB.AverageUnitPrice.Equal(decimal.RequireFromString("5.00")))

	assert.Equal(t, 4, report.TotalItems)
	assert.Equal(t, 2, report.TransactionCount)
	assert.True(t, report.TotalSales.Equal(decimal.RequireFromString("35.00")))
}

func TestCompileEmptyDay(t *testing.T) {
	t.Parallel()

	report := Compile(time.Now(), nil)
	assert.True(t, report.Empty())
	assert.Empty(t, report.Products)
	assert.Zero(t, report.TotalItems)
	assert.True(t, report.TotalSales.IsZero())
}

func TestCompileAveragesDifferingUnitPrices(t *testing.T) {
	t.Parallel()

	// Two lines at different snapshots: avg is over line prices, not units.
	txns := []models.Transaction{
		txnWith(item("Product C", "10.00", 1)),
		txnWith(item("Product C", "20.00", 3)),
	}

	report := Compile(time.Now(), txns)
	require.Len(t, report.Products, 1)
	rollup := report.Products[0]
	assert.Equal(t, 4, rollup.Quantity)
	assert.True(t, rollup.Revenue.Equal(decimal.RequireFromString("70.00")))
	assert.True(t, rollup.AverageUnitPrice.Equal(decimal.RequireFromString("15.00")))
}

func TestMarshalPayloadRoundTrips(t *testing.T) {
	t.Parallel()

	report := Compile(time.Date(2025, 8, 30, 0, 0, 0, 0, time.UTC), []models.Transaction{
		txnWith(item("Product A", "10.00", 2)),
	})

	payload, err := report.MarshalPayload()
	require.NoError(t, err)
	assert.Contains(t, string(payload), "Product A")
	assert.Contains(t, string(payload), "transaction_count")
}
