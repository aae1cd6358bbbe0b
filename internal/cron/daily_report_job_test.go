package cron

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrriyous/storefront-backend/pkg/db/models"
	"github.com/mrriyous/storefront-backend/pkg/mailer"
)

type stubTransactionSource struct {
	txns []models.Transaction
	from time.Time
	to   time.Time
}

func (s *stubTransactionSource) FindBetweenWithItems(_ context.Context, from, to time.Time) ([]models.Transaction, error) {
	s.from = from
	s.to = to
	return s.txns, nil
}

type stubReportTracker struct {
	rows   []*models.TransactionReportNotifProcess
	sent   []uuid.UUID
	failed []uuid.UUID
}

func (s *stubReportTracker) BeginReport(_ context.Context, row *models.TransactionReportNotifProcess) error {
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	s.rows = append(s.rows, row)
	return nil
}

func (s *stubReportTracker) MarkReportSent(_ context.Context, id uuid.UUID) error {
	s.sent = append(s.sent, id)
	return nil
}

func (s *stubReportTracker) MarkReportFailed(_ context.Context, id uuid.UUID, _ error) error {
	s.failed = append(s.failed, id)
	return nil
}

func reportTransaction(total string, items ...models.TransactionItem) models.Transaction {
	return models.Transaction{
		ID:    uuid.New(),
		Total: decimal.RequireFromString(total),
		Items: items,
	}
}

func reportItem(name, price string, qty int) models.TransactionItem {
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

func newDailyReportJob(t *testing.T, params DailyReportJobParams) *DailyReportJob {
	t.Helper()
	if params.Logger == nil {
		params.Logger = testLogger()
	}
	if params.Store.AdminEmail == "" {
		params.Store = testStoreConfig()
	}
	job, err := NewDailyReportJob(params)
	require.NoError(t, err)
	return job
}

func TestDailyReportJobSendsRollup(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 8, 30, 23, 0, 0, 0, time.UTC)
	source := &stubTransactionSource{txns: []models.Transaction{
		reportTransaction("45.00", reportItem("Product A", "10.00", 2)),
		reportTransaction("30.00", reportItem("Product B", "5.00", 1)),
	}}
	tracker := &stubReportTracker{}
	sender := &stubSender{}
	renderer := &stubRenderer{}

	job := newDailyReportJob(t, DailyReportJobParams{
		Transactions: source,
		Tracker:      tracker,
		Sender:       sender,
		Renderer:     renderer,
		Now:          func() time.Time { return now },
	})

	require.NoError(t, job.Run(context.Background()))

	// The window is the full local calendar day.
	assert.Equal(t, time.Date(2025, 8, 30, 0, 0, 0, 0, time.UTC), source.from)
	assert.Equal(t, time.Date(2025, 8, 31, 0, 0, 0, 0, time.UTC), source.to)

	require.Len(t, tracker.rows, 1)
	row := tracker.rows[0]
	assert.Equal(t, "75.00", row.TotalSales)
	assert.Equal(t, 3, row.TotalItems)
	assert.Equal(t, 2, row.TransactionCount)
	assert.Contains(t, string(row.Payload), "Product A")

	require.Len(t, sender.messages, 1)
	assert.Equal(t, "admin@example.com", sender.messages[0].To)
	assert.Equal(t, "Daily Sales Report - 2025-08-30", sender.messages[0].Subject)

	data, ok := renderer.last.(reportEmailData)
	require.True(t, ok)
	assert.Equal(t, "2025-08-30", data.Date)
	assert.Equal(t, "75.00", data.TotalSales)

	require.Len(t, tracker.sent, 1)
	assert.Equal(t, row.ID, tracker.sent[0])
	assert.Empty(t, tracker.failed)
}

func TestDailyReportJobSkipsEmptyDay(t *testing.T) {
	t.Parallel()

	source := &stubTransactionSource{}
	tracker := &stubReportTracker{}
	sender := &stubSender{}

	job := newDailyReportJob(t, DailyReportJobParams{
		Transactions: source,
		Tracker:      tracker,
		Sender:       sender,
		Renderer:     &stubRenderer{},
	})

	require.NoError(t, job.Run(context.Background()))
	assert.Empty(t, tracker.rows)
	assert.Empty(t, sender.messages)
}

func TestDailyReportJobRecordsFailedSend(t *testing.T) {
	t.Parallel()

	source := &stubTransactionSource{txns: []models.Transaction{
		reportTransaction("45.00", reportItem("Product A", "10.00", 2)),
	}}
	tracker := &stubReportTracker{}
	sender := &stubSender{failWhen: func(mailer.Message) error { return fmt.Errorf("smtp refused") }}

	job := newDailyReportJob(t, DailyReportJobParams{
		Transactions: source,
		Tracker:      tracker,
		Sender:       sender,
		Renderer:     &stubRenderer{},
	})

	require.Error(t, job.Run(context.Background()))

	// The audit row exists with the compiled numbers even though delivery
	// failed.
	require.Len(t, tracker.rows, 1)
	require.Len(t, tracker.failed, 1)
	assert.Equal(t, tracker.rows[0].ID, tracker.failed[0])
	assert.Empty(t, tracker.sent)
}
