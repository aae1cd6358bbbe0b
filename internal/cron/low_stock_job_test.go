package cron

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrriyous/storefront-backend/pkg/config"
	"github.com/mrriyous/storefront-backend/pkg/db/models"
	"github.com/mrriyous/storefront-backend/pkg/logger"
	"github.com/mrriyous/storefront-backend/pkg/mailer"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func testStoreConfig() config.StoreConfig {
	return config.StoreConfig{
		LowStockThreshold:     10,
		LowStockRenotifyAfter: 72 * time.Hour,
		AdminEmail:            "admin@example.com",
	}
}

type stubScanner struct {
	products  []models.Product
	scanErr   error
	threshold int
	cutoff    time.Time
	stamped   map[uuid.UUID]time.Time
}

func (s *stubScanner) FindNeedingLowStockAlert(_ context.Context, threshold int, notifiedBefore time.Time) ([]models.Product, error) {
	s.threshold = threshold
	s.cutoff = notifiedBefore
	return s.products, s.scanErr
}

func (s *stubScanner) StampLowNotification(_ context.Context, productID uuid.UUID, at time.Time) error {
	if s.stamped == nil {
		s.stamped = map[uuid.UUID]time.Time{}
	}
	s.stamped[productID] = at
	return nil
}

type stubLowStockTracker struct {
	rows   []*models.ProductLowStockNotifProcess
	sent   []uuid.UUID
	failed []uuid.UUID
}

func (s *stubLowStockTracker) BeginLowStock(_ context.Context, product models.Product) (*models.ProductLowStockNotifProcess, error) {
	row := &models.ProductLowStockNotifProcess{
		ID:           uuid.New(),
		ProductID:    product.ID,
		ProductName:  product.Name,
		StockAtCheck: product.StockQuantity,
	}
	s.rows = append(s.rows, row)
	return row, nil
}

func (s *stubLowStockTracker) MarkLowStockSent(_ context.Context, id uuid.UUID) error {
	s.sent = append(s.sent, id)
	return nil
}

func (s *stubLowStockTracker) MarkLowStockFailed(_ context.Context, id uuid.UUID, _ error) error {
	s.failed = append(s.failed, id)
	return nil
}

type stubSender struct {
	messages []mailer.Message
	failWhen func(msg mailer.Message) error
}

func (s *stubSender) Send(_ context.Context, msg mailer.Message) error {
	if s.failWhen != nil {
		if err := s.failWhen(msg); err != nil {
			return err
		}
	}
	s.messages = append(s.messages, msg)
	return nil
}

type stubRenderer struct {
	err  error
	last any
}

func (s *stubRenderer) Render(_ string, data any) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.last = data
	return "<html>rendered</html>", nil
}

func lowStockProduct(name string, stock int) models.Product {
	sku := "SKU-" + name
	return models.Product{
		ID:            uuid.New(),
		Name:          name,
		Slug:          name,
		SKU:           &sku,
		Price:         decimal.RequireFromString("10.00"),
		StockQuantity: stock,
		IsActive:      true,
	}
}

func newLowStockJob(t *testing.T, params LowStockJobParams) *LowStockJob {
	t.Helper()
	if params.Logger == nil {
		params.Logger = testLogger()
	}
	if params.Store.AdminEmail == "" {
		params.Store = testStoreConfig()
	}
	job, err := NewLowStockJob(params)
	require.NoError(t, err)
	return job
}

func TestLowStockJobAlertsAndStamps(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 8, 30, 12, 0, 0, 0, time.UTC)
	first := lowStockProduct("Mug", 3)
	second := lowStockProduct("Bowl", 7)
	scanner := &stubScanner{products: []models.Product{first, second}}
	tracker := &stubLowStockTracker{}
	sender := &stubSender{}

	job := newLowStockJob(t, LowStockJobParams{
		Products: scanner,
		Tracker:  tracker,
		Sender:   sender,
		Renderer: &stubRenderer{},
		Now:      func() time.Time { return now },
	})

	require.NoError(t, job.Run(context.Background()))

	assert.Equal(t, 10, scanner.threshold)
	assert.Equal(t, now.Add(-72*time.Hour), scanner.cutoff)

	require.Len(t, sender.messages, 2)
	assert.Equal(t, "admin@example.com", sender.messages[0].To)
	assert.Contains(t, sender.messages[0].Subject, "Mug")

	require.Len(t, tracker.sent, 2)
	assert.Empty(t, tracker.failed)
	assert.Equal(t, now, scanner.stamped[first.ID])
	assert.Equal(t, now, scanner.stamped[second.ID])
}

func TestLowStockJobNothingUnderThreshold(t *testing.T) {
	t.Parallel()

	scanner := &stubScanner{}
	sender := &stubSender{}
	job := newLowStockJob(t, LowStockJobParams{
		Products: scanner,
		Tracker:  &stubLowStockTracker{},
		Sender:   sender,
		Renderer: &stubRenderer{},
	})

	require.NoError(t, job.Run(context.Background()))
	assert.Empty(t, sender.messages)
}

func TestLowStockJobContinuesPastFailedSend(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 8, 30, 12, 0, 0, 0, time.UTC)
	broken := lowStockProduct("Mug", 3)
	healthy := lowStockProduct("Bowl", 7)
	scanner := &stubScanner{products: []models.Product{broken, healthy}}
	tracker := &stubLowStockTracker{}
	sender := &stubSender{
		failWhen: func(msg mailer.Message) error {
			if msg.Subject == "Low stock alert: Mug" {
				return fmt.Errorf("smtp refused")
			}
			return nil
		},
	}

	job := newLowStockJob(t, LowStockJobParams{
		Products: scanner,
		Tracker:  tracker,
		Sender:   sender,
		Renderer: &stubRenderer{},
		Now:      func() time.Time { return now },
	})

	err := job.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), broken.ID.String())

	// The failure is recorded and the product keeps its old stamp, so the
	// next scan retries it. The healthy product still went out.
	require.Len(t, tracker.failed, 1)
	require.Len(t, tracker.sent, 1)
	_, stampedBroken := scanner.stamped[broken.ID]
	assert.False(t, stampedBroken)
	assert.Equal(t, now, scanner.stamped[healthy.ID])
}

func TestLowStockJobRenderFailureIsRecorded(t *testing.T) {
	t.Parallel()

	product := lowStockProduct("Mug", 3)
	scanner := &stubScanner{products: []models.Product{product}}
	tracker := &stubLowStockTracker{}
	sender := &stubSender{}

	job := newLowStockJob(t, LowStockJobParams{
		Products: scanner,
		Tracker:  tracker,
		Sender:   sender,
		Renderer: &stubRenderer{err: fmt.Errorf("bad template")},
	})

	require.Error(t, job.Run(context.Background()))
	assert.Empty(t, sender.messages)
	require.Len(t, tracker.failed, 1)
	assert.Empty(t, scanner.stamped)
}
