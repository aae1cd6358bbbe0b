package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/mrriyous/storefront-backend/pkg/config"
	"github.com/mrriyous/storefront-backend/pkg/db/models"
	"github.com/mrriyous/storefront-backend/pkg/logger"
	"github.com/mrriyous/storefront-backend/pkg/mailer"
)

const lowStockJobName = "low_stock_scan"

type productScanner interface {
	FindNeedingLowStockAlert(ctx context.Context, threshold int, notifiedBefore time.Time) ([]models.Product, error)
	StampLowNotification(ctx context.Context, productID uuid.UUID, at time.Time) error
}

type lowStockTracker interface {
	BeginLowStock(ctx context.Context, product models.Product) (*models.ProductLowStockNotifProcess, error)
	MarkLowStockSent(ctx context.Context, id uuid.UUID) error
	MarkLowStockFailed(ctx context.Context, id uuid.UUID, sendErr error) error
}

type templateRenderer interface {
	Render(name string, data any) (string, error)
}

// LowStockJobParams are the collaborators for the low-stock scan.
type LowStockJobParams struct {
	Logger   *logger.Logger
	Products productScanner
	Tracker  lowStockTracker
	Sender   mailer.Sender
	Renderer templateRenderer
	Store    config.StoreConfig
	Now      func() time.Time
}

// LowStockJob scans for products under the stock threshold and emails the
// admin one alert per product, at most once per renotify window.
type LowStockJob struct {
	logg     *logger.Logger
	products productScanner
	tracker  lowStockTracker
	sender   mailer.Sender
	renderer templateRenderer
	store    config.StoreConfig
	now      func() time.Time
}

// NewLowStockJob builds the low-stock scan job.
func NewLowStockJob(params LowStockJobParams) (*LowStockJob, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Products == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if params.Tracker == nil {
		return nil, fmt.Errorf("notification tracker required")
	}
	if params.Sender == nil {
		return nil, fmt.Errorf("mail sender required")
	}
	if params.Renderer == nil {
		return nil, fmt.Errorf("template renderer required")
	}
	if params.Store.AdminEmail == "" {
		return nil, fmt.Errorf("admin email required")
	}
	if params.Now == nil {
		params.Now = time.Now
	}
	return &LowStockJob{
		logg:     params.Logger,
		products: params.Products,
		tracker:  params.Tracker,
		sender:   params.Sender,
		renderer: params.Renderer,
		store:    params.Store,
		now:      params.Now,
	}, nil
}

func (j *LowStockJob) Name() string { return lowStockJobName }

// Run alerts on every product currently under the threshold whose last alert
// is older than the renotify window. One failing product does not stop the
// rest of the batch.
func (j *LowStockJob) Run(ctx context.Context) error {
	now := j.now()
	cutoff := now.Add(-j.store.LowStockRenotifyAfter)

	products, err := j.products.FindNeedingLowStockAlert(ctx, j.store.LowStockThreshold, cutoff)
	if err != nil {
		return fmt.Errorf("scanning products: %w", err)
	}
	if len(products) == 0 {
		return nil
	}

	logCtx := j.logg.WithField(ctx, "count", len(products))
	j.logg.Info(logCtx, "low stock products found")

	var errs error
	for _, product := range products {
		if err := j.notify(ctx, product, now); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("product %s: %w", product.ID, err))
		}
	}
	return errs
}

type lowStockEmailData struct {
	ProductName   string
	SKU           string
	StockQuantity int
}

func (j *LowStockJob) notify(ctx context.Context, product models.Product, now time.Time) error {
	row, err := j.tracker.BeginLowStock(ctx, product)
	if err != nil {
		return fmt.Errorf("opening audit row: %w", err)
	}

	sku := ""
	if product.SKU != nil {
		sku = *product.SKU
	}
	body, err := j.renderer.Render("low_stock.html", lowStockEmailData{
		ProductName:   product.Name,
		SKU:           sku,
		StockQuantity: product.StockQuantity,
	})
	if err != nil {
		j.recordFailure(ctx, row.ID, err)
		return err
	}

	msg := mailer.Message{
		To:      j.store.AdminEmail,
		Subject: fmt.Sprintf("Low stock alert: %s", product.Name),
		Body:    body,
	}
	if err := j.sender.Send(ctx, msg); err != nil {
		j.recordFailure(ctx, row.ID, err)
		return err
	}

	if err := j.tracker.MarkLowStockSent(ctx, row.ID); err != nil {
		return fmt.Errorf("marking sent: %w", err)
	}
	// The stamp only moves after a successful send, so a failed product is
	// retried on the next scan.
	if err := j.products.StampLowNotification(ctx, product.ID, now); err != nil {
		return fmt.Errorf("stamping product: %w", err)
	}
	return nil
}

func (j *LowStockJob) recordFailure(ctx context.Context, id uuid.UUID, cause error) {
	if err := j.tracker.MarkLowStockFailed(ctx, id, cause); err != nil {
		j.logg.Error(ctx, "failed to record alert failure", err)
	}
}
