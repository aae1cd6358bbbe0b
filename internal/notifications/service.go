package notifications

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/mrriyous/storefront-backend/pkg/db/models"
	"github.com/mrriyous/storefront-backend/pkg/enums"
)

type trackerStore interface {
	CreateLowStock(ctx context.Context, row *models.ProductLowStockNotifProcess) error
	UpdateLowStockStatus(ctx context.Context, id uuid.UUID, status enums.NotifProcessStatus, errorMessage *string) error
	CreateReport(ctx context.Context, row *models.TransactionReportNotifProcess) error
	UpdateReportStatus(ctx context.Context, id uuid.UUID, status enums.NotifProcessStatus, errorMessage *string) error
}

// Service records notification attempts and their outcomes. Rows are audit
// data only; nothing here gates whether a notification is re-sent.
type Service struct {
	repo trackerStore
}

// NewService builds the notification tracker service.
func NewService(repo trackerStore) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("tracker repository required")
	}
	return &Service{repo: repo}, nil
}

// BeginLowStock opens a pending audit row for one product alert.
func (s *Service) BeginLowStock(ctx context.Context, product models.Product) (*models.ProductLowStockNotifProcess, error) {
	row := &models.ProductLowStockNotifProcess{
		ID:           uuid.New(),
		ProductID:    product.ID,
		ProductName:  product.Name,
		StockAtCheck: product.StockQuantity,
		Status:       enums.NotifProcessPending,
	}
	if err := s.repo.CreateLowStock(ctx, row); err != nil {
		return nil, err
	}
	return row, nil
}

// MarkLowStockSent records a successful alert.
func (s *Service) MarkLowStockSent(ctx context.Context, id uuid.UUID) error {
	return s.repo.UpdateLowStockStatus(ctx, id, enums.NotifProcessSent, nil)
}

// MarkLowStockFailed records a failed alert with the error detail.
func (s *Service) MarkLowStockFailed(ctx context.Context, id uuid.UUID, sendErr error) error {
	msg := errorMessage(sendErr)
	return s.repo.UpdateLowStockStatus(ctx, id, enums.NotifProcessFailed, &msg)
}

// BeginReport opens a pending audit row carrying the compiled payload, so the
// day's numbers survive even when the send fails.
func (s *Service) BeginReport(ctx context.Context, row *models.TransactionReportNotifProcess) error {
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	row.Status = enums.NotifProcessPending
	return s.repo.CreateReport(ctx, row)
}

// MarkReportSent records a successful report delivery.
func (s *Service) MarkReportSent(ctx context.Context, id uuid.UUID) error {
	return s.repo.UpdateReportStatus(ctx, id, enums.NotifProcessSent, nil)
}

// MarkReportFailed records a failed report delivery with the error detail.
func (s *Service) MarkReportFailed(ctx context.Context, id uuid.UUID, sendErr error) error {
	msg := errorMessage(sendErr)
	return s.repo.UpdateReportStatus(ctx, id, enums.NotifProcessFailed, &msg)
}

func errorMessage(err error) string {
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}
