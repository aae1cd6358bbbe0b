package notifications

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mrriyous/storefront-backend/pkg/db/models"
	"github.com/mrriyous/storefront-backend/pkg/enums"
)

// Repository persists notification audit rows.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repository to the provided GORM handle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx scopes the repository to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// CreateLowStock inserts a pending low-stock audit row.
func (r *Repository) CreateLowStock(ctx context.Context, row *models.ProductLowStockNotifProcess) error {
	return r.db.WithContext(ctx).Create(row).Error
}

// UpdateLowStockStatus flips the audit row's outcome.
func (r *Repository) UpdateLowStockStatus(ctx context.Context, id uuid.UUID, status enums.NotifProcessStatus, errorMessage *string) error {
	return r.db.WithContext(ctx).
		Model(&models.ProductLowStockNotifProcess{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":        status,
			"error_message": errorMessage,
			"updated_at":    time.Now(),
		}).Error
}

// CreateReport inserts a pending daily report audit row.
func (r *Repository) CreateReport(ctx context.Context, row *models.TransactionReportNotifProcess) error {
	return r.db.WithContext(ctx).Create(row).Error
}

// UpdateReportStatus flips the audit row's outcome.
func (r *Repository) UpdateReportStatus(ctx context.Context, id uuid.UUID, status enums.NotifProcessStatus, errorMessage *string) error {
	return r.db.WithContext(ctx).
		Model(&models.TransactionReportNotifProcess{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":        status,
			"error_message": errorMessage,
			"updated_at":    time.Now(),
		}).Error
}
