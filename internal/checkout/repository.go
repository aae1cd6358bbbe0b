package checkout

import (
	"context"

	"gorm.io/gorm"

	"github.com/mrriyous/storefront-backend/pkg/db/models"
)

// Repository persists transactions and their line items.
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

// CreateTransaction inserts the transaction row.
func (r *Repository) CreateTransaction(ctx context.Context, record *models.Transaction) error {
	return r.db.WithContext(ctx).Create(record).Error
}

// CreateItems inserts the denormalized line items.
func (r *Repository) CreateItems(ctx context.Context, items []models.TransactionItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}
