package transactions

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mrriyous/storefront-backend/pkg/db/models"
	"github.com/mrriyous/storefront-backend/pkg/pagination"
)

// Repository reads placed transactions.
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

// FindByNumberForUser returns the transaction with items, scoped to its owner.
func (r *Repository) FindByNumberForUser(ctx context.Context, number string, userID uuid.UUID) (*models.Transaction, error) {
	var record models.Transaction
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("transaction_number = ? AND user_id = ?", number, userID).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// ListByUser returns the user's transactions newest-first with cursor
// pagination. The extra row signals another page.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]models.Transaction, string, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, "", err
	}

	limit := pagination.NormalizeLimit(params.Limit)
	query := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit + 1)
	if cursor != nil {
		query = query.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var records []models.Transaction
	if err := query.Find(&records).Error; err != nil {
		return nil, "", err
	}

	next := ""
	if len(records) > limit {
		records = records[:limit]
		last := records[len(records)-1]
		next = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return records, next, nil
}

// FindBetweenWithItems returns transactions created in [from, to) with their
// items preloaded. Used by the daily report.
func (r *Repository) FindBetweenWithItems(ctx context.Context, from, to time.Time) ([]models.Transaction, error) {
	var records []models.Transaction
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("created_at >= ? AND created_at < ?", from, to).
		Order("created_at ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}
