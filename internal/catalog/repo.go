package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mrriyous/storefront-backend/pkg/db/models"
	"github.com/mrriyous/storefront-backend/pkg/pagination"
)

// Repository encapsulates product persistence.
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

// FindByID returns the product regardless of active flag.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// FindActiveBySlug returns the active product behind a storefront URL.
func (r *Repository) FindActiveBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		Where("slug = ? AND is_active = ?", slug, true).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// Search returns active products where every query word matches the name,
// description or SKU, ordered for the storefront grid.
func (r *Repository) Search(ctx context.Context, words []string, limit int) ([]models.Product, error) {
	query := r.db.WithContext(ctx).
		Where("is_active = ?", true)
	for _, word := range words {
		pattern := "%" + word + "%"
		query = query.Where(
			"(name LIKE ? OR description LIKE ? OR sku LIKE ?)",
			pattern, pattern, pattern,
		)
	}

	var products []models.Product
	err := query.
		Order("sort_order ASC").
		Order("name ASC").
		Limit(pagination.NormalizeLimit(limit)).
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

// CreateProduct inserts a new listing.
func (r *Repository) CreateProduct(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

// SlugExists reports whether any live or trashed product already uses the slug.
// Trashed rows count so a restored product never collides with a newer one.
func (r *Repository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Unscoped().
		Model(&models.Product{}).
		Where("slug = ?", slug).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindNeedingLowStockAlert selects products with stock strictly between zero
// and the threshold whose last alert is absent or older than the cutoff.
func (r *Repository) FindNeedingLowStockAlert(ctx context.Context, threshold int, notifiedBefore time.Time) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).
		Where("stock_quantity > 0 AND stock_quantity < ?", threshold).
		Where("low_notification_sent_at IS NULL OR low_notification_sent_at <= ?", notifiedBefore).
		Order("stock_quantity ASC").
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

// StampLowNotification records a successful alert so the product is not
// re-notified until the renotify window elapses.
func (r *Repository) StampLowNotification(ctx context.Context, productID uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", productID).
		UpdateColumn("low_notification_sent_at", at).Error
}
