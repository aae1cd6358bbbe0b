package inventory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mrriyous/storefront-backend/pkg/db/models"
)

// InsufficientStockError reports a rejected stock debit.
type InsufficientStockError struct {
	ProductID uuid.UUID
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s (requested %d)", e.ProductID, e.Requested)
}

// ReduceStock debits qty from the product's stock in one guarded UPDATE. The
// guard makes the check-then-debit race impossible: zero rows affected means
// the stock was no longer sufficient and nothing changed.
func ReduceStock(ctx context.Context, tx *gorm.DB, productID uuid.UUID, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("quantity must be positive, got %d", qty)
	}

	res := tx.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND stock_quantity >= ?", productID, qty).
		UpdateColumn("stock_quantity", gorm.Expr("stock_quantity - ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return &InsufficientStockError{ProductID: productID, Requested: qty}
	}
	return nil
}

// IncreaseStock credits qty back to the product's stock unconditionally.
func IncreaseStock(ctx context.Context, tx *gorm.DB, productID uuid.UUID, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("quantity must be positive, got %d", qty)
	}

	res := tx.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", productID).
		UpdateColumn("stock_quantity", gorm.Expr("stock_quantity + ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// HasLowStock reports whether stock is strictly between zero and the
// threshold. Sold-out products are excluded on purpose: restocking is a
// different workflow than running low.
func HasLowStock(product models.Product, threshold int) bool {
	return product.StockQuantity > 0 && product.StockQuantity < threshold
}
