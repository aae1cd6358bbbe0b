package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CartItem is one (cart, product) line. PriceAtTime is snapshotted when the
// line is first created and never refreshed by later adds.
type CartItem struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CartID      uuid.UUID       `gorm:"column:cart_id;type:uuid;not null;uniqueIndex:idx_cart_items_cart_product"`
	ProductID   uuid.UUID       `gorm:"column:product_id;type:uuid;not null;uniqueIndex:idx_cart_items_cart_product"`
	Product     *Product        `gorm:"foreignKey:ProductID"`
	Quantity    int             `gorm:"column:quantity;not null;default:1"`
	PriceAtTime decimal.Decimal `gorm:"column:price_at_time;type:numeric(10,2);not null"`
	TotalPrice  decimal.Decimal `gorm:"column:total_price;type:numeric(10,2);not null"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt   gorm.DeletedAt  `gorm:"column:deleted_at;index"`
}

// RecalculateTotal sets TotalPrice from the price snapshot and quantity.
// Every mutator must call this before persisting a quantity or price change.
func (ci *CartItem) RecalculateTotal() {
	ci.TotalPrice = ci.PriceAtTime.Mul(decimal.NewFromInt(int64(ci.Quantity)))
}
