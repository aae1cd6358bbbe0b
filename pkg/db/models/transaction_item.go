package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TransactionItem is one purchased line. Product name/image/price are copied
// at checkout time so the record survives later product edits or deletion.
type TransactionItem struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TransactionID uuid.UUID       `gorm:"column:transaction_id;type:uuid;not null;index"`
	ProductID     uuid.UUID       `gorm:"column:product_id;type:uuid;not null"`
	ProductName   string          `gorm:"column:product_name;not null"`
	ProductImage  *string         `gorm:"column:product_image"`
	PriceAtTime   decimal.Decimal `gorm:"column:price_at_time;type:numeric(10,2);not null"`
	Quantity      int             `gorm:"column:quantity;not null"`
	TotalPrice    decimal.Decimal `gorm:"column:total_price;type:numeric(10,2);not null"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt     gorm.DeletedAt  `gorm:"column:deleted_at;index"`
}
