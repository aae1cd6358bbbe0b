package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product is the storefront listing. Stock is only ever debited inside a
// committed checkout transaction. The bool columns must not carry a gorm
// default tag: gorm omits zero values for tagged fields on insert, so a
// product created with IsActive=false would be stored active.
type Product struct {
	ID                    uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CategoryID            *uuid.UUID      `gorm:"column:category_id;type:uuid"`
	Category              *Category       `gorm:"foreignKey:CategoryID"`
	Name                  string          `gorm:"column:name;not null"`
	Slug                  string          `gorm:"column:slug;not null;uniqueIndex"`
	Description           *string         `gorm:"column:description"`
	SKU                   *string         `gorm:"column:sku;uniqueIndex"`
	Price                 decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null"`
	Image                 *string         `gorm:"column:image"`
	StockQuantity         int             `gorm:"column:stock_quantity;not null;default:0"`
	LowNotificationSentAt *time.Time      `gorm:"column:low_notification_sent_at"`
	IsActive              bool            `gorm:"column:is_active;not null"`
	IsFeatured            bool            `gorm:"column:is_featured;not null"`
	SortOrder             int             `gorm:"column:sort_order;not null;default:0"`
	CreatedAt             time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt             time.Time       `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt             gorm.DeletedAt  `gorm:"column:deleted_at;index"`
}
