package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mrriyous/storefront-backend/pkg/enums"
)

// ProductLowStockNotifProcess records one low-stock alert attempt. Rows are
// append-only audit data; retry gating lives on the product itself.
type ProductLowStockNotifProcess struct {
	ID           uuid.UUID                `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID    uuid.UUID                `gorm:"column:product_id;type:uuid;not null;index"`
	ProductName  string                   `gorm:"column:product_name;not null"`
	StockAtCheck int                      `gorm:"column:stock_at_check;not null"`
	Status       enums.NotifProcessStatus `gorm:"column:status;not null;default:pending"`
	ErrorMessage *string                  `gorm:"column:error_message"`
	CreatedAt    time.Time                `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time                `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt    gorm.DeletedAt           `gorm:"column:deleted_at;index"`
}

func (ProductLowStockNotifProcess) TableName() string {
	return "product_low_stock_notif_processes"
}

// TransactionReportNotifProcess records one daily report attempt with the
// compiled payload, persisted before the send so the data survives failures.
type TransactionReportNotifProcess struct {
	ID               uuid.UUID                `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ReportDate       time.Time                `gorm:"column:report_date;type:date;not null"`
	Payload          []byte                   `gorm:"column:payload;type:jsonb;not null"`
	TotalSales       string                   `gorm:"column:total_sales;not null"`
	TotalItems       int                      `gorm:"column:total_items;not null"`
	TransactionCount int                      `gorm:"column:transaction_count;not null"`
	Status           enums.NotifProcessStatus `gorm:"column:status;not null;default:pending"`
	ErrorMessage     *string                  `gorm:"column:error_message"`
	CreatedAt        time.Time                `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time                `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt        gorm.DeletedAt           `gorm:"column:deleted_at;index"`
}

func (TransactionReportNotifProcess) TableName() string {
	return "transaction_report_notif_processes"
}
