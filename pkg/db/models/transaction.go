package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mrriyous/storefront-backend/pkg/enums"
)

// Transaction is a placed order. Immutable after creation except status.
type Transaction struct {
	ID                uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID            uuid.UUID               `gorm:"column:user_id;type:uuid;not null;index"`
	TransactionNumber string                  `gorm:"column:transaction_number;not null;uniqueIndex"`
	RecipientName     string                  `gorm:"column:recipient_name;not null"`
	PhoneNumber       string                  `gorm:"column:phone_number;not null"`
	Address           string                  `gorm:"column:address;not null"`
	City              string                  `gorm:"column:city;not null"`
	PostalCode        string                  `gorm:"column:postal_code;not null"`
	Notes             *string                 `gorm:"column:notes"`
	Subtotal          decimal.Decimal         `gorm:"column:subtotal;type:numeric(10,2);not null"`
	DeliveryFee       decimal.Decimal         `gorm:"column:delivery_fee;type:numeric(10,2);not null"`
	Total             decimal.Decimal         `gorm:"column:total;type:numeric(10,2);not null"`
	Status            enums.TransactionStatus `gorm:"column:status;not null;default:completed"`
	Items             []TransactionItem       `gorm:"foreignKey:TransactionID"`
	CreatedAt         time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time               `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt         gorm.DeletedAt          `gorm:"column:deleted_at;index"`
}
