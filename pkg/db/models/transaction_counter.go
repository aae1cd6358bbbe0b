package models

// TransactionCounter is the single-row atomic counter behind transaction
// numbers. Bumped with an upsert-returning inside the checkout transaction.
type TransactionCounter struct {
	ID    int   `gorm:"column:id;primaryKey"`
	Value int64 `gorm:"column:value;not null"`
}

func (TransactionCounter) TableName() string {
	return "transaction_counters"
}
