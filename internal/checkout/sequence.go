package checkout

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

const transactionNumberFormat = "TX-%05d"

// NextTransactionNumber bumps the singleton counter row atomically and
// formats the new value. It must run inside the surrounding checkout
// transaction: a rollback releases the number to the next committer, keeping
// the sequence gapless under concurrent checkouts.
func NextTransactionNumber(ctx context.Context, tx *gorm.DB) (string, error) {
	var value int64
	err := tx.WithContext(ctx).Raw(
		`INSERT INTO transaction_counters (id, value) VALUES (1, 1)
		 ON CONFLICT (id) DO UPDATE SET value = transaction_counters.value + 1
		 RETURNING value`,
	).Scan(&value).Error
	if err != nil {
		return "", fmt.Errorf("bumping transaction counter: %w", err)
	}
	return fmt.Sprintf(transactionNumberFormat, value), nil
}
