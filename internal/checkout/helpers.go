package checkout

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mrriyous/storefront-backend/pkg/config"
	"github.com/mrriyous/storefront-backend/pkg/db/models"
)

func sumLineTotals(lines []models.CartItem) decimal.Decimal {
	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(line.TotalPrice)
	}
	return subtotal
}

// deliveryFee waives the flat fee once the subtotal reaches the free-delivery
// threshold.
func deliveryFee(subtotal decimal.Decimal, store config.StoreConfig) decimal.Decimal {
	if subtotal.GreaterThanOrEqual(store.FreeDeliveryThreshold) {
		return decimal.Zero
	}
	return store.DeliveryFee
}

// buildItem copies the product snapshot onto the transaction line so the
// record survives later product edits or deletion.
func buildItem(transactionID uuid.UUID, line models.CartItem) models.TransactionItem {
	item := models.TransactionItem{
		ID:            uuid.New(),
		TransactionID: transactionID,
		ProductID:     line.ProductID,
		Quantity:      line.Quantity,
		PriceAtTime:   line.PriceAtTime,
		TotalPrice:    line.TotalPrice,
	}
	if line.Product != nil {
		item.ProductName = line.Product.Name
		item.ProductImage = line.Product.Image
	}
	return item
}
