package catalog

import (
	"strings"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/mrriyous/storefront-backend/pkg/errors"
)

func parsePrice(value string) (decimal.Decimal, error) {
	price, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "invalid price")
	}
	if price.IsNegative() {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	return price.Round(2), nil
}
