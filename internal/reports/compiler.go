package reports

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mrriyous/storefront-backend/pkg/db/models"
)

// ProductRollup aggregates one product's sales across the day.
type ProductRollup struct {
	ProductName      string          `json:"product_name"`
	Quantity         int             `json:"quantity"`
	Revenue          decimal.Decimal `json:"revenue"`
	AverageUnitPrice decimal.Decimal `json:"average_unit_price"`
}

// DailyReport is the compiled payload for one calendar day.
type DailyReport struct {
	Date             time.Time       `json:"date"`
	Products         []ProductRollup `json:"products"`
	TotalSales       decimal.Decimal `json:"total_sales"`
	TotalItems       int             `json:"total_items"`
	TransactionCount int             `json:"transaction_count"`
}

// Empty reports whether the day had no transactions.
func (r DailyReport) Empty() bool {
	return r.TransactionCount == 0
}

// MarshalPayload serializes the report for the audit tracker row.
func (r DailyReport) MarshalPayload() ([]byte, error) {
	return json.Marshal(r)
}

// Compile rolls the day's transactions up by product name. Grouping by name
// rather than id folds together items whose product was edited or replaced
// during the day, matching how the report reads to a human.
func Compile(date time.Time, txns []models.Transaction) DailyReport {
	report := DailyReport{
		Date:             date,
		TotalSales:       decimal.Zero,
		TransactionCount: len(txns),
	}

	type accumulator struct {
		quantity  int
		revenue   decimal.Decimal
		priceSum  decimal.Decimal
		lineCount int
	}
	groups := map[string]*accumulator{}

	for _, txn := range txns {
		report.TotalSales = report.TotalSales.Add(txn.Total)
		for _, item := range txn.Items {
			acc, ok := groups[item.ProductName]
			if !ok {
				acc = &accumulator{revenue: decimal.Zero, priceSum: decimal.Zero}
				groups[item.ProductName] = acc
			}
			acc.quantity += item.Quantity
			acc.revenue = acc.revenue.Add(item.TotalPrice)
			acc.priceSum = acc.priceSum.Add(item.PriceAtTime)
			acc.lineCount++
			report.TotalItems += item.Quantity
		}
	}

	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		acc := groups[name]
		avg := acc.priceSum.Div(decimal.NewFromInt(int64(acc.lineCount))).Round(2)
		report.Products = append(report.Products, ProductRollup{
			ProductName:      name,
			Quantity:         acc.quantity,
			Revenue:          acc.revenue,
			AverageUnitPrice: avg,
		})
	}

	return report
}
