package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mrriyous/storefront-backend/api/responses"
	"github.com/mrriyous/storefront-backend/api/validators"
	transactionsvc "github.com/mrriyous/storefront-backend/internal/transactions"
	"github.com/mrriyous/storefront-backend/pkg/db/models"
	pkgerrors "github.com/mrriyous/storefront-backend/pkg/errors"
	"github.com/mrriyous/storefront-backend/pkg/logger"
	"github.com/mrriyous/storefront-backend/pkg/pagination"
)

type transactionItemView struct {
	ID           uuid.UUID       `json:"id"`
	ProductID    uuid.UUID       `json:"product_id"`
	ProductName  string          `json:"product_name"`
	ProductImage *string         `json:"product_image,omitempty"`
	PriceAtTime  decimal.Decimal `json:"price_at_time"`
	Quantity     int             `json:"quantity"`
	TotalPrice   decimal.Decimal `json:"total_price"`
}

type transactionView struct {
	ID                uuid.UUID             `json:"id"`
	TransactionNumber string                `json:"transaction_number"`
	RecipientName     string                `json:"recipient_name"`
	PhoneNumber       string                `json:"phone_number"`
	Address           string                `json:"address"`
	City              string                `json:"city"`
	PostalCode        string                `json:"postal_code"`
	Notes             *string               `json:"notes,omitempty"`
	Subtotal          decimal.Decimal       `json:"subtotal"`
	DeliveryFee       decimal.Decimal       `json:"delivery_fee"`
	Total             decimal.Decimal       `json:"total"`
	Status            string                `json:"status"`
	Items             []transactionItemView `json:"items"`
	CreatedAt         time.Time             `json:"created_at"`
}

func newTransactionView(record models.Transaction) transactionView {
	view := transactionView{
		ID:                record.ID,
		TransactionNumber: record.TransactionNumber,
		RecipientName:     record.RecipientName,
		PhoneNumber:       record.PhoneNumber,
		Address:           record.Address,
		City:              record.City,
		PostalCode:        record.PostalCode,
		Notes:             record.Notes,
		Subtotal:          record.Subtotal,
		DeliveryFee:       record.DeliveryFee,
		Total:             record.Total,
		Status:            string(record.Status),
		Items:             make([]transactionItemView, 0, len(record.Items)),
		CreatedAt:         record.CreatedAt,
	}
	for _, item := range record.Items {
		view.Items = append(view.Items, transactionItemView{
			ID:           item.ID,
			ProductID:    item.ProductID,
			ProductName:  item.ProductName,
			ProductImage: item.ProductImage,
			PriceAtTime:  item.PriceAtTime,
			Quantity:     item.Quantity,
			TotalPrice:   item.TotalPrice,
		})
	}
	return view
}

// TransactionList pages through the caller's purchase history, newest first.
func TransactionList(svc transactionsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "transactions service unavailable"))
			return
		}

		userID, err := userIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		cursor := strings.TrimSpace(r.URL.Query().Get("cursor"))

		records, next, err := svc.List(r.Context(), userID, pagination.Params{Limit: limit, Cursor: cursor})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		views := make([]transactionView, 0, len(records))
		for _, record := range records {
			views = append(views, newTransactionView(record))
		}
		responses.WriteSuccess(w, map[string]any{
			"transactions": views,
			"next_cursor":  next,
		})
	}
}

// TransactionDetail returns one transaction by number, owner-scoped.
func TransactionDetail(svc transactionsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "transactions service unavailable"))
			return
		}

		userID, err := userIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		number := strings.TrimSpace(chi.URLParam(r, "number"))
		record, err := svc.GetByNumber(r.Context(), userID, number)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newTransactionView(*record))
	}
}
