package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/mrriyous/storefront-backend/api/responses"
	"github.com/mrriyous/storefront-backend/api/validators"
	checkoutsvc "github.com/mrriyous/storefront-backend/internal/checkout"
	pkgerrors "github.com/mrriyous/storefront-backend/pkg/errors"
	"github.com/mrriyous/storefront-backend/pkg/logger"
)

type checkoutRequest struct {
	RecipientName string      `json:"recipient_name" validate:"required"`
	PhoneNumber   string      `json:"phone_number" validate:"required"`
	Address       string      `json:"address" validate:"required"`
	City          string      `json:"city" validate:"required"`
	PostalCode    string      `json:"postal_code" validate:"required"`
	Notes         *string     `json:"notes"`
	CartItemIDs   []uuid.UUID `json:"cart_item_ids" validate:"required,min=1"`
}

type checkoutResponse struct {
	TransactionID     uuid.UUID `json:"transaction_id"`
	TransactionNumber string    `json:"transaction_number"`
}

// Checkout converts the selected cart lines into a completed transaction.
func Checkout(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		userID, err := userIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Execute(r.Context(), userID, checkoutsvc.Input{
			RecipientName: payload.RecipientName,
			PhoneNumber:   payload.PhoneNumber,
			Address:       payload.Address,
			City:          payload.City,
			PostalCode:    payload.PostalCode,
			Notes:         payload.Notes,
			CartItemIDs:   payload.CartItemIDs,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, checkoutResponse{
			TransactionID:     result.TransactionID,
			TransactionNumber: result.TransactionNumber,
		})
	}
}
