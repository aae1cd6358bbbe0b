package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	checkoutsvc "github.com/mrriyous/storefront-backend/internal/checkout"
	pkgerrors "github.com/mrriyous/storefront-backend/pkg/errors"
)

type stubCheckoutService struct {
	result    *checkoutsvc.Result
	err       error
	lastInput checkoutsvc.Input
}

func (s *stubCheckoutService) Execute(_ context.Context, _ uuid.UUID, input checkoutsvc.Input) (*checkoutsvc.Result, error) {
	s.lastInput = input
	return s.result, s.err
}

func checkoutBody(itemID uuid.UUID) string {
	return fmt.Sprintf(`{
		"recipient_name": "Jane Doe",
		"phone_number": "08123456789",
		"address": "1 Main Street",
		"city": "Jakarta",
		"postal_code": "10110",
		"cart_item_ids": ["%s"]
	}`, itemID)
}

func TestCheckoutSuccess(t *testing.T) {
	result := &checkoutsvc.Result{
		TransactionID:     uuid.New(),
		TransactionNumber: "TX-00001",
	}
	service := &stubCheckoutService{result: result}
	handler := Checkout(service, nil)

	itemID := uuid.New()
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/v1/checkout", checkoutBody(itemID)))

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.Code)
	}

	var envelope struct {
		Data checkoutResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.TransactionNumber != "TX-00001" {
		t.Fatalf("unexpected number: %s", envelope.Data.TransactionNumber)
	}
	if len(service.lastInput.CartItemIDs) != 1 || service.lastInput.CartItemIDs[0] != itemID {
		t.Fatalf("cart item ids not forwarded: %v", service.lastInput.CartItemIDs)
	}
}

func TestCheckoutRejectsEmptySelection(t *testing.T) {
	handler := Checkout(&stubCheckoutService{}, nil)

	body := `{
		"recipient_name": "Jane Doe",
		"phone_number": "08123456789",
		"address": "1 Main Street",
		"city": "Jakarta",
		"postal_code": "10110",
		"cart_item_ids": []
	}`
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/v1/checkout", body))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCheckoutInsufficientStock(t *testing.T) {
	conflict := pkgerrors.New(pkgerrors.CodeConflict, "insufficient stock for Mug")
	handler := Checkout(&stubCheckoutService{err: conflict}, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/v1/checkout", checkoutBody(uuid.New())))

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", resp.Code)
	}
}

func TestCheckoutMissingUserContext(t *testing.T) {
	handler := Checkout(&stubCheckoutService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}
