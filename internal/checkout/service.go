package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mrriyous/storefront-backend/internal/cart"
	"github.com/mrriyous/storefront-backend/internal/inventory"
	"github.com/mrriyous/storefront-backend/pkg/config"
	"github.com/mrriyous/storefront-backend/pkg/db/models"
	"github.com/mrriyous/storefront-backend/pkg/enums"
	pkgerrors "github.com/mrriyous/storefront-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Input carries the delivery address and the cart lines to purchase. The
// selection may be a subset of the cart.
type Input struct {
	RecipientName string
	PhoneNumber   string
	Address       string
	City          string
	PostalCode    string
	Notes         *string
	CartItemIDs   []uuid.UUID
}

// Result is what collaborators need for the confirmation redirect.
type Result struct {
	TransactionID     uuid.UUID
	TransactionNumber string
}

// Service executes checkout orchestration.
type Service interface {
	Execute(ctx context.Context, userID uuid.UUID, input Input) (*Result, error)
}

type service struct {
	tx       txRunner
	cartRepo *cart.Repository
	repo     *Repository
	store    config.StoreConfig
}

// NewService builds the checkout service.
func NewService(tx txRunner, cartRepo *cart.Repository, repo *Repository, store config.StoreConfig) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if cartRepo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if repo == nil {
		return nil, fmt.Errorf("checkout repository required")
	}
	return &service{
		tx:       tx,
		cartRepo: cartRepo,
		repo:     repo,
		store:    store,
	}, nil
}

// Execute converts the selected cart lines into a transaction as one unit of
// work. Nothing is observable on failure: no transaction row, no stock debit,
// no cart lines removed.
func (s *service) Execute(ctx context.Context, userID uuid.UUID, input Input) (*Result, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	if err := validateAddress(input); err != nil {
		return nil, err
	}
	if len(input.CartItemIDs) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no cart items selected")
	}

	var result *Result
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		cartRepo := s.cartRepo.WithTx(tx)
		repo := s.repo.WithTx(tx)

		record, err := cartRepo.GetOrCreateByUser(ctx, userID)
		if err != nil {
			return err
		}

		lines, err := cartRepo.FindItemsByIDs(ctx, record.ID, input.CartItemIDs)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "no cart items selected")
		}

		for _, line := range lines {
			if line.Product == nil {
				return pkgerrors.New(pkgerrors.CodeConflict, "a selected product is no longer available")
			}
			if line.Quantity > line.Product.StockQuantity {
				return stockShortageError(line)
			}
		}

		subtotal := sumLineTotals(lines)
		fee := deliveryFee(subtotal, s.store)

		number, err := NextTransactionNumber(ctx, tx)
		if err != nil {
			return err
		}

		txn := &models.Transaction{
			ID:                uuid.New(),
			UserID:            userID,
			TransactionNumber: number,
			RecipientName:     input.RecipientName,
			PhoneNumber:       input.PhoneNumber,
			Address:           input.Address,
			City:              input.City,
			PostalCode:        input.PostalCode,
			Notes:             input.Notes,
			Subtotal:          subtotal,
			DeliveryFee:       fee,
			Total:             subtotal.Add(fee),
			Status:            enums.TransactionCompleted,
		}
		if err := repo.CreateTransaction(ctx, txn); err != nil {
			return err
		}

		items := make([]models.TransactionItem, len(lines))
		consumed := make([]uuid.UUID, len(lines))
		for i, line := range lines {
			items[i] = buildItem(txn.ID, line)
			consumed[i] = line.ID
		}
		if err := repo.CreateItems(ctx, items); err != nil {
			return err
		}

		for _, line := range lines {
			if err := inventory.ReduceStock(ctx, tx, line.ProductID, line.Quantity); err != nil {
				var insufficient *inventory.InsufficientStockError
				if errors.As(err, &insufficient) {
					return stockShortageError(line)
				}
				return err
			}
		}

		if err := cartRepo.DeleteItemsByIDs(ctx, record.ID, consumed); err != nil {
			return err
		}

		result = &Result{TransactionID: txn.ID, TransactionNumber: number}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func validateAddress(input Input) error {
	fields := []struct {
		name  string
		value string
	}{
		{"recipient_name", input.RecipientName},
		{"phone_number", input.PhoneNumber},
		{"address", input.Address},
		{"city", input.City},
		{"postal_code", input.PostalCode},
	}
	var missing []string
	for _, field := range fields {
		if strings.TrimSpace(field.value) == "" {
			missing = append(missing, field.name)
		}
	}
	if len(missing) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "delivery address incomplete").
			WithDetails(map[string]any{"missing": missing})
	}
	return nil
}

func stockShortageError(line models.CartItem) error {
	name := "product"
	available := 0
	if line.Product != nil {
		name = line.Product.Name
		available = line.Product.StockQuantity
	}
	return pkgerrors.New(
		pkgerrors.CodeConflict,
		fmt.Sprintf("insufficient stock for %s", name),
	).WithDetails(map[string]any{
		"product_id": line.ProductID,
		"available":  available,
		"requested":  line.Quantity,
	})
}
