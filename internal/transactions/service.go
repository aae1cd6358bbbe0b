package transactions

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mrriyous/storefront-backend/pkg/db/models"
	pkgerrors "github.com/mrriyous/storefront-backend/pkg/errors"
	"github.com/mrriyous/storefront-backend/pkg/pagination"
)

type transactionStore interface {
	FindByNumberForUser(ctx context.Context, number string, userID uuid.UUID) (*models.Transaction, error)
	ListByUser(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]models.Transaction, string, error)
}

// Service exposes owner-scoped transaction reads.
type Service interface {
	GetByNumber(ctx context.Context, userID uuid.UUID, number string) (*models.Transaction, error)
	List(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]models.Transaction, string, error)
}

type service struct {
	repo transactionStore
}

// NewService builds the transactions service.
func NewService(repo transactionStore) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("transaction repository required")
	}
	return &service{repo: repo}, nil
}

// GetByNumber returns the transaction only to its owner. Someone else's
// number reads as not found.
func (s *service) GetByNumber(ctx context.Context, userID uuid.UUID, number string) (*models.Transaction, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	number = strings.TrimSpace(number)
	if number == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transaction number required")
	}

	record, err := s.repo.FindByNumberForUser(ctx, number, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "transaction not found")
		}
		return nil, err
	}
	return record, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]models.Transaction, string, error) {
	if userID == uuid.Nil {
		return nil, "", pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	records, next, err := s.repo.ListByUser(ctx, userID, params)
	if err != nil {
		return nil, "", err
	}
	return records, next, nil
}
