package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mrriyous/storefront-backend/pkg/db"
	"github.com/mrriyous/storefront-backend/pkg/db/models"
	pkgerrors "github.com/mrriyous/storefront-backend/pkg/errors"
)

type cartStore interface {
	GetOrCreateByUser(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	FindItemForCart(ctx context.Context, itemID, cartID uuid.UUID) (*models.CartItem, error)
	FindItemByProduct(ctx context.Context, cartID, productID uuid.UUID) (*models.CartItem, error)
	CreateItem(ctx context.Context, item *models.CartItem) error
	SaveItem(ctx context.Context, item *models.CartItem) error
	DeleteItem(ctx context.Context, itemID uuid.UUID) error
	ClearItems(ctx context.Context, cartID uuid.UUID) error
}

type productLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// Service exposes cart operations scoped to the requesting user.
type Service interface {
	Get(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (*models.CartItem, error)
	UpdateItem(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*models.CartItem, error)
	RemoveItem(ctx context.Context, userID, itemID uuid.UUID) error
	Clear(ctx context.Context, userID uuid.UUID) error
}

type service struct {
	repo     cartStore
	products productLoader
}

// NewService builds the cart service.
func NewService(repo cartStore, products productLoader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	return &service{repo: repo, products: products}, nil
}

// Get returns the user's cart, creating it lazily on first access.
func (s *service) Get(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	return s.repo.GetOrCreateByUser(ctx, userID)
}

func (s *service) AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (*models.CartItem, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	if quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, err
	}
	if !product.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product is not available")
	}

	record, err := s.repo.GetOrCreateByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.FindItemByProduct(ctx, record.ID, productID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	requested := quantity
	if existing != nil {
		requested += existing.Quantity
	}
	if product.StockQuantity < requested {
		return nil, insufficientStockError(product, requested)
	}

	if existing != nil {
		// Price snapshot stays as taken at first add.
		existing.Quantity = requested
		existing.RecalculateTotal()
		if err := s.repo.SaveItem(ctx, existing); err != nil {
			return nil, err
		}
		return existing, nil
	}

	item := &models.CartItem{
		ID:          uuid.New(),
		CartID:      record.ID,
		ProductID:   product.ID,
		Quantity:    quantity,
		PriceAtTime: product.Price,
	}
	item.RecalculateTotal()
	if err := s.repo.CreateItem(ctx, item); err != nil {
		// A concurrent add for the same product can win the unique index
		// race after our find returned nothing.
		if db.IsUniqueViolation(err, "idx_cart_items_cart_product") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "item was added concurrently, retry")
		}
		return nil, err
	}
	return item, nil
}

func (s *service) UpdateItem(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*models.CartItem, error) {
	if quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	item, err := s.ownedItem(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}

	product, err := s.products.FindByID(ctx, item.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, err
	}
	if product.StockQuantity < quantity {
		return nil, insufficientStockError(product, quantity)
	}

	item.Quantity = quantity
	item.RecalculateTotal()
	if err := s.repo.SaveItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *service) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) error {
	item, err := s.ownedItem(ctx, userID, itemID)
	if err != nil {
		return err
	}
	return s.repo.DeleteItem(ctx, item.ID)
}

func (s *service) Clear(ctx context.Context, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	record, err := s.repo.GetOrCreateByUser(ctx, userID)
	if err != nil {
		return err
	}
	return s.repo.ClearItems(ctx, record.ID)
}

// ownedItem resolves the item only within the requesting user's cart. Items
// in other carts surface as not found rather than forbidden.
func (s *service) ownedItem(ctx context.Context, userID, itemID uuid.UUID) (*models.CartItem, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	if itemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart item id required")
	}

	record, err := s.repo.GetOrCreateByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	item, err := s.repo.FindItemForCart(ctx, itemID, record.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
		}
		return nil, err
	}
	return item, nil
}

func insufficientStockError(product *models.Product, requested int) error {
	return pkgerrors.New(
		pkgerrors.CodeConflict,
		fmt.Sprintf("insufficient stock for %s", product.Name),
	).WithDetails(map[string]any{
		"product_id": product.ID,
		"available":  product.StockQuantity,
		"requested":  requested,
	})
}
