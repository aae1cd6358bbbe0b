package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"

	"github.com/mrriyous/storefront-backend/pkg/db/models"
	pkgerrors "github.com/mrriyous/storefront-backend/pkg/errors"
)

type productStore interface {
	FindActiveBySlug(ctx context.Context, slug string) (*models.Product, error)
	Search(ctx context.Context, words []string, limit int) ([]models.Product, error)
	CreateProduct(ctx context.Context, product *models.Product) error
	SlugExists(ctx context.Context, slug string) (bool, error)
}

// Service exposes the product read side plus listing creation.
type Service interface {
	GetBySlug(ctx context.Context, slug string) (*models.Product, error)
	Search(ctx context.Context, query string, limit int) ([]models.Product, error)
	Create(ctx context.Context, input CreateProductInput) (*models.Product, error)
}

// CreateProductInput carries a new listing. Slug is derived from the name
// when absent.
type CreateProductInput struct {
	CategoryID  *uuid.UUID
	Name        string
	Slug        string
	Description *string
	SKU         *string
	Price       string
	Image       *string
	Stock       int
	IsActive    bool
	IsFeatured  bool
	SortOrder   int
}

type service struct {
	repo productStore
}

// NewService builds the catalog service.
func NewService(repo productStore) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) GetBySlug(ctx context.Context, productSlug string) (*models.Product, error) {
	productSlug = strings.TrimSpace(productSlug)
	if productSlug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "slug required")
	}
	product, err := s.repo.FindActiveBySlug(ctx, productSlug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, err
	}
	return product, nil
}

// Search splits the query into words; every word must match the name,
// description or SKU for a product to qualify.
func (s *service) Search(ctx context.Context, query string, limit int) ([]models.Product, error) {
	words := strings.Fields(strings.TrimSpace(query))
	if len(words) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "search query required")
	}
	return s.repo.Search(ctx, words, limit)
}

func (s *service) Create(ctx context.Context, input CreateProductInput) (*models.Product, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name required")
	}

	price, err := parsePrice(input.Price)
	if err != nil {
		return nil, err
	}
	if input.Stock < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative")
	}

	productSlug, err := s.ensureSlug(ctx, input.Name, input.Slug)
	if err != nil {
		return nil, err
	}

	product := &models.Product{
		ID:            uuid.New(),
		CategoryID:    input.CategoryID,
		Name:          strings.TrimSpace(input.Name),
		Slug:          productSlug,
		Description:   input.Description,
		SKU:           input.SKU,
		Price:         price,
		Image:         input.Image,
		StockQuantity: input.Stock,
		IsActive:      input.IsActive,
		IsFeatured:    input.IsFeatured,
		SortOrder:     input.SortOrder,
	}
	if err := s.repo.CreateProduct(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// ensureSlug derives a URL-safe slug from the name when none was given and
// disambiguates collisions with a numeric suffix.
func (s *service) ensureSlug(ctx context.Context, name, requested string) (string, error) {
	base := slug.Make(requested)
	if base == "" {
		base = slug.Make(name)
	}
	if base == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "cannot derive slug from name")
	}

	candidate := base
	for i := 2; ; i++ {
		exists, err := s.repo.SlugExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}
