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
	"github.com/mrriyous/storefront-backend/internal/catalog"
	"github.com/mrriyous/storefront-backend/pkg/db/models"
	pkgerrors "github.com/mrriyous/storefront-backend/pkg/errors"
	"github.com/mrriyous/storefront-backend/pkg/logger"
	"github.com/mrriyous/storefront-backend/pkg/pagination"
)

type productView struct {
	ID            uuid.UUID       `json:"id"`
	CategoryID    *uuid.UUID      `json:"category_id,omitempty"`
	CategoryName  *string         `json:"category_name,omitempty"`
	Name          string          `json:"name"`
	Slug          string          `json:"slug"`
	Description   *string         `json:"description,omitempty"`
	SKU           *string         `json:"sku,omitempty"`
	Price         decimal.Decimal `json:"price"`
	Image         *string         `json:"image,omitempty"`
	StockQuantity int             `json:"stock_quantity"`
	IsActive      bool            `json:"is_active"`
	IsFeatured    bool            `json:"is_featured"`
	CreatedAt     time.Time       `json:"created_at"`
}

func newProductView(product models.Product) productView {
	view := productView{
		ID:            product.ID,
		CategoryID:    product.CategoryID,
		Name:          product.Name,
		Slug:          product.Slug,
		Description:   product.Description,
		SKU:           product.SKU,
		Price:         product.Price,
		Image:         product.Image,
		StockQuantity: product.StockQuantity,
		IsActive:      product.IsActive,
		IsFeatured:    product.IsFeatured,
		CreatedAt:     product.CreatedAt,
	}
	if product.Category != nil {
		view.CategoryName = &product.Category.Name
	}
	return view
}

// ProductSearch matches every word of the query against name, description and
// SKU of active products.
func ProductSearch(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		query := strings.TrimSpace(r.URL.Query().Get("q"))
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		products, err := svc.Search(r.Context(), query, limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		views := make([]productView, 0, len(products))
		for _, product := range products {
			views = append(views, newProductView(product))
		}
		responses.WriteSuccess(w, map[string]any{"products": views})
	}
}

// ProductDetail returns one active product by slug.
func ProductDetail(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		productSlug := strings.TrimSpace(chi.URLParam(r, "slug"))
		product, err := svc.GetBySlug(r.Context(), productSlug)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newProductView(*product))
	}
}

type createProductRequest struct {
	CategoryID  *uuid.UUID `json:"category_id"`
	Name        string     `json:"name" validate:"required"`
	Slug        string     `json:"slug"`
	Description *string    `json:"description"`
	SKU         *string    `json:"sku"`
	Price       string     `json:"price" validate:"required"`
	Image       *string    `json:"image"`
	Stock       int        `json:"stock" validate:"min=0"`
	IsActive    bool       `json:"is_active"`
	IsFeatured  bool       `json:"is_featured"`
	SortOrder   int        `json:"sort_order"`
}

// ProductCreate adds a listing. Slug is derived from the name when absent.
func ProductCreate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Create(r.Context(), catalog.CreateProductInput{
			CategoryID:  payload.CategoryID,
			Name:        payload.Name,
			Slug:        payload.Slug,
			Description: payload.Description,
			SKU:         payload.SKU,
			Price:       payload.Price,
			Image:       payload.Image,
			Stock:       payload.Stock,
			IsActive:    payload.IsActive,
			IsFeatured:  payload.IsFeatured,
			SortOrder:   payload.SortOrder,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newProductView(*product))
	}
}
