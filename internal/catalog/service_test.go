package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mrriyous/storefront-backend/pkg/db/models"
	pkgerrors "github.com/mrriyous/storefront-backend/pkg/errors"
)

type stubProductStore struct {
	bySlug      map[string]*models.Product
	taken       map[string]bool
	created     []*models.Product
	searchWords []string
}

func newStubProductStore() *stubProductStore {
	return &stubProductStore{
		bySlug: map[string]*models.Product{},
		taken:  map[string]bool{},
	}
}

func (s *stubProductStore) FindActiveBySlug(_ context.Context, slug string) (*models.Product, error) {
	product, ok := s.bySlug[slug]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return product, nil
}

func (s *stubProductStore) Search(_ context.Context, words []string, _ int) ([]models.Product, error) {
	s.searchWords = words
	return nil, nil
}

func (s *stubProductStore) CreateProduct(_ context.Context, product *models.Product) error {
	s.created = append(s.created, product)
	s.taken[product.Slug] = true
	return nil
}

func (s *stubProductStore) SlugExists(_ context.Context, slug string) (bool, error) {
	return s.taken[slug], nil
}

func TestSearchSplitsQueryIntoWords(t *testing.T) {
	t.Parallel()

	store := newStubProductStore()
	svc, err := NewService(store)
	require.NoError(t, err)

	_, err = svc.Search(context.Background(), "  blue  ceramic mug ", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"blue", "ceramic", "mug"}, store.searchWords)
}

func TestSearchRejectsEmptyQuery(t *testing.T) {
	t.Parallel()

	store := newStubProductStore()
	svc, err := NewService(store)
	require.NoError(t, err)

	_, err = svc.Search(context.Background(), "   ", 10)
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestCreateDerivesSlugFromName(t *testing.T) {
	t.Parallel()

	store := newStubProductStore()
	svc, err := NewService(store)
	require.NoError(t, err)

	product, err := svc.Create(context.Background(), CreateProductInput{
		Name:     "Blue Ceramic Mug",
		Price:    "15.00",
		Stock:    10,
		IsActive: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "blue-ceramic-mug", product.Slug)
}

func TestCreateDisambiguatesSlugCollision(t *testing.T) {
	t.Parallel()

	store := newStubProductStore()
	store.taken["blue-ceramic-mug"] = true
	svc, err := NewService(store)
	require.NoError(t, err)

	product, err := svc.Create(context.Background(), CreateProductInput{
		Name:     "Blue Ceramic Mug",
		Price:    "15.00",
		IsActive: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "blue-ceramic-mug-2", product.Slug)
}

func TestCreateRejectsBadPrice(t *testing.T) {
	t.Parallel()

	store := newStubProductStore()
	svc, err := NewService(store)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), CreateProductInput{Name: "Mug", Price: "abc"})
	require.Error(t, err)

	_, err = svc.Create(context.Background(), CreateProductInput{Name: "Mug", Price: "-1"})
	require.Error(t, err)
}

func TestGetBySlugNotFound(t *testing.T) {
	t.Parallel()

	store := newStubProductStore()
	svc, err := NewService(store)
	require.NoError(t, err)

	_, err = svc.GetBySlug(context.Background(), "missing")
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}
