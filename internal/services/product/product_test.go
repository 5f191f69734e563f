package product_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/codevault/internal/cache"
	"github.com/magabrotheeeer/codevault/internal/models"
	"github.com/magabrotheeeer/codevault/internal/services/product"
	"github.com/magabrotheeeer/codevault/internal/storage/repository"
)

type RepoMock struct {
	mock.Mock
}

func (m *RepoMock) CreateProduct(ctx context.Context, p models.Product) (*models.Product, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *RepoMock) GetProduct(ctx context.Context, key string) (*models.Product, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *RepoMock) ListProducts(ctx context.Context, f models.ProductFilter) ([]*models.Product, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Product), args.Error(1)
}

func (m *RepoMock) UpdateProduct(ctx context.Context, p models.Product) (*models.Product, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *RepoMock) DeleteProduct(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newCache поднимает Redis в памяти.
func newCache(t *testing.T) (*cache.Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	return &cache.Cache{Db: redis.NewClient(&redis.Options{Addr: mr.Addr()})}, mr
}

func TestService_Get_UsesCache(t *testing.T) {
	repo := new(RepoMock)
	c, mr := newCache(t)
	svc := product.New(repo, c, newNoopLogger())
	repo.On("GetProduct", mock.Anything, "saas-kit").
		Return(&models.Product{ID: 1, Slug: "saas-kit", Name: "SaaS Kit"}, nil).Once()

	first, err := svc.Get(context.Background(), "saas-kit")
	require.NoError(t, err)
	second, err := svc.Get(context.Background(), "saas-kit")
	require.NoError(t, err)

	assert.Equal(t, first.Name, second.Name)
	assert.True(t, mr.Exists("product:saas-kit"))
	repo.AssertExpectations(t)
}

func TestService_Get_NotFound(t *testing.T) {
	repo := new(RepoMock)
	c, _ := newCache(t)
	svc := product.New(repo, c, newNoopLogger())
	repo.On("GetProduct", mock.Anything, "missing").Return(nil, repository.ErrNotFound).Once()

	_, err := svc.Get(context.Background(), "missing")

	assert.ErrorIs(t, err, product.ErrNotFound)
}

func TestService_Get_CacheDownFallsBackToRepo(t *testing.T) {
	repo := new(RepoMock)
	c, mr := newCache(t)
	mr.Close()
	svc := product.New(repo, c, newNoopLogger())
	repo.On("GetProduct", mock.Anything, "1").Return(&models.Product{ID: 1}, nil).Once()

	p, err := svc.Get(context.Background(), "1")

	require.NoError(t, err)
	assert.Equal(t, int64(1), p.ID)
}

func TestService_Create(t *testing.T) {
	tests := []struct {
		name     string
		in       models.Product
		repoErr  error
		wantSlug string
		wantErr  error
	}{
		{name: "slug derived from name", in: models.Product{Name: "  Next.js SaaS Starter!  "}, wantSlug: "next-js-saas-starter"},
		{name: "explicit slug kept", in: models.Product{Name: "Kit", Slug: "my-kit"}, wantSlug: "my-kit"},
		{name: "duplicate slug", in: models.Product{Name: "Kit"}, repoErr: repository.ErrAlreadyExists, wantErr: product.ErrSlugTaken},
		{name: "unsluggable name", in: models.Product{Name: "!!!"}, wantErr: product.ErrEmptySlug},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			c, _ := newCache(t)
			svc := product.New(repo, c, newNoopLogger())
			if tt.wantErr != product.ErrEmptySlug {
				var created *models.Product
				if tt.repoErr == nil {
					created = &models.Product{ID: 1, Slug: tt.wantSlug}
				}
				repo.On("CreateProduct", mock.Anything, mock.MatchedBy(func(p models.Product) bool {
					return p.TechStack != nil && p.Features != nil
				})).Return(created, tt.repoErr).Once()
			}

			got, err := svc.Create(context.Background(), tt.in)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantSlug, got.Slug)
			repo.AssertExpectations(t)
		})
	}
}

func TestService_Update_InvalidatesCache(t *testing.T) {
	repo := new(RepoMock)
	c, mr := newCache(t)
	svc := product.New(repo, c, newNoopLogger())
	require.NoError(t, mr.Set("product:old-slug", "{}"))
	require.NoError(t, mr.Set("product:7", "{}"))

	repo.On("GetProduct", mock.Anything, "old-slug").
		Return(&models.Product{ID: 7, Slug: "old-slug", Name: "Old", Price: 10}, nil).Once()
	repo.On("UpdateProduct", mock.Anything, mock.MatchedBy(func(p models.Product) bool {
		return p.ID == 7 && p.Slug == "new-slug" && p.Name == "Old" && p.Price == 20
	})).Return(&models.Product{ID: 7, Slug: "new-slug", Name: "Old", Price: 20}, nil).Once()

	slug := "new-slug"
	price := int64(20)
	got, err := svc.Update(context.Background(), "old-slug", models.ProductPatch{Slug: &slug, Price: &price})

	require.NoError(t, err)
	assert.Equal(t, "new-slug", got.Slug)
	assert.False(t, mr.Exists("product:old-slug"))
	assert.False(t, mr.Exists("product:7"))
	repo.AssertExpectations(t)
}

func TestService_Delete(t *testing.T) {
	repo := new(RepoMock)
	c, mr := newCache(t)
	svc := product.New(repo, c, newNoopLogger())
	require.NoError(t, mr.Set("product:kit", "{}"))

	repo.On("GetProduct", mock.Anything, "kit").Return(&models.Product{ID: 3, Slug: "kit"}, nil).Once()
	repo.On("DeleteProduct", mock.Anything, int64(3)).Return(nil).Once()
	repo.On("GetProduct", mock.Anything, "gone").Return(nil, repository.ErrNotFound).Once()

	require.NoError(t, svc.Delete(context.Background(), "kit"))
	assert.False(t, mr.Exists("product:kit"))

	assert.ErrorIs(t, svc.Delete(context.Background(), "gone"), product.ErrNotFound)
	repo.AssertExpectations(t)
}

func TestService_List(t *testing.T) {
	repo := new(RepoMock)
	c, _ := newCache(t)
	svc := product.New(repo, c, newNoopLogger())
	repo.On("ListProducts", mock.Anything, models.ProductFilter{Limit: 5}).
		Return([]*models.Product{{ID: 1}}, nil).Once()
	repo.On("ListProducts", mock.Anything, models.ProductFilter{Category: "saas"}).
		Return(nil, errors.New("db down")).Once()

	got, err := svc.List(context.Background(), models.ProductFilter{Category: "all", Limit: 5})
	require.NoError(t, err)
	assert.Len(t, got, 1)

	_, err = svc.List(context.Background(), models.ProductFilter{Category: "saas"})
	assert.Error(t, err)
	repo.AssertExpectations(t)
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "react-dashboard-pro", product.Slugify("React Dashboard  PRO"))
	assert.Equal(t, "", product.Slugify("---"))
}
