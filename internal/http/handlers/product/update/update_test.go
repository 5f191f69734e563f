package update

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/codevault/internal/models"
	"github.com/magabrotheeeer/codevault/internal/services/product"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Update(ctx context.Context, key string, patch models.ProductPatch) (*models.Product, error) {
	args := m.Called(ctx, key, patch)
	if res := args.Get(0); res != nil {
		return res.(*models.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestUpdateHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	price := int64(2499)

	tests := []struct {
		name       string
		body       string
		setupMock  func(*MockService)
		wantStatus int
		wantSubstr string
	}{
		{
			name: "price changed",
			body: `{"price":2499}`,
			setupMock: func(m *MockService) {
				m.On("Update", mock.Anything, "admin-dashboard", models.ProductPatch{Price: &price}).
					Return(&models.Product{ID: 7, Slug: "admin-dashboard", Price: price}, nil).Once()
			},
			wantStatus: http.StatusOK,
			wantSubstr: `"price":2499`,
		},
		{
			name:       "negative price rejected",
			body:       `{"price":-5}`,
			setupMock:  func(_ *MockService) {},
			wantStatus: http.StatusBadRequest,
			wantSubstr: "field Price must be at least 0",
		},
		{
			name: "unknown product",
			body: `{}`,
			setupMock: func(m *MockService) {
				m.On("Update", mock.Anything, "admin-dashboard", models.ProductPatch{}).Return(nil, product.ErrNotFound).Once()
			},
			wantStatus: http.StatusNotFound,
			wantSubstr: "Product not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)

			r := chi.NewRouter()
			r.Patch("/api/products/{slugOrId}", New(logger, svc).ServeHTTP)
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/api/products/admin-dashboard", bytes.NewBufferString(tt.body)))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantSubstr)
			svc.AssertExpectations(t)
		})
	}
}
