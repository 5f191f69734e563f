package remove

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/codevault/internal/services/product"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func TestRemoveHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name       string
		mockErr    error
		wantStatus int
		wantBody   string
	}{
		{name: "deleted", wantStatus: http.StatusOK, wantBody: `{"success":true,"message":"Product deleted successfully"}`},
		{name: "missing", mockErr: product.ErrNotFound, wantStatus: http.StatusNotFound, wantBody: `{"success":false,"error":"Product not found"}`},
		{name: "db failure", mockErr: errors.New("db"), wantStatus: http.StatusInternalServerError, wantBody: `{"success":false,"error":"Internal server error"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			svc.On("Delete", mock.Anything, "42").Return(tt.mockErr).Once()

			r := chi.NewRouter()
			r.Delete("/api/products/{slugOrId}", New(logger, svc).ServeHTTP)
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/products/42", nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
			svc.AssertExpectations(t)
		})
	}
}
