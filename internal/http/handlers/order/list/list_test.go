package list

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/codevault/internal/http/middlewarectx"
	"github.com/magabrotheeeer/codevault/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) ListMine(ctx context.Context, identity models.Identity) ([]*models.Order, error) {
	args := m.Called(ctx, identity)
	if res := args.Get(0); res != nil {
		return res.([]*models.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestListHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	identity := models.Identity{ID: "u1", Role: models.RoleCustomer}

	t.Run("own orders", func(t *testing.T) {
		svc := new(MockService)
		svc.On("ListMine", mock.Anything, identity).Return([]*models.Order{
			{ID: "o1", OrderNumber: "CV1", Status: models.OrderStatusCompleted},
		}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
		req = req.WithContext(middlewarectx.WithIdentity(req.Context(), identity, nil))
		rec := httptest.NewRecorder()
		New(logger, svc).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"order_number":"CV1"`)
		svc.AssertExpectations(t)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		rec := httptest.NewRecorder()
		New(logger, new(MockService)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/orders", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("storage failure", func(t *testing.T) {
		svc := new(MockService)
		svc.On("ListMine", mock.Anything, identity).Return(nil, errors.New("db")).Once()

		req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
		req = req.WithContext(middlewarectx.WithIdentity(req.Context(), identity, nil))
		rec := httptest.NewRecorder()
		New(logger, svc).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}
