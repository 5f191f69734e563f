package stats

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

	"github.com/magabrotheeeer/codevault/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Get(ctx context.Context) (*models.Stats, error) {
	args := m.Called(ctx)
	if res := args.Get(0); res != nil {
		return res.(*models.Stats), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestStatsHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	svc := new(MockService)
	svc.On("Get", mock.Anything).Return(&models.Stats{TotalUsers: 3, TotalProducts: 5, TotalOrders: 4, TotalRevenue: 2998}, nil).Once()
	rec := httptest.NewRecorder()
	New(logger, svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/admin/stats", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"data":{"totalUsers":3,"totalProducts":5,"totalOrders":4,"totalRevenue":2998}}`,
		rec.Body.String())

	svc = new(MockService)
	svc.On("Get", mock.Anything).Return(nil, errors.New("db")).Once()
	rec = httptest.NewRecorder()
	New(logger, svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/admin/stats", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
