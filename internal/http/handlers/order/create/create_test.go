package create

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/codevault/internal/http/middlewarectx"
	"github.com/magabrotheeeer/codevault/internal/models"
	"github.com/magabrotheeeer/codevault/internal/services/order"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Create(ctx context.Context, identity models.Identity, in order.CreateInput) (*models.Order, error) {
	args := m.Called(ctx, identity, in)
	if res := args.Get(0); res != nil {
		return res.(*models.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestCreateHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	identity := models.Identity{ID: "u1", Role: models.RoleCustomer}

	tests := []struct {
		name       string
		body       string
		setupMock  func(*MockService)
		wantStatus int
		wantSubstr string
	}{
		{
			name: "created",
			body: `{"product_id":3}`,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, identity, order.CreateInput{ProductID: 3}).Return(&models.Order{
					ID: "o1", OrderNumber: "CV-LX2ABC", Status: models.OrderStatusCompleted, PaymentMethod: models.PaymentMethodStripe,
				}, nil).Once()
			},
			wantStatus: http.StatusCreated,
			wantSubstr: `"status":"completed"`,
		},
		{
			name: "missing product id",
			body: `{}`,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, identity, order.CreateInput{}).Return(nil, order.ErrProductRequired).Once()
			},
			wantStatus: http.StatusBadRequest,
			wantSubstr: "product_id is required",
		},
		{
			name: "unknown product",
			body: `{"product_id":99}`,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, identity, order.CreateInput{ProductID: 99}).Return(nil, order.ErrProductNotFound).Once()
			},
			wantStatus: http.StatusNotFound,
			wantSubstr: "Product not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)

			req := httptest.NewRequest(http.MethodPost, "/api/orders", bytes.NewBufferString(tt.body))
			req = req.WithContext(middlewarectx.WithIdentity(req.Context(), identity, nil))
			rec := httptest.NewRecorder()
			New(logger, svc).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantSubstr)
			svc.AssertExpectations(t)
		})
	}
}
