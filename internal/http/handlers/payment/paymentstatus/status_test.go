package paymentstatus

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

	"github.com/magabrotheeeer/codevault/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Status(ctx context.Context, orderNumber string) (*models.PaymentStatus, error) {
	args := m.Called(ctx, orderNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PaymentStatus), args.Error(1)
}

func TestStatusHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name       string
		setupMock  func(*MockService)
		wantStatus int
		wantBody   string
	}{
		{
			name: "active order",
			setupMock: func(m *MockService) {
				m.On("Status", mock.Anything, "CV777").Return(&models.PaymentStatus{
					OrderID:     "CV777",
					OrderStatus: "ACTIVE",
					OrderAmount: 499,
					ProductName: "Landing Kit",
				}, nil).Once()
			},
			wantStatus: http.StatusOK,
			wantBody: `{"success":true,"data":{"order_id":"CV777","order_status":"ACTIVE","order_amount":499,
				"is_paid":false,"product_name":"Landing Kit","db_order":null}}`,
		},
		{
			name: "internal failure",
			setupMock: func(m *MockService) {
				m.On("Status", mock.Anything, "CV777").Return(nil, errors.New("boom")).Once()
			},
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"success":false,"error":"Internal server error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)

			router := chi.NewRouter()
			router.Get("/api/payments/status/{orderId}", New(logger, svc).ServeHTTP)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/payments/status/CV777", nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
			svc.AssertExpectations(t)
		})
	}
}
