package paymentcreate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/codevault/internal/http/middlewarectx"
	"github.com/magabrotheeeer/codevault/internal/models"
	"github.com/magabrotheeeer/codevault/internal/services/payment"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Initiate(ctx context.Context, identity models.Identity, in payment.InitiateInput) (*models.PaymentOrder, error) {
	args := m.Called(ctx, identity, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PaymentOrder), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestPaymentCreateHandler_ServeHTTP(t *testing.T) {
	identity := models.Identity{ID: "u1", Email: "buyer@example.com", Role: models.RoleCustomer}
	dbID := "9b2f6c1e-0000-4000-8000-000000000001"

	tests := []struct {
		name           string
		requestBody    any
		withIdentity   bool
		setupMocks     func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:         "order created",
			requestBody:  Request{ProductID: 5, Amount: 1999},
			withIdentity: true,
			setupMocks: func(m *MockService) {
				m.On("Initiate", mock.Anything, identity, payment.InitiateInput{ProductID: 5, Amount: 1999}).
					Return(&models.PaymentOrder{
						OrderID:          "CVLX2ABCDWXYZ",
						PaymentSessionID: "session_1",
						CFOrderID:        "2149460581",
						OrderAmount:      1999,
						ProductName:      "Admin Dashboard",
						DBOrderID:        &dbID,
					}, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody: `{"success":true,"data":{"order_id":"CVLX2ABCDWXYZ","payment_session_id":"session_1",
				"cf_order_id":"2149460581","order_amount":1999,"product_name":"Admin Dashboard",
				"db_order_id":"9b2f6c1e-0000-4000-8000-000000000001"}}`,
		},
		{
			name:           "no identity",
			requestBody:    Request{ProductID: 5},
			setupMocks:     func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"success":false,"error":"unauthorized"}`,
		},
		{
			name:           "invalid json",
			requestBody:    "{",
			withIdentity:   true,
			setupMocks:     func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"success":false,"error":"invalid request body"}`,
		},
		{
			name:         "missing product",
			requestBody:  Request{Amount: 100},
			withIdentity: true,
			setupMocks: func(m *MockService) {
				m.On("Initiate", mock.Anything, identity, payment.InitiateInput{Amount: 100}).
					Return(nil, payment.ErrProductRequired).Once()
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"success":false,"error":"product_id is required"}`,
		},
		{
			name:         "provider rejection",
			requestBody:  Request{ProductID: 5},
			withIdentity: true,
			setupMocks: func(m *MockService) {
				m.On("Initiate", mock.Anything, identity, payment.InitiateInput{ProductID: 5}).
					Return(nil, &payment.ProviderError{Message: "customer_phone is invalid"}).Once()
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"success":false,"error":"customer_phone is invalid"}`,
		},
		{
			name:         "unexpected failure",
			requestBody:  Request{ProductID: 5},
			withIdentity: true,
			setupMocks: func(m *MockService) {
				m.On("Initiate", mock.Anything, identity, payment.InitiateInput{ProductID: 5}).
					Return(nil, errors.New("boom")).Once()
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"success":false,"error":"Internal server error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMocks(svc)
			handler := New(newNoopLogger(), svc)

			var body []byte
			if s, ok := tt.requestBody.(string); ok {
				body = []byte(s)
			} else {
				body, _ = json.Marshal(tt.requestBody)
			}

			req := httptest.NewRequest(http.MethodPost, "/api/payments/create-order", bytes.NewReader(body))
			ctx := context.WithValue(req.Context(), middleware.RequestIDKey, "req-1")
			if tt.withIdentity {
				ctx = middlewarectx.WithIdentity(ctx, identity, nil)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req.WithContext(ctx))

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.JSONEq(t, tt.expectedBody, rec.Body.String())
			svc.AssertExpectations(t)
		})
	}
}
