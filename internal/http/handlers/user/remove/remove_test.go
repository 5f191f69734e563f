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

	"github.com/magabrotheeeer/codevault/internal/services/user"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func TestRemoveHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name       string
		mockErr    error
		wantStatus int
	}{
		{name: "deleted", wantStatus: http.StatusOK},
		{name: "missing", mockErr: user.ErrNotFound, wantStatus: http.StatusNotFound},
		{name: "db failure", mockErr: errors.New("db"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			svc.On("Delete", mock.Anything, "u1").Return(tt.mockErr).Once()

			r := chi.NewRouter()
			r.Delete("/api/users/{id}", New(logger, svc).ServeHTTP)
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/users/u1", nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			svc.AssertExpectations(t)
		})
	}
}
