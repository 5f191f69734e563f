package response

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInternal_Redaction(t *testing.T) {
	cause := errors.New("pq: relation \"orders\" does not exist")

	tests := []struct {
		name   string
		expose *bool
		want   string
	}{
		{name: "no middleware", want: "Internal server error"},
		{name: "production", expose: ptr(false), want: "Internal server error"},
		{name: "development", expose: ptr(true), want: cause.Error()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Response
			h := http.Handler(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
				got = Internal(r, cause)
			}))
			if tt.expose != nil {
				h = ExposeErrors(*tt.expose)(h)
			}
			h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

			assert.False(t, got.Success)
			assert.Equal(t, tt.want, got.Error)
		})
	}
}

func TestValidationError(t *testing.T) {
	type req struct {
		Email    string `validate:"required,email"`
		Password string `validate:"required,min=6"`
		Rating   int    `validate:"min=1,max=5"`
	}

	err := validator.New().Struct(req{Email: "bad", Password: "123", Rating: 9})
	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))

	resp := ValidationError(verrs)

	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, "field Email must be a valid email")
	assert.Contains(t, resp.Error, "field Password must be at least 6")
	assert.Contains(t, resp.Error, "field Rating must be at most 5")
}

func TestJSON_WritesEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	JSON(rec, req, http.StatusCreated, OK([]string{}))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"success":true,"data":[]}`, rec.Body.String())
}

func ptr[T any](v T) *T { return &v }
