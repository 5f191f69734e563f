// Package forgotpassword принимает запрос на сброс пароля.
// Ответ одинаков для существующих и неизвестных адресов.
package forgotpassword

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/codevault/internal/http/response"
)

const acknowledgement = "If an account exists with this email, a password reset link has been sent"

// Request адрес, для которого запрошен сброс.
type Request struct {
	Email string `json:"email" validate:"required,email"`
}

// Service регистрирует запрос сброса.
type Service interface {
	ForgotPassword(ctx context.Context, email string)
}

// Handler обрабатывает POST /api/auth/forgot-password.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service, validate: validator.New()}
}

// ServeHTTP godoc
// @Summary Запросить сброс пароля
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body Request true "Email"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Router /auth/forgot-password [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.forgotpassword"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.JSON(w, r, http.StatusBadRequest, response.Error("invalid request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			response.JSON(w, r, http.StatusBadRequest, response.ValidationError(verrs))
			return
		}
		response.JSON(w, r, http.StatusBadRequest, response.Error("invalid request body"))
		return
	}

	h.service.ForgotPassword(r.Context(), req.Email)
	log.Debug("password reset acknowledged")
	response.JSON(w, r, http.StatusOK, response.Message(acknowledgement))
}
