// Package changepassword реализует смену пароля с проверкой текущего.
package changepassword

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/codevault/internal/http/middlewarectx"
	"github.com/magabrotheeeer/codevault/internal/http/response"
	"github.com/magabrotheeeer/codevault/internal/lib/sl"
	"github.com/magabrotheeeer/codevault/internal/services/auth"
)

// Request текущий и новый пароли.
type Request struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
}

// Service меняет пароль.
type Service interface {
	ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error
}

// Handler обрабатывает POST /api/auth/change-password.
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
// @Summary Сменить пароль
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body Request true "Пароли"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "Неверный текущий пароль или слабый новый"
// @Failure 401 {object} response.ErrorResponse
// @Router /auth/change-password [post]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.changepassword"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	identity, ok := middlewarectx.IdentityFrom(r.Context())
	if !ok {
		response.JSON(w, r, http.StatusUnauthorized, response.Error("unauthorized"))
		return
	}

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

	err := h.service.ChangePassword(r.Context(), identity.ID, req.CurrentPassword, req.NewPassword)
	switch {
	case err == nil:
	case errors.Is(err, auth.ErrWrongPassword):
		log.Info("current password mismatch", slog.String("user_id", identity.ID))
		response.JSON(w, r, http.StatusBadRequest, response.Error("Current password is incorrect"))
		return
	case errors.Is(err, auth.ErrWeakPassword):
		response.JSON(w, r, http.StatusBadRequest, response.Error("Password must be at least 6 characters"))
		return
	case errors.Is(err, auth.ErrUserNotFound):
		response.JSON(w, r, http.StatusNotFound, response.Error("User not found"))
		return
	default:
		log.Error("failed to change password", sl.Err(err))
		response.JSON(w, r, http.StatusInternalServerError, response.Internal(r, err))
		return
	}

	log.Info("password changed", slog.String("user_id", identity.ID))
	response.JSON(w, r, http.StatusOK, response.Message("Password updated successfully"))
}
