// Package update реализует административное изменение пользователя.
//
// Email, пароль и id через этот обработчик не меняются: такие поля в теле
// запроса игнорируются.
package update

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/codevault/internal/http/response"
	"github.com/magabrotheeeer/codevault/internal/lib/sl"
	"github.com/magabrotheeeer/codevault/internal/models"
	"github.com/magabrotheeeer/codevault/internal/services/user"
)

// Service меняет пользователя.
type Service interface {
	Update(ctx context.Context, id string, upd models.UserUpdate) (*models.User, error)
}

// Handler обрабатывает PATCH /api/users/{id}.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Изменить пользователя
// @Tags Users
// @Accept json
// @Produce json
// @Param id path string true "Id пользователя"
// @Param request body models.UserUpdate true "Изменяемые поля"
// @Success 200 {object} response.Response{data=models.User}
// @Failure 400 {object} response.ErrorResponse "Неизвестная роль"
// @Failure 404 {object} response.ErrorResponse
// @Router /users/{id} [patch]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.update"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var upd models.UserUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		response.JSON(w, r, http.StatusBadRequest, response.Error("invalid request body"))
		return
	}

	id := chi.URLParam(r, "id")
	u, err := h.service.Update(r.Context(), id, upd)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrInvalidRole):
			response.JSON(w, r, http.StatusBadRequest, response.Error("Invalid role"))
		case errors.Is(err, user.ErrNotFound):
			response.JSON(w, r, http.StatusNotFound, response.Error("User not found"))
		default:
			log.Error("failed to update user", slog.String("user_id", id), sl.Err(err))
			response.JSON(w, r, http.StatusInternalServerError, response.Internal(r, err))
		}
		return
	}
	response.JSON(w, r, http.StatusOK, response.Response{
		Success: true,
		Data:    u,
		Message: "User updated successfully",
	})
}
