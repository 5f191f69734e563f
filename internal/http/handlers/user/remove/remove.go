// Package remove удаляет пользователя вместе с его заказами и отзывами.
package remove

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/codevault/internal/http/response"
	"github.com/magabrotheeeer/codevault/internal/lib/sl"
	"github.com/magabrotheeeer/codevault/internal/services/user"
)

// Service удаляет пользователя.
type Service interface {
	Delete(ctx context.Context, id string) error
}

// Handler обрабатывает DELETE /api/users/{id}.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Удалить пользователя
// @Tags Users
// @Produce json
// @Param id path string true "Id пользователя"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Router /users/{id} [delete]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.remove"

	id := chi.URLParam(r, "id")
	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			response.JSON(w, r, http.StatusNotFound, response.Error("User not found"))
			return
		}
		h.log.Error("failed to delete user",
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
			slog.String("user_id", id),
			sl.Err(err))
		response.JSON(w, r, http.StatusInternalServerError, response.Internal(r, err))
		return
	}
	response.JSON(w, r, http.StatusOK, response.Message("User deleted successfully"))
}
