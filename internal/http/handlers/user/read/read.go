// Package read отдаёт администратору пользователя по id.
package read

import (
	"context"
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

// Service читает пользователя.
type Service interface {
	Get(ctx context.Context, id string) (*models.User, error)
}

// Handler обрабатывает GET /api/users/{id}.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Пользователь по id
// @Tags Users
// @Produce json
// @Param id path string true "Id пользователя"
// @Success 200 {object} response.Response{data=models.User}
// @Failure 404 {object} response.ErrorResponse
// @Router /users/{id} [get]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.read"

	u, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			response.JSON(w, r, http.StatusNotFound, response.Error("User not found"))
			return
		}
		h.log.Error("failed to read user",
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
			sl.Err(err))
		response.JSON(w, r, http.StatusInternalServerError, response.Internal(r, err))
		return
	}
	response.JSON(w, r, http.StatusOK, response.OK(u))
}
