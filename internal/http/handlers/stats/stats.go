// Package stats отдаёт сводные показатели панели администратора.
package stats

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/codevault/internal/http/response"
	"github.com/magabrotheeeer/codevault/internal/lib/sl"
	"github.com/magabrotheeeer/codevault/internal/models"
)

// Service считает показатели.
type Service interface {
	Get(ctx context.Context) (*models.Stats, error)
}

// Handler обрабатывает GET /api/admin/stats.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Сводные показатели
// @Tags Admin
// @Produce json
// @Success 200 {object} response.Response{data=models.Stats}
// @Failure 403 {object} response.ErrorResponse
// @Router /admin/stats [get]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.stats"

	st, err := h.service.Get(r.Context())
	if err != nil {
		h.log.Error("failed to compute stats",
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
			sl.Err(err))
		response.JSON(w, r, http.StatusInternalServerError, response.Internal(r, err))
		return
	}
	response.JSON(w, r, http.StatusOK, response.OK(st))
}
