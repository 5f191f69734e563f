// Package list отдаёт отзывы о товаре вместе с профилями авторов.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/codevault/internal/http/response"
	"github.com/magabrotheeeer/codevault/internal/lib/sl"
	"github.com/magabrotheeeer/codevault/internal/models"
)

// Service описывает чтение отзывов.
type Service interface {
	List(ctx context.Context, productKey string) ([]*models.Review, error)
}

// Handler обрабатывает GET /api/reviews/{productId}.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Отзывы о товаре
// @Tags Reviews
// @Produce json
// @Param productId path string true "Id или slug товара"
// @Success 200 {object} response.Response{data=[]models.Review}
// @Router /reviews/{productId} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.review.list"

	reviews, err := h.service.List(r.Context(), chi.URLParam(r, "productId"))
	if err != nil {
		h.log.Error("failed to list reviews",
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
			sl.Err(err))
		response.JSON(w, r, http.StatusInternalServerError, response.Internal(r, err))
		return
	}
	response.JSON(w, r, http.StatusOK, response.OK(reviews))
}
