// Package remove реализует удаление товара по slug или id.
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
	"github.com/magabrotheeeer/codevault/internal/services/product"
)

// Service удаляет товар.
type Service interface {
	Delete(ctx context.Context, key string) error
}

// Handler обрабатывает DELETE /api/products/{slugOrId}.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Удалить товар
// @Tags Products
// @Produce json
// @Param slugOrId path string true "Slug или id"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Router /products/{slugOrId} [delete]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.product.remove"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	key := chi.URLParam(r, "slugOrId")
	if err := h.service.Delete(r.Context(), key); err != nil {
		if errors.Is(err, product.ErrNotFound) {
			response.JSON(w, r, http.StatusNotFound, response.Error("Product not found"))
			return
		}
		log.Error("failed to delete product", slog.String("key", key), sl.Err(err))
		response.JSON(w, r, http.StatusInternalServerError, response.Internal(r, err))
		return
	}
	response.JSON(w, r, http.StatusOK, response.Message("Product deleted successfully"))
}
