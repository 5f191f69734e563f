// Package read реализует HTTP-обработчик получения товара по slug или числовому id.
package read

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/codevault/internal/http/middlewarectx"
	"github.com/magabrotheeeer/codevault/internal/http/response"
	"github.com/magabrotheeeer/codevault/internal/lib/sl"
	"github.com/magabrotheeeer/codevault/internal/models"
	"github.com/magabrotheeeer/codevault/internal/services/product"
)

// Service описывает чтение товара.
type Service interface {
	Get(ctx context.Context, key string) (*models.Product, error)
}

// Handler обрабатывает GET /api/products/{slugOrId}. Неактивный товар отдается только администратору.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Товар по slug или id
// @Tags Products
// @Produce json
// @Param slugOrId path string true "Slug или id"
// @Success 200 {object} response.Response{data=models.Product}
// @Failure 404 {object} response.ErrorResponse
// @Router /products/{slugOrId} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.product.read"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	key := chi.URLParam(r, "slugOrId")
	p, err := h.service.Get(r.Context(), key)
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			response.JSON(w, r, http.StatusNotFound, response.Error("Product not found"))
			return
		}
		log.Error("failed to read product", slog.String("key", key), sl.Err(err))
		response.JSON(w, r, http.StatusInternalServerError, response.Internal(r, err))
		return
	}
	// снятый с продажи товар виден только администратору, в том числе из кеша
	if !p.IsActive {
		if identity, ok := middlewarectx.IdentityFrom(r.Context()); !ok || !identity.IsAdmin() {
			response.JSON(w, r, http.StatusNotFound, response.Error("Product not found"))
			return
		}
	}
	response.JSON(w, r, http.StatusOK, response.OK(p))
}
