// Package update реализует частичное изменение товара по slug или id.
package update

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/codevault/internal/http/response"
	"github.com/magabrotheeeer/codevault/internal/lib/sl"
	"github.com/magabrotheeeer/codevault/internal/models"
	"github.com/magabrotheeeer/codevault/internal/services/product"
)

// Service применяет патч к товару.
type Service interface {
	Update(ctx context.Context, key string, patch models.ProductPatch) (*models.Product, error)
}

// Handler обрабатывает PATCH /api/products/{slugOrId}.
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
// @Summary Изменить товар
// @Tags Products
// @Accept json
// @Produce json
// @Param slugOrId path string true "Slug или id"
// @Param request body models.ProductPatch true "Изменяемые поля"
// @Success 200 {object} response.Response{data=models.Product}
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /products/{slugOrId} [patch]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.product.update"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var patch models.ProductPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		response.JSON(w, r, http.StatusBadRequest, response.Error("invalid request body"))
		return
	}
	if err := h.validate.Struct(patch); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			response.JSON(w, r, http.StatusBadRequest, response.ValidationError(verrs))
			return
		}
		response.JSON(w, r, http.StatusBadRequest, response.Error("invalid request body"))
		return
	}

	key := chi.URLParam(r, "slugOrId")
	updated, err := h.service.Update(r.Context(), key, patch)
	if err != nil {
		switch {
		case errors.Is(err, product.ErrNotFound):
			response.JSON(w, r, http.StatusNotFound, response.Error("Product not found"))
		case errors.Is(err, product.ErrSlugTaken):
			response.JSON(w, r, http.StatusBadRequest, response.Error("Product with this slug already exists"))
		case errors.Is(err, product.ErrEmptySlug):
			response.JSON(w, r, http.StatusBadRequest, response.Error("Product slug is required"))
		default:
			log.Error("failed to update product", slog.String("key", key), sl.Err(err))
			response.JSON(w, r, http.StatusInternalServerError, response.Internal(r, err))
		}
		return
	}

	log.Info("product updated", slog.Int64("id", updated.ID))
	response.JSON(w, r, http.StatusOK, response.Response{
		Success: true,
		Data:    updated,
		Message: "Product updated successfully",
	})
}
