// Package create добавляет отзыв о товаре от имени текущего пользователя.
package create

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
	"github.com/magabrotheeeer/codevault/internal/models"
	"github.com/magabrotheeeer/codevault/internal/services/review"
)

// Request отзыв. Комментарий необязателен.
type Request struct {
	ProductID int64  `json:"product_id" validate:"required"`
	Rating    int    `json:"rating" validate:"required"`
	Comment   string `json:"comment" validate:"max=2000"`
}

// Service сохраняет отзыв.
type Service interface {
	Create(ctx context.Context, identity models.Identity, productID int64, rating int, comment string) (*models.Review, error)
}

// Handler обрабатывает POST /api/reviews.
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
// @Summary Оставить отзыв
// @Tags Reviews
// @Accept json
// @Produce json
// @Param request body Request true "Отзыв"
// @Success 201 {object} response.Response{data=models.Review}
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /reviews [post]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.review.create"
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

	created, err := h.service.Create(r.Context(), identity, req.ProductID, req.Rating, req.Comment)
	if err != nil {
		switch {
		case errors.Is(err, review.ErrInvalidRating):
			response.JSON(w, r, http.StatusBadRequest, response.Error(err.Error()))
		case errors.Is(err, review.ErrProductNotFound):
			response.JSON(w, r, http.StatusNotFound, response.Error("Product not found"))
		default:
			log.Error("failed to create review", sl.Err(err))
			response.JSON(w, r, http.StatusInternalServerError, response.Internal(r, err))
		}
		return
	}

	response.JSON(w, r, http.StatusCreated, response.Response{
		Success: true,
		Data:    created,
		Message: "Review submitted successfully",
	})
}
