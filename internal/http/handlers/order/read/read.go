// Package read отдаёт заказ по id владельцу или администратору.
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
	"github.com/magabrotheeeer/codevault/internal/services/order"
)

// Service читает заказ с проверкой доступа.
type Service interface {
	Get(ctx context.Context, identity models.Identity, id string) (*models.Order, error)
}

// Handler обрабатывает GET /api/orders/{id}.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Заказ по id
// @Tags Orders
// @Produce json
// @Param id path string true "Id заказа"
// @Success 200 {object} response.Response{data=models.Order}
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /orders/{id} [get]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.order.read"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	identity, ok := middlewarectx.IdentityFrom(r.Context())
	if !ok {
		response.JSON(w, r, http.StatusUnauthorized, response.Error("unauthorized"))
		return
	}

	o, err := h.service.Get(r.Context(), identity, chi.URLParam(r, "id"))
	if err != nil {
		switch {
		case errors.Is(err, order.ErrNotFound):
			response.JSON(w, r, http.StatusNotFound, response.Error("Order not found"))
		case errors.Is(err, order.ErrForbidden):
			log.Warn("order access denied", slog.String("user_id", identity.ID))
			response.JSON(w, r, http.StatusForbidden, response.Error("Access denied"))
		default:
			log.Error("failed to read order", sl.Err(err))
			response.JSON(w, r, http.StatusInternalServerError, response.Internal(r, err))
		}
		return
	}
	response.JSON(w, r, http.StatusOK, response.OK(o))
}
