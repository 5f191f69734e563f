// Package list отдаёт заказы текущего пользователя, новые первыми.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/codevault/internal/http/middlewarectx"
	"github.com/magabrotheeeer/codevault/internal/http/response"
	"github.com/magabrotheeeer/codevault/internal/lib/sl"
	"github.com/magabrotheeeer/codevault/internal/models"
)

// Service описывает чтение собственных заказов.
type Service interface {
	ListMine(ctx context.Context, identity models.Identity) ([]*models.Order, error)
}

// Handler обрабатывает GET /api/orders.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Мои заказы
// @Tags Orders
// @Produce json
// @Success 200 {object} response.Response{data=[]models.Order}
// @Failure 401 {object} response.ErrorResponse
// @Router /orders [get]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.order.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	identity, ok := middlewarectx.IdentityFrom(r.Context())
	if !ok {
		response.JSON(w, r, http.StatusUnauthorized, response.Error("unauthorized"))
		return
	}
	orders, err := h.service.ListMine(r.Context(), identity)
	if err != nil {
		log.Error("failed to list orders", sl.Err(err))
		response.JSON(w, r, http.StatusInternalServerError, response.Internal(r, err))
		return
	}
	response.JSON(w, r, http.StatusOK, response.OK(orders))
}
