// Package listall отдаёт администратору все заказы с профилями владельцев.
package listall

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/codevault/internal/http/response"
	"github.com/magabrotheeeer/codevault/internal/lib/sl"
	"github.com/magabrotheeeer/codevault/internal/models"
)

// Service описывает чтение всех заказов.
type Service interface {
	ListAll(ctx context.Context) ([]*models.Order, error)
}

// Handler обрабатывает GET /api/orders/admin/all.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Все заказы
// @Tags Orders
// @Produce json
// @Success 200 {object} response.Response{data=[]models.Order}
// @Failure 403 {object} response.ErrorResponse
// @Router /orders/admin/all [get]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.order.listall"

	orders, err := h.service.ListAll(r.Context())
	if err != nil {
		h.log.Error("failed to list all orders",
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
			sl.Err(err))
		response.JSON(w, r, http.StatusInternalServerError, response.Internal(r, err))
		return
	}
	response.JSON(w, r, http.StatusOK, response.OK(orders))
}
